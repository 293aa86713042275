// Package archive 把一次运行的全部结果写成一个带时间戳、永不覆盖的归档文件（JSON 或 SQLite）。
package archive

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"thinfilm/stack"
	"thinfilm/sweep"
)

// Prefix 归档文件名前缀，后接 YYYYMMDDhhmmss
const Prefix = "Simo_results"

const lockName = ".thinfilm.lock"

// 归档格式
const (
	FormatJSON   = "json"
	FormatSQLite = "sqlite"
)

// ErrLocked 等待目录锁期间 ctx 已结束
var ErrLocked = errors.New("output directory is locked by another run")

// Metadata 运行元数据
type Metadata struct {
	RunID        string        `json:"run_id"`
	Started      time.Time     `json:"started"`
	Elapsed      time.Duration `json:"elapsed_ns"`
	Polarization string        `json:"polarization"`
	Stack        []string      `json:"stack"`
	Config       string        `json:"config,omitempty"` // TOML 原文
	Succeeded    int           `json:"succeeded"`
	Failed       int           `json:"failed"`
}

// Order 单个衍射级次效率
type Order struct {
	P int     `json:"p"`
	Q int     `json:"q"`
	R float64 `json:"r"`
	T float64 `json:"t"`
}

// Entry 单个波长的结果或失败原因
type Entry struct {
	Index        int          `json:"index"`
	Wavelength   float64      `json:"wavelength_nm"`
	OK           bool         `json:"ok"`
	Error        string       `json:"error,omitempty"`
	R            float64      `json:"r"`
	T            float64      `json:"t"`
	A            float64      `json:"a"`
	EnergyError  float64      `json:"energy_error"`
	LayerNames   []string     `json:"layer_names,omitempty"`
	LayerA       []float64    `json:"layer_a,omitempty"`
	Orders       []Order      `json:"orders,omitempty"`
	Reflection   [][2]float64 `json:"reflection,omitempty"` // [re, im]
	Transmission [][2]float64 `json:"transmission,omitempty"`
}

// Run 一次运行的完整归档内容，Entries 与输入波长顺序一致
type Run struct {
	Metadata Metadata `json:"metadata"`
	Entries  []Entry  `json:"entries"`
}

// NewRun 由扫描结果构造归档内容，RunID 为空时生成
func NewRun(meta Metadata, outcomes []sweep.Outcome) *Run {
	if meta.RunID == "" {
		meta.RunID = uuid.NewString()
	}
	run := &Run{Metadata: meta, Entries: make([]Entry, len(outcomes))}
	run.Metadata.Succeeded, run.Metadata.Failed = 0, 0
	for i, o := range outcomes {
		e := Entry{Index: o.Index, Wavelength: o.Light.Wavelength}
		if o.OK() {
			fill(&e, o.Result)
			run.Metadata.Succeeded++
		} else {
			e.Error = errorString(o.Err)
			run.Metadata.Failed++
		}
		run.Entries[i] = e
	}
	return run
}

func fill(e *Entry, r *stack.Result) {
	e.OK = true
	e.R, e.T, e.A = r.R, r.T, r.A
	e.EnergyError = r.EnergyError
	e.LayerNames = append([]string(nil), r.LayerNames...)
	e.LayerA = append([]float64(nil), r.LayerA...)
	for _, o := range r.Orders {
		e.Orders = append(e.Orders, Order{P: o.Order.P, Q: o.Order.Q, R: o.R, T: o.T})
	}
	e.Reflection = pairs(r.Reflection)
	e.Transmission = pairs(r.Transmission)
}

func pairs(z []complex128) [][2]float64 {
	out := make([][2]float64, len(z))
	for i, v := range z {
		out[i] = [2]float64{real(v), imag(v)}
	}
	return out
}

func errorString(err error) string {
	if err == nil {
		return "no result"
	}
	return err.Error()
}

// lockRetry 等待目录锁的轮询间隔
const lockRetry = 50 * time.Millisecond

// Write 把归档写入 dir，返回文件路径
// 写入期间持有目录锁，锁被占用时等待直到 ctx 结束；同一秒内的多次运行以数字后缀区分，已有文件从不覆盖
func Write(ctx context.Context, dir, format string, run *Run, now time.Time) (string, error) {
	var ext string
	switch format {
	case FormatJSON:
		ext = "json"
	case FormatSQLite:
		ext = "db"
	default:
		return "", fmt.Errorf("archive format %q not supported", format)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	lock := flock.New(filepath.Join(dir, lockName))
	ok, err := lock.TryLockContext(ctx, lockRetry)
	if err != nil && ctx.Err() != nil {
		return "", fmt.Errorf("%w: %w", ErrLocked, err)
	}
	if err != nil {
		return "", fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return "", ErrLocked
	}
	defer lock.Unlock()

	f, path, err := create(dir, now, ext)
	if err != nil {
		return "", err
	}
	switch format {
	case FormatJSON:
		err = writeJSON(f, run)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	case FormatSQLite:
		f.Close()
		err = writeSQLite(path, run)
	}
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write archive %s: %w", path, err)
	}
	return path, nil
}

// Name 时间戳对应的归档文件名（不含后缀序号）
func Name(now time.Time, ext string) string {
	return fmt.Sprintf("%s%s.%s", Prefix, now.Format("20060102150405"), ext)
}

// create 以 O_EXCL 创建归档文件，重名时追加 _1、_2 ...
func create(dir string, now time.Time, ext string) (*os.File, string, error) {
	base := Prefix + now.Format("20060102150405")
	for i := 0; ; i++ {
		name := Name(now, ext)
		if i > 0 {
			name = fmt.Sprintf("%s_%d.%s", base, i, ext)
		}
		path := filepath.Join(dir, name)
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			return f, path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", fmt.Errorf("create archive: %w", err)
		}
	}
}

// Read 按扩展名读取归档
func Read(path string) (*Run, error) {
	switch filepath.Ext(path) {
	case ".json":
		return readJSON(path)
	case ".db":
		return readSQLite(path)
	}
	return nil, fmt.Errorf("unknown archive type %q", path)
}
