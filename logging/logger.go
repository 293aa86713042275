// Package logging 构造运行级的 slog 日志器。
// 计算内核（maths、mode、stack）不写日志，只返回错误；日志只出现在运行编排层。
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Options 日志构造参数
type Options struct {
	Level       string
	Format      string   // console | json
	OutputPaths []string // stdout、stderr 或文件路径
}

// New 创建日志器，返回的 Closer 关闭打开的日志文件
func New(opts Options) (*slog.Logger, io.Closer, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(defaultString(opts.Level, "info"))); err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}

	out, closer, err := openWriters(defaultSlice(opts.OutputPaths, []string{"stderr"}))
	if err != nil {
		return nil, nil, err
	}

	handlerOpts := &slog.HandlerOptions{Level: level, AddSource: level <= slog.LevelDebug}
	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(defaultString(opts.Format, "console"))) {
	case "json":
		handler = slog.NewJSONHandler(out, handlerOpts)
	case "console", "text":
		handler = slog.NewTextHandler(out, handlerOpts)
	default:
		closer.Close()
		return nil, nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}
	return slog.New(handler), closer, nil
}

// Discard 丢弃所有输出的日志器
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func defaultString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func defaultSlice(value []string, fallback []string) []string {
	if len(value) == 0 {
		return append([]string(nil), fallback...)
	}
	return append([]string(nil), value...)
}

// files 需要关闭的日志文件
type files []*os.File

func (fs files) Close() error {
	var errs []error
	for _, f := range fs {
		errs = append(errs, f.Close())
	}
	return errors.Join(errs...)
}

func openWriters(paths []string) (io.Writer, io.Closer, error) {
	seen := map[string]struct{}{}
	var writers []io.Writer
	var opened files
	for _, path := range paths {
		trimmed := strings.TrimSpace(path)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}

		switch trimmed {
		case "stdout":
			writers = append(writers, os.Stdout)
		case "stderr":
			writers = append(writers, os.Stderr)
		default:
			if err := os.MkdirAll(filepath.Dir(trimmed), 0o755); err != nil {
				opened.Close()
				return nil, nil, fmt.Errorf("ensure log directory: %w", err)
			}
			f, err := os.OpenFile(trimmed, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				opened.Close()
				return nil, nil, fmt.Errorf("open log file %q: %w", trimmed, err)
			}
			opened = append(opened, f)
			writers = append(writers, f)
		}
	}
	if len(writers) == 0 {
		return io.Discard, opened, nil
	}
	return io.MultiWriter(writers...), opened, nil
}
