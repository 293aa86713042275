package materials

import (
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/go-gota/gota/dataframe"
)

//go:embed data/*.csv
var tables embed.FS

// 表格列名
const (
	colWavelength = "wl_nm"
	colN          = "n"
	colK          = "k"
)

// LoadTable 从 CSV 读取色散表（列：wl_nm,n,k；k 列可省略）
func LoadTable(name string, r io.Reader) (*Dispersive, error) {
	df := dataframe.ReadCSV(r,
		dataframe.WithDelimiter(','),
		dataframe.HasHeader(true))
	if df.Err != nil {
		return nil, fmt.Errorf("material %s: read table: %w", name, df.Err)
	}
	names := map[string]bool{}
	for _, c := range df.Names() {
		names[c] = true
	}
	if !names[colWavelength] || !names[colN] {
		return nil, fmt.Errorf("material %s: table needs %q and %q columns", name, colWavelength, colN)
	}
	wl := df.Col(colWavelength).Float()
	n := df.Col(colN).Float()
	k := make([]float64, len(wl))
	if names[colK] {
		k = df.Col(colK).Float()
	}
	return NewDispersive(name, wl, n, k)
}

// LoadFile 从文件读取色散表，材料名取文件名
func LoadFile(file string) (*Dispersive, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	return LoadTable(name, f)
}

// 内置材料
var (
	Air = NewConstant(1.0, "Air")

	builtinOnce sync.Once
	builtin     map[string]Material
	builtinErr  error
)

func loadBuiltin() {
	builtin = map[string]Material{"Air": Air}
	entries, err := tables.ReadDir("data")
	if err != nil {
		builtinErr = err
		return
	}
	for _, e := range entries {
		f, err := tables.Open("data/" + e.Name())
		if err != nil {
			builtinErr = err
			return
		}
		name := strings.TrimSuffix(e.Name(), ".csv")
		m, err := LoadTable(name, f)
		f.Close()
		if err != nil {
			builtinErr = err
			return
		}
		builtin[name] = m
	}
}

// Lookup 按名称查找内置材料（Air, Si_c, Si_a, InP, SiO2）
func Lookup(name string) (Material, error) {
	builtinOnce.Do(loadBuiltin)
	if builtinErr != nil {
		return nil, builtinErr
	}
	m, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("unknown material %q (known: %s)", name, strings.Join(Names(), ", "))
	}
	return m, nil
}

// Names 内置材料名称（已排序）
func Names() []string {
	builtinOnce.Do(loadBuiltin)
	out := make([]string, 0, len(builtin))
	for name := range builtin {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
