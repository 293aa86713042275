// Package materials 提供折射率模型：常数、色散表与去损耗变体。
package materials

import (
	"fmt"
	"sort"

	"thinfilm/types"
)

// Material 折射率接口
// Index 返回给定波长（nm）下的复折射率 n+ik（k≥0 表示吸收）
type Material interface {
	Name() string
	Index(wavelength float64) (complex128, error)
	SupportsLoss() bool
}

// Constant 与波长无关的折射率
type Constant struct {
	name string
	n    complex128
}

// NewConstant 创建常数折射率材料，名称为空时用折射率值命名
func NewConstant(n complex128, name ...string) *Constant {
	c := &Constant{n: n}
	if len(name) > 0 && name[0] != "" {
		c.name = name[0]
	} else {
		c.name = fmt.Sprintf("n=%g", n)
	}
	return c
}

func (c *Constant) Name() string { return c.name }

func (c *Constant) Index(float64) (complex128, error) { return c.n, nil }

func (c *Constant) SupportsLoss() bool { return imag(c.n) != 0 }

// Dispersive 色散表材料，表内线性插值，表外报错
type Dispersive struct {
	name string
	wl   []float64 // 升序
	n    []float64
	k    []float64
}

// NewDispersive 由波长/n/k 数组创建色散材料
func NewDispersive(name string, wl, n, k []float64) (*Dispersive, error) {
	if len(wl) < 2 || len(wl) != len(n) || len(wl) != len(k) {
		return nil, fmt.Errorf("material %s: table needs at least 2 rows of equal length", name)
	}
	d := &Dispersive{name: name, wl: make([]float64, len(wl)), n: make([]float64, len(wl)), k: make([]float64, len(wl))}
	idx := make([]int, len(wl))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return wl[idx[a]] < wl[idx[b]] })
	for i, j := range idx {
		d.wl[i], d.n[i], d.k[i] = wl[j], n[j], k[j]
		if i > 0 && d.wl[i] == d.wl[i-1] {
			return nil, fmt.Errorf("material %s: duplicate wavelength %g", name, d.wl[i])
		}
		if d.k[i] < 0 {
			return nil, fmt.Errorf("material %s: negative extinction at %g nm", name, d.wl[i])
		}
	}
	return d, nil
}

func (d *Dispersive) Name() string { return d.name }

// Range 表格覆盖的波长范围
func (d *Dispersive) Range() (min, max float64) {
	return d.wl[0], d.wl[len(d.wl)-1]
}

// Index 线性插值，超出表格范围返回 ErrOutOfRange
func (d *Dispersive) Index(wavelength float64) (complex128, error) {
	lo, hi := d.Range()
	if wavelength < lo || wavelength > hi {
		return 0, &types.MaterialError{Material: d.name, Wavelength: wavelength, Err: types.ErrOutOfRange}
	}
	i := sort.SearchFloat64s(d.wl, wavelength)
	if d.wl[i] == wavelength {
		return complex(d.n[i], d.k[i]), nil
	}
	t := (wavelength - d.wl[i-1]) / (d.wl[i] - d.wl[i-1])
	n := d.n[i-1] + t*(d.n[i]-d.n[i-1])
	k := d.k[i-1] + t*(d.k[i]-d.k[i-1])
	return complex(n, k), nil
}

// SupportsLoss 表中存在非零消光系数
func (d *Dispersive) SupportsLoss() bool {
	for _, k := range d.k {
		if k != 0 {
			return true
		}
	}
	return false
}

// lossless 强制虚部为零的包装
type lossless struct {
	Material
}

// Lossless 返回去掉吸收的材料（色散保留）
func Lossless(m Material) Material {
	if l, ok := m.(lossless); ok {
		return l
	}
	return lossless{Material: m}
}

func (l lossless) Name() string { return l.Material.Name() + " (lossless)" }

func (l lossless) Index(wavelength float64) (complex128, error) {
	n, err := l.Material.Index(wavelength)
	if err != nil {
		return 0, err
	}
	return complex(real(n), 0), nil
}

func (lossless) SupportsLoss() bool { return false }
