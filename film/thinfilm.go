// Package film 定义薄膜层（均匀层或半无限层）并计算其模式解。
package film

import (
	"math"

	"thinfilm/materials"
	"thinfilm/mode"
	"thinfilm/types"
)

// ThinFilm 一层薄膜，定义后只读
type ThinFilm struct {
	Name         string
	Period       float64 // 横向周期 nm，全叠层一致
	Height       float64 // 厚度 nm，半无限层忽略
	SemiInfinite bool
	Material     materials.Material
	Loss         bool // false 时强制折射率虚部为零
}

// Option 构造选项
type Option func(*ThinFilm)

// SemiInfinite 半无限层（衬底或上覆层）
func SemiInfinite() Option {
	return func(f *ThinFilm) { f.SemiInfinite = true }
}

// WithLoss 设置损耗开关
func WithLoss(loss bool) Option {
	return func(f *ThinFilm) { f.Loss = loss }
}

// WithName 设置层名称，默认为材料名
func WithName(name string) Option {
	return func(f *ThinFilm) { f.Name = name }
}

// New 创建薄膜层，默认保留材料损耗
func New(period, height float64, material materials.Material, opts ...Option) *ThinFilm {
	f := &ThinFilm{
		Period:   period,
		Height:   height,
		Material: material,
		Loss:     true,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.Name == "" && material != nil {
		f.Name = material.Name()
	}
	return f
}

// Validate 检查层定义本身的合法性
func (f *ThinFilm) Validate() error {
	if f.Material == nil {
		return &types.ConfigError{Param: f.Name + ".material", Value: nil, Err: types.ErrMissingMaterial}
	}
	if !(f.Period > 0) || math.IsInf(f.Period, 0) {
		return &types.ConfigError{Param: f.Name + ".period", Value: f.Period, Err: types.ErrPeriodMismatch}
	}
	if f.SemiInfinite {
		if f.Loss && f.Material.SupportsLoss() {
			return &types.ConfigError{Param: f.Name + ".loss", Value: f.Loss, Err: types.ErrLossySemiInfinite}
		}
		return nil
	}
	if f.Height < 0 || math.IsNaN(f.Height) || math.IsInf(f.Height, 0) {
		return &types.ConfigError{Param: f.Name + ".height_nm", Value: f.Height, Err: types.ErrInvalidThickness}
	}
	return nil
}

// Effective 实际参与计算的材料（Loss=false 时去掉吸收）
func (f *ThinFilm) Effective() materials.Material {
	if f.Loss {
		return f.Material
	}
	return materials.Lossless(f.Material)
}

// CalcModes 计算本层在 light 下的模式解
// cache 可为 nil
func (f *ThinFilm) CalcModes(light types.Light, cache *materials.Cache) (*mode.Solution, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	basis, err := mode.NewBasis(light, f.Period)
	if err != nil {
		return nil, err
	}
	return f.CalcModesWithBasis(light, basis, cache)
}

// CalcModesWithBasis 使用已构造的平面波基计算模式解，同一波长下各层共享一个基
func (f *ThinFilm) CalcModesWithBasis(light types.Light, basis *mode.Basis, cache *materials.Cache) (*mode.Solution, error) {
	if basis.Period != f.Period {
		return nil, &types.ConfigError{Param: f.Name + ".period", Value: f.Period, Err: types.ErrPeriodMismatch}
	}
	n, err := cache.Index(f.Effective(), light.Wavelength)
	if err != nil {
		return nil, err
	}
	return mode.Compute(light, basis, mode.Layer{
		Name:         f.Name,
		Index:        n,
		Height:       f.Height,
		SemiInfinite: f.SemiInfinite,
	})
}
