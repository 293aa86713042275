package mode

import (
	"math"
	"math/cmplx"

	"thinfilm/maths"
	"thinfilm/types"
)

// Solution 单层在给定 Light 下的模式解，计算后只读
type Solution struct {
	Name         string
	Light        types.Light
	Basis        *Basis
	Index        complex128 // 层折射率（已按损耗开关处理）
	Height       float64    // 厚度 nm，半无限层无意义
	SemiInfinite bool

	Kz          []complex128 // 每个模式的 k_z，Im ≥ 0
	Admittance  []complex128 // 切向 H/E 比：TE k_z/k0，TM n²k0/k_z
	Phase       []complex128 // exp(i k_z d)，半无限层为 nil
	Propagating []bool       // 是否携带能量
}

// Layer 描述计算模式解所需的层参数
type Layer struct {
	Name         string
	Index        complex128
	Height       float64
	SemiInfinite bool
}

// Compute 计算层的模式解
// k_z = sqrt((n k0)² − k_x² − k_y²)，取 Im(k_z) ≥ 0 的分支使倏逝波随传播衰减
func Compute(light types.Light, basis *Basis, layer Layer) (*Solution, error) {
	if !layer.SemiInfinite && (layer.Height < 0 || math.IsNaN(layer.Height) || math.IsInf(layer.Height, 0)) {
		return nil, &types.ConfigError{Param: layer.Name + ".height_nm", Value: layer.Height, Err: types.ErrInvalidThickness}
	}
	k0 := light.K0()
	nk0 := layer.Index * complex(k0, 0)
	lossless := imag(layer.Index) == 0
	modes := basis.NumModes()

	s := &Solution{
		Name:         layer.Name,
		Light:        light,
		Basis:        basis,
		Index:        layer.Index,
		Height:       layer.Height,
		SemiInfinite: layer.SemiInfinite,
		Kz:           make([]complex128, modes),
		Admittance:   make([]complex128, modes),
		Propagating:  make([]bool, modes),
	}
	if !layer.SemiInfinite {
		s.Phase = make([]complex128, modes)
	}

	for o := range basis.Orders {
		kt2 := basis.Kx[o]*basis.Kx[o] + basis.Ky[o]*basis.Ky[o]
		kz := Branch(cmplx.Sqrt(nk0*nk0 - complex(kt2, 0)))
		if cmplx.Abs(kz) < types.DegenerateKz*k0 {
			return nil, &types.NumericalError{Wavelength: light.Wavelength, Err: types.ErrDegenerateMode}
		}
		propagating := lossless && math.Abs(imag(kz)) <= types.PropagatingTol*k0 && real(kz) > 0
		te, tm := 2*o, 2*o+1
		s.Kz[te], s.Kz[tm] = kz, kz
		s.Admittance[te] = kz / complex(k0, 0)
		s.Admittance[tm] = nk0 * layer.Index / kz
		s.Propagating[te], s.Propagating[tm] = propagating, propagating
		if s.Phase != nil {
			p := cmplx.Exp(1i * kz * complex(layer.Height, 0))
			s.Phase[te], s.Phase[tm] = p, p
		}
	}
	return s, nil
}

// Branch 统一 k_z 分支：Im ≥ 0；纯实数时 Re ≥ 0
func Branch(kz complex128) complex128 {
	if imag(kz) < 0 || (imag(kz) == 0 && real(kz) < 0) {
		return -kz
	}
	return kz
}

// NumModes 模式数
func (s *Solution) NumModes() int {
	return len(s.Kz)
}

// Period 周期
func (s *Solution) Period() float64 {
	return s.Basis.Period
}

// Lossless 层是否无吸收
func (s *Solution) Lossless() bool {
	return imag(s.Index) == 0
}

// AdmittanceMatrix 导纳对角矩阵
func (s *Solution) AdmittanceMatrix() maths.Matrix[complex128] {
	return maths.NewDiagonal(s.Admittance)
}

// PhaseMatrix 传播相位对角矩阵，所有元素模 ≤ 1；半无限层返回单位阵
func (s *Solution) PhaseMatrix() maths.Matrix[complex128] {
	if s.Phase == nil {
		return maths.NewIdentity[complex128](s.NumModes())
	}
	return maths.NewDiagonal(s.Phase)
}

// Incident 入射场在本层模式上的振幅（仅镜面级次非零）
func (s *Solution) Incident(pol types.Polarization) []complex128 {
	v := make([]complex128, s.NumModes())
	o := s.Basis.Specular()
	te, tm := 2*o, 2*o+1
	switch pol {
	case types.PolTE:
		v[te] = 1
	case types.PolTM:
		v[tm] = 1
	case types.PolRightCircular:
		v[te], v[tm] = complex(1/math.Sqrt2, 0), complex(0, 1/math.Sqrt2)
	case types.PolLeftCircular:
		v[te], v[tm] = complex(1/math.Sqrt2, 0), complex(0, -1/math.Sqrt2)
	}
	return v
}

// Overlap 模式 a 在模式 b 上的投影矩阵 O[j][i] = <b_j, a_i>
// 同级次的面内偏振矢量做内积，不同级次正交
func Overlap(a, b *Solution) (maths.Matrix[complex128], error) {
	if !a.Basis.Same(b.Basis) {
		return nil, &types.ConfigError{Param: b.Name + ".basis", Value: b.Basis.Period, Err: types.ErrBasisMismatch}
	}
	n := a.NumModes()
	o := maths.NewDenseMatrix[complex128](n, n)
	for i := 0; i < n; i++ {
		ax, ay := a.Basis.polarization(i)
		for j := 0; j < n; j++ {
			if i/2 != j/2 {
				continue
			}
			bx, by := b.Basis.polarization(j)
			if v := ax*bx + ay*by; math.Abs(v) > 1e-15 {
				o.Set(j, i, complex(v, 0))
			}
		}
	}
	return o, nil
}
