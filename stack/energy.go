package stack

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"

	"thinfilm/mode"
	"thinfilm/types"
)

// downwardFlux 某一平面上的净向下能流（时间平均 Poynting 矢量 z 分量，差一个常数因子）
//
//	S↓ = Σ Re(Y)(|d|² − |u|²) − 2·Im(Y)·Im(d·u*)
//
// 交叉项只在倏逝模式或吸收层中非零。propagatingOnly 时只统计传播模式
func downwardFlux(s *mode.Solution, d, u []complex128, propagatingOnly bool) float64 {
	terms := make([]float64, len(d))
	for m := range d {
		if propagatingOnly && !s.Propagating[m] {
			continue
		}
		y := s.Admittance[m]
		terms[m] = real(y)*(sqAbs(d[m])-sqAbs(u[m])) - 2*imag(y)*imag(d[m]*cmplx.Conj(u[m]))
	}
	return floats.Sum(terms)
}

// outgoingFlux 半无限层中离开界面的能流，只计传播模式
func outgoingFlux(s *mode.Solution, amp []complex128) float64 {
	terms := make([]float64, len(amp))
	for m, a := range amp {
		if s.Propagating[m] {
			terms[m] = real(s.Admittance[m]) * sqAbs(a)
		}
	}
	return floats.Sum(terms)
}

func sqAbs(z complex128) float64 {
	return real(z)*real(z) + imag(z)*imag(z)
}

// OrderEfficiency 单个衍射级次的反射、透射效率（TE 与 TM 之和）
type OrderEfficiency struct {
	Order mode.Order
	R, T  float64
}

func orderEfficiencies(sup, sub *mode.Solution, r, t []complex128, inc float64) []OrderEfficiency {
	var out []OrderEfficiency
	for o, order := range sup.Basis.Orders {
		te, tm := 2*o, 2*o+1
		if !sup.Propagating[te] && !sub.Propagating[te] {
			continue
		}
		e := OrderEfficiency{Order: order}
		if sup.Propagating[te] {
			e.R = (real(sup.Admittance[te])*sqAbs(r[te]) + real(sup.Admittance[tm])*sqAbs(r[tm])) / inc
		}
		if sub.Propagating[te] {
			e.T = (real(sub.Admittance[te])*sqAbs(t[te]) + real(sub.Admittance[tm])*sqAbs(t[tm])) / inc
		}
		out = append(out, e)
	}
	return out
}

// Result 单个波长、单个偏振的散射结果
type Result struct {
	Wavelength float64
	Pol        types.Polarization

	R, T float64 // 传播级次的总反射率、透射率
	A    float64 // 1 − R − T

	LayerA     []float64 // 内部各层吸收，自下而上
	LayerNames []string

	Reflection   []complex128 // 上覆层中各模式反射振幅
	Transmission []complex128 // 衬底中各模式透射振幅
	Orders       []OrderEfficiency

	EnergyError float64 // R + T + ΣA_layer − 1
}

// AbsorbedTotal 各层吸收之和
func (r *Result) AbsorbedTotal() float64 {
	return floats.Sum(r.LayerA)
}

// check 能量守恒与非负性
func (r *Result) check(tol float64) error {
	if tol <= 0 {
		tol = types.Tolerance
	}
	r.EnergyError = r.R + r.T + r.AbsorbedTotal() - 1
	violation := math.Abs(r.EnergyError)
	if math.IsNaN(violation) {
		return &types.NumericalError{Wavelength: r.Wavelength, Violation: math.Inf(1), Err: types.ErrEnergyConservation}
	}
	if violation >= tol {
		return &types.NumericalError{Wavelength: r.Wavelength, Violation: violation, Err: types.ErrEnergyConservation}
	}
	worst := math.Min(r.R, r.T)
	if len(r.LayerA) > 0 {
		worst = math.Min(worst, floats.Min(r.LayerA))
	}
	if worst < -tol {
		return &types.NumericalError{Wavelength: r.Wavelength, Violation: -worst, Err: types.ErrEnergyConservation}
	}
	return nil
}
