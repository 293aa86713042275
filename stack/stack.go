// Package stack 把按物理顺序（自下而上）排列的各层模式解组合成散射矩阵，
// 并由此计算反射、透射与逐层吸收。
package stack

import (
	"errors"
	"fmt"

	"thinfilm/maths"
	"thinfilm/mode"
	"thinfilm/types"
)

// Stack 自下而上的层序列：首项为衬底，末项为上覆层，均为半无限层
// 构造后只读，顺序有物理意义
type Stack struct {
	layers    []*mode.Solution
	Tolerance float64 // 能量守恒容差
}

// New 校验并创建叠层
func New(solutions ...*mode.Solution) (*Stack, error) {
	if len(solutions) < 2 {
		return nil, &types.ConfigError{Param: "stack", Value: len(solutions), Err: types.ErrEndLayer}
	}
	last := len(solutions) - 1
	for i, s := range solutions {
		if s == nil {
			return nil, &types.ConfigError{Param: fmt.Sprintf("stack[%d]", i), Value: nil, Err: types.ErrMissingMaterial}
		}
		end := i == 0 || i == last
		switch {
		case end && !s.SemiInfinite:
			return nil, &types.ConfigError{Param: fmt.Sprintf("stack[%d]", i), Value: s.Name, Err: types.ErrEndLayer}
		case !end && s.SemiInfinite:
			return nil, &types.ConfigError{Param: fmt.Sprintf("stack[%d]", i), Value: s.Name, Err: types.ErrInteriorSemiInfinite}
		case end && !s.Lossless():
			return nil, &types.ConfigError{Param: fmt.Sprintf("stack[%d]", i), Value: s.Name, Err: types.ErrLossySemiInfinite}
		}
		if s.Period() != solutions[0].Period() {
			return nil, &types.ConfigError{Param: fmt.Sprintf("stack[%d].period", i), Value: s.Period(), Err: types.ErrPeriodMismatch}
		}
		if !s.Basis.Same(solutions[0].Basis) {
			return nil, &types.ConfigError{Param: fmt.Sprintf("stack[%d].basis", i), Value: s.Name, Err: types.ErrBasisMismatch}
		}
	}
	layers := make([]*mode.Solution, len(solutions))
	copy(layers, solutions)
	return &Stack{layers: layers, Tolerance: types.Tolerance}, nil
}

// Len 层数（含两端半无限层）
func (s *Stack) Len() int {
	return len(s.layers)
}

// Substrate 衬底
func (s *Stack) Substrate() *mode.Solution {
	return s.layers[0]
}

// Superstrate 上覆层（入射介质）
func (s *Stack) Superstrate() *mode.Solution {
	return s.layers[len(s.layers)-1]
}

// Wavelength 叠层对应的波长
func (s *Stack) Wavelength() float64 {
	return s.layers[0].Light.Wavelength
}

// partials 部分散射矩阵
//
//	below[j] 衬底到第 j 层底面（振幅在第 j 层内）
//	above[j] 第 j 层顶面到上覆层（振幅在第 j 层内）
//
// below[len-1] 即整个叠层
type partials struct {
	below []*SMatrix
	above []*SMatrix
	props []*SMatrix
}

func (s *Stack) compose() (*partials, error) {
	n := len(s.layers)
	ifaces := make([]*SMatrix, n-1)
	for k := 0; k < n-1; k++ {
		sm, err := Interface(s.layers[k], s.layers[k+1])
		if err != nil {
			return nil, err
		}
		ifaces[k] = sm
	}
	p := &partials{
		below: make([]*SMatrix, n),
		above: make([]*SMatrix, n),
		props: make([]*SMatrix, n),
	}
	for j := 1; j < n-1; j++ {
		p.props[j] = Propagation(s.layers[j])
	}

	p.below[1] = ifaces[0]
	for j := 1; j < n-1; j++ {
		next, err := StarAll(p.below[j], p.props[j], ifaces[j])
		if err != nil {
			return nil, err
		}
		p.below[j+1] = next
	}

	p.above[n-2] = ifaces[n-2]
	for j := n - 3; j >= 1; j-- {
		next, err := StarAll(ifaces[j], p.props[j+1], p.above[j+1])
		if err != nil {
			return nil, err
		}
		p.above[j] = next
	}
	return p, nil
}

// Scattering 整个叠层的散射矩阵
func (s *Stack) Scattering() (*SMatrix, error) {
	p, err := s.compose()
	if err != nil {
		return nil, s.numerical(err, 0)
	}
	return p.below[len(s.layers)-1], nil
}

// CalcScat 计算给定偏振入射（从上覆层向下）的散射结果
// 奇异矩阵或能量不守恒返回 *types.NumericalError
func (s *Stack) CalcScat(pol types.Polarization) (*Result, error) {
	p, err := s.compose()
	if err != nil {
		return nil, s.numerical(err, 0)
	}
	n := len(s.layers)
	total := p.below[n-1]
	sup, sub := s.Superstrate(), s.Substrate()

	x := sup.Incident(pol)
	inc := downwardFlux(sup, x, make([]complex128, len(x)), true)
	if !(inc > 0) {
		return nil, s.numerical(types.ErrNoIncidentFlux, 0)
	}
	r := apply(total.Rtop, x)
	t := apply(total.Tdown, x)

	res := &Result{
		Wavelength:   s.Wavelength(),
		Pol:          pol,
		Reflection:   r,
		Transmission: t,
		LayerA:       make([]float64, 0, n-2),
		LayerNames:   make([]string, 0, n-2),
	}
	res.R = outgoingFlux(sup, r) / inc
	res.T = outgoingFlux(sub, t) / inc
	res.Orders = orderEfficiencies(sup, sub, r, t, inc)

	for j := 1; j < n-1; j++ {
		a, err := s.layerAbsorption(p, j, x)
		if err != nil {
			return nil, s.numerical(err, 0)
		}
		res.LayerA = append(res.LayerA, a/inc)
		res.LayerNames = append(res.LayerNames, s.layers[j].Name)
	}
	res.A = 1 - res.R - res.T
	if err := res.check(s.Tolerance); err != nil {
		return nil, err
	}
	return res, nil
}

// layerAbsorption 第 j 层净流入功率
//
//	d_top = (I − Rbot_B·P·Rtop_A·P)⁻¹·Tdown_B·x
//	d_bot = P·d_top, u_bot = Rtop_A·d_bot, u_top = P·u_bot
func (s *Stack) layerAbsorption(p *partials, j int, x []complex128) (float64, error) {
	below, above, prop := p.below[j], p.above[j], p.props[j]
	ph := prop.Tdown
	id := maths.NewIdentity[complex128](below.Size())
	loop := maths.Sub(id, maths.MulChain(above.Rbot, ph, below.Rtop, ph))
	m, err := maths.Solve(loop, above.Tdown)
	if err != nil {
		return 0, err
	}
	dTop := apply(m, x)
	dBot := apply(ph, dTop)
	uBot := apply(below.Rtop, dBot)
	uTop := apply(ph, uBot)

	layer := s.layers[j]
	return downwardFlux(layer, dTop, uTop, false) - downwardFlux(layer, dBot, uBot, false), nil
}

func (s *Stack) numerical(err error, violation float64) error {
	var nerr *types.NumericalError
	if errors.As(err, &nerr) || types.IsConfigError(err) {
		return err
	}
	return &types.NumericalError{Wavelength: s.Wavelength(), Violation: violation, Err: err}
}
