// Package thinfilm 多层薄膜散射矩阵仿真：层定义 → 模式解 → 叠层散射 → 波长扫描。
package thinfilm

import (
	"context"
	"fmt"

	"thinfilm/film"
	"thinfilm/materials"
	"thinfilm/mode"
	"thinfilm/stack"
	"thinfilm/sweep"
	"thinfilm/types"
)

// Simulation 固定的层拓扑，对每个 Light 独立计算
type Simulation struct {
	Films     []*film.ThinFilm // 自下而上：衬底, 内部层..., 上覆层；同一层可重复出现
	Pol       types.Polarization
	Tolerance float64          // 能量守恒容差，0 取默认值
	Cache     *materials.Cache // 折射率缓存，可为 nil
}

// NewSimulation 创建仿真
func NewSimulation(pol types.Polarization, films ...*film.ThinFilm) *Simulation {
	return &Simulation{
		Films:     films,
		Pol:       pol,
		Tolerance: types.Tolerance,
		Cache:     materials.NewCache(),
	}
}

// Validate 扫描前的拓扑检查：周期一致、两端半无限且无损、内部有限厚
func (sim *Simulation) Validate() error {
	n := len(sim.Films)
	if n < 2 {
		return &types.ConfigError{Param: "stack", Value: n, Err: types.ErrEndLayer}
	}
	period := sim.Films[0].Period
	for i, f := range sim.Films {
		if f == nil {
			return &types.ConfigError{Param: fmt.Sprintf("stack[%d]", i), Value: nil, Err: types.ErrMissingMaterial}
		}
		if err := f.Validate(); err != nil {
			return err
		}
		end := i == 0 || i == n-1
		switch {
		case end && !f.SemiInfinite:
			return &types.ConfigError{Param: fmt.Sprintf("stack[%d]", i), Value: f.Name, Err: types.ErrEndLayer}
		case !end && f.SemiInfinite:
			return &types.ConfigError{Param: fmt.Sprintf("stack[%d]", i), Value: f.Name, Err: types.ErrInteriorSemiInfinite}
		}
		if f.Period != period {
			return &types.ConfigError{Param: fmt.Sprintf("stack[%d].period", i), Value: f.Period, Err: types.ErrPeriodMismatch}
		}
	}
	return nil
}

// Superstrate 入射介质
func (sim *Simulation) Superstrate() *film.ThinFilm {
	return sim.Films[len(sim.Films)-1]
}

// Simulate 计算单个波长
// 同一波长内模式解按层对象缓存，重复出现的层只求解一次
func (sim *Simulation) Simulate(ctx context.Context, light types.Light) (*stack.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if light.IncidentIndex == 0 {
		n, err := sim.Cache.Index(sim.Superstrate().Effective(), light.Wavelength)
		if err != nil {
			return nil, err
		}
		light = light.WithIndex(real(n))
	}
	basis, err := mode.NewBasis(light, sim.Films[0].Period)
	if err != nil {
		return nil, err
	}

	solved := make(map[*film.ThinFilm]*mode.Solution, len(sim.Films))
	sols := make([]*mode.Solution, len(sim.Films))
	for i, f := range sim.Films {
		if s, ok := solved[f]; ok {
			sols[i] = s
			continue
		}
		s, err := f.CalcModesWithBasis(light, basis, sim.Cache)
		if err != nil {
			return nil, err
		}
		solved[f] = s
		sols[i] = s
	}

	st, err := stack.New(sols...)
	if err != nil {
		return nil, err
	}
	if sim.Tolerance > 0 {
		st.Tolerance = sim.Tolerance
	}
	return st.CalcScat(sim.Pol)
}

// Sweep 扫描多个波长
// 拓扑错误在调度任何任务前返回
func (sim *Simulation) Sweep(ctx context.Context, lights []types.Light, opts sweep.Options) ([]sweep.Outcome, error) {
	if err := sim.Validate(); err != nil {
		return nil, err
	}
	for _, l := range lights {
		if err := l.Validate(); err != nil {
			return nil, err
		}
	}
	return sweep.Run(ctx, lights, sim.Simulate, opts)
}
