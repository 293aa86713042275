package config

import (
	"thinfilm"
	"thinfilm/film"
	"thinfilm/materials"
	"thinfilm/types"
)

func (c *Config) film(name string) (Film, bool) {
	for _, f := range c.Films {
		if f.Name == name {
			return f, true
		}
	}
	return Film{}, false
}

func (c *Config) lightOptions() []types.LightOption {
	return []types.LightOption{
		types.WithAngles(c.Light.Theta, c.Light.Phi),
		types.WithMaxOrder(c.Light.MaxOrderPWs),
		types.WithIncidentIndex(c.Light.IncidentIndex),
	}
}

// Lights 展开后的 Light 序列（按波长网格顺序）
func (c *Config) Lights() ([]types.Light, error) {
	return types.Lights(c.Light.Wavelengths, c.lightOptions()...)
}

// Polarization 入射偏振
func (c *Config) Polarization() types.Polarization {
	pol, _ := types.ParsePolarization(c.Simulation.Polarization)
	return pol
}

// material 解析层的材料定义
func (f Film) material() (materials.Material, error) {
	switch {
	case len(f.Index) == 2:
		return materials.NewConstant(complex(f.Index[0], f.Index[1]), f.Name), nil
	case f.Table != "":
		return materials.LoadFile(f.Table)
	default:
		return materials.Lookup(f.Material)
	}
}

// Build 构建仿真拓扑并做扫描前校验
// 同名层在叠层中重复出现时共享同一个 ThinFilm
func (c *Config) Build() (*thinfilm.Simulation, error) {
	built := make(map[string]*film.ThinFilm, len(c.Films))
	films := make([]*film.ThinFilm, 0, len(c.Stack))
	for _, name := range c.Stack {
		if f, ok := built[name]; ok {
			films = append(films, f)
			continue
		}
		def, _ := c.film(name)
		m, err := def.material()
		if err != nil {
			return nil, err
		}
		opts := []film.Option{film.WithName(def.Name)}
		if def.SemiInfinite {
			opts = append(opts, film.SemiInfinite())
		}
		if def.Loss != nil {
			opts = append(opts, film.WithLoss(*def.Loss))
		}
		f := film.New(c.Simulation.PeriodNM, def.HeightNM, m, opts...)
		built[name] = f
		films = append(films, f)
	}

	sim := thinfilm.NewSimulation(c.Polarization(), films...)
	if c.Simulation.Tolerance > 0 {
		sim.Tolerance = c.Simulation.Tolerance
	}
	if err := sim.Validate(); err != nil {
		return nil, err
	}
	return sim, nil
}
