package config

import (
	"errors"
	"fmt"
	"log/slog"

	"thinfilm/types"
)

// Validate 校验配置；层拓扑的物理约束由 Build 进一步检查
func (c *Config) Validate() error {
	if err := c.validateSimulation(); err != nil {
		return err
	}
	if err := c.validateLight(); err != nil {
		return err
	}
	if err := c.validateFilms(); err != nil {
		return err
	}
	if err := c.validateStack(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateSimulation() error {
	if !(c.Simulation.PeriodNM > 0) {
		return &types.ConfigError{Param: "simulation.period_nm", Value: c.Simulation.PeriodNM, Err: types.ErrPeriodMismatch}
	}
	if c.Simulation.Workers < 0 {
		return errors.New("simulation.workers must be >= 0")
	}
	if c.Simulation.Tolerance < 0 {
		return errors.New("simulation.tolerance must be >= 0")
	}
	if _, err := types.ParsePolarization(c.Simulation.Polarization); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLight() error {
	if len(c.Light.Wavelengths) == 0 {
		return errors.New("light: set wavelengths or wl_start/wl_stop/wl_count")
	}
	if c.Light.WlCount > 1 && c.Light.WlStop < c.Light.WlStart {
		return errors.New("light.wl_stop must be >= light.wl_start")
	}
	for _, wl := range c.Light.Wavelengths {
		if _, err := types.NewLight(wl, c.lightOptions()...); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateFilms() error {
	seen := make(map[string]bool, len(c.Films))
	for _, f := range c.Films {
		if seen[f.Name] {
			return fmt.Errorf("films: duplicate name %q", f.Name)
		}
		seen[f.Name] = true

		sources := 0
		for _, set := range []bool{f.Material != "", len(f.Index) > 0, f.Table != ""} {
			if set {
				sources++
			}
		}
		if sources != 1 {
			return fmt.Errorf("films.%s: exactly one of material, index or table must be set", f.Name)
		}
		if len(f.Index) > 0 {
			if len(f.Index) != 2 {
				return fmt.Errorf("films.%s.index must be [n, k]", f.Name)
			}
			if f.Index[1] < 0 {
				return fmt.Errorf("films.%s.index: k must be >= 0", f.Name)
			}
		}
		if !f.SemiInfinite && f.HeightNM < 0 {
			return &types.ConfigError{Param: "films." + f.Name + ".height_nm", Value: f.HeightNM, Err: types.ErrInvalidThickness}
		}
	}
	return nil
}

func (c *Config) validateStack() error {
	if len(c.Stack) < 2 {
		return &types.ConfigError{Param: "stack", Value: len(c.Stack), Err: types.ErrEndLayer}
	}
	for _, name := range c.Stack {
		if _, ok := c.film(name); !ok {
			return fmt.Errorf("stack: unknown film %q", name)
		}
	}
	return nil
}

func (c *Config) validateOutput() error {
	switch c.Output.Archive {
	case "json", "sqlite", "none":
		return nil
	}
	return fmt.Errorf("output.archive must be json, sqlite or none, got %q", c.Output.Archive)
}

func (c *Config) validateLogging() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch c.Logging.Format {
	case "console", "json":
		return nil
	}
	return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
}
