package config

import (
	"fmt"
	"strings"

	"thinfilm/types"
)

func (c *Config) normalize() error {
	c.normalizeFilms()
	c.normalizeLight()
	if err := c.normalizeOutput(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeFilms() {
	for i := range c.Films {
		f := &c.Films[i]
		f.Name = strings.TrimSpace(f.Name)
		f.Material = strings.TrimSpace(f.Material)
		f.Table = strings.TrimSpace(f.Table)
		if f.Name == "" {
			switch {
			case f.Material != "":
				f.Name = f.Material
			default:
				f.Name = fmt.Sprintf("film%d", i)
			}
		}
	}
	for i := range c.Stack {
		c.Stack[i] = strings.TrimSpace(c.Stack[i])
	}
}

// normalizeLight 由 wl_start/wl_stop/wl_count 展开波长网格
func (c *Config) normalizeLight() {
	if len(c.Light.Wavelengths) > 0 {
		return
	}
	c.Light.Wavelengths = types.Wavelengths(c.Light.WlStart, c.Light.WlStop, c.Light.WlCount)
}

func (c *Config) normalizeOutput() error {
	var err error
	if strings.TrimSpace(c.Output.Dir) == "" {
		c.Output.Dir = defaultOutputDir
	}
	if c.Output.Dir, err = expandPath(strings.TrimSpace(c.Output.Dir)); err != nil {
		return fmt.Errorf("output.dir: %w", err)
	}
	c.Output.Archive = strings.ToLower(strings.TrimSpace(c.Output.Archive))
	if c.Output.Archive == "" {
		c.Output.Archive = defaultArchive
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "text":
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
