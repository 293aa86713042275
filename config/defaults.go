package config

const (
	defaultPeriodNM     = 600
	defaultWorkers      = 2
	defaultTolerance    = 1e-6
	defaultPolarization = "TM"
	defaultMaxOrder     = 1
	defaultOutputDir    = "results"
	defaultArchive      = "json"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Default 默认配置（不含层定义）
func Default() Config {
	return Config{
		Simulation: Simulation{
			PeriodNM:     defaultPeriodNM,
			Workers:      defaultWorkers,
			Tolerance:    defaultTolerance,
			Polarization: defaultPolarization,
		},
		Light: Light{
			MaxOrderPWs:   defaultMaxOrder,
			IncidentIndex: 1,
		},
		Output: Output{
			Dir:     defaultOutputDir,
			Archive: defaultArchive,
			Plot:    true,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
