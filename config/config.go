package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// SampleConfig 示例配置（config init 写出的内容）
func SampleConfig() string {
	return sampleConfig
}

// Simulation 全局仿真参数
type Simulation struct {
	PeriodNM     float64 `toml:"period_nm"`
	Workers      int     `toml:"workers"`
	Tolerance    float64 `toml:"tolerance"`
	Polarization string  `toml:"polarization"`
}

// Light 波长网格与入射条件
// 给出 wavelengths 时忽略 wl_start/wl_stop/wl_count
type Light struct {
	Wavelengths   []float64 `toml:"wavelengths"`
	WlStart       float64   `toml:"wl_start"`
	WlStop        float64   `toml:"wl_stop"`
	WlCount       int       `toml:"wl_count"`
	Theta         float64   `toml:"theta"`
	Phi           float64   `toml:"phi"`
	MaxOrderPWs   int       `toml:"max_order_pws"`
	IncidentIndex float64   `toml:"incident_index"`
}

// Film 单层定义，material、index、table 三选一
type Film struct {
	Name         string    `toml:"name"`
	Material     string    `toml:"material"`
	Index        []float64 `toml:"index"` // [n, k]
	Table        string    `toml:"table"` // CSV 色散表路径
	HeightNM     float64   `toml:"height_nm"`
	SemiInfinite bool      `toml:"semi_infinite"`
	Loss         *bool     `toml:"loss"` // 缺省为 true
}

// Output 输出选项
type Output struct {
	Dir           string `toml:"dir"`
	Archive       string `toml:"archive"` // json | sqlite | none
	Plot          bool   `toml:"plot"`
	Chart         bool   `toml:"chart"`
	ClearPrevious bool   `toml:"clear_previous"`
}

// Logging 日志选项
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // console | json
}

// Config 一次运行的完整配置
//
//   - Simulation: 周期、并发数、容差、偏振
//   - Light: 波长网格与入射角
//   - Films: 层定义，Stack 按名称自下而上引用（可重复）
//   - Output: 输出目录、归档格式、图表
//   - Logging: 日志级别与格式
type Config struct {
	Stack      []string   `toml:"stack"`
	Simulation Simulation `toml:"simulation"`
	Light      Light      `toml:"light"`
	Films      []Film     `toml:"films"`
	Output     Output     `toml:"output"`
	Logging    Logging    `toml:"logging"`
}

// Load 读取、规范化并校验配置文件
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()
	cfg, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	// 相对路径的色散表以配置文件所在目录为基准
	base := filepath.Dir(path)
	for i := range cfg.Films {
		if t := cfg.Films[i].Table; t != "" && !filepath.IsAbs(t) {
			cfg.Films[i].Table = filepath.Join(base, t)
		}
	}
	return cfg, nil
}

// Parse 从 reader 解析配置，未知字段视为错误
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	decoder := toml.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Marshal 序列化为 TOML（写入归档元数据）
func (c *Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	encoder.SetIndentTables(true)
	if err := encoder.Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteSample 写出示例配置，已存在时不覆盖
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config %s already exists", path)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	return filepath.Clean(pathValue), nil
}
