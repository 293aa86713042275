package types

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Polarization 入射偏振
type Polarization int

const (
	PolTE Polarization = iota // s 偏振
	PolTM                     // p 偏振
	PolRightCircular
	PolLeftCircular
)

// String 与配置文件中的写法一致
func (p Polarization) String() string {
	switch p {
	case PolTE:
		return "TE"
	case PolTM:
		return "TM"
	case PolRightCircular:
		return "R Circ"
	case PolLeftCircular:
		return "L Circ"
	}
	return fmt.Sprintf("Polarization(%d)", int(p))
}

// ParsePolarization 解析偏振名称
func ParsePolarization(s string) (Polarization, error) {
	switch strings.ToLower(strings.Join(strings.Fields(s), " ")) {
	case "te", "s":
		return PolTE, nil
	case "tm", "p":
		return PolTM, nil
	case "r circ", "rcp", "right":
		return PolRightCircular, nil
	case "l circ", "lcp", "left":
		return PolLeftCircular, nil
	}
	return 0, &ConfigError{Param: "pol", Value: s, Err: ErrInvalidLight}
}

// Light 单个仿真条件（不可变值类型）
type Light struct {
	Wavelength    float64 // 波长 nm
	Theta         float64 // 极角（度）
	Phi           float64 // 方位角（度）
	MaxOrderPWs   int     // 平面波截断阶数
	IncidentIndex float64 // 入射介质折射率，0 表示由上覆层推导
}

// LightOption 构造选项
type LightOption func(*Light)

// WithAngles 设置入射角（度）
func WithAngles(theta, phi float64) LightOption {
	return func(l *Light) { l.Theta, l.Phi = theta, phi }
}

// WithMaxOrder 设置平面波截断阶数
func WithMaxOrder(n int) LightOption {
	return func(l *Light) { l.MaxOrderPWs = n }
}

// WithIncidentIndex 设置入射介质折射率
func WithIncidentIndex(n float64) LightOption {
	return func(l *Light) { l.IncidentIndex = n }
}

// NewLight 创建并校验 Light
func NewLight(wavelength float64, opts ...LightOption) (Light, error) {
	l := Light{
		Wavelength:    wavelength,
		MaxOrderPWs:   DefaultMaxOrder,
		IncidentIndex: DefaultIncidence,
	}
	for _, opt := range opts {
		opt(&l)
	}
	return l, l.Validate()
}

// Validate 校验参数范围
func (l Light) Validate() error {
	switch {
	case !(l.Wavelength > 0) || math.IsInf(l.Wavelength, 0):
		return &ConfigError{Param: "wavelength", Value: l.Wavelength, Err: ErrInvalidLight}
	case l.Theta < 0 || l.Theta >= 90:
		return &ConfigError{Param: "theta", Value: l.Theta, Err: ErrInvalidLight}
	case l.MaxOrderPWs < 0:
		return &ConfigError{Param: "max_order_pws", Value: l.MaxOrderPWs, Err: ErrInvalidLight}
	case l.IncidentIndex < 0:
		return &ConfigError{Param: "incident_index", Value: l.IncidentIndex, Err: ErrInvalidLight}
	}
	return nil
}

// K0 真空波数 2π/λ
func (l Light) K0() float64 {
	return 2 * math.Pi / l.Wavelength
}

// WithIndex 返回替换入射折射率后的副本
func (l Light) WithIndex(n float64) Light {
	l.IncidentIndex = n
	return l
}

// Wavelengths 在 [start, stop] 上生成 n 个等间距波长
func Wavelengths(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{start}
	}
	return floats.Span(make([]float64, n), start, stop)
}

// Lights 以相同参数为每个波长生成 Light
func Lights(wavelengths []float64, opts ...LightOption) ([]Light, error) {
	out := make([]Light, 0, len(wavelengths))
	for _, wl := range wavelengths {
		l, err := NewLight(wl, opts...)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}
