package types

import (
	"errors"
	"fmt"
)

// 配置错误：在扫描开始前检测，整个运行失败
var (
	ErrPeriodMismatch       = errors.New("period must be identical across all layers")
	ErrEndLayer             = errors.New("stack must start and end with a semi-infinite layer")
	ErrInteriorSemiInfinite = errors.New("interior layers must have finite thickness")
	ErrLossySemiInfinite    = errors.New("semi-infinite layers must be lossless")
	ErrInvalidThickness     = errors.New("invalid layer thickness")
	ErrInvalidLight         = errors.New("invalid light parameter")
	ErrBasisMismatch        = errors.New("mode bases differ between layers")
	ErrMissingMaterial      = errors.New("layer has no material")
)

// 单个波长的失败
var (
	ErrOutOfRange         = errors.New("wavelength outside material table")
	ErrDegenerateMode     = errors.New("degenerate mode: out-of-plane wavevector vanishes")
	ErrEnergyConservation = errors.New("energy conservation violated")
	ErrNoIncidentFlux     = errors.New("incident order carries no flux in the superstrate")
)

// ConfigError 配置错误，带出错参数
type ConfigError struct {
	Param string
	Value any
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s=%v: %v", e.Param, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// MaterialError 折射率查询失败
type MaterialError struct {
	Material   string
	Wavelength float64
	Err        error
}

func (e *MaterialError) Error() string {
	return fmt.Sprintf("material %s at %g nm: %v", e.Material, e.Wavelength, e.Err)
}

func (e *MaterialError) Unwrap() error { return e.Err }

// NumericalError 数值失败（奇异矩阵、能量不守恒）
type NumericalError struct {
	Wavelength float64
	Violation  float64 // 能量守恒偏差 |R+T+ΣA-1|，奇异时为 0
	Err        error
}

func (e *NumericalError) Error() string {
	if e.Violation != 0 {
		return fmt.Sprintf("numerical failure at %g nm (violation %.3g): %v", e.Wavelength, e.Violation, e.Err)
	}
	return fmt.Sprintf("numerical failure at %g nm: %v", e.Wavelength, e.Err)
}

func (e *NumericalError) Unwrap() error { return e.Err }

// IsConfigError 判断是否为运行级配置错误
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
