// Package mode 计算单层的平面波模式基：面内波矢、k_z 分支、导纳与相位因子。
package mode

import (
	"math"
	"sort"

	"thinfilm/types"
)

// Order 衍射级次 (p, q)
type Order struct {
	P, Q int
}

// Basis 平面波基
// 面内波矢只由周期、入射角与级次决定，同一次仿真所有层共享
type Basis struct {
	Period float64
	Orders []Order
	Kx, Ky []float64 // 每个级次的面内波矢（1/nm）
	ux, uy []float64 // 每个级次 TM 方向的面内单位矢量
}

// NewBasis 构造截断到 light.MaxOrderPWs 的平面波基
// 级次满足 p²+q² ≤ N²，按 (p²+q², p, q) 排序，镜面级次 (0,0) 在首位
func NewBasis(light types.Light, period float64) (*Basis, error) {
	if !(period > 0) {
		return nil, &types.ConfigError{Param: "period", Value: period, Err: types.ErrPeriodMismatch}
	}
	if err := light.Validate(); err != nil {
		return nil, err
	}
	n := light.MaxOrderPWs
	var orders []Order
	for p := -n; p <= n; p++ {
		for q := -n; q <= n; q++ {
			if p*p+q*q <= n*n {
				orders = append(orders, Order{P: p, Q: q})
			}
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		ri := orders[i].P*orders[i].P + orders[i].Q*orders[i].Q
		rj := orders[j].P*orders[j].P + orders[j].Q*orders[j].Q
		if ri != rj {
			return ri < rj
		}
		if orders[i].P != orders[j].P {
			return orders[i].P < orders[j].P
		}
		return orders[i].Q < orders[j].Q
	})

	nInc := light.IncidentIndex
	if nInc == 0 {
		nInc = types.DefaultIncidence
	}
	theta := light.Theta * math.Pi / 180
	phi := light.Phi * math.Pi / 180
	k0 := light.K0()
	kx0 := nInc * k0 * math.Sin(theta) * math.Cos(phi)
	ky0 := nInc * k0 * math.Sin(theta) * math.Sin(phi)
	g := 2 * math.Pi / period

	b := &Basis{
		Period: period,
		Orders: orders,
		Kx:     make([]float64, len(orders)),
		Ky:     make([]float64, len(orders)),
		ux:     make([]float64, len(orders)),
		uy:     make([]float64, len(orders)),
	}
	for i, o := range orders {
		kx := kx0 + g*float64(o.P)
		ky := ky0 + g*float64(o.Q)
		b.Kx[i], b.Ky[i] = kx, ky
		kt := math.Hypot(kx, ky)
		if kt < types.PropagatingTol*k0 {
			// 法向入射的镜面级次：偏振方向由方位角确定
			b.ux[i], b.uy[i] = math.Cos(phi), math.Sin(phi)
		} else {
			b.ux[i], b.uy[i] = kx/kt, ky/kt
		}
	}
	return b, nil
}

// NumModes 模式数（每个级次 TE、TM 各一个）
func (b *Basis) NumModes() int {
	return 2 * len(b.Orders)
}

// Specular 镜面级次下标
func (b *Basis) Specular() int {
	for i, o := range b.Orders {
		if o.P == 0 && o.Q == 0 {
			return i
		}
	}
	return -1
}

// polarization 模式 m 的面内电场单位矢量：TE ⟂ k_t，TM ∥ k_t
func (b *Basis) polarization(m int) (float64, float64) {
	o := m / 2
	if m%2 == 0 {
		return -b.uy[o], b.ux[o]
	}
	return b.ux[o], b.uy[o]
}

// Same 判断两个基是否描述同一组平面波
func (b *Basis) Same(other *Basis) bool {
	if b == other {
		return true
	}
	if b.Period != other.Period || len(b.Orders) != len(other.Orders) {
		return false
	}
	for i := range b.Orders {
		if b.Orders[i] != other.Orders[i] || b.Kx[i] != other.Kx[i] || b.Ky[i] != other.Ky[i] {
			return false
		}
	}
	return true
}
