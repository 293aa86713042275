package stack

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats/scalar"

	"thinfilm/materials"
	"thinfilm/maths"
	"thinfilm/mode"
	"thinfilm/types"
)

// layer 测试用层：h < 0 表示半无限
type layer struct {
	n complex128
	h float64
}

func half(n complex128) layer { return layer{n: n, h: -1} }

func build(t *testing.T, light types.Light, period float64, layers ...layer) *Stack {
	t.Helper()
	basis, err := mode.NewBasis(light, period)
	require.NoError(t, err)
	sols := make([]*mode.Solution, len(layers))
	for i, l := range layers {
		sols[i], err = mode.Compute(light, basis, mode.Layer{
			Name:         "layer",
			Index:        l.n,
			Height:       math.Max(l.h, 0),
			SemiInfinite: l.h < 0,
		})
		require.NoError(t, err)
	}
	s, err := New(sols...)
	require.NoError(t, err)
	return s
}

func light(t *testing.T, wl float64, opts ...types.LightOption) types.Light {
	t.Helper()
	l, err := types.NewLight(wl, opts...)
	require.NoError(t, err)
	return l
}

func TestSingleAbsorbingFilm(t *testing.T) {
	si, err := materials.Lookup("Si_c")
	require.NoError(t, err)
	nSi, err := materials.Lossless(si).Index(500)
	require.NoError(t, err)

	s := build(t, light(t, 500), 600, half(nSi), layer{2 + 0.1i, 100}, half(1))
	res, err := s.CalcScat(types.PolTM)
	require.NoError(t, err)

	assert.Less(t, math.Abs(res.R+res.T+res.AbsorbedTotal()-1), 1e-6)
	assert.Less(t, math.Abs(res.EnergyError), 1e-6)
	require.Len(t, res.LayerA, 1)
	assert.Greater(t, res.LayerA[0], 0.0)
	assert.Greater(t, res.A, 0.0)
	assert.InDelta(t, res.A, res.LayerA[0], 1e-6)
	assert.GreaterOrEqual(t, res.R, 0.0)
	assert.GreaterOrEqual(t, res.T, 0.0)
}

func TestZeroThicknessLayerIsInvisible(t *testing.T) {
	l := light(t, 500)
	with := build(t, l, 600, half(4.3), layer{1.5, 0}, half(1))
	without := build(t, l, 600, half(4.3), half(1))

	for _, pol := range []types.Polarization{types.PolTE, types.PolTM} {
		a, err := with.CalcScat(pol)
		require.NoError(t, err)
		b, err := without.CalcScat(pol)
		require.NoError(t, err)
		assert.InDelta(t, b.R, a.R, 1e-12)
		assert.InDelta(t, b.T, a.T, 1e-12)

		fresnel := math.Pow((1-4.3)/(1+4.3), 2)
		assert.InDelta(t, fresnel, b.R, 1e-12)
		assert.InDelta(t, 1-fresnel, b.T, 1e-12)
	}
}

func TestIdenticalHalfSpacesReflectNothing(t *testing.T) {
	s := build(t, light(t, 633), 600, half(1), layer{1.5, 0}, half(1))
	res, err := s.CalcScat(types.PolTE)
	require.NoError(t, err)
	assert.InDelta(t, 0, res.R, 1e-12)
	assert.InDelta(t, 1, res.T, 1e-12)
}

func TestAiryFormula(t *testing.T) {
	const (
		n1, n2 = 2.0, 1.5
		d      = 150.0
	)
	r01 := (1 - n1) / (1 + n1)
	r12 := (n1 - n2) / (n1 + n2)
	for _, wl := range []float64{400, 475.5, 550, 800} {
		s := build(t, light(t, wl, types.WithMaxOrder(0)), 600, half(n2), layer{n1, d}, half(1))
		res, err := s.CalcScat(types.PolTE)
		require.NoError(t, err)

		phase := cmplx.Exp(complex(0, 2*2*math.Pi*n1*d/wl))
		r := (complex(r01, 0) + complex(r12, 0)*phase) / (1 + complex(r01*r12, 0)*phase)
		want := real(r * cmplx.Conj(r))
		assert.True(t, scalar.EqualWithinAbs(want, res.R, 1e-10), "wl=%g want %g got %g", wl, want, res.R)
		assert.InDelta(t, 1-want, res.T, 1e-10)
		assert.InDelta(t, 0, res.LayerA[0], 1e-10)
	}
}

func TestObliqueFresnelAndBrewster(t *testing.T) {
	const n = 1.5
	brewster := math.Atan(n) * 180 / math.Pi
	s := build(t, light(t, 500, types.WithMaxOrder(0), types.WithAngles(brewster, 0)), 600, half(n), half(1))

	tm, err := s.CalcScat(types.PolTM)
	require.NoError(t, err)
	assert.InDelta(t, 0, tm.R, 1e-12)

	te, err := s.CalcScat(types.PolTE)
	require.NoError(t, err)
	ci := math.Cos(brewster * math.Pi / 180)
	ct := math.Sqrt(1 - math.Pow(math.Sin(brewster*math.Pi/180)/n, 2))
	rs := (ci - n*ct) / (ci + n*ct)
	assert.InDelta(t, rs*rs, te.R, 1e-12)
	assert.InDelta(t, 1-rs*rs, te.T, 1e-12)
}

func TestCircularPolarizationAveragesAtNormalIncidence(t *testing.T) {
	s := build(t, light(t, 550), 600, half(1.5), layer{2 + 0.05i, 80}, half(1))
	te, err := s.CalcScat(types.PolTE)
	require.NoError(t, err)
	rc, err := s.CalcScat(types.PolRightCircular)
	require.NoError(t, err)
	lc, err := s.CalcScat(types.PolLeftCircular)
	require.NoError(t, err)
	assert.InDelta(t, te.R, rc.R, 1e-12)
	assert.InDelta(t, rc.R, lc.R, 1e-12)
	assert.InDelta(t, te.LayerA[0], rc.LayerA[0], 1e-12)
}

func TestOrderingMatters(t *testing.T) {
	l := light(t, 500)
	ab := build(t, l, 600, half(1.5), layer{2, 50}, layer{3 + 0.2i, 80}, half(1))
	ba := build(t, l, 600, half(1.5), layer{3 + 0.2i, 80}, layer{2, 50}, half(1))
	x, err := ab.CalcScat(types.PolTE)
	require.NoError(t, err)
	y, err := ba.CalcScat(types.PolTE)
	require.NoError(t, err)
	assert.Greater(t, math.Abs(x.R-y.R), 1e-3)
	assert.InDelta(t, 0, x.LayerA[0], 1e-10)
	assert.Greater(t, x.LayerA[1], 0.0)
}

func TestIdempotent(t *testing.T) {
	s := build(t, light(t, 700, types.WithAngles(20, 30), types.WithMaxOrder(2)), 450,
		half(1.45), layer{3.5 + 0.01i, 120}, layer{1.45, 60}, half(1))
	a, err := s.CalcScat(types.PolTM)
	require.NoError(t, err)
	b, err := s.CalcScat(types.PolTM)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestThickLossyLayerStaysBounded(t *testing.T) {
	// 周期小于波长：高级次在所有层中均为倏逝波，传输矩阵法在此会溢出
	s := build(t, light(t, 500, types.WithMaxOrder(2)), 300,
		half(1.5), layer{2 + 0.5i, 1e5}, layer{1.2, 5e4}, half(1))
	res, err := s.CalcScat(types.PolTE)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(res.R))
	assert.InDelta(t, 0, res.T, 1e-12)
	assert.Less(t, math.Abs(res.EnergyError), 1e-6)

	sm, err := s.Scattering()
	require.NoError(t, err)
	assert.LessOrEqual(t, sm.Rtop.MaxAbs(), 1.0+1e-9)
	for _, a := range res.Reflection {
		assert.False(t, cmplx.IsNaN(a))
	}
}

func TestOrderEfficienciesForUniformLayers(t *testing.T) {
	// 均匀层不耦合衍射级次：只有镜面级次有能量
	s := build(t, light(t, 500, types.WithMaxOrder(1)), 1200, half(1.5), layer{2, 100}, half(1))
	res, err := s.CalcScat(types.PolTE)
	require.NoError(t, err)
	require.NotEmpty(t, res.Orders)
	assert.Equal(t, mode.Order{}, res.Orders[0].Order)
	assert.InDelta(t, res.R, res.Orders[0].R, 1e-12)
	assert.InDelta(t, res.T, res.Orders[0].T, 1e-12)
	for _, o := range res.Orders[1:] {
		assert.InDelta(t, 0, o.R, 1e-20)
		assert.InDelta(t, 0, o.T, 1e-20)
	}
}

func TestNewValidation(t *testing.T) {
	l := light(t, 500)
	basis, err := mode.NewBasis(l, 600)
	require.NoError(t, err)
	other, err := mode.NewBasis(l, 700)
	require.NoError(t, err)
	wide, err := mode.NewBasis(light(t, 500, types.WithMaxOrder(2)), 600)
	require.NoError(t, err)

	sol := func(b *mode.Basis, n complex128, semi bool) *mode.Solution {
		s, err := mode.Compute(l, b, mode.Layer{Name: "x", Index: n, Height: 10, SemiInfinite: semi})
		require.NoError(t, err)
		return s
	}
	air := sol(basis, 1, true)
	film := sol(basis, 2, false)

	cases := []struct {
		name string
		sols []*mode.Solution
		want error
	}{
		{"too short", []*mode.Solution{air}, types.ErrEndLayer},
		{"finite end", []*mode.Solution{air, film}, types.ErrEndLayer},
		{"semi-infinite interior", []*mode.Solution{air, air, air}, types.ErrInteriorSemiInfinite},
		{"lossy end", []*mode.Solution{sol(basis, 3 + 0.1i, true), air}, types.ErrLossySemiInfinite},
		{"period mismatch", []*mode.Solution{air, sol(other, 2, false), air}, types.ErrPeriodMismatch},
		{"basis mismatch", []*mode.Solution{air, sol(wide, 2, false), air}, types.ErrBasisMismatch},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := New(c.sols...)
			assert.ErrorIs(t, err, c.want)
			assert.True(t, types.IsConfigError(err))
		})
	}

	s, err := New(air, film, air)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())
	assert.Same(t, air, s.Substrate())
}

func TestStarIdentity(t *testing.T) {
	s := build(t, light(t, 500), 600, half(1.5), layer{2, 100}, half(1))
	sm, err := s.Scattering()
	require.NoError(t, err)
	left, err := Star(Identity(sm.Size()), sm)
	require.NoError(t, err)
	right, err := Star(sm, Identity(sm.Size()))
	require.NoError(t, err)
	for _, got := range []*SMatrix{left, right} {
		assert.True(t, maths.EqualApprox(sm.Rtop, got.Rtop, 1e-14))
		assert.True(t, maths.EqualApprox(sm.Tdown, got.Tdown, 1e-14))
		assert.True(t, maths.EqualApprox(sm.Rbot, got.Rbot, 1e-14))
		assert.True(t, maths.EqualApprox(sm.Tup, got.Tup, 1e-14))
	}
}

func TestSingularStarIsNumericalError(t *testing.T) {
	n := 2
	// Rbot_b·Rtop_a = I 使 (I − Rbot_b·Rtop_a) 奇异
	a := Identity(n)
	a.Rtop = maths.NewIdentity[complex128](n)
	b := Identity(n)
	b.Rbot = maths.NewIdentity[complex128](n)
	_, err := Star(a, b)
	assert.ErrorIs(t, err, maths.ErrSingular)
}
