package mode

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thinfilm/types"
)

func mustLight(t *testing.T, wl float64, opts ...types.LightOption) types.Light {
	t.Helper()
	l, err := types.NewLight(wl, opts...)
	require.NoError(t, err)
	return l
}

func TestBasisOrders(t *testing.T) {
	b, err := NewBasis(mustLight(t, 500, types.WithMaxOrder(2)), 600)
	require.NoError(t, err)
	// p²+q² ≤ 4: 1 + 4 + 4 + 4 = 13
	assert.Len(t, b.Orders, 13)
	assert.Equal(t, 26, b.NumModes())
	assert.Equal(t, 0, b.Specular())
	assert.Equal(t, Order{0, 0}, b.Orders[0])
	assert.Equal(t, Order{-1, 0}, b.Orders[1])

	b0, err := NewBasis(mustLight(t, 500, types.WithMaxOrder(0)), 600)
	require.NoError(t, err)
	assert.Equal(t, 2, b0.NumModes())

	_, err = NewBasis(mustLight(t, 500), 0)
	assert.ErrorIs(t, err, types.ErrPeriodMismatch)
}

func TestBasisObliqueWavevector(t *testing.T) {
	l := mustLight(t, 500, types.WithAngles(30, 90), types.WithMaxOrder(0))
	b, err := NewBasis(l, 600)
	require.NoError(t, err)
	k0 := l.K0()
	assert.InDelta(t, 0, b.Kx[0], 1e-12)
	assert.InDelta(t, 0.5*k0, b.Ky[0], 1e-12)
	assert.True(t, b.Same(b))

	other, err := NewBasis(l, 700)
	require.NoError(t, err)
	assert.False(t, b.Same(other))
}

func TestComputeNormalIncidence(t *testing.T) {
	l := mustLight(t, 500, types.WithMaxOrder(0))
	b, err := NewBasis(l, 600)
	require.NoError(t, err)
	k0 := l.K0()

	s, err := Compute(l, b, Layer{Name: "glass", Index: 1.5, Height: 100})
	require.NoError(t, err)
	assert.InDelta(t, 1.5*k0, real(s.Kz[0]), 1e-12)
	assert.InDelta(t, 1.5, real(s.Admittance[0]), 1e-12)
	assert.InDelta(t, 1.5, real(s.Admittance[1]), 1e-12)
	assert.True(t, s.Propagating[0])
	assert.InDelta(t, 1, cmplx.Abs(s.Phase[0]), 1e-12)
	assert.True(t, s.Lossless())

	lossy, err := Compute(l, b, Layer{Name: "film", Index: 2 + 0.1i, Height: 100})
	require.NoError(t, err)
	assert.False(t, lossy.Propagating[0])
	assert.Greater(t, imag(lossy.Kz[0]), 0.0)
	assert.Less(t, cmplx.Abs(lossy.Phase[0]), 1.0)
}

func TestComputeEvanescentOrders(t *testing.T) {
	// 周期小于波长：±1 级在空气中为倏逝波
	l := mustLight(t, 500, types.WithMaxOrder(1))
	b, err := NewBasis(l, 300)
	require.NoError(t, err)
	s, err := Compute(l, b, Layer{Name: "air", Index: 1, SemiInfinite: true})
	require.NoError(t, err)
	assert.Nil(t, s.Phase)
	for m := 0; m < s.NumModes(); m++ {
		assert.GreaterOrEqual(t, imag(s.Kz[m]), 0.0)
		if m/2 == b.Specular() {
			assert.True(t, s.Propagating[m])
		} else {
			assert.False(t, s.Propagating[m])
			assert.InDelta(t, 0, real(s.Kz[m]), 1e-12)
		}
	}
}

func TestComputeDegenerate(t *testing.T) {
	// k_x = 2π/λ 恰好掠射
	l := mustLight(t, 500, types.WithMaxOrder(1))
	b, err := NewBasis(l, 500)
	require.NoError(t, err)
	_, err = Compute(l, b, Layer{Name: "air", Index: 1, SemiInfinite: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrDegenerateMode)
	var nerr *types.NumericalError
	assert.ErrorAs(t, err, &nerr)
}

func TestComputeRejectsNegativeThickness(t *testing.T) {
	l := mustLight(t, 500, types.WithMaxOrder(0))
	b, err := NewBasis(l, 600)
	require.NoError(t, err)
	_, err = Compute(l, b, Layer{Name: "bad", Index: 1.5, Height: -1})
	assert.ErrorIs(t, err, types.ErrInvalidThickness)
	assert.True(t, types.IsConfigError(err))
}

func TestBranch(t *testing.T) {
	assert.Equal(t, complex(0, 2), Branch(complex(0, -2)))
	assert.Equal(t, complex(3, 0), Branch(complex(-3, 0)))
	assert.Equal(t, complex(-1, 1), Branch(complex(1, -1)))
}

func TestIncidentAndOverlap(t *testing.T) {
	l := mustLight(t, 500, types.WithMaxOrder(1), types.WithAngles(20, 45))
	b, err := NewBasis(l, 600)
	require.NoError(t, err)
	s, err := Compute(l, b, Layer{Name: "air", Index: 1, SemiInfinite: true})
	require.NoError(t, err)

	te := s.Incident(types.PolTE)
	assert.Equal(t, complex128(1), te[0])
	tm := s.Incident(types.PolTM)
	assert.Equal(t, complex128(1), tm[1])
	rc := s.Incident(types.PolRightCircular)
	var norm float64
	for _, v := range rc {
		norm += real(v * cmplx.Conj(v))
	}
	assert.InDelta(t, 1, norm, 1e-12)
	assert.InDelta(t, 1/math.Sqrt2, imag(rc[1]), 1e-12)

	o, err := Overlap(s, s)
	require.NoError(t, err)
	for i := 0; i < s.NumModes(); i++ {
		for j := 0; j < s.NumModes(); j++ {
			want := complex128(0)
			if i == j {
				want = 1
			}
			assert.InDelta(t, real(want), real(o.Get(i, j)), 1e-12)
		}
	}
}
