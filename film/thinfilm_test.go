package film

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thinfilm/materials"
	"thinfilm/types"
)

func TestNewDefaults(t *testing.T) {
	f := New(600, 100, materials.NewConstant(2+0.1i, "film"))
	assert.True(t, f.Loss)
	assert.False(t, f.SemiInfinite)
	assert.Equal(t, "film", f.Name)

	sub := New(600, 0, materials.Air, SemiInfinite(), WithName("superstrate"))
	assert.True(t, sub.SemiInfinite)
	assert.Equal(t, "superstrate", sub.Name)
}

func TestValidate(t *testing.T) {
	si, err := materials.Lookup("Si_c")
	require.NoError(t, err)

	cases := []struct {
		name string
		film *ThinFilm
		want error
	}{
		{"finite", New(600, 100, si), nil},
		{"zero thickness", New(600, 0, si), nil},
		{"negative thickness", New(600, -5, si), types.ErrInvalidThickness},
		{"no period", New(0, 100, si), types.ErrPeriodMismatch},
		{"lossy half-space", New(600, 0, si, SemiInfinite()), types.ErrLossySemiInfinite},
		{"lossless half-space", New(600, 0, si, SemiInfinite(), WithLoss(false)), nil},
		{"air with loss flag", New(600, 0, materials.Air, SemiInfinite()), nil},
		{"no material", New(600, 100, nil), types.ErrMissingMaterial},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.film.Validate()
			if c.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, c.want)
			assert.True(t, types.IsConfigError(err))
		})
	}
}

func TestCalcModesLossSwitch(t *testing.T) {
	light, err := types.NewLight(500, types.WithMaxOrder(0))
	require.NoError(t, err)
	m := materials.NewConstant(2+0.1i, "film")

	lossy, err := New(600, 100, m).CalcModes(light, nil)
	require.NoError(t, err)
	assert.Equal(t, 2+0.1i, lossy.Index)
	assert.False(t, lossy.Lossless())

	ll, err := New(600, 100, m, WithLoss(false)).CalcModes(light, materials.NewCache())
	require.NoError(t, err)
	assert.Equal(t, complex128(2), ll.Index)
	assert.True(t, ll.Propagating[0])
}

func TestCalcModesMaterialOutOfRange(t *testing.T) {
	si, err := materials.Lookup("Si_c")
	require.NoError(t, err)
	light, err := types.NewLight(5000)
	require.NoError(t, err)
	_, err = New(600, 100, si).CalcModes(light, nil)
	assert.ErrorIs(t, err, types.ErrOutOfRange)
	var merr *types.MaterialError
	assert.ErrorAs(t, err, &merr)
}
