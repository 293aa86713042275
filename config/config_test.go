package config_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thinfilm/config"
	"thinfilm/types"
)

func TestSampleConfigLoadsAndBuilds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thinfilm.toml")
	require.NoError(t, config.WriteSample(path))
	assert.Error(t, config.WriteSample(path), "sample must not overwrite")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"substrate", "absorber", "superstrate"}, cfg.Stack)
	assert.Equal(t, types.PolTM, cfg.Polarization())
	assert.Equal(t, "console", cfg.Logging.Format)

	lights, err := cfg.Lights()
	require.NoError(t, err)
	require.Len(t, lights, 4)
	assert.Equal(t, 400.0, lights[0].Wavelength)
	assert.Equal(t, 800.0, lights[3].Wavelength)

	sim, err := cfg.Build()
	require.NoError(t, err)
	require.Len(t, sim.Films, 3)
	assert.True(t, sim.Films[0].SemiInfinite)
	assert.False(t, sim.Films[0].Loss)
	assert.True(t, sim.Films[1].Loss)
	assert.Equal(t, 100.0, sim.Films[1].Height)
}

func TestParseRepeatedFilmsShareIdentity(t *testing.T) {
	doc := `
stack = ["glass", "hi", "lo", "hi", "lo", "air"]

[light]
wavelengths = [500, 600]

[[films]]
name = "glass"
index = [1.5, 0]
semi_infinite = true

[[films]]
name = "hi"
index = [2.3, 0]
height_nm = 60

[[films]]
name = "lo"
index = [1.4, 0]
height_nm = 90

[[films]]
name = "air"
material = "Air"
semi_infinite = true
`
	cfg, err := config.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, []float64{500, 600}, cfg.Light.Wavelengths)
	sim, err := cfg.Build()
	require.NoError(t, err)
	require.Len(t, sim.Films, 6)
	assert.Same(t, sim.Films[1], sim.Films[3])
	assert.Same(t, sim.Films[2], sim.Films[4])
	assert.Equal(t, 600.0, sim.Films[1].Period)
}

func TestParseRejects(t *testing.T) {
	films := `
[[films]]
name = "sub"
material = "Si_c"
semi_infinite = true
loss = false

[[films]]
name = "air"
material = "Air"
semi_infinite = true
`
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{"unknown field", "stack = [\"sub\", \"air\"]\nbogus = 1\n[light]\nwavelengths=[500]\n" + films, "strict mode"},
		{"no wavelengths", "stack = [\"sub\", \"air\"]\n" + films, "wavelengths"},
		{"unknown film", "stack = [\"sub\", \"nope\"]\n[light]\nwavelengths=[500]\n" + films, "nope"},
		{"bad polarization", "stack = [\"sub\", \"air\"]\n[simulation]\npolarization=\"X\"\n[light]\nwavelengths=[500]\n" + films, "pol"},
		{"bad archive", "stack = [\"sub\", \"air\"]\n[light]\nwavelengths=[500]\n[output]\narchive=\"xml\"\n" + films, "archive"},
		{"bad log format", "stack = [\"sub\", \"air\"]\n[light]\nwavelengths=[500]\n[logging]\nformat=\"xml\"\n" + films, "logging.format"},
		{"bad level", "stack = [\"sub\", \"air\"]\n[light]\nwavelengths=[500]\n[logging]\nlevel=\"loud\"\n" + films, "logging.level"},
		{"bad theta", "stack = [\"sub\", \"air\"]\n[light]\nwavelengths=[500]\ntheta=95\n" + films, "theta"},
		{"two sources", "stack = [\"x\", \"air\"]\n[light]\nwavelengths=[500]\n[[films]]\nname=\"x\"\nmaterial=\"Air\"\nindex=[1,0]\nsemi_infinite=true\n", "exactly one"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := config.Parse(strings.NewReader(c.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), c.want)
		})
	}
}

func TestBuildRejectsLossySubstrate(t *testing.T) {
	doc := `
stack = ["sub", "air"]
[light]
wavelengths = [500]
[[films]]
name = "sub"
material = "Si_c"
semi_infinite = true
loss = true
[[films]]
name = "air"
material = "Air"
semi_infinite = true
`
	cfg, err := config.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	_, err = cfg.Build()
	assert.ErrorIs(t, err, types.ErrLossySemiInfinite)
	assert.True(t, types.IsConfigError(err))
}

func TestLoadResolvesTableRelativeToConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "glass.csv"), []byte("wl_nm,n,k\n300,1.52,0\n900,1.50,0\n"), 0o644))
	doc := `
stack = ["glass", "air"]
[light]
wavelengths = [600]
[[films]]
name = "glass"
table = "glass.csv"
semi_infinite = true
[[films]]
name = "air"
material = "Air"
semi_infinite = true
`
	path := filepath.Join(dir, "run.toml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "glass.csv"), cfg.Films[0].Table)
	sim, err := cfg.Build()
	require.NoError(t, err)
	n, err := sim.Films[0].Material.Index(600)
	require.NoError(t, err)
	assert.InDelta(t, 1.51, real(n), 1e-12)
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg, err := config.Parse(strings.NewReader(config.SampleConfig()))
	require.NoError(t, err)
	data, err := cfg.Marshal()
	require.NoError(t, err)
	again, err := config.Parse(strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Equal(t, cfg.Stack, again.Stack)
	assert.Equal(t, cfg.Light.Wavelengths, again.Light.Wavelengths)
}

func TestFilmNamedLikeBuiltinKeepsItsOwnIndex(t *testing.T) {
	doc := `
stack = ["Air", "top"]
[simulation]
polarization = "TE"
[light]
wavelengths = [500]
max_order_pws = 0
[[films]]
name = "Air"
index = [1.5, 0]
semi_infinite = true
[[films]]
name = "top"
material = "Air"
semi_infinite = true
`
	cfg, err := config.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	sim, err := cfg.Build()
	require.NoError(t, err)
	lights, err := cfg.Lights()
	require.NoError(t, err)

	res, err := sim.Simulate(context.Background(), lights[0])
	require.NoError(t, err)
	assert.InDelta(t, 0.04, res.R, 1e-9)
	assert.InDelta(t, 0.96, res.T, 1e-9)
}
