package materials

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thinfilm/types"
)

func TestConstant(t *testing.T) {
	m := NewConstant(2.0 + 0.1i)
	n, err := m.Index(123)
	require.NoError(t, err)
	assert.Equal(t, 2.0+0.1i, n)
	assert.True(t, m.SupportsLoss())
	assert.False(t, Air.SupportsLoss())
	assert.Equal(t, "Air", Air.Name())
}

func TestLoadTableInterpolates(t *testing.T) {
	csv := "wl_nm,n,k\n600,2.0,0.2\n400,1.0,0.0\n"
	m, err := LoadTable("test", strings.NewReader(csv))
	require.NoError(t, err)
	lo, hi := m.Range()
	assert.Equal(t, 400.0, lo)
	assert.Equal(t, 600.0, hi)

	n, err := m.Index(500)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, real(n), 1e-12)
	assert.InDelta(t, 0.1, imag(n), 1e-12)

	n, err = m.Index(600)
	require.NoError(t, err)
	assert.Equal(t, 2.0+0.2i, n)
	assert.True(t, m.SupportsLoss())
}

func TestDispersiveOutOfRange(t *testing.T) {
	m, err := Lookup("Si_c")
	require.NoError(t, err)
	_, err = m.Index(2000)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrOutOfRange)
	var merr *types.MaterialError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, "Si_c", merr.Material)
	assert.Equal(t, 2000.0, merr.Wavelength)
}

func TestLoadTableRejectsBadInput(t *testing.T) {
	_, err := LoadTable("x", strings.NewReader("lambda,n\n400,1\n500,1\n"))
	assert.Error(t, err)
	_, err = LoadTable("x", strings.NewReader("wl_nm,n,k\n400,1,0\n400,1,0\n"))
	assert.Error(t, err)
	_, err = LoadTable("x", strings.NewReader("wl_nm,n,k\n400,1,-0.1\n500,1,0\n"))
	assert.Error(t, err)
}

func TestLossless(t *testing.T) {
	si, err := Lookup("Si_c")
	require.NoError(t, err)
	require.True(t, si.SupportsLoss())

	ll := Lossless(si)
	assert.False(t, ll.SupportsLoss())
	n, err := ll.Index(500)
	require.NoError(t, err)
	assert.Equal(t, 0.0, imag(n))
	assert.InDelta(t, 4.30, real(n), 1e-12)
	assert.Equal(t, ll, Lossless(ll))
}

func TestBuiltinNames(t *testing.T) {
	names := Names()
	for _, want := range []string{"Air", "InP", "SiO2", "Si_a", "Si_c"} {
		assert.Contains(t, names, want)
	}
	_, err := Lookup("Unobtainium")
	assert.Error(t, err)
}

func TestCacheConcurrent(t *testing.T) {
	c := NewCache()
	m := NewConstant(1.5, "glass")
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			n, err := c.Index(m, float64(400+i%4))
			assert.NoError(t, err)
			assert.Equal(t, complex128(1.5), n)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 4, c.Len())

	si, _ := Lookup("Si_c")
	_, err := c.Index(si, 5000)
	assert.ErrorIs(t, err, types.ErrOutOfRange)
	assert.Equal(t, 4, c.Len())
}

func TestCacheKeepsSameNamedMaterialsApart(t *testing.T) {
	c := NewCache()
	low := NewConstant(1.5, "x")
	high := NewConstant(3.5, "x")

	n, err := c.Index(low, 500)
	require.NoError(t, err)
	assert.Equal(t, complex128(1.5), n)
	n, err = c.Index(high, 500)
	require.NoError(t, err)
	assert.Equal(t, complex128(3.5), n)

	lossy := NewConstant(2+0.1i, "x")
	n, err = c.Index(Lossless(lossy), 500)
	require.NoError(t, err)
	assert.Equal(t, complex128(2), n)
	n, err = c.Index(lossy, 500)
	require.NoError(t, err)
	assert.Equal(t, 2+0.1i, n)
	assert.Equal(t, 4, c.Len())
}
