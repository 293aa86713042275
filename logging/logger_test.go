package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "run.log")
	logger, closer, err := New(Options{Level: "debug", Format: "json", OutputPaths: []string{path, path}})
	require.NoError(t, err)
	logger.Info("wavelength done", "wavelength", 500.0, "ok", true)
	logger.Debug("detail")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "wavelength done", entry["msg"])
	assert.Equal(t, 500.0, entry["wavelength"])
}

func TestNewLevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	logger, closer, err := New(Options{Level: "warn", OutputPaths: []string{path}})
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "msg=shown")
}

func TestNewRejectsBadOptions(t *testing.T) {
	_, _, err := New(Options{Format: "xml", OutputPaths: []string{"stdout"}})
	assert.Error(t, err)
	_, _, err = New(Options{Level: "loud"})
	assert.Error(t, err)
}
