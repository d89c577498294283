package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cx-luo/go-chem/internal/config"
)

const validConfigYAML = `
match:
  max_iterations: 500000
  default_mode: exact
log:
  level: debug
  format: console
`

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "gochem.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeTempConfig(t, validConfigYAML)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 500000, cfg.Match.MaxIterations)
	assert.Equal(t, "exact", cfg.Match.DefaultMode)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, []string{"stdout"}, cfg.Log.OutputPaths)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadFromEnvAppliesDefaults(t *testing.T) {
	cfg, err := config.LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, config.DefaultMaxIterations, cfg.Match.MaxIterations)
	assert.Equal(t, config.DefaultMode, cfg.Match.DefaultMode)
	assert.Equal(t, config.DefaultLogLevel, cfg.Log.Level)
}

func TestLoadFromEnvOverride(t *testing.T) {
	t.Setenv("GOCHEM_MATCH_DEFAULT_MODE", "exact")

	cfg, err := config.LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "exact", cfg.Match.DefaultMode)
}

func TestLoadRejectsInvalidMode(t *testing.T) {
	path := writeTempConfig(t, "match:\n  default_mode: bogus\n")

	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestWatchReloadsOnChange(t *testing.T) {
	path := writeTempConfig(t, validConfigYAML)

	changed := make(chan *config.Config, 1)
	config.Watch(path, func(c *config.Config) {
		select {
		case changed <- c:
		default:
		}
	})

	require.NoError(t, os.WriteFile(path, []byte("match:\n  default_mode: substructure\n"), 0o644))

	select {
	case cfg := <-changed:
		assert.Equal(t, "substructure", cfg.Match.DefaultMode)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
}
