package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := NewRootCommand()
	names := make([]string, 0)
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "match")
	assert.Contains(t, names, "extract")
}

func TestLoadConfigPrefersExplicitFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("match:\n  default_mode: exact\n"), 0o644))

	cfg, err := loadConfig(&rootOptions{configPath: path})
	require.NoError(t, err)
	assert.Equal(t, "exact", cfg.Match.DefaultMode)
}

func TestLoadConfigFallsBackToEnvDefaults(t *testing.T) {
	cfg, err := loadConfig(&rootOptions{})
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Match.DefaultMode)
}

func TestGetCLIContextFailsWithoutPersistentPreRun(t *testing.T) {
	root := NewRootCommand()
	_, err := GetCLIContext(root)
	assert.Error(t, err)
}
