package analysis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "2020", cfg.AgeModel)
	assert.Equal(t, 999, cfg.Permutations)
	assert.Equal(t, 100, cfg.BootstrapReplicates)
	assert.Nil(t, cfg.Seed)
	assert.Equal(t, filepath.Join("data", "morphometrics_2d.csv"), cfg.Path2D())
}

func TestLoadConfigOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"dataDir: /srv/forams\nageModel: \"2012\"\npermutations: 199\nseed: 42\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/forams", cfg.DataDir)
	assert.Equal(t, "2012", cfg.AgeModel)
	assert.Equal(t, 199, cfg.Permutations)
	require.NotNil(t, cfg.Seed)
	assert.Equal(t, int64(42), *cfg.Seed)
	// Unset keys keep their defaults.
	assert.Equal(t, 100, cfg.BootstrapReplicates)
	assert.Equal(t, "morphometrics_2d.csv", cfg.File2D)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	bad := DefaultConfig()
	bad.AgeModel = "1987"
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.Permutations = 0
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.BootstrapReplicates = 1
	assert.Error(t, bad.Validate())
}
