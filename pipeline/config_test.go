package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/clusterlist/manager"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	lt, err := cfg.ListType()
	require.NoError(t, err)
	assert.Equal(t, manager.Full, lt)
}

func TestParseConfig_OverridesDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
cutoff: 4.5
strict_cutoff: 4.0
neighbour_list_type: half
max_order: 3
`))
	require.NoError(t, err)
	assert.Equal(t, 4.5, cfg.Cutoff)
	assert.Equal(t, 4.0, cfg.StrictCutoff)
	assert.Equal(t, "half", cfg.NeighbourListType)
	assert.Equal(t, 3, cfg.MaxOrder)
	// untouched keys keep their defaults
	assert.True(t, cfg.ConsiderGhostNeighbours)
	assert.True(t, cfg.Directions)
	assert.Equal(t, DefaultConfig().MaxBins, cfg.MaxBins)
}

func TestParseConfig_CutoffOnly(t *testing.T) {
	cfg, err := ParseConfig([]byte("cutoff: 2.0\n"))
	require.NoError(t, err)
	assert.True(t, cfg.Strict)
	assert.Zero(t, cfg.StrictCutoff)
	assert.Equal(t, 2.0, cfg.EffectiveStrictCutoff())

	_, err = ParseConfig([]byte("cutoff: 2.0\nstrict_cutoff: 2.5\n"))
	require.ErrorIs(t, err, manager.ErrStrictCutoff)

	cfg, err = ParseConfig([]byte("cutoff: 2.0\nstrict: false\nstrict_cutoff: 1.5\n"))
	require.NoError(t, err)
	assert.False(t, cfg.Strict)
	assert.Equal(t, 1.5, cfg.EffectiveStrictCutoff())
}

func TestParseConfig_Malformed(t *testing.T) {
	_, err := ParseConfig([]byte("cutoff: [1, 2"))
	require.ErrorIs(t, err, ErrConfig)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero cutoff", func(c *Config) { c.Cutoff = 0 }, manager.ErrBadCutoff},
		{"negative skin", func(c *Config) { c.Skin = -1 }, manager.ErrBadCutoff},
		{"negative strict", func(c *Config) { c.StrictCutoff = -1 }, manager.ErrBadCutoff},
		{"strict above base", func(c *Config) { c.StrictCutoff = c.Cutoff + 1 }, manager.ErrStrictCutoff},
		{"unknown list type", func(c *Config) { c.NeighbourListType = "quarter" }, manager.ErrListType},
		{"max order 1", func(c *Config) { c.MaxOrder = 1 }, ErrConfig},
		{"no bins", func(c *Config) { c.MaxBins = 0 }, ErrConfig},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), tc.want)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stack.yaml")

	cfg := DefaultConfig()
	cfg.MaxOrder = 4
	cfg.Skin = 0.25
	data, err := cfg.Marshal()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadConfigOrDefault(t *testing.T) {
	cfg, err := LoadConfigOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}
