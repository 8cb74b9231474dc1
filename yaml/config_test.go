package yaml_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/stocargo"
	"github.com/fwojciec/stocargo/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("full config", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `
cache_dir: /var/cache/sto
ttl: 12h
wiki_url: https://mirror.example/wiki/
fields:
  equipment: [name, text1, text2]
  doff:
    - doff_specialization
    - description
`)

		cfg, err := yaml.LoadConfig(path)

		require.NoError(t, err)
		assert.Equal(t, "/var/cache/sto", cfg.CacheDir)
		assert.Equal(t, 12*time.Hour, cfg.TTL)
		assert.Equal(t, "https://mirror.example/wiki/", cfg.WikiURL)
		assert.Equal(t, map[stocargo.Category][]string{
			stocargo.CategoryEquipment: {"name", "text1", "text2"},
			stocargo.CategoryDoff:      {"doff_specialization", "description"},
		}, cfg.Fields)
	})

	t.Run("day ttl", func(t *testing.T) {
		t.Parallel()

		cfg, err := yaml.LoadConfig(writeConfig(t, "ttl: 7d\n"))

		require.NoError(t, err)
		assert.Equal(t, 7*24*time.Hour, cfg.TTL)
	})

	t.Run("missing file yields defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := yaml.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))

		require.NoError(t, err)
		assert.Equal(t, &stocargo.Config{}, cfg)
	})

	t.Run("empty path yields defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := yaml.LoadConfig("")

		require.NoError(t, err)
		assert.Equal(t, &stocargo.Config{}, cfg)
	})

	t.Run("expands home directory", func(t *testing.T) {
		t.Parallel()

		home, err := os.UserHomeDir()
		require.NoError(t, err)

		cfg, err := yaml.LoadConfig(writeConfig(t, "cache_dir: ~/sto\n"))

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "sto"), cfg.CacheDir)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.LoadConfig(writeConfig(t, "ttl: [unclosed\n"))

		assert.Equal(t, stocargo.EINVALID, stocargo.ErrorCode(err))
	})

	t.Run("invalid ttl", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.LoadConfig(writeConfig(t, "ttl: soon\n"))

		assert.Equal(t, stocargo.EINVALID, stocargo.ErrorCode(err))
	})

	t.Run("unknown category", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.LoadConfig(writeConfig(t, "fields:\n  weapons: [name]\n"))

		require.Error(t, err)
		assert.Equal(t, stocargo.EINVALID, stocargo.ErrorCode(err))
		assert.Contains(t, stocargo.ErrorMessage(err), "weapons")
	})

	t.Run("empty field list", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.LoadConfig(writeConfig(t, "fields:\n  doff: []\n"))

		assert.Equal(t, stocargo.EINVALID, stocargo.ErrorCode(err))
	})
}
