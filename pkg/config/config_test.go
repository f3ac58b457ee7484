package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "Dockerfile", cfg.Output.File)
	assert.Equal(t, "vermin", cfg.Vermin.Path)
	assert.Equal(t, 10, cfg.Vermin.TimeoutSeconds)
	assert.Equal(t, "", cfg.Store.DSN)
	assert.Equal(t, "UTC", cfg.Store.Timezone)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	content := `output:
  file: Dockerfile.generated
vermin:
  path: /usr/local/bin/vermin
  timeoutSeconds: 30
server:
  addr: ":9000"
`
	path := filepath.Join(dir, ".dockergen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "Dockerfile.generated", cfg.Output.File)
	assert.Equal(t, "/usr/local/bin/vermin", cfg.Vermin.Path)
	assert.Equal(t, 30*time.Second, cfg.VerminTimeout())
	assert.Equal(t, ":9000", cfg.Server.Addr)
	// unspecified sections keep their defaults
	assert.Equal(t, "UTC", cfg.Store.Timezone)
}

func TestLoadConfig_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), ".dockergen.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".dockergen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output: [broken"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestFindAndLoadConfig(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".dockergen.yaml"), []byte("server:\n  addr: \":7777\"\n"), 0644))

	cfg, err := FindAndLoadConfig(nested)
	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.Server.Addr)
}

func TestVerminTimeout_Invalid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Vermin.TimeoutSeconds = 0
	assert.Equal(t, 10*time.Second, cfg.VerminTimeout())
}

func TestStoreOptions(t *testing.T) {
	cfg := DefaultConfig()
	opts, err := cfg.StoreOptions()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, opts.Location)

	cfg.Store.Timezone = "not/a/zone"
	_, err = cfg.StoreOptions()
	assert.Error(t, err)
}
