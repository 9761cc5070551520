package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tayloree/petits-plats/internal/config"
)

// isolate keeps the user's real config dir and PLATS_* variables out of the test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{"PLATS_SOURCE", "PLATS_IMAGES", "PLATS_CACHE_TTL", "PLATS_LOG_LEVEL", "PLATS_CONFIG"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := config.Load(newFlags(t))
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Source)
	assert.Equal(t, "assets/images", cfg.ImageBase)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, time.Minute, cfg.CleanupInterval)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Empty(t, cfg.File)
}

func TestLoad_NilFlags(t *testing.T) {
	isolate(t)

	cfg, err := config.Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	isolate(t)
	t.Setenv("PLATS_SOURCE", "https://example.com/recipes.json")
	t.Setenv("PLATS_CACHE_TTL", "30s")
	t.Setenv("PLATS_LOG_LEVEL", "debug")

	cfg, err := config.Load(newFlags(t))
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/recipes.json", cfg.Source)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	isolate(t)
	t.Setenv("PLATS_SOURCE", "from-env.json")

	cfg, err := config.Load(newFlags(t, "--source", "from-flag.json", "--cache-ttl", "0"))
	require.NoError(t, err)

	assert.Equal(t, "from-flag.json", cfg.Source)
	assert.Equal(t, time.Duration(0), cfg.CacheTTL)
}

func TestLoad_ConfigFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "plats.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source: data.json\nimages: https://cdn.example.com\ncache_ttl: 2m\n"), 0o600))

	cfg, err := config.Load(newFlags(t, "--config", path))
	require.NoError(t, err)

	assert.Equal(t, "data.json", cfg.Source)
	assert.Equal(t, "https://cdn.example.com", cfg.ImageBase)
	assert.Equal(t, 2*time.Minute, cfg.CacheTTL)
	assert.Equal(t, path, cfg.File)
}

func TestLoad_EnvBeatsConfigFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "plats.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source: data.json\n"), 0o600))
	t.Setenv("PLATS_SOURCE", "env.json")

	cfg, err := config.Load(newFlags(t, "--config", path))
	require.NoError(t, err)
	assert.Equal(t, "env.json", cfg.Source)
}

func TestLoad_MissingExplicitConfig(t *testing.T) {
	isolate(t)

	_, err := config.Load(newFlags(t, "--config", filepath.Join(t.TempDir(), "nope.yaml")))
	assert.ErrorContains(t, err, "reading config")
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	isolate(t)

	_, err := config.Load(newFlags(t, "--log-level", "chatty"))
	assert.ErrorContains(t, err, "invalid log level")
}

func TestLoad_NegativeTTLDisablesCache(t *testing.T) {
	isolate(t)

	cfg, err := config.Load(newFlags(t, "--cache-ttl", "-1m"))
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.CacheTTL)
}
