package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	data, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "10001", data.EnvConfig.Port)
	assert.Equal(t, "info", data.EnvConfig.LogLevel)
	assert.Equal(t, 60*time.Second, data.EnvConfig.CommandTimeout)
	assert.Contains(t, data.EnvConfig.DevicesRoot, filepath.Join("Library", "Developer", "CoreSimulator", "Devices"))
	assert.Equal(t, 15, data.WarmUpConfig.Retries)
	assert.Equal(t, 250*time.Millisecond, data.WarmUpConfig.Interval)
	assert.Equal(t, "Blank", data.WarmUpConfig.LaunchTemplate)
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "env-config": {"port": "10100", "devices_root": "/sims", "xcode_version": "6.3"},
  "warmup-config": {"retries": 20, "interval": "500ms"}
}`), 0644))

	data, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "10100", data.EnvConfig.Port)
	assert.Equal(t, "/sims", data.EnvConfig.DevicesRoot)
	assert.Equal(t, "6.3", data.EnvConfig.XcodeVersion)
	assert.Equal(t, 20, data.WarmUpConfig.Retries)
	assert.Equal(t, 500*time.Millisecond, data.WarmUpConfig.Interval)
	assert.Equal(t, "Blank", data.WarmUpConfig.LaunchTemplate)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GADS_SIM_ENV_CONFIG_PORT", "12000")

	data, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "12000", data.EnvConfig.Port)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadRejectsNonPositiveRetries(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"warmup-config": {"retries": 0}}`), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSetupConfigStoresGlobal(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"env-config": {"port": "10200"}}`), 0644))

	require.NoError(t, SetupConfig(path))
	assert.Equal(t, "10200", Config.EnvConfig.Port)
}
