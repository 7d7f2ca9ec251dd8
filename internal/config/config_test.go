package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/fsmx/internal/config"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// noDotEnv points Load at an empty .env so the working directory's file
// cannot leak into the test.
func noDotEnv(t *testing.T) string {
	return write(t, "empty.env", "")
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("", noDotEnv(t))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadYAML(t *testing.T) {
	path := write(t, "fsmx.yaml", `
log:
  level: debug
  format: json
metrics:
  addr: ":9100"
elevator:
  floors: 7
  strict_list: true
describe:
  format: yaml
`)
	cfg, err := config.Load(path, noDotEnv(t))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, ":9100", cfg.Metrics.Addr)
	assert.Equal(t, "fsmx", cfg.Metrics.Namespace)
	assert.Equal(t, 7, cfg.Elevator.Floors)
	assert.True(t, cfg.Elevator.StrictList)
	assert.Equal(t, "yaml", cfg.Describe.Format)
}

func TestLoadTOML(t *testing.T) {
	path := write(t, "fsmx.toml", `
[log]
level = "warn"

[elevator]
floors = 3
`)
	cfg, err := config.Load(path, noDotEnv(t))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 3, cfg.Elevator.Floors)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := config.Load(write(t, "bad.toml", "[log]\ncolour = \"red\"\n"), noDotEnv(t))
	assert.ErrorIs(t, err, config.ErrUnknownKey)

	_, err = config.Load(write(t, "bad.yaml", "log:\n  colour: red\n"), noDotEnv(t))
	assert.Error(t, err)
}

func TestLoadUnsupportedFormat(t *testing.T) {
	_, err := config.Load(write(t, "fsmx.ini", "x=1"), noDotEnv(t))
	assert.ErrorIs(t, err, config.ErrUnsupportedFormat)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := write(t, "fsmx.yaml", "elevator:\n  floors: 7\n")
	dotenv := write(t, "test.env", "FSMX_METRICS_ADDR=:9200\nFSMX_LOG_FORMAT=json\n")
	t.Setenv("FSMX_ELEVATOR_FLOORS", "10")
	t.Setenv("FSMX_LOG_FORMAT", "text")
	t.Cleanup(func() { os.Unsetenv("FSMX_METRICS_ADDR") })

	cfg, err := config.Load(path, dotenv)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Elevator.Floors)
	assert.Equal(t, ":9200", cfg.Metrics.Addr)
	// .env never overrides variables already set.
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestValidate(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	cfg.Log.Format = "xml"
	cfg.Log.Level = "loud"
	cfg.Elevator.Floors = 1
	cfg.Describe.Format = "svg"
	err := cfg.Validate()
	require.ErrorIs(t, err, config.ErrInvalidValue)
	for _, field := range []string{"log.format", "log.level", "elevator.floors", "describe.format"} {
		assert.Contains(t, err.Error(), field)
	}
}
