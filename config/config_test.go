package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"GITHUB_URL", "DOCKER_URL", "QR_CODE_DIR", "FILL_COLOR", "BACK_COLOR",
	"QRGEN_SIZE", "QRGEN_RECOVERY", "QRGEN_DATA_DIR", "QRGEN_HISTORY",
	"QRGEN_WEBHOOK_URL", "QRGEN_PORT", "QRGEN_REGENERATE_INTERVAL",
	"QRGEN_LOG_LEVEL", "QRGEN_LOG_FORMAT",
}

// clearEnv unsets every variable Load reads, restoring them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "https://github.com/Hanyyoussef4/Assignment7", cfg.GitHubURL)
	assert.Equal(t, "https://hub.docker.com/r/hany25/qr-code-generator-app", cfg.DockerURL)
	assert.Equal(t, "qr_codes", cfg.OutputDir)
	assert.Equal(t, "blue", cfg.FillColor)
	assert.Equal(t, "white", cfg.BackColor)
	assert.Equal(t, -10, cfg.Size)
	assert.True(t, cfg.History)
	assert.NoError(t, cfg.Validate())
}

func TestLoadYAMLThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "qrgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
github_url: https://example.com/from-file
output_dir: out
fill_color: red
regenerate_interval: 5m
history: false
`), 0o644))

	t.Setenv("GITHUB_URL", "https://example.com/from-env")
	t.Setenv("QRGEN_SIZE", "300")
	t.Setenv("QRGEN_HISTORY", "yes")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/from-env", cfg.GitHubURL)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, "red", cfg.FillColor)
	assert.Equal(t, "white", cfg.BackColor)
	assert.Equal(t, 300, cfg.Size)
	assert.Equal(t, 5*time.Minute, cfg.RegenerateInterval.Duration)
	assert.True(t, cfg.History)
}

func TestLoadInvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "qrgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("regenerate_interval: soon\n"), 0o644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestLoadReadsDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DOCKER_URL=https://example.com/dotenv\nFILL_COLOR=navy\n"), 0o644))
	t.Setenv("FILL_COLOR", "green")

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/dotenv", cfg.DockerURL)
	// Variables already in the environment win over .env.
	assert.Equal(t, "green", cfg.FillColor)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"defaults", func(*Config) {}, false},
		{"empty output dir", func(c *Config) { c.OutputDir = "" }, true},
		{"bad recovery", func(c *Config) { c.Recovery = "ultra" }, true},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, true},
		{"size too large", func(c *Config) { c.Size = 10000 }, true},
		{"size per module", func(c *Config) { c.Size = -4 }, false},
		{"bad port", func(c *Config) { c.Port = 0 }, true},
		// URLs and colors are checked per target at generation time.
		{"bad color", func(c *Config) { c.FillColor = "#123" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
