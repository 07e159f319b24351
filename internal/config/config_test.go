package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chTempDir(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "candidatures.db", cfg.Store.Path)
	assert.Equal(t, "pdftotext", cfg.Extract.PdfToTextPath)
	assert.Equal(t, 60, cfg.Extract.TimeoutSecs)
	assert.InDelta(t, 0.01, cfg.Analyzer.GenericFactor, 1e-9)
	assert.True(t, cfg.Ollama.Enabled)
	assert.Equal(t, "http://localhost:11434/v1", cfg.Ollama.BaseURL)
	assert.Equal(t, 200, cfg.Ollama.TimeoutSecs)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, "contact@asi.incubateur.dz", cfg.SMTP.From)
	assert.Equal(t, "https://asi.incubateur.dz", cfg.Email.BaseURL)
	assert.Equal(t, 2, cfg.Email.SendIntervalSecs)
	assert.Equal(t, "reports", cfg.Report.Dir)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 3, cfg.Batch.MaxConcurrent)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromFile(t *testing.T) {
	dir := chTempDir(t)

	yaml := `
store:
  path: /var/lib/intake/candidatures.db
ollama:
  enabled: false
server:
  port: 9090
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/intake/candidatures.db", cfg.Store.Path)
	assert.False(t, cfg.Ollama.Enabled)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)

	// Keys the file omits keep their defaults.
	assert.Equal(t, 3, cfg.Batch.MaxConcurrent)
	assert.Equal(t, "reports", cfg.Report.Dir)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chTempDir(t)

	t.Setenv("INTAKE_STORE_PATH", "env.db")
	t.Setenv("INTAKE_OLLAMA_MODEL", "llama3.2:3b")
	t.Setenv("INTAKE_SMTP_HOST", "smtp.example.com")
	t.Setenv("INTAKE_SMTP_USERNAME", "asi-mailer")
	t.Setenv("INTAKE_SMTP_PASSWORD", "s3cret")
	t.Setenv("INTAKE_SMTP_DRY_RUN", "true")
	t.Setenv("INTAKE_BATCH_MAX_CONCURRENT", "8")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "env.db", cfg.Store.Path)
	assert.Equal(t, "llama3.2:3b", cfg.Ollama.Model)
	assert.Equal(t, "smtp.example.com", cfg.SMTP.Host)
	assert.Equal(t, "asi-mailer", cfg.SMTP.Username)
	assert.Equal(t, "s3cret", cfg.SMTP.Password)
	assert.True(t, cfg.SMTP.DryRun)
	assert.Equal(t, 8, cfg.Batch.MaxConcurrent)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chTempDir(t)

	yaml := "server:\n  port: 9090\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))
	t.Setenv("INTAKE_SERVER_PORT", "7070")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	valid := func(t *testing.T) *Config {
		chTempDir(t)
		cfg, err := Load()
		require.NoError(t, err)
		cfg.SMTP.Host = "smtp.example.com"
		return cfg
	}

	t.Run("process ok", func(t *testing.T) {
		assert.NoError(t, valid(t).Validate("process"))
	})

	t.Run("serve ok", func(t *testing.T) {
		assert.NoError(t, valid(t).Validate("serve"))
	})

	t.Run("emails ok", func(t *testing.T) {
		assert.NoError(t, valid(t).Validate("emails"))
	})

	t.Run("missing store path", func(t *testing.T) {
		cfg := valid(t)
		cfg.Store.Path = ""
		err := cfg.Validate("process")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "store.path")
	})

	t.Run("bad concurrency", func(t *testing.T) {
		cfg := valid(t)
		cfg.Batch.MaxConcurrent = 0
		err := cfg.Validate("process")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "batch.max_concurrent")
	})

	t.Run("serve requires port", func(t *testing.T) {
		cfg := valid(t)
		cfg.Server.Port = 0
		err := cfg.Validate("serve")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "server.port")
	})

	t.Run("emails requires smtp host", func(t *testing.T) {
		cfg := valid(t)
		cfg.SMTP.Host = ""
		err := cfg.Validate("emails")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "smtp.host")
	})

	t.Run("unknown mode", func(t *testing.T) {
		err := valid(t).Validate("bogus")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown mode")
	})
}

func TestInitLogger(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		assert.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	})

	t.Run("console", func(t *testing.T) {
		assert.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	})

	t.Run("invalid level", func(t *testing.T) {
		err := InitLogger(LogConfig{Level: "nope", Format: "json"})
		require.Error(t, err)
	})
}
