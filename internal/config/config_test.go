package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
app:
  name: leadnavi
storage:
  data_dir: data
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "gemini-2.0-flash", cfg.AI.Model)
	assert.Equal(t, 25, cfg.AI.TimeoutSeconds)
	assert.Equal(t, 587, cfg.Mail.Port)
	assert.Equal(t, 20, cfg.Chat.RateLimitMessages)
	assert.Equal(t, 60, cfg.Chat.RateLimitWindow)
	assert.Equal(t, "exports", cfg.Exports.Path)
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("TEST_ADMIN_PASS", "hunter2")
	path := writeConfig(t, `
storage:
  data_dir: data
admin:
  password: ${TEST_ADMIN_PASS}
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", cfg.Admin.Password)
}

func TestLoadRejectsMissingDataDir(t *testing.T) {
	path := writeConfig(t, `
app:
  name: leadnavi
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestProductionRequiresSecrets(t *testing.T) {
	path := writeConfig(t, `
app:
  environment: production
storage:
  data_dir: data
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "admin password")
}

func TestNotifyEmailRequiredWithMailHost(t *testing.T) {
	path := writeConfig(t, `
storage:
  data_dir: data
mail:
  host: smtp.example.com
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "notify_email")
}

func TestIsProduction(t *testing.T) {
	cfg := &Config{}
	cfg.App.Environment = "Production"
	assert.True(t, cfg.IsProduction())
	cfg.App.Environment = "development"
	assert.False(t, cfg.IsProduction())
}
