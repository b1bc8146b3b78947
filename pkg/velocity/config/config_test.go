package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "http://localhost:3500", cfg.Source.BaseURL)
	assert.Equal(t, "user_phone", cfg.Mail.PhoneField)
	assert.Equal(t, 0.2, cfg.Contact.Rate)
	assert.Equal(t, 3, cfg.Contact.Burst)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("VELOCITY_SOURCE_BASE_URL", "http://catalog.internal:3500")
	t.Setenv("VELOCITY_MAIL_PHONE_FIELD", "from_phone")
	t.Setenv("VELOCITY_CONTACT_BURST", "10")
	t.Setenv("VELOCITY_SERVER_TRUSTED_PROXIES", "10.0.0.0/8,192.168.1.1")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "http://catalog.internal:3500", cfg.Source.BaseURL)
	assert.Equal(t, "from_phone", cfg.Mail.PhoneField)
	assert.Equal(t, 10, cfg.Contact.Burst)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.1"}, cfg.Server.TrustedProxies)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	yaml := []byte("server:\n  address: \":9090\"\nmail:\n  service_id: service_x\n  template_id: template_y\nsource:\n  timeout: 3s\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "service_x", cfg.Mail.ServiceID)
	assert.Equal(t, "template_y", cfg.Mail.TemplateID)
	assert.Equal(t, 3*time.Second, cfg.Source.Timeout)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("VELOCITY_MAIL_PUBLIC_KEY=pk_from_dotenv\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("VELOCITY_MAIL_PUBLIC_KEY") })

	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "pk_from_dotenv", cfg.Mail.PublicKey)
}
