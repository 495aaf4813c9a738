package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Irenepaul17/new-log-sub000/internal/errs"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.False(t, cfg.OxiDB.Enabled())
	assert.False(t, cfg.Mail.Enabled())
	assert.False(t, cfg.NATS.Enabled())
	assert.Equal(t, "portal.sos", cfg.NATS.SOSSubject)
	assert.Equal(t, []string{"*"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, 10*time.Second, cfg.OxiDB.Keepalive)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", loc.String())
}

func TestLoadListsFromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORTAL_HTTP_CORS_ORIGINS", "https://portal.example.org, https://ops.example.org")
	t.Setenv("PORTAL_TIMEZONE", "UTC")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://portal.example.org", "https://ops.example.org"}, cfg.HTTP.CORSOrigins)
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "portal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  addr: ":9090"
database:
  driver: postgres
  dsn: "host=db user=portal dbname=portal"
mail:
  host: smtp.example.org
  sos_recipients:
    - control@example.org
`), 0o600))

	t.Setenv("PORTAL_AUTH_JWT_SECRET", "from-env")
	t.Setenv("PORTAL_OXIDB_HOST", "10.0.0.5")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.True(t, cfg.OxiDB.Enabled())
	assert.Equal(t, 4444, cfg.OxiDB.Port)
	assert.Equal(t, []string{"control@example.org"}, cfg.Mail.SOSRecipients)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Driver: "mysql", DSN: "x"},
		Auth:     AuthConfig{JWTSecret: "s", TokenTTL: time.Hour},
	}
	assert.True(t, errors.Is(cfg.Validate(), errs.ErrInvalid))

	cfg.Database.Driver = "sqlite"
	assert.NoError(t, cfg.Validate())

	cfg.Timezone = "Mars/Olympus_Mons"
	assert.True(t, errors.Is(cfg.Validate(), errs.ErrInvalid))
	cfg.Timezone = ""

	cfg.Auth.JWTSecret = ""
	assert.Error(t, cfg.Validate())
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a@x", "b@x"}, splitList(" a@x, ,b@x "))
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
