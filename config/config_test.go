package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "object_log.db", cfg.DBPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.UserLogsDesc)
	assert.False(t, cfg.OIDC.Enabled())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("OBJECT_LOG_PORT", "9090")
	t.Setenv("OBJECT_LOG_USER_LOGS_DESC", "false")
	t.Setenv("OBJECT_LOG_OIDC_DOMAIN", "login.example.com")
	t.Setenv("OBJECT_LOG_OIDC_CLIENT_ID", "client")
	t.Setenv("OBJECT_LOG_OIDC_CLIENT_SECRET", "secret")
	t.Setenv("OBJECT_LOG_OIDC_CALLBACK_URL", "http://localhost:9090/callback")

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.False(t, cfg.UserLogsDesc)
	assert.True(t, cfg.OIDC.Enabled())
	assert.Equal(t, "client", cfg.OIDC.ClientID)
}

func TestLoad_ConfigFileAndFlags(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 7000\ndb_path: /tmp/log.db\nuser_logs_desc: false\n"), 0o600))

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log_level", "info", "")
	require.NoError(t, flags.Parse([]string{"--log_level=debug"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "/tmp/log.db", cfg.DBPath)
	assert.False(t, cfg.UserLogsDesc)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_MissingConfigFileIsIgnored(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("does-not-exist.yaml", nil)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
}

func TestValidate(t *testing.T) {
	valid := Config{Port: 8080, DBPath: "x.db"}
	assert.NoError(t, valid.Validate())

	badPort := valid
	badPort.Port = 0
	assert.Error(t, badPort.Validate())

	noDB := valid
	noDB.DBPath = ""
	assert.Error(t, noDB.Validate())

	partialOIDC := valid
	partialOIDC.OIDC = OIDCConfig{Domain: "login.example.com", ClientID: "id"}
	err := partialOIDC.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client_secret")
}
