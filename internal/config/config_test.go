package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrandonDHaskell/doorlog/internal/config"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.HTTP.Addr)
	assert.Equal(t, ":50051", cfg.Bridge.Addr)
	assert.Equal(t, config.BackendMemory, cfg.Store.Backend)
	assert.Equal(t, "dev", cfg.Log.Env)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeFile(t, "doorlog.yaml", `
http:
  addr: ":8081"
  shutdown_timeout: 10s
bridge:
  addr: ""
store:
  backend: sqlite
log:
  env: prod
  level: debug
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8081", cfg.HTTP.Addr)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ReadHeaderTimeout, "unset keys keep defaults")
	assert.Empty(t, cfg.Bridge.Addr)
	assert.Equal(t, config.BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "prod", cfg.Log.Env)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "doorlog.yaml", "http:\n  addr: \":8081\"\n")
	t.Setenv("DOORLOG_HTTP_ADDR", ":9090")
	t.Setenv("DOORLOG_STORE_BACKEND", "SQLite")
	t.Setenv("DOORLOG_METRICS_ENABLED", "false")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, config.BackendSQLite, cfg.Store.Backend)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoad_BlankEnvIgnored(t *testing.T) {
	t.Setenv("DOORLOG_HTTP_ADDR", "   ")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.HTTP.Addr)
}

func TestLoad_InvalidValues_AllReported(t *testing.T) {
	t.Setenv("DOORLOG_STORE_BACKEND", "redis")
	t.Setenv("DOORLOG_METRICS_ENABLED", "sometimes")

	_, err := config.Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DOORLOG_METRICS_ENABLED")
}

func TestValidate_CollectsErrors(t *testing.T) {
	cfg := config.Default()
	cfg.HTTP.Addr = ""
	cfg.Store.Backend = "postgres"
	cfg.Log.Env = "staging"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http.addr")
	assert.Contains(t, err.Error(), "store.backend")
	assert.Contains(t, err.Error(), "log.env")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_BlankBridgeAddrDisablesBridge(t *testing.T) {
	t.Setenv("DOORLOG_BRIDGE_ADDR", "")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Bridge.Addr)
}

func TestLoad_BlankHTTPAddrKeepsDefault(t *testing.T) {
	t.Setenv("DOORLOG_HTTP_ADDR", "  ")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.HTTP.Addr)
}
