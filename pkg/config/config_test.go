package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "casting.yaml")
	err := os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err)
	return path
}

func TestNew_RequiredFieldMissing(t *testing.T) {
	t.Setenv("DATABASE_FILE_PATH", "")
	t.Setenv("AUTH_MODE", "hs256")
	t.Setenv("JWT_SECRET", "test-secret-key")
	t.Setenv("CONFIG_FILE", "/nonexistent/casting.yaml")

	cfg, err := New()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required config")
	assert.Contains(t, err.Error(), "DATABASE_FILE_PATH")
	assert.Contains(t, err.Error(), "database_file_path")
}

func TestNew_SecretRequiredForHS256(t *testing.T) {
	t.Setenv("DATABASE_FILE_PATH", "/tmp/test.db")
	t.Setenv("AUTH_MODE", "hs256")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("CONFIG_FILE", "/nonexistent/casting.yaml")

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestNew_IssuerRequiredForRS256(t *testing.T) {
	t.Setenv("DATABASE_FILE_PATH", "/tmp/test.db")
	t.Setenv("AUTH_MODE", "rs256")
	t.Setenv("AUTH0_DOMAIN", "")
	t.Setenv("API_AUDIENCE", "casting")
	t.Setenv("CONFIG_FILE", "/nonexistent/casting.yaml")

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH0_DOMAIN")
}

func TestNew_InvalidAuthMode(t *testing.T) {
	t.Setenv("DATABASE_FILE_PATH", "/tmp/test.db")
	t.Setenv("AUTH_MODE", "none")
	t.Setenv("CONFIG_FILE", "/nonexistent/casting.yaml")

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth_mode")
}

func TestNew_WithEnvVar(t *testing.T) {
	t.Setenv("DATABASE_FILE_PATH", "/tmp/test.db")
	t.Setenv("AUTH_MODE", "hs256")
	t.Setenv("JWT_SECRET", "test-secret-key")
	t.Setenv("CONFIG_FILE", "/nonexistent/casting.yaml")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/test.db", cfg.DatabaseFilePath)
	assert.Equal(t, "test-secret-key", cfg.JWTSecret)
}

func TestNew_WithConfigFile(t *testing.T) {
	path := writeConfigFile(t, `
database_file_path: /data/casting.db
server_port: 8080
database_debug: true
auth_mode: rs256
auth0_domain: casting.us.auth0.com
api_audience: casting
jwks_cache_ttl: 30s
cors_allow_origins:
  - https://casting.example.com
`)
	t.Setenv("CONFIG_FILE", path)

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "/data/casting.db", cfg.DatabaseFilePath)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.True(t, cfg.DatabaseDebug)
	assert.Equal(t, 30*time.Second, cfg.JWKSCacheTTL)
	assert.Equal(t, []string{"https://casting.example.com"}, cfg.CORSAllowOrigins)
	assert.Equal(t, "https://casting.us.auth0.com/", cfg.Issuer())
	assert.Equal(t, "https://casting.us.auth0.com/.well-known/jwks.json", cfg.JWKSURL())
}

func TestNew_EnvVarOverridesConfigFile(t *testing.T) {
	path := writeConfigFile(t, `
database_file_path: /data/from-file.db
server_port: 8080
auth_mode: hs256
jwt_secret: test-secret-from-file
`)
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("DATABASE_FILE_PATH", "/data/from-env.db")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "/data/from-env.db", cfg.DatabaseFilePath)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "test-secret-from-file", cfg.JWTSecret)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowOrigins)
}

func TestNew_Defaults(t *testing.T) {
	t.Setenv("DATABASE_FILE_PATH", "/tmp/test.db")
	t.Setenv("AUTH_MODE", "hs256")
	t.Setenv("JWT_SECRET", "test-secret-key")
	t.Setenv("CONFIG_FILE", "/nonexistent/casting.yaml")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.DatabaseConnectRetryCount)
	assert.Equal(t, 2*time.Second, cfg.DatabaseConnectRetryDelay)
	assert.Equal(t, 5*time.Second, cfg.DatabaseBusyTimeout)
	assert.False(t, cfg.DatabaseDebug)
	assert.Equal(t, "0.0.0.0", cfg.ServerHost)
	assert.Equal(t, 5000, cfg.ServerPort)
	assert.Equal(t, 10*time.Minute, cfg.JWKSCacheTTL)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowOrigins)
}

func TestNewForTest(t *testing.T) {
	cfg := NewForTest()
	assert.Equal(t, ":memory:", cfg.DatabaseFilePath)
	assert.Equal(t, "127.0.0.1", cfg.ServerHost)
	assert.Equal(t, AuthModeHS256, cfg.AuthMode)
	assert.NotEmpty(t, cfg.JWTSecret)
}
