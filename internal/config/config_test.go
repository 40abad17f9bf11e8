package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
api:
  port: "9090"
  jwt_signing_key: from-file
  session_ttl: 30m
database:
  driver: sqlite
  dbname: test.db
lookup:
  timeout: 2s
  touch_chain: [autodoc]
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("file over defaults", func(t *testing.T) {
		conf, err := Load(writeConfig(t, testYAML))
		require.NoError(t, err)

		assert.Equal(t, "9090", conf.API.Port)
		assert.Equal(t, "from-file", conf.API.JWTSigningKey)
		assert.Equal(t, 30*time.Minute, conf.API.SessionTTL)
		assert.Equal(t, 24*time.Hour, conf.API.JWTTTL)
		assert.Equal(t, 10*time.Second, conf.API.ShutdownTimeout)
		assert.Equal(t, "sqlite", conf.Database.Driver)
		assert.Equal(t, "test.db", conf.Database.DBName)
		assert.Equal(t, 2*time.Second, conf.Lookup.Timeout)
		assert.Equal(t, []string{"autodoc"}, conf.Lookup.TouchChain)
		assert.Equal(t, []string{"catalog", "google"}, conf.Lookup.InfoChain)
		assert.False(t, conf.Redis.Enabled)
	})

	t.Run("env over file", func(t *testing.T) {
		t.Setenv("VIASTORE_API_JWT_SIGNING_KEY", "from-env")
		t.Setenv("VIASTORE_LOOKUP_TIMEOUT", "7s")
		t.Setenv("VIASTORE_REDIS_ENABLED", "true")

		conf, err := Load(writeConfig(t, testYAML))
		require.NoError(t, err)

		assert.Equal(t, "from-env", conf.API.JWTSigningKey)
		assert.Equal(t, 7*time.Second, conf.Lookup.Timeout)
		assert.True(t, conf.Redis.Enabled)
	})

	t.Run("missing file uses defaults and env", func(t *testing.T) {
		t.Setenv("VIASTORE_API_JWT_SIGNING_KEY", "from-env")

		conf, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
		require.NoError(t, err)

		assert.Equal(t, "8080", conf.API.Port)
		assert.Equal(t, "postgres", conf.Database.Driver)
		assert.Equal(t, []string{"openfoodfacts", "autodoc", "browser"}, conf.Lookup.TouchChain)
	})

	t.Run("signing key is required", func(t *testing.T) {
		_, err := Load(writeConfig(t, "api:\n  port: \"8080\"\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt_signing_key")
	})

	t.Run("broken yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "api: [unclosed\n"))
		require.Error(t, err)
	})
}
