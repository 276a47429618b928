package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, public, private string) string {
	t.Helper()
	for _, key := range []string{"JWT_SECRET", "PORT", "STORAGE", "POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_PASSWORD"} {
		t.Setenv(key, "")
	}
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "public.yaml"), []byte(public), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "private.yaml"), []byte(private), 0o600))
	return dir
}

func TestMustLoad_Defaults(t *testing.T) {
	dir := writeConfig(t, "cors_allowed_origins: ['http://localhost:3000']\n", "jwt_key: 'k'\n")

	cfg := MustLoad(dir)

	assert.Equal(t, "5000", cfg.Public.Port)
	assert.Equal(t, StorageMemory, cfg.Public.Storage)
	assert.Equal(t, 24*time.Hour, cfg.JwtTTL())
	assert.Equal(t, "k", cfg.JwtKey())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Public.CorsAllowedOrigins)
}

func TestMustLoad_RequiredFields(t *testing.T) {
	dir := writeConfig(t, "port: '5000'\n", "# jwt_key is intentionally missing\n")

	assert.Panics(t, func() { MustLoad(dir) })
}

func TestMustLoad_PostgresNeedsConnection(t *testing.T) {
	dir := writeConfig(t, "storage: postgres\n", "jwt_key: 'k'\n")

	assert.Panics(t, func() { MustLoad(dir) })
}

func TestMustLoad_EnvOverrides(t *testing.T) {
	dir := writeConfig(t,
		"storage: postgres\npg:\n  host: db\n  port: 5432\n  user: bacilogs\n  dbname: bacilogs\n",
		"jwt_key: 'file'\nseed_users:\n  - username: Arül\n    password: secret\n")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("PORT", "8080")
	t.Setenv("POSTGRES_PASSWORD", "pw")

	cfg := MustLoad(dir)

	assert.Equal(t, "from-env", cfg.JwtKey())
	assert.Equal(t, "8080", cfg.Public.Port)
	assert.Equal(t, "pw", cfg.Pg().Password)
	assert.Contains(t, cfg.Pg().DSN(), "host=db port=5432")
	require.Len(t, cfg.SeedUsers(), 1)
	assert.Equal(t, "Arül", cfg.SeedUsers()[0].Username)
}

func TestMustLoad_MissingFile(t *testing.T) {
	assert.Panics(t, func() { MustLoad(t.TempDir()) })
}

func TestLoadClient(t *testing.T) {
	t.Setenv("BACILOGS_API_URL", "")
	t.Setenv("BACILOGS_MODE", "")
	path := filepath.Join(t.TempDir(), "client.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_url: http://example.test/\nauthors:\n  arul@example.com: Arül\n"), 0o600))

	cfg, err := LoadClient(path)
	require.NoError(t, err)

	assert.Equal(t, ModeAPI, cfg.Mode)
	assert.Equal(t, "http://example.test", cfg.APIURL)
	assert.Equal(t, "Arül", cfg.DisplayName("arul@example.com"))
	assert.Equal(t, "someone", cfg.DisplayName("someone"))
	assert.NotEmpty(t, cfg.StateFile)
}

func TestLoadClient_ModeRequirements(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"local without allow list", "mode: local\n"},
		{"firestore without project", "mode: firestore\n"},
		{"unknown mode", "mode: carrier-pigeon\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BACILOGS_MODE", "")
			path := filepath.Join(t.TempDir(), "client.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o600))

			_, err := LoadClient(path)
			assert.Error(t, err)
		})
	}
}
