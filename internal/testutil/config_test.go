package testutil

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTestDBConfig(t *testing.T) {
	for _, k := range []string{"TEST_DB_HOST", "TEST_DB_PORT", "TEST_DB_USER", "TEST_DB_PASSWORD", "TEST_DB_NAME"} {
		t.Setenv(k, "")
	}

	cfg := DefaultTestDBConfig()
	assert.Equal(t, TestDBConfig{
		Host:     "localhost",
		Port:     "55432",
		User:     "gifgen",
		Password: "gifgen",
		DBName:   "gifgen",
	}, cfg)

	t.Setenv("TEST_DB_HOST", "postgres")
	t.Setenv("TEST_DB_PORT", "5432")
	cfg = DefaultTestDBConfig()
	assert.Equal(t, "postgres", cfg.Host)
	assert.Equal(t, "5432", cfg.Port)
}

func TestTestDBConfigDSN(t *testing.T) {
	t.Setenv("DB_SSL_MODE", "")
	cfg := TestDBConfig{Host: "db", Port: "5432", User: "u", Password: "p w", DBName: "gifgen"}

	u, err := url.Parse(cfg.DSN("t_abc"))
	require.NoError(t, err)
	assert.Equal(t, "db:5432", u.Host)
	assert.Equal(t, "/gifgen", u.Path)
	assert.Equal(t, "disable", u.Query().Get("sslmode"))
	assert.Equal(t, "t_abc", u.Query().Get("search_path"))

	u, err = url.Parse(cfg.DSN(""))
	require.NoError(t, err)
	assert.False(t, u.Query().Has("search_path"))
}

func TestEnvBool(t *testing.T) {
	for v, want := range map[string]bool{"1": true, "TRUE": true, "y": true, "no": false, "": false} {
		t.Setenv("GIFGEN_TEST_FLAG", v)
		assert.Equal(t, want, envBool("GIFGEN_TEST_FLAG"), v)
	}
}
