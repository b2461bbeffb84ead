// Package testutil provides Postgres and Redis fixtures for integration
// tests. Tests skip when the backing service is unreachable unless
// TEST_REQUIRE_INFRA (or the per-service TEST_REQUIRE_DB/TEST_REQUIRE_REDIS)
// is set.
package testutil

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/redis/go-redis/v9"

	"github.com/rajatvd/GifGenerator/internal/migrate"
)

// TestingTB covers *testing.T and *testing.B.
type TestingTB interface {
	Helper()
	Cleanup(func())
	Skip(args ...any)
	Skipf(format string, args ...any)
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Logf(format string, args ...any)
}

// TestDBConfig holds the test database coordinates.
type TestDBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// DefaultTestDBConfig reads TEST_DB_* with defaults for the local compose
// profile on port 55432. CI sets TEST_DB_PORT=5432.
func DefaultTestDBConfig() TestDBConfig {
	return TestDBConfig{
		Host:     getEnvOrDefault("TEST_DB_HOST", "localhost"),
		Port:     getEnvOrDefault("TEST_DB_PORT", "55432"),
		User:     getEnvOrDefault("TEST_DB_USER", "gifgen"),
		Password: getEnvOrDefault("TEST_DB_PASSWORD", "gifgen"),
		DBName:   getEnvOrDefault("TEST_DB_NAME", "gifgen"),
	}
}

// DSN returns the connection URL, optionally scoped to schema.
func (c TestDBConfig) DSN(schema string) string {
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, c.Port),
		Path:   "/" + c.DBName,
	}
	q := u.Query()
	q.Set("sslmode", getEnvOrDefault("DB_SSL_MODE", "disable"))
	if schema != "" {
		q.Set("search_path", schema)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// WithAutoDB runs fn against a freshly migrated, private schema that is
// dropped when the test ends.
func WithAutoDB(t TestingTB, fn func(*sql.DB)) {
	t.Helper()
	fn(SetupSchemaDB(t))
}

// SetupSchemaDB opens a connection whose search_path is a new random
// schema with migrations applied.
func SetupSchemaDB(t TestingTB) *sql.DB {
	t.Helper()
	cfg := DefaultTestDBConfig()

	admin, err := openAndPing(cfg.DSN(""))
	if err != nil {
		skipOrFail(t, requireDB(), "test database not available: %v", err)
		return nil
	}

	schema := schemaName()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := admin.ExecContext(ctx, "CREATE SCHEMA "+schema); err != nil {
		_ = admin.Close()
		t.Fatalf("create schema %s: %v", schema, err)
	}

	db, err := openAndPing(cfg.DSN(schema))
	if err != nil {
		_ = admin.Close()
		t.Fatalf("open schema %s: %v", schema, err)
	}
	t.Cleanup(func() {
		dropCtx, dropCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer dropCancel()
		closeAndLog(t, "schema db", db)
		if _, err := admin.ExecContext(dropCtx, "DROP SCHEMA IF EXISTS "+schema+" CASCADE"); err != nil {
			t.Logf("drop schema %s: %v", schema, err)
		}
		closeAndLog(t, "admin db", admin)
	})

	if err := migrate.Run(ctx, db); err != nil {
		t.Fatalf("migrate schema %s: %v", schema, err)
	}
	return db
}

func openAndPing(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func schemaName() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "t_" + strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return "t_" + hex.EncodeToString(b)
}

// SetupTestRedis returns a client on TEST_REDIS_ADDR (default
// localhost:56379) using TEST_REDIS_DB (default 1). The DB is flushed
// before and after the test.
func SetupTestRedis(t TestingTB) *redis.Client {
	t.Helper()

	db := 1
	if v := os.Getenv("TEST_REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			t.Fatalf("invalid TEST_REDIS_DB=%q", v)
		}
		db = n
	}
	client := redis.NewClient(&redis.Options{
		Addr: getEnvOrDefault("TEST_REDIS_ADDR", "localhost:56379"),
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		closeAndLog(t, "redis", client)
		skipOrFail(t, requireRedis(), "redis not available: %v", err)
		return nil
	}
	client.FlushDB(ctx)

	t.Cleanup(func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer flushCancel()
		client.FlushDB(flushCtx)
		closeAndLog(t, "redis", client)
	})
	return client
}

// TestTime returns a fixed instant for deterministic fixtures.
func TestTime() time.Time {
	return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func skipOrFail(t TestingTB, required bool, format string, args ...any) {
	t.Helper()
	if required {
		t.Fatalf(format, args...)
	}
	t.Skipf(format, args...)
}

func closeAndLog(t TestingTB, name string, closer interface{ Close() error }) {
	if err := closer.Close(); err != nil {
		t.Logf("close %s: %v", name, err)
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func envBool(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}

func requireDB() bool    { return envBool("TEST_REQUIRE_DB") || envBool("TEST_REQUIRE_INFRA") }
func requireRedis() bool { return envBool("TEST_REQUIRE_REDIS") || envBool("TEST_REQUIRE_INFRA") }
