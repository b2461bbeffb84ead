package config

import "time"

// HistoryConfig controls the Postgres run history.
type HistoryConfig struct {
	Enabled  bool     `env:"HISTORY_ENABLED" envDefault:"false"`
	Postgres DBConfig `envPrefix:"DB_"`
}

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	Host     string `env:"HOST"                    envDefault:"localhost"`
	Port     int    `env:"PORT"                    envDefault:"5432"`
	User     string `env:"USER"                    envDefault:"gifgen"`
	Password string `env:"PASSWORD"                envDefault:"gifgen"`
	Name     string `env:"NAME"                    envDefault:"gifgen"`
	SSLMode  string `env:"SSL_MODE"                envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// RunMigrationsOnStart controls whether the application automatically applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// StatusCacheConfig controls where the last run summary is cached. When
// disabled the summary is kept in process memory.
type StatusCacheConfig struct {
	Enabled bool          `env:"STATUS_CACHE_ENABLED" envDefault:"false"`
	TTL     time.Duration `env:"STATUS_CACHE_TTL"     envDefault:"0s"`
	Redis   RedisConfig   `envPrefix:"REDIS_"`
}

// Sanitize clamps the TTL.
func (c *StatusCacheConfig) Sanitize() {
	if c.TTL < 0 {
		c.TTL = 0
	}
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
}
