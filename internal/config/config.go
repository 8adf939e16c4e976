package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Route cache backends.
const (
	CacheNone  = "none"
	CacheRedis = "redis"
	CacheSQL   = "sql"
)

// Storage backends understood by the server.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendNeo4j    = "neo4j"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Store   StoreConfig   `yaml:"store"`
	Cache   CacheConfig   `yaml:"cache"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type HTTPConfig struct {
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// StoreConfig selects where the network is persisted. The in-memory graph is
// always authoritative for reads; a backend only adds write-through storage.
type StoreConfig struct {
	Backend       string `yaml:"backend"`
	DatabaseURL   string `yaml:"database_url"`
	SQLitePath    string `yaml:"sqlite_path"`
	Neo4jURI      string `yaml:"neo4j_uri"`
	Neo4jUsername string `yaml:"neo4j_username"`
	Neo4jPassword string `yaml:"neo4j_password"`
	Neo4jDatabase string `yaml:"neo4j_database"`
	SeedPath      string `yaml:"seed_path"`
}

// CacheConfig selects the route cache. An empty Backend means redis when
// RedisAddr is set and none otherwise.
type CacheConfig struct {
	Backend       string        `yaml:"backend"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	TTL           time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Port:            "8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Store: StoreConfig{
			Backend:    BackendMemory,
			SQLitePath: "data/network.db",
			SeedPath:   "data/seeds/points.json",
		},
		Cache: CacheConfig{
			TTL: 10 * time.Minute,
		},
	}
}

// Load builds the configuration from defaults, then the optional YAML file
// named by CONFIG_FILE, then environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load config: read %q: %w", path, err)
	}

	dec := yaml.NewDecoder(strings.NewReader(os.ExpandEnv(string(data))))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("load config: parse %q: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.HTTP.Port = Get("PORT", cfg.HTTP.Port)

	cfg.Store.Backend = strings.ToLower(strings.TrimSpace(Get("STORE_BACKEND", cfg.Store.Backend)))
	cfg.Store.DatabaseURL = Get("DATABASE_URL", cfg.Store.DatabaseURL)
	cfg.Store.SQLitePath = Get("SQLITE_PATH", cfg.Store.SQLitePath)
	cfg.Store.Neo4jURI = Get("NEO4J_URI", cfg.Store.Neo4jURI)
	cfg.Store.Neo4jUsername = Get("NEO4J_USERNAME", cfg.Store.Neo4jUsername)
	cfg.Store.Neo4jPassword = Get("NEO4J_PASSWORD", cfg.Store.Neo4jPassword)
	cfg.Store.Neo4jDatabase = Get("NEO4J_DATABASE", cfg.Store.Neo4jDatabase)
	cfg.Store.SeedPath = Get("SEED_PATH", cfg.Store.SeedPath)

	cfg.Cache.Backend = strings.ToLower(strings.TrimSpace(Get("CACHE_BACKEND", cfg.Cache.Backend)))
	cfg.Cache.RedisAddr = Get("REDIS_ADDR", cfg.Cache.RedisAddr)
	cfg.Cache.RedisPassword = Get("REDIS_PASSWORD", cfg.Cache.RedisPassword)

	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB value %q: %w", v, err)
		}
		cfg.Cache.RedisDB = db
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"CACHE_TTL", &cfg.Cache.TTL},
		{"SERVER_READ_TIMEOUT", &cfg.HTTP.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout},
		{"SERVER_IDLE_TIMEOUT", &cfg.HTTP.IdleTimeout},
		{"SHUTDOWN_TIMEOUT", &cfg.HTTP.ShutdownTimeout},
	}
	for _, d := range durations {
		if v := os.Getenv(d.key); v != "" {
			parsed, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", d.key, err)
			}
			*d.dst = parsed
		}
	}

	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = CacheNone
		if cfg.Cache.RedisAddr != "" {
			cfg.Cache.Backend = CacheRedis
		}
	}

	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid METRICS_ENABLED value %q: %w", v, err)
		}
		cfg.Metrics.Enabled = enabled
	}

	return nil
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	port, err := strconv.Atoi(c.HTTP.Port)
	if err != nil {
		return fmt.Errorf("invalid port %q: %w", c.HTTP.Port, err)
	}
	if port <= 0 || port > 65535 {
		return fmt.Errorf("port %d is out of range", port)
	}

	for name, d := range map[string]time.Duration{
		"read timeout":     c.HTTP.ReadTimeout,
		"write timeout":    c.HTTP.WriteTimeout,
		"idle timeout":     c.HTTP.IdleTimeout,
		"shutdown timeout": c.HTTP.ShutdownTimeout,
		"cache ttl":        c.Cache.TTL,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}

	switch c.Store.Backend {
	case BackendMemory:
	case BackendPostgres:
		if strings.TrimSpace(c.Store.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s backend", BackendPostgres)
		}
	case BackendSQLite:
		if strings.TrimSpace(c.Store.SQLitePath) == "" {
			return fmt.Errorf("SQLITE_PATH is required for the %s backend", BackendSQLite)
		}
	case BackendNeo4j:
		if strings.TrimSpace(c.Store.Neo4jURI) == "" {
			return fmt.Errorf("NEO4J_URI is required for the %s backend", BackendNeo4j)
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}

	switch c.Cache.Backend {
	case "", CacheNone:
	case CacheRedis:
		if strings.TrimSpace(c.Cache.RedisAddr) == "" {
			return fmt.Errorf("REDIS_ADDR is required for the %s cache", CacheRedis)
		}
	case CacheSQL:
		if c.Store.Backend != BackendPostgres && c.Store.Backend != BackendSQLite {
			return fmt.Errorf("the %s cache needs a postgres or sqlite store, got %q", CacheSQL, c.Store.Backend)
		}
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}

	return nil
}
