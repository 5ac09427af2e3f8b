package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Blob     BlobConfig
}

type AppConfig struct {
	AppName        string
	Environment    string
	HTTPPort       string
	MaxUploadBytes int
	MigrationsDir  string
	SeedDemo       bool
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

func (c RedisConfig) Addr() string {
	if c.Host == "" {
		return ""
	}
	port := c.Port
	if port == "" {
		port = "6379"
	}
	return c.Host + ":" + port
}

type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

const (
	BlobBackendLocal = "local"
	BlobBackendGCS   = "gcs"
)

type BlobConfig struct {
	Backend       string
	LocalDir      string
	PublicBaseURL string
	GCSBucket     string
}

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first, and CONFIG_FILE may name a YAML file of
// KEY: value defaults that real environment variables override.
func Load() (Config, error) {
	_ = godotenv.Load()

	defaults, err := readDefaults(strings.TrimSpace(os.Getenv("CONFIG_FILE")))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{}

	var missing []string
	var invalid []string
	lookup := func(key string) string {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
		return strings.TrimSpace(defaults[key])
	}
	req := func(key string) string {
		v := lookup(key)
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key, def string) string {
		if v := lookup(key); v != "" {
			return v
		}
		return def
	}
	optInt := func(key string, def int) int {
		raw := lookup(key)
		if raw == "" {
			return def
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			invalid = append(invalid, key)
			return def
		}
		return n
	}
	optBool := func(key string) bool {
		raw := lookup(key)
		if raw == "" {
			return false
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			invalid = append(invalid, key)
			return false
		}
		return b
	}
	optDuration := func(key string, def time.Duration) time.Duration {
		raw := lookup(key)
		if raw == "" {
			return def
		}
		d, err := parseDuration(raw)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return d
	}

	cfg.App = AppConfig{
		AppName:        opt("APP_NAME", "job-tracker"),
		Environment:    req("APP_ENV"),
		HTTPPort:       req("HTTP_PORT"),
		MaxUploadBytes: optInt("MAX_UPLOAD_BYTES", 10<<20),
		MigrationsDir:  opt("MIGRATIONS_DIR", ""),
		SeedDemo:       optBool("SEED_DEMO"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST", ""),
		DBPort:     opt("DB_PORT", "5432"),
		DBName:     opt("DB_NAME", ""),
		DBUser:     opt("DB_USER", ""),
		DBPassword: lookup("DB_PASSWORD"),
		DBSSLMode:  opt("DB_SSL_MODE", "disable"),

		ConnectTimeout:        optDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32(optInt("DB_POOL_MAX_CONNS", 0)),
		PoolMinConns:          int32(optInt("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   optDuration("DB_POOL_MAX_CONN_LIFETIME", 0),
		PoolMaxConnIdleTime:   optDuration("DB_POOL_MAX_CONN_IDLE_TIME", 0),
		PoolHealthCheckPeriod: optDuration("DB_POOL_HEALTH_CHECK_PERIOD", 0),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST", ""),
		Port:     opt("REDIS_PORT", "6379"),
		Password: lookup("REDIS_PASSWORD"),
		DB:       optInt("REDIS_DB", 0),
		TTL:      optDuration("REDIS_TTL", 600*time.Second),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:     req("JWT_ACCESS_SECRET"),
		RefreshSecret:    req("JWT_REFRESH_SECRET"),
		AccessExpiresIn:  optDuration("JWT_ACCESS_EXPIRES_IN", 15*time.Minute),
		RefreshExpiresIn: optDuration("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour),
	}

	cfg.Blob = BlobConfig{
		Backend:       strings.ToLower(opt("BLOB_BACKEND", BlobBackendLocal)),
		LocalDir:      opt("BLOB_LOCAL_DIR", "./data/blobs"),
		PublicBaseURL: opt("BLOB_PUBLIC_BASE_URL", ""),
		GCSBucket:     opt("GCS_BUCKET", ""),
	}
	switch cfg.Blob.Backend {
	case BlobBackendLocal:
		if cfg.Blob.PublicBaseURL == "" {
			cfg.Blob.PublicBaseURL = "http://localhost:" + cfg.App.HTTPPort + "/blobs"
		}
	case BlobBackendGCS:
		if cfg.Blob.GCSBucket == "" {
			missing = append(missing, "GCS_BUCKET")
		}
	default:
		invalid = append(invalid, "BLOB_BACKEND")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func readDefaults(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	out := map[string]string{}
	if err := yaml.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return out, nil
}

// parseDuration accepts Go duration strings ("15m") or whole seconds ("600").
func parseDuration(raw string) (time.Duration, error) {
	if n, err := strconv.Atoi(raw); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("negative duration: %s", raw)
		}
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration: %s", raw)
	}
	return d, nil
}
