package config

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Storage drivers.
const (
	DriverMemory = "memory"
	DriverMongo  = "mongo"
)

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	APIPrefix string `env:"API_PREFIX, default=/api/v1"`

	Auth    AuthConfig
	Storage StorageConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Upload  UploadConfig
	Views   ViewConfig
}

type AuthConfig struct {
	JWTSecret  string        `env:"JWT_SECRET"`
	AccessTTL  time.Duration `env:"ACCESS_TOKEN_TTL,  default=15m"`
	RefreshTTL time.Duration `env:"REFRESH_TOKEN_TTL, default=168h"`
	// SeedPassword is the password given to the fixture accounts.
	SeedPassword string `env:"SEED_PASSWORD, default=password123"`
}

type StorageConfig struct {
	Driver string `env:"STORAGE_DRIVER, default=memory"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=pdpi_portal"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type UploadConfig struct {
	Dir        string `env:"UPLOAD_DIR,         default=./uploads"`
	PublicPath string `env:"UPLOAD_PUBLIC_PATH, default=/uploads"`
	MaxBytes   int64  `env:"UPLOAD_MAX_BYTES,   default=5242880"`
}

type ViewConfig struct {
	Workers  int           `env:"VIEW_WORKERS,      default=4"`
	DedupTTL time.Duration `env:"VIEW_DEDUP_WINDOW, default=1h"`
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverMongo:
	default:
		return fmt.Errorf("config: STORAGE_DRIVER must be %q or %q, got %q", DriverMemory, DriverMongo, c.Storage.Driver)
	}
	if c.Auth.AccessTTL <= 0 || c.Auth.RefreshTTL <= c.Auth.AccessTTL {
		return errors.New("config: REFRESH_TOKEN_TTL must be longer than a positive ACCESS_TOKEN_TTL")
	}
	if c.Auth.JWTSecret == "" {
		if c.IsProduction() {
			return errors.New("config: JWT_SECRET is required in production")
		}
		c.Auth.JWTSecret = randomSecret()
	}
	c.APIPrefix = "/" + strings.Trim(c.APIPrefix, "/")
	return nil
}

// randomSecret gives development instances a per-process signing key, so
// tokens never survive a restart.
func randomSecret() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
