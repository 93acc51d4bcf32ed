package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Config is the process-wide configuration, loaded once at startup and
// passed by injection. Nothing reads the environment after Load returns.
type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// JWTSecret signs bearer tokens. Required; there is no safe default.
	JWTSecret       string `env:"JWT_SECRET, required"`
	TokenTTLSeconds int    `env:"TOKEN_TTL_SECONDS, default=3600"`

	// BcryptCost <= 0 falls back to the bcrypt library default.
	BcryptCost int `env:"BCRYPT_COST, default=0"`
	// PasswordMinLength <= 0 enforces non-blank only.
	PasswordMinLength int `env:"PASSWORD_MIN_LENGTH, default=0"`

	LoginMaxAttempts          int `env:"LOGIN_MAX_ATTEMPTS, default=10"`
	LoginAttemptWindowSeconds int `env:"LOGIN_ATTEMPT_WINDOW_SECONDS, default=900"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=identity"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
