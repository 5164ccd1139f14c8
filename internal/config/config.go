package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/pflag"
)

const envPrefix = "homeease"

type Config struct {
	DatabaseDSN     string
	ServerAddr      string
	SigningKey      []byte
	AllowedOrigins  []string
	MigrateOnStart  bool
	ShutdownTimeout time.Duration
}

// Env holds the settings read from HOMEEASE_* environment variables. Command
// line flags take precedence over them.
type Env struct {
	Addr            string        `envconfig:"ADDR" default:"localhost:8000"`
	DSN             string        `envconfig:"DSN" default:"host=localhost user=postgres password=postgres dbname=homeease sslmode=disable"`
	SigningKey      string        `envconfig:"SIGNING_KEY" default:"wT0phFUusHZIrDhL9bUKPUhwaxKhpi/SaI6PtgB+MgU="`
	AllowedOrigins  []string      `envconfig:"ALLOWED_ORIGINS"`
	Migrate         bool          `envconfig:"MIGRATE" default:"true"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// LoadEnv reads the environment, first loading dotenvPath when it exists.
// Variables already set in the environment win over the file.
func LoadEnv(dotenvPath string) (Env, error) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Env{}, fmt.Errorf("load %s: %w", dotenvPath, err)
		}
	}

	var env Env
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return Env{}, fmt.Errorf("process env: %w", err)
	}

	return env, nil
}

// Load builds the configuration from the environment and args.
func Load(args []string, dotenvPath string) (*Config, error) {
	env, err := LoadEnv(dotenvPath)
	if err != nil {
		return nil, err
	}

	flags := pflag.NewFlagSet("homeease", pflag.ContinueOnError)
	addr := flags.String("addr", env.Addr, "server address")
	dsn := flags.String("dsn", env.DSN, "database connection string")
	signingKey := flags.String("signing-key", env.SigningKey, "base64 encoded signing key")
	allowedOrigins := flags.StringSlice("allowed-origins", env.AllowedOrigins, "comma-separated list of allowed origins for CORS")
	migrate := flags.Bool("migrate", env.Migrate, "apply database migrations on start")
	shutdownTimeout := flags.Duration("shutdown-timeout", env.ShutdownTimeout, "graceful shutdown timeout")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := NewConfig(*addr, *dsn, *signingKey, *allowedOrigins)
	if err != nil {
		return nil, err
	}

	cfg.MigrateOnStart = *migrate
	cfg.ShutdownTimeout = *shutdownTimeout
	return cfg, nil
}

func decodeSigningSecret(base64Secret string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(base64Secret)
	if err != nil {
		return nil, err
	}
	if len(key) == 0 {
		return nil, errors.New("empty key")
	}

	return key, nil
}

func NewConfig(serverAddr, databaseDSN, base64Secret string, allowedOrigins []string) (*Config, error) {
	if serverAddr == "" {
		return nil, fmt.Errorf("server address cannot be empty")
	}
	if databaseDSN == "" {
		return nil, fmt.Errorf("database DSN cannot be empty")
	}
	if base64Secret == "" {
		return nil, fmt.Errorf("signing secret cannot be empty")
	}

	signingKey, err := decodeSigningSecret(base64Secret)
	if err != nil {
		return nil, fmt.Errorf("decode signing secret: %w", err)
	}

	return &Config{
		DatabaseDSN:     databaseDSN,
		ServerAddr:      serverAddr,
		SigningKey:      signingKey,
		AllowedOrigins:  allowedOrigins,
		MigrateOnStart:  true,
		ShutdownTimeout: 10 * time.Second,
	}, nil
}
