// Package config loads daemon configuration from an optional YAML file,
// a .env file, and EDUFORGE_* environment variables, in that order of
// increasing precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Auth    AuthConfig    `yaml:"auth"`
	Storage StorageConfig `yaml:"storage"`
	Ingest  IngestConfig  `yaml:"ingest"`
}

type ServerConfig struct {
	Port int  `yaml:"port"`
	MCP  bool `yaml:"mcp"`
}

type AuthConfig struct {
	JWTSecret   string        `yaml:"jwt_secret"`
	TokenTTL    time.Duration `yaml:"token_ttl"`
	OpenSignups bool          `yaml:"open_signups"`
}

type StorageConfig struct {
	DataDir string `yaml:"data_dir"`
}

type IngestConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
	Concurrency  int           `yaml:"concurrency"`
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 4000,
		},
		Auth: AuthConfig{
			TokenTTL:    30 * time.Minute,
			OpenSignups: true,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Ingest: IngestConfig{
			PollInterval: 5 * time.Second,
			Concurrency:  4,
		},
	}
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "eduforge")
	}
	return ".eduforge"
}

// Load reads configuration from path (YAML, optional), a .env file in the
// working directory (optional), and EDUFORGE_* environment variables.
// An empty path skips the YAML step.
//
// The JWT secret has no default and must be provided via the file or
// EDUFORGE_JWT_SECRET.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("reading config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	// .env is a developer convenience; a missing file is not an error.
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	if cfg.Auth.JWTSecret == "" {
		return Config{}, fmt.Errorf("missing required config: JWT secret. " +
			"Set auth.jwt_secret in the config file or the EDUFORGE_JWT_SECRET environment variable")
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return Config{}, fmt.Errorf("invalid server port %d", cfg.Server.Port)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("EDUFORGE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("EDUFORGE_MCP"); v != "" {
		if on, err := strconv.ParseBool(v); err == nil {
			cfg.Server.MCP = on
		}
	}
	if v := os.Getenv("EDUFORGE_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("EDUFORGE_TOKEN_TTL"); v != "" {
		if ttl, err := time.ParseDuration(v); err == nil {
			cfg.Auth.TokenTTL = ttl
		}
	}
	if v := os.Getenv("EDUFORGE_OPEN_SIGNUPS"); v != "" {
		if on, err := strconv.ParseBool(v); err == nil {
			cfg.Auth.OpenSignups = on
		}
	}
	if v := os.Getenv("EDUFORGE_DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("EDUFORGE_INGEST_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Ingest.Concurrency = n
		}
	}
}
