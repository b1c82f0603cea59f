package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("EDUFORGE_JWT_SECRET", "test-secret")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 4000 {
		t.Errorf("Port = %d, want 4000", cfg.Server.Port)
	}
	if cfg.Server.MCP {
		t.Error("MCP enabled by default")
	}
	if cfg.Auth.TokenTTL != 30*time.Minute {
		t.Errorf("TokenTTL = %v, want 30m", cfg.Auth.TokenTTL)
	}
	if !cfg.Auth.OpenSignups {
		t.Error("OpenSignups disabled by default")
	}
	if cfg.Ingest.PollInterval != 5*time.Second {
		t.Errorf("PollInterval = %v, want 5s", cfg.Ingest.PollInterval)
	}
	if cfg.Ingest.Concurrency != 4 {
		t.Errorf("Concurrency = %d, want 4", cfg.Ingest.Concurrency)
	}
	if cfg.Storage.DataDir == "" {
		t.Error("DataDir empty")
	}
}

func TestLoadMissingJWTSecret(t *testing.T) {
	t.Setenv("EDUFORGE_JWT_SECRET", "")

	_, err := Load("")
	if err == nil {
		t.Fatal("expected error for missing JWT secret")
	}
	if !strings.Contains(err.Error(), "EDUFORGE_JWT_SECRET") {
		t.Errorf("error %q does not mention the environment variable", err)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	t.Setenv("EDUFORGE_JWT_SECRET", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  port: 9999
  mcp: true
auth:
  jwt_secret: file-secret
  token_ttl: 1h
  open_signups: false
ingest:
  poll_interval: 10s
  concurrency: 8
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Port = %d, want 9999", cfg.Server.Port)
	}
	if !cfg.Server.MCP {
		t.Error("MCP = false, want true")
	}
	if cfg.Auth.JWTSecret != "file-secret" {
		t.Errorf("JWTSecret = %q, want %q", cfg.Auth.JWTSecret, "file-secret")
	}
	if cfg.Auth.TokenTTL != time.Hour {
		t.Errorf("TokenTTL = %v, want 1h", cfg.Auth.TokenTTL)
	}
	if cfg.Auth.OpenSignups {
		t.Error("OpenSignups = true, want false")
	}
	if cfg.Ingest.Concurrency != 8 {
		t.Errorf("Concurrency = %d, want 8", cfg.Ingest.Concurrency)
	}
}

func TestLoadMissingFileIsOptional(t *testing.T) {
	t.Setenv("EDUFORGE_JWT_SECRET", "test-secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 4000 {
		t.Errorf("Port = %d, want default 4000", cfg.Server.Port)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9999\nauth:\n  jwt_secret: file-secret\n"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	t.Setenv("EDUFORGE_PORT", "5001")
	t.Setenv("EDUFORGE_JWT_SECRET", "env-secret")
	t.Setenv("EDUFORGE_MCP", "true")
	t.Setenv("EDUFORGE_OPEN_SIGNUPS", "false")
	t.Setenv("EDUFORGE_TOKEN_TTL", "15m")
	t.Setenv("EDUFORGE_DATA_DIR", "/var/lib/eduforge")
	t.Setenv("EDUFORGE_INGEST_CONCURRENCY", "2")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 5001 {
		t.Errorf("Port = %d, want env override 5001", cfg.Server.Port)
	}
	if cfg.Auth.JWTSecret != "env-secret" {
		t.Errorf("JWTSecret = %q, want env override", cfg.Auth.JWTSecret)
	}
	if !cfg.Server.MCP {
		t.Error("MCP = false, want true")
	}
	if cfg.Auth.OpenSignups {
		t.Error("OpenSignups = true, want false")
	}
	if cfg.Auth.TokenTTL != 15*time.Minute {
		t.Errorf("TokenTTL = %v, want 15m", cfg.Auth.TokenTTL)
	}
	if cfg.Storage.DataDir != "/var/lib/eduforge" {
		t.Errorf("DataDir = %q, want env override", cfg.Storage.DataDir)
	}
	if cfg.Ingest.Concurrency != 2 {
		t.Errorf("Concurrency = %d, want 2", cfg.Ingest.Concurrency)
	}
}

func TestLoadInvalidPort(t *testing.T) {
	t.Setenv("EDUFORGE_JWT_SECRET", "test-secret")
	t.Setenv("EDUFORGE_PORT", "70000")

	if _, err := Load(""); err == nil {
		t.Error("expected error for out-of-range port")
	}
}
