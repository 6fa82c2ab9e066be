package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoad_DefaultsWithSecret(t *testing.T) {
	t.Setenv("PLANNER_JWT_SECRET", "test-secret")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Storage.Type != "memory" {
		t.Errorf("storage type = %q, want memory", cfg.Storage.Type)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Errorf("token ttl = %s, want 24h", cfg.Auth.TokenTTL)
	}
	if !cfg.Observability.Metrics.Enabled || cfg.Observability.Metrics.Path != "/metrics" {
		t.Errorf("metrics = %+v, want enabled at /metrics", cfg.Observability.Metrics)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
server:
  port: 9090
storage:
  type: postgres
  postgres:
    dsn: postgres://test@localhost/planner
auth:
  secret: yaml-secret
  token_ttl: 1h
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Storage.Type != "postgres" {
		t.Errorf("storage type = %q, want postgres", cfg.Storage.Type)
	}
	if cfg.Auth.Secret != "yaml-secret" {
		t.Errorf("secret = %q, want yaml-secret", cfg.Auth.Secret)
	}
	if cfg.Auth.TokenTTL != time.Hour {
		t.Errorf("token ttl = %s, want 1h", cfg.Auth.TokenTTL)
	}
	// Unset fields keep their defaults.
	if cfg.Storage.Postgres.MaxConns != 25 {
		t.Errorf("max conns = %d, want default 25", cfg.Storage.Postgres.MaxConns)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
server:
  port: 9090
auth:
  secret: yaml-secret
`)

	t.Setenv("PLANNER_PORT", "7070")
	t.Setenv("PLANNER_JWT_SECRET", "env-secret")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("port = %d, want env override 7070", cfg.Server.Port)
	}
	if cfg.Auth.Secret != "env-secret" {
		t.Errorf("secret = %q, want env override", cfg.Auth.Secret)
	}
}

func TestLoad_SecretFile(t *testing.T) {
	dir := t.TempDir()
	secretPath := writeFile(t, dir, "jwt-secret", "file-secret\n")
	cfgPath := writeFile(t, dir, "config.yaml", `
auth:
  secret_file: `+secretPath+`
`)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("loading: %v", err)
	}
	if cfg.Auth.Secret != "file-secret" {
		t.Errorf("secret = %q, want trimmed file contents", cfg.Auth.Secret)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{
			"missing secret",
			func(c *Config) { c.Auth.Secret = "" },
			"auth.secret",
		},
		{
			"bad port",
			func(c *Config) { c.Server.Port = 0 },
			"server.port",
		},
		{
			"bad storage type",
			func(c *Config) { c.Storage.Type = "redis" },
			"storage.type",
		},
		{
			"postgres without dsn",
			func(c *Config) { c.Storage.Type = "postgres" },
			"storage.postgres.dsn",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			cfg.Auth.Secret = "s"
			tt.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err, tt.wantSub)
			}
		})
	}
}
