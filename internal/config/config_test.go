package config

import (
	"os"
	"testing"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	os.Setenv(key, value)
	t.Cleanup(func() {
		if had {
			os.Setenv(key, old)
		} else {
			os.Unsetenv(key)
		}
	})
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	setEnv(t, "DATABASE_URL", "")
	_, err := Load()
	if err == nil {
		t.Fatal("expected error when DATABASE_URL is empty")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, "DATABASE_URL", "postgres://localhost/clinic")
	setEnv(t, "ENV", "development")
	setEnv(t, "TOKEN_SECRET", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if cfg.DBMaxConns != 20 || cfg.DBMinConns != 5 {
		t.Errorf("unexpected pool defaults: max=%d min=%d", cfg.DBMaxConns, cfg.DBMinConns)
	}
	if cfg.TokenSecret == "" {
		t.Error("dev mode should fall back to an insecure placeholder secret")
	}
	if cfg.CertDir != "./certificates" {
		t.Errorf("unexpected CERT_DIR default: %s", cfg.CertDir)
	}
}

func TestValidate_ProductionNeedsSecret(t *testing.T) {
	cfg := &Config{Env: "production", TokenSecret: "", TokenTTLMins: 60, CertDir: "/data"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing TOKEN_SECRET in production")
	}

	cfg.TokenSecret = "dev-secret-do-not-deploy"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for placeholder secret in production")
	}

	cfg.TokenSecret = "a-real-secret"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_TokenTTL(t *testing.T) {
	cfg := &Config{Env: "development", TokenSecret: "x", TokenTTLMins: 0, CertDir: "/data"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for non-positive TOKEN_TTL_MINS")
	}
}
