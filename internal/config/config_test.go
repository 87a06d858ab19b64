package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_WithRequiredVars(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	defer os.Unsetenv("JWT_SECRET")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.JWTSecret != "test-secret" {
		t.Errorf("expected JWTSecret to be set, got %s", cfg.JWTSecret)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	os.Unsetenv("JWT_SECRET")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing required vars, got nil")
	}
}

func TestConfig_Defaults(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	defer os.Unsetenv("JWT_SECRET")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.AppEnv != "development" {
		t.Errorf("expected default AppEnv 'development', got %s", cfg.AppEnv)
	}
	if cfg.AppPort != 8080 {
		t.Errorf("expected default AppPort 8080, got %d", cfg.AppPort)
	}
	if cfg.TokenDuration != 24*time.Hour {
		t.Errorf("expected default TokenDuration 24h, got %s", cfg.TokenDuration)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("expected default ShutdownTimeout 30s, got %s", cfg.ShutdownTimeout)
	}
	if !cfg.IsDevelopment() {
		t.Error("expected IsDevelopment to be true by default")
	}
}

func TestConfig_EnvOverrides(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("APP_ENV", "production")
	os.Setenv("APP_PORT", "9090")
	os.Setenv("LOG_FORMAT", "json")
	defer func() {
		os.Unsetenv("JWT_SECRET")
		os.Unsetenv("APP_ENV")
		os.Unsetenv("APP_PORT")
		os.Unsetenv("LOG_FORMAT")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !cfg.IsProduction() {
		t.Error("expected IsProduction to be true")
	}
	if cfg.AppPort != 9090 {
		t.Errorf("expected AppPort 9090, got %d", cfg.AppPort)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("expected LogFormat json, got %s", cfg.LogFormat)
	}
}
