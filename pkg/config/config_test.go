package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_DefaultsToMemoryBackend(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "dev" {
		t.Fatalf("expected App.Env to be dev, got %q", cfg.App.Env)
	}
	if cfg.App.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.App.Port)
	}
	if cfg.Storage.Backend != StorageBackendMemory {
		t.Fatalf("expected memory backend, got %q", cfg.Storage.Backend)
	}
	if cfg.Session.ClientCookie != "pw_client" || cfg.Session.SessionCookie != "pw_session" {
		t.Fatalf("unexpected cookie names %+v", cfg.Session)
	}
	if got := cfg.Session.SessionTTL; got != 12*time.Hour {
		t.Fatalf("expected session ttl 12h, got %v", got)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 {
		t.Fatalf("expected 2 default origins, got %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvAppEnv); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvAppEnv, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoad_UnknownBackend(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStorageBackend, "indexeddb")

	if _, err := Load(); err == nil {
		t.Fatal("expected unsupported backend to fail")
	}
}

func TestLoad_RedisBackendRequiresAddress(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStorageBackend, "redis")

	if _, err := Load(); err == nil {
		t.Fatal("expected redis backend without url to fail")
	}

	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Redis.URL != "redis://localhost:6379/0" {
		t.Fatalf("unexpected Redis URL: %q", cfg.Redis.URL)
	}
}

func TestLoad_SQLBackendBuildsPostgresDSN(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStorageBackend, "SQL")
	t.Setenv(EnvDBHost, "db")
	t.Setenv(EnvDBUser, "plant")
	t.Setenv(EnvDBName, "plantweb")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Storage.Backend != StorageBackendSQL {
		t.Fatalf("expected backend normalized to sql, got %q", cfg.Storage.Backend)
	}
	if want := "postgres://plant@db:5432/plantweb?sslmode=disable"; cfg.DB.DSN != want {
		t.Fatalf("expected dsn %q, got %q", want, cfg.DB.DSN)
	}
}

func TestLoad_SQLBackendSQLiteUsesName(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStorageBackend, "sql")
	t.Setenv(EnvDBDriver, "sqlite")
	t.Setenv(EnvDBName, "plantweb.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.DB.IsSQLite() || cfg.DB.DSN != "plantweb.db" {
		t.Fatalf("unexpected sqlite config %+v", cfg.DB)
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "dev")
	t.Setenv(EnvStorageBackend, "")
	t.Setenv(EnvDBDSN, "")
	t.Setenv(EnvDBDriver, "")
	t.Setenv(EnvDBHost, "")
	t.Setenv(EnvDBUser, "")
	t.Setenv(EnvDBName, "")
	t.Setenv(EnvRedisURL, "")
	t.Setenv(EnvRedisAddr, "")
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
}
