package config

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.EditorPassword != "dev_editor" || cfg.Secret != "dev_secret" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATA_PATH", "/srv/drugs.json")
	t.Setenv("DATABASE_DSN", "postgres://localhost/drugdex")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataPath != "/srv/drugs.json" || cfg.DatabaseDSN != "postgres://localhost/drugdex" || cfg.HTTPPort != "9090" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Level() != logrus.DebugLevel {
		t.Fatalf("expected debug level")
	}
}

func TestLoadInvalidPort(t *testing.T) {
	t.Setenv("HTTP_PORT", "eighty")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPPort != "8080" {
		t.Fatalf("invalid port should fall back, got %q", cfg.HTTPPort)
	}
}

func TestLevelFallback(t *testing.T) {
	if (Config{LogLevel: "loud"}).Level() != logrus.InfoLevel {
		t.Fatalf("unknown level should fall back to info")
	}
}
