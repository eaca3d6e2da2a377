package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DB_TIMEOUT", "bogus")
	t.Setenv("MONGO_TRANSACTIONS", "true")
	t.Setenv("STORE", "Memory")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := LoadConfig()
	if cfg.Port != "8080" || cfg.PublicBaseURL != "http://localhost:8080" {
		t.Fatalf("port/base url = %q %q", cfg.Port, cfg.PublicBaseURL)
	}
	if cfg.DBTimeout != 5*time.Second {
		t.Fatalf("invalid duration not defaulted: %v", cfg.DBTimeout)
	}
	if !cfg.MongoTransactions || cfg.Store != "memory" {
		t.Fatalf("transactions=%v store=%q", cfg.MongoTransactions, cfg.Store)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Fatalf("level = %v", cfg.SlogLevel())
	}
	if cfg.MaxUploadBytes != 1<<20 || cfg.TokenTTL != 30*time.Minute {
		t.Fatalf("upload limit %d token ttl %v", cfg.MaxUploadBytes, cfg.TokenTTL)
	}
	if cfg.CloudinaryEnabled() {
		t.Fatal("cloudinary enabled without credentials")
	}
}
