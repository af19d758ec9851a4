package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := Default()
	if cfg.AcceptThreshold != def.AcceptThreshold || cfg.Seed != def.Seed {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
listen_addr: ":9000"
accept_threshold: 0.6
tune_interval: 30m
allowed_origins: [mining]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":9000" {
		t.Fatalf("listen_addr = %q", cfg.ListenAddr)
	}
	if cfg.AcceptThreshold != 0.6 {
		t.Fatalf("accept_threshold = %v", cfg.AcceptThreshold)
	}
	if time.Duration(cfg.TuneInterval) != 30*time.Minute {
		t.Fatalf("tune_interval = %v", time.Duration(cfg.TuneInterval))
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "mining" {
		t.Fatalf("allowed_origins = %v", cfg.AllowedOrigins)
	}
	// Untouched fields keep their defaults.
	if cfg.DrainThreshold != Default().DrainThreshold {
		t.Fatalf("drain_threshold = %d", cfg.DrainThreshold)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := writeConfig(t, "tune_interval: soon\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unparseable duration")
	}
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	cfg := Default()
	cfg.AcceptThreshold = 1.5
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for threshold > 1")
	}

	cfg = Default()
	cfg.Seed = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty seed")
	}

	cfg = Default()
	cfg.TuneInterval = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero interval")
	}
}
