package config

import (
	"strings"
	"testing"
)

type envTestConfig struct {
	Horizon int `env:"PADDOCK_TEST_HORIZON" envDefault:"365"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Horizon != 365 {
		t.Fatalf("expected default horizon 365, got %d", cfg.Horizon)
	}
}

func TestParseEnvOverride(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("PADDOCK_TEST_HORIZON", "30")

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Horizon != 30 {
		t.Fatalf("expected horizon 30, got %d", cfg.Horizon)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("PADDOCK_TEST_HORIZON", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
