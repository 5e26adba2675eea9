package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.HeizmannBaseURL == "" {
		t.Fatal("base url default missing")
	}
	if cfg.PressureTolerancePct >= cfg.PressureCutoffPct {
		t.Fatalf("tolerance %v must sit below cutoff %v", cfg.PressureTolerancePct, cfg.PressureCutoffPct)
	}
	if cfg.DiameterTolerancePct >= cfg.DiameterCutoffPct {
		t.Fatalf("tolerance %v must sit below cutoff %v", cfg.DiameterTolerancePct, cfg.DiameterCutoffPct)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HEIZMANN_BASE_URL", "https://example.test")
	t.Setenv("SCRAPE_RATE_LIMIT_RPS", "7")
	t.Setenv("PRESSURE_TOLERANCE_PCT", "12.5")
	t.Setenv("SCRAPE_TIMEOUT_MS", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.HeizmannBaseURL != "https://example.test" {
		t.Fatalf("base url = %s", cfg.HeizmannBaseURL)
	}
	if cfg.ScrapeRateLimitRPS != 7 {
		t.Fatalf("rps = %d", cfg.ScrapeRateLimitRPS)
	}
	if cfg.PressureTolerancePct != 12.5 {
		t.Fatalf("tolerance = %v", cfg.PressureTolerancePct)
	}
	if cfg.ScrapeTimeoutMs != 15000 {
		t.Fatalf("unparsable int must fall back, got %d", cfg.ScrapeTimeoutMs)
	}
}

func TestRequire(t *testing.T) {
	var cfg Config

	if err := cfg.Require("HEIZMANN_BASE_URL", "https://example.test"); err != nil {
		t.Fatalf("non-empty value must pass: %v", err)
	}

	err := cfg.Require("HEIZMANN_BASE_URL", "  ")
	if err == nil {
		t.Fatal("blank value must fail")
	}
	if !strings.Contains(err.Error(), "HEIZMANN_BASE_URL") {
		t.Fatalf("error should name the variable, got %v", err)
	}
}
