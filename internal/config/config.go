package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath    string
	OutputDir string

	HeizmannBaseURL     string
	HeizmannCategoryURL string
	ScrapeRateLimitRPS  int
	ScrapeTimeoutMs     int
	ScrapeMaxVariants   int

	PressureTolerancePct float64
	PressureCutoffPct    float64
	DiameterTolerancePct float64
	DiameterCutoffPct    float64
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		HeizmannBaseURL:     getEnv("HEIZMANN_BASE_URL", "https://www.heizmann.ch"),
		HeizmannCategoryURL: getEnv("HEIZMANN_CATEGORY_URL", "/de/category/5/hochdruck-gummischlaeuche"),
		ScrapeRateLimitRPS:  getEnvInt("SCRAPE_RATE_LIMIT_RPS", 2),
		ScrapeTimeoutMs:     getEnvInt("SCRAPE_TIMEOUT_MS", 15000),
		ScrapeMaxVariants:   getEnvInt("SCRAPE_MAX_VARIANTS", 15),

		// The catalog documentation targets a 5-15% working-pressure
		// tolerance without fixing a value; 10 is the shipped default.
		PressureTolerancePct: getEnvFloat("PRESSURE_TOLERANCE_PCT", 10),
		PressureCutoffPct:    getEnvFloat("PRESSURE_CUTOFF_PCT", 30),
		DiameterTolerancePct: getEnvFloat("DIAMETER_TOLERANCE_PCT", 5),
		DiameterCutoffPct:    getEnvFloat("DIAMETER_CUTOFF_PCT", 15),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
