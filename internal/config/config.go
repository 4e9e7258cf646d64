package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/reflaxess123/cardflow/internal/logger"
	"github.com/reflaxess123/cardflow/internal/srs"
)

type Config struct {
	Addr                 string
	DBPath               string
	LogLevel             string
	HistoryWorkerCount   int
	HistoryQueueSize     int
	HistoryRetentionDays int

	LearningSteps          []int
	GraduatingIntervalDays int
	EasyIntervalDays       int
	InitialEaseFactor      float64
	MinEaseFactor          float64
	MaxEaseFactor          float64
	HardMultiplier         float64
	EasyBonus              float64
	LapseMultiplier        float64
}

// Load reads configuration from a .env file (if present) and environment
// variables, applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	defaults := srs.DefaultConfig()
	return Config{
		Addr:                 envOr("ADDR", ":8080"),
		DBPath:               envOr("DB_PATH", "file:cardflow.db"),
		LogLevel:             envOr("LOG_LEVEL", "INFO"),
		HistoryWorkerCount:   envIntOr("HISTORY_WORKER_COUNT", 2),
		HistoryQueueSize:     envIntOr("HISTORY_QUEUE_SIZE", 64),
		HistoryRetentionDays: envIntOr("HISTORY_RETENTION_DAYS", 180),

		LearningSteps:          envStepsOr("LEARNING_STEPS", defaults.LearningSteps),
		GraduatingIntervalDays: envIntOr("GRADUATING_INTERVAL_DAYS", defaults.GraduatingIntervalDays),
		EasyIntervalDays:       envIntOr("EASY_INTERVAL_DAYS", defaults.EasyIntervalDays),
		InitialEaseFactor:      envFloatOr("INITIAL_EASE_FACTOR", defaults.InitialEaseFactor),
		MinEaseFactor:          envFloatOr("MIN_EASE_FACTOR", defaults.MinEaseFactor),
		MaxEaseFactor:          envFloatOr("MAX_EASE_FACTOR", defaults.MaxEaseFactor),
		HardMultiplier:         envFloatOr("HARD_MULTIPLIER", defaults.HardMultiplier),
		EasyBonus:              envFloatOr("EASY_BONUS", defaults.EasyBonus),
		LapseMultiplier:        envFloatOr("LAPSE_MULTIPLIER", defaults.LapseMultiplier),
	}
}

// SRS assembles the scheduling constants the engine is constructed with.
func (c Config) SRS() srs.Config {
	return srs.Config{
		LearningSteps:          c.LearningSteps,
		GraduatingIntervalDays: c.GraduatingIntervalDays,
		EasyIntervalDays:       c.EasyIntervalDays,
		InitialEaseFactor:      c.InitialEaseFactor,
		MinEaseFactor:          c.MinEaseFactor,
		MaxEaseFactor:          c.MaxEaseFactor,
		HardMultiplier:         c.HardMultiplier,
		EasyBonus:              c.EasyBonus,
		LapseMultiplier:        c.LapseMultiplier,
	}
}

// Validate checks the whole configuration and reports every violation at
// once.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be DEBUG, INFO, WARN or ERROR, got %q", c.LogLevel))
	}
	if c.HistoryWorkerCount < 1 {
		problems = append(problems, fmt.Sprintf("HISTORY_WORKER_COUNT must be at least 1, got %d", c.HistoryWorkerCount))
	}
	if c.HistoryQueueSize < 1 {
		problems = append(problems, fmt.Sprintf("HISTORY_QUEUE_SIZE must be at least 1, got %d", c.HistoryQueueSize))
	}
	if c.HistoryRetentionDays < 0 {
		problems = append(problems, fmt.Sprintf("HISTORY_RETENTION_DAYS cannot be negative, got %d", c.HistoryRetentionDays))
	}
	if err := c.SRS().Validate(); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		logger.Warn("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envFloatOr(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		logger.Warn("invalid value for %s=%q, using default %g", key, v, def)
	}
	return def
}

// envStepsOr parses a comma-separated list of minute durations, e.g. "1,10".
func envStepsOr(key string, def []int) []int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var steps []int
	for _, part := range strings.Split(v, ",") {
		step, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			logger.Warn("invalid value for %s=%q, using default %v", key, v, def)
			return def
		}
		steps = append(steps, step)
	}
	return steps
}
