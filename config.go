package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/enricosaito/nutri-macros-mobile-sub000/nutrition"
	"github.com/joho/godotenv"
)

// config holds everything read from the environment at startup.
type config struct {
	DBURL          string
	Addr           string
	RangePolicy    nutrition.RangePolicy
	LoginRateLimit int
}

// loadConfig reads .env (if present) and the process environment. A missing
// .env is fine in production where variables come from the host; a value
// that is set but invalid is an error.
func loadConfig() (config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("[loadConfig] no .env loaded: %v", err)
	}
	return configFromEnv()
}

func configFromEnv() (config, error) {
	policy, err := nutrition.ParseRangePolicy(os.Getenv("RANGE_POLICY"))
	if err != nil {
		return config{}, fmt.Errorf("RANGE_POLICY: %w", err)
	}

	limit, err := strconv.Atoi(getEnv("LOGIN_RATE_LIMIT", "5"))
	if err != nil || limit <= 0 {
		return config{}, fmt.Errorf("LOGIN_RATE_LIMIT must be a positive integer, got %q", os.Getenv("LOGIN_RATE_LIMIT"))
	}

	return config{
		DBURL:          os.Getenv("DB_URL"),
		Addr:           getEnv("BIND_ADDR", "localhost") + ":" + getEnv("PORT", "3000"),
		RangePolicy:    policy,
		LoginRateLimit: limit,
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
