package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/bpaddle/competition-engine/elo"
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration.
type Config struct {
	DatabaseURL         string
	JWTSecretKey        string
	ServerPort          int
	Rating              elo.Config
	SeasonSweepInterval time.Duration
}

// Load reads configuration from environment variables. A .env file is
// loaded first if present; its absence is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	rating := elo.DefaultConfig()
	if rating.InitialRating, err = floatEnv("RATING_INITIAL", rating.InitialRating); err != nil {
		return nil, err
	}
	if rating.KProvisional, err = floatEnv("RATING_K_PROVISIONAL", rating.KProvisional); err != nil {
		return nil, err
	}
	if rating.KStable, err = floatEnv("RATING_K_STABLE", rating.KStable); err != nil {
		return nil, err
	}
	if rating.ProvisionalMatches, err = floatEnv("RATING_PROVISIONAL_MATCHES", rating.ProvisionalMatches); err != nil {
		return nil, err
	}
	if rating.WalkoverWinWeight, err = floatEnv("RATING_WALKOVER_WIN_WEIGHT", rating.WalkoverWinWeight); err != nil {
		return nil, err
	}

	sweepInterval := 5 * time.Minute
	if raw := os.Getenv("SEASON_SWEEP_INTERVAL"); raw != "" {
		sweepInterval, err = time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SEASON_SWEEP_INTERVAL environment variable: %w", err)
		}
		if sweepInterval <= 0 {
			return nil, fmt.Errorf("SEASON_SWEEP_INTERVAL must be positive, got %v", sweepInterval)
		}
	}

	return &Config{
		DatabaseURL:         dbURL,
		JWTSecretKey:        jwtKey,
		ServerPort:          port,
		Rating:              rating,
		SeasonSweepInterval: sweepInterval,
	}, nil
}

func floatEnv(name string, fallback float64) (float64, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", name, err)
	}
	return value, nil
}
