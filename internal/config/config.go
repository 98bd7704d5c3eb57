package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultFavorites = "Houston,Chicago,Philadelphia"

type AppConfig struct {
	// WeatherAPIURL is the Open-Meteo compatible forecast endpoint.
	WeatherAPIURL string

	// HTTPTimeout bounds each outbound request (0 = no client timeout).
	HTTPTimeout time.Duration

	// FavoriteCities names the cities of the favorites view, in display order.
	FavoriteCities []string

	// BreakerFailureThreshold enables per-city circuit breakers (0 = off).
	BreakerFailureThreshold int

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.WeatherAPIURL = getenvDefault("WEATHER_API_URL", "https://api.open-meteo.com/v1/forecast")

	timeout, err := time.ParseDuration(getenvDefault("HTTP_TIMEOUT", "0s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	if timeout < 0 {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: must not be negative")
	}
	cfg.HTTPTimeout = timeout

	favs := splitList(getenvDefault("FAVORITE_CITIES", defaultFavorites))
	if len(favs) == 0 {
		return nil, fmt.Errorf("FAVORITE_CITIES must name at least one city")
	}
	cfg.FavoriteCities = favs

	cfg.BreakerFailureThreshold = getenvInt("BREAKER_FAILURE_THRESHOLD", 0)
	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
