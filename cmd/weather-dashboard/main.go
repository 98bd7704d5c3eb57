package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/i474232898/weather-dashboard/internal/api/http"
	"github.com/i474232898/weather-dashboard/internal/cities"
	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/i474232898/weather-dashboard/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	registry := cities.Default()
	favorites, err := registry.Select(cfg.FavoriteCities)
	if err != nil {
		log.Fatalf("invalid FAVORITE_CITIES: %v", err)
	}

	// Shared HTTP client for outbound weather calls. A zero timeout leaves
	// requests bounded only by the retry budget.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	fetcher := providers.NewOpenMeteoClient(httpClient,
		providers.WithBaseURL(cfg.WeatherAPIURL),
		providers.WithCircuitBreaker(cfg.BreakerFailureThreshold),
	)

	// Passes derive from this context so shutdown aborts in-flight fetches.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := httpapi.NewApp()
	httpapi.RegisterRoutes(app, &httpapi.Dashboard{
		Registry:     registry,
		Favorites:    favorites,
		Orchestrator: weather.NewOrchestrator(fetcher),
		Fetcher:      fetcher,
		Board:        store.NewBoard(),
		Ctx:          ctx,
	})

	go func() {
		log.Printf("INFO: listening on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
