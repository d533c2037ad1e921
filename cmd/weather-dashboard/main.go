package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/weather-dashboard/internal/api/http"
	"github.com/i474232898/weather-dashboard/internal/backend"
	"github.com/i474232898/weather-dashboard/internal/city"
	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/geocode"
	"github.com/i474232898/weather-dashboard/internal/locate"
	"github.com/i474232898/weather-dashboard/internal/scheduler"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration.
	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Persisted city and theme.
	kv, err := store.OpenFileStore(cfg.StateFile)
	if err != nil {
		log.Fatalf("failed to open state file: %v", err)
	}

	// Shared HTTP client for outbound calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Backend client with circuit breaker; no automatic retries.
	api := backend.NewClient(httpClient, cfg.BackendURL, backend.Options{
		BreakerFailures: cfg.BreakerFailureTrigger,
	})

	// Geocoders: Open-Meteo first, Google when a key is configured.
	searchers := geocode.Chain{geocode.NewOpenMeteo(httpClient, geocode.OpenMeteoConfig{
		BaseURL:  cfg.GeocoderURL,
		Language: cfg.GeocodeLanguage,
		CacheTTL: cfg.GeocodeCacheTTL,
	})}
	if cfg.GoogleGeocoderAPIKey != "" {
		searchers = append(searchers, geocode.NewGoogle(cfg.GoogleGeocoderAPIKey))
	}

	// Location fallback chain: IP lookup, then the device coordinate if any.
	var geo locate.Geolocator
	if point, ok, _ := cfg.DevicePoint(); ok {
		geo = locate.StaticGeolocator{Point: point}
	} else {
		log.Println("INFO: no device coordinate configured; geolocation is unavailable")
	}

	resolver := locate.NewResolver(locate.Config{
		Store:       kv,
		Options:     city.NewOptions(city.DefaultOptions...),
		Probes:      []locate.Probe{locate.IPProbe(api), locate.GeoProbe(geo)},
		Searcher:    searchers,
		DefaultCity: cfg.DefaultCity,
	})

	session := dashboard.NewSession(dashboard.Config{
		Store:      kv,
		Resolver:   resolver,
		Reconciler: weather.NewReconciler(api),
		Alerts:     api,
		Advice:     api,
		Windows: dashboard.Windows{
			Forecast: cfg.ForecastDays,
			History:  cfg.HistoryDays,
			Alerts:   cfg.AlertDays,
		},
	})
	session.Start(ctx)

	// Scheduler that periodically refreshes the dashboard.
	sched := scheduler.New(cfg.RefreshInterval, 2*cfg.HTTPTimeout, session)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-dashboard",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          2*cfg.HTTPTimeout + 5*time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-dashboard",
			"city":    session.City(),
		})
	})

	httpapi.RegisterRoutes(app, session, searchers, api)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()
	log.Printf("INFO: listening on :%s", cfg.Port)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
