package config

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"

	"github.com/i474232898/weather-dashboard/internal/city"
)

type AppConfig struct {
	Port string `env:"PORT,default=8080"`

	// BackendURL is the base URL of the forecast/history/alerts API.
	BackendURL string `env:"BACKEND_URL,default=http://127.0.0.1:8000"`

	GeocoderURL           string        `env:"GEOCODER_URL,default=https://geocoding-api.open-meteo.com/v1/search"`
	GoogleGeocoderAPIKey  string        `env:"GOOGLE_GEOCODER_API_KEY"`
	GeocodeCacheTTL       time.Duration `env:"GEOCODE_CACHE_TTL,default=1h"`
	GeocodeLanguage       string        `env:"GEOCODE_LANGUAGE,default=zh"`
	HTTPTimeout           time.Duration `env:"HTTP_TIMEOUT,default=10s"`
	BreakerFailureTrigger uint32        `env:"BREAKER_FAILURES,default=5"`

	// StateFile persists the selected city and theme between restarts.
	StateFile   string `env:"STATE_FILE,default=./data/state.json"`
	DefaultCity string `env:"DEFAULT_CITY,default=北京"`

	ForecastDays int `env:"FORECAST_DAYS,default=7"`
	HistoryDays  int `env:"HISTORY_DAYS,default=14"`
	AlertDays    int `env:"ALERT_DAYS,default=7"`

	// RefreshInterval controls the periodic refresh job (0 = disabled).
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL,default=30m"`

	// Device coordinate used as the geolocation capability; both empty means unavailable.
	DeviceLat string `env:"DEVICE_LAT"`
	DeviceLon string `env:"DEVICE_LON"`
}

// Load reads configuration from environment (and an optional .env file) with sensible defaults.
func Load(ctx context.Context) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}
	if err := envconfig.Process(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) validate() error {
	if c.ForecastDays < 1 || c.ForecastDays > 14 {
		return fmt.Errorf("invalid FORECAST_DAYS %d: must be within 1-14", c.ForecastDays)
	}
	if c.HistoryDays < 7 || c.HistoryDays > 90 {
		return fmt.Errorf("invalid HISTORY_DAYS %d: must be within 7-90", c.HistoryDays)
	}
	if c.AlertDays < 1 || c.AlertDays > 14 {
		return fmt.Errorf("invalid ALERT_DAYS %d: must be within 1-14", c.AlertDays)
	}
	if c.RefreshInterval < 0 {
		return fmt.Errorf("invalid REFRESH_INTERVAL: must not be negative")
	}
	c.DefaultCity = city.Normalize(c.DefaultCity)
	if c.DefaultCity == "" {
		return fmt.Errorf("DEFAULT_CITY must not be blank")
	}
	if _, _, err := c.DevicePoint(); err != nil {
		return err
	}
	return nil
}

// DevicePoint returns the configured device coordinate. ok is false when none is configured.
func (c *AppConfig) DevicePoint() (city.GeoPoint, bool, error) {
	latStr := strings.TrimSpace(c.DeviceLat)
	lonStr := strings.TrimSpace(c.DeviceLon)
	if latStr == "" && lonStr == "" {
		return city.GeoPoint{}, false, nil
	}
	if latStr == "" || lonStr == "" {
		return city.GeoPoint{}, false, fmt.Errorf("DEVICE_LAT and DEVICE_LON must be set together")
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return city.GeoPoint{}, false, fmt.Errorf("invalid DEVICE_LAT: %w", err)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return city.GeoPoint{}, false, fmt.Errorf("invalid DEVICE_LON: %w", err)
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return city.GeoPoint{}, false, fmt.Errorf("device coordinate out of range: %f,%f", lat, lon)
	}
	return city.GeoPoint{Lat: lat, Lon: lon}, true, nil
}
