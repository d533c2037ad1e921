package geocode

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/patrickmn/go-cache"
	"github.com/sony/gobreaker"
)

var (
	// ErrUnavailable is returned when the geocoding service cannot be reached or errors.
	ErrUnavailable = errors.New("geocoding service unavailable")
)

// OpenMeteo searches the Open-Meteo geocoding API.
type OpenMeteo struct {
	baseURL  string
	language string
	count    int
	client   *resty.Client
	circuit  *gobreaker.CircuitBreaker
	cache    *cache.Cache
}

// OpenMeteoConfig configures an OpenMeteo searcher.
type OpenMeteoConfig struct {
	BaseURL  string
	Language string
	Count    int
	CacheTTL time.Duration
}

// NewOpenMeteo creates an OpenMeteo searcher sharing httpClient.
func NewOpenMeteo(httpClient *http.Client, cfg OpenMeteoConfig) *OpenMeteo {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://geocoding-api.open-meteo.com/v1/search"
	}
	if cfg.Language == "" {
		cfg.Language = "zh"
	}
	if cfg.Count <= 0 {
		cfg.Count = 8
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openmeteo-geocoding",
		MaxRequests: 1,
		Interval:    1 * time.Minute,
		Timeout:     1 * time.Minute,
	})

	var c *cache.Cache
	if cfg.CacheTTL > 0 {
		c = cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}

	return &OpenMeteo{
		baseURL:  cfg.BaseURL,
		language: cfg.Language,
		count:    cfg.Count,
		client:   resty.NewWithClient(httpClient),
		circuit:  cb,
		cache:    c,
	}
}

// Search returns up to the configured number of places matching query.
// An empty query returns no places without contacting the service.
func (g *OpenMeteo) Search(ctx context.Context, query string) ([]Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	key := g.language + "|" + query
	if g.cache != nil {
		if v, ok := g.cache.Get(key); ok {
			return v.([]Place), nil
		}
	}

	result, err := g.circuit.Execute(func() (interface{}, error) {
		var payload struct {
			Results []Place `json:"results"`
		}
		resp, err := g.client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"name":     query,
				"language": g.language,
				"count":    strconv.Itoa(g.count),
			}).
			SetResult(&payload).
			Get(g.baseURL)
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("status %d", resp.StatusCode())
		}
		return payload.Results, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	places, _ := result.([]Place)
	if g.cache != nil {
		g.cache.Set(key, places, cache.DefaultExpiration)
	}
	return places, nil
}
