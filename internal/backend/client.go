// Package backend is a typed client for the dashboard's backend API.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Client calls /api/forecast, /api/history, /api/alerts/summary, /api/ip-city and /api/nlp.
type Client struct {
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// Options tunes a Client. Zero values fall back to defaults.
type Options struct {
	BreakerFailures uint32
	Backoff         BackoffConfig
}

// NewClient creates a Client for the API rooted at baseURL.
func NewClient(httpClient *http.Client, baseURL string, opts Options) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: HTTPClientConfig{
			Client:  httpClient,
			Backoff: opts.Backoff,
		},
		circuit: newBreaker("backend", opts.BreakerFailures),
	}
}

// IPCityResponse is the backend's IP-based location guess.
type IPCityResponse struct {
	City       string   `json:"city"`
	Normalized string   `json:"normalized"`
	Lat        *float64 `json:"lat"`
	Lon        *float64 `json:"lon"`
}

// Name prefers the backend-normalized name over the raw IP city.
func (r IPCityResponse) Name() string {
	if n := strings.TrimSpace(r.Normalized); n != "" {
		return n
	}
	return strings.TrimSpace(r.City)
}

// AdviceResponse is the reply of the natural-language advice endpoint.
type AdviceResponse struct {
	Intent          string      `json:"intent"`
	City            string      `json:"city,omitempty"`
	ForDate         string      `json:"for_date,omitempty"`
	Advice          AdviceLines `json:"advice,omitempty"`
	TemperatureC    *float64    `json:"temperature_c,omitempty"`
	TMax            *float64    `json:"tmax,omitempty"`
	TMin            *float64    `json:"tmin,omitempty"`
	PrecipitationMM *float64    `json:"precipitation_mm,omitempty"`
	Message         string      `json:"message,omitempty"`
}

// AdviceLines accepts either a single advice string or a list of them.
type AdviceLines []string

func (a *AdviceLines) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		if one == "" {
			*a = nil
		} else {
			*a = AdviceLines{one}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*a = many
	return nil
}

// Forecast returns the short-horizon forecast window for city.
func (c *Client) Forecast(ctx context.Context, city string, days int) ([]weather.Day, error) {
	var payload struct {
		Forecast *[]weather.Day `json:"forecast"`
	}
	if err := c.getJSON(ctx, "/api/forecast", cityQuery(city, days), &payload); err != nil {
		return nil, err
	}
	if payload.Forecast == nil {
		return nil, fmt.Errorf("%w: missing forecast", ErrMalformed)
	}
	return *payload.Forecast, nil
}

// History returns the history window for city.
func (c *Client) History(ctx context.Context, city string, days int) ([]weather.Day, error) {
	var payload struct {
		History *[]weather.Day `json:"history"`
	}
	if err := c.getJSON(ctx, "/api/history", cityQuery(city, days), &payload); err != nil {
		return nil, err
	}
	if payload.History == nil {
		return nil, fmt.Errorf("%w: missing history", ErrMalformed)
	}
	return *payload.History, nil
}

// AlertsSummary returns the extreme-weather days of the next window.
func (c *Client) AlertsSummary(ctx context.Context, city string, days int) ([]weather.Extreme, error) {
	var payload struct {
		Extremes *[]weather.Extreme `json:"extremes"`
	}
	if err := c.getJSON(ctx, "/api/alerts/summary", cityQuery(city, days), &payload); err != nil {
		return nil, err
	}
	if payload.Extremes == nil {
		return nil, fmt.Errorf("%w: missing extremes", ErrMalformed)
	}
	return *payload.Extremes, nil
}

// IPCity asks the backend to guess the caller's city from its IP address.
func (c *Client) IPCity(ctx context.Context) (IPCityResponse, error) {
	var payload IPCityResponse
	if err := c.getJSON(ctx, "/api/ip-city", nil, &payload); err != nil {
		return IPCityResponse{}, err
	}
	return payload, nil
}

// Advice sends a free-text question about the weather in city.
func (c *Client) Advice(ctx context.Context, query, city string) (AdviceResponse, error) {
	values := url.Values{}
	values.Set("q", query)
	values.Set("city", city)

	var payload AdviceResponse
	if err := c.getJSON(ctx, "/api/nlp", values, &payload); err != nil {
		return AdviceResponse{}, err
	}
	if payload.Intent == "" {
		return AdviceResponse{}, fmt.Errorf("%w: missing intent", ErrMalformed)
	}
	return payload, nil
}

func cityQuery(city string, days int) url.Values {
	values := url.Values{}
	values.Set("city", city)
	values.Set("days", strconv.Itoa(days))
	return values
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	buildRequest := func() (*http.Request, error) {
		u := c.baseURL + path
		if len(query) > 0 {
			u = fmt.Sprintf("%s?%s", u, query.Encode())
		}
		return http.NewRequest(http.MethodGet, u, nil)
	}

	start := time.Now()
	resp, err := doRequest(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("GET %s: %w: %v", path, ErrMalformed, err)
	}
	log.Printf("DEBUG: backend GET %s took %s", path, time.Since(start))
	return nil
}
