package dashboard

import (
	"context"
	"log"
	"strings"

	"github.com/i474232898/weather-dashboard/internal/backend"
)

const (
	IntentUnknown = "unknown"

	// UnrecognizedMessage is the fixed advisory for questions that cannot be answered.
	UnrecognizedMessage = "unrecognized"
)

// Advice is the answer to a free-text question.
type Advice struct {
	Intent          string   `json:"intent"`
	City            string   `json:"city"`
	ForDate         string   `json:"forDate,omitempty"`
	Lines           []string `json:"lines,omitempty"`
	TemperatureC    *float64 `json:"temperatureC,omitempty"`
	TMax            *float64 `json:"tmax,omitempty"`
	TMin            *float64 `json:"tmin,omitempty"`
	PrecipitationMM *float64 `json:"precipitationMm,omitempty"`
	Message         string   `json:"message,omitempty"`
}

// Ask answers q for the active city. Blank questions and any backend failure
// yield the unrecognized advisory; nothing is retried.
func (s *Session) Ask(ctx context.Context, q string) Advice {
	cityName := s.resolver.Current()
	q = strings.TrimSpace(q)
	if q == "" || s.advice == nil {
		return unrecognized(cityName)
	}

	resp, err := s.advice.Advice(ctx, q, cityName)
	if err != nil {
		log.Printf("session: advice query failed for %s: %v", cityName, err)
		return unrecognized(cityName)
	}
	if resp.Intent == IntentUnknown {
		return unrecognized(cityName)
	}
	return fromResponse(cityName, resp)
}

func unrecognized(cityName string) Advice {
	return Advice{
		Intent:  IntentUnknown,
		City:    cityName,
		Message: UnrecognizedMessage,
	}
}

func fromResponse(cityName string, r backend.AdviceResponse) Advice {
	return Advice{
		Intent:          r.Intent,
		City:            cityName,
		ForDate:         r.ForDate,
		Lines:           []string(r.Advice),
		TemperatureC:    r.TemperatureC,
		TMax:            r.TMax,
		TMin:            r.TMin,
		PrecipitationMM: r.PrecipitationMM,
	}
}
