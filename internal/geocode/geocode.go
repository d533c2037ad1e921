// Package geocode resolves free-form place names to canonical places.
package geocode

import (
	"context"
	"log"
	"strings"
)

// Place is one geocoding search hit.
type Place struct {
	Name    string   `json:"name"`
	Admin1  string   `json:"admin1,omitempty"`
	Country string   `json:"country,omitempty"`
	Lat     *float64 `json:"latitude,omitempty"`
	Lon     *float64 `json:"longitude,omitempty"`
}

// Display renders "name · admin1 · country", omitting blank parts.
func (p Place) Display() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{p.Name, p.Admin1, p.Country} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " · ")
}

// Searcher looks up places by name.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Place, error)
}

// Refine resolves name to the first hit's canonical name. Any failure, or no hit,
// keeps name as given.
func Refine(ctx context.Context, s Searcher, name string) string {
	if s == nil || strings.TrimSpace(name) == "" {
		return name
	}

	places, err := s.Search(ctx, name)
	if err != nil {
		log.Printf("geocode: refine %q failed, keeping candidate: %v", name, err)
		return name
	}
	for _, p := range places {
		if n := strings.TrimSpace(p.Name); n != "" {
			return n
		}
	}
	return name
}

// Chain tries each searcher in order and returns the first non-empty result.
type Chain []Searcher

// Search implements Searcher.
func (c Chain) Search(ctx context.Context, query string) ([]Place, error) {
	var lastErr error
	for _, s := range c {
		places, err := s.Search(ctx, query)
		if err != nil {
			lastErr = err
			continue
		}
		if len(places) > 0 {
			return places, nil
		}
	}
	return nil, lastErr
}
