// Package locate establishes the active city before any weather data is requested.
package locate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/i474232898/weather-dashboard/internal/city"
	"github.com/i474232898/weather-dashboard/internal/geocode"
	"github.com/i474232898/weather-dashboard/internal/store"
)

var (
	// ErrEmptyCity is returned by SetCity for blank input.
	ErrEmptyCity = errors.New("city must not be empty")
)

// Refresher is notified after an explicit city change.
type Refresher interface {
	Refresh(ctx context.Context)
}

// Resolver selects the city identity every data query uses.
type Resolver struct {
	kv          store.KV
	options     *city.Options
	probes      []Probe
	searcher    geocode.Searcher
	defaultCity string
	refresher   Refresher
}

// Config wires a Resolver.
type Config struct {
	Store    store.KV
	Options  *city.Options
	Probes   []Probe
	Searcher geocode.Searcher
	// DefaultCity terminates the chain; city.DefaultCity when empty.
	DefaultCity string
}

// NewResolver creates a Resolver.
func NewResolver(cfg Config) *Resolver {
	def := city.Normalize(cfg.DefaultCity)
	if def == "" {
		def = city.DefaultCity
	}
	opts := cfg.Options
	if opts == nil {
		opts = city.NewOptions(city.DefaultOptions...)
	}
	return &Resolver{
		kv:          cfg.Store,
		options:     opts,
		probes:      cfg.Probes,
		searcher:    cfg.Searcher,
		defaultCity: def,
	}
}

// SetRefresher registers the component refreshed after SetCity.
func (r *Resolver) SetRefresher(rf Refresher) {
	r.refresher = rf
}

// Options returns the selectable city list.
func (r *Resolver) Options() *city.Options {
	return r.options
}

// Current returns the selected city, then the persisted one, then the default.
// The selection wins so a failed write never splits the active city.
func (r *Resolver) Current() string {
	if name := r.options.Selected(); name != "" {
		return name
	}
	if name, ok := r.persisted(); ok {
		return name
	}
	return r.defaultCity
}

// ResolveInitialCity returns the persisted city when one exists, without any
// network calls or writes. Otherwise it runs the probes in order, refines the
// first candidate through the geocoder, and persists the result, falling back
// to the default city when no probe yields anything. The only error is a
// failed persistence write; the resolved city is returned with it.
func (r *Resolver) ResolveInitialCity(ctx context.Context) (string, error) {
	if name, ok := r.persisted(); ok {
		r.options.Select(name)
		return name, nil
	}

	name, found := r.probe(ctx)
	if !found {
		log.Printf("INFO: locate: no location candidate found, falling back to %s", r.defaultCity)
		name = r.defaultCity
	}

	r.options.Select(name)
	if err := r.kv.Set(store.KeyCity, name); err != nil {
		return name, fmt.Errorf("persist city: %w", err)
	}
	return name, nil
}

// SetCity applies an explicit user selection. It never consults the probes.
func (r *Resolver) SetCity(ctx context.Context, raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ErrEmptyCity
	}
	name := city.Normalize(raw)
	if name == "" {
		return "", ErrEmptyCity
	}

	r.options.Select(name)
	if err := r.kv.Set(store.KeyCity, name); err != nil {
		return name, fmt.Errorf("persist city: %w", err)
	}

	if r.refresher != nil {
		r.refresher.Refresh(ctx)
	}
	return name, nil
}

// LocateByIP switches to the backend's IP-based guess, leaving the selection
// untouched when the lookup yields nothing.
func (r *Resolver) LocateByIP(ctx context.Context, l IPLocator) (string, bool, error) {
	candidate, ok := IPProbe(l)(ctx)
	if !ok {
		return r.Current(), false, nil
	}
	name, err := r.SetCity(ctx, candidate)
	return name, err == nil, err
}

// probe runs the chain until a stage yields a candidate, then refines it.
func (r *Resolver) probe(ctx context.Context) (string, bool) {
	for i, p := range r.probes {
		candidate, ok := p(ctx)
		if !ok {
			continue
		}
		refined := city.Normalize(geocode.Refine(ctx, r.searcher, candidate))
		if refined == "" {
			refined = city.Normalize(candidate)
		}
		if refined == "" {
			continue
		}
		log.Printf("locate: stage %d resolved %q as %q", i+1, candidate, refined)
		return refined, true
	}
	return "", false
}

func (r *Resolver) persisted() (string, bool) {
	v, ok, err := r.kv.Get(store.KeyCity)
	if err != nil {
		log.Printf("ERROR: locate: reading persisted city: %v", err)
		return "", false
	}
	name := city.Normalize(v)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}
