// Package dashboard holds the session state behind the weather dashboard and
// runs its refresh cycles.
package dashboard

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/weather-dashboard/internal/backend"
	"github.com/i474232898/weather-dashboard/internal/locate"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Panel names used as keys of Snapshot.Errors.
const (
	PanelForecast = "forecast"
	PanelHistory  = "history"
	PanelExtremes = "extremes"
)

// AlertSource serves the extreme-weather summary.
type AlertSource interface {
	AlertsSummary(ctx context.Context, city string, days int) ([]weather.Extreme, error)
}

// AdviceSource answers free-text questions.
type AdviceSource interface {
	Advice(ctx context.Context, query, city string) (backend.AdviceResponse, error)
}

// Windows sets how many days each panel requests.
type Windows struct {
	Forecast int
	History  int
	Alerts   int
}

// Snapshot is the view model published by one refresh cycle.
type Snapshot struct {
	CycleID   string            `json:"cycleId"`
	City      string            `json:"city"`
	Theme     Theme             `json:"theme"`
	Forecast  []weather.Day     `json:"forecast"`
	History   []weather.Day     `json:"history"`
	Extremes  []weather.Extreme `json:"extremes"`
	HighRisk  int               `json:"highRiskDays"`
	Outlook   *weather.Outlook  `json:"outlook,omitempty"`
	Class     weather.Class     `json:"class,omitempty"`
	Errors    map[string]string `json:"errors,omitempty"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// Session replaces the dashboard's ambient globals: persisted city and theme,
// the last forecast window, the current weather class and the last snapshot.
type Session struct {
	kv         store.KV
	resolver   *locate.Resolver
	reconciler *weather.Reconciler
	alerts     AlertSource
	advice     AdviceSource
	windows    Windows

	mu       sync.RWMutex
	class    weather.Class
	snapshot Snapshot
}

// Config wires a Session.
type Config struct {
	Store      store.KV
	Resolver   *locate.Resolver
	Reconciler *weather.Reconciler
	Alerts     AlertSource
	Advice     AdviceSource
	Windows    Windows
}

// NewSession creates a Session and registers it as the resolver's refresher.
func NewSession(cfg Config) *Session {
	w := cfg.Windows
	if w.Forecast <= 0 {
		w.Forecast = 7
	}
	if w.History <= 0 {
		w.History = 14
	}
	if w.Alerts <= 0 {
		w.Alerts = 7
	}

	s := &Session{
		kv:         cfg.Store,
		resolver:   cfg.Resolver,
		reconciler: cfg.Reconciler,
		alerts:     cfg.Alerts,
		advice:     cfg.Advice,
		windows:    w,
	}
	s.resolver.SetRefresher(s)
	return s
}

// Start resolves the initial city and runs the first refresh cycle.
func (s *Session) Start(ctx context.Context) string {
	name, err := s.resolver.ResolveInitialCity(ctx)
	if err != nil {
		log.Printf("ERROR: session: %v", err)
	}
	log.Printf("INFO: session: active city %s", name)
	s.Refresh(ctx)
	return name
}

// Resolver exposes the location resolver.
func (s *Session) Resolver() *locate.Resolver {
	return s.resolver
}

// City returns the active city.
func (s *Session) City() string {
	return s.resolver.Current()
}

// Class returns the current weather class, empty before the first non-empty forecast.
func (s *Session) Class() weather.Class {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.class
}

// Snapshot returns the last published view model.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Refresh runs one cycle: forecast and history through the reconciler, then the
// extreme-weather summary. Each panel is fault-isolated; failures are recorded
// in the snapshot and never returned. Overlapping cycles are not cancelled and
// the last one to finish wins.
func (s *Session) Refresh(ctx context.Context) {
	cycleID := uuid.NewString()
	cityName := s.resolver.Current()
	start := time.Now()

	log.Printf("DEBUG: session: refresh %s started for %s", cycleID, cityName)

	snap := Snapshot{
		CycleID: cycleID,
		City:    cityName,
		Theme:   s.Theme(),
		Errors:  make(map[string]string),
	}

	series := s.reconciler.FetchAndMerge(ctx, cityName, s.windows.Forecast, s.windows.History)
	if series.ForecastErr != nil {
		snap.Errors[PanelForecast] = series.ForecastErr.Error()
	}
	if series.HistoryErr != nil {
		snap.Errors[PanelHistory] = series.HistoryErr.Error()
	}
	snap.Forecast = series.Forecast
	snap.History = series.Merged

	if s.alerts != nil {
		extremes, err := s.alerts.AlertsSummary(ctx, cityName, s.windows.Alerts)
		if err != nil {
			log.Printf("session: extremes fetch failed for %s: %v", cityName, err)
			snap.Errors[PanelExtremes] = err.Error()
		} else {
			snap.Extremes = extremes
			for _, e := range extremes {
				if e.HighRisk() {
					snap.HighRisk++
				}
			}
		}
	}

	outlook, classified := weather.Classify(series.Forecast)

	s.mu.Lock()
	if classified {
		s.class = outlook.Class
		snap.Outlook = &outlook
	}
	snap.Class = s.class
	if len(snap.Errors) == 0 {
		snap.Errors = nil
	}
	snap.UpdatedAt = time.Now().UTC()
	s.snapshot = snap
	s.mu.Unlock()

	log.Printf("DEBUG: session: refresh %s for %s done in %s (class=%s, failed panels=%d)",
		cycleID, cityName, time.Since(start), snap.Class, len(snap.Errors))
}
