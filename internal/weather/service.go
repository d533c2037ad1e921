package weather

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// Series is the outcome of one reconciliation cycle. A failure of one fetch is
// recorded in its error field and never hides the other series.
type Series struct {
	City     string `json:"city"`
	Forecast []Day  `json:"forecast"`
	History  []Day  `json:"history"`
	// Merged is History with forecast values substituted on overlapping dates.
	Merged []Day `json:"merged"`

	ForecastErr error `json:"-"`
	HistoryErr  error `json:"-"`
}

// Reconciler fetches forecast and history windows and reconciles them.
type Reconciler struct {
	source Source

	mu           sync.RWMutex
	lastForecast []Day
}

// NewReconciler creates a new Reconciler.
func NewReconciler(source Source) *Reconciler {
	return &Reconciler{
		source: source,
	}
}

// FetchAndMerge fetches both windows concurrently for city and returns the merged
// series. When the forecast fetch fails the history is returned unmerged; when
// the history fetch fails the forecast is still returned.
func (r *Reconciler) FetchAndMerge(ctx context.Context, city string, forecastDays, historyDays int) Series {
	s := Series{City: city}

	if forecastDays <= 0 || historyDays <= 0 {
		err := fmt.Errorf("window sizes must be greater than zero")
		s.ForecastErr, s.HistoryErr = err, err
		return s
	}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		days, err := r.source.Forecast(ctx, city, forecastDays)
		if err != nil {
			log.Printf("reconciler: forecast fetch failed for %s: %v", city, err)
			s.ForecastErr = err
			return
		}
		s.Forecast = days
	}()

	go func() {
		defer wg.Done()
		days, err := r.source.History(ctx, city, historyDays)
		if err != nil {
			log.Printf("reconciler: history fetch failed for %s: %v", city, err)
			s.HistoryErr = err
			return
		}
		s.History = days
	}()

	wg.Wait()

	r.mu.Lock()
	if s.ForecastErr == nil {
		r.lastForecast = s.Forecast
	} else {
		r.lastForecast = nil
	}
	r.mu.Unlock()

	if s.HistoryErr == nil {
		s.Merged = Merge(s.History, s.Forecast)
	}

	log.Printf("DEBUG: reconciled %s: %d forecast days, %d history days", city, len(s.Forecast), len(s.Merged))
	return s
}

// LastForecast returns a copy of the forecast window of the latest cycle,
// empty when that cycle's forecast fetch failed.
func (r *Reconciler) LastForecast() []Day {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Day, len(r.lastForecast))
	copy(out, r.lastForecast)
	return out
}
