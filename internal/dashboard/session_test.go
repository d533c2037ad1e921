package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/i474232898/weather-dashboard/internal/backend"
	"github.com/i474232898/weather-dashboard/internal/city"
	"github.com/i474232898/weather-dashboard/internal/locate"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

type fakeBackend struct {
	mu          sync.Mutex
	forecast    []weather.Day
	history     []weather.Day
	extremes    []weather.Extreme
	forecastErr error
	historyErr  error
	alertsErr   error
	advice      backend.AdviceResponse
	adviceErr   error
	adviceCalls int
	cities      []string
}

func (f *fakeBackend) Forecast(ctx context.Context, c string, days int) ([]weather.Day, error) {
	f.mu.Lock()
	f.cities = append(f.cities, c)
	f.mu.Unlock()
	return f.forecast, f.forecastErr
}

func (f *fakeBackend) History(ctx context.Context, c string, days int) ([]weather.Day, error) {
	return f.history, f.historyErr
}

func (f *fakeBackend) AlertsSummary(ctx context.Context, c string, days int) ([]weather.Extreme, error) {
	return f.extremes, f.alertsErr
}

func (f *fakeBackend) Advice(ctx context.Context, q, c string) (backend.AdviceResponse, error) {
	f.adviceCalls++
	return f.advice, f.adviceErr
}

func (f *fakeBackend) lastCity() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.cities) == 0 {
		return ""
	}
	return f.cities[len(f.cities)-1]
}

// failingStore reads from memory but rejects every write.
type failingStore struct {
	*store.MemoryStore
}

func (failingStore) Set(key, value string) error {
	return errors.New("disk full")
}

func newSession(t *testing.T, fb *fakeBackend, probes ...locate.Probe) (*Session, *store.MemoryStore) {
	t.Helper()
	kv := store.NewMemoryStore()
	return newSessionWithStore(t, fb, kv, probes...), kv
}

func newSessionWithStore(t *testing.T, fb *fakeBackend, kv store.KV, probes ...locate.Probe) *Session {
	t.Helper()
	r := locate.NewResolver(locate.Config{
		Store:   kv,
		Options: city.NewOptions(city.DefaultOptions...),
		Probes:  probes,
	})
	s := NewSession(Config{
		Store:      kv,
		Resolver:   r,
		Reconciler: weather.NewReconciler(fb),
		Alerts:     fb,
		Advice:     fb,
		Windows:    Windows{Forecast: 7, History: 14, Alerts: 7},
	})
	return s
}

func rainyForecast() []weather.Day {
	return []weather.Day{
		{Date: "2025-08-23", TemperatureC: 20, PrecipitationMM: 1},
		{Date: "2025-08-24", TemperatureC: 21, PrecipitationMM: 1},
		{Date: "2025-08-25", TemperatureC: 22, PrecipitationMM: 0},
	}
}

func history() []weather.Day {
	return []weather.Day{
		{Date: "2025-08-22", TemperatureC: 30},
		{Date: "2025-08-23", TemperatureC: 31},
	}
}

func TestStartResolvesAndRefreshes(t *testing.T) {
	fb := &fakeBackend{
		forecast: rainyForecast(),
		history:  history(),
		extremes: []weather.Extreme{{Date: "2025-08-24", Level: "高风险"}, {Date: "2025-08-25", Level: "低风险"}},
	}
	ipProbe := func(ctx context.Context) (string, bool) { return "厦门", true }
	s, kv := newSession(t, fb, ipProbe)

	if got := s.Start(context.Background()); got != "厦门" {
		t.Fatalf("expected 厦门, got %q", got)
	}
	if v, _, _ := kv.Get(store.KeyCity); v != "厦门" {
		t.Fatalf("expected 厦门 persisted, got %q", v)
	}

	snap := s.Snapshot()
	if snap.City != "厦门" || snap.CycleID == "" {
		t.Fatalf("unexpected snapshot header %+v", snap)
	}
	if len(snap.History) != 2 || snap.History[1].TemperatureC != 20 || snap.History[0].TemperatureC != 30 {
		t.Fatalf("expected merged history, got %+v", snap.History)
	}
	if snap.Class != weather.ClassRainy || s.Class() != weather.ClassRainy {
		t.Fatalf("expected rainy class, got %q", snap.Class)
	}
	if snap.HighRisk != 1 || len(snap.Extremes) != 2 {
		t.Fatalf("expected one high-risk day, got %d", snap.HighRisk)
	}
	if snap.Errors != nil {
		t.Fatalf("expected no panel errors, got %v", snap.Errors)
	}
	if snap.Theme != ThemeSystem {
		t.Fatalf("expected default theme, got %q", snap.Theme)
	}
}

func TestPersistFailureKeepsResolvedCityActive(t *testing.T) {
	fb := &fakeBackend{forecast: rainyForecast(), history: history()}
	ipProbe := func(ctx context.Context) (string, bool) { return "厦门", true }
	s := newSessionWithStore(t, fb, failingStore{store.NewMemoryStore()}, ipProbe)

	if got := s.Start(context.Background()); got != "厦门" {
		t.Fatalf("expected 厦门, got %q", got)
	}
	if fb.lastCity() != "厦门" {
		t.Fatalf("expected refresh for 厦门, got %q", fb.lastCity())
	}
	if s.City() != "厦门" || s.Snapshot().City != "厦门" {
		t.Fatalf("expected 厦门 to stay active, got city %q snapshot %q", s.City(), s.Snapshot().City)
	}

	if _, err := s.Resolver().SetCity(context.Background(), "成都"); err == nil {
		t.Fatalf("expected persistence error")
	}
	if s.City() != "成都" || s.Resolver().Options().Selected() != "成都" {
		t.Fatalf("expected 成都 to be active after a failed write, got %q", s.City())
	}
	if a := s.Ask(context.Background(), " "); a.City != "成都" {
		t.Fatalf("expected advice for 成都, got %q", a.City)
	}
}

func TestRefreshIsolatesForecastFailure(t *testing.T) {
	fb := &fakeBackend{
		history:     history(),
		forecastErr: backend.ErrStatus,
		extremes:    []weather.Extreme{},
	}
	s, _ := newSession(t, fb)
	s.Refresh(context.Background())

	snap := s.Snapshot()
	if _, ok := snap.Errors[PanelForecast]; !ok {
		t.Fatalf("expected forecast panel error")
	}
	if _, ok := snap.Errors[PanelHistory]; ok {
		t.Fatalf("history panel must render")
	}
	if len(snap.History) != 2 || snap.History[1].TemperatureC != 31 {
		t.Fatalf("expected unmerged history, got %+v", snap.History)
	}
	if snap.Class != "" {
		t.Fatalf("failed forecast must not produce a class, got %q", snap.Class)
	}
}

func TestRefreshIsolatesHistoryAndAlertFailures(t *testing.T) {
	fb := &fakeBackend{
		forecast:   rainyForecast(),
		historyErr: backend.ErrTransport,
		alertsErr:  backend.ErrMalformed,
	}
	s, _ := newSession(t, fb)
	s.Refresh(context.Background())

	snap := s.Snapshot()
	if len(snap.Forecast) != 3 {
		t.Fatalf("forecast panel must render, got %+v", snap.Forecast)
	}
	if len(snap.Errors) != 2 {
		t.Fatalf("expected history and extremes errors, got %v", snap.Errors)
	}
}

func TestEmptyForecastKeepsPreviousClass(t *testing.T) {
	fb := &fakeBackend{forecast: rainyForecast(), history: history()}
	s, _ := newSession(t, fb)
	s.Refresh(context.Background())
	if s.Class() != weather.ClassRainy {
		t.Fatalf("expected rainy, got %q", s.Class())
	}

	fb.forecast = []weather.Day{}
	s.Refresh(context.Background())
	if s.Class() != weather.ClassRainy {
		t.Fatalf("empty forecast must keep previous class, got %q", s.Class())
	}
	snap := s.Snapshot()
	if snap.Outlook != nil || snap.Class != weather.ClassRainy {
		t.Fatalf("unexpected snapshot outlook %+v class %q", snap.Outlook, snap.Class)
	}
}

func TestSetCityTriggersRefresh(t *testing.T) {
	fb := &fakeBackend{forecast: rainyForecast(), history: history()}
	s, _ := newSession(t, fb)

	if _, err := s.Resolver().SetCity(context.Background(), "南宁市"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fb.lastCity() != "南宁" {
		t.Fatalf("expected refresh for 南宁, got %q", fb.lastCity())
	}
	if s.Snapshot().City != "南宁" || s.City() != "南宁" {
		t.Fatalf("expected snapshot for 南宁, got %q", s.Snapshot().City)
	}
}

func TestTheme(t *testing.T) {
	fb := &fakeBackend{}
	s, kv := newSession(t, fb)

	if s.Theme() != ThemeSystem {
		t.Fatalf("expected system theme by default")
	}
	if err := s.SetTheme(context.Background(), ThemeDark); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _, _ := kv.Get(store.KeyTheme); v != "dark" {
		t.Fatalf("expected dark persisted, got %q", v)
	}
	if s.Snapshot().Theme != ThemeDark {
		t.Fatalf("expected re-render with dark theme")
	}
	if err := s.SetTheme(context.Background(), "neon"); !errors.Is(err, ErrInvalidTheme) {
		t.Fatalf("expected ErrInvalidTheme, got %v", err)
	}

	kv.Set(store.KeyTheme, "garbage")
	if s.Theme() != ThemeSystem {
		t.Fatalf("unknown persisted theme must read as system")
	}
}

func TestAsk(t *testing.T) {
	temp := 21.0
	fb := &fakeBackend{advice: backend.AdviceResponse{
		Intent:       "outfit_day",
		ForDate:      "2025-08-24",
		Advice:       backend.AdviceLines{"长袖薄衫或T恤+长裤"},
		TemperatureC: &temp,
	}}
	s, _ := newSession(t, fb)

	blank := s.Ask(context.Background(), "   ")
	if blank.Intent != IntentUnknown || blank.Message != UnrecognizedMessage {
		t.Fatalf("expected unrecognized advisory, got %+v", blank)
	}
	if fb.adviceCalls != 0 {
		t.Fatalf("blank questions must not reach the backend")
	}

	a := s.Ask(context.Background(), "明天穿什么")
	if a.Intent != "outfit_day" || len(a.Lines) != 1 || *a.TemperatureC != 21 {
		t.Fatalf("unexpected advice %+v", a)
	}
	if a.City != city.DefaultCity {
		t.Fatalf("expected active city %s, got %q", city.DefaultCity, a.City)
	}

	fb.adviceErr = backend.ErrTransport
	if failed := s.Ask(context.Background(), "明天穿什么"); failed.Message != UnrecognizedMessage {
		t.Fatalf("expected unrecognized advisory on failure, got %+v", failed)
	}
	if fb.adviceCalls != 2 {
		t.Fatalf("expected no retries, got %d calls", fb.adviceCalls)
	}

	fb.adviceErr = nil
	fb.advice = backend.AdviceResponse{Intent: IntentUnknown, Message: "请换个方式问问吧"}
	if unknown := s.Ask(context.Background(), "你好"); unknown.Message != UnrecognizedMessage {
		t.Fatalf("expected unrecognized advisory for unknown intent, got %+v", unknown)
	}
}
