package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/i474232898/weather-dashboard/internal/store"
)

// Theme is the persisted display mode.
type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

var (
	// ErrInvalidTheme is returned for modes other than system, light and dark.
	ErrInvalidTheme = errors.New("invalid theme mode")
)

// Valid reports whether t is a known mode.
func (t Theme) Valid() bool {
	switch t {
	case ThemeSystem, ThemeLight, ThemeDark:
		return true
	}
	return false
}

// Theme returns the persisted mode, ThemeSystem when unset or unreadable.
func (s *Session) Theme() Theme {
	v, ok, err := s.kv.Get(store.KeyTheme)
	if err != nil {
		log.Printf("ERROR: session: reading theme: %v", err)
		return ThemeSystem
	}
	if t := Theme(v); ok && t.Valid() {
		return t
	}
	return ThemeSystem
}

// SetTheme persists mode and re-renders the dashboard.
func (s *Session) SetTheme(ctx context.Context, mode Theme) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, mode)
	}
	if err := s.kv.Set(store.KeyTheme, string(mode)); err != nil {
		return fmt.Errorf("persist theme: %w", err)
	}
	s.Refresh(ctx)
	return nil
}
