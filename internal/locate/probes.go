package locate

import (
	"context"
	"log"

	"github.com/i474232898/weather-dashboard/internal/backend"
	"github.com/i474232898/weather-dashboard/internal/city"
)

// Probe is one stage of the fallback chain. It returns a candidate place name
// and true, or false when the stage produced nothing. Probes never fail outward.
type Probe func(ctx context.Context) (string, bool)

// IPLocator is the backend's IP-based location lookup.
type IPLocator interface {
	IPCity(ctx context.Context) (backend.IPCityResponse, error)
}

// IPProbe asks the backend for an IP-based guess.
func IPProbe(l IPLocator) Probe {
	return func(ctx context.Context) (string, bool) {
		if l == nil {
			return "", false
		}
		resp, err := l.IPCity(ctx)
		if err != nil {
			log.Printf("locate: ip lookup failed: %v", err)
			return "", false
		}
		name := city.Normalize(resp.Name())
		if name == "" {
			log.Printf("locate: ip lookup returned no usable city")
			return "", false
		}
		return name, true
	}
}

// GeoProbe snaps the device coordinate to the nearest reference city. A nil
// geolocator means the capability is absent.
func GeoProbe(g Geolocator) Probe {
	return func(ctx context.Context) (string, bool) {
		if g == nil {
			return "", false
		}
		p, err := g.Locate(ctx)
		if err != nil {
			log.Printf("locate: geolocation failed: %v", err)
			return "", false
		}
		return city.Nearest(p), true
	}
}
