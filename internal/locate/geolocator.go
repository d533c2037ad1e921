package locate

import (
	"context"
	"errors"

	"github.com/i474232898/weather-dashboard/internal/city"
)

var (
	// ErrPermissionDenied is returned when the user refuses to share a position.
	ErrPermissionDenied = errors.New("geolocation permission denied")
	// ErrUnavailable is returned when no position capability exists.
	ErrUnavailable = errors.New("geolocation unavailable")
)

// Geolocator reports the device's current coordinate. Implementations own any
// prompting and timeout behaviour; the resolver imposes none of its own.
type Geolocator interface {
	Locate(ctx context.Context) (city.GeoPoint, error)
}

// StaticGeolocator reports a fixed, configured device coordinate.
type StaticGeolocator struct {
	Point city.GeoPoint
}

// Locate implements Geolocator.
func (g StaticGeolocator) Locate(ctx context.Context) (city.GeoPoint, error) {
	if err := ctx.Err(); err != nil {
		return city.GeoPoint{}, err
	}
	return g.Point, nil
}
