package geocode

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/kelvins/geocoder"
)

// googleMu serializes access to the geocoder package's global API key.
var googleMu sync.Mutex

// Google resolves names through the Google Geocoding API: a forward lookup to a
// coordinate, then a reverse lookup to structured addresses.
type Google struct {
	apiKey string
}

// NewGoogle creates a Google searcher.
func NewGoogle(apiKey string) *Google {
	return &Google{apiKey: apiKey}
}

// Search returns the addresses at the coordinate query geocodes to.
func (g *Google) Search(ctx context.Context, query string) ([]Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if g.apiKey == "" {
		return nil, fmt.Errorf("%w: google api key is not configured", ErrUnavailable)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	googleMu.Lock()
	defer googleMu.Unlock()
	geocoder.ApiKey = g.apiKey

	loc, err := geocoder.Geocoding(geocoder.Address{City: query})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	addresses, err := geocoder.GeocodingReverse(loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	lat, lon := loc.Latitude, loc.Longitude
	places := make([]Place, 0, len(addresses))
	for _, a := range addresses {
		if a.City == "" {
			continue
		}
		places = append(places, Place{
			Name:    a.City,
			Admin1:  a.State,
			Country: a.Country,
			Lat:     &lat,
			Lon:     &lon,
		})
	}
	return places, nil
}
