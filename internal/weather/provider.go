package weather

import "context"

// Source abstracts the backend paths serving the two series.
type Source interface {
	Forecast(ctx context.Context, city string, days int) ([]Day, error)
	History(ctx context.Context, city string, days int) ([]Day, error)
}
