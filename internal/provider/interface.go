package provider

import (
	"context"

	"github.com/ndelorme/commute-advisor/internal/model"
)

// WeatherProvider fetches current conditions for an address. Cancellation
// and deadlines arrive through the context; implementations must not block
// past it.
type WeatherProvider interface {
	Fetch(ctx context.Context, address string) (model.WeatherSnapshot, error)
	Name() string
}

// StationProvider fetches nearby bike-share availability for an address.
type StationProvider interface {
	Fetch(ctx context.Context, address string) (model.StationSnapshot, error)
	Name() string
}

// Geocoder resolves a free-form address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (model.Location, error)
}
