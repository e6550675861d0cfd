package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/ndelorme/commute-advisor/internal/model"
	"github.com/sony/gobreaker"
)

// BreakerConfig tunes the circuit breakers wrapped around provider clients.
type BreakerConfig struct {
	Interval            time.Duration
	Timeout             time.Duration
	ConsecutiveFailures uint32
}

// DefaultBreakerConfig trips after 3 consecutive failures and probes again
// after 30 seconds.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Interval:            time.Minute,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 3,
	}
}

func newBreaker(name string, cfg BreakerConfig) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
	})
}

// BreakerWeatherProvider guards a WeatherProvider with a circuit breaker so
// a flapping upstream fails fast instead of burning its timeout budget on
// every request.
type BreakerWeatherProvider struct {
	cb      *gobreaker.CircuitBreaker
	wrapped WeatherProvider
}

func NewBreakerWeatherProvider(cfg BreakerConfig, wrapped WeatherProvider) *BreakerWeatherProvider {
	return &BreakerWeatherProvider{
		cb:      newBreaker(wrapped.Name(), cfg),
		wrapped: wrapped,
	}
}

func (b *BreakerWeatherProvider) Name() string {
	return b.wrapped.Name()
}

func (b *BreakerWeatherProvider) Fetch(ctx context.Context, address string) (model.WeatherSnapshot, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.wrapped.Fetch(ctx, address)
	})
	if err != nil {
		return model.WeatherSnapshot{}, fmt.Errorf("%s unavailable: %w", b.Name(), err)
	}
	snapshot, ok := result.(model.WeatherSnapshot)
	if !ok {
		return model.WeatherSnapshot{}, fmt.Errorf("%s returned unexpected result", b.Name())
	}
	return snapshot, nil
}

// BreakerStationProvider guards a StationProvider with a circuit breaker.
type BreakerStationProvider struct {
	cb      *gobreaker.CircuitBreaker
	wrapped StationProvider
}

func NewBreakerStationProvider(cfg BreakerConfig, wrapped StationProvider) *BreakerStationProvider {
	return &BreakerStationProvider{
		cb:      newBreaker(wrapped.Name(), cfg),
		wrapped: wrapped,
	}
}

func (b *BreakerStationProvider) Name() string {
	return b.wrapped.Name()
}

func (b *BreakerStationProvider) Fetch(ctx context.Context, address string) (model.StationSnapshot, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.wrapped.Fetch(ctx, address)
	})
	if err != nil {
		return model.StationSnapshot{}, fmt.Errorf("%s unavailable: %w", b.Name(), err)
	}
	snapshot, ok := result.(model.StationSnapshot)
	if !ok {
		return model.StationSnapshot{}, fmt.Errorf("%s returned unexpected result", b.Name())
	}
	return snapshot, nil
}
