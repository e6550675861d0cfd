package aggregator

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ndelorme/commute-advisor/internal/config"
	"github.com/ndelorme/commute-advisor/internal/decision"
	"github.com/ndelorme/commute-advisor/internal/model"
	"github.com/ndelorme/commute-advisor/internal/provider"
	"github.com/ndelorme/commute-advisor/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ErrEmptyAddress is the only error GetDashboard surfaces: without an
// address there is nothing to aggregate. All upstream failure is folded
// into the result instead.
var ErrEmptyAddress = errors.New("address must not be empty")

// DashboardResult is the single entity returned to the client: both fetch
// outcomes, the recommendation derived from whatever succeeded, and a
// degradation flag. Built fresh per request, never persisted.
type DashboardResult struct {
	Address        string                               `json:"address"`
	Weather        model.Outcome[model.WeatherSnapshot] `json:"weather"`
	Stations       model.Outcome[model.StationSnapshot] `json:"stations"`
	Recommendation decision.Recommendation              `json:"recommendation"`
	Rationale      string                               `json:"rationale"`
	Degraded       bool                                 `json:"degraded"`
	GeneratedAt    time.Time                            `json:"generated_at"`
}

// Aggregator fans a dashboard request out to the weather and bike-station
// providers under independent timeouts and folds the outcomes into one
// DashboardResult. It holds no per-request state and is safe for
// concurrent use.
type Aggregator struct {
	weatherTimeout time.Duration
	stationTimeout time.Duration
	weather        provider.WeatherProvider
	stations       provider.StationProvider
	logger         *zap.Logger
	tele           *telemetry.Telemetry
}

func NewAggregator(cfg config.UpstreamConfig, weather provider.WeatherProvider, stations provider.StationProvider, logger *zap.Logger, tele *telemetry.Telemetry) *Aggregator {
	return &Aggregator{
		weatherTimeout: cfg.WeatherTimeoutDuration(),
		stationTimeout: cfg.StationTimeoutDuration(),
		weather:        weather,
		stations:       stations,
		logger:         logger,
		tele:           tele,
	}
}

// GetDashboard answers "bike or transit?" for an address. Both provider
// calls run concurrently, each bound by its own timeout; a stall in one
// never delays or dooms the other. Total latency tracks the slower of the
// two, never their sum.
func (a *Aggregator) GetDashboard(ctx context.Context, address string) (*DashboardResult, error) {
	if strings.TrimSpace(address) == "" {
		return nil, ErrEmptyAddress
	}

	tracer := a.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "aggregator.GetDashboard")
	defer span.End()

	span.SetAttributes(attribute.String("address", address))

	start := time.Now()

	weatherCh := make(chan model.Outcome[model.WeatherSnapshot], 1)
	stationCh := make(chan model.Outcome[model.StationSnapshot], 1)

	go func() {
		weatherCh <- fetchOutcome(ctx, a.weatherTimeout, address, a.weather.Fetch)
	}()
	go func() {
		stationCh <- fetchOutcome(ctx, a.stationTimeout, address, a.stations.Fetch)
	}()

	// Join point: both outcomes always arrive, at worst after their own
	// timeout. The channels are buffered so neither goroutine can leak.
	weatherOut := <-weatherCh
	stationOut := <-stationCh

	recommendation, rationale := decision.Decide(weatherOut, stationOut)

	result := &DashboardResult{
		Address:        address,
		Weather:        weatherOut,
		Stations:       stationOut,
		Recommendation: recommendation,
		Rationale:      rationale,
		Degraded:       weatherOut.Failed() || stationOut.Failed(),
		GeneratedAt:    time.Now().UTC(),
	}

	a.logger.Info("Dashboard aggregated",
		zap.String("address", address),
		zap.String("weather_status", string(weatherOut.Status)),
		zap.String("station_status", string(stationOut.Status)),
		zap.String("recommendation", string(recommendation)),
		zap.Bool("degraded", result.Degraded),
		zap.Duration("latency", time.Since(start)))

	span.SetAttributes(
		attribute.String("weather.status", string(weatherOut.Status)),
		attribute.String("stations.status", string(stationOut.Status)),
		attribute.String("recommendation", string(recommendation)),
		attribute.Bool("degraded", result.Degraded),
	)

	return result, nil
}

// fetchOutcome runs one provider call under its own deadline and maps the
// result into the tagged Outcome envelope. Cancelling the per-call context
// propagates to the provider's network operation, so a timed-out call does
// not hold resources past its boundary.
func fetchOutcome[T any](ctx context.Context, timeout time.Duration, address string, fetch func(context.Context, string) (T, error)) model.Outcome[T] {
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	value, err := fetch(fetchCtx, address)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(fetchCtx.Err(), context.DeadlineExceeded) {
			return model.Timeout[T]()
		}
		return model.Failure[T](err.Error())
	}

	return model.Success(value)
}
