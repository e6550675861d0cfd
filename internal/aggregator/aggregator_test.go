package aggregator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ndelorme/commute-advisor/internal/config"
	"github.com/ndelorme/commute-advisor/internal/decision"
	"github.com/ndelorme/commute-advisor/internal/model"
	"github.com/ndelorme/commute-advisor/pkg/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubWeatherProvider struct {
	snapshot model.WeatherSnapshot
	err      error
	delay    time.Duration
}

func (s stubWeatherProvider) Name() string { return "stub-weather" }

func (s stubWeatherProvider) Fetch(ctx context.Context, address string) (model.WeatherSnapshot, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return model.WeatherSnapshot{}, ctx.Err()
		}
	}
	return s.snapshot, s.err
}

type stubStationProvider struct {
	snapshot model.StationSnapshot
	err      error
	delay    time.Duration
}

func (s stubStationProvider) Name() string { return "stub-stations" }

func (s stubStationProvider) Fetch(ctx context.Context, address string) (model.StationSnapshot, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return model.StationSnapshot{}, ctx.Err()
		}
	}
	return s.snapshot, s.err
}

func newTestAggregator(t *testing.T, cfg config.UpstreamConfig, weather stubWeatherProvider, stations stubStationProvider) *Aggregator {
	t.Helper()

	tele, err := telemetry.New(context.Background(), config.TelemetryConfig{Enabled: false})
	require.NoError(t, err)

	return NewAggregator(cfg, weather, stations, zap.NewNop(), tele)
}

func clearWeather() model.WeatherSnapshot {
	return model.WeatherSnapshot{Temperature: 20, WeatherCode: 1, ObservedAt: time.Now().UTC()}
}

func stationsWithBikes() model.StationSnapshot {
	return model.StationSnapshot{Stations: []model.Station{
		{ID: "C", DistanceMeters: 10, BikesAvailable: 5, DocksAvailable: 2},
	}}
}

func TestGetDashboardEmptyAddress(t *testing.T) {
	agg := newTestAggregator(t, config.UpstreamConfig{}, stubWeatherProvider{}, stubStationProvider{})

	_, err := agg.GetDashboard(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyAddress)

	_, err = agg.GetDashboard(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyAddress)
}

func TestGetDashboardBothSucceed(t *testing.T) {
	agg := newTestAggregator(t, config.UpstreamConfig{},
		stubWeatherProvider{snapshot: clearWeather()},
		stubStationProvider{snapshot: stationsWithBikes()})

	result, err := agg.GetDashboard(context.Background(), "1 rue de Charonne, 75011")
	require.NoError(t, err)

	assert.Equal(t, decision.RecommendBike, result.Recommendation)
	assert.False(t, result.Degraded)
	assert.Equal(t, model.StatusSuccess, result.Weather.Status)
	assert.Equal(t, model.StatusSuccess, result.Stations.Status)
	assert.Equal(t, "1 rue de Charonne, 75011", result.Address)
}

func TestGetDashboardBothFail(t *testing.T) {
	agg := newTestAggregator(t, config.UpstreamConfig{},
		stubWeatherProvider{err: errors.New("weather upstream down")},
		stubStationProvider{err: errors.New("station upstream down")})

	result, err := agg.GetDashboard(context.Background(), "somewhere")
	require.NoError(t, err, "aggregation-level failure is not fatal")

	assert.Equal(t, decision.RecommendUnknown, result.Recommendation)
	assert.True(t, result.Degraded)
	assert.Equal(t, model.StatusError, result.Weather.Status)
	assert.Equal(t, model.StatusError, result.Stations.Status)
	assert.Contains(t, result.Rationale, "weather upstream down")
	assert.Contains(t, result.Rationale, "station upstream down")
}

func TestGetDashboardPartialWeatherFailure(t *testing.T) {
	agg := newTestAggregator(t, config.UpstreamConfig{},
		stubWeatherProvider{err: errors.New("boom")},
		stubStationProvider{snapshot: stationsWithBikes()})

	result, err := agg.GetDashboard(context.Background(), "somewhere")
	require.NoError(t, err)

	assert.True(t, result.Degraded)
	assert.Equal(t, decision.RecommendBike, result.Recommendation)
	assert.Contains(t, result.Rationale, "weather unknown")
}

func TestGetDashboardLatencyTracksSlowerUpstream(t *testing.T) {
	// Both providers are slower than half the budget; a sequential
	// implementation would need ~220ms, the concurrent one ~120ms.
	agg := newTestAggregator(t, config.UpstreamConfig{WeatherTimeout: 2, StationTimeout: 2},
		stubWeatherProvider{snapshot: clearWeather(), delay: 100 * time.Millisecond},
		stubStationProvider{snapshot: stationsWithBikes(), delay: 120 * time.Millisecond})

	start := time.Now()
	result, err := agg.GetDashboard(context.Background(), "somewhere")
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.False(t, result.Degraded)
	assert.Less(t, elapsed, 200*time.Millisecond,
		"latency should track max(T1, T2), not T1+T2")
}

func TestGetDashboardTimeoutIsolation(t *testing.T) {
	// Weather stalls past its 100ms budget; stations answer quickly. The
	// result must come back promptly with station data intact.
	agg := newTestAggregator(t, config.UpstreamConfig{WeatherTimeout: 0.1, StationTimeout: 2},
		stubWeatherProvider{snapshot: clearWeather(), delay: 2 * time.Second},
		stubStationProvider{snapshot: stationsWithBikes(), delay: 10 * time.Millisecond})

	start := time.Now()
	result, err := agg.GetDashboard(context.Background(), "somewhere")
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Less(t, elapsed, time.Second, "result must be bounded by the weather timeout")
	assert.Equal(t, model.StatusTimeout, result.Weather.Status)
	assert.Equal(t, model.StatusSuccess, result.Stations.Status)
	assert.True(t, result.Degraded)
	assert.Len(t, result.Stations.Value.Stations, 1)
	assert.Equal(t, decision.RecommendBike, result.Recommendation)
	assert.Contains(t, result.Rationale, "weather unknown")
}

func TestGetDashboardStationTimeoutRationale(t *testing.T) {
	agg := newTestAggregator(t, config.UpstreamConfig{WeatherTimeout: 2, StationTimeout: 0.05},
		stubWeatherProvider{snapshot: clearWeather()},
		stubStationProvider{snapshot: stationsWithBikes(), delay: time.Second})

	result, err := agg.GetDashboard(context.Background(), "somewhere")
	require.NoError(t, err)

	assert.Equal(t, model.StatusTimeout, result.Stations.Status)
	assert.Equal(t, decision.RecommendBike, result.Recommendation)
	assert.Contains(t, result.Rationale, "station availability unknown")
	assert.True(t, result.Degraded)
}

func TestFetchOutcomeMapsErrors(t *testing.T) {
	fetch := func(ctx context.Context, address string) (int, error) {
		return 0, errors.New("upstream said no")
	}
	outcome := fetchOutcome(context.Background(), time.Second, "addr", fetch)
	assert.Equal(t, model.StatusError, outcome.Status)
	assert.Equal(t, "upstream said no", outcome.Reason)

	slow := func(ctx context.Context, address string) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	}
	outcome = fetchOutcome(context.Background(), 20*time.Millisecond, "addr", slow)
	assert.Equal(t, model.StatusTimeout, outcome.Status)

	ok := func(ctx context.Context, address string) (int, error) {
		return 42, nil
	}
	outcome = fetchOutcome(context.Background(), time.Second, "addr", ok)
	assert.Equal(t, model.StatusSuccess, outcome.Status)
	assert.Equal(t, 42, outcome.Value)
}
