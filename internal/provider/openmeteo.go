package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ndelorme/commute-advisor/internal/config"
	"github.com/ndelorme/commute-advisor/internal/model"
	"github.com/ndelorme/commute-advisor/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// OpenMeteoProvider fetches current conditions from the Open-Meteo forecast
// API. The address is geocoded first, then a single current-weather request
// is made for the resulting coordinates.
type OpenMeteoProvider struct {
	baseURL  string
	timezone string
	geocoder Geocoder
	client   *http.Client
	logger   *zap.Logger
	tele     *telemetry.Telemetry
}

type openMeteoResponse struct {
	CurrentWeather *struct {
		Temperature   float64 `json:"temperature"`
		WindSpeed     float64 `json:"windspeed"`
		WindDirection int     `json:"winddirection"`
		WeatherCode   int     `json:"weathercode"`
		IsDay         int     `json:"is_day"`
		Time          string  `json:"time"`
	} `json:"current_weather"`
}

func NewOpenMeteoProvider(cfg config.WeatherConfig, geocoder Geocoder, client *http.Client, logger *zap.Logger, tele *telemetry.Telemetry) *OpenMeteoProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &OpenMeteoProvider{
		baseURL:  cfg.BaseURL,
		timezone: cfg.Timezone,
		geocoder: geocoder,
		client:   client,
		logger:   logger,
		tele:     tele,
	}
}

func (p *OpenMeteoProvider) Name() string {
	return "open-meteo"
}

func (p *OpenMeteoProvider) Fetch(ctx context.Context, address string) (model.WeatherSnapshot, error) {
	tracer := p.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "provider.openmeteo.Fetch")
	defer span.End()

	loc, err := p.geocoder.Geocode(ctx, address)
	if err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		return model.WeatherSnapshot{}, err
	}

	span.SetAttributes(
		attribute.Float64("lat", loc.Coordinates.Lat),
		attribute.Float64("lon", loc.Coordinates.Lon),
	)

	u, err := url.Parse(fmt.Sprintf("%s/forecast", p.baseURL))
	if err != nil {
		return model.WeatherSnapshot{}, err
	}

	q := u.Query()
	q.Set("latitude", fmt.Sprintf("%.6f", loc.Coordinates.Lat))
	q.Set("longitude", fmt.Sprintf("%.6f", loc.Coordinates.Lon))
	q.Set("current_weather", "true")
	if p.timezone != "" {
		q.Set("timezone", p.timezone)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return model.WeatherSnapshot{}, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return model.WeatherSnapshot{}, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.WeatherSnapshot{}, fmt.Errorf("weather API returned status %d", resp.StatusCode)
	}

	var body openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return model.WeatherSnapshot{}, fmt.Errorf("malformed weather response: %w", err)
	}

	if body.CurrentWeather == nil {
		return model.WeatherSnapshot{}, fmt.Errorf("malformed weather response: missing current_weather")
	}

	cw := body.CurrentWeather

	observedAt := time.Now().UTC()
	if ts, err := time.Parse("2006-01-02T15:04", cw.Time); err == nil {
		observedAt = ts
	}

	snapshot := model.WeatherSnapshot{
		Temperature:   cw.Temperature,
		WeatherCode:   cw.WeatherCode,
		WindSpeed:     cw.WindSpeed,
		WindDirection: cw.WindDirection,
		IsDay:         cw.IsDay == 1,
		ObservedAt:    observedAt,
	}

	p.logger.Debug("Fetched current weather",
		zap.String("address", address),
		zap.Float64("temperature", snapshot.Temperature),
		zap.Int("weather_code", snapshot.WeatherCode),
		zap.String("severity", snapshot.Severity().String()))

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("weather_code", snapshot.WeatherCode),
	)

	return snapshot, nil
}
