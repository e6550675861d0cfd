package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ndelorme/commute-advisor/internal/config"
	"github.com/ndelorme/commute-advisor/internal/model"
	"go.uber.org/zap"
)

var (
	// ErrAddressNotFound means the geocoding API returned no candidate for
	// the address.
	ErrAddressNotFound = errors.New("address not found")

	// ErrLowConfidence means the best geocoding candidate scored below the
	// configured confidence threshold.
	ErrLowConfidence = errors.New("geocoding confidence too low")
)

// BANGeocoder resolves addresses through the French national address base
// (Base Adresse Nationale).
type BANGeocoder struct {
	baseURL   string
	threshold float64
	client    *http.Client
	logger    *zap.Logger
}

type banResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Score    float64 `json:"score"`
			Postcode string  `json:"postcode"`
		} `json:"properties"`
	} `json:"features"`
}

func NewBANGeocoder(cfg config.GeocodeConfig, client *http.Client, logger *zap.Logger) *BANGeocoder {
	if client == nil {
		client = http.DefaultClient
	}
	return &BANGeocoder{
		baseURL:   cfg.BaseURL,
		threshold: cfg.ConfidenceThreshold,
		client:    client,
		logger:    logger,
	}
}

func (g *BANGeocoder) Geocode(ctx context.Context, address string) (model.Location, error) {
	u, err := url.Parse(g.baseURL)
	if err != nil {
		return model.Location{}, fmt.Errorf("invalid geocode base URL: %w", err)
	}

	q := u.Query()
	q.Set("q", address)
	q.Set("limit", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return model.Location{}, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return model.Location{}, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Location{}, fmt.Errorf("geocode API returned status %d", resp.StatusCode)
	}

	var body banResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return model.Location{}, fmt.Errorf("malformed geocode response: %w", err)
	}

	if len(body.Features) == 0 {
		return model.Location{}, fmt.Errorf("%w: %q", ErrAddressNotFound, address)
	}

	feature := body.Features[0]
	if len(feature.Geometry.Coordinates) < 2 {
		return model.Location{}, fmt.Errorf("malformed geocode response: missing coordinates")
	}

	// GeoJSON convention: [lon, lat].
	loc := model.Location{
		Coordinates: model.Coordinates{
			Lat: feature.Geometry.Coordinates[1],
			Lon: feature.Geometry.Coordinates[0],
		},
		Postcode:   feature.Properties.Postcode,
		Confidence: feature.Properties.Score,
	}

	if loc.Confidence < g.threshold {
		g.logger.Warn("Geocoding confidence below threshold",
			zap.String("address", address),
			zap.Float64("confidence", loc.Confidence),
			zap.Float64("threshold", g.threshold))
		return model.Location{}, fmt.Errorf("%w: score %.2f below %.2f",
			ErrLowConfidence, loc.Confidence, g.threshold)
	}

	g.logger.Debug("Address geocoded",
		zap.String("address", address),
		zap.Float64("lat", loc.Coordinates.Lat),
		zap.Float64("lon", loc.Coordinates.Lon),
		zap.Float64("confidence", loc.Confidence))

	return loc, nil
}
