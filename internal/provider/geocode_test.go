package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndelorme/commute-advisor/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const banFeature = `{
	"features": [
		{
			"geometry": {"coordinates": [2.385478, 48.852835]},
			"properties": {"score": 0.97, "postcode": "75011"}
		}
	]
}`

func newGeocoder(t *testing.T, handler http.HandlerFunc, threshold float64) (*BANGeocoder, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	g := NewBANGeocoder(config.GeocodeConfig{
		BaseURL:             srv.URL,
		ConfidenceThreshold: threshold,
	}, srv.Client(), zap.NewNop())

	return g, srv
}

func TestBANGeocoderSuccess(t *testing.T) {
	g, _ := newGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1 rue de Charonne, 75011", r.URL.Query().Get("q"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		w.Write([]byte(banFeature))
	}, 0.9)

	loc, err := g.Geocode(context.Background(), "1 rue de Charonne, 75011")
	require.NoError(t, err)

	// GeoJSON order is [lon, lat]; ensure the swap happened.
	assert.InDelta(t, 48.852835, loc.Coordinates.Lat, 1e-9)
	assert.InDelta(t, 2.385478, loc.Coordinates.Lon, 1e-9)
	assert.Equal(t, "75011", loc.Postcode)
	assert.InDelta(t, 0.97, loc.Confidence, 1e-9)
}

func TestBANGeocoderNoFeatures(t *testing.T) {
	g, _ := newGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"features": []}`))
	}, 0.9)

	_, err := g.Geocode(context.Background(), "nowhere at all")
	assert.ErrorIs(t, err, ErrAddressNotFound)
}

func TestBANGeocoderLowConfidence(t *testing.T) {
	g, _ := newGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"features": [
				{
					"geometry": {"coordinates": [2.3, 48.8]},
					"properties": {"score": 0.42, "postcode": "75000"}
				}
			]
		}`))
	}, 0.9)

	_, err := g.Geocode(context.Background(), "smth ambiguous")
	assert.ErrorIs(t, err, ErrLowConfidence)
}

func TestBANGeocoderUpstreamError(t *testing.T) {
	g, _ := newGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}, 0.9)

	_, err := g.Geocode(context.Background(), "any address")
	assert.ErrorContains(t, err, "status 502")
}

func TestBANGeocoderMalformedBody(t *testing.T) {
	g, _ := newGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"features": [`))
	}, 0.9)

	_, err := g.Geocode(context.Background(), "any address")
	assert.ErrorContains(t, err, "malformed geocode response")
}
