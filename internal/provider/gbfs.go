package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/ndelorme/commute-advisor/internal/config"
	"github.com/ndelorme/commute-advisor/internal/model"
	"github.com/ndelorme/commute-advisor/pkg/telemetry"
	"github.com/umahmood/haversine"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// GBFSProvider fetches bike-share availability from a pair of GBFS feeds:
// station_information (static metadata and coordinates) and station_status
// (live bike and dock counts). The two feeds are fetched concurrently and
// joined on station_id; the nearest N stations are returned sorted by
// distance ascending.
type GBFSProvider struct {
	infoURL   string
	statusURL string
	nearestN  int
	geocoder  Geocoder
	client    *http.Client
	logger    *zap.Logger
	tele      *telemetry.Telemetry
}

type gbfsStationInfo struct {
	StationID string  `json:"station_id"`
	Name      string  `json:"name"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
}

type gbfsStationStatus struct {
	StationID          string           `json:"station_id"`
	NumBikesAvailable  int              `json:"num_bikes_available"`
	NumDocksAvailable  int              `json:"num_docks_available"`
	BikeTypesAvailable []map[string]int `json:"num_bikes_available_types"`
}

type gbfsFeed[T any] struct {
	Data struct {
		Stations []T `json:"stations"`
	} `json:"data"`
}

func NewGBFSProvider(cfg config.StationConfig, geocoder Geocoder, client *http.Client, logger *zap.Logger, tele *telemetry.Telemetry) *GBFSProvider {
	if client == nil {
		client = http.DefaultClient
	}
	nearestN := cfg.NearestN
	if nearestN <= 0 {
		nearestN = 3
	}
	return &GBFSProvider{
		infoURL:   cfg.InfoURL,
		statusURL: cfg.StatusURL,
		nearestN:  nearestN,
		geocoder:  geocoder,
		client:    client,
		logger:    logger,
		tele:      tele,
	}
}

func (p *GBFSProvider) Name() string {
	return "gbfs"
}

func (p *GBFSProvider) Fetch(ctx context.Context, address string) (model.StationSnapshot, error) {
	tracer := p.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "provider.gbfs.Fetch")
	defer span.End()

	loc, err := p.geocoder.Geocode(ctx, address)
	if err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		return model.StationSnapshot{}, err
	}

	var (
		wg        sync.WaitGroup
		infos     []gbfsStationInfo
		statuses  []gbfsStationStatus
		infoErr   error
		statusErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		infos, infoErr = fetchFeed[gbfsStationInfo](ctx, p.client, p.infoURL)
	}()
	go func() {
		defer wg.Done()
		statuses, statusErr = fetchFeed[gbfsStationStatus](ctx, p.client, p.statusURL)
	}()
	wg.Wait()

	if infoErr != nil {
		return model.StationSnapshot{}, fmt.Errorf("station information feed: %w", infoErr)
	}
	if statusErr != nil {
		return model.StationSnapshot{}, fmt.Errorf("station status feed: %w", statusErr)
	}

	statusByID := make(map[string]gbfsStationStatus, len(statuses))
	for _, st := range statuses {
		statusByID[st.StationID] = st
	}

	origin := haversine.Coord{Lat: loc.Coordinates.Lat, Lon: loc.Coordinates.Lon}

	stations := make([]model.Station, 0, len(infos))
	for _, info := range infos {
		status, ok := statusByID[info.StationID]
		if !ok {
			// Station present in the information feed but absent from the
			// status feed; no live counts to report.
			continue
		}

		_, km := haversine.Distance(origin, haversine.Coord{Lat: info.Lat, Lon: info.Lon})

		station := model.Station{
			ID:             info.StationID,
			Name:           info.Name,
			DistanceMeters: km * 1000,
			BikesAvailable: status.NumBikesAvailable,
			DocksAvailable: status.NumDocksAvailable,
		}

		for _, types := range status.BikeTypesAvailable {
			if n, ok := types["mechanical"]; ok {
				station.Mechanical = n
			}
			if n, ok := types["ebike"]; ok {
				station.Electric = n
			}
		}

		stations = append(stations, station)
	}

	sort.Slice(stations, func(i, j int) bool {
		return stations[i].DistanceMeters < stations[j].DistanceMeters
	})

	if len(stations) > p.nearestN {
		stations = stations[:p.nearestN]
	}

	snapshot := model.StationSnapshot{
		Stations:  stations,
		FetchedAt: time.Now().UTC(),
	}

	p.logger.Debug("Fetched nearby stations",
		zap.String("address", address),
		zap.Int("stations", len(snapshot.Stations)),
		zap.Bool("any_bike", snapshot.AnyBikeAvailable()))

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("stations", len(snapshot.Stations)),
	)

	return snapshot, nil
}

func fetchFeed[T any](ctx context.Context, client *http.Client, feedURL string) ([]T, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	var feed gbfsFeed[T]
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("malformed feed: %w", err)
	}

	return feed.Data.Stations, nil
}
