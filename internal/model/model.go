package model

import "time"

// Coordinates is an immutable (latitude, longitude) pair in degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Location is the result of geocoding a free-form address.
type Location struct {
	Coordinates Coordinates `json:"coordinates"`
	Postcode    string      `json:"postcode,omitempty"`
	Confidence  float64     `json:"confidence"`
}

// WeatherSnapshot is a single read of current conditions at a location.
// Immutable once constructed.
type WeatherSnapshot struct {
	Temperature   float64   `json:"temperature"`
	WeatherCode   int       `json:"weather_code"`
	WindSpeed     float64   `json:"wind_speed"`
	WindDirection int       `json:"wind_direction"`
	IsDay         bool      `json:"is_day"`
	ObservedAt    time.Time `json:"observed_at"`
}

// Severity returns the severity tier of the snapshot's weather code.
func (w WeatherSnapshot) Severity() Severity {
	return ClassifyWeatherCode(w.WeatherCode)
}

// Station is one bike-share station near the requested address.
type Station struct {
	ID             string  `json:"id"`
	Name           string  `json:"name,omitempty"`
	DistanceMeters float64 `json:"distance_meters"`
	BikesAvailable int     `json:"bikes_available"`
	DocksAvailable int     `json:"docks_available"`
	Mechanical     int     `json:"mechanical"`
	Electric       int     `json:"electric"`
}

// StationSnapshot is a read of nearby station availability. Stations are
// ordered by distance ascending; a successful fetch with no stations in
// range yields an empty (not nil) slice.
type StationSnapshot struct {
	Stations  []Station `json:"stations"`
	FetchedAt time.Time `json:"fetched_at"`
}

// AnyBikeAvailable reports whether at least one nearby station has a bike.
func (s StationSnapshot) AnyBikeAvailable() bool {
	for _, st := range s.Stations {
		if st.BikesAvailable > 0 {
			return true
		}
	}
	return false
}

// Nearest returns the closest station, or false when the snapshot is empty.
func (s StationSnapshot) Nearest() (Station, bool) {
	if len(s.Stations) == 0 {
		return Station{}, false
	}
	return s.Stations[0], true
}
