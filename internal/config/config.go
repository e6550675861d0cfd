package config

import (
	"sync/atomic"
	"time"
)

var configValue atomic.Value

func GetConfig() *Config {
	return configValue.Load().(*Config)
}

func SetConfig(cfg *Config) {
	configValue.Store(cfg)
}

type Config struct {
	Version     string          `mapstructure:"version"`
	Environment string          `mapstructure:"environment"`
	Server      ServerConfig    `mapstructure:"server"`
	Upstream    UpstreamConfig  `mapstructure:"upstream"`
	Logging     LoggingConfig   `mapstructure:"logging"`
	Telemetry   TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	Host         string `mapstructure:"host"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	IdleTimeout  int    `mapstructure:"idle_timeout"`
}

// UpstreamConfig is the only configuration surface the aggregation core
// consumes. It is passed explicitly at construction time; the core never
// reads the process-wide config.
type UpstreamConfig struct {
	WeatherTimeout float64       `mapstructure:"weather_timeout"`
	StationTimeout float64       `mapstructure:"station_timeout"`
	Geocode        GeocodeConfig `mapstructure:"geocode"`
	Weather        WeatherConfig `mapstructure:"weather"`
	Stations       StationConfig `mapstructure:"stations"`
	BreakerEnabled bool          `mapstructure:"breaker_enabled"`
}

// WeatherTimeoutDuration converts the float-seconds setting, falling back
// to 5s when unset.
func (u UpstreamConfig) WeatherTimeoutDuration() time.Duration {
	return secondsOrDefault(u.WeatherTimeout)
}

// StationTimeoutDuration converts the float-seconds setting, falling back
// to 5s when unset.
func (u UpstreamConfig) StationTimeoutDuration() time.Duration {
	return secondsOrDefault(u.StationTimeout)
}

func secondsOrDefault(seconds float64) time.Duration {
	if seconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(seconds * float64(time.Second))
}

type GeocodeConfig struct {
	BaseURL             string  `mapstructure:"base_url"`
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
}

type WeatherConfig struct {
	BaseURL  string `mapstructure:"base_url"`
	Timezone string `mapstructure:"timezone"`
}

type StationConfig struct {
	InfoURL   string `mapstructure:"info_url"`
	StatusURL string `mapstructure:"status_url"`
	NearestN  int    `mapstructure:"nearest_n"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type TelemetryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Version:     "1.0.0",
		Environment: "development",
		Server: ServerConfig{
			Port:         8080,
			Host:         "0.0.0.0",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  60,
		},
		Upstream: UpstreamConfig{
			WeatherTimeout: 5.0,
			StationTimeout: 5.0,
			Geocode: GeocodeConfig{
				BaseURL:             "https://api-adresse.data.gouv.fr/search/",
				ConfidenceThreshold: 0.9,
			},
			Weather: WeatherConfig{
				BaseURL:  "https://api.open-meteo.com/v1",
				Timezone: "Europe/Paris",
			},
			Stations: StationConfig{
				InfoURL:   "https://velib-metropole-opendata.smovengo.cloud/opendata/Velib_Metropole/station_information.json",
				StatusURL: "https://velib-metropole-opendata.smovengo.cloud/opendata/Velib_Metropole/station_status.json",
				NearestN:  3,
			},
			BreakerEnabled: true,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "",
		},
		Telemetry: TelemetryConfig{
			Enabled:  false,
			Endpoint: "tempo:4317",
		},
	}
}
