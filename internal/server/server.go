package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ndelorme/commute-advisor/internal/aggregator"
	"github.com/ndelorme/commute-advisor/internal/config"
	"github.com/ndelorme/commute-advisor/internal/provider"
	"github.com/ndelorme/commute-advisor/internal/server/handlers"
	"github.com/ndelorme/commute-advisor/internal/server/middlewares"
	"github.com/ndelorme/commute-advisor/pkg/telemetry"
	"go.uber.org/zap"
)

const serviceName = "commute-advisor"

type Server struct {
	engine *gin.Engine
	server *http.Server
	agg    *aggregator.Aggregator
	logger *zap.Logger
	tele   *telemetry.Telemetry
}

var (
	instance *Server
	once     sync.Once
)

func NewServer(logger *zap.Logger, tele *telemetry.Telemetry) *Server {
	once.Do(func() {
		cfg := config.GetConfig()

		agg := buildAggregator(cfg.Upstream, logger, tele)

		gin.SetMode(gin.ReleaseMode)
		engine := gin.New()

		engine.Use(middlewares.RequestIDMiddleware(logger))
		engine.Use(middlewares.LoggingMiddleware(logger, time.RFC3339, true))
		engine.Use(middlewares.RecoveryMiddleware(logger, true))
		engine.Use(middlewares.TelemetryMiddleware(logger, tele))
		engine.Use(cors.Default())

		instance = &Server{
			engine: engine,
			agg:    agg,
			logger: logger,
			tele:   tele,
		}

		instance.setupRoutes(cfg.Version)
	})

	return instance
}

// buildAggregator wires the provider stack: a shared geocoder feeding the
// Open-Meteo and GBFS clients, optionally wrapped in circuit breakers.
func buildAggregator(cfg config.UpstreamConfig, logger *zap.Logger, tele *telemetry.Telemetry) *aggregator.Aggregator {
	httpClient := &http.Client{}

	geocoder := provider.NewBANGeocoder(cfg.Geocode, httpClient, logger)

	var weather provider.WeatherProvider = provider.NewOpenMeteoProvider(cfg.Weather, geocoder, httpClient, logger, tele)
	var stations provider.StationProvider = provider.NewGBFSProvider(cfg.Stations, geocoder, httpClient, logger, tele)

	if cfg.BreakerEnabled {
		breakerCfg := provider.DefaultBreakerConfig()
		weather = provider.NewBreakerWeatherProvider(breakerCfg, weather)
		stations = provider.NewBreakerStationProvider(breakerCfg, stations)
	}

	return aggregator.NewAggregator(cfg, weather, stations, logger, tele)
}

func (s *Server) setupRoutes(version string) {
	// Business endpoints
	s.engine.GET("/dashboard", handlers.NewDashboardHandler(s.agg, s.logger).GetDashboard)

	// Service info
	s.engine.GET("/", handlers.NewInfoHandler(serviceName, version).Info)

	// Health endpoints (Kubernetes friendly)
	s.engine.GET("/health", handlers.NewHealthHandler(s.logger).Health)
	s.engine.GET("/health/live", handlers.NewHealthHandler(s.logger).Liveness)
	s.engine.GET("/health/ready", handlers.NewHealthHandler(s.logger).Readiness)
}

func (s *Server) Start() error {
	cfg := config.GetConfig()

	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: s.engine,
	}

	s.logger.Info("Starting server", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}
