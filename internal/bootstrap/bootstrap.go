package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/kirillkom/strive-toolkit-cli/internal/config"
	"github.com/kirillkom/strive-toolkit-cli/internal/core/domain"
	"github.com/kirillkom/strive-toolkit-cli/internal/core/ports"
	"github.com/kirillkom/strive-toolkit-cli/internal/core/usecase"
	"github.com/kirillkom/strive-toolkit-cli/internal/infrastructure/backend"
	"github.com/kirillkom/strive-toolkit-cli/internal/infrastructure/download"
	"github.com/kirillkom/strive-toolkit-cli/internal/infrastructure/geo"
	"github.com/kirillkom/strive-toolkit-cli/internal/infrastructure/preview"
	"github.com/kirillkom/strive-toolkit-cli/internal/infrastructure/resilience"
	"github.com/kirillkom/strive-toolkit-cli/internal/observability/logging"
	"github.com/kirillkom/strive-toolkit-cli/internal/observability/metrics"
)

// App wires the toolkit client together: one gateway, one artifact sink,
// and the use cases the CLI commands call.
type App struct {
	Config  config.Config
	Logger  *slog.Logger
	Metrics *metrics.ClientMetrics

	Gateway ports.BackendGateway

	Controllers map[domain.Feature]*usecase.GenerationController
	Tracker     *usecase.ConfigStatusTracker
	Resolver    *usecase.LocationResolver
	Batch       *usecase.BatchEmailProcessor
	Status      *usecase.BackendStatus
}

// Options lets a command override individual pieces, mainly the coordinate
// source when --lat/--lon are passed.
type Options struct {
	Sensor ports.CoordinateSource
}

func New(cfg config.Config, opts Options) (*App, error) {
	logger := logging.NewLogger(os.Stderr, "strive-toolkit", cfg.LogLevel, cfg.LogFormat)

	clientMetrics := metrics.NewClientMetrics("strive-toolkit")

	guard := resilience.NewGuard(resilience.Config{
		BreakerEnabled:      cfg.GuardBreakerEnabled,
		BreakerMinRequests:  cfg.GuardBreakerMinRequests,
		BreakerFailureRatio: cfg.GuardBreakerFailureRatio,
		BreakerOpenTimeout:  time.Duration(cfg.GuardBreakerOpenSeconds) * time.Second,
		RateLimitPerSecond:  cfg.GuardRateLimitPerSecond,
	})

	gateway := backend.NewWithOptions(cfg.BackendURL, cfg.RequestTimeout, backend.Options{
		Guard:   guard,
		Metrics: clientMetrics,
	})

	sink, err := download.New(cfg.DownloadDir, clientMetrics)
	if err != nil {
		return nil, fmt.Errorf("init artifact sink: %w", err)
	}

	sensor := opts.Sensor
	if sensor == nil && cfg.CoordinatesPath != "" {
		sensor = geo.NewFileSource(cfg.CoordinatesPath)
	}

	inspector := preview.NewInspector()

	controllers := make(map[domain.Feature]*usecase.GenerationController, 3)
	for _, feature := range []domain.Feature{domain.FeatureAssessment, domain.FeatureLessonPlan, domain.FeatureContent} {
		controllers[feature] = usecase.NewGenerationController(feature, gateway, sink, logger)
	}

	return &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: clientMetrics,

		Gateway: gateway,

		Controllers: controllers,
		Tracker:     usecase.NewConfigStatusTracker(gateway, inspector, clientMetrics, logger),
		Resolver:    usecase.NewLocationResolver(gateway, sensor, logger),
		Batch:       usecase.NewBatchEmailProcessor(gateway, inspector, logger),
		Status:      usecase.NewBackendStatus(gateway),
	}, nil
}
