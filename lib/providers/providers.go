package providers

import (
	"context"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/minikern/imagepack/cmd/pack/config"
	"github.com/minikern/imagepack/lib/image"
	"github.com/minikern/imagepack/lib/paths"
)

// ProvideContext provides a base context
func ProvideContext() context.Context {
	return context.Background()
}

// ProvideLogger provides a structured logger
func ProvideLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// ProvideConfig provides the application configuration
func ProvideConfig() *config.Config {
	return config.Load()
}

// ProvidePaths provides the data directory layout
func ProvidePaths(cfg *config.Config) *paths.Paths {
	return paths.New(cfg.DataDir)
}

// ProvideMeter provides the meter for pack metrics. The global provider is
// a no-op unless a metrics SDK is installed.
func ProvideMeter() metric.Meter {
	return otel.Meter("imagepack")
}

// ProvideImageManager provides the image manager
func ProvideImageManager(p *paths.Paths, logger *slog.Logger, meter metric.Meter) (image.Manager, error) {
	return image.NewManager(p, logger, meter)
}
