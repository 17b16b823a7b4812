//go:build wireinject

package main

import (
	"context"
	"log/slog"

	"github.com/google/wire"

	"github.com/minikern/imagepack/cmd/pack/config"
	"github.com/minikern/imagepack/lib/image"
	"github.com/minikern/imagepack/lib/providers"
)

// application struct to hold initialized components
type application struct {
	Ctx          context.Context
	Logger       *slog.Logger
	Config       *config.Config
	ImageManager image.Manager
}

// initializeApp is the injector function
func initializeApp() (*application, error) {
	panic(wire.Build(
		providers.ProvideContext,
		providers.ProvideLogger,
		providers.ProvideConfig,
		providers.ProvidePaths,
		providers.ProvideMeter,
		providers.ProvideImageManager,
		wire.Struct(new(application), "*"),
	))
}
