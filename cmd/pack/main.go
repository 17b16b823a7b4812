// pack is the build-pipeline driver: it reads a program manifest, embeds
// every listed binary into a packed kernel image, and records the boundary
// directory plus a metadata sidecar under the data directory.
package main

import (
	"log/slog"
	"os"

	"github.com/minikern/imagepack/lib/image"
	"github.com/minikern/imagepack/lib/logger"
)

func main() {
	if err := run(); err != nil {
		slog.Error("pack failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	app, err := initializeApp()
	if err != nil {
		return err
	}
	slog.SetDefault(app.Logger)

	cfg := app.Config
	manifestPath := cfg.ManifestPath
	if len(os.Args) > 1 {
		manifestPath = os.Args[1]
	}

	ctx := logger.WithContext(app.Ctx, app.Logger)

	img, err := app.ImageManager.PackImage(ctx, image.PackRequest{
		Name:         cfg.ImageName,
		ManifestPath: manifestPath,
		Base:         cfg.BaseAddress,
		Alignment:    cfg.Alignment,
	})
	if err != nil {
		return err
	}

	for _, p := range img.Programs {
		app.Logger.Info("embedded",
			"name", p.Name, "start", p.Start, "end", p.End, "bytes", p.SizeBytes)
	}
	app.Logger.Info("image written",
		"name", img.Name, "id", img.ID,
		"programs", img.ProgramCount, "total_bytes", img.TotalBytes)
	return nil
}
