// Command assetgen renders the full icon and banner catalog from a source
// logo PNG. Usage:
//
//	go run ./cmd/assetgen <logo.png> [outdir]
//
// The default outdir is ./generated-assets.
package main

import (
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"journalmate/internal/assets"
)

func main() {
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	if len(os.Args) < 2 {
		logger.Error("usage: assetgen <logo.png> [outdir]")
		os.Exit(1)
	}
	logoPath := os.Args[1]
	outDir := "generated-assets"
	if len(os.Args) > 2 {
		outDir = os.Args[2]
	}

	src, err := imaging.Open(logoPath)
	if err != nil {
		logger.Error("could not open logo", zap.String("path", logoPath), zap.Error(err))
		os.Exit(1)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		logger.Error("could not create output dir", zap.Error(err))
		os.Exit(1)
	}

	logo := assets.CropLogo(src)

	failed := 0
	for _, spec := range assets.Catalog {
		out := assets.Compose(logo, spec)
		path := filepath.Join(outDir, spec.Name)
		if err := imaging.Save(out, path); err != nil {
			logger.Error("could not write asset", zap.String("name", spec.Name), zap.Error(err))
			failed++
			continue
		}
		logger.Info("generated", zap.String("name", spec.Name),
			zap.Int("width", spec.Width), zap.Int("height", spec.Height))
	}

	if failed > 0 {
		logger.Error("some assets failed", zap.Int("failed", failed))
		os.Exit(1)
	}
	logger.Info("all assets generated", zap.Int("count", len(assets.Catalog)), zap.String("dir", outDir))
}
