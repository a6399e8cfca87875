package cli

import (
	"context"
	"os"

	"github.com/DustyPolk/dev-setup/internal/config"
	"github.com/DustyPolk/dev-setup/internal/logging"
	"github.com/DustyPolk/dev-setup/internal/platform"
)

// loadManifest parses the setup.lua manifest. A missing manifest falls
// back to the default tool set so `devsetup up` works out of the box.
func loadManifest(ctx context.Context, detector platform.Detector) (*config.Config, error) {
	log := logging.GetLogger("cli")

	path := manifestPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Info().Str("path", path).Msg("no manifest found, using defaults (run 'devsetup init' to customize)")
		return config.DefaultConfig(), nil
	}

	parser := config.NewParser(detector)
	cfg, err := parser.ParseFile(ctx, path)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("path", path).Int("tools", len(cfg.Tools)).Msg("manifest loaded")
	return cfg, nil
}
