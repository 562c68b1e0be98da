package cli

import (
	"cvcraft/internal/config"
	"cvcraft/internal/observability"
	"cvcraft/internal/usecase"
	"cvcraft/pkg/infrastructure"

	"go.uber.org/zap"
)

// newExporter builds the chromedp-backed exporter from configuration.
func newExporter(cfg *config.Config, logger *zap.Logger, opts ...usecase.ExporterOption) *usecase.Exporter {
	engine := infrastructure.NewChromedpEngine(infrastructure.EngineConfig{
		ExecPath: cfg.Export.ChromePath,
		Timeout:  cfg.Export.Timeout,
		Logger:   logger.Named("chromedp"),
	})
	opts = append([]usecase.ExporterOption{
		usecase.WithLogger(logger.Named("export")),
		usecase.WithRetry(cfg.Export.Attempts, cfg.Export.Backoff),
	}, opts...)
	return usecase.NewExporter(engine, engine, opts...)
}

func newMetrics(cfg *config.Config) *observability.Metrics {
	if !cfg.Metrics.Enabled {
		return nil
	}
	return observability.NewMetrics()
}
