// Package cli holds the cvcraft command tree.
package cli

import (
	"context"

	"cvcraft/internal/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type configKeyType struct{}
type loggerKeyType struct{}

var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cvcraft",
		Short: "Build a CV, preview it in a template and export it to PDF",
		Long: `cvcraft edits a single CV document, renders it live in one of four
templates (modern, classic, creative, executive) and exports the rendered
preview as a one-page A4 PDF.`,
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newRenderCmd(), newExportCmd(), newValidateCmd(), newVersionCmd())
	return root
}

// Execute runs the command line with config and logger available to every
// subcommand through the context.
func Execute(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	return run(ctx, cfg, logger, nil)
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, args []string) error {
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	root := newRootCmd()
	if args != nil {
		root.SetArgs(args)
	}
	return root.ExecuteContext(ctx)
}

func getConfigFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg
	}
	panic("config not found in context")
}

func getLoggerFromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}
