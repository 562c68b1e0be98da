package cli

import (
	"fmt"
	"path/filepath"

	"cvcraft/internal/usecase"
	"cvcraft/pkg/infrastructure"

	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Export a CV file to a one-page PDF",
		Long: `Render a CV file and export it through a headless Chrome. The PDF is
named after the person, e.g. Jane_Doe.pdf, or CV_Resume.pdf when no name is
set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := getConfigFromContext(ctx)
			logger := getLoggerFromContext(ctx)

			doc, err := loadWithTemplate(cmd, args[0])
			if err != nil {
				return err
			}
			dir, _ := cmd.Flags().GetString("out-dir")
			if dir == "" {
				dir = cfg.Export.OutputDir
			}

			session := usecase.NewSession(usecase.SessionConfig{
				Exporter: newExporter(cfg, logger),
				Logger:   logger.Named("session"),
			})
			session.Load(doc)
			session.Mount()
			res, err := session.Export(ctx, infrastructure.FileSink{Dir: dir})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", filepath.Join(dir, res.Filename), res.Size)
			return nil
		},
	}
	cmd.Flags().String("out-dir", "", "Directory for the PDF (default from config)")
	cmd.Flags().StringP("template", "t", "", "Template to use instead of the one in the file")
	return cmd
}
