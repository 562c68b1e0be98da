package cli

import (
	"fmt"
	"os"

	"cvcraft/internal/model"
	"cvcraft/internal/render"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Render a CV file to a standalone HTML page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := getLoggerFromContext(cmd.Context())
			doc, err := loadWithTemplate(cmd, args[0])
			if err != nil {
				return err
			}
			surface, view, err := render.Preview(doc, render.PageOptions{})
			if err != nil {
				return err
			}
			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), surface.HTML)
				return err
			}
			if err := os.WriteFile(out, []byte(surface.HTML), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			logger.Info("rendered", zap.String("template", string(view.Template)), zap.String("out", out))
			return nil
		},
	}
	cmd.Flags().StringP("template", "t", "", "Template to use instead of the one in the file")
	cmd.Flags().StringP("out", "o", "", "Write the page here instead of stdout")
	return cmd
}

// loadWithTemplate reads a CV file and applies the --template flag.
func loadWithTemplate(cmd *cobra.Command, path string) (model.CVDocument, error) {
	doc, err := model.LoadFile(path)
	if err != nil {
		return doc, err
	}
	if t, _ := cmd.Flags().GetString("template"); t != "" {
		if !model.Template(t).Known() {
			return doc, fmt.Errorf("unknown template %q (want one of %v)", t, model.Templates)
		}
		doc = doc.WithTemplate(model.Template(t))
	}
	return doc, nil
}
