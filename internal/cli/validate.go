package cli

import (
	"fmt"
	"strings"

	"cvcraft/internal/model"
	"cvcraft/internal/usecase"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a CV file against the document schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := model.LoadFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: valid (template %s)\n", args[0], doc.Template)
			if report := usecase.Completeness(doc); !report.Complete {
				fmt.Fprintf(out, "missing: %s\n", strings.Join(report.Missing, ", "))
			}
			return nil
		},
	}
}
