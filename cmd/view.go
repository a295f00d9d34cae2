package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"stitch.dev/pkg/stitch/internal/domain"
	m "stitch.dev/pkg/stitch/internal/model"
)

var viewDiffFlag bool

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "View the report of the previous weave run",
		Long:  "View the report of the previous weave run, optionally with a diff of each woven file.",
		Args:  cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			return workflow.View(context.Background(), domain.ViewArgs{
				Output: m.Path(viper.GetString(outputFlagName)),
				Diff:   viewDiffFlag,
			})
		},
	}

	cmd.Flags().BoolVarP(&viewDiffFlag, "diff", "d", false, "show a unified diff per woven file")

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
