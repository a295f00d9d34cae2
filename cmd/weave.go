package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"stitch.dev/pkg/stitch/internal/domain"
	m "stitch.dev/pkg/stitch/internal/model"
)

var weaveParallelFlagValue int

// weaveCmd represents the weave command.
var weaveCmd = newWeaveCmd()

func newWeaveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weave [paths...]",
		Short: "Weave contract instrumentation into sources",
		Long:  weaveLongDescription,
		RunE: func(_ *cobra.Command, args []string) error {
			return workflow.WeaveAll(context.Background(), domain.WeaveArgs{
				Paths:    parsePaths(args),
				Exclude:  viper.GetStringSlice(excludeConfigKey),
				Output:   m.Path(viper.GetString(outputFlagName)),
				Threads:  viper.GetInt(weaveParallelKey),
				UseCache: !viper.GetBool(noCacheFlagName),
			})
		},
	}

	configureWeaveFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(weaveCmd)
}

func configureWeaveFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&weaveParallelFlagValue, weaveParallelFlag, "p", viper.GetInt(weaveParallelKey), "number of parallel workers for weaving")
	bindFlagToConfig(cmd.Flags().Lookup(weaveParallelFlag), weaveParallelKey)
}
