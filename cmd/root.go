// Package cmd provides the root command and CLI setup for stitch.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"stitch.dev/pkg/stitch/internal/adapter"
	"stitch.dev/pkg/stitch/internal/controller"
	"stitch.dev/pkg/stitch/internal/domain"
	m "stitch.dev/pkg/stitch/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var lexerAdapter adapter.LexerAdapter
var descriptorStore adapter.DescriptorStore
var reportStore adapter.ReportStore
var weaver domain.Weaver
var workflow domain.Workflow
var ui controller.UI

// outputDirFlag is a root-level flag shared by commands that read/write the
// woven output directory.
var outputDirFlag string

// noCacheFlag disables the unchanged-file check when set.
var noCacheFlag bool

// excludePatterns is a root-level flag that filters files for applicable commands.
var excludePatterns []string

// verboseFlag raises the log level to debug.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	configureLogger("", viper.GetBool(logVerboseKey))

	// Initialize shared dependencies.
	dialect := m.DefaultDialect()
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	lexerAdapter = adapter.NewLocalLexerAdapter(dialect)
	descriptorStore = adapter.NewLocalDescriptorStore()
	reportStore = adapter.NewLocalReportStore()
	weaver = domain.NewWeaver(lexerAdapter, dialect)
	workflow = domain.NewWorkflow(
		fsAdapter,
		descriptorStore,
		reportStore,
		ui,
		weaver,
		dialect,
	)
}

const pathPatternsHelp = `Supports Go-style path patterns:
  - ./...          recursively scan current directory
  - ./src/...      recursively scan src directory
  - ./lib ./src    scan multiple directories`

const rootLongDescription = `Stitch is a compile-time contract weaver. It instruments class- and
trait-like structures with contract-enforcement hooks (invariants,
preconditions, postconditions, old-value capture) while preserving the
original method bodies under renamed aliases.

` + pathPatternsHelp

const weaveLongDescription = `Weave contract instrumentation into the sources found under the given
paths (default: current directory). Only sources with a descriptor sidecar
are woven, and only when their dependency closure is fully supplied.

` + pathPatternsHelp

const listLongDescription = `List discovered structures, their eligible functions and the state of
their dependency closures.

` + pathPatternsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stitch",
		Short: "Compile-time contract weaver",
		Long:  rootLongDescription,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&outputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for woven sources and the weave report",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().BoolVar(&noCacheFlag, noCacheFlagName, viper.GetBool(noCacheFlagName), "re-weave everything, ignoring the previous report")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(noCacheFlagName), noCacheFlagName)

	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude files matching regex (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", viper.GetBool(logVerboseKey), "enable debug logging")
	bindFlagToConfig(cmd.PersistentFlags().Lookup("verbose"), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}
