package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/planboard/internal/ux"
)

var rootCmd = &cobra.Command{
	Use:   "planboard",
	Short: "Terminal planning board for the task scheduler service",
	Long: `planboard is the planning board of the task scheduler service.

Define tasks with rewards, durations, resources and dependencies, save them
to the scheduler service, request an optimized schedule and inspect the
result as a dependency graph and a timeline.

Run without a subcommand to open the interactive board.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Annotations:   map[string]string{annotationInteractive: "true"},
}

var (
	cfgFile   string
	outFormat string
	logLevel  string
	logFormat string
)

func init() {
	rootCmd.PersistentPreRunE = setupApp
	rootCmd.RunE = runBoard

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.planboard/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outFormat, "format", "f", "text", fmt.Sprintf("output format %v", ux.Formats))
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, json)")
}

// ExecuteContext runs the root command with ctx, which is cancelled on
// interrupt by the caller.
func ExecuteContext(ctx context.Context) error {
	defer teardownApp()
	return rootCmd.ExecuteContext(ctx)
}
