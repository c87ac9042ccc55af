package cmd

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/planboard/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Print version information including version number, git commit,
build date, Go version, and platform.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE:              runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) error {
	out, err := formatter(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	return out.Format(version.GetInfo())
}
