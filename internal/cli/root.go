// Package cli wires the devsetup commands together.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/DustyPolk/dev-setup/internal/logging"
)

// Version is the build version, overridden at link time.
var Version = "dev"

var verbosity int

var rootCmd = &cobra.Command{
	Use:   "devsetup",
	Short: "devsetup provisions a development workstation",
	Long: `devsetup provisions a development workstation from a declarative
setup.lua manifest: system packages, standalone tools, dotfiles, and
shell environment lines.

Every run is idempotent. Files devsetup would modify are backed up into
a timestamped directory under ~/.config-backups first.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(verbosity)
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase log verbosity (-v debug, -vv trace)")

	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(envCmd)
	rootCmd.AddCommand(initCmd)
}
