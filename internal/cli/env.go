package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DustyPolk/dev-setup/internal/shellcfg"
)

var (
	envComment string
	envFish    string
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Manage shell environment lines",
}

var envAddCmd = &cobra.Command{
	Use:   "add <line>",
	Short: "Ensure a line is present in every shell config file",
	Long: `Ensure the given line is present in every shell startup file
(.bashrc, .zshrc, fish config). Files already containing the exact line
are left untouched; files that change are backed up first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		updater, err := shellcfg.NewUpdater(shellcfg.Config{})
		if err != nil {
			return err
		}

		results, err := updater.EnsureEnvLine(args[0], envFish, envComment)
		if err != nil {
			return err
		}

		failed := 0
		for _, r := range results {
			switch r.Outcome {
			case shellcfg.OutcomeAppended:
				cmd.Printf("appended to %s (backup: %s)\n", r.Target, r.BackupPath)
			case shellcfg.OutcomeAlreadyPresent:
				cmd.Printf("already present in %s\n", r.Target)
			case shellcfg.OutcomeFailed:
				cmd.PrintErrf("failed for %s: %v\n", r.Target, r.Err)
				failed++
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d targets failed", failed)
		}
		return nil
	},
}

func init() {
	envAddCmd.Flags().StringVar(&envComment, "comment", "",
		"comment line written above the appended line")
	envAddCmd.Flags().StringVar(&envFish, "fish", "",
		"fish-dialect variant appended to fish configs instead of the line")

	envCmd.AddCommand(envAddCmd)
}
