package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/DustyPolk/dev-setup/internal/platform"
	"github.com/DustyPolk/dev-setup/internal/report"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the installed state of the manifest's tools",
	Long: `Check every tool the manifest declares: whether it is on PATH,
what version PATH resolves to, and whether another installation shadows
a dev-setup-managed binary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadManifest(cmd.Context(), platform.NewDetector())
		if err != nil {
			return err
		}

		detector := report.NewDetector(filepath.Join(dataDir(), "bin"))
		results := detector.Check(cfg.Tools)

		cmd.Print(report.FormatReport(results))

		for _, r := range results {
			if r.Status != report.StatusOK {
				return fmt.Errorf("%d tools need attention", countProblems(results))
			}
		}
		return nil
	},
}

func countProblems(results []report.ToolStatus) int {
	n := 0
	for _, r := range results {
		if r.Status != report.StatusOK {
			n++
		}
	}
	return n
}
