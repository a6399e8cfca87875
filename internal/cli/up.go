package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/DustyPolk/dev-setup/internal/config"
	"github.com/DustyPolk/dev-setup/internal/dotfiles"
	"github.com/DustyPolk/dev-setup/internal/fetch"
	"github.com/DustyPolk/dev-setup/internal/journal"
	"github.com/DustyPolk/dev-setup/internal/logging"
	"github.com/DustyPolk/dev-setup/internal/pkgmgr"
	"github.com/DustyPolk/dev-setup/internal/platform"
	"github.com/DustyPolk/dev-setup/internal/report"
	"github.com/DustyPolk/dev-setup/internal/shellcfg"
	"github.com/DustyPolk/dev-setup/internal/tools"
)

// claudeCodePackage is the npm package installed for the claude-code
// catalog entry.
const claudeCodePackage = "@anthropic-ai/claude-code"

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Provision the workstation from the manifest",
	Long: `Provision the workstation: install system packages, standalone
tools, sync and link dotfiles, and ensure shell environment lines.

Steps are recorded in a run journal; a failing step is recorded and the
remaining steps still run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUp(cmd)
	},
}

// provisioner carries the state shared by the up steps.
type provisioner struct {
	cfg     *config.Config
	info    *platform.Info
	updater *shellcfg.Updater
	run     *journal.Run
}

func runUp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	log := logging.GetLogger("cli")

	lock, err := journal.Acquire(journalDir())
	if err != nil {
		return err
	}
	defer lock.Release()

	detector := platform.NewDetector()
	info, err := detector.Detect(ctx)
	if err != nil {
		return fmt.Errorf("detect platform: %w", err)
	}
	log.Info().
		Str("os", info.OS).
		Str("arch", info.Arch).
		Str("platform", info.Platform).
		Msg("platform detected")

	cfg, err := loadManifest(ctx, detector)
	if err != nil {
		return err
	}

	updater, err := shellcfg.NewUpdater(shellcfg.Config{})
	if err != nil {
		return err
	}

	p := &provisioner{
		cfg:     cfg,
		info:    info,
		updater: updater,
		run: journal.New([]journal.Step{
			journal.StepPackages,
			journal.StepStandalone,
			journal.StepDotfiles,
			journal.StepShellEnv,
		}),
	}

	p.runStep(journal.StepPackages, func() (string, error) {
		return p.installPackages(ctx)
	})
	p.runStep(journal.StepStandalone, func() (string, error) {
		return p.installStandalone(ctx)
	})
	p.runStep(journal.StepDotfiles, func() (string, error) {
		return p.applyDotfiles(ctx)
	})
	p.runStep(journal.StepShellEnv, func() (string, error) {
		return p.applyShellEnv()
	})

	if _, err := os.Stat(updater.Backups().Dir()); err == nil {
		p.run.BackupDir = updater.Backups().Dir()
	}
	if err := p.run.Save(journalDir()); err != nil {
		log.Warn().Err(err).Msg("could not save run journal")
	}

	results := report.NewDetector(filepath.Join(dataDir(), "bin")).Check(cfg.Tools)
	cmd.Print(report.FormatReport(results))

	if p.run.HasFailures() {
		return errors.New("provisioning finished with failures, see the log for details")
	}

	log.Info().Str("run", p.run.ID).Msg("provisioning complete")
	return nil
}

// runStep executes one provisioning phase and records it in the journal.
func (p *provisioner) runStep(step journal.Step, fn func() (string, error)) {
	log := logging.GetLogger("cli")

	p.run.UpdateStep(step, journal.StateInProgress, "", nil)
	if err := p.run.Save(journalDir()); err != nil {
		log.Warn().Err(err).Msg("could not save run journal")
	}

	detail, err := fn()
	if err != nil {
		log.Error().Err(err).Str("step", string(step)).Msg("step failed")
		p.run.UpdateStep(step, journal.StateFailed, detail, err)
		return
	}

	log.Info().Str("step", string(step)).Str("detail", detail).Msg("step completed")
	p.run.UpdateStep(step, journal.StateCompleted, detail, nil)
}

// installPackages installs the manifest's system-strategy tools through
// the platform package manager.
func (p *provisioner) installPackages(ctx context.Context) (string, error) {
	if p.cfg.Options.SkipPackages {
		return "skipped by manifest", nil
	}

	manager, err := platform.ResolvePackageManager(p.info)
	if err != nil {
		return "", err
	}

	client, err := pkgmgr.NewClientForCurrentUser(manager)
	if err != nil {
		return "", err
	}

	if err := client.Refresh(ctx); err != nil {
		return "", fmt.Errorf("refresh package index: %w", err)
	}

	installed, failed := 0, 0
	var firstErr error
	for _, name := range p.cfg.Tools {
		tool, ok := tools.ByName(name)
		if !ok {
			tool = tools.Tool{Name: name}
		}
		if tool.Strategy != tools.StrategySystem {
			continue
		}
		if tools.IsOnPath(tool) {
			continue
		}

		pkg := tool.PackageName(manager)
		if err := client.EnsureInstalled(ctx, pkg, tool.Alternate); err != nil {
			failed++
			if firstErr == nil {
				firstErr = fmt.Errorf("install %s: %w", name, err)
			}
			continue
		}
		installed++
	}

	detail := fmt.Sprintf("%d installed, %d failed", installed, failed)
	if firstErr != nil {
		return detail, firstErr
	}
	return detail, nil
}

// installStandalone installs tools distributed as upstream releases.
func (p *provisioner) installStandalone(ctx context.Context) (string, error) {
	manager, err := fetch.NewManager(fetch.Config{
		DataDir: dataDir(),
		Info:    p.info,
	})
	if err != nil {
		return "", err
	}

	installed := 0
	var firstErr error
	for _, name := range p.cfg.Tools {
		tool, ok := tools.ByName(name)
		if !ok || tool.Strategy != tools.StrategyStandalone {
			continue
		}

		// claude-code ships through the npm registry, installed with
		// the bun provisioned just before it.
		if name == "claude-code" {
			if tools.IsOnPath(tool) {
				continue
			}
			if err := manager.InstallViaBun(ctx, claudeCodePackage); err != nil {
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			installed++
			continue
		}

		if _, err := manager.Install(ctx, name, ""); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("install %s: %w", name, err)
			}
			continue
		}
		installed++
	}

	return fmt.Sprintf("%d standalone tools ensured", installed), firstErr
}

// applyDotfiles syncs the dotfiles repository and links its files.
func (p *provisioner) applyDotfiles(ctx context.Context) (string, error) {
	if p.cfg.Options.SkipDotfiles || p.cfg.Dotfiles.Remote == "" {
		return "no dotfiles configured", nil
	}

	syncer, err := dotfiles.NewSyncer(dotfiles.Config{
		RepoDir: filepath.Join(dataDir(), "dotfiles"),
		Remote:  p.cfg.Dotfiles.Remote,
		Branch:  p.cfg.Dotfiles.Branch,
	})
	if err != nil {
		return "", err
	}

	syncResult, err := syncer.Sync(ctx)
	if err != nil {
		return "", fmt.Errorf("sync dotfiles: %w", err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	linker, err := dotfiles.NewLinker(home, syncer.RepoDir(), p.updater.Backups())
	if err != nil {
		return "", err
	}

	specs := make([]dotfiles.LinkSpec, 0, len(p.cfg.Dotfiles.Links))
	for _, link := range p.cfg.Dotfiles.Links {
		specs = append(specs, dotfiles.LinkSpec{Source: link.Source, Target: link.Target})
	}

	var firstErr error
	linked := 0
	for _, result := range linker.Link(specs) {
		if result.Err != nil {
			if firstErr == nil {
				firstErr = result.Err
			}
			continue
		}
		linked++
	}

	return fmt.Sprintf("%s, %d links ensured", syncResult.Action, linked), firstErr
}

// applyShellEnv ensures the manifest's env lines and the env lines of
// installed catalog tools in every shell config file.
func (p *provisioner) applyShellEnv() (string, error) {
	type envLine struct {
		line    string
		fish    string
		comment string
	}

	var lines []envLine

	// Standalone binaries install into the shared bin directory; it has
	// to be on PATH for them to resolve at all.
	if hasStandaloneTools(p.cfg.Tools) {
		path := tools.PathEnvLine(filepath.Join(dataDir(), "bin"))
		lines = append(lines, envLine{path.Line, path.Fish, path.Comment})
	}

	for _, entry := range p.cfg.Env {
		lines = append(lines, envLine{entry.Line, entry.Fish, entry.Comment})
	}
	for _, name := range p.cfg.Tools {
		tool, ok := tools.ByName(name)
		if !ok {
			continue
		}
		for _, env := range tool.Env {
			lines = append(lines, envLine{env.Line, env.Fish, env.Comment})
		}
	}

	appended, failed := 0, 0
	var firstErr error
	for _, l := range lines {
		results, err := p.updater.EnsureEnvLine(l.line, l.fish, l.comment)
		if err != nil {
			return "", err
		}
		for _, r := range results {
			switch r.Outcome {
			case shellcfg.OutcomeAppended:
				appended++
			case shellcfg.OutcomeFailed:
				failed++
				if firstErr == nil {
					firstErr = r.Err
				}
			}
		}
	}

	return fmt.Sprintf("%d lines appended, %d failures", appended, failed), firstErr
}

// hasStandaloneTools reports whether any named tool installs into the
// managed bin directory.
func hasStandaloneTools(names []string) bool {
	for _, name := range names {
		if tool, ok := tools.ByName(name); ok && tool.Strategy == tools.StrategyStandalone {
			return true
		}
	}
	return false
}
