// Package pkgmgr drives the system package manager.
//
// Shelling out is inherent here: installing system packages means running
// apt-get, dnf, pacman and friends. What this package adds over a bare
// exec is a closed command vocabulary per manager (refresh, install,
// query) built by exhaustive switches over platform.PackageManager, and
// structured failures: every non-zero exit becomes a *CommandError
// carrying the manager, argv, exit code, and stderr tail instead of a
// textual success heuristic.
package pkgmgr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"github.com/DustyPolk/dev-setup/internal/logging"
	"github.com/DustyPolk/dev-setup/internal/platform"
)

// stderrTailLimit bounds how much stderr a CommandError carries.
const stderrTailLimit = 512

// CommandError describes a package-manager invocation that exited
// non-zero.
type CommandError struct {
	Manager  platform.PackageManager
	Argv     []string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s exited %d (%s): %s",
		e.Manager, e.ExitCode, strings.Join(e.Argv, " "), e.Stderr)
}

// runFunc executes argv and returns captured stderr plus the exit code.
// Factored out so tests can substitute a fake without spawning processes.
type runFunc func(ctx context.Context, argv []string) (stderr string, exitCode int, err error)

// Client executes package-manager operations for one resolved manager.
type Client struct {
	manager platform.PackageManager
	useSudo bool
	run     runFunc
	log     zerolog.Logger
}

// Config holds configuration for the package manager client.
type Config struct {
	// Manager is the resolved system package manager.
	Manager platform.PackageManager
	// UseSudo prefixes root-requiring commands with sudo. Ignored for
	// Homebrew, which refuses to run as root.
	UseSudo bool
}

// NewClient creates a package manager client. ManagerUnknown is rejected
// up front: an unrecognized manager is an error, never a silent no-op.
func NewClient(config Config) (*Client, error) {
	if config.Manager == platform.ManagerUnknown {
		return nil, fmt.Errorf("package manager is unknown, cannot install packages")
	}

	return &Client{
		manager: config.Manager,
		useSudo: config.UseSudo && config.Manager != platform.ManagerBrew,
		run:     runCommand,
		log:     logging.GetLogger("pkgmgr"),
	}, nil
}

// NewClientForCurrentUser creates a client that uses sudo when the process
// is not running as root.
func NewClientForCurrentUser(manager platform.PackageManager) (*Client, error) {
	return NewClient(Config{Manager: manager, UseSudo: os.Geteuid() != 0})
}

// Manager returns the package manager this client drives.
func (c *Client) Manager() platform.PackageManager {
	return c.manager
}

// Refresh updates the package index (apt-get update and equivalents).
func (c *Client) Refresh(ctx context.Context) error {
	argv, err := refreshArgs(c.manager)
	if err != nil {
		return err
	}

	c.log.Info().Str("manager", c.manager.String()).Msg("refreshing package index")
	return c.exec(ctx, c.withSudo(argv))
}

// Install installs a single package by name.
func (c *Client) Install(ctx context.Context, pkg string) error {
	argv, err := installArgs(c.manager, pkg)
	if err != nil {
		return err
	}

	c.log.Info().Str("manager", c.manager.String()).Str("package", pkg).Msg("installing package")
	return c.exec(ctx, c.withSudo(argv))
}

// IsInstalled reports whether a package is installed, using the manager's
// query command. A non-zero exit is "not installed", not an error; only
// invocation failures (binary missing, context cancelled) are errors.
func (c *Client) IsInstalled(ctx context.Context, pkg string) (bool, error) {
	argv, err := queryArgs(c.manager, pkg)
	if err != nil {
		return false, err
	}

	execErr := c.exec(ctx, argv)
	if execErr == nil {
		return true, nil
	}

	var cmdErr *CommandError
	if errors.As(execErr, &cmdErr) {
		return false, nil
	}
	return false, execErr
}

// EnsureInstalled installs pkg only when the manager's query reports it
// absent, falling back to alternate on a failed install.
func (c *Client) EnsureInstalled(ctx context.Context, pkg, alternate string) error {
	installed, err := c.IsInstalled(ctx, pkg)
	if err != nil {
		return err
	}
	if installed {
		c.log.Debug().Str("package", pkg).Msg("package already installed, skipping")
		return nil
	}
	return c.InstallWithFallback(ctx, pkg, alternate)
}

// InstallWithFallback installs primary, retrying once with alternate when
// the primary name is not available under this manager. Distros disagree
// on package names (fd vs fd-find, bat vs batcat), so the catalog carries
// both.
func (c *Client) InstallWithFallback(ctx context.Context, primary, alternate string) error {
	err := c.Install(ctx, primary)
	if err == nil || alternate == "" {
		return err
	}

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		return err
	}

	c.log.Warn().Str("package", primary).Str("alternate", alternate).
		Msg("primary package name failed, trying alternate")
	if altErr := c.Install(ctx, alternate); altErr != nil {
		return fmt.Errorf("install %s (alternate %s also failed: %v): %w",
			primary, alternate, altErr, err)
	}

	return nil
}

// withSudo prefixes argv with sudo when the client is configured for it.
func (c *Client) withSudo(argv []string) []string {
	if !c.useSudo {
		return argv
	}
	return append([]string{"sudo", "-n"}, argv...)
}

// exec runs argv, mapping non-zero exits to *CommandError.
func (c *Client) exec(ctx context.Context, argv []string) error {
	stderr, exitCode, err := c.run(ctx, argv)
	if err != nil {
		return fmt.Errorf("run %s: %w", argv[0], err)
	}
	if exitCode != 0 {
		return &CommandError{
			Manager:  c.manager,
			Argv:     argv,
			ExitCode: exitCode,
			Stderr:   stderrTail(stderr),
		}
	}
	return nil
}

// runCommand is the real runFunc backed by exec.CommandContext.
func runCommand(ctx context.Context, argv []string) (string, int, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.Stdout = nil

	// Package managers must never block on a prompt during provisioning.
	cmd.Env = append(os.Environ(), "DEBIAN_FRONTEND=noninteractive")

	err := cmd.Run()
	if err == nil {
		return stderr.String(), 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return stderr.String(), exitErr.ExitCode(), nil
	}

	// Binary not found, context cancelled, etc.
	return stderr.String(), -1, err
}

// stderrTail keeps the last stderrTailLimit bytes of stderr, where package
// managers put the actionable message.
func stderrTail(stderr string) string {
	stderr = strings.TrimSpace(stderr)
	if len(stderr) <= stderrTailLimit {
		return stderr
	}
	return "..." + stderr[len(stderr)-stderrTailLimit:]
}
