// Package dotfiles clones the user's dotfiles repository and links its
// files into the home directory, backing up anything it replaces.
package dotfiles

import (
	"context"
	"errors"
	"fmt"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/rs/zerolog"

	"github.com/DustyPolk/dev-setup/internal/logging"
)

// SyncAction says what Sync did to the local clone.
type SyncAction int

const (
	// ActionCloned means the repository was cloned fresh.
	ActionCloned SyncAction = iota
	// ActionPulled means new commits were fetched into an existing clone.
	ActionPulled
	// ActionUpToDate means the existing clone already matched the remote.
	ActionUpToDate
)

// String returns the human-readable action name
func (a SyncAction) String() string {
	switch a {
	case ActionCloned:
		return "cloned"
	case ActionPulled:
		return "pulled"
	case ActionUpToDate:
		return "up-to-date"
	default:
		return "unknown"
	}
}

// SyncResult describes the outcome of a repository sync.
type SyncResult struct {
	Action SyncAction
	// Head is the commit hash the clone is at after the sync.
	Head string
}

// Syncer keeps a local clone of the dotfiles repository current.
type Syncer struct {
	repoDir string
	remote  string
	branch  string
	log     zerolog.Logger
}

// Config holds configuration for the dotfiles syncer
type Config struct {
	// RepoDir is where the local clone lives
	// (default location: ~/.local/share/dev-setup/dotfiles)
	RepoDir string
	// Remote is the clone URL of the dotfiles repository
	Remote string
	// Branch is the branch to track. Empty means the remote default.
	Branch string
}

// NewSyncer creates a new dotfiles syncer
func NewSyncer(config Config) (*Syncer, error) {
	if config.RepoDir == "" {
		return nil, fmt.Errorf("RepoDir is required")
	}
	if config.Remote == "" {
		return nil, fmt.Errorf("Remote is required")
	}

	return &Syncer{
		repoDir: config.RepoDir,
		remote:  config.Remote,
		branch:  config.Branch,
		log:     logging.GetLogger("dotfiles"),
	}, nil
}

// RepoDir returns the local clone path.
func (s *Syncer) RepoDir() string {
	return s.repoDir
}

// Sync clones the repository if no local clone exists, otherwise pulls
// the tracked branch. An already-current clone is not an error.
func (s *Syncer) Sync(ctx context.Context) (*SyncResult, error) {
	repo, err := gogit.PlainOpen(s.repoDir)
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		return s.clone(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	return s.pull(ctx, repo)
}

// clone performs the initial clone of the dotfiles repository
func (s *Syncer) clone(ctx context.Context) (*SyncResult, error) {
	s.log.Info().
		Str("remote", s.remote).
		Str("dir", s.repoDir).
		Msg("cloning dotfiles repository")

	opts := &gogit.CloneOptions{
		URL: s.remote,
	}
	if s.branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(s.branch)
		opts.SingleBranch = true
	}

	repo, err := gogit.PlainCloneContext(ctx, s.repoDir, false, opts)
	if err != nil {
		return nil, fmt.Errorf("clone %s: %w", s.remote, err)
	}

	head, err := headHash(repo)
	if err != nil {
		return nil, err
	}

	return &SyncResult{Action: ActionCloned, Head: head}, nil
}

// pull updates an existing clone from the remote
func (s *Syncer) pull(ctx context.Context, repo *gogit.Repository) (*SyncResult, error) {
	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("get worktree: %w", err)
	}

	opts := &gogit.PullOptions{RemoteName: "origin"}
	if s.branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(s.branch)
		opts.SingleBranch = true
	}

	action := ActionPulled
	err = worktree.PullContext(ctx, opts)
	if errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		action = ActionUpToDate
	} else if err != nil {
		return nil, fmt.Errorf("pull: %w", err)
	}

	head, err := headHash(repo)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("action", action.String()).
		Str("head", head).
		Msg("dotfiles repository synced")

	return &SyncResult{Action: action, Head: head}, nil
}

// headHash returns the commit hash of HEAD
func headHash(repo *gogit.Repository) (string, error) {
	ref, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("get HEAD: %w", err)
	}
	return ref.Hash().String(), nil
}
