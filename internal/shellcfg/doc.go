// Package shellcfg manages lines in shell startup files.
//
// This package handles:
//   - Discovering which shell configuration files apply to the user
//     (bash, zsh, fish, or a generic profile fallback)
//   - Idempotently appending environment lines (PATH exports, aliases)
//   - Backing up every file before it is mutated
//
// # Target Discovery
//
// Discovery probes the known startup files in a fixed priority order and
// collects every one that exists. Only when none exist does it fall back to
// a single default chosen from the user's login shell ($SHELL), creating
// that file so the append has somewhere to land. A call therefore operates
// on either "all pre-existing configs" or "exactly one default", never a
// mix of the two.
//
// # Idempotence
//
// A line is considered present only on exact full-line match. A commented
// out copy, or the same export with different quoting, counts as absent and
// will be appended again. This is deliberate: the updater makes no attempt
// to understand shell syntax.
//
// # Backups
//
// Each run owns one timestamped directory under ~/.config-backups. The
// directory is created lazily, the first time any file actually needs a
// snapshot, and is shared by every mutation in the run. A snapshot is
// always taken before the corresponding append becomes observable; if the
// snapshot fails, the append is skipped for that target.
//
// # Shell Dialects
//
// The same literal line is appended to every target. Fish uses different
// syntax for PATH and aliases than bash/zsh, so callers needing
// dialect-specific text invoke the updater once per dialect with an
// appropriate line.
//
// # Example Usage
//
//	updater, err := shellcfg.NewUpdater(shellcfg.Config{})
//	results, err := updater.EnsureLinePresent(
//	    `export PATH="$HOME/.bun/bin:$PATH"`, "Bun")
package shellcfg
