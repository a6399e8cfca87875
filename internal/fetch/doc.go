// Package fetch installs standalone tools from upstream release archives.
//
// Tools the package manager cannot provide (or provides badly outdated)
// are downloaded directly from their release pages, verified against the
// published checksums, and unpacked into the dev-setup bin directory.
//
// The flow for each tool is:
//
//  1. Construct the release URL for the current platform
//  2. Download the archive into the cache directory, with retries
//  3. Verify the archive (SHA256 checksums, GPG when a keyring is present)
//  4. Extract the binary into the bin directory and mark it executable
//
// Downloads are cached under cache/downloads/{tool}/{version}/ so a
// re-run after a failed install does not re-fetch the archive.
package fetch
