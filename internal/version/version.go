// Copyright (c) 2025-2026 Wicked Host
// SPDX-License-Identifier: GPL-3.0-or-later

// Package version carries build-time version information.
package version

import "fmt"

// Info holds version values injected at build time via ldflags.
type Info struct {
	Version   string // Semantic version from git tags
	GitCommit string // Short git commit hash
	BuildTime string // Build timestamp, RFC3339
}

// String renders the version in one line for logs and the health
// endpoint.
func (i Info) String() string {
	if i.GitCommit == "" || i.GitCommit == "unknown" {
		return i.Version
	}
	return fmt.Sprintf("%s (%s)", i.Version, i.GitCommit)
}
