// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package config

import (
	"fmt"
	"runtime/debug"
)

// Sets the numeric walletsync version here
const (
	VersionMajor = 0
	VersionMinor = 3
	VersionPatch = 0
	VersionMeta  = "unstable"
)

// GetFullVersion gets the walletsync version, suffixed with the short
// VCS revision when the binary carries build information.
func GetFullVersion() string {
	version := GetStableVersion() + "-" + VersionMeta
	revision, ok := vcsRevision()
	if ok && len(revision) >= 8 {
		version += "-" + revision[:8]
	}
	return version
}

// GetStableVersion gets the stable walletsync version
func GetStableVersion() string {
	return fmt.Sprintf("%d.%d.%d", VersionMajor, VersionMinor, VersionPatch)
}

func vcsRevision() (revision string, ok bool) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", false
	}

	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" {
			return setting.Value, true
		}
	}
	return "", false
}
