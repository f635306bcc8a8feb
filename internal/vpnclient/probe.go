/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2025 Dmitry Kireev
 */

package vpnclient

import (
	"context"
	"fmt"
	"regexp"

	"github.com/DimmKirr/nordterm/internal/logger"
	"github.com/Masterminds/semver"
)

var versionPattern = regexp.MustCompile(`\d+\.\d+(\.\d+)?`)

// Probe runs `<binary> --version` and reports whether the client is usable
// together with the version line it printed
func Probe(ctx context.Context, runner Runner, binary string) (bool, string) {
	res, err := runner.Run(ctx, binary, "--version")
	if err != nil {
		logger.Debug("VPN client not found", "binary", binary, "error", err)
		return false, ""
	}

	if res.ExitCode != 0 {
		logger.Debug("VPN client probe failed", "binary", binary, "exitCode", res.ExitCode, "stderr", res.Stderr)
		return false, ""
	}

	line := CleanOutput(res.Stdout)
	logger.Debug("VPN client found", "binary", binary, "version", line)

	return true, line
}

// ClientVersion extracts the semantic version from a `--version` line such as
// "NordVPN Version 3.17.4"
func ClientVersion(line string) (*semver.Version, error) {
	match := versionPattern.FindString(line)
	if match == "" {
		return nil, fmt.Errorf("no version number in %q", line)
	}

	v, err := semver.NewVersion(match)
	if err != nil {
		return nil, fmt.Errorf("can't parse client version %q: %w", match, err)
	}

	return v, nil
}
