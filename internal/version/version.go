/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2025 Dmitry Kireev
 */

package version

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/DimmKirr/nordterm/internal/logger"
	"github.com/Masterminds/semver"
	jsoniter "github.com/json-iterator/go"
	"github.com/pterm/pterm"
)

var (
	GitCommit string
	Version   = "0.0.0"
)

// LatestReleaseURL is the GitHub API endpoint for the newest published release
const LatestReleaseURL = "https://api.github.com/repos/DimmKirr/nordterm/releases/latest"

func GetVersion() (ret string) {
	if b, ok := debug.ReadBuildInfo(); ok && len(b.Main.Version) > 0 {
		ret = b.Main.Version
	} else {
		ret = "unknown"
	}
	return
}

func FullVersionNumber() string {
	v := Version

	// `go install ...@vX` builds carry the module version instead of ldflags
	if IsDev(v) {
		if bi := GetVersion(); bi != "unknown" && bi != "(devel)" {
			return bi
		}
	}

	if IsDev(v) {
		v += fmt.Sprintf(" dev %s", time.Now().Format("2006-01-02T15:04:05"))
	}

	if GitCommit != "" {
		v += fmt.Sprintf(" (%s)", GitCommit)
	}

	return v
}

// IsDev reports whether v is a local build rather than a tagged release
func IsDev(v string) bool {
	switch v {
	case "", "0.0.0", "dev", "development", "unknown":
		return true
	}
	return false
}

type gitResponse struct {
	Version string `json:"tag_name"`
}

// Release compares the running build with the newest published one
type Release struct {
	Current string
	Latest  string
	// Newer is set when Latest is a higher version than Current
	Newer bool
}

// CheckLatestRelease asks the GitHub API for the newest release tag and
// compares it with current
func CheckLatestRelease(ctx context.Context, client *http.Client, url, current string) (Release, error) {
	rel := Release{Current: current}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return rel, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	logger.Debug("Checking latest release", "url", url)

	resp, err := client.Do(req)
	if err != nil {
		return rel, fmt.Errorf("failed to check for the latest version: %w", err)
	}
	defer resp.Body.Close()

	// Rate limiting and the like
	if resp.StatusCode != http.StatusOK {
		return rel, fmt.Errorf("failed to check for the latest version: status code: %d", resp.StatusCode)
	}

	var gr gitResponse
	if err := jsoniter.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return rel, fmt.Errorf("failed to decode the latest release: %w", err)
	}

	rel.Latest = strings.TrimPrefix(gr.Version, "v")

	latest, err := semver.NewVersion(rel.Latest)
	if err != nil {
		return rel, fmt.Errorf("can't parse release tag %q: %w", gr.Version, err)
	}

	if IsDev(current) {
		return rel, nil
	}

	cur, err := semver.NewVersion(strings.TrimPrefix(current, "v"))
	if err != nil {
		return rel, fmt.Errorf("can't parse current version %q: %w", current, err)
	}

	rel.Newer = latest.GreaterThan(cur)
	return rel, nil
}

func ShowUpgradeCommand(isDev bool) {
	switch runtime.GOOS {
	case "linux", "darwin":
		if isDev {
			pterm.Info.Println("To install latest:\n`go install github.com/DimmKirr/nordterm@latest`")
		} else {
			pterm.Info.Println("Use the command to update: `go install github.com/DimmKirr/nordterm@latest`")
		}
	default:
		pterm.Warning.Println("See https://github.com/DimmKirr/nordterm/blob/main/README.md#installation")
	}
}
