/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2025 Dmitry Kireev
 */

package constraints

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/term"
)

type constraints struct {
	vpnClient string
	curl      bool
	shell     bool
}

// CheckConstraints checks if the constraints are met
func CheckConstraints(options ...Option) error {
	r := constraints{}
	for _, opt := range options {
		opt(&r)
	}

	if r.vpnClient != "" {
		if exist, _ := CheckCommand(r.vpnClient, []string{"--version"}); !exist {
			return fmt.Errorf("%s is not installed. Run `nordterm install` or visit https://nordvpn.com/download/linux/", r.vpnClient)
		}
	}

	if r.shell {
		if _, err := exec.LookPath("sh"); err != nil {
			return errors.New("sh is not available in PATH")
		}
	}

	if r.curl {
		if exist, _ := CheckCommand("curl", []string{"--version"}); !exist {
			return errors.New("curl is not installed (it is required to download the installer)")
		}
	}

	return nil
}

type Option func(*constraints)

// WithVPNClient requires the VPN client binary to answer `--version`
func WithVPNClient(binary string) Option {
	return func(r *constraints) {
		r.vpnClient = binary
	}
}

func WithCurl() Option {
	return func(r *constraints) {
		r.curl = true
	}
}

func WithShell() Option {
	return func(r *constraints) {
		r.shell = true
	}
}

// CheckCommand runs a command and reports whether it exited cleanly, along with its combined output
func CheckCommand(command string, subcommand []string) (bool, string) {
	out, err := exec.Command(command, subcommand...).CombinedOutput()
	if err != nil {
		return false, string(out)
	}

	return true, string(out)
}

// SupportsANSIEscapeCodes reports whether stdout is a terminal that can render colors and cursor movement
func SupportsANSIEscapeCodes() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	t := strings.ToLower(os.Getenv("TERM"))
	if t == "dumb" {
		return false
	}

	return term.IsTerminal(int(os.Stdout.Fd()))
}

// IsInteractive reports whether stdin is attached to a terminal
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsCI reports whether the process runs in a well-known CI environment
func IsCI() bool {
	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "BUILDKITE", "CIRCLECI", "JENKINS_URL", "TEAMCITY_VERSION"} {
		if val := os.Getenv(v); val != "" && val != "false" && val != "0" {
			return true
		}
	}
	return false
}
