/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2025 Dmitry Kireev
 */

package installer

import (
	"context"
	"fmt"

	"github.com/DimmKirr/nordterm/internal/logger"
	"github.com/DimmKirr/nordterm/internal/vpnclient"
)

// Installer runs the vendor's published install script. The script is piped
// straight into sh, nothing is verified beyond what the script does itself.
type Installer struct {
	runner        vpnclient.Runner
	scriptURL     string
	osReleasePath string
}

func New(runner vpnclient.Runner, scriptURL, osReleasePath string) *Installer {
	return &Installer{
		runner:        runner,
		scriptURL:     scriptURL,
		osReleasePath: osReleasePath,
	}
}

// Pipeline is the argv executed by Install
func (i *Installer) Pipeline() []string {
	return []string{"sh", "-c", fmt.Sprintf("curl -sSf %s | sh", i.scriptURL)}
}

// Install downloads and runs the install script attached to the terminal so
// the script can ask for a sudo password. Failures carry the captured stderr.
func (i *Installer) Install(ctx context.Context) error {
	if i.osReleasePath != "" {
		distro, err := DetectDistro(i.osReleasePath)
		if err != nil {
			logger.Debug("Can't detect distribution", "path", i.osReleasePath, "error", err)
		} else if !distro.Supported() {
			logger.Warn("The installer may not support this distribution", "distro", distro.String())
		} else {
			logger.Debug("Detected distribution", "distro", distro.String())
		}
	}

	argv := i.Pipeline()
	logger.Debug("Running installer", "argv", argv)

	res, err := i.runner.RunAttached(ctx, argv[0], argv[1:]...)
	if err != nil {
		return fmt.Errorf("installation failed: %w", err)
	}

	if res.ExitCode != 0 {
		return fmt.Errorf("installation failed: %w", &vpnclient.CommandError{
			Binary:   argv[0],
			Args:     argv[1:],
			ExitCode: res.ExitCode,
			Stderr:   res.Stderr,
		})
	}

	return nil
}
