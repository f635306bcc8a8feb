/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2025 Dmitry Kireev
 */

package cmd

import (
	"github.com/DimmKirr/nordterm/internal/config"
	"github.com/DimmKirr/nordterm/internal/constraints"
	"github.com/DimmKirr/nordterm/internal/installer"
	"github.com/DimmKirr/nordterm/internal/ipinfo"
	"github.com/DimmKirr/nordterm/internal/logger"
	"github.com/DimmKirr/nordterm/internal/vpnclient"
)

// isInteractive is swapped in tests, `go test` may or may not inherit a terminal
var isInteractive = constraints.IsInteractive

func newRunner() vpnclient.Runner {
	return vpnclient.ExecRunner{}
}

func newFetcher() *ipinfo.Fetcher {
	return ipinfo.NewFetcher(config.App.IPEchoURL, config.App.GeoURL, config.App.HTTPTimeout)
}

func newInstaller(runner vpnclient.Runner) *installer.Installer {
	return installer.New(runner, config.App.InstallScriptURL, config.App.OSReleasePath)
}

// requireClient fails early, with install hints, when the client binary is missing
func requireClient() (*vpnclient.Client, error) {
	if err := constraints.CheckConstraints(
		constraints.WithVPNClient(config.App.Binary),
	); err != nil {
		return nil, err
	}

	logger.Debug("VPN client available", "binary", config.App.Binary)
	return vpnclient.New(newRunner(), config.App.Binary, true), nil
}
