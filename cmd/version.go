/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2025 Dmitry Kireev
 */

package cmd

import (
	"net/http"

	"github.com/DimmKirr/nordterm/internal/config"
	"github.com/DimmKirr/nordterm/internal/logger"
	"github.com/DimmKirr/nordterm/internal/version"
	"github.com/DimmKirr/nordterm/internal/vpnclient"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Version",
	Long:  `Print version of nordterm and of the NordVPN client, if installed`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		pterm.Printfln("Version: %s", version.FullVersionNumber())

		client := vpnclient.Detect(cmd.Context(), newRunner(), config.App.Binary)
		if !client.Installed() {
			pterm.Printfln("Client: not installed")
		} else if v, err := vpnclient.ClientVersion(client.VersionLine()); err != nil {
			logger.Debug("Can't parse client version", "line", client.VersionLine(), "error", err)
			pterm.Printfln("Client: %s", client.VersionLine())
		} else {
			pterm.Printfln("Client: %s", v.String())
		}

		check, _ := cmd.Flags().GetBool("check")
		if !check {
			return
		}

		httpClient := &http.Client{Timeout: config.App.HTTPTimeout}
		rel, err := version.CheckLatestRelease(cmd.Context(), httpClient, version.LatestReleaseURL, version.Version)
		if err != nil {
			logger.Warn("Failed to check for the latest version", "error", err)
			return
		}

		switch {
		case version.IsDev(rel.Current):
			version.ShowUpgradeCommand(true)
		case rel.Newer:
			pterm.Warning.Printfln("The newest stable version is %s, but your version is %s. Consider upgrading.", rel.Latest, rel.Current)
			version.ShowUpgradeCommand(false)
		default:
			pterm.Success.Println("You are running the latest version")
		}
	},
}

func init() {
	versionCmd.Flags().Bool("check", false, "Check GitHub for a newer release")
}
