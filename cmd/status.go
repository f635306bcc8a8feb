/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2025 Dmitry Kireev
 */

package cmd

import (
	"fmt"

	"github.com/DimmKirr/nordterm/internal/config"
	"github.com/DimmKirr/nordterm/internal/logger"
	"github.com/DimmKirr/nordterm/internal/ux"
	"github.com/DimmKirr/nordterm/internal/vpnclient"
	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show connection status of the VPN client",
	Long: `Show connection status reported by the NordVPN client, followed by
	the client version and the configuration in use.
	This is also useful for troubleshooting`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := requireClient()
		if err != nil {
			return err
		}

		out, err := client.Status(cmd.Context())
		if err != nil {
			return fmt.Errorf("can't get status: %w", err)
		}

		if err := ux.RenderKeyValueTable(cmd.OutOrStdout(), "Status", []string{"KEY", "VALUE"}, keyValueRows(out)); err != nil {
			return err
		}

		clientVersion := "unknown"
		if line, err := client.Version(cmd.Context()); err != nil {
			logger.Debug("Can't get client version", "error", err)
		} else if v, err := vpnclient.ClientVersion(line); err != nil {
			logger.Debug("Can't parse client version", "line", line, "error", err)
		} else {
			clientVersion = v.String()
		}

		configFile := config.App.ConfigFile
		if configFile == "" {
			configFile = "(none)"
		}

		return ux.RenderKeyValueTable(cmd.OutOrStdout(), "nordterm", []string{"KEY", "VALUE"}, [][]string{
			{"Binary", client.Binary()},
			{"Client Version", clientVersion},
			{"Config File", configFile},
		})
	},
}

func keyValueRows(output string) [][]string {
	kvs := vpnclient.ParseKeyValues(output)

	rows := make([][]string, 0, len(kvs))
	for _, kv := range kvs {
		rows = append(rows, []string{kv.Key, kv.Value})
	}
	return rows
}
