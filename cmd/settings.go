/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2025 Dmitry Kireev
 */

package cmd

import (
	"fmt"

	"github.com/DimmKirr/nordterm/internal/ux"
	"github.com/spf13/cobra"
)

// settingsCmd represents the settings command
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show VPN client settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := requireClient()
		if err != nil {
			return err
		}

		out, err := client.Settings(cmd.Context())
		if err != nil {
			return fmt.Errorf("can't get settings: %w", err)
		}

		return ux.RenderKeyValueTable(cmd.OutOrStdout(), "NordVPN Settings", []string{"SETTING", "VALUE"}, keyValueRows(out))
	},
}
