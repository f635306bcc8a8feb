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
	"github.com/spf13/cobra"
)

// disconnectCmd represents the disconnect command
var disconnectCmd = &cobra.Command{
	Use:     "disconnect",
	Aliases: []string{"down"},
	Short:   "Disconnect from the VPN",
	Long:    `Bring the current VPN connection down.`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Debug("Disconnect command called")

		client, err := requireClient()
		if err != nil {
			return err
		}

		spinner := ux.NewProgressSpinner("Disconnecting", config.App.LogPlainText)

		out, err := client.Disconnect(cmd.Context())
		if err != nil {
			spinner.Fail("Disconnect failed")
			return fmt.Errorf("disconnect failed: %w", err)
		}

		spinner.Success(out)
		return nil
	},
}
