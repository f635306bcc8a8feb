/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2025 Dmitry Kireev
 */

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/DimmKirr/nordterm/internal/config"
	"github.com/DimmKirr/nordterm/internal/logger"
	"github.com/DimmKirr/nordterm/internal/ux"
	"github.com/DimmKirr/nordterm/internal/vpnclient"
	"github.com/spf13/cobra"
)

// connectCmd represents the connect command
var connectCmd = &cobra.Command{
	Use:   "connect [country|city|server]",
	Short: "Connect to a VPN server",
	Long: fmt.Sprintf(`Connect to a VPN server. Without arguments the client picks the
recommended server. The target is passed to the client unchanged.

Example:
  nordterm connect                 # Quick connect
  nordterm connect Germany         # Best server in a country
  nordterm connect de123           # A specific server
  nordterm connect --group p2p     # A specialty group (%s)`, strings.Join(vpnclient.Groups(), ", ")),
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Debug("Connect command called")

		group, _ := cmd.Flags().GetString("group")

		target := ""
		if len(args) == 1 {
			target = strings.TrimSpace(args[0])
		}

		if group != "" && target != "" {
			return errors.New("either a target or --group can be given, not both")
		}

		client, err := requireClient()
		if err != nil {
			return err
		}

		message := "Connecting to the best server..."
		switch {
		case group != "":
			message = fmt.Sprintf("Connecting to %s server...", group)
		case target != "":
			message = fmt.Sprintf("Connecting to %s...", target)
		}

		spinner := ux.NewProgressSpinner(message, config.App.LogPlainText)

		var out string
		if group != "" {
			out, err = client.ConnectGroup(cmd.Context(), group)
		} else {
			out, err = client.Connect(cmd.Context(), target)
		}

		if err != nil {
			spinner.Fail("Connection failed")
			return fmt.Errorf("connection failed: %w", err)
		}

		spinner.Success(out)
		return nil
	},
}

func init() {
	connectCmd.Flags().StringP("group", "g", "", fmt.Sprintf("Specialty server group (%s)", strings.Join(vpnclient.Groups(), ", ")))
}
