/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2025 Dmitry Kireev
 */

package cmd

import (
	"fmt"

	"github.com/DimmKirr/nordterm/internal/config"
	"github.com/DimmKirr/nordterm/internal/ux"
	jsoniter "github.com/json-iterator/go"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// ipCmd represents the ip command
var ipCmd = &cobra.Command{
	Use:   "ip",
	Short: "Show the current public IP and its location",
	Long: `Show the public IP address of this machine as seen from the internet,
with the country, city and ISP the geolocation service reports for it.

Example:
  nordterm ip
  nordterm ip --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner := ux.NewProgressSpinner("Looking up public IP", config.App.LogPlainText)

		info, err := newFetcher().Lookup(cmd.Context())
		spinner.Stop()
		if err != nil {
			return fmt.Errorf("can't fetch IP information: %w", err)
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			out, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(info, "", "  ")
			if err != nil {
				return err
			}
			pterm.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		}

		return ux.RenderKeyValueTable(cmd.OutOrStdout(), "IP Information", nil, [][]string{
			{"External IP", info.IP},
			{"Country", info.Country},
			{"City", info.City},
			{"ISP", info.ISP},
		})
	},
}

func init() {
	ipCmd.Flags().Bool("json", false, "Print the result as JSON")
}
