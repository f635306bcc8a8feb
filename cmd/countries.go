/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2025 Dmitry Kireev
 */

package cmd

import (
	"context"
	"fmt"

	"github.com/DimmKirr/nordterm/internal/config"
	"github.com/DimmKirr/nordterm/internal/logger"
	"github.com/DimmKirr/nordterm/internal/ux"
	"github.com/DimmKirr/nordterm/internal/vpnclient"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

const listColumns = 4

// countriesCmd represents the countries command
var countriesCmd = &cobra.Command{
	Use:     "countries",
	Aliases: []string{"ls"},
	Short:   "List countries with VPN servers",
	Long: `List all countries the client can connect to.

Example:
  nordterm countries            # Table of countries
  nordterm countries --plain    # One name per line, for scripts`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listNames(cmd, "Available countries", func(ctx context.Context, c *vpnclient.Client) (string, error) {
			return c.Countries(ctx)
		})
	},
}

// citiesCmd represents the cities command
var citiesCmd = &cobra.Command{
	Use:   "cities <country>",
	Short: "List cities with VPN servers in a country",
	Long: `List the cities of one country the client can connect to.

Example:
  nordterm cities Germany`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		country := args[0]
		return listNames(cmd, "Available cities in "+country, func(ctx context.Context, c *vpnclient.Client) (string, error) {
			return c.Cities(ctx, country)
		})
	},
}

// listNames displays a client listing as a table, or line by line in plain-text mode
func listNames(cmd *cobra.Command, title string, fn func(context.Context, *vpnclient.Client) (string, error)) error {
	client, err := requireClient()
	if err != nil {
		return err
	}

	out, err := fn(cmd.Context(), client)
	if err != nil {
		return fmt.Errorf("error listing: %w", err)
	}

	names := vpnclient.ParseList(out)
	logger.Debug("Parsed listing", "title", title, "count", len(names))

	if config.App.LogPlainText {
		for _, name := range names {
			pterm.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	}

	return ux.RenderKeyValueTable(cmd.OutOrStdout(), title, nil, columns(names, listColumns))
}

// columns lays names out row by row, padding the last row
func columns(names []string, n int) [][]string {
	var rows [][]string
	for i := 0; i < len(names); i += n {
		row := make([]string, n)
		copy(row, names[i:min(i+n, len(names))])
		rows = append(rows, row)
	}
	return rows
}
