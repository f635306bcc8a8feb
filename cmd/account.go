/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2025 Dmitry Kireev
 */

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to your NordVPN account",
	Long: `Log in to your NordVPN account. The client takes over the terminal,
prints a login URL or opens a browser, and waits for the callback.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := requireClient()
		if err != nil {
			return err
		}

		pterm.Info.Println("Opening browser for login...")

		if err := client.Login(cmd.Context()); err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		return nil
	},
}

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out of your NordVPN account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := requireClient()
		if err != nil {
			return err
		}

		out, err := client.Logout(cmd.Context())
		if err != nil {
			return fmt.Errorf("logout failed: %w", err)
		}

		if out == "" {
			out = "Logged out successfully"
		}
		pterm.Success.Println(out)
		return nil
	},
}
