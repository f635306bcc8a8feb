/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2025 Dmitry Kireev
 */

package cmd

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/DimmKirr/nordterm/internal/config"
	"github.com/DimmKirr/nordterm/internal/constraints"
	"github.com/DimmKirr/nordterm/internal/logger"
	"github.com/DimmKirr/nordterm/internal/vpnclient"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// installCmd represents the install command
var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the NordVPN client",
	Long: `Install the NordVPN client with the vendor's install script.
The script is downloaded with curl and piped into sh; it may ask for a sudo password.

Example:
  nordterm install        # Asks for confirmation first
  nordterm install --yes  # No confirmation`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runner := newRunner()

		if installed, line := vpnclient.Probe(cmd.Context(), runner, config.App.Binary); installed {
			pterm.Info.Printfln("NordVPN is already installed (%s)", line)
			return nil
		}

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes && !isInteractive() {
			return errors.New("refusing to run the install script without a terminal, pass --yes to confirm")
		}

		if err := constraints.CheckConstraints(
			constraints.WithShell(),
			constraints.WithCurl(),
		); err != nil {
			return err
		}

		inst := newInstaller(runner)

		if !yes {
			confirmed := false
			prompt := &survey.Confirm{
				Message: fmt.Sprintf("Run `%s`?", inst.Pipeline()[2]),
				Default: true,
			}
			if err := survey.AskOne(prompt, &confirmed); err != nil {
				return err
			}
			if !confirmed {
				logger.Info("Installation cancelled")
				return nil
			}
		}

		pterm.DefaultSection.Println("NordVPN Installation")

		if err := inst.Install(cmd.Context()); err != nil {
			pterm.Warning.Println("Manual installation:")
			pterm.Println("Visit: " + config.App.ManualInstallURL)
			return err
		}

		installed, line := vpnclient.Probe(cmd.Context(), runner, config.App.Binary)
		if !installed {
			return fmt.Errorf("the install script finished but %s is still not available", config.App.Binary)
		}

		pterm.Success.Printfln("NordVPN installed successfully! (%s)", line)
		pterm.Info.Println("Please log in with: nordterm login")
		return nil
	},
}

func init() {
	installCmd.Flags().BoolP("yes", "y", false, "Don't ask for confirmation")
}
