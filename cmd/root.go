/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2025 Dmitry Kireev
 */

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/DimmKirr/nordterm/internal/config"
	"github.com/DimmKirr/nordterm/internal/constraints"
	"github.com/DimmKirr/nordterm/internal/logger"
	"github.com/DimmKirr/nordterm/internal/menu"
	"github.com/DimmKirr/nordterm/internal/vpnclient"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "nordterm",
	Short: "NordVPN terminal interface",
	Long: `Interactive terminal menu for the NordVPN Linux client.
	Without a subcommand it shows a numbered menu to install the client, log in,
	connect by country, city, server or specialty group, and inspect status,
	settings and the current public IP. Every menu action is also available as
	a subcommand for scripting.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runMenu,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Interrupts end the menu loop; client calls in flight are detached from it
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "Specify log level (debug/info/warn/error)")
	if err := viper.BindPFlag("LOG_LEVEL", rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		pterm.Info.Println("Not binding log-level flag (none provided)")
	}

	rootCmd.PersistentFlags().String("binary", "", "Path or name of the NordVPN client binary (default nordvpn)")
	if err := viper.BindPFlag("BINARY", rootCmd.PersistentFlags().Lookup("binary")); err != nil {
		pterm.Info.Println("Not binding binary flag (none provided)")
	}

	rootCmd.PersistentFlags().Bool("plain", false, "Plain text output without colors, spinners or screen clearing")
	if err := viper.BindPFlag("LOG_PLAIN_TEXT", rootCmd.PersistentFlags().Lookup("plain")); err != nil {
		pterm.Info.Println("Not binding plain flag (none provided)")
	}

	rootCmd.AddCommand(
		statusCmd,
		connectCmd,
		disconnectCmd,
		countriesCmd,
		citiesCmd,
		ipCmd,
		installCmd,
		loginCmd,
		logoutCmd,
		settingsCmd,
		versionCmd,
	)

	cobra.OnInitialize(initializeNordterm)
}

func initializeNordterm() {
	// Load config into a global struct
	if err := config.LoadConfig(); err != nil {
		logger.Fatal("Error loading config", "error", err)
	}

	if !constraints.SupportsANSIEscapeCodes() || constraints.IsCI() {
		logger.Debug("Terminal supports ANSI escape codes", "supportsANSI", constraints.SupportsANSIEscapeCodes())
		logger.Debug("Terminal is CI", "isCI", constraints.IsCI())

		// If the terminal is non-interactive or doesn't support ANSI enable plain text logging automatically
		config.App.LogPlainText = true
	}

	logger.Initialize(config.App.LogLevel, config.App.LogPlainText)
}

func runMenu(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	runner := newRunner()

	var prompter menu.Prompter = menu.SurveyPrompter{}
	if !constraints.IsInteractive() || config.App.LogPlainText {
		prompter = menu.WithContext(ctx, menu.NewLinePrompter(os.Stdin, os.Stdout))
	}

	detect := func(ctx context.Context) *vpnclient.Client {
		return vpnclient.Detect(ctx, runner, config.App.Binary)
	}

	m := menu.New(menu.Options{
		Client:           detect(ctx),
		Detect:           detect,
		Installer:        newInstaller(runner),
		IPLookup:         newFetcher(),
		Prompter:         prompter,
		Out:              os.Stdout,
		Plain:            config.App.LogPlainText,
		ManualInstallURL: config.App.ManualInstallURL,
	})

	return m.Run(ctx)
}
