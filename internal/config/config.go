/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2025 Dmitry Kireev
 */

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/DimmKirr/nordterm/internal/logger"
	"github.com/spf13/viper"
)

const (
	DefaultBinary           = "nordvpn"
	DefaultInstallScriptURL = "https://downloads.nordcdn.com/apps/linux/install.sh"
	DefaultManualInstallURL = "https://nordvpn.com/download/linux/"
	DefaultIPEchoURL        = "https://api.ipify.org?format=json"
	DefaultGeoURL           = "http://ip-api.com/json"
	DefaultHTTPTimeout      = 5 * time.Second
	DefaultOSReleasePath    = "/etc/os-release"
)

type Config struct {
	Binary           string
	InstallScriptURL string
	ManualInstallURL string
	IPEchoURL        string
	GeoURL           string
	HTTPTimeout      time.Duration
	OSReleasePath    string
	ConfigFile       string
	AppDir           string
	LogLevel         string
	LogPlainText     bool
}

var App *Config

// Defaults returns the configuration used when nothing is set via flags, env or file
func Defaults() *Config {
	return &Config{
		Binary:           DefaultBinary,
		InstallScriptURL: DefaultInstallScriptURL,
		ManualInstallURL: DefaultManualInstallURL,
		IPEchoURL:        DefaultIPEchoURL,
		GeoURL:           DefaultGeoURL,
		HTTPTimeout:      DefaultHTTPTimeout,
		OSReleasePath:    DefaultOSReleasePath,
		LogLevel:         "warning",
	}
}

func LoadConfig() error {
	viper.SetEnvPrefix("NORDTERM")

	replacer := strings.NewReplacer(".", "__")

	viper.SetEnvKeyReplacer(replacer)
	viper.AutomaticEnv()

	viper.SetConfigName("nordterm")
	viper.SetConfigType("toml")

	defaults := Defaults()

	// Set default log level early
	viper.SetDefault("LOG_LEVEL", defaults.LogLevel)

	// Early logger so config loading itself can be debugged
	logger.Initialize(viper.GetString("LOG_LEVEL"), viper.GetBool("LOG_PLAIN_TEXT"))
	logger.Debug("Initialized config")

	currentDir, err := os.Getwd()
	if err != nil {
		return err
	}

	var appDir string
	if configDir, err := os.UserConfigDir(); err == nil {
		appDir = filepath.Join(configDir, "nordterm")
	} else {
		logger.Debug("Can't determine user config directory", "error", err)
	}

	// Current directory has priority over the user config dir
	viper.AddConfigPath(currentDir)
	if appDir != "" {
		viper.AddConfigPath(appDir)
	}

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return err
		}
		logger.Debug("No config file found. Using defaults and environment variables.")
	} else {
		logger.Debug("Using config file:", "configFile", viper.ConfigFileUsed())
	}

	// Second pass, the level may have come from the file
	logger.Initialize(viper.GetString("LOG_LEVEL"), viper.GetBool("LOG_PLAIN_TEXT"))

	viper.SetDefault("BINARY", defaults.Binary)
	viper.SetDefault("INSTALL_SCRIPT_URL", defaults.InstallScriptURL)
	viper.SetDefault("MANUAL_INSTALL_URL", defaults.ManualInstallURL)
	viper.SetDefault("IP_ECHO_URL", defaults.IPEchoURL)
	viper.SetDefault("GEO_URL", defaults.GeoURL)
	viper.SetDefault("HTTP_TIMEOUT", defaults.HTTPTimeout)
	viper.SetDefault("OS_RELEASE_PATH", defaults.OSReleasePath)
	viper.SetDefault("LOG_PLAIN_TEXT", false)

	App = &Config{
		Binary:           viper.GetString("BINARY"),
		InstallScriptURL: viper.GetString("INSTALL_SCRIPT_URL"),
		ManualInstallURL: viper.GetString("MANUAL_INSTALL_URL"),
		IPEchoURL:        viper.GetString("IP_ECHO_URL"),
		GeoURL:           viper.GetString("GEO_URL"),
		HTTPTimeout:      viper.GetDuration("HTTP_TIMEOUT"),
		OSReleasePath:    viper.GetString("OS_RELEASE_PATH"),
		ConfigFile:       viper.ConfigFileUsed(),
		AppDir:           appDir,
		LogLevel:         viper.GetString("LOG_LEVEL"),
		LogPlainText:     viper.GetBool("LOG_PLAIN_TEXT"),
	}

	if App.HTTPTimeout <= 0 {
		logger.Warn("Invalid HTTP timeout, using default", "timeout", App.HTTPTimeout, "default", defaults.HTTPTimeout)
		App.HTTPTimeout = defaults.HTTPTimeout
	}

	logger.Debug("Loaded config", "binary", App.Binary, "configFile", App.ConfigFile)

	return nil
}
