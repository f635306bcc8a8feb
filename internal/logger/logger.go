/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2025 Dmitry Kireev
 */

package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/viper"
)

var defaultLogger *slog.Logger

// ParseLevel maps a configured level name to a pterm log level
func ParseLevel(logLevel string) pterm.LogLevel {
	switch strings.ToLower(logLevel) {
	case "debug":
		return pterm.LogLevelDebug
	case "info":
		return pterm.LogLevelInfo
	case "warn", "warning":
		return pterm.LogLevelWarn
	case "error", "fatal":
		return pterm.LogLevelError
	default:
		return pterm.LogLevelWarn
	}
}

// Initialize sets up the logger with a specified log level
func Initialize(logLevel string, logPlainText bool) {
	pterm.DefaultLogger.Level = ParseLevel(logLevel)

	// Menu output goes to stdout, keep logs out of its way
	pterm.DefaultLogger.Writer = os.Stderr

	if logPlainText {
		pterm.DisableStyling()
	} else {
		pterm.EnableStyling()
		ApplyPtermTheme(0)
	}

	defaultLogger = slog.New(pterm.NewSlogHandler(&pterm.DefaultLogger))
}

// exit is replaced in tests
var exit = os.Exit

func log(level slog.Level, msg string, keysAndValues []any) {
	defaultLogger.Log(context.Background(), level, msg, keysAndValues...)
}

func Info(msg string, keysAndValues ...any)  { log(slog.LevelInfo, msg, keysAndValues) }
func Debug(msg string, keysAndValues ...any) { log(slog.LevelDebug, msg, keysAndValues) }
func Warn(msg string, keysAndValues ...any)  { log(slog.LevelWarn, msg, keysAndValues) }
func Error(msg string, keysAndValues ...any) { log(slog.LevelError, msg, keysAndValues) }

// Success is an info-level line, pterm's slog handler has no success level
func Success(msg string, keysAndValues ...any) { log(slog.LevelInfo, msg, keysAndValues) }

// Fatal logs at error level and exits with status 1
func Fatal(msg string, keysAndValues ...any) {
	log(slog.LevelError, msg, keysAndValues)
	exit(1)
}

func init() {
	Initialize(viper.GetString("LOG_LEVEL"), false)
}

// prefix is one printer's marker in the nordterm look: a single glyph in
// the color of the NordVPN app states (cyan connected, yellow connecting,
// red failed)
type prefix struct {
	printer *pterm.PrefixPrinter
	glyph   string
	colors  []pterm.Color
}

func themePrefixes() []prefix {
	return []prefix{
		{&pterm.Info, "›", []pterm.Color{pterm.FgLightCyan}},
		{&pterm.Warning, "!", []pterm.Color{pterm.FgLightYellow, pterm.Bold}},
		{&pterm.Success, "✓", []pterm.Color{pterm.FgCyan, pterm.Bold}},
		{&pterm.Error, "✗", []pterm.Color{pterm.FgLightRed, pterm.Bold}},
		{&pterm.Debug, "·", []pterm.Color{pterm.FgGray}},
	}
}

// ApplyPtermTheme swaps pterm's boxed prefixes for nordterm's glyphs, indented by indent spaces
func ApplyPtermTheme(indent int) {
	pad := strings.Repeat(" ", indent)

	for _, p := range themePrefixes() {
		p.printer.Prefix = pterm.Prefix{
			Text:  pad + p.glyph,
			Style: pterm.NewStyle(p.colors...),
		}
		p.printer.MessageStyle = pterm.NewStyle(pterm.FgDefault)
	}

	pterm.DefaultSection.Style = pterm.NewStyle(pterm.FgLightCyan, pterm.Bold)
}
