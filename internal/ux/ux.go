/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2025 Dmitry Kireev
 */

package ux

import (
	"io"
	"time"

	"github.com/DimmKirr/nordterm/internal/logger"
	"github.com/pterm/pterm"
)

// ProgressSpinner is a wrapper around pterm.SpinnerPrinter that
// automatically falls back to logging when spinners are disabled
type ProgressSpinner struct {
	spinner *pterm.SpinnerPrinter
}

// StartCustomSpinner creates and starts a fresh custom spinner
func StartCustomSpinner(message string) *pterm.SpinnerPrinter {
	spinner := pterm.DefaultSpinner

	spinner.Sequence = []string{
		"🌍 ",
		"🌎 ",
		"🌏 ",
	}

	spinner.Style = pterm.NewStyle(pterm.FgCyan)
	spinner.Delay = 200 * time.Millisecond
	spinner.RemoveWhenDone = true

	s, _ := spinner.Start(message)
	return s
}

// NewProgressSpinner creates a new progress spinner, or only logs the message in plain-text mode
func NewProgressSpinner(message string, plain bool) *ProgressSpinner {
	ps := &ProgressSpinner{}

	if !plain {
		ps.spinner = StartCustomSpinner(message)
	} else {
		logger.Info(message)
	}

	return ps
}

// UpdateText updates the spinner text or logs the message
func (ps *ProgressSpinner) UpdateText(message string, keysAndValues ...interface{}) *ProgressSpinner {
	if ps.spinner != nil {
		ps.spinner.UpdateText(message)
	} else {
		logger.Info(message, keysAndValues...)
	}
	return ps
}

// Success marks the spinner as successful or logs a success message
func (ps *ProgressSpinner) Success(message string, keysAndValues ...interface{}) *ProgressSpinner {
	if ps.spinner != nil {
		ps.spinner.Success(message)
	} else {
		logger.Success(message, keysAndValues...)
	}
	return ps
}

func (ps *ProgressSpinner) Fail(message string, keysAndValues ...interface{}) *ProgressSpinner {
	if ps.spinner != nil {
		ps.spinner.Fail(message)
	} else {
		logger.Error(message, keysAndValues...)
	}
	return ps
}

// Stop removes the spinner without printing anything, the caller reports the outcome
func (ps *ProgressSpinner) Stop() {
	if ps.spinner != nil {
		_ = ps.spinner.Stop()
	}
}

// RenderKeyValueTable writes a table under a section header. A nil header
// renders the rows only.
func RenderKeyValueTable(w io.Writer, title string, header []string, rows [][]string) error {
	pterm.Fprint(w, pterm.DefaultSection.Sprintln(title))

	if len(rows) == 0 {
		pterm.Fprintln(w, pterm.FgGray.Sprint("(empty)"))
		return nil
	}

	data := rows
	if header != nil {
		data = append([][]string{header}, rows...)
	}

	table, err := pterm.DefaultTable.WithHasHeader(header != nil).WithLeftAlignment().WithData(data).Srender()
	if err != nil {
		return err
	}

	pterm.Fprintln(w, table)
	return nil
}

// ClearScreen moves the cursor home and clears the terminal. It does nothing in plain-text mode.
func ClearScreen(w io.Writer, plain bool) {
	if plain {
		return
	}
	_, _ = io.WriteString(w, "\033[H\033[2J")
}

// Banner is the title box shown above the menu
func Banner(subtitle string) string {
	title := pterm.DefaultHeader.
		WithFullWidth(false).
		WithBackgroundStyle(pterm.NewStyle(pterm.BgCyan)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack, pterm.Bold)).
		Sprint("NordVPN Terminal Interface")

	if subtitle == "" {
		return title
	}

	return title + "\n" + pterm.FgGray.Sprint(subtitle) + "\n"
}
