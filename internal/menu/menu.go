/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2025 Dmitry Kireev
 */

// Package menu implements the interactive numbered menu. Each choice maps to
// exactly one delegated action; errors end the action, never the loop.
package menu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/DimmKirr/nordterm/internal/ipinfo"
	"github.com/DimmKirr/nordterm/internal/logger"
	"github.com/DimmKirr/nordterm/internal/vpnclient"
	"github.com/DimmKirr/nordterm/internal/ux"
	"github.com/pterm/pterm"
)

const quitKey = "0"

// maxPromptFailures consecutive prompt errors end the loop, a terminal that
// keeps failing would otherwise spin forever
const maxPromptFailures = 3

// Installer installs the VPN client
type Installer interface {
	Install(ctx context.Context) error
}

// IPLookup resolves the public address and its location
type IPLookup interface {
	Lookup(ctx context.Context) (ipinfo.Info, error)
}

// DetectFunc probes the VPN client again, used after an install attempt
type DetectFunc func(ctx context.Context) *vpnclient.Client

type Options struct {
	Client           *vpnclient.Client
	Detect           DetectFunc
	Installer        Installer
	IPLookup         IPLookup
	Prompter         Prompter
	Out              io.Writer
	Plain            bool
	ManualInstallURL string
}

type item struct {
	key         string
	section     string
	label       string
	needsClient bool
	run         func(ctx context.Context) error
}

type Menu struct {
	client    *vpnclient.Client
	detect    DetectFunc
	installer Installer
	lookup    IPLookup
	prompt    Prompter
	out       io.Writer
	plain     bool
	manualURL string
	items     []item
}

func New(opts Options) *Menu {
	m := &Menu{
		client:    opts.Client,
		detect:    opts.Detect,
		installer: opts.Installer,
		lookup:    opts.IPLookup,
		prompt:    opts.Prompter,
		out:       opts.Out,
		plain:     opts.Plain,
		manualURL: opts.ManualInstallURL,
	}

	m.items = []item{
		{key: "1", section: "Installation & Setup", label: "Install NordVPN", run: m.install},
		{key: "2", section: "Installation & Setup", label: "Login", needsClient: true, run: m.login},
		{key: "3", section: "Installation & Setup", label: "Logout", needsClient: true, run: m.logout},
		{key: "4", section: "Connection", label: "Quick connect (best server)", needsClient: true, run: m.quickConnect},
		{key: "5", section: "Connection", label: "Connect by country", needsClient: true, run: m.connectByCountry},
		{key: "6", section: "Connection", label: "Connect by server", needsClient: true, run: m.connectByServer},
		{key: "7", section: "Connection", label: "Connect by city", needsClient: true, run: m.connectByCity},
		{key: "8", section: "Connection", label: "Specialty servers (P2P, Onion, ...)", needsClient: true, run: m.connectSpecialty},
		{key: "9", section: "Connection", label: "Disconnect", needsClient: true, run: m.disconnect},
		{key: "10", section: "Information", label: "Show status", needsClient: true, run: m.status},
		{key: "11", section: "Information", label: "Show current IP", run: m.ipInfo},
		{key: "12", section: "Information", label: "List countries", needsClient: true, run: m.countries},
		{key: "13", section: "Information", label: "Show settings", needsClient: true, run: m.settings},
		{key: quitKey, section: "Other", label: "Quit"},
	}

	return m
}

// Installed reports the current value of the installed flag
func (m *Menu) Installed() bool {
	return m.client.Installed()
}

// Run shows the menu until the user quits, interrupts or input ends
func (m *Menu) Run(ctx context.Context) error {
	m.banner()

	if !m.client.Installed() {
		m.warn(vpnclient.ErrNotInstalled.Error() + "!")
		m.info("Choose option 1 to install NordVPN.")
	}

	failures := 0
	for {
		if ctx.Err() != nil {
			m.goodbye()
			return nil
		}

		quit, err := m.step(ctx)
		if err != nil {
			failures++
			logger.Debug("Prompt failed", "error", err, "failures", failures)
			m.fail(fmt.Sprintf("Error: %v", err))
			if failures >= maxPromptFailures {
				return err
			}
			continue
		}
		failures = 0

		if quit {
			m.goodbye()
			return nil
		}

		ux.ClearScreen(m.out, m.plain)
		m.banner()
	}
}

// step is one menu iteration: render, read, dispatch, acknowledge
func (m *Menu) step(ctx context.Context) (quit bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("Recovered from panic in menu loop", "panic", r)
			m.fail(fmt.Sprintf("Error: %v", r))
			quit, err = false, nil
		}
	}()

	m.renderMenu()

	choice, err := m.prompt.Input("Choice:")
	if err != nil {
		if isStop(err) {
			return true, nil
		}
		return false, err
	}

	if m.Dispatch(ctx, choice) {
		return true, nil
	}

	// Interrupted while the action ran, don't ask for an acknowledgment
	if ctx.Err() != nil {
		return true, nil
	}

	if _, err := m.prompt.Input("Press Enter to continue..."); err != nil {
		if isStop(err) {
			return true, nil
		}
		return false, err
	}

	return false, nil
}

// Dispatch runs the action for one menu token and reports whether the loop
// should stop. Unknown tokens and missing-client gating print a message and
// invoke nothing.
func (m *Menu) Dispatch(ctx context.Context, choice string) (quit bool) {
	choice = strings.TrimSpace(choice)
	if choice == quitKey {
		return true
	}

	it, ok := m.find(choice)
	if !ok {
		m.fail("Invalid choice")
		return false
	}

	if it.needsClient && !m.client.Installed() {
		m.fail(vpnclient.ErrNotInstalled.Error())
		return false
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Debug("Recovered from panic in menu action", "choice", choice, "panic", r)
			m.fail(fmt.Sprintf("Error: %v", r))
			quit = false
		}
	}()

	logger.Debug("Dispatching menu choice", "choice", choice, "action", it.label)

	// Ctrl+C stops the loop, not the call in flight
	err := it.run(context.WithoutCancel(ctx))
	switch {
	case err == nil:
		return false
	case isStop(err):
		return true
	default:
		m.fail(err.Error())
		return false
	}
}

func (m *Menu) find(key string) (item, bool) {
	for _, it := range m.items {
		if it.key == key && it.run != nil {
			return it, true
		}
	}
	return item{}, false
}

func isStop(err error) bool {
	return errors.Is(err, ErrInterrupted) || errors.Is(err, ErrEndOfInput)
}

func (m *Menu) banner() {
	subtitle := ""
	if m.client.Installed() {
		subtitle = m.client.VersionLine()
	}
	pterm.Fprintln(m.out, ux.Banner(subtitle))
}

func (m *Menu) renderMenu() {
	m.section("Main Menu")

	current := ""
	for _, it := range m.items {
		if it.section != current {
			current = it.section
			pterm.Fprintln(m.out)
			pterm.Fprintln(m.out, pterm.Bold.Sprint(current+":"))
		}
		pterm.Fprintln(m.out, fmt.Sprintf("  %-4s %s", it.key+")", it.label))
	}
	pterm.Fprintln(m.out)
}

func (m *Menu) goodbye() {
	pterm.Fprintln(m.out)
	m.info("Goodbye!")
}

func (m *Menu) section(title string) {
	pterm.Fprint(m.out, pterm.DefaultSection.Sprintln(title))
}

func (m *Menu) println(s string) {
	pterm.Fprintln(m.out, s)
}

func (m *Menu) field(label, value string) {
	pterm.Fprintln(m.out, pterm.FgLightBlue.Sprint(label+":")+" "+value)
}

func (m *Menu) info(s string) {
	pterm.Fprint(m.out, pterm.Info.Sprintln(s))
}

func (m *Menu) warn(s string) {
	pterm.Fprint(m.out, pterm.Warning.Sprintln(s))
}

func (m *Menu) success(s string) {
	pterm.Fprint(m.out, pterm.Success.Sprintln(s))
}

func (m *Menu) fail(s string) {
	pterm.Fprint(m.out, pterm.Error.Sprintln(s))
}
