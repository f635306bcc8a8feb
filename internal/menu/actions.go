/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2025 Dmitry Kireev
 */

package menu

import (
	"context"
	"fmt"

	"github.com/DimmKirr/nordterm/internal/vpnclient"
	"github.com/DimmKirr/nordterm/internal/ux"
)

type specialty struct {
	label string
	group string
}

var specialties = []specialty{
	{label: "P2P", group: vpnclient.GroupP2P},
	{label: "Onion Over VPN", group: vpnclient.GroupOnionOverVPN},
	{label: "Double VPN", group: vpnclient.GroupDoubleVPN},
}

// SpecialtyGroup maps a specialty sub-menu token ("1".."3") to its group name
func SpecialtyGroup(choice string) (string, bool) {
	for i, s := range specialties {
		if choice == fmt.Sprint(i+1) {
			return s.group, true
		}
	}
	return "", false
}

func (m *Menu) install(ctx context.Context) error {
	m.section("NordVPN Installation")
	m.warn("Installing NordVPN...")

	if err := m.installer.Install(ctx); err != nil {
		m.fail(err.Error())
		m.warn("Manual installation:")
		m.println("Visit: " + m.manualURL)
	} else {
		m.success("NordVPN installed successfully!")
		m.info("Please log in with: nordvpn login (option 2)")
	}

	// Re-probe whatever the outcome, the script may have got far enough
	if m.detect != nil {
		m.client = m.detect(ctx)
	}

	return nil
}

func (m *Menu) login(ctx context.Context) error {
	m.info("Opening browser for login...")

	if err := m.client.Login(ctx); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	return nil
}

func (m *Menu) logout(ctx context.Context) error {
	out, err := m.client.Logout(ctx)
	if err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	if out == "" {
		out = "Logged out successfully"
	}
	m.success(out)
	return nil
}

func (m *Menu) quickConnect(ctx context.Context) error {
	return m.connect(ctx, "Connecting to the best server...", m.client.QuickConnect)
}

func (m *Menu) connectByCountry(ctx context.Context) error {
	if err := m.countries(ctx); err != nil {
		m.fail(err.Error())
	}

	country, err := m.prompt.Input("Country:")
	if err != nil {
		return err
	}
	if country == "" {
		return nil
	}

	return m.connectTo(ctx, country)
}

func (m *Menu) connectByServer(ctx context.Context) error {
	server, err := m.prompt.Input("Server (e.g. de123):")
	if err != nil {
		return err
	}
	if server == "" {
		return nil
	}

	return m.connectTo(ctx, server)
}

func (m *Menu) connectByCity(ctx context.Context) error {
	country, err := m.prompt.Input("Country:")
	if err != nil {
		return err
	}
	if country == "" {
		return nil
	}

	if err := m.cities(ctx, country); err != nil {
		m.fail(err.Error())
	}

	city, err := m.prompt.Input("City:")
	if err != nil {
		return err
	}
	if city == "" {
		return nil
	}

	return m.connectTo(ctx, city)
}

func (m *Menu) connectSpecialty(ctx context.Context) error {
	m.section("Specialty servers")
	for i, s := range specialties {
		m.println(fmt.Sprintf("  %d) %s", i+1, s.label))
	}

	choice, err := m.prompt.Input("Choice:")
	if err != nil {
		return err
	}

	group, ok := SpecialtyGroup(choice)
	if !ok {
		return nil
	}

	return m.connect(ctx, fmt.Sprintf("Connecting to %s server...", group), func(ctx context.Context) (string, error) {
		return m.client.ConnectGroup(ctx, group)
	})
}

func (m *Menu) connectTo(ctx context.Context, target string) error {
	return m.connect(ctx, fmt.Sprintf("Connecting to %s...", target), func(ctx context.Context) (string, error) {
		return m.client.Connect(ctx, target)
	})
}

func (m *Menu) connect(ctx context.Context, message string, fn func(context.Context) (string, error)) error {
	var spinner *ux.ProgressSpinner
	if m.plain {
		m.warn(message)
	} else {
		spinner = ux.NewProgressSpinner(message, false)
	}

	out, err := fn(ctx)

	if spinner != nil {
		spinner.Stop()
	}

	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}

	m.success(out)
	return nil
}

func (m *Menu) disconnect(ctx context.Context) error {
	out, err := m.client.Disconnect(ctx)
	if err != nil {
		return fmt.Errorf("disconnect failed: %w", err)
	}

	m.success(out)
	return nil
}

func (m *Menu) status(ctx context.Context) error {
	return m.show(ctx, "NordVPN Status", "can't get status", m.client.Status)
}

func (m *Menu) countries(ctx context.Context) error {
	return m.show(ctx, "Available countries", "can't list countries", m.client.Countries)
}

func (m *Menu) cities(ctx context.Context, country string) error {
	return m.show(ctx, "Available cities in "+country, "can't list cities", func(ctx context.Context) (string, error) {
		return m.client.Cities(ctx, country)
	})
}

func (m *Menu) settings(ctx context.Context) error {
	return m.show(ctx, "NordVPN Settings", "can't get settings", m.client.Settings)
}

func (m *Menu) show(ctx context.Context, title, failure string, fn func(context.Context) (string, error)) error {
	out, err := fn(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", failure, err)
	}

	m.section(title)
	m.println(out)
	return nil
}

func (m *Menu) ipInfo(ctx context.Context) error {
	info, err := m.lookup.Lookup(ctx)
	if err != nil {
		return fmt.Errorf("can't fetch IP information: %w", err)
	}

	m.section("IP Information")
	m.field("External IP", info.IP)
	m.field("Country", info.Country)
	m.field("City", info.City)
	m.field("ISP", info.ISP)
	return nil
}
