/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2025 Dmitry Kireev
 */

// Package vpnclient wraps the NordVPN command-line client. Every operation is a
// single invocation of the binary with a fixed argument vector; free text from
// the user is passed as its own argv element and never through a shell.
package vpnclient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/DimmKirr/nordterm/internal/logger"
)

// ErrNotInstalled is returned by every operation when the client binary was not found
var ErrNotInstalled = errors.New("NordVPN is not installed")

// Specialty server groups accepted by `connect --group`
const (
	GroupP2P          = "p2p"
	GroupOnionOverVPN = "onion_over_vpn"
	GroupDoubleVPN    = "double_vpn"
)

var groups = []string{GroupP2P, GroupOnionOverVPN, GroupDoubleVPN}

// Groups lists the specialty groups in menu order
func Groups() []string {
	return append([]string(nil), groups...)
}

// IsGroup reports whether name is a known specialty group
func IsGroup(name string) bool {
	for _, g := range groups {
		if g == name {
			return true
		}
	}
	return false
}

// CommandError is a client invocation that exited non-zero
type CommandError struct {
	Binary   string
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
}

// Detail is the text the client printed about the failure
func (e *CommandError) Detail() string {
	if s := CleanOutput(e.Stderr); s != "" {
		return s
	}
	if s := CleanOutput(e.Stdout); s != "" {
		return s
	}
	return fmt.Sprintf("exit status %d", e.ExitCode)
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Binary, strings.Join(e.Args, " "), e.Detail())
}

// Client invokes the VPN client binary. The installed flag is decided by the
// caller (usually through Detect) and never changes for the life of a Client.
type Client struct {
	runner    Runner
	binary    string
	installed bool
	version   string
}

// New returns a client for binary. When installed is false every operation
// returns ErrNotInstalled without touching the runner.
func New(runner Runner, binary string, installed bool) *Client {
	return &Client{
		runner:    runner,
		binary:    binary,
		installed: installed,
	}
}

// Detect probes binary and returns a client whose installed flag mirrors the result
func Detect(ctx context.Context, runner Runner, binary string) *Client {
	installed, version := Probe(ctx, runner, binary)
	c := New(runner, binary, installed)
	c.version = version
	return c
}

// Installed reports whether the client binary answered the probe
func (c *Client) Installed() bool {
	return c.installed
}

// Binary is the name or path of the client executable
func (c *Client) Binary() string {
	return c.binary
}

// VersionLine is the raw `--version` output captured by Detect
func (c *Client) VersionLine() string {
	return c.version
}

func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	if !c.installed {
		return "", ErrNotInstalled
	}

	logger.Debug("Running VPN client", "binary", c.binary, "args", args)

	res, err := c.runner.Run(ctx, c.binary, args...)
	if err != nil {
		return "", fmt.Errorf("can't run %s: %w", c.binary, err)
	}

	logger.Debug("VPN client finished", "args", args, "exitCode", res.ExitCode)

	if res.ExitCode != 0 {
		return "", &CommandError{
			Binary:   c.binary,
			Args:     args,
			ExitCode: res.ExitCode,
			Stdout:   res.Stdout,
			Stderr:   res.Stderr,
		}
	}

	return CleanOutput(res.Stdout), nil
}

// Version runs `--version`
func (c *Client) Version(ctx context.Context) (string, error) {
	return c.run(ctx, "--version")
}

// Status runs `status`
func (c *Client) Status(ctx context.Context) (string, error) {
	return c.run(ctx, "status")
}

// QuickConnect runs `connect` and lets the client pick the recommended server
func (c *Client) QuickConnect(ctx context.Context) (string, error) {
	return c.run(ctx, "connect")
}

// Connect runs `connect <target>`. The target may be a country, a city or a
// server id; it is passed through unvalidated. An empty target falls back to
// QuickConnect.
func (c *Client) Connect(ctx context.Context, target string) (string, error) {
	if target == "" {
		return c.QuickConnect(ctx)
	}
	return c.run(ctx, "connect", target)
}

// ConnectGroup runs `connect --group <group>`
func (c *Client) ConnectGroup(ctx context.Context, group string) (string, error) {
	if !IsGroup(group) {
		return "", fmt.Errorf("unknown server group %q (expected one of %s)", group, strings.Join(groups, ", "))
	}
	return c.run(ctx, "connect", "--group", group)
}

// Disconnect runs `disconnect`
func (c *Client) Disconnect(ctx context.Context) (string, error) {
	return c.run(ctx, "disconnect")
}

// Countries runs `countries`
func (c *Client) Countries(ctx context.Context) (string, error) {
	return c.run(ctx, "countries")
}

// Cities runs `cities <country>`
func (c *Client) Cities(ctx context.Context, country string) (string, error) {
	return c.run(ctx, "cities", country)
}

// Settings runs `settings`
func (c *Client) Settings(ctx context.Context) (string, error) {
	return c.run(ctx, "settings")
}

// Logout runs `logout`
func (c *Client) Logout(ctx context.Context) (string, error) {
	return c.run(ctx, "logout")
}

// Login runs `login` attached to the terminal, the client prints a URL or opens a browser
func (c *Client) Login(ctx context.Context) error {
	if !c.installed {
		return ErrNotInstalled
	}

	args := []string{"login"}
	logger.Debug("Running VPN client attached", "binary", c.binary, "args", args)

	res, err := c.runner.RunAttached(ctx, c.binary, args...)
	if err != nil {
		return fmt.Errorf("can't run %s: %w", c.binary, err)
	}

	if res.ExitCode != 0 {
		return &CommandError{
			Binary:   c.binary,
			Args:     args,
			ExitCode: res.ExitCode,
			Stderr:   res.Stderr,
		}
	}

	return nil
}
