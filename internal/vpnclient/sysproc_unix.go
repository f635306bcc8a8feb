//go:build !windows
// +build !windows

/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2025 Dmitry Kireev
 */

package vpnclient

import (
	"os/exec"
	"syscall"
)

// setupSysProcAttr moves the child into its own process group so a Ctrl+C
// aimed at the menu does not reach an in-flight client call
func setupSysProcAttr(c *exec.Cmd) {
	c.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
}
