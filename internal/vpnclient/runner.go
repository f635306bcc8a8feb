/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2025 Dmitry Kireev
 */

package vpnclient

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
)

// Result holds what a finished process left behind
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner starts external processes. A non-zero exit is reported through
// Result.ExitCode; the error is reserved for processes that could not run at all.
type Runner interface {
	// Run captures stdout and stderr separately
	Run(ctx context.Context, name string, args ...string) (Result, error)
	// RunAttached hands the terminal to the process (prompts, browser hand-off)
	// and still records stderr
	RunAttached(ctx context.Context, name string, args ...string) (Result, error)
}

// ExecRunner is the os/exec backed Runner
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	var stdout, stderr bytes.Buffer

	c := exec.CommandContext(ctx, name, args...)
	c.Stdout = &stdout
	c.Stderr = &stderr
	setupSysProcAttr(c)

	err := c.Run()
	return result(stdout.String(), stderr.String(), err)
}

func (ExecRunner) RunAttached(ctx context.Context, name string, args ...string) (Result, error) {
	var stderr bytes.Buffer

	// Stays in the foreground process group, otherwise reading the terminal stops it
	c := exec.CommandContext(ctx, name, args...)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = io.MultiWriter(os.Stderr, &stderr)

	err := c.Run()
	return result("", stderr.String(), err)
}

func result(stdout, stderr string, err error) (Result, error) {
	res := Result{Stdout: stdout, Stderr: stderr}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}

	return res, err
}
