/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2025 Dmitry Kireev
 */

// Package vpnclienttest provides a scripted vpnclient.Runner for tests.
package vpnclienttest

import (
	"context"
	"strings"
	"sync"

	"github.com/DimmKirr/nordterm/internal/vpnclient"
)

// Call is one recorded invocation
type Call struct {
	Name     string
	Args     []string
	Attached bool
}

// Line is the argv joined with spaces, handy for assertions
func (c Call) Line() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Runner records every call and answers from Responses, keyed by the
// space-joined argument list ("connect --group p2p"). Unknown keys succeed
// with empty output.
type Runner struct {
	mu        sync.Mutex
	Responses map[string]vpnclient.Result
	Errors    map[string]error
	Calls     []Call
}

func NewRunner() *Runner {
	return &Runner{
		Responses: map[string]vpnclient.Result{},
		Errors:    map[string]error{},
	}
}

// On registers the result for an argument list
func (r *Runner) On(args string, res vpnclient.Result) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Responses[args] = res
	return r
}

// Fail makes an argument list fail to start
func (r *Runner) Fail(args string, err error) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errors[args] = err
	return r
}

func (r *Runner) Run(_ context.Context, name string, args ...string) (vpnclient.Result, error) {
	return r.record(Call{Name: name, Args: args})
}

func (r *Runner) RunAttached(_ context.Context, name string, args ...string) (vpnclient.Result, error) {
	return r.record(Call{Name: name, Args: args, Attached: true})
}

func (r *Runner) record(c Call) (vpnclient.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Calls = append(r.Calls, c)

	key := strings.Join(c.Args, " ")
	if err, ok := r.Errors[key]; ok {
		return vpnclient.Result{}, err
	}
	return r.Responses[key], nil
}

// Lines returns the recorded calls as joined argv strings
func (r *Runner) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	lines := make([]string, 0, len(r.Calls))
	for _, c := range r.Calls {
		lines = append(lines, c.Line())
	}
	return lines
}

// Reset forgets the recorded calls
func (r *Runner) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = nil
}
