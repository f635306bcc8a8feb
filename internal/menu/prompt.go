/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2025 Dmitry Kireev
 */

package menu

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/pterm/pterm"
)

var (
	// ErrInterrupted is returned by a Prompter when the user pressed Ctrl+C
	ErrInterrupted = errors.New("interrupted")
	// ErrEndOfInput is returned by a Prompter when input is exhausted
	ErrEndOfInput = errors.New("end of input")
)

// Prompter reads one line of free text from the user
type Prompter interface {
	Input(message string) (string, error)
}

// SurveyPrompter prompts on an interactive terminal
type SurveyPrompter struct{}

func (SurveyPrompter) Input(message string) (string, error) {
	var answer string

	err := survey.AskOne(&survey.Input{Message: message}, &answer)
	switch {
	case errors.Is(err, terminal.InterruptErr):
		return "", ErrInterrupted
	case errors.Is(err, io.EOF):
		return "", ErrEndOfInput
	case err != nil:
		return "", err
	}

	return strings.TrimSpace(answer), nil
}

// LinePrompter reads answers line by line, for piped input and dumb terminals
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

func (p *LinePrompter) Input(message string) (string, error) {
	pterm.Fprint(p.out, pterm.FgGreen.Sprint(message)+" ")

	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			// A final line without a newline still counts
			if line = strings.TrimSpace(line); line != "" {
				return line, nil
			}
			return "", ErrEndOfInput
		}
		return "", err
	}

	return strings.TrimSpace(line), nil
}

type contextPrompter struct {
	ctx context.Context
	p   Prompter
}

// WithContext makes a blocking Prompter give up with ErrInterrupted once ctx
// is cancelled. The abandoned read is left behind, so only use it where the
// process exits afterwards.
func WithContext(ctx context.Context, p Prompter) Prompter {
	return &contextPrompter{ctx: ctx, p: p}
}

type answer struct {
	text string
	err  error
}

func (c *contextPrompter) Input(message string) (string, error) {
	if c.ctx.Err() != nil {
		return "", ErrInterrupted
	}

	done := make(chan answer, 1)
	go func() {
		text, err := c.p.Input(message)
		done <- answer{text: text, err: err}
	}()

	select {
	case a := <-done:
		return a.text, a.err
	case <-c.ctx.Done():
		return "", ErrInterrupted
	}
}
