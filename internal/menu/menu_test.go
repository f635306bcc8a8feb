/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2025 Dmitry Kireev
 */

package menu

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DimmKirr/nordterm/internal/ipinfo"
	"github.com/DimmKirr/nordterm/internal/logger"
	"github.com/DimmKirr/nordterm/internal/vpnclient"
	"github.com/DimmKirr/nordterm/internal/vpnclient/vpnclienttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Initialize("error", true)
	os.Exit(m.Run())
}

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

type fakeLookup struct {
	info  ipinfo.Info
	err   error
	panic string
	calls int
}

func (f *fakeLookup) Lookup(context.Context) (ipinfo.Info, error) {
	f.calls++
	if f.panic != "" {
		panic(f.panic)
	}
	return f.info, f.err
}

type fakeInstaller struct {
	err   error
	calls int
}

func (f *fakeInstaller) Install(context.Context) error {
	f.calls++
	return f.err
}

type interruptPrompter struct{}

func (interruptPrompter) Input(string) (string, error) {
	return "", ErrInterrupted
}

type harness struct {
	menu      *Menu
	runner    *vpnclienttest.Runner
	lookup    *fakeLookup
	installer *fakeInstaller
	out       *bytes.Buffer
}

func newHarness(t *testing.T, installed bool, input string) *harness {
	t.Helper()

	h := &harness{
		runner:    vpnclienttest.NewRunner(),
		lookup:    &fakeLookup{},
		installer: &fakeInstaller{},
		out:       &bytes.Buffer{},
	}

	h.menu = New(Options{
		Client:           vpnclient.New(h.runner, "nordvpn", installed),
		Installer:        h.installer,
		IPLookup:         h.lookup,
		Prompter:         NewLinePrompter(strings.NewReader(input), h.out),
		Out:              h.out,
		Plain:            true,
		ManualInstallURL: "https://nordvpn.com/download/linux/",
	})

	return h
}

func (h *harness) output() string {
	return ansi.ReplaceAllString(h.out.String(), "")
}

func TestDispatchInvalidChoice(t *testing.T) {
	for _, choice := range []string{"14", "-1", "abc", "", "1 2", "00", "100"} {
		t.Run(fmt.Sprintf("%q", choice), func(t *testing.T) {
			h := newHarness(t, true, "")

			quit := h.menu.Dispatch(context.Background(), choice)

			assert.False(t, quit)
			assert.Contains(t, h.output(), "Invalid choice")
			assert.Empty(t, h.runner.Calls)
			assert.Zero(t, h.lookup.calls)
			assert.Zero(t, h.installer.calls)
		})
	}
}

func TestDispatchQuit(t *testing.T) {
	h := newHarness(t, true, "")
	assert.True(t, h.menu.Dispatch(context.Background(), "0"))
	assert.True(t, h.menu.Dispatch(context.Background(), " 0 "))
	assert.Empty(t, h.runner.Calls)
}

func TestDispatchNotInstalled(t *testing.T) {
	for _, choice := range []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "12", "13"} {
		t.Run(choice, func(t *testing.T) {
			// Answers are provided so a missing gate would reach the runner
			h := newHarness(t, false, "Germany\nBerlin\n1\n")

			quit := h.menu.Dispatch(context.Background(), choice)

			assert.False(t, quit)
			assert.Contains(t, h.output(), "NordVPN is not installed")
			assert.Empty(t, h.runner.Calls)
		})
	}
}

func TestDispatchWithoutClientStillAvailable(t *testing.T) {
	h := newHarness(t, false, "")
	h.lookup.info = ipinfo.Info{IP: "1.2.3.4", Country: "DE", City: "Berlin", ISP: "ACME"}

	h.menu.Dispatch(context.Background(), "11")
	assert.Equal(t, 1, h.lookup.calls)

	h.menu.Dispatch(context.Background(), "1")
	assert.Equal(t, 1, h.installer.calls)

	assert.NotContains(t, h.output(), "not installed")
}

func TestDispatchArgv(t *testing.T) {
	tests := []struct {
		name   string
		choice string
		input  string
		want   []string
	}{
		{"login", "2", "", []string{"nordvpn login"}},
		{"logout", "3", "", []string{"nordvpn logout"}},
		{"quick connect", "4", "", []string{"nordvpn connect"}},
		{"country", "5", "Germany\n", []string{"nordvpn countries", "nordvpn connect Germany"}},
		{"country empty", "5", "\n", []string{"nordvpn countries"}},
		{"server", "6", "de123\n", []string{"nordvpn connect de123"}},
		{"server empty", "6", "\n", nil},
		{"city", "7", "Germany\nBerlin\n", []string{"nordvpn cities Germany", "nordvpn connect Berlin"}},
		{"city empty country", "7", "\n", nil},
		{"city empty city", "7", "Germany\n\n", []string{"nordvpn cities Germany"}},
		{"specialty p2p", "8", "1\n", []string{"nordvpn connect --group p2p"}},
		{"specialty onion", "8", "2\n", []string{"nordvpn connect --group onion_over_vpn"}},
		{"specialty double", "8", "3\n", []string{"nordvpn connect --group double_vpn"}},
		{"specialty unknown", "8", "4\n", nil},
		{"specialty text", "8", "p2p\n", nil},
		{"disconnect", "9", "", []string{"nordvpn disconnect"}},
		{"status", "10", "", []string{"nordvpn status"}},
		{"countries", "12", "", []string{"nordvpn countries"}},
		{"settings", "13", "", []string{"nordvpn settings"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, true, tt.input)

			quit := h.menu.Dispatch(context.Background(), tt.choice)

			assert.False(t, quit)
			if tt.want == nil {
				assert.Empty(t, h.runner.Calls)
			} else {
				assert.Equal(t, tt.want, h.runner.Lines())
			}
		})
	}
}

func TestDispatchLoginIsAttached(t *testing.T) {
	h := newHarness(t, true, "")
	h.menu.Dispatch(context.Background(), "2")

	require.Len(t, h.runner.Calls, 1)
	assert.True(t, h.runner.Calls[0].Attached)
}

func TestDispatchReportsClientFailure(t *testing.T) {
	tests := []struct {
		name   string
		choice string
		input  string
		args   string
	}{
		{"quick connect", "4", "", "connect"},
		{"country", "5", "Germany\n", "connect Germany"},
		{"server", "6", "de123\n", "connect de123"},
		{"city", "7", "Germany\nBerlin\n", "connect Berlin"},
		{"specialty", "8", "2\n", "connect --group onion_over_vpn"},
		{"disconnect", "9", "", "disconnect"},
		{"status", "10", "", "status"},
		{"countries", "12", "", "countries"},
		{"settings", "13", "", "settings"},
		{"logout", "3", "", "logout"},
		{"login", "2", "", "login"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, true, tt.input)
			h.runner.On(tt.args, vpnclient.Result{ExitCode: 1, Stderr: "X-client-failure\n"})

			quit := h.menu.Dispatch(context.Background(), tt.choice)

			assert.False(t, quit)
			assert.Contains(t, h.output(), "X-client-failure")

			// Exactly one attempt at the failing call
			count := 0
			for _, line := range h.runner.Lines() {
				if line == "nordvpn "+tt.args {
					count++
				}
			}
			assert.Equal(t, 1, count)
		})
	}
}

func TestDispatchPrintsClientOutput(t *testing.T) {
	h := newHarness(t, true, "")
	h.runner.On("status", vpnclient.Result{Stdout: "\r-\r  \rStatus: Connected\nHostname: de512.nordvpn.com\n"})

	h.menu.Dispatch(context.Background(), "10")

	out := h.output()
	assert.Contains(t, out, "NordVPN Status")
	assert.Contains(t, out, "Status: Connected\nHostname: de512.nordvpn.com")
}

func TestDispatchCountryListingFailureStillPrompts(t *testing.T) {
	h := newHarness(t, true, "Germany\n")
	h.runner.On("countries", vpnclient.Result{ExitCode: 1, Stderr: "list unavailable"})

	h.menu.Dispatch(context.Background(), "5")

	assert.Contains(t, h.output(), "list unavailable")
	assert.Equal(t, []string{"nordvpn countries", "nordvpn connect Germany"}, h.runner.Lines())
}

func TestDispatchIPInfo(t *testing.T) {
	h := newHarness(t, true, "")
	h.lookup.info = ipinfo.Info{IP: "1.2.3.4", Country: "DE", City: "Berlin", ISP: "ACME"}

	h.menu.Dispatch(context.Background(), "11")

	out := h.output()
	assert.Contains(t, out, "External IP: 1.2.3.4\n")
	assert.Contains(t, out, "Country: DE\n")
	assert.Contains(t, out, "City: Berlin\n")
	assert.Contains(t, out, "ISP: ACME\n")
	assert.Empty(t, h.runner.Calls)
}

func TestDispatchIPInfoWithServers(t *testing.T) {
	echo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ip":"1.2.3.4"}`)
	}))
	defer echo.Close()
	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"country":"DE","city":"Berlin","isp":"ACME"}`)
	}))
	defer geo.Close()

	h := newHarness(t, true, "")
	h.menu.lookup = ipinfo.NewFetcher(echo.URL, geo.URL+"/json", time.Second)

	h.menu.Dispatch(context.Background(), "11")

	out := h.output()
	assert.Contains(t, out, "External IP: 1.2.3.4")
	assert.Contains(t, out, "Country: DE")
	assert.Contains(t, out, "City: Berlin")
	assert.Contains(t, out, "ISP: ACME")
}

func TestDispatchIPInfoTimeout(t *testing.T) {
	hang := func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}
	ok := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, body) }
	}

	tests := []struct {
		name string
		echo http.HandlerFunc
		geo  http.HandlerFunc
	}{
		{"echo", hang, ok(`{"country":"DE","city":"Berlin","isp":"ACME"}`)},
		{"geo", ok(`{"ip":"1.2.3.4"}`), hang},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			echo := httptest.NewServer(tt.echo)
			defer echo.Close()
			geo := httptest.NewServer(tt.geo)
			defer geo.Close()

			h := newHarness(t, true, "")
			h.menu.lookup = ipinfo.NewFetcher(echo.URL, geo.URL+"/json", 100*time.Millisecond)

			quit := h.menu.Dispatch(context.Background(), "11")

			out := h.output()
			assert.False(t, quit)
			assert.Contains(t, out, "can't fetch IP information")
			assert.NotContains(t, out, "Country:")
			assert.NotContains(t, out, "City:")
			assert.NotContains(t, out, "ISP:")
		})
	}
}

func TestDispatchInstall(t *testing.T) {
	h := newHarness(t, false, "")
	probed := vpnclienttest.NewRunner()
	h.menu.detect = func(context.Context) *vpnclient.Client {
		return vpnclient.New(probed, "nordvpn", true)
	}

	h.menu.Dispatch(context.Background(), "1")

	assert.Equal(t, 1, h.installer.calls)
	assert.True(t, h.menu.Installed())
	assert.Contains(t, h.output(), "NordVPN installed successfully")

	// The fresh client is used from now on
	h.menu.Dispatch(context.Background(), "10")
	assert.Equal(t, []string{"nordvpn status"}, probed.Lines())
}

func TestDispatchInstallFailure(t *testing.T) {
	h := newHarness(t, false, "")
	h.installer.err = errors.New("installation failed: curl: (6) Could not resolve host")
	detected := 0
	h.menu.detect = func(context.Context) *vpnclient.Client {
		detected++
		return vpnclient.New(h.runner, "nordvpn", false)
	}

	quit := h.menu.Dispatch(context.Background(), "1")

	out := h.output()
	assert.False(t, quit)
	assert.Contains(t, out, "Could not resolve host")
	assert.Contains(t, out, "https://nordvpn.com/download/linux/")
	assert.Equal(t, 1, h.installer.calls)
	assert.Equal(t, 1, detected)
	assert.False(t, h.menu.Installed())
}

func TestDispatchRecoversFromPanic(t *testing.T) {
	h := newHarness(t, true, "")
	h.lookup.panic = "boom"

	quit := h.menu.Dispatch(context.Background(), "11")

	assert.False(t, quit)
	assert.Contains(t, h.output(), "boom")
}

func TestDispatchSubPromptEndOfInputQuits(t *testing.T) {
	h := newHarness(t, true, "")
	assert.True(t, h.menu.Dispatch(context.Background(), "6"))
	assert.Empty(t, h.runner.Calls)
}

func TestRun(t *testing.T) {
	h := newHarness(t, true, "10\n\n0\n")
	h.runner.On("--version", vpnclient.Result{Stdout: "NordVPN Version 3.17.4"})

	require.NoError(t, h.menu.Run(context.Background()))

	out := h.output()
	assert.Equal(t, []string{"nordvpn status"}, h.runner.Lines())
	assert.Contains(t, out, "Main Menu")
	assert.Contains(t, out, "13)  Show settings")
	assert.Contains(t, out, "Goodbye!")
	assert.NotContains(t, out, "not installed")
}

func TestRunInvalidChoiceReturnsToMenu(t *testing.T) {
	h := newHarness(t, true, "42\n\n0\n")

	require.NoError(t, h.menu.Run(context.Background()))

	out := h.output()
	assert.Contains(t, out, "Invalid choice")
	assert.Equal(t, 2, strings.Count(out, "Main Menu"))
	assert.Empty(t, h.runner.Calls)
}

func TestRunContinuesAfterFailure(t *testing.T) {
	h := newHarness(t, true, "9\n\n10\n\n0\n")
	h.runner.On("disconnect", vpnclient.Result{ExitCode: 1, Stderr: "You are not connected to NordVPN."})

	require.NoError(t, h.menu.Run(context.Background()))

	assert.Equal(t, []string{"nordvpn disconnect", "nordvpn status"}, h.runner.Lines())
	assert.Contains(t, h.output(), "You are not connected to NordVPN.")
}

func TestRunContinuesAfterPanic(t *testing.T) {
	h := newHarness(t, true, "11\n\n0\n")
	h.lookup.panic = "boom"

	require.NoError(t, h.menu.Run(context.Background()))

	out := h.output()
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "Goodbye!")
}

func TestRunWarnsWhenNotInstalled(t *testing.T) {
	h := newHarness(t, false, "0\n")

	require.NoError(t, h.menu.Run(context.Background()))

	out := h.output()
	assert.Contains(t, out, "NordVPN is not installed!")
	assert.Contains(t, out, "Choose option 1")
}

func TestRunEndOfInput(t *testing.T) {
	h := newHarness(t, true, "")

	require.NoError(t, h.menu.Run(context.Background()))
	assert.Contains(t, h.output(), "Goodbye!")
}

func TestRunInterrupted(t *testing.T) {
	h := newHarness(t, true, "")
	h.menu.prompt = interruptPrompter{}

	require.NoError(t, h.menu.Run(context.Background()))
	assert.Contains(t, h.output(), "Goodbye!")
	assert.Empty(t, h.runner.Calls)
}

func TestRunCancelledContext(t *testing.T) {
	h := newHarness(t, true, "10\n\n0\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, h.menu.Run(ctx))
	assert.Empty(t, h.runner.Calls)
	assert.NotContains(t, h.output(), "Main Menu")
}

func TestDispatchDetachesActionFromCancellation(t *testing.T) {
	h := newHarness(t, true, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var seen error
	h.menu.lookup = lookupFunc(func(ctx context.Context) (ipinfo.Info, error) {
		seen = ctx.Err()
		return ipinfo.Info{IP: "1.2.3.4", Country: "DE", City: "Berlin", ISP: "ACME"}, nil
	})

	h.menu.Dispatch(ctx, "11")
	assert.NoError(t, seen)
}

type lookupFunc func(ctx context.Context) (ipinfo.Info, error)

func (f lookupFunc) Lookup(ctx context.Context) (ipinfo.Info, error) {
	return f(ctx)
}

func TestSpecialtyGroup(t *testing.T) {
	tests := []struct {
		choice string
		group  string
		ok     bool
	}{
		{"1", "p2p", true},
		{"2", "onion_over_vpn", true},
		{"3", "double_vpn", true},
		{"0", "", false},
		{"4", "", false},
		{"", "", false},
		{"p2p", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.choice, func(t *testing.T) {
			group, ok := SpecialtyGroup(tt.choice)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.group, group)
		})
	}
}

func TestLinePrompter(t *testing.T) {
	var out bytes.Buffer
	p := NewLinePrompter(strings.NewReader("  Germany \nlast"), &out)

	answer, err := p.Input("Country:")
	require.NoError(t, err)
	assert.Equal(t, "Germany", answer)

	answer, err = p.Input("City:")
	require.NoError(t, err)
	assert.Equal(t, "last", answer)

	_, err = p.Input("More:")
	assert.ErrorIs(t, err, ErrEndOfInput)

	assert.Contains(t, ansi.ReplaceAllString(out.String(), ""), "Country:")
}

type blockingPrompter struct{}

func (blockingPrompter) Input(string) (string, error) {
	select {}
}

func TestWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	p := WithContext(ctx, NewLinePrompter(strings.NewReader("5\n"), io.Discard))
	answer, err := p.Input("Choice:")
	require.NoError(t, err)
	assert.Equal(t, "5", answer)

	blocked := WithContext(ctx, blockingPrompter{})
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err = blocked.Input("Choice:")
	assert.ErrorIs(t, err, ErrInterrupted)

	_, err = p.Input("Choice:")
	assert.ErrorIs(t, err, ErrInterrupted)
}

type scriptedAnswer struct {
	text string
	err  error
}

// scriptedPrompter replays answers in order, then reports end of input
type scriptedPrompter struct {
	answers  []scriptedAnswer
	messages []string
}

func (s *scriptedPrompter) Input(message string) (string, error) {
	s.messages = append(s.messages, message)
	if len(s.answers) == 0 {
		return "", ErrEndOfInput
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a.text, a.err
}

func TestRunContinuesAfterPromptError(t *testing.T) {
	h := newHarness(t, true, "")
	h.menu.prompt = &scriptedPrompter{answers: []scriptedAnswer{
		{err: errors.New("transient terminal error")},
		{text: "10"},
		{text: ""},
		{text: "0"},
	}}

	require.NoError(t, h.menu.Run(context.Background()))

	out := h.output()
	assert.Contains(t, out, "transient terminal error")
	assert.Equal(t, []string{"nordvpn status"}, h.runner.Lines())
	assert.Contains(t, out, "Goodbye!")
}

func TestRunStopsAfterRepeatedPromptErrors(t *testing.T) {
	h := newHarness(t, true, "")
	broken := errors.New("terminal gone")
	answers := make([]scriptedAnswer, 0, maxPromptFailures+1)
	for i := 0; i <= maxPromptFailures; i++ {
		answers = append(answers, scriptedAnswer{err: broken})
	}
	p := &scriptedPrompter{answers: answers}
	h.menu.prompt = p

	err := h.menu.Run(context.Background())

	assert.ErrorIs(t, err, broken)
	assert.Len(t, p.messages, maxPromptFailures)
	assert.Empty(t, h.runner.Calls)
}

func TestRunFailureCounterResetsOnSuccess(t *testing.T) {
	h := newHarness(t, true, "")
	broken := errors.New("flaky terminal")

	var answers []scriptedAnswer
	for i := 0; i < maxPromptFailures-1; i++ {
		answers = append(answers, scriptedAnswer{err: broken})
	}
	answers = append(answers, scriptedAnswer{text: "10"}, scriptedAnswer{text: ""})
	for i := 0; i < maxPromptFailures-1; i++ {
		answers = append(answers, scriptedAnswer{err: broken})
	}
	answers = append(answers, scriptedAnswer{text: "0"})
	h.menu.prompt = &scriptedPrompter{answers: answers}

	require.NoError(t, h.menu.Run(context.Background()))
	assert.Equal(t, []string{"nordvpn status"}, h.runner.Lines())
}

func TestRunSkipsAcknowledgmentAfterInterrupt(t *testing.T) {
	h := newHarness(t, true, "")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h.menu.lookup = lookupFunc(func(context.Context) (ipinfo.Info, error) {
		// Ctrl+C while the lookup is in flight
		cancel()
		return ipinfo.Info{IP: "1.2.3.4", Country: "DE", City: "Berlin", ISP: "ACME"}, nil
	})
	p := &scriptedPrompter{answers: []scriptedAnswer{{text: "11"}, {text: ""}, {text: "0"}}}
	h.menu.prompt = p

	require.NoError(t, h.menu.Run(ctx))

	out := h.output()
	assert.Contains(t, out, "External IP: 1.2.3.4")
	assert.Contains(t, out, "Goodbye!")
	assert.Equal(t, []string{"Choice:"}, p.messages)
}
