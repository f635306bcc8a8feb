/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2025 Dmitry Kireev
 */

// Package ipinfo looks up the public address of this machine and where it
// appears to be located, using an IP echo service followed by a geolocation
// service.
package ipinfo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/DimmKirr/nordterm/internal/logger"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Placeholder stands in for fields the geolocation service did not return
const Placeholder = "N/A"

const maxBodySize = 1 << 20

// Info is the result of one lookup
type Info struct {
	IP      string `json:"ip"`
	Country string `json:"country"`
	City    string `json:"city"`
	ISP     string `json:"isp"`
}

// Fetcher performs the two sequential GET calls. Each call has its own timeout.
type Fetcher struct {
	client  *http.Client
	echoURL string
	geoURL  string
	timeout time.Duration
}

func NewFetcher(echoURL, geoURL string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		echoURL: echoURL,
		geoURL:  strings.TrimRight(geoURL, "/"),
		timeout: timeout,
	}
}

// Lookup returns the public IP and its location. On any failure it returns
// the zero Info, never a partially filled one.
func (f *Fetcher) Lookup(ctx context.Context) (Info, error) {
	echo, err := f.getJSON(ctx, f.echoURL)
	if err != nil {
		return Info{}, fmt.Errorf("can't get public IP: %w", err)
	}

	ip := pickString(echo, "ip")
	if ip == "" {
		return Info{}, errors.New("can't get public IP: empty ip field")
	}

	geo, err := f.getJSON(ctx, f.geoURL+"/"+url.PathEscape(ip))
	if err != nil {
		return Info{}, fmt.Errorf("can't get location of %s: %w", ip, err)
	}

	// ip-api answers 200 with status=fail for reserved ranges
	if status := pickString(geo, "status"); status == "fail" {
		msg := pickString(geo, "message")
		if msg == "" {
			msg = "lookup failed"
		}
		return Info{}, fmt.Errorf("can't get location of %s: %s", ip, msg)
	}

	return Info{
		IP:      ip,
		Country: orPlaceholder(pickString(geo, "country")),
		City:    orPlaceholder(pickString(geo, "city")),
		ISP:     orPlaceholder(pickString(geo, "isp")),
	}, nil
}

func (f *Fetcher) getJSON(ctx context.Context, u string) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	logger.Debug("HTTP GET", "url", u)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("http status %d", resp.StatusCode)
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("malformed response: %w", err)
	}
	if raw == nil {
		return nil, errors.New("malformed response: not a JSON object")
	}

	return raw, nil
}

func pickString(m map[string]any, key string) string {
	switch t := m[key].(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return fmt.Sprintf("%.0f", t)
	default:
		return ""
	}
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}
