/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2025 Dmitry Kireev
 */

package vpnclient

import (
	"sort"
	"strings"
	"unicode"
)

// CleanOutput drops the carriage-return spinner frames the client writes before
// its real output and trims surrounding whitespace
func CleanOutput(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")

	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		if i := strings.LastIndex(line, "\r"); i >= 0 {
			line = line[i+1:]
		}
		cleaned = append(cleaned, strings.TrimRight(line, " \t"))
	}

	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}

// KeyValue is one `Key: Value` line of `status` or `settings` output
type KeyValue struct {
	Key   string
	Value string
}

// ParseKeyValues splits `Key: Value` lines in order of appearance. Indented
// lines continue the previous key (the `Allowlisted ports:` block of
// `settings`), other lines without a colon become a key with no value.
func ParseKeyValues(output string) []KeyValue {
	var kvs []KeyValue

	for _, line := range strings.Split(CleanOutput(output), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if len(kvs) > 0 && (line[0] == ' ' || line[0] == '\t') {
			last := &kvs[len(kvs)-1]
			if last.Value == "" {
				last.Value = trimmed
			} else {
				last.Value += ", " + trimmed
			}
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			kvs = append(kvs, KeyValue{Key: trimmed})
			continue
		}

		kvs = append(kvs, KeyValue{Key: key, Value: strings.TrimSpace(value)})
	}

	return kvs
}

// ParseList splits the `countries` and `cities` listings into sorted names.
// Depending on the client version they are comma or whitespace separated;
// multi-word names are always joined with underscores.
func ParseList(output string) []string {
	fields := strings.FieldsFunc(CleanOutput(output), func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})

	names := make([]string, 0, len(fields))
	seen := map[string]bool{}
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		names = append(names, f)
	}

	sort.Strings(names)
	return names
}
