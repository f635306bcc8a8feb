/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2025 Dmitry Kireev
 */

package installer

import (
	"fmt"
	"strings"

	"gopkg.in/ini.v1"
)

// Families the vendor install script knows how to handle (apt or dnf/yum based)
var supportedFamilies = []string{"debian", "ubuntu", "fedora", "rhel", "centos"}

// Distro is the subset of os-release(5) used to warn about unsupported systems
type Distro struct {
	ID         string
	IDLike     []string
	PrettyName string
}

// DetectDistro reads an os-release file (KEY=value lines, optionally quoted)
func DetectDistro(path string) (Distro, error) {
	f, err := ini.Load(path)
	if err != nil {
		return Distro{}, fmt.Errorf("can't read %s: %w", path, err)
	}

	s := f.Section(ini.DefaultSection)

	return Distro{
		ID:         strings.ToLower(s.Key("ID").String()),
		IDLike:     strings.Fields(strings.ToLower(s.Key("ID_LIKE").String())),
		PrettyName: s.Key("PRETTY_NAME").String(),
	}, nil
}

// Supported reports whether the distribution or one of its parents is handled by the install script
func (d Distro) Supported() bool {
	for _, id := range append([]string{d.ID}, d.IDLike...) {
		for _, f := range supportedFamilies {
			if id == f {
				return true
			}
		}
	}
	return false
}

func (d Distro) String() string {
	if d.PrettyName != "" {
		return d.PrettyName
	}
	return d.ID
}
