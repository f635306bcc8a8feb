/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2025 Dmitry Kireev
 */

package main

import "github.com/DimmKirr/nordterm/cmd"

func main() {
	cmd.Execute()
}
