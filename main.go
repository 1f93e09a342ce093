// SPDX-License-Identifier: AGPL-3.0-or-later
// MIP - bulk IPM file transfer bridge to a Mastercard Interface Processor
// Copyright (C) 2026 Diego Noriega Vela
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/DiegoNoriegaVela/MIP/cmd"
)

// version and commit are set at build time via -ldflags, mirroring the
// teacher's sdk.Version/GitCommit pair.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	os.Exit(run())
}

// run maps the §7 error taxonomy onto §6's exit codes: 0 success, 2 a
// *cmd.UsageError, 1 anything else.
func run() int {
	root := cmd.NewCommand(version, commit)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "mip:", err)
		var usageErr *cmd.UsageError
		if errors.As(err, &usageErr) {
			return 2
		}
		return 1
	}
	return 0
}
