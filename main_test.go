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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunExitCodesMapExactlyToSection6(t *testing.T) {
	t.Parallel()

	t.Run("missing required flags is a usage error, exit 2", func(t *testing.T) {
		withArgs(t, []string{"mip", "encode"}, func() {
			assert.Equal(t, 2, run())
		})
	})

	t.Run("unrecognized subcommand is exit 1 from cobra", func(t *testing.T) {
		withArgs(t, []string{"mip", "bogus"}, func() {
			assert.Equal(t, 1, run())
		})
	})

	t.Run("a well-formed encode/decode round trip exits 0", func(t *testing.T) {
		dir := t.TempDir()
		textPath := filepath.Join(dir, "in.txt")
		ipmPath := filepath.Join(dir, "mid.ipm")
		require := func(err error) {
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		require(os.WriteFile(textPath, []byte("HELLO MIP\n"), 0o644))

		withArgs(t, []string{"mip", "encode", "--input", textPath, "--output", ipmPath}, func() {
			assert.Equal(t, 0, run())
		})
	})
}

// withArgs temporarily swaps os.Args for the duration of fn, restoring it
// afterward; cobra's Execute reads os.Args when no args were set via
// SetArgs, the same way the real binary entrypoint does.
func withArgs(t *testing.T, args []string, fn func()) {
	t.Helper()
	old := os.Args
	os.Args = args
	defer func() { os.Args = old }()
	fn()
}
