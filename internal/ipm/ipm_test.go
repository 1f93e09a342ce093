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

package ipm_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/DiegoNoriegaVela/MIP/internal/block"
	"github.com/DiegoNoriegaVela/MIP/internal/ipm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeOneRecordScenario(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "in.txt")
	outputPath := filepath.Join(dir, "out.ipm")

	require.NoError(t, os.WriteFile(inputPath, []byte("ABC\n"), 0o644))
	require.NoError(t, ipm.Encode(inputPath, outputPath, nil))

	out, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	require.Len(t, out, block.Size)

	want := []byte{0x00, 0x00, 0x00, 0x07, 0xC1, 0xC2, 0xC3, 0x00, 0x00, 0x00, 0x00}
	want = append(want, bytes.Repeat([]byte{0x40}, block.PayloadSize-len(want))...)
	want = append(want, 0x40, 0x40)
	assert.Equal(t, want, out)
}

func TestDecodeOneRecordScenario(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	ipmPath := filepath.Join(dir, "in.ipm")
	outputPath := filepath.Join(dir, "out.txt")

	payload := []byte{0x00, 0x00, 0x00, 0x07, 0xC1, 0xC2, 0xC3, 0x00, 0x00, 0x00, 0x00}
	payload = append(payload, bytes.Repeat([]byte{0x40}, block.PayloadSize-len(payload))...)
	payload = append(payload, 0x40, 0x40)
	require.NoError(t, os.WriteFile(ipmPath, payload, 0o644))

	require.NoError(t, ipm.Decode(ipmPath, outputPath, nil))

	text, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, "ABC\n", string(text))
}

func TestRoundTripTextPreservesLines(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "in.txt")
	ipmPath := filepath.Join(dir, "mid.ipm")
	outputPath := filepath.Join(dir, "out.txt")

	original := "FIRST RECORD\nSECOND RECORD WITH SPACES\nTHIRD\n"
	require.NoError(t, os.WriteFile(inputPath, []byte(original), 0o644))

	require.NoError(t, ipm.Encode(inputPath, ipmPath, nil))
	require.NoError(t, ipm.Decode(ipmPath, outputPath, nil))

	got, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, original, string(got))
}

func TestEncodeSkipsEmptyLines(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "in.txt")
	ipmPath := filepath.Join(dir, "mid.ipm")
	outputPath := filepath.Join(dir, "out.txt")

	require.NoError(t, os.WriteFile(inputPath, []byte("ONE\n\nTWO\n\n\nTHREE\n"), 0o644))
	require.NoError(t, ipm.Encode(inputPath, ipmPath, nil))
	require.NoError(t, ipm.Decode(ipmPath, outputPath, nil))

	got, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, "ONE\nTWO\nTHREE\n", string(got))
}

func TestDecodeFallsBackWhenNotBlockAligned(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	ipmPath := filepath.Join(dir, "in.ipm")
	outputPath := filepath.Join(dir, "out.txt")

	// A raw, unblocked VBS stream whose length is not a multiple of
	// block.Size must be treated as already-unblocked.
	vbsBytes := []byte{0x00, 0x00, 0x00, 0x03, 0xC1, 0xC2, 0xC3, 0x00, 0x00, 0x00, 0x00}
	require.NoError(t, os.WriteFile(ipmPath, vbsBytes, 0o644))

	require.NoError(t, ipm.Decode(ipmPath, outputPath, nil))
	got, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, "ABC\n", string(got))
}
