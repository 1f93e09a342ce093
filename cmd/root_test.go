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

package cmd

import (
	"errors"
	"testing"

	"github.com/DiegoNoriegaVela/MIP/internal/txid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCommandRegistersSubcommands(t *testing.T) {
	t.Parallel()
	root := NewCommand("test", "abc123")

	names := []string{}
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"encode", "decode", "send", "receive"}, names)
}

func TestEncodeCommandRequiresFlags(t *testing.T) {
	t.Parallel()
	root := NewCommand("test", "abc123")
	root.SetArgs([]string{"encode"})
	err := root.Execute()
	require.Error(t, err)
	var usageErr *UsageError
	assert.True(t, errors.As(err, &usageErr))
}

func TestDecodeCommandRequiresFlags(t *testing.T) {
	t.Parallel()
	root := NewCommand("test", "abc123")
	root.SetArgs([]string{"decode", "--input", "in.ipm"})
	err := root.Execute()
	require.Error(t, err)
	var usageErr *UsageError
	assert.True(t, errors.As(err, &usageErr))
}

func TestTransferFlagsValidateRejectsMissingIP(t *testing.T) {
	t.Parallel()
	f := &transferFlags{port: 3389, file: "x.ipm", ipmname: "R1011234500101", encoding: "ASCII"}
	_, err := f.validate(txid.Send)
	require.Error(t, err)
	var usageErr *UsageError
	assert.True(t, errors.As(err, &usageErr))
}

func TestTransferFlagsValidateRejectsBadEncoding(t *testing.T) {
	t.Parallel()
	f := &transferFlags{ip: "127.0.0.1", port: 3389, file: "x.ipm", ipmname: "R1011234500101", encoding: "UTF8"}
	_, err := f.validate(txid.Send)
	require.Error(t, err)
}

func TestTransferFlagsValidateRejectsBadTxID(t *testing.T) {
	t.Parallel()
	f := &transferFlags{ip: "127.0.0.1", port: 3389, file: "x.ipm", ipmname: "bad", encoding: "ASCII"}
	_, err := f.validate(txid.Send)
	require.Error(t, err)
	var usageErr *UsageError
	assert.True(t, errors.As(err, &usageErr))
}

func TestTransferFlagsValidateAcceptsShortForm(t *testing.T) {
	t.Parallel()
	f := &transferFlags{ip: "127.0.0.1", port: 3389, file: "x.ipm", ipmname: "R101EEEEE", encoding: "ASCII"}
	id, err := f.validate(txid.Send)
	require.NoError(t, err)
	assert.Equal(t, txid.Send, id.Direction)
	assert.Equal(t, "01", id.Seq)
}
