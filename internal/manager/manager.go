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

// Package manager composes the ipm converter with the frame/protocol
// transport into the four end-to-end operations the command surface
// exposes: send-binary, send-text, receive-binary, receive-text. It owns
// the lifecycle of any temporary IPM file it creates for text-mode
// transfers, deleting it on every exit path.
package manager

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/DiegoNoriegaVela/MIP/internal/ipm"
	"github.com/DiegoNoriegaVela/MIP/internal/metrics"
	"github.com/DiegoNoriegaVela/MIP/internal/protocol"
	"github.com/DiegoNoriegaVela/MIP/internal/txid"
)

// Manager holds the dependencies every composed operation needs: the MIP
// peer address, the optional metrics sink, and the logger passed down to
// the converter and protocol layers.
type Manager struct {
	Host    string
	Port    int
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

func (m *Manager) addr() string {
	return net.JoinHostPort(m.Host, strconv.Itoa(m.Port))
}

func (m *Manager) logger() *slog.Logger {
	if m.Logger == nil {
		return slog.Default()
	}
	return m.Logger
}

// Encode runs the converter's text-to-IPM encode directly (the
// composed manager's "encode" command).
func (m *Manager) Encode(inputTextPath, outputIPMPath string) error {
	return ipm.Encode(inputTextPath, outputIPMPath, m.logger())
}

// Decode runs the converter's IPM-to-text decode directly (the composed
// manager's "decode" command).
func (m *Manager) Decode(inputIPMPath, outputTextPath string) error {
	return ipm.Decode(inputIPMPath, outputTextPath, m.logger())
}

// SendBinary transmits filePath exactly as stored, with no converter
// step (the composed manager's "send" command under encode=EBCDIC).
func (m *Manager) SendBinary(id txid.ID, filePath string) (protocol.SendResult, error) {
	start := time.Now()
	result, err := protocol.Send(protocol.DialFrame, m.addr(), id, filePath, m.Metrics, m.logger())
	m.Metrics.ObserveDialogue("send", time.Since(start).Seconds())
	return result, err
}

// SendText encodes textPath to a private temporary IPM file, sends that,
// and deletes the temporary file on every exit path (the composed
// manager's "send" command under encode=ASCII).
func (m *Manager) SendText(id txid.ID, textPath string) (protocol.SendResult, error) {
	tmp, err := os.CreateTemp("", "mip-send-*.ipm")
	if err != nil {
		return protocol.SendResult{}, fmt.Errorf("manager: creating temp IPM file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := m.Encode(textPath, tmpPath); err != nil {
		return protocol.SendResult{}, err
	}
	return m.SendBinary(id, tmpPath)
}

// ReceiveBinary writes the received file verbatim to outputPath (the
// composed manager's "receive" command under encode=EBCDIC).
func (m *Manager) ReceiveBinary(id txid.ID, outputPath string) (protocol.ReceiveResult, error) {
	start := time.Now()
	result, err := protocol.Receive(protocol.DialFrame, m.addr(), id, outputPath, m.Metrics, m.logger())
	m.Metrics.ObserveDialogue("receive", time.Since(start).Seconds())
	return result, err
}

// ReceiveText receives into a private temporary IPM file, decodes it to
// outputPath, and deletes the temporary file on every exit path (the
// composed manager's "receive" command under encode=ASCII).
func (m *Manager) ReceiveText(id txid.ID, outputPath string) (protocol.ReceiveResult, error) {
	tmp, err := os.CreateTemp("", "mip-recv-*.ipm")
	if err != nil {
		return protocol.ReceiveResult{}, fmt.Errorf("manager: creating temp IPM file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	result, err := m.ReceiveBinary(id, tmpPath)
	if err != nil {
		return result, err
	}
	if err := m.Decode(tmpPath, outputPath); err != nil {
		return result, err
	}
	return result, nil
}
