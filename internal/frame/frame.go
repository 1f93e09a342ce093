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

// Package frame implements the length-prefixed record transport the MIP
// protocol state machine rides on: a 2-byte big-endian length followed by
// the payload, over a single TCP connection.
package frame

import (
	"fmt"
	"io"
	"net"
	"time"

	"github.com/DiegoNoriegaVela/MIP/internal/codec"
)

const (
	// ConnectTimeout bounds how long Dial waits for the TCP handshake.
	ConnectTimeout = 15 * time.Second
	// ReadTimeout bounds how long a single ReadFrame call may block.
	ReadTimeout = 20 * time.Second

	lengthPrefixSize = 2
	// MaxPayload is the largest payload a 2-byte big-endian length can name.
	MaxPayload = 65535
)

// Conn wraps a net.Conn with the framed read/write operations and the
// timeouts the dialogue requires.
type Conn struct {
	nc net.Conn
}

// Dial opens a fresh TCP connection to addr, bounded by ConnectTimeout.
func Dial(addr string) (*Conn, error) {
	nc, err := net.DialTimeout("tcp", addr, ConnectTimeout)
	if err != nil {
		return nil, &NetworkError{Op: "dial", Err: err}
	}
	return &Conn{nc: nc}, nil
}

// Close releases the underlying socket.
func (c *Conn) Close() error {
	return c.nc.Close()
}

// WriteFramed emits a 2-byte big-endian length followed by payload.
// len(payload) must be in (0, MaxPayload].
func (c *Conn) WriteFramed(payload []byte) error {
	if len(payload) == 0 || len(payload) > MaxPayload {
		return fmt.Errorf("frame: payload length %d out of range (0, %d]", len(payload), MaxPayload)
	}
	lenBuf := make([]byte, lengthPrefixSize)
	codec.PutUint16(lenBuf, uint16(len(payload)))
	buf := append(lenBuf, payload...)
	if _, err := c.nc.Write(buf); err != nil {
		return &NetworkError{Op: "write", Err: err}
	}
	return nil
}

// ReadFrame reads exactly one length-prefixed frame, bounded by
// ReadTimeout. A peer closing before L bytes arrive surfaces as a
// *TruncationError.
func (c *Conn) ReadFrame() ([]byte, error) {
	if err := c.nc.SetReadDeadline(time.Now().Add(ReadTimeout)); err != nil {
		return nil, &NetworkError{Op: "set-deadline", Err: err}
	}

	lenBuf := make([]byte, lengthPrefixSize)
	if _, err := io.ReadFull(c.nc, lenBuf); err != nil {
		return nil, &TruncationError{Wanted: lengthPrefixSize, Stage: "length prefix", Err: err}
	}

	length := int(codec.Uint16(lenBuf))
	payload := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(c.nc, payload); err != nil {
			return nil, &TruncationError{Wanted: length, Stage: "payload", Err: err}
		}
	}
	return payload, nil
}

// NetworkError wraps a connect/read/write failure (refused, timeout, reset).
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("frame: %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// TruncationError reports that the peer closed the connection before
// delivering the bytes a frame promised.
type TruncationError struct {
	Wanted int
	Stage  string
	Err    error
}

func (e *TruncationError) Error() string {
	return fmt.Sprintf("frame: truncated reading %s (wanted %d bytes): %v", e.Stage, e.Wanted, e.Err)
}

func (e *TruncationError) Unwrap() error { return e.Err }
