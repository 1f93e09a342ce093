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

package protocol

import "fmt"

// ProtocolError reports a fatal protocol-level failure: a 998 frame with
// a non-"00" return code, at an ACK point or as the receive-side trailer.
// A 004 header whose fields cannot be extracted is reported as a
// *HeaderExtractionError or a wrapped txid error instead.
type ProtocolError struct {
	Stage string
	Code  string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol: %s: peer returned code %q", e.Stage, e.Code)
}

// NotFoundError reports a receive-side sequence scan that reached SS=99
// without ever seeing a 004 header.
type NotFoundError struct {
	Prefix   string
	LastErr  error
	Attempts int
}

func (e *NotFoundError) Error() string {
	if e.LastErr != nil {
		return fmt.Sprintf("protocol: no transmission found for %q after %d attempts: %v", e.Prefix, e.Attempts, e.LastErr)
	}
	return fmt.Sprintf("protocol: no transmission found for %q after %d attempts", e.Prefix, e.Attempts)
}

func (e *NotFoundError) Unwrap() error { return e.LastErr }

// HeaderExtractionError reports a 004 frame too short to carry the
// rxTxID and expectedBlocks fields the receive dialogue needs.
type HeaderExtractionError struct {
	Len int
}

func (e *HeaderExtractionError) Error() string {
	return fmt.Sprintf("protocol: 004 header too short to extract fields (%d bytes)", e.Len)
}
