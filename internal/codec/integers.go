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

package codec

import "encoding/binary"

// PutUint16 writes v as a 2-byte big-endian value into b.
func PutUint16(b []byte, v uint16) {
	binary.BigEndian.PutUint16(b, v)
}

// Uint16 reads a 2-byte big-endian value from b. Length fields are
// non-negative by contract; the high bit carries magnitude, not sign.
func Uint16(b []byte) uint16 {
	return binary.BigEndian.Uint16(b)
}

// PutUint32 writes v as a 4-byte big-endian value into b.
func PutUint32(b []byte, v uint32) {
	binary.BigEndian.PutUint32(b, v)
}

// Uint32 reads a 4-byte big-endian value from b.
func Uint32(b []byte) uint32 {
	return binary.BigEndian.Uint32(b)
}

// Printable reports whether r passes through the text converter's
// sanitization filter unchanged: printable ASCII, or one of CR/LF/TAB.
func Printable(r rune) bool {
	switch r {
	case '\r', '\n', '\t':
		return true
	}
	return r >= 0x20 && r <= 0x7E
}

// FilterPrintable replaces every rune in s that Printable rejects with '.'.
func FilterPrintable(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if !Printable(r) {
			runes[i] = '.'
		}
	}
	return string(runes)
}
