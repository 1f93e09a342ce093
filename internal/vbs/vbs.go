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

// Package vbs implements the Variable-Blocked-Spanned record stream: a
// sequence of 4-byte big-endian length prefixes and payloads, terminated
// by a zero-length record.
package vbs

import (
	"strconv"

	"github.com/DiegoNoriegaVela/MIP/internal/codec"
)

const lengthPrefixSize = 4

// Encode serializes records as length-prefixed payloads followed by the
// four-byte zero-length EOF marker.
func Encode(records [][]byte) []byte {
	size := lengthPrefixSize
	for _, r := range records {
		size += lengthPrefixSize + len(r)
	}
	out := make([]byte, 0, size)
	lenBuf := make([]byte, lengthPrefixSize)
	for _, r := range records {
		codec.PutUint32(lenBuf, uint32(len(r)))
		out = append(out, lenBuf...)
		out = append(out, r...)
	}
	out = append(out, 0, 0, 0, 0)
	return out
}

// FramingError reports a length prefix the decoder cannot trust: either
// negative (the high bit set) or longer than the bytes actually remaining.
type FramingError struct {
	Offset int
	Length int64
}

func (e *FramingError) Error() string {
	return "vbs: invalid record length " + strconv.FormatInt(e.Length, 10) +
		" at offset " + strconv.Itoa(e.Offset)
}

// Decode parses a VBS stream into its constituent records. The first
// zero-length prefix terminates the stream successfully. A truncated
// buffer that ends cleanly between records (fewer than 4 bytes left, no
// EOF marker seen) is tolerated: Decode returns the records collected so
// far with no error. An out-of-range length is reported as a
// *FramingError naming the offset of the bad length field.
func Decode(buf []byte) ([][]byte, error) {
	var records [][]byte
	offset := 0
	for {
		if len(buf)-offset < lengthPrefixSize {
			return records, nil
		}

		length := int64(int32(codec.Uint32(buf[offset : offset+lengthPrefixSize])))
		if length == 0 {
			return records, nil
		}

		remaining := int64(len(buf) - offset - lengthPrefixSize)
		if length < 0 || length > remaining {
			return records, &FramingError{Offset: offset, Length: length}
		}

		start := offset + lengthPrefixSize
		record := make([]byte, length)
		copy(record, buf[start:start+int(length)])
		records = append(records, record)
		offset = start + int(length)
	}
}
