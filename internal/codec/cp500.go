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

// Package codec holds the wire-level primitives the rest of the bridge is
// built on: the EBCDIC Cp500 <-> text conversion and the big-endian integer
// encoders used throughout the block, VBS, and protocol layers.
package codec

import "fmt"

// cp500Decode maps an EBCDIC Cp500 byte to its Unicode code point. It
// carries the Cp500 assignments for ASCII and the C0/C1 controls only.
// Bytes that Cp500 assigns to non-ASCII graphic characters (accented
// letters, NBSP, and the other Latin-1 symbols) map into the Unicode
// private-use area (0xE000+n) instead, so the table stays a total,
// collision-free function; those characters therefore neither decode to
// their Latin-1 form nor encode from it.
var cp500Decode = [256]rune{
	0x0000, 0x0001, 0x0002, 0x0003, 0x009C, 0x0009, 0x0086, 0x007F,
	0x0097, 0x008D, 0x008E, 0x000B, 0x000C, 0x000D, 0x000E, 0x000F,
	0x0010, 0x0011, 0x0012, 0x0013, 0x009D, 0x0085, 0x0008, 0x0087,
	0x0018, 0x0019, 0x0092, 0x008F, 0x001C, 0x001D, 0x001E, 0x001F,
	0x0080, 0x0081, 0x0082, 0x0083, 0x0084, 0x000A, 0x0017, 0x001B,
	0x0088, 0x0089, 0x008A, 0x008B, 0x008C, 0x0005, 0x0006, 0x0007,
	0x0090, 0x0091, 0x0016, 0x0093, 0x0094, 0x0095, 0x0096, 0x0004,
	0x0098, 0x0099, 0x009A, 0x009B, 0x0014, 0x0015, 0x009E, 0x001A,
	0x0020, 0xE041, 0xE042, 0xE043, 0xE044, 0xE045, 0xE046, 0xE047,
	0xE048, 0xE049, 0x005B, 0x002E, 0x003C, 0x0028, 0x002B, 0x0021,
	0x0026, 0xE051, 0xE052, 0xE053, 0xE054, 0xE055, 0xE056, 0xE057,
	0xE058, 0xE059, 0x005D, 0x0024, 0x002A, 0x0029, 0x003B, 0x005E,
	0x002D, 0x002F, 0xE062, 0xE063, 0xE064, 0xE065, 0xE066, 0xE067,
	0xE068, 0xE069, 0xE06A, 0x002C, 0x0025, 0x005F, 0x003E, 0x003F,
	0xE070, 0xE071, 0xE072, 0xE073, 0xE074, 0xE075, 0xE076, 0xE077,
	0xE078, 0x0060, 0x003A, 0x0023, 0x0040, 0x0027, 0x003D, 0x0022,
	0xE080, 0x0061, 0x0062, 0x0063, 0x0064, 0x0065, 0x0066, 0x0067,
	0x0068, 0x0069, 0xE08A, 0xE08B, 0xE08C, 0xE08D, 0xE08E, 0xE08F,
	0xE090, 0x006A, 0x006B, 0x006C, 0x006D, 0x006E, 0x006F, 0x0070,
	0x0071, 0x0072, 0xE09A, 0xE09B, 0xE09C, 0xE09D, 0xE09E, 0xE09F,
	0xE0A0, 0x007E, 0x0073, 0x0074, 0x0075, 0x0076, 0x0077, 0x0078,
	0x0079, 0x007A, 0xE0AA, 0xE0AB, 0xE0AC, 0xE0AD, 0xE0AE, 0xE0AF,
	0xE0B0, 0xE0B1, 0xE0B2, 0xE0B3, 0xE0B4, 0xE0B5, 0xE0B6, 0xE0B7,
	0xE0B8, 0xE0B9, 0xE0BA, 0x007C, 0xE0BC, 0xE0BD, 0xE0BE, 0xE0BF,
	0x007B, 0x0041, 0x0042, 0x0043, 0x0044, 0x0045, 0x0046, 0x0047,
	0x0048, 0x0049, 0xE0CA, 0xE0CB, 0xE0CC, 0xE0CD, 0xE0CE, 0xE0CF,
	0x007D, 0x004A, 0x004B, 0x004C, 0x004D, 0x004E, 0x004F, 0x0050,
	0x0051, 0x0052, 0xE0DA, 0xE0DB, 0xE0DC, 0xE0DD, 0xE0DE, 0xE0DF,
	0x005C, 0xE0E1, 0x0053, 0x0054, 0x0055, 0x0056, 0x0057, 0x0058,
	0x0059, 0x005A, 0xE0EA, 0xE0EB, 0xE0EC, 0xE0ED, 0xE0EE, 0xE0EF,
	0x0030, 0x0031, 0x0032, 0x0033, 0x0034, 0x0035, 0x0036, 0x0037,
	0x0038, 0x0039, 0xE0FA, 0xE0FB, 0xE0FC, 0xE0FD, 0xE0FE, 0xE0FF,
}

// cp500Encode is the reverse of cp500Decode, built once at init time. Only
// runes that actually appear as a target of cp500Decode are encodable;
// Encode reports an error for anything else.
var cp500Encode map[rune]byte

func init() {
	cp500Encode = make(map[rune]byte, len(cp500Decode))
	for b, r := range cp500Decode {
		cp500Encode[r] = byte(b)
	}
}

// DecodeByte returns the Unicode code point for a single Cp500 byte.
func DecodeByte(b byte) rune {
	return cp500Decode[b]
}

// Decode converts a Cp500-encoded byte string into text.
func Decode(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = cp500Decode[c]
	}
	return string(runes)
}

// Encode converts text into a Cp500-encoded byte string. It returns an
// error naming the offending rune the first time it meets a code point
// with no Cp500 assignment; well-formed ASCII input never hits this path.
func Encode(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := cp500Encode[r]
		if !ok {
			return nil, &UnencodableRuneError{Rune: r}
		}
		out = append(out, b)
	}
	return out, nil
}

// UnencodableRuneError reports a code point with no Cp500 mapping.
type UnencodableRuneError struct {
	Rune rune
}

func (e *UnencodableRuneError) Error() string {
	return fmt.Sprintf("codec: rune %q has no Cp500 encoding", e.Rune)
}
