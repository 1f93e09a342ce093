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

// Package block implements the IPM container's outer physical-blocking
// layer: 1014-byte blocks of 1012 payload bytes plus a 2-byte 0x40 trailer.
package block

const (
	// Size is the fixed length of a physical block.
	Size = 1014
	// PayloadSize is the number of VBS-stream bytes carried per block.
	PayloadSize = 1012
	// trailerSize is the number of 0x40 padding bytes appended after the
	// payload region of every block.
	trailerSize = Size - PayloadSize
	// PadByte is the EBCDIC space used to pad short blocks and trailers.
	PadByte = 0x40
)

// Apply segments a VBS byte stream into consecutive 1014-byte blocks. The
// final chunk is padded with PadByte up to PayloadSize bytes before the
// 2-byte trailer is appended. The result length is always a multiple of
// Size; an empty input yields an empty (zero-block) result.
func Apply(vbs []byte) []byte {
	if len(vbs) == 0 {
		return nil
	}
	blocks := (len(vbs) + PayloadSize - 1) / PayloadSize
	out := make([]byte, 0, blocks*Size)
	for i := 0; i < blocks; i++ {
		start := i * PayloadSize
		end := start + PayloadSize
		if end > len(vbs) {
			end = len(vbs)
		}
		chunk := vbs[start:end]
		out = append(out, chunk...)
		for n := len(chunk); n < PayloadSize; n++ {
			out = append(out, PadByte)
		}
		out = append(out, PadByte, PadByte)
	}
	return out
}

// Remove strips the physical blocking from raw, returning the enclosed VBS
// stream. It emits PayloadSize bytes per full block. A trailing partial
// block (only reachable when the caller forces removal despite Detect
// reporting false) contributes whatever bytes remain, capped at
// PayloadSize.
func Remove(raw []byte) []byte {
	out := make([]byte, 0, len(raw))
	for off := 0; off < len(raw); off += Size {
		end := off + PayloadSize
		switch {
		case off+Size <= len(raw):
			out = append(out, raw[off:end]...)
		default:
			remaining := len(raw) - off
			if remaining > PayloadSize {
				remaining = PayloadSize
			}
			out = append(out, raw[off:off+remaining]...)
			return out
		}
	}
	return out
}

// minBlockHitRatio is the fraction of blocks that must end in two 0x40
// bytes for a multi-block file to be declared blocked.
const minBlockHitRatio = 0.60

// minTrailingPadRatio is the fraction of bytes after the VBS EOF marker
// that must be 0x40 padding for scanForPaddedEOF to report a buffer as
// blocked. Detect rejects non-block-aligned and empty input before
// counting blocks, so it never reaches that fallback.
const minTrailingPadRatio = 0.80

// Detect applies the heuristic of spec.md §4.2 to decide whether raw is
// 1014-blocked.
func Detect(raw []byte) bool {
	if len(raw) == 0 || len(raw)%Size != 0 {
		return false
	}

	n := len(raw) / Size
	hits := 0
	for i := 0; i < n; i++ {
		block := raw[i*Size : (i+1)*Size]
		if block[Size-2] == PadByte && block[Size-1] == PadByte {
			hits++
		}
	}

	switch {
	case n > 1:
		return float64(hits)/float64(n) >= minBlockHitRatio
	case n == 1:
		return hits == 1
	}

	return scanForPaddedEOF(raw)
}

// scanForPaddedEOF is the fallback heuristic: find the first VBS
// zero-length EOF marker and check that the tail past it is mostly 0x40
// padding.
func scanForPaddedEOF(raw []byte) bool {
	pos := -1
	for i := 0; i+4 <= len(raw); i++ {
		if raw[i] == 0 && raw[i+1] == 0 && raw[i+2] == 0 && raw[i+3] == 0 {
			pos = i
			break
		}
	}
	if pos < 0 {
		return false
	}

	tail := raw[pos+4:]
	if len(tail) == 0 {
		return false
	}
	padCount := 0
	for _, b := range tail {
		if b == PadByte {
			padCount++
		}
	}
	return float64(padCount)/float64(len(tail)) >= minTrailingPadRatio
}
