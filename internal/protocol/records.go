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

// Package protocol implements the MIP bulk-file-transfer state machine:
// the 004/101/998/999 record shapes, the send and receive dialogues, ACK
// validation, and the receive-side sequence scan and tolerant payload
// extractor.
package protocol

import (
	"fmt"

	"github.com/DiegoNoriegaVela/MIP/internal/codec"
	"github.com/DiegoNoriegaVela/MIP/internal/txid"
)

const (
	// DirectionSend is the EBCDIC code point for 'R', prefixing every
	// data frame a sender emits.
	DirectionSend byte = 0xD9
	// DirectionReceive is the EBCDIC code point for 'T', expected as the
	// first byte of every data frame a receiver reads.
	DirectionReceive byte = 0xE3

	code004Len = 60
	code101Len = 19
	code998Len = 11
	code999Len = 21

	maxDataChunk = 1014
)

var (
	ebcdic004    = mustEncode("004")
	ebcdic101    = mustEncode("101")
	ebcdic998    = mustEncode("998")
	ebcdic999    = mustEncode("999")
	ebcdicRecord = mustEncode("01")
	ebcdicOK     = mustEncode("00")
)

func mustEncode(s string) []byte {
	b, err := codec.Encode(s)
	if err != nil {
		panic(fmt.Sprintf("protocol: literal %q has no Cp500 encoding: %v", s, err))
	}
	return b
}

// Build004 renders the 60-byte transmission header: "004" "01" TxID(14)
// followed by the zeroed filler/reserved regions §4.6 names. The two
// 4-byte reserved fields are emitted as zero per §9's open question;
// readers should accept any value there.
func Build004(id txid.ID) []byte {
	out := make([]byte, 0, code004Len)
	out = append(out, ebcdic004...)
	out = append(out, ebcdicRecord...)
	out = append(out, encodeTxID(id)...)
	out = append(out, make([]byte, code004Len-len(out))...)
	return out
}

// Build101 renders the 19-byte receive request: "101" "01" TxID(14).
func Build101(id txid.ID) []byte {
	out := make([]byte, 0, code101Len)
	out = append(out, ebcdic101...)
	out = append(out, ebcdicRecord...)
	out = append(out, encodeTxID(id)...)
	return out
}

// Build998 renders the 11-byte trailer: "998" "01" "00" count(4 BE).
func Build998(count uint32) []byte {
	out := make([]byte, 0, code998Len)
	out = append(out, ebcdic998...)
	out = append(out, ebcdicRecord...)
	out = append(out, ebcdicOK...)
	countBuf := make([]byte, 4)
	codec.PutUint32(countBuf, count)
	return append(out, countBuf...)
}

// Build999 renders the 21-byte purge: "999" "01" "00" TxID(14).
func Build999(id txid.ID) []byte {
	out := make([]byte, 0, code999Len)
	out = append(out, ebcdic999...)
	out = append(out, ebcdicRecord...)
	out = append(out, ebcdicOK...)
	out = append(out, encodeTxID(id)...)
	return out
}

// BuildDataFrame prefixes chunk (at most 1014 bytes) with the send
// direction indicator, ready to hand to frame.Conn.WriteFramed.
func BuildDataFrame(chunk []byte) []byte {
	out := make([]byte, 0, 1+len(chunk))
	out = append(out, DirectionSend)
	return append(out, chunk...)
}

func encodeTxID(id txid.ID) []byte {
	b, err := codec.Encode(id.String())
	if err != nil {
		// TxID fields are digits and R/T, all Cp500-representable.
		panic(fmt.Sprintf("protocol: TxID %q has no Cp500 encoding: %v", id.String(), err))
	}
	return b
}

// recordCode decodes the first 3 bytes of a frame as its EBCDIC record
// code ("004", "998", "999", "101"), or "" if frame is too short to hold one.
func recordCode(frame []byte) string {
	if len(frame) < 3 {
		return ""
	}
	return codec.Decode(frame[:3])
}
