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

// Package txid parses and normalizes MIP Transmission IDs: 14 characters
// of the form D ttt EEEEE JJJ SS, where D is a direction byte, ttt a
// 3-digit transmission type, EEEEE a 5-digit endpoint, JJJ a 3-digit
// Julian day, and SS a 2-digit sequence.
package txid

import (
	"fmt"
	"time"
)

const (
	shortLen = 9
	fullLen  = 14

	directionOffset = 0
	typeOffset      = 1
	typeLen         = 3
	endpointOffset  = 4
	endpointLen     = 5
	dayOffset       = 9
	dayLen          = 3
	seqOffset       = 12
	seqLen          = 2
)

// Direction identifies which side of the dialogue a Transmission ID names.
type Direction byte

const (
	Send    Direction = 'R'
	Receive Direction = 'T'
)

// ID is a parsed, normalized Transmission ID.
type ID struct {
	Direction Direction
	Type      string // 3 digits
	Endpoint  string // 5 digits
	Day       string // 3 digits, Julian day
	Seq       string // 2 digits
}

// InvalidError reports a Transmission ID that is not 9 or 14 characters,
// or whose direction byte does not match what was expected.
type InvalidError struct {
	Input    string
	Expected Direction
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("txid: %q is not a valid %c-direction transmission ID (want length 9 or 14)", e.Input, byte(e.Expected))
}

// Parse normalizes raw per the TxID normalization law: a 9-character short
// form D+ttt+EEEEE is completed with the current Julian day and SS="01"; a
// 14-character input is split and returned verbatim; any other length, or
// a direction byte other than want, is rejected.
func Parse(raw string, want Direction) (ID, error) {
	switch len(raw) {
	case shortLen:
		if Direction(raw[directionOffset]) != want {
			return ID{}, &InvalidError{Input: raw, Expected: want}
		}
		now := time.Now()
		return ID{
			Direction: want,
			Type:      raw[typeOffset : typeOffset+typeLen],
			Endpoint:  raw[endpointOffset : endpointOffset+endpointLen],
			Day:       fmt.Sprintf("%03d", now.YearDay()),
			Seq:       "01",
		}, nil
	case fullLen:
		if Direction(raw[directionOffset]) != want {
			return ID{}, &InvalidError{Input: raw, Expected: want}
		}
		return ID{
			Direction: want,
			Type:      raw[typeOffset : typeOffset+typeLen],
			Endpoint:  raw[endpointOffset : endpointOffset+endpointLen],
			Day:       raw[dayOffset : dayOffset+dayLen],
			Seq:       raw[seqOffset : seqOffset+seqLen],
		}, nil
	default:
		return ID{}, &InvalidError{Input: raw, Expected: want}
	}
}

// String renders the 14-character on-wire form D+ttt+EEEEE+JJJ+SS.
func (id ID) String() string {
	return fmt.Sprintf("%c%s%s%s%s", byte(id.Direction), id.Type, id.Endpoint, id.Day, id.Seq)
}

// WithSeq returns a copy of id with its sequence field replaced, formatted
// as two zero-padded digits. Used by the receive dialogue's sequence scan.
func (id ID) WithSeq(seq int) ID {
	id.Seq = fmt.Sprintf("%02d", seq)
	return id
}

// SeqInt parses the sequence field as an integer, defaulting to 1 if it
// does not parse. Parse does not check that the field holds digits, so a
// parsed ID can reach this default as well as a hand-built one.
func (id ID) SeqInt() int {
	var n int
	if _, err := fmt.Sscanf(id.Seq, "%d", &n); err != nil {
		return 1
	}
	return n
}
