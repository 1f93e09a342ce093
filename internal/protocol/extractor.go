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

import (
	"log/slog"

	"github.com/DiegoNoriegaVela/MIP/internal/codec"
)

// ExtractPayload implements the receive-side tolerant payload extractor
// (§4.6 step 4, called out in §9 as compatibility scar tissue that is
// load-bearing for interoperability — keep exactly as specified):
//
//  1. Treat the first 4 bytes as a candidate RDW length R1. If
//     0 < R1 < len(frame)-4, those 4 bytes are a stray length prefix;
//     start at offset 4. Otherwise offset 0.
//  2. If frame[offset] is 0xFF (stray padding) and frame[offset+1] is
//     the receive direction indicator, advance offset by 1.
//  3. frame[offset] is the direction indicator; a value other than
//     DirectionReceive is a warning, not an abort.
//
// It returns the slice frame[offset+1:], which is the payload to write
// to the destination file.
func ExtractPayload(frame []byte, logger *slog.Logger) []byte {
	offset := 0
	if len(frame) >= 4 {
		r1 := int(codec.Uint32(frame[:4]))
		if r1 > 0 && r1 < len(frame)-4 {
			offset = 4
		}
	}

	if offset+1 < len(frame) && frame[offset] == 0xFF && frame[offset+1] == DirectionReceive {
		offset++
	}

	if offset >= len(frame) {
		logger.Warn("data frame too short to carry a direction indicator", "len", len(frame), "offset", offset)
		return nil
	}

	if frame[offset] != DirectionReceive {
		logger.Warn("data frame direction indicator mismatch, tolerating", "got", frame[offset], "want", DirectionReceive)
	}

	return frame[offset+1:]
}
