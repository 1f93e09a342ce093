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

// ValidateACK implements §4.7: a 998 frame with return code "00" is
// accepted silently. A 998 frame with any other return code is a fatal
// *ProtocolError naming the stage and code. Any non-998 frame at an ACK
// point is logged as a warning and tolerated — the peer may send
// informational frames here, and intent beyond "don't treat it as
// fatal" is unspecified (§9).
func ValidateACK(stage string, frame []byte, logger *slog.Logger) error {
	code := recordCode(frame)
	if code != "998" {
		logger.Warn("non-998 frame at ACK point, tolerating", "stage", stage, "code", code)
		return nil
	}
	if len(frame) < 7 {
		logger.Warn("998 frame too short to carry a return code, tolerating", "stage", stage)
		return nil
	}
	retCode := codec.Decode(frame[5:7])
	if retCode != "00" {
		return &ProtocolError{Stage: stage, Code: retCode}
	}
	return nil
}
