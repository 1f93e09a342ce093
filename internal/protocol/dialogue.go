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
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/DiegoNoriegaVela/MIP/internal/codec"
	"github.com/DiegoNoriegaVela/MIP/internal/frame"
	"github.com/DiegoNoriegaVela/MIP/internal/metrics"
	"github.com/DiegoNoriegaVela/MIP/internal/txid"
)

// Dialer opens a fresh framed connection to the peer. frame.Dial
// satisfies this; tests substitute a fake to script peer behavior
// without a real socket.
type Dialer func(addr string) (FramedConn, error)

// FramedConn is the subset of *frame.Conn the dialogues need.
type FramedConn interface {
	WriteFramed(payload []byte) error
	ReadFrame() ([]byte, error)
	Close() error
}

// DialFrame adapts frame.Dial to the Dialer type.
func DialFrame(addr string) (FramedConn, error) {
	return frame.Dial(addr)
}

// SendResult reports what a completed send dialogue did.
type SendResult struct {
	DataFrames int
}

// Send implements §4.6's send dialogue (direction R): write 004, stream
// the source file as ≤1014-byte data frames each prefixed with the send
// direction indicator, write 998 carrying the frame count (trailer
// inclusive), and validate the ACK after each of the two header writes.
func Send(dial Dialer, addr string, id txid.ID, sourcePath string, m *metrics.Metrics, logger *slog.Logger) (SendResult, error) {
	conn, err := dial(addr)
	if err != nil {
		return SendResult{}, err
	}
	defer conn.Close()

	if err := conn.WriteFramed(Build004(id)); err != nil {
		return SendResult{}, err
	}
	m.RecordFrame("send", "004", 0)
	ack, err := conn.ReadFrame()
	if err != nil {
		return SendResult{}, err
	}
	if err := ValidateACK("004 ack", ack, logger); err != nil {
		return SendResult{}, err
	}

	src, err := os.Open(sourcePath)
	if err != nil {
		return SendResult{}, fmt.Errorf("protocol: opening %s: %w", sourcePath, err)
	}
	defer src.Close()

	count := 0
	buf := make([]byte, maxDataChunk)
	for {
		n, readErr := io.ReadFull(src, buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			if err := conn.WriteFramed(BuildDataFrame(chunk)); err != nil {
				return SendResult{}, err
			}
			m.RecordFrame("send", "data", n)
			count++
			logger.Debug("sent data frame", "index", count, "bytes", n)
		}
		if readErr == io.EOF || readErr == io.ErrUnexpectedEOF {
			break
		}
		if readErr != nil {
			return SendResult{}, fmt.Errorf("protocol: reading %s: %w", sourcePath, readErr)
		}
	}

	if err := conn.WriteFramed(Build998(uint32(count + 1))); err != nil {
		return SendResult{}, err
	}
	m.RecordFrame("send", "998", 0)
	ack, err = conn.ReadFrame()
	if err != nil {
		return SendResult{}, err
	}
	if err := ValidateACK("998 ack", ack, logger); err != nil {
		return SendResult{}, err
	}

	return SendResult{DataFrames: count}, nil
}

// ReceiveResult reports what a completed receive dialogue did.
type ReceiveResult struct {
	SequenceUsed   int
	BlocksReceived int
}

// scanFailure records why one SS attempt in the sequence scan did not
// yield a 004 header, for the final NotFoundError if the scan exhausts.
type scanFailure struct {
	seq    int
	reason string
}

func (f scanFailure) Error() string {
	return fmt.Sprintf("SS=%02d: %s", f.seq, f.reason)
}

// Receive implements §4.6's receive dialogue (direction T) with its
// automatic sequence scan: for SS = the TxID's provided sequence..99,
// open a fresh connection, send 101, and inspect the reply. A 998 with a
// non-"00" code or an unrecognised code records the failure and advances
// to the next SS; a 004 stops the scan and proceeds to stream the file.
func Receive(dial Dialer, addr string, id txid.ID, destPath string, m *metrics.Metrics, logger *slog.Logger) (ReceiveResult, error) {
	var lastErr error
	attempts := 0

	for seq := id.SeqInt(); seq <= 99; seq++ {
		attempts++
		attemptID := id.WithSeq(seq)

		result, err := receiveAttempt(dial, addr, attemptID, destPath, m, logger)
		if err == nil {
			result.SequenceUsed = seq
			return result, nil
		}

		var sf scanFailure
		if asScanFailure(err, &sf) {
			lastErr = err
			m.RecordSequenceRetry()
			logger.Debug("sequence scan attempt did not yield a transmission", "seq", seq, "reason", sf.reason)
			continue
		}

		// A socket-level failure terminates the scan immediately (§4.6).
		return ReceiveResult{}, err
	}

	return ReceiveResult{}, &NotFoundError{Prefix: prefixOf(id), LastErr: lastErr, Attempts: attempts}
}

func asScanFailure(err error, target *scanFailure) bool {
	sf, ok := err.(scanFailure)
	if ok {
		*target = sf
	}
	return ok
}

func prefixOf(id txid.ID) string {
	return fmt.Sprintf("%c%s%s", byte(id.Direction), id.Type, id.Endpoint)
}

func receiveAttempt(dial Dialer, addr string, id txid.ID, destPath string, m *metrics.Metrics, logger *slog.Logger) (ReceiveResult, error) {
	conn, err := dial(addr)
	if err != nil {
		return ReceiveResult{}, err
	}
	defer conn.Close()

	if err := conn.WriteFramed(Build101(id)); err != nil {
		return ReceiveResult{}, err
	}
	m.RecordFrame("recv", "101", 0)

	first, err := conn.ReadFrame()
	if err != nil {
		return ReceiveResult{}, err
	}

	code := recordCode(first)
	switch {
	case code == "998" && safeRetCode(first) != "00":
		reason := safeRetCode(first)
		if len(first) > 7 {
			reason = codec.FilterPrintable(codec.Decode(first[7:]))
		}
		return ReceiveResult{}, scanFailure{seq: id.SeqInt(), reason: reason}
	case code == "004":
		// fall through to streaming below
	default:
		return ReceiveResult{}, scanFailure{seq: id.SeqInt(), reason: fmt.Sprintf("unexpected code %q", code)}
	}

	rxTxID, _, err := extract004Fields(first)
	if err != nil {
		return ReceiveResult{}, err
	}

	out, err := os.Create(destPath)
	if err != nil {
		return ReceiveResult{}, fmt.Errorf("protocol: creating %s: %w", destPath, err)
	}
	defer out.Close()

	blocksReceived := 0
	for {
		dataFrame, err := conn.ReadFrame()
		if err != nil {
			return ReceiveResult{}, err
		}

		frameCode := recordCode(dataFrame)
		if frameCode == "998" {
			if len(dataFrame) < 7 || codec.Decode(dataFrame[5:7]) != "00" {
				return ReceiveResult{}, &ProtocolError{Stage: "trailer", Code: safeRetCode(dataFrame)}
			}
			if len(dataFrame) >= 11 {
				claimed := codec.Uint32(dataFrame[7:11])
				if claimed != uint32(blocksReceived+1) {
					logger.Warn("trailer count mismatch, tolerating", "claimed", claimed, "received", blocksReceived+1)
				}
			}
			break
		}

		payload := ExtractPayload(dataFrame, logger)
		if _, err := out.Write(payload); err != nil {
			return ReceiveResult{}, fmt.Errorf("protocol: writing %s: %w", destPath, err)
		}
		m.RecordFrame("recv", "data", len(payload))
		blocksReceived++
	}

	if err := conn.WriteFramed(Build999(rxTxID)); err != nil {
		return ReceiveResult{}, err
	}
	m.RecordFrame("recv", "999", 0)
	ack, err := conn.ReadFrame()
	if err != nil {
		return ReceiveResult{}, err
	}
	if err := ValidateACK("999 ack", ack, logger); err != nil {
		return ReceiveResult{}, err
	}

	return ReceiveResult{BlocksReceived: blocksReceived}, nil
}

func safeRetCode(frame []byte) string {
	if len(frame) < 7 {
		return ""
	}
	return codec.Decode(frame[5:7])
}

// extract004Fields pulls rxTxID (bytes 5..19) and expectedBlocks (bytes
// 36..40 big-endian) out of a 004 header, per §4.6 step 3.
func extract004Fields(header []byte) (rxTxID txid.ID, expectedBlocks uint32, err error) {
	const (
		txIDStart = 5
		txIDEnd   = 19
		blkStart  = 36
		blkEnd    = 40
	)
	if len(header) < blkEnd {
		return txid.ID{}, 0, &HeaderExtractionError{Len: len(header)}
	}
	rxTxID, parseErr := txid.Parse(codec.Decode(header[txIDStart:txIDEnd]), txid.Receive)
	if parseErr != nil {
		return txid.ID{}, 0, fmt.Errorf("protocol: extracting rxTxID: %w", parseErr)
	}
	expectedBlocks = codec.Uint32(header[blkStart:blkEnd])
	return rxTxID, expectedBlocks, nil
}
