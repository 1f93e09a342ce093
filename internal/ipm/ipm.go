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

// Package ipm composes the codec, block, and vbs layers into a
// line-oriented text <-> IPM container converter over whole files.
package ipm

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"

	"github.com/DiegoNoriegaVela/MIP/internal/block"
	"github.com/DiegoNoriegaVela/MIP/internal/codec"
	"github.com/DiegoNoriegaVela/MIP/internal/vbs"
)

// Decode reads the IPM container at inputPath and writes one text line per
// record to outputPath, LF-terminated, non-printable EBCDIC-decoded
// characters replaced by '.'.
func Decode(inputPath, outputPath string, logger *slog.Logger) error {
	logger = orDefault(logger)

	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("ipm: reading %s: %w", inputPath, err)
	}

	blocked := block.Detect(raw)
	logger.Debug("ipm decode: blocking detection", "file", inputPath, "blocked", blocked, "bytes", len(raw))

	vbsBytes := raw
	if blocked {
		vbsBytes = block.Remove(raw)
	}

	records, err := vbs.Decode(vbsBytes)
	if err != nil {
		return fmt.Errorf("ipm: decoding VBS stream of %s: %w", inputPath, err)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("ipm: creating %s: %w", outputPath, err)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	for _, record := range records {
		line := codec.FilterPrintable(codec.Decode(record))
		if _, err := w.WriteString(line); err != nil {
			return fmt.Errorf("ipm: writing %s: %w", outputPath, err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fmt.Errorf("ipm: writing %s: %w", outputPath, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("ipm: flushing %s: %w", outputPath, err)
	}

	logger.Info("ipm decode complete", "file", inputPath, "records", len(records))
	return nil
}

// Encode reads inputPath as ASCII text lines (empty lines skipped), encodes
// each surviving line to Cp500, frames them as a VBS stream, applies
// 1014-byte blocking, and writes the result to outputPath.
func Encode(inputPath, outputPath string, logger *slog.Logger) error {
	logger = orDefault(logger)

	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("ipm: opening %s: %w", inputPath, err)
	}
	defer in.Close()

	var records [][]byte
	scanner := bufio.NewScanner(in)
	const maxLineLength = 1 << 20
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}
		record, err := codec.Encode(line)
		if err != nil {
			return fmt.Errorf("ipm: encoding line from %s: %w", inputPath, err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("ipm: reading %s: %w", inputPath, err)
	}

	vbsBytes := vbs.Encode(records)
	blocked := block.Apply(vbsBytes)

	if err := os.WriteFile(outputPath, blocked, 0o644); err != nil {
		return fmt.Errorf("ipm: writing %s: %w", outputPath, err)
	}

	logger.Info("ipm encode complete", "file", outputPath, "records", len(records), "blocks", len(blocked)/block.Size)
	return nil
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
