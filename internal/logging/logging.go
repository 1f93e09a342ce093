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

// Package logging builds the process-wide *slog.Logger every command in
// cmd/ installs via slog.SetDefault, and that core packages otherwise
// receive as an explicit argument.
package logging

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

// New builds a tint-backed slog.Logger writing to stderr. verbose selects
// Debug level (the composed manager's single diagnostic flag, per spec);
// otherwise Info.
func New(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := tint.NewHandler(os.Stderr, &tint.Options{Level: level})
	return slog.New(handler)
}

// Install builds a logger via New and installs it as slog's process
// default, returning it so callers can also hold a direct reference.
func Install(verbose bool) *slog.Logger {
	logger := New(verbose)
	slog.SetDefault(logger)
	return logger
}
