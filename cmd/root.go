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

// Package cmd builds the composed-manager command surface (§6): encode,
// decode, send, and receive subcommands layered over internal/manager.
// This is the external collaborator spec.md §1 places out of scope for
// the core; it wires flags to the in-process operations and nothing
// more.
package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DiegoNoriegaVela/MIP/internal/config"
	"github.com/DiegoNoriegaVela/MIP/internal/logging"
	"github.com/DiegoNoriegaVela/MIP/internal/manager"
	"github.com/DiegoNoriegaVela/MIP/internal/metrics"
	"github.com/DiegoNoriegaVela/MIP/internal/txid"
	"github.com/spf13/cobra"
)

// UsageError marks an argument-validation failure (§7's UsageError
// taxonomy entry) so main can map it to exit code 2 instead of the
// generic runtime-error code 1.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }
func (e *UsageError) Unwrap() error { return e.Err }

func usageErrorf(format string, args ...any) error {
	return &UsageError{Err: fmt.Errorf(format, args...)}
}

// globalFlags holds the root command's persistent flags, read by every
// subcommand's RunE.
type globalFlags struct {
	verbose bool
}

// NewCommand builds the root "mip" command and its encode/decode/send/
// receive subcommands, the way the teacher's internal/cmd.NewCommand
// builds DMRHub's root command.
func NewCommand(version, commit string) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:     "mip",
		Short:   "Bulk IPM file transfer bridge to a Mastercard Interface Processor",
		Version: fmt.Sprintf("%s (%s)", version, commit),
		Annotations: map[string]string{
			"version": version,
			"commit":  commit,
		},
		SilenceErrors:     true,
		SilenceUsage:      true,
		DisableAutoGenTag: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logging.Install(flags.verbose)
		},
	}
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug-level diagnostic logging (frames are not hex-dumped)")

	root.AddCommand(
		newEncodeCommand(),
		newDecodeCommand(),
		newSendCommand(flags),
		newReceiveCommand(flags),
	)
	return root
}

func newEncodeCommand() *cobra.Command {
	var input, output string
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a line-oriented text file into an IPM container",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if input == "" || output == "" {
				return usageErrorf("encode: --input and --output are required")
			}
			m := &manager.Manager{Logger: loggerFor(cmd)}
			return m.Encode(input, output)
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "input text file")
	cmd.Flags().StringVar(&output, "output", "", "output IPM file")
	return cmd
}

func newDecodeCommand() *cobra.Command {
	var input, output string
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode an IPM container into a line-oriented text file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if input == "" || output == "" {
				return usageErrorf("decode: --input and --output are required")
			}
			m := &manager.Manager{Logger: loggerFor(cmd)}
			return m.Decode(input, output)
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "input IPM file")
	cmd.Flags().StringVar(&output, "output", "", "output text file")
	return cmd
}

// transferFlags are shared by send and receive: the peer endpoint, the
// local file, the Transmission ID, and the ASCII/EBCDIC encode switch
// from §6's composed-manager command surface.
type transferFlags struct {
	ip       string
	port     int
	file     string
	ipmname  string
	encoding string
}

func (f *transferFlags) register(cmd *cobra.Command) {
	cfg := config.Get()
	cmd.Flags().StringVar(&f.ip, "ip", cfg.MIPHost, "MIP peer host")
	cmd.Flags().IntVar(&f.port, "port", cfg.MIPPort, "MIP peer port")
	cmd.Flags().StringVar(&f.file, "file", "", "local file path")
	cmd.Flags().StringVar(&f.ipmname, "ipmname", "", "Transmission ID (9 or 14 characters)")
	cmd.Flags().StringVar(&f.encoding, "encode", "ASCII", "payload encoding: EBCDIC or ASCII")
}

func (f *transferFlags) validate(direction txid.Direction) (txid.ID, error) {
	if f.ip == "" {
		return txid.ID{}, usageErrorf("--ip is required")
	}
	if f.port <= 0 {
		return txid.ID{}, usageErrorf("--port must be positive")
	}
	if f.file == "" {
		return txid.ID{}, usageErrorf("--file is required")
	}
	if f.encoding != "EBCDIC" && f.encoding != "ASCII" {
		return txid.ID{}, usageErrorf("--encode must be EBCDIC or ASCII, got %q", f.encoding)
	}
	id, err := txid.Parse(f.ipmname, direction)
	if err != nil {
		return txid.ID{}, &UsageError{Err: err}
	}
	return id, nil
}

func newSendCommand(globals *globalFlags) *cobra.Command {
	flags := &transferFlags{}
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a file to the MIP peer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := flags.validate(txid.Send)
			if err != nil {
				return err
			}
			m := newManager(flags, globals)
			var result any
			if flags.encoding == "EBCDIC" {
				result, err = m.SendBinary(id, flags.file)
			} else {
				result, err = m.SendText(id, flags.file)
			}
			if err != nil {
				return fmt.Errorf("send: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "send complete: %+v\n", result)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newReceiveCommand(globals *globalFlags) *cobra.Command {
	flags := &transferFlags{}
	cmd := &cobra.Command{
		Use:   "receive",
		Short: "Receive a file from the MIP peer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := flags.validate(txid.Receive)
			if err != nil {
				return err
			}
			m := newManager(flags, globals)
			var result any
			if flags.encoding == "EBCDIC" {
				result, err = m.ReceiveBinary(id, flags.file)
			} else {
				result, err = m.ReceiveText(id, flags.file)
			}
			if err != nil {
				return fmt.Errorf("receive: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "receive complete: %+v\n", result)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newManager(flags *transferFlags, globals *globalFlags) *manager.Manager {
	cfg := config.Get()
	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
		go func() {
			if err := metrics.Serve(context.Background(), cfg.MetricsBind, cfg.MetricsPort); err != nil {
				slog.Default().Error("metrics server stopped", "error", err)
			}
		}()
	}
	return &manager.Manager{
		Host:    flags.ip,
		Port:    flags.port,
		Metrics: m,
		Logger:  logging.New(globals.verbose),
	}
}

func loggerFor(cmd *cobra.Command) *slog.Logger {
	verbose, err := cmd.Root().PersistentFlags().GetBool("verbose")
	if err != nil {
		return slog.Default()
	}
	return logging.New(verbose)
}
