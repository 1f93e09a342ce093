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

// Package config loads the process-wide configuration: MIP endpoint
// defaults, the diagnostic verbosity flag, and the optional metrics
// server bind address. Values come from environment variables, with an
// optional YAML file filling in fields that are awkward to express as
// flat env vars.
package config

import (
	"fmt"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"gopkg.in/yaml.v3"
)

// Config stores the application configuration.
type Config struct {
	// MIPHost and MIPPort name the peer endpoint used when a command
	// does not supply --ip/--port explicitly.
	MIPHost string `yaml:"mipHost"`
	MIPPort int    `yaml:"mipPort"`

	// EndpointID and DefaultType hold endpoint (EEEEE) and transmission
	// type (ttt) values from MIP_ENDPOINT_ID / MIP_DEFAULT_TYPE or the
	// YAML file. No command reads them: a Transmission ID must still
	// carry both fields itself.
	EndpointID  string `yaml:"endpointId"`
	DefaultType string `yaml:"defaultType"`

	// Verbose records whether MIP_VERBOSE is set. The commands take their
	// verbosity from the --verbose flag; no package reads this field.
	Verbose bool `yaml:"-"`

	// MetricsEnabled, MetricsBind, and MetricsPort gate the optional
	// Prometheus exposition server; disabled by default so a one-shot
	// CLI invocation never opens a listener.
	MetricsEnabled bool   `yaml:"metricsEnabled"`
	MetricsBind    string `yaml:"metricsBind"`
	MetricsPort    int    `yaml:"metricsPort"`
}

var (
	current atomic.Pointer[Config]
	isInit  atomic.Bool
	loaded  atomic.Bool
)

// Load reads the environment, overlays an optional YAML file named by
// MIP_CONFIG_FILE, applies defaults, and returns the result. It does not
// affect the process-wide singleton returned by Get.
func Load() (*Config, error) {
	cfg := &Config{
		MIPHost:     os.Getenv("MIP_HOST"),
		EndpointID:  os.Getenv("MIP_ENDPOINT_ID"),
		DefaultType: os.Getenv("MIP_DEFAULT_TYPE"),
		Verbose:     os.Getenv("MIP_VERBOSE") != "",
		MetricsBind: os.Getenv("MIP_METRICS_BIND"),
	}

	if portStr := os.Getenv("MIP_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("config: MIP_PORT %q is not a valid integer: %w", portStr, err)
		}
		cfg.MIPPort = port
	}
	if portStr := os.Getenv("MIP_METRICS_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("config: MIP_METRICS_PORT %q is not a valid integer: %w", portStr, err)
		}
		cfg.MetricsPort = port
	}
	cfg.MetricsEnabled = os.Getenv("MIP_METRICS_ENABLED") != ""

	if path := os.Getenv("MIP_CONFIG_FILE"); path != "" {
		if err := overlayYAML(cfg, path); err != nil {
			return nil, err
		}
	}

	applyDefaults(cfg)
	return cfg, nil
}

func overlayYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.MIPPort == 0 {
		cfg.MIPPort = 3389
	}
	if cfg.DefaultType == "" {
		cfg.DefaultType = "101"
	}
	if cfg.MetricsBind == "" {
		cfg.MetricsBind = "127.0.0.1"
	}
	if cfg.MetricsPort == 0 {
		cfg.MetricsPort = 9090
	}
}

// Get obtains the process-wide configuration, loading it from the
// environment on first call and caching the result for subsequent
// callers, mirroring the atomic-singleton pattern used elsewhere in this
// codebase's ancestry. Prefer Load directly in tests or anywhere the
// singleton's process-global lifetime is undesirable.
func Get() *Config {
	lastInit := isInit.Swap(true)
	if !lastInit {
		cfg, err := Load()
		if err != nil {
			// Configuration is read once at process start; a malformed
			// environment is a usage error, not a recoverable runtime one.
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		current.Store(cfg)
		loaded.Store(true)
	}
	for !loaded.Load() {
		const loadDelay = 100 * time.Microsecond
		time.Sleep(loadDelay)
	}
	return current.Load()
}
