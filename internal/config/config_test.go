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

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/DiegoNoriegaVela/MIP/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 3389, cfg.MIPPort)
	assert.Equal(t, "101", cfg.DefaultType)
	assert.Equal(t, "127.0.0.1", cfg.MetricsBind)
	assert.Equal(t, 9090, cfg.MetricsPort)
	assert.False(t, cfg.MetricsEnabled)
	assert.False(t, cfg.Verbose)
}

func TestLoadReadsEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("MIP_HOST", "mip.example.com")
	t.Setenv("MIP_PORT", "4000")
	t.Setenv("MIP_VERBOSE", "1")
	t.Setenv("MIP_METRICS_ENABLED", "1")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "mip.example.com", cfg.MIPHost)
	assert.Equal(t, 4000, cfg.MIPPort)
	assert.True(t, cfg.Verbose)
	assert.True(t, cfg.MetricsEnabled)
}

func TestLoadRejectsNonIntegerPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("MIP_PORT", "not-a-number")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoadOverlaysYAMLFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "mip.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mipHost: yaml-host\nendpointId: \"00157\"\n"), 0o644))
	t.Setenv("MIP_CONFIG_FILE", path)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "yaml-host", cfg.MIPHost)
	assert.Equal(t, "00157", cfg.EndpointID)
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"MIP_HOST", "MIP_PORT", "MIP_ENDPOINT_ID", "MIP_DEFAULT_TYPE",
		"MIP_VERBOSE", "MIP_METRICS_BIND", "MIP_METRICS_PORT",
		"MIP_METRICS_ENABLED", "MIP_CONFIG_FILE",
	} {
		t.Setenv(key, "")
	}
}
