// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-sshpki.
//
// go-sshpki is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, cfg.Load())

	assert.Equal(t, "ed25519", cfg.DefaultKeyType)
	assert.Equal(t, 3072, cfg.DefaultBits)
	assert.False(t, cfg.FIPSMode)
	assert.Empty(t, cfg.AllowedAlgorithms)
}

func TestConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sshpki.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"key_type: rsa\nbits: 4096\nfips: true\nallowed_algorithms:\n  - rsa-sha2-256\n"), 0o644))

	cfg := NewConfig()
	cfg.ConfigFile = path
	require.NoError(t, cfg.Load())

	assert.Equal(t, "rsa", cfg.DefaultKeyType)
	assert.Equal(t, 4096, cfg.DefaultBits)
	assert.True(t, cfg.FIPSMode)
	assert.Equal(t, []string{"rsa-sha2-256"}, cfg.AllowedAlgorithms)
}

func TestConfigMissingExplicitFile(t *testing.T) {
	cfg := NewConfig()
	cfg.ConfigFile = filepath.Join(t.TempDir(), "absent.yaml")
	assert.Error(t, cfg.Load())
}

func TestConfigFlagWinsOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sshpki.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fips: false\n"), 0o644))

	cfg := NewConfig()
	cfg.ConfigFile = path
	cfg.FIPSMode = true // set by flag before Load
	require.NoError(t, cfg.Load())
	assert.True(t, cfg.FIPSMode)
}

func TestNegotiationContext(t *testing.T) {
	cfg := NewConfig()
	cfg.FIPSMode = true
	cfg.AllowedAlgorithms = []string{"rsa-sha2-512"}

	ctx := cfg.NegotiationContext()
	assert.True(t, ctx.ExtSigRSASHA256)
	assert.True(t, ctx.ExtSigRSASHA512)
	assert.True(t, ctx.FIPSMode)
	assert.Equal(t, []string{"rsa-sha2-512"}, ctx.AllowedAlgorithms)
}
