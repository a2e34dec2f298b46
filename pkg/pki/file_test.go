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

package pki

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/jeremyhahn/go-sshpki/pkg/key"
	"github.com/jeremyhahn/go-sshpki/pkg/secret"
	"github.com/jeremyhahn/go-sshpki/pkg/sshwire"
	"github.com/jeremyhahn/go-sshpki/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrivateKeyFileRoundTrip(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		keyType types.KeyType
		format  PrivateKeyFormat
	}{
		{"rsa-pem", types.RSA, FormatAuto},
		{"ecdsa-pem", types.ECDSAP256, FormatAuto},
		{"ed25519-openssh", types.Ed25519, FormatAuto},
		{"rsa-openssh", types.RSA, FormatOpenSSH},
		{"ed25519-pem", types.Ed25519, FormatPEM},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parameter := 0
			if tt.keyType == types.RSA {
				parameter = 1024
			}
			k := mustGenerate(t, tt.keyType, parameter)
			path := filepath.Join(dir, tt.name)

			require.NoError(t, ExportPrivateKeyFile(k, path, nil, tt.format))
			if runtime.GOOS != "windows" {
				info, err := os.Stat(path)
				require.NoError(t, err)
				assert.Equal(t, fs.FileMode(0o600), info.Mode().Perm())
			}

			imported, err := ImportPrivateKeyFile(path, nil)
			require.NoError(t, err)
			t.Cleanup(imported.Destroy)
			assert.True(t, k.Equal(imported, key.ComparePrivate))
		})
	}
}

func TestPrivateKeyFileEncrypted(t *testing.T) {
	if testing.Short() {
		t.Skip("rsa-2048 generation plus bcrypt kdf is slow")
	}
	dir := t.TempDir()
	k := mustGenerate(t, types.RSA, 2048)
	path := filepath.Join(dir, "id_rsa")

	require.NoError(t, ExportPrivateKeyFile(k, path, secret.FromString("test123"), FormatOpenSSH))

	imported, err := ImportPrivateKeyFile(path, secret.FromString("test123"))
	require.NoError(t, err)
	t.Cleanup(imported.Destroy)
	assert.True(t, k.Equal(imported, key.ComparePrivate))

	_, err = ImportPrivateKeyFile(path, secret.FromString("wrong"))
	assert.ErrorIs(t, err, sshwire.ErrWrongPassphrase)
}

func TestPublicKeyFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	k := mustGenerate(t, types.Ed25519, 0)
	path := filepath.Join(dir, "id_ed25519.pub")

	require.NoError(t, ExportPublicKeyFile(k, path, "alice@host"))

	imported, err := ImportPublicKeyFile(path)
	require.NoError(t, err)
	t.Cleanup(imported.Destroy)
	assert.True(t, k.Equal(imported, key.ComparePublic))
	assert.Equal(t, "alice@host", imported.Comment)
}

func TestPublicKeyFileDefaultComment(t *testing.T) {
	dir := t.TempDir()
	k := mustGenerate(t, types.Ed25519, 0)
	path := filepath.Join(dir, "id_ed25519.pub")

	require.NoError(t, ExportPublicKeyFile(k, path, ""))

	imported, err := ImportPublicKeyFile(path)
	require.NoError(t, err)
	t.Cleanup(imported.Destroy)
	assert.Contains(t, imported.Comment, "@")
}

func TestImportMissingFile(t *testing.T) {
	_, err := ImportPrivateKeyFile(filepath.Join(t.TempDir(), "absent"), nil)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestImportOversizedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "huge.pub")
	require.NoError(t, os.WriteFile(path, make([]byte, MaxPublicKeyFileSize+1), 0o644))

	_, err := ImportPublicKeyFile(path)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestExportRequiresPrivate(t *testing.T) {
	k := mustGenerate(t, types.Ed25519, 0)
	pub := k.Dup(true)
	t.Cleanup(pub.Destroy)

	err := ExportPrivateKeyFile(pub, filepath.Join(t.TempDir(), "x"), nil, FormatAuto)
	assert.ErrorIs(t, err, key.ErrMissingPrivateKey)
}
