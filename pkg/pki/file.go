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
	"fmt"
	"os"
	"os/user"

	"github.com/jeremyhahn/go-sshpki/pkg/key"
	"github.com/jeremyhahn/go-sshpki/pkg/secret"
	"github.com/jeremyhahn/go-sshpki/pkg/sshwire"
	"github.com/jeremyhahn/go-sshpki/pkg/types"
)

// Import size ceilings. Oversized files are rejected outright, never
// truncated.
const (
	MaxPrivateKeyFileSize = 8 << 20 // 8 MiB
	MaxPublicKeyFileSize  = 64 << 10
)

// PrivateKeyFormat selects the on-disk container for private key export.
type PrivateKeyFormat int

const (
	// FormatAuto uses the OpenSSH container for Ed25519 and post-quantum
	// keys and traditional PEM for everything else.
	FormatAuto PrivateKeyFormat = iota
	// FormatPEM forces PEM (legacy or PKCS#8 per key type).
	FormatPEM
	// FormatOpenSSH forces the OpenSSH v1 container.
	FormatOpenSSH
)

// readCapped reads a whole file, rejecting anything over the ceiling.
// A missing file surfaces as fs.ErrNotExist so callers can treat
// "absent" distinctly from other read failures.
func readCapped(path string, ceiling int64) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > ceiling {
		return nil, fmt.Errorf("%w: %s is %d bytes (limit %d)",
			ErrFileTooLarge, path, info.Size(), ceiling)
	}
	return os.ReadFile(path)
}

// ImportPrivateKeyFile reads and parses a private key file in any
// supported container, prompting no one: the passphrase, if needed,
// must already be in hand.
func ImportPrivateKeyFile(path string, passphrase secret.Secret) (*key.Key, error) {
	data, err := readCapped(path, MaxPrivateKeyFileSize)
	if err != nil {
		return nil, err
	}
	return sshwire.DecodePEMPrivateKey(data, passphrase)
}

// ImportPublicKeyFile reads and parses an authorized_keys-format public
// key file.
func ImportPublicKeyFile(path string) (*key.Key, error) {
	data, err := readCapped(path, MaxPublicKeyFileSize)
	if err != nil {
		return nil, err
	}
	return sshwire.DecodeAuthorizedKey(data)
}

// ExportPrivateKeyFile writes a private key with 0600 permissions.
func ExportPrivateKeyFile(k *key.Key, path string, passphrase secret.Secret, format PrivateKeyFormat) error {
	if k == nil || !k.IsPrivate() {
		return key.ErrMissingPrivateKey
	}

	useOpenSSH := format == FormatOpenSSH
	if format == FormatAuto {
		plain := k.Type.Plain()
		useOpenSSH = plain == types.Ed25519 || plain.IsPostQuantum()
	}

	var (
		data []byte
		err  error
	)
	if useOpenSSH {
		data, err = sshwire.EncodeOpenSSHPrivateKey(k, passphrase)
	} else {
		data, err = sshwire.EncodePEMPrivateKey(k, passphrase)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// ExportPublicKeyFile writes the key's authorized_keys line with 0644
// permissions. An empty comment defaults to user@host, matching
// ssh-keygen.
func ExportPublicKeyFile(k *key.Key, path string, comment string) error {
	if comment == "" {
		comment = defaultComment()
	}
	line, err := sshwire.EncodeAuthorizedKey(k, comment)
	if err != nil {
		return err
	}
	return os.WriteFile(path, line, 0o644)
}

func defaultComment() string {
	username := "unknown"
	if u, err := user.Current(); err == nil {
		username = u.Username
	}
	host, err := os.Hostname()
	if err != nil {
		host = "localhost"
	}
	return username + "@" + host
}
