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

// Package kdf provides the key-derivation primitives used by SSH private
// key containers. The OpenSSH v1 container names its KDF on the wire;
// deriving a cipher key requires the exact algorithm the container names.
package kdf

import "errors"

var (
	// ErrUnknownKDF indicates a KDF name this package does not implement.
	ErrUnknownKDF = errors.New("kdf: unknown kdf name")

	// ErrInvalidParams indicates out-of-range derivation parameters.
	ErrInvalidParams = errors.New("kdf: invalid derivation parameters")
)

// KDF derives symmetric key material from a passphrase.
type KDF interface {
	// Name returns the wire identifier of the derivation function.
	Name() string

	// Derive stretches the passphrase into keyLen bytes.
	Derive(passphrase, salt []byte, rounds uint32, keyLen int) ([]byte, error)
}

// ForName returns the KDF registered under the given wire name.
func ForName(name string) (KDF, error) {
	switch name {
	case "bcrypt":
		return BcryptPBKDF{}, nil
	}
	return nil, ErrUnknownKDF
}
