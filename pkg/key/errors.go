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

package key

import "errors"

var (
	// ErrUnsupportedKeyType indicates a key type outside the operation's
	// capability set (unknown, certificate, or security-key types passed
	// to generation, for example).
	ErrUnsupportedKeyType = errors.New("key: unsupported key type")

	// ErrInvalidParameter indicates an algorithm parameter out of range,
	// such as an unsupported RSA or DSA bit length.
	ErrInvalidParameter = errors.New("key: invalid generation parameter")

	// ErrMissingPrivateKey indicates an operation requiring private
	// material was invoked on a public-only key.
	ErrMissingPrivateKey = errors.New("key: private key material required")

	// ErrMissingPublicKey indicates a key with no public material.
	ErrMissingPublicKey = errors.New("key: public key material required")

	// ErrAlreadyCertified indicates an attempt to attach a certificate to
	// a key that already carries one.
	ErrAlreadyCertified = errors.New("key: key already carries a certificate")

	// ErrNoCertificate indicates the source key carries no certificate blob.
	ErrNoCertificate = errors.New("key: no certificate blob present")
)
