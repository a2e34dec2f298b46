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

package sshwire

import "errors"

var (
	// ErrMalformed indicates a structurally invalid encoding: truncated
	// fields, length mismatches, bad magic, or corrupt padding. The input
	// is rejected whole; decoding never yields a partial key.
	ErrMalformed = errors.New("sshwire: malformed input")

	// ErrUnsupportedKeyType indicates a well-formed encoding whose
	// algorithm is outside the built capability set.
	ErrUnsupportedKeyType = errors.New("sshwire: unsupported key type")

	// ErrUnsupportedCipher indicates an OpenSSH container cipher this
	// codec does not implement.
	ErrUnsupportedCipher = errors.New("sshwire: unsupported cipher")

	// ErrMultipleKeys indicates an OpenSSH container declaring more than
	// one key. Only single-key files are supported.
	ErrMultipleKeys = errors.New("sshwire: multi-key containers not supported")

	// ErrPassphraseRequired indicates an encrypted container decoded
	// without a passphrase.
	ErrPassphraseRequired = errors.New("sshwire: passphrase required")

	// ErrWrongPassphrase indicates KDF-decryption produced mismatched
	// check integers. A wrong passphrase and a corrupted file are
	// indistinguishable here by design.
	ErrWrongPassphrase = errors.New("sshwire: wrong passphrase or corrupted file")
)
