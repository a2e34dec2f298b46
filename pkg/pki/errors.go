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

import "errors"

var (
	// ErrIncompatibleHash indicates a key type and digest pairing outside
	// the compatibility matrix, or one the active compliance policy
	// forbids. The operation fails; no substitute digest is chosen.
	ErrIncompatibleHash = errors.New("pki: digest algorithm incompatible with key type")

	// ErrVerificationFailed indicates a structurally valid signature that
	// does not verify against the key and message. This is the expected
	// negative outcome of Verify, distinct from malformed input.
	ErrVerificationFailed = errors.New("pki: signature verification failed")

	// ErrTypeMismatch indicates a signature whose algorithm family does
	// not match the verifying key.
	ErrTypeMismatch = errors.New("pki: signature type does not match key type")

	// ErrFileTooLarge indicates a key file above the import size ceiling.
	ErrFileTooLarge = errors.New("pki: key file exceeds maximum size")
)
