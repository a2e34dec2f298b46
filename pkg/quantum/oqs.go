//go:build quantum

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

package quantum

import "github.com/open-quantum-safe/liboqs-go/oqs"

// GenerateKeyPair creates a fresh post-quantum key pair for the scheme.
func GenerateKeyPair(s Scheme) (pub, sec []byte, err error) {
	signer := oqs.Signature{}
	if err := signer.Init(s.OQSName, nil); err != nil {
		return nil, nil, err
	}
	defer signer.Clean()

	pub, err = signer.GenerateKeyPair()
	if err != nil {
		return nil, nil, err
	}
	sec = signer.ExportSecretKey()
	return pub, sec, nil
}

// Sign produces a post-quantum signature over message with the secret key.
func Sign(s Scheme, sec, message []byte) ([]byte, error) {
	signer := oqs.Signature{}
	if err := signer.Init(s.OQSName, sec); err != nil {
		return nil, err
	}
	defer signer.Clean()

	sig, err := signer.Sign(message)
	if err != nil {
		return nil, ErrSignatureFailed
	}
	return sig, nil
}

// Verify checks a post-quantum signature against message and public key.
// A well-formed but invalid signature returns (false, nil).
func Verify(s Scheme, pub, message, sig []byte) (bool, error) {
	verifier := oqs.Signature{}
	if err := verifier.Init(s.OQSName, nil); err != nil {
		return false, err
	}
	defer verifier.Clean()

	return verifier.Verify(message, sig, pub)
}
