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
	"crypto/dsa" //nolint:staticcheck // ssh-dss interoperability
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	"fmt"

	"github.com/jeremyhahn/go-sshpki/pkg/key"
	"github.com/jeremyhahn/go-sshpki/pkg/sshwire"
	"github.com/jeremyhahn/go-sshpki/pkg/types"
)

func hashInput(d types.Digest, input []byte) []byte {
	h := d.CryptoHash().New()
	h.Write(input)
	return h.Sum(nil)
}

// signClassical produces the classical signature component over input,
// storing the result in the matching sig field. The digest in
// sig.HashType has already passed the compatibility gate.
func signClassical(mat key.Material, sig *key.Signature, input []byte) error {
	switch m := mat.(type) {
	case *key.RSAMaterial:
		if m.Private == nil {
			return key.ErrMissingPrivateKey
		}
		value, err := rsa.SignPKCS1v15(rand.Reader, m.Private,
			sig.HashType.CryptoHash(), hashInput(sig.HashType, input))
		if err != nil {
			return fmt.Errorf("pki: rsa sign: %w", err)
		}
		sig.RSA = value
		return nil

	case *key.DSSMaterial:
		if m.Private == nil {
			return key.ErrMissingPrivateKey
		}
		r, s, err := dsa.Sign(rand.Reader, m.Private, hashInput(types.DigestSHA1, input))
		if err != nil {
			return fmt.Errorf("pki: dss sign: %w", err)
		}
		sig.DSS = &key.DSASignatureValue{R: r, S: s}
		return nil

	case *key.ECDSAMaterial:
		if m.Private == nil {
			return key.ErrMissingPrivateKey
		}
		r, s, err := ecdsa.Sign(rand.Reader, m.Private, hashInput(sig.HashType, input))
		if err != nil {
			return fmt.Errorf("pki: ecdsa sign: %w", err)
		}
		sig.ECDSA = &key.ECDSASignatureValue{R: r, S: s}
		return nil

	case *key.Ed25519Material:
		if m.Private == nil {
			return key.ErrMissingPrivateKey
		}
		sig.Ed25519 = ed25519.Sign(m.Private, input)
		return nil
	}

	return fmt.Errorf("%w: no signing engine for %v", key.ErrUnsupportedKeyType, sig.Type)
}

// verifyClassical checks the classical signature component against
// input. Verification failure of a structurally sound signature yields
// ErrVerificationFailed; a missing component is malformed input.
func verifyClassical(mat key.Material, keyPlain types.KeyType, sig *key.Signature, input []byte) error {
	switch m := mat.(type) {
	case *key.RSAMaterial:
		if m.Public == nil {
			return key.ErrMissingPublicKey
		}
		if sig.RSA == nil {
			return fmt.Errorf("%w: missing rsa signature value", sshwire.ErrMalformed)
		}
		if err := rsa.VerifyPKCS1v15(m.Public, sig.HashType.CryptoHash(),
			hashInput(sig.HashType, input), sig.RSA); err != nil {
			return ErrVerificationFailed
		}
		return nil

	case *key.DSSMaterial:
		if m.Public == nil {
			return key.ErrMissingPublicKey
		}
		if sig.DSS == nil {
			return fmt.Errorf("%w: missing dss signature value", sshwire.ErrMalformed)
		}
		if !dsa.Verify(m.Public, hashInput(types.DigestSHA1, input), sig.DSS.R, sig.DSS.S) {
			return ErrVerificationFailed
		}
		return nil

	case *key.ECDSAMaterial:
		if m.Public == nil {
			return key.ErrMissingPublicKey
		}
		if sig.ECDSA == nil {
			return fmt.Errorf("%w: missing ecdsa signature value", sshwire.ErrMalformed)
		}
		if !ecdsa.Verify(m.Public, hashInput(sig.HashType, input), sig.ECDSA.R, sig.ECDSA.S) {
			return ErrVerificationFailed
		}
		return nil

	case *key.Ed25519Material:
		if m.Public == nil {
			return key.ErrMissingPublicKey
		}
		if len(sig.Ed25519) != ed25519.SignatureSize {
			return fmt.Errorf("%w: missing ed25519 signature value", sshwire.ErrMalformed)
		}
		if !ed25519.Verify(m.Public, input, sig.Ed25519) {
			return ErrVerificationFailed
		}
		return nil
	}

	return fmt.Errorf("%w: no verification engine for %v", key.ErrUnsupportedKeyType, keyPlain)
}
