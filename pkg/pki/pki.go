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

// Package pki orchestrates signing and verification: it validates
// key/digest pairings against the compatibility matrix, binds signatures
// to protocol sessions, applies the security-key verification framing,
// and dispatches to the per-family algorithm engines. All operations are
// synchronous and touch no shared mutable state.
package pki

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"fmt"

	"github.com/jeremyhahn/go-sshpki/pkg/key"
	"github.com/jeremyhahn/go-sshpki/pkg/quantum"
	"github.com/jeremyhahn/go-sshpki/pkg/sshwire"
	"github.com/jeremyhahn/go-sshpki/pkg/types"
	"github.com/jeremyhahn/go-sshpki/pkg/wire"
)

// Sign produces a signature over message with the given digest. The
// digest must be compatible with the key type; incompatible pairings
// fail with ErrIncompatibleHash rather than substituting a digest.
// Security-key types cannot be signed with in software and are refused.
func Sign(k *key.Key, message []byte, digest types.Digest) (*key.Signature, error) {
	if k == nil || !k.IsPrivate() {
		return nil, key.ErrMissingPrivateKey
	}
	if k.Type.IsSecurityKey() {
		return nil, fmt.Errorf("%w: %v requires external hardware", key.ErrUnsupportedKeyType, k.Type)
	}
	if err := CheckHashCompatible(k.Type, digest, false); err != nil {
		return nil, err
	}

	plain := k.Type.Plain()
	sig := &key.Signature{Type: plain, HashType: digest}

	switch {
	case plain.IsHybrid():
		if err := signClassical(k.Material, sig, message); err != nil {
			sig.Destroy()
			return nil, err
		}
		scheme, err := quantum.SchemeFor(plain)
		if err != nil {
			sig.Destroy()
			return nil, err
		}
		pq, err := quantum.Sign(scheme, k.PQSecret.Bytes(), message)
		if err != nil {
			sig.Destroy()
			return nil, err
		}
		sig.PQ = pq

	case plain.IsPostQuantum():
		scheme, err := quantum.SchemeFor(plain)
		if err != nil {
			sig.Destroy()
			return nil, err
		}
		pq, err := quantum.Sign(scheme, k.PQSecret.Bytes(), message)
		if err != nil {
			sig.Destroy()
			return nil, err
		}
		sig.PQ = pq

	default:
		if err := signClassical(k.Material, sig, message); err != nil {
			sig.Destroy()
			return nil, err
		}
	}
	return sig, nil
}

// SignSessionBound signs a protocol payload bound to a transport
// session. The signing input is the session identifier followed by the
// payload, each length-prefixed; signing the payload alone would allow
// a signature to be replayed on another session.
func SignSessionBound(sessionID, payload []byte, k *key.Key, digest types.Digest) (*key.Signature, error) {
	return Sign(k, sessionBoundInput(sessionID, payload), digest)
}

// VerifySessionBound verifies a signature produced by SignSessionBound
// against the same session identifier and payload.
func VerifySessionBound(sig *key.Signature, k *key.Key, sessionID, payload []byte) error {
	return Verify(sig, k, sessionBoundInput(sessionID, payload))
}

func sessionBoundInput(sessionID, payload []byte) []byte {
	var w wire.Writer
	w.WriteString(sessionID)
	w.WriteString(payload)
	return w.Bytes()
}

// Verify checks a signature against a key and message. A
// well-formed-but-invalid signature fails with ErrVerificationFailed;
// structural problems (type mismatch, incompatible digest, missing
// material) fail with their own kinds.
//
// The signature's algorithm family must match the key's plain type,
// with one exception: an RSA-named signature verifies against RSA
// hybrid key types, whose classical half travels under the plain RSA
// identifier. Security-key signatures verify a fixed reconstructed
// input — SHA-256(application) ‖ flags ‖ counter ‖ SHA-256(message) —
// never the message directly.
func Verify(sig *key.Signature, k *key.Key, message []byte) error {
	if sig == nil {
		return fmt.Errorf("%w: nil signature", sshwire.ErrMalformed)
	}
	if k == nil || !k.IsPublic() {
		return key.ErrMissingPublicKey
	}

	keyPlain := k.Type.Plain()
	sigPlain := sig.Type.Plain()
	if sigPlain != keyPlain && !(sigPlain == types.RSA && keyPlain.IsRSAHybrid()) {
		return fmt.Errorf("%w: signature %v against key %v", ErrTypeMismatch, sig.Type, k.Type)
	}
	if err := CheckHashCompatible(k.Type, sig.HashType, false); err != nil {
		return err
	}

	input := message
	if k.Type.IsSecurityKey() {
		input = securityKeyInput(k.SKApplication, sig, message)
	}

	switch {
	case keyPlain.IsHybrid():
		if err := verifyClassical(k.Material, keyPlain, sig, input); err != nil {
			return err
		}
		return verifyPQ(k, message, sig.PQ)

	case keyPlain.IsPostQuantum():
		return verifyPQ(k, message, sig.PQ)

	default:
		return verifyClassical(k.Material, keyPlain, sig, input)
	}
}

// securityKeyInput reconstructs the FIDO/U2F assertion input. The
// authenticator signs over the hashed application identifier, its flags
// byte, the touch counter, and the hashed message; this framing is
// fixed by the sk extension and not negotiable.
func securityKeyInput(application []byte, sig *key.Signature, message []byte) []byte {
	appHash := sha256.Sum256(application)
	msgHash := sha256.Sum256(message)

	input := make([]byte, 0, sha256.Size*2+5)
	input = append(input, appHash[:]...)
	input = append(input, sig.SKFlags)
	input = binary.BigEndian.AppendUint32(input, sig.SKCounter)
	input = append(input, msgHash[:]...)
	return input
}

func verifyPQ(k *key.Key, message, pqSig []byte) error {
	if pqSig == nil {
		return fmt.Errorf("%w: missing post-quantum signature half", sshwire.ErrMalformed)
	}
	scheme, err := quantum.SchemeFor(k.Type)
	if err != nil {
		return err
	}
	ok, err := quantum.Verify(scheme, k.PQPublic, message, pqSig)
	if err != nil {
		return err
	}
	if !ok {
		return ErrVerificationFailed
	}
	return nil
}

// Fingerprint returns the OpenSSH-style SHA-256 fingerprint of the
// key's public blob.
func Fingerprint(k *key.Key) (string, error) {
	blob, err := sshwire.EncodePublicKeyBlob(k)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(blob)
	return "SHA256:" + base64.RawStdEncoding.EncodeToString(sum[:]), nil
}
