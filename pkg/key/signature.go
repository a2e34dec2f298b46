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

import (
	"math/big"

	"github.com/jeremyhahn/go-sshpki/pkg/secret"
	"github.com/jeremyhahn/go-sshpki/pkg/types"
)

// DSASignatureValue holds the two components of a DSA signature.
type DSASignatureValue struct {
	R, S *big.Int
}

// ECDSASignatureValue holds the two components of an ECDSA signature.
type ECDSASignatureValue struct {
	R, S *big.Int
}

// Signature is one verification unit: the signing key's plain type, the
// digest used, and the algorithm-specific signature value. Signatures
// are one-shot objects; they hold no reference to the key that produced
// them and are destroyed immediately after use.
type Signature struct {
	// Type is the plain key type of the signing key (hybrid types keep
	// their own identifier).
	Type types.KeyType

	// HashType is the digest used for the signature.
	HashType types.Digest

	// Exactly one of the following value fields is populated, matching
	// Type's algorithm family. Hybrid signatures populate the classical
	// field and PQ together.
	RSA     []byte
	DSS     *DSASignatureValue
	ECDSA   *ECDSASignatureValue
	Ed25519 []byte
	PQ      []byte

	// SKFlags and SKCounter are the security-key assertion metadata read
	// from the wire; they are part of the verification input, not
	// ignorable trailers.
	SKFlags   uint8
	SKCounter uint32

	// Raw is an owned copy of the un-interpreted wire bytes, retained
	// for auditing and scrubbed on Destroy.
	Raw secret.Secret
}

// Destroy scrubs and releases the signature's buffers. Safe on nil and
// on repeat calls.
func (s *Signature) Destroy() {
	if s == nil {
		return
	}
	zeroBytes(s.RSA)
	s.RSA = nil
	if s.DSS != nil {
		zeroBigInt(s.DSS.R)
		zeroBigInt(s.DSS.S)
		s.DSS = nil
	}
	if s.ECDSA != nil {
		zeroBigInt(s.ECDSA.R)
		zeroBigInt(s.ECDSA.S)
		s.ECDSA = nil
	}
	zeroBytes(s.Ed25519)
	s.Ed25519 = nil
	zeroBytes(s.PQ)
	s.PQ = nil
	s.Raw.Zero()
	s.Type = types.Unknown
	s.HashType = types.DigestAuto
	s.SKFlags = 0
	s.SKCounter = 0
}
