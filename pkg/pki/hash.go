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
	"slices"

	"github.com/jeremyhahn/go-sshpki/pkg/types"
)

// PeerVersion is a comparable peer software version, parsed from the
// remote identification banner by the session layer.
type PeerVersion struct {
	Major int
	Minor int
	Patch int
}

// Before reports whether v is strictly older than major.minor.patch.
func (v PeerVersion) Before(major, minor, patch int) bool {
	if v.Major != major {
		return v.Major < major
	}
	if v.Minor != minor {
		return v.Minor < minor
	}
	return v.Patch < patch
}

// NegotiationContext carries the protocol-session inputs that influence
// digest and signature-algorithm selection. It is a plain value passed
// by the session layer; the PKI core only reads it, so negotiation
// functions stay pure and independently testable.
type NegotiationContext struct {
	// PeerIsOpenSSH gates version-based downgrade quirks. Version
	// comparisons only apply to OpenSSH peers; other implementations
	// advertise capability through extension flags alone.
	PeerIsOpenSSH bool
	PeerVersion   PeerVersion

	// ExtSigRSASHA256 and ExtSigRSASHA512 record the server-sig-algs
	// extension flags negotiated during key exchange (RFC 8332).
	ExtSigRSASHA256 bool
	ExtSigRSASHA512 bool

	// AllowedAlgorithms is the configured public-key algorithm list. An
	// empty list allows everything.
	AllowedAlgorithms []string

	// FIPSMode refuses SHA-1 pairings outright.
	FIPSMode bool
}

func (c *NegotiationContext) allows(algorithm string) bool {
	if c == nil || len(c.AllowedAlgorithms) == 0 {
		return true
	}
	return slices.Contains(c.AllowedAlgorithms, algorithm)
}

// CheckHashCompatible reports whether a digest may be paired with a key
// type. The matrix is fixed: DSS accepts SHA-1 only; the RSA family
// (plain, certificates, and RSA hybrids) accepts SHA-1 plus SHA-256 and
// SHA-512; each ECDSA curve accepts exactly the digest tied to its
// size, with P-256 hybrids bound to SHA-256; Ed25519, security-key, and
// pure post-quantum types determine their digest internally and accept
// only DigestAuto. Under fipsMode the SHA-1 pairings are refused.
//
// Any pairing outside the matrix returns ErrIncompatibleHash; callers
// must fail, never substitute.
func CheckHashCompatible(t types.KeyType, d types.Digest, fipsMode bool) error {
	plain := t.Plain()

	switch {
	case plain == types.DSS:
		if d == types.DigestSHA1 && !fipsMode {
			return nil
		}

	case plain == types.RSA || plain.IsRSAHybrid():
		switch d {
		case types.DigestSHA1:
			if !fipsMode {
				return nil
			}
		case types.DigestSHA256, types.DigestSHA512:
			return nil
		}

	case plain == types.ECDSAP256, plain == types.SKECDSA:
		if d == types.DigestSHA256 {
			return nil
		}

	case plain.IsECDSAHybrid():
		if d == types.DigestSHA256 {
			return nil
		}

	case plain == types.ECDSAP384:
		if d == types.DigestSHA384 {
			return nil
		}

	case plain == types.ECDSAP521:
		if d == types.DigestSHA512 {
			return nil
		}

	case plain == types.Ed25519, plain == types.SKEd25519, plain.IsPostQuantum():
		if d == types.DigestAuto {
			return nil
		}
	}

	return fmt.Errorf("%w: %v with %v", ErrIncompatibleHash, t, d)
}

// ResolveSignatureDigest selects the digest to sign with for a key type
// under the given session context.
//
// RSA is the negotiable family: SHA-512 is preferred, then SHA-256,
// each gated on both the corresponding extension flag and the allowed
// algorithm list, with SHA-1 as the terminal fallback. RSA certificates
// presented to OpenSSH peers older than 7.2.0 always use SHA-1; those
// releases predate the RFC 8332 names. Hybrid types always use SHA-256,
// every other family has exactly one answer.
func ResolveSignatureDigest(ctx *NegotiationContext, t types.KeyType) types.Digest {
	plain := t.Plain()

	if plain.IsHybrid() {
		return types.DigestSHA256
	}

	switch plain {
	case types.RSA:
		if t.IsCertificate() && ctx != nil && ctx.PeerIsOpenSSH && ctx.PeerVersion.Before(7, 2, 0) {
			return types.DigestSHA1
		}
		if ctx != nil {
			if ctx.ExtSigRSASHA512 && ctx.allows("rsa-sha2-512") {
				return types.DigestSHA512
			}
			if ctx.ExtSigRSASHA256 && ctx.allows("rsa-sha2-256") {
				return types.DigestSHA256
			}
		}
		return types.DigestSHA1

	case types.DSS:
		return types.DigestSHA1
	case types.ECDSAP256, types.SKECDSA:
		return types.DigestSHA256
	case types.ECDSAP384:
		return types.DigestSHA384
	case types.ECDSAP521:
		return types.DigestSHA512
	}

	// Ed25519, security-key Ed25519, pure post-quantum.
	return types.DigestAuto
}

// SignatureAlgorithmName returns the negotiated wire name a signature
// by this key type and digest travels under. OpenSSH peers older than
// 7.8.0 do not accept the RFC 8332 certificate names, so RSA
// certificates fall back to the legacy certificate identifier for them
// regardless of digest.
func SignatureAlgorithmName(ctx *NegotiationContext, t types.KeyType, d types.Digest) string {
	if t.Plain() == types.RSA && t.IsCertificate() &&
		ctx != nil && ctx.PeerIsOpenSSH && ctx.PeerVersion.Before(7, 8, 0) {
		return types.RSACert01.SignatureName(types.DigestSHA1)
	}
	return t.SignatureName(d)
}
