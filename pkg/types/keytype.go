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

// Package types defines the SSH key algorithm registry: key type
// identifiers, their wire-format names, digest algorithms, and the
// certificate/plain-key relationships used throughout the codebase.
//
// The registry is a static, read-only table. Lookups are pure functions
// and safe for concurrent use without locking.
package types

import (
	"crypto"
	"crypto/elliptic"
)

// =============================================================================
// Key Type Identifiers
// =============================================================================
// Each key type identifies an algorithm family plus its wire-format
// framing: plain public keys, OpenSSH certificates, FIDO/U2F security
// keys, and the optional post-quantum and hybrid families.

// KeyType identifies an SSH key algorithm family.
type KeyType int

const (
	// Unknown is the zero value returned for unrecognized wire names.
	Unknown KeyType = iota

	// Classical key types.
	RSA
	DSS
	ECDSAP256
	ECDSAP384
	ECDSAP521
	Ed25519

	// FIDO/U2F security-key variants (sk-* types).
	SKECDSA
	SKEd25519

	// Certificate variants (*-cert-v01@openssh.com).
	RSACert01
	DSSCert01
	ECDSAP256Cert01
	ECDSAP384Cert01
	ECDSAP521Cert01
	Ed25519Cert01
	SKECDSACert01
	SKEd25519Cert01

	// Pure post-quantum signature key types.
	Dilithium2
	Falcon512
	SphincsSHA256128FRobust

	// Hybrid key types: a classical component plus a post-quantum
	// component, signed and verified independently and framed together.
	RSA3072Dilithium2
	RSA3072Falcon512
	RSA3072SphincsSHA256128FRobust
	P256Dilithium2
	P256Falcon512
	P256SphincsSHA256128FRobust
)

// =============================================================================
// Classification Flags
// =============================================================================
// Key type categories are table rows, not case labels: adding a family
// means adding a registry entry, never editing dispatch sites.

type classFlags uint8

const (
	classCertificate classFlags = 1 << iota
	classSecurityKey
	classPostQuantum
	classHybrid
	classRSAHybrid
	classECDSAHybrid
)

type entry struct {
	name  string
	plain KeyType
	class classFlags
}

// registry is the authoritative key type table. It is never mutated
// after package initialization.
var registry = map[KeyType]entry{
	RSA:       {name: "ssh-rsa", plain: RSA},
	DSS:       {name: "ssh-dss", plain: DSS},
	ECDSAP256: {name: "ecdsa-sha2-nistp256", plain: ECDSAP256},
	ECDSAP384: {name: "ecdsa-sha2-nistp384", plain: ECDSAP384},
	ECDSAP521: {name: "ecdsa-sha2-nistp521", plain: ECDSAP521},
	Ed25519:   {name: "ssh-ed25519", plain: Ed25519},

	SKECDSA:   {name: "sk-ecdsa-sha2-nistp256@openssh.com", plain: SKECDSA, class: classSecurityKey},
	SKEd25519: {name: "sk-ssh-ed25519@openssh.com", plain: SKEd25519, class: classSecurityKey},

	RSACert01:       {name: "ssh-rsa-cert-v01@openssh.com", plain: RSA, class: classCertificate},
	DSSCert01:       {name: "ssh-dss-cert-v01@openssh.com", plain: DSS, class: classCertificate},
	ECDSAP256Cert01: {name: "ecdsa-sha2-nistp256-cert-v01@openssh.com", plain: ECDSAP256, class: classCertificate},
	ECDSAP384Cert01: {name: "ecdsa-sha2-nistp384-cert-v01@openssh.com", plain: ECDSAP384, class: classCertificate},
	ECDSAP521Cert01: {name: "ecdsa-sha2-nistp521-cert-v01@openssh.com", plain: ECDSAP521, class: classCertificate},
	Ed25519Cert01:   {name: "ssh-ed25519-cert-v01@openssh.com", plain: Ed25519, class: classCertificate},
	SKECDSACert01:   {name: "sk-ecdsa-sha2-nistp256-cert-v01@openssh.com", plain: SKECDSA, class: classCertificate | classSecurityKey},
	SKEd25519Cert01: {name: "sk-ssh-ed25519-cert-v01@openssh.com", plain: SKEd25519, class: classCertificate | classSecurityKey},

	Dilithium2:              {name: "ssh-dilithium2", plain: Dilithium2, class: classPostQuantum},
	Falcon512:               {name: "ssh-falcon512", plain: Falcon512, class: classPostQuantum},
	SphincsSHA256128FRobust: {name: "ssh-sphincssha256128frobust", plain: SphincsSHA256128FRobust, class: classPostQuantum},

	RSA3072Dilithium2:              {name: "ssh-rsa3072-dilithium2", plain: RSA3072Dilithium2, class: classPostQuantum | classHybrid | classRSAHybrid},
	RSA3072Falcon512:               {name: "ssh-rsa3072-falcon512", plain: RSA3072Falcon512, class: classPostQuantum | classHybrid | classRSAHybrid},
	RSA3072SphincsSHA256128FRobust: {name: "ssh-rsa3072-sphincssha256128frobust", plain: RSA3072SphincsSHA256128FRobust, class: classPostQuantum | classHybrid | classRSAHybrid},
	P256Dilithium2:                 {name: "ssh-p256-dilithium2", plain: P256Dilithium2, class: classPostQuantum | classHybrid | classECDSAHybrid},
	P256Falcon512:                  {name: "ssh-p256-falcon512", plain: P256Falcon512, class: classPostQuantum | classHybrid | classECDSAHybrid},
	P256SphincsSHA256128FRobust:    {name: "ssh-p256-sphincssha256128frobust", plain: P256SphincsSHA256128FRobust, class: classPostQuantum | classHybrid | classECDSAHybrid},
}

// byName is the exact-match reverse index built once at init.
var byName map[string]KeyType

// aliases accepted by KeyTypeFromName in addition to canonical wire names.
var aliases = map[string]KeyType{
	"rsa":       RSA,
	"dsa":       DSS,
	"ecdsa":     ECDSAP256,
	"ssh-ecdsa": ECDSAP256,
	"ed25519":   Ed25519,
}

func init() {
	byName = make(map[string]KeyType, len(registry))
	for t, e := range registry {
		byName[e.name] = t
	}
}

// Name returns the canonical wire-format name for the key type, or the
// empty string for unknown or reserved values.
func (t KeyType) Name() string {
	return registry[t].name
}

// String implements fmt.Stringer. Unknown values render as "unknown".
func (t KeyType) String() string {
	if e, ok := registry[t]; ok {
		return e.name
	}
	return "unknown"
}

// Plain returns the non-certificate counterpart of a certificate key
// type. Applying Plain to an already-plain type returns it unchanged.
// Unknown input yields Unknown.
func (t KeyType) Plain() KeyType {
	return registry[t].plain
}

// IsCertificate reports whether the key type is a certificate variant.
func (t KeyType) IsCertificate() bool {
	return registry[t].class&classCertificate != 0
}

// IsSecurityKey reports whether the key type is a FIDO/U2F
// hardware-backed (sk-*) variant.
func (t KeyType) IsSecurityKey() bool {
	return registry[t].class&classSecurityKey != 0
}

// IsPostQuantum reports whether the key type carries a post-quantum
// component (pure PQ or hybrid).
func (t KeyType) IsPostQuantum() bool {
	return registry[t].class&classPostQuantum != 0
}

// IsHybrid reports whether the key type combines a classical and a
// post-quantum component.
func (t KeyType) IsHybrid() bool {
	return registry[t].class&classHybrid != 0
}

// IsRSAHybrid reports whether the key type is an RSA-classical hybrid.
// RSA hybrids keep the classical "ssh-rsa" identifier on their classical
// signature component, so verification accepts RSA-named signatures for
// these key types.
func (t KeyType) IsRSAHybrid() bool {
	return registry[t].class&classRSAHybrid != 0
}

// IsECDSAHybrid reports whether the key type is a P-256 classical hybrid.
func (t KeyType) IsECDSAHybrid() bool {
	return registry[t].class&classECDSAHybrid != 0
}

// KeyTypeFromName maps a wire-format name (or a short alias such as
// "rsa" or "dsa") to its key type. Matching is exact and case-sensitive.
// Unrecognized names return Unknown, never an error or a panic.
func KeyTypeFromName(name string) KeyType {
	if t, ok := byName[name]; ok {
		return t
	}
	if t, ok := aliases[name]; ok {
		return t
	}
	return Unknown
}

// KeyTypeFromSignatureName maps a negotiated signature-algorithm name to
// the key type that produces it. This differs from KeyTypeFromName only
// for the RSA SHA-2 signature names, which map back to the plain RSA
// key type.
func KeyTypeFromSignatureName(name string) KeyType {
	switch name {
	case "rsa-sha2-256", "rsa-sha2-512":
		return RSA
	}
	return KeyTypeFromName(name)
}

// ECDSACurve returns the elliptic curve for ECDSA key types, including
// certificate, security-key, and P-256 hybrid variants. It returns nil
// for non-ECDSA types.
func (t KeyType) ECDSACurve() elliptic.Curve {
	switch t.Plain() {
	case ECDSAP256, SKECDSA:
		return elliptic.P256()
	case ECDSAP384:
		return elliptic.P384()
	case ECDSAP521:
		return elliptic.P521()
	}
	if t.IsECDSAHybrid() {
		return elliptic.P256()
	}
	return nil
}

// ECDSACurveName returns the SSH curve identifier ("nistp256" et al)
// embedded in ECDSA public key blobs, or the empty string for
// non-ECDSA types.
func (t KeyType) ECDSACurveName() string {
	switch t.Plain() {
	case ECDSAP256, SKECDSA:
		return "nistp256"
	case ECDSAP384:
		return "nistp384"
	case ECDSAP521:
		return "nistp521"
	}
	if t.IsECDSAHybrid() {
		return "nistp256"
	}
	return ""
}

// =============================================================================
// Digest Algorithms
// =============================================================================

// Digest identifies the hash algorithm paired with a key type during
// signing and verification.
type Digest int

const (
	// DigestAuto is the sentinel for algorithms that determine their own
	// digest internally (Ed25519, security keys, post-quantum schemes).
	DigestAuto Digest = iota
	DigestSHA1
	DigestSHA256
	DigestSHA384
	DigestSHA512
)

// String implements fmt.Stringer.
func (d Digest) String() string {
	switch d {
	case DigestAuto:
		return "auto"
	case DigestSHA1:
		return "sha1"
	case DigestSHA256:
		return "sha256"
	case DigestSHA384:
		return "sha384"
	case DigestSHA512:
		return "sha512"
	}
	return "invalid"
}

// CryptoHash maps the digest to the standard library hash identifier.
// DigestAuto has no stdlib counterpart and maps to the zero value.
func (d Digest) CryptoHash() crypto.Hash {
	switch d {
	case DigestSHA1:
		return crypto.SHA1
	case DigestSHA256:
		return crypto.SHA256
	case DigestSHA384:
		return crypto.SHA384
	case DigestSHA512:
		return crypto.SHA512
	}
	return 0
}

// SignatureName returns the wire name used for a signature produced by
// this key type with the given digest. For most families the signature
// name equals the key type name; RSA and RSA certificates encode the
// digest in the negotiated name (RFC 8332).
func (t KeyType) SignatureName(d Digest) string {
	switch t {
	case RSA:
		switch d {
		case DigestSHA256:
			return "rsa-sha2-256"
		case DigestSHA512:
			return "rsa-sha2-512"
		case DigestSHA1, DigestAuto:
			return "ssh-rsa"
		default:
			return ""
		}
	case RSACert01:
		switch d {
		case DigestSHA256:
			return "rsa-sha2-256-cert-v01@openssh.com"
		case DigestSHA512:
			return "rsa-sha2-512-cert-v01@openssh.com"
		case DigestSHA1, DigestAuto:
			return "ssh-rsa-cert-v01@openssh.com"
		default:
			return ""
		}
	}
	return t.Name()
}

// DigestFromSignatureName returns the digest implied by a signature
// algorithm wire name. Names whose digest is determined by the algorithm
// itself, and unrecognized names, return DigestAuto.
func DigestFromSignatureName(name string) Digest {
	switch name {
	case "ssh-rsa", "ssh-dss":
		return DigestSHA1
	case "rsa-sha2-256", "ecdsa-sha2-nistp256", "sk-ecdsa-sha2-nistp256@openssh.com":
		return DigestSHA256
	case "ecdsa-sha2-nistp384":
		return DigestSHA384
	case "rsa-sha2-512", "ecdsa-sha2-nistp521":
		return DigestSHA512
	}
	t := KeyTypeFromName(name)
	if t.IsHybrid() {
		return DigestSHA256
	}
	return DigestAuto
}
