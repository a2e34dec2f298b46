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
	"testing"

	"github.com/jeremyhahn/go-sshpki/pkg/types"
	"github.com/stretchr/testify/assert"
)

var allKeyTypes = []types.KeyType{
	types.RSA, types.DSS,
	types.ECDSAP256, types.ECDSAP384, types.ECDSAP521,
	types.Ed25519, types.SKECDSA, types.SKEd25519,
	types.RSACert01, types.DSSCert01,
	types.ECDSAP256Cert01, types.ECDSAP384Cert01, types.ECDSAP521Cert01,
	types.Ed25519Cert01, types.SKECDSACert01, types.SKEd25519Cert01,
	types.Dilithium2, types.Falcon512, types.SphincsSHA256128FRobust,
	types.RSA3072Dilithium2, types.RSA3072Falcon512, types.RSA3072SphincsSHA256128FRobust,
	types.P256Dilithium2, types.P256Falcon512, types.P256SphincsSHA256128FRobust,
}

var allDigests = []types.Digest{
	types.DigestAuto, types.DigestSHA1,
	types.DigestSHA256, types.DigestSHA384, types.DigestSHA512,
}

// compatible is an independent statement of the matrix, per family.
func compatible(t types.KeyType, d types.Digest, fips bool) bool {
	plain := t.Plain()
	switch {
	case plain == types.DSS:
		return d == types.DigestSHA1 && !fips
	case plain == types.RSA || plain.IsRSAHybrid():
		switch d {
		case types.DigestSHA1:
			return !fips
		case types.DigestSHA256, types.DigestSHA512:
			return true
		}
		return false
	case plain == types.ECDSAP256, plain == types.SKECDSA, plain.IsECDSAHybrid():
		return d == types.DigestSHA256
	case plain == types.ECDSAP384:
		return d == types.DigestSHA384
	case plain == types.ECDSAP521:
		return d == types.DigestSHA512
	default:
		// Ed25519, sk-ed25519, pure post-quantum.
		return d == types.DigestAuto
	}
}

func TestCheckHashCompatibleMatrix(t *testing.T) {
	for _, kt := range allKeyTypes {
		for _, d := range allDigests {
			for _, fips := range []bool{false, true} {
				err := CheckHashCompatible(kt, d, fips)
				if compatible(kt, d, fips) {
					assert.NoError(t, err, "%v with %v (fips=%v)", kt, d, fips)
				} else {
					assert.ErrorIs(t, err, ErrIncompatibleHash, "%v with %v (fips=%v)", kt, d, fips)
				}
			}
		}
	}
}

func TestCheckHashCompatibleUnknown(t *testing.T) {
	assert.ErrorIs(t, CheckHashCompatible(types.Unknown, types.DigestSHA256, false), ErrIncompatibleHash)
}

func TestResolveSignatureDigestRSA(t *testing.T) {
	tests := []struct {
		name string
		ctx  *NegotiationContext
		kt   types.KeyType
		want types.Digest
	}{
		{"no context falls back to sha1", nil, types.RSA, types.DigestSHA1},
		{"sha512 extension preferred",
			&NegotiationContext{ExtSigRSASHA256: true, ExtSigRSASHA512: true},
			types.RSA, types.DigestSHA512},
		{"sha256 when sha512 unsupported",
			&NegotiationContext{ExtSigRSASHA256: true},
			types.RSA, types.DigestSHA256},
		{"extension gated by allowed list",
			&NegotiationContext{
				ExtSigRSASHA256: true, ExtSigRSASHA512: true,
				AllowedAlgorithms: []string{"rsa-sha2-256"},
			},
			types.RSA, types.DigestSHA256},
		{"nothing allowed falls back to sha1",
			&NegotiationContext{
				ExtSigRSASHA256: true, ExtSigRSASHA512: true,
				AllowedAlgorithms: []string{"ssh-ed25519"},
			},
			types.RSA, types.DigestSHA1},
		{"old openssh peer forces sha1 for certificates",
			&NegotiationContext{
				PeerIsOpenSSH: true, PeerVersion: PeerVersion{Major: 7, Minor: 1},
				ExtSigRSASHA256: true, ExtSigRSASHA512: true,
			},
			types.RSACert01, types.DigestSHA1},
		{"7.2.0 peer negotiates normally",
			&NegotiationContext{
				PeerIsOpenSSH: true, PeerVersion: PeerVersion{Major: 7, Minor: 2},
				ExtSigRSASHA512: true,
			},
			types.RSACert01, types.DigestSHA512},
		{"non-openssh peer ignores version quirk",
			&NegotiationContext{
				PeerVersion:     PeerVersion{Major: 1, Minor: 0},
				ExtSigRSASHA512: true,
			},
			types.RSACert01, types.DigestSHA512},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveSignatureDigest(tt.ctx, tt.kt))
		})
	}
}

func TestResolveSignatureDigestFixedFamilies(t *testing.T) {
	ctx := &NegotiationContext{ExtSigRSASHA256: true, ExtSigRSASHA512: true}

	assert.Equal(t, types.DigestSHA1, ResolveSignatureDigest(ctx, types.DSS))
	assert.Equal(t, types.DigestSHA256, ResolveSignatureDigest(ctx, types.ECDSAP256))
	assert.Equal(t, types.DigestSHA384, ResolveSignatureDigest(ctx, types.ECDSAP384))
	assert.Equal(t, types.DigestSHA512, ResolveSignatureDigest(ctx, types.ECDSAP521))
	assert.Equal(t, types.DigestAuto, ResolveSignatureDigest(ctx, types.Ed25519))
	assert.Equal(t, types.DigestAuto, ResolveSignatureDigest(ctx, types.Dilithium2))

	// Every hybrid resolves to SHA-256 regardless of extensions.
	for _, kt := range allKeyTypes {
		if kt.IsHybrid() {
			assert.Equal(t, types.DigestSHA256, ResolveSignatureDigest(ctx, kt), "%v", kt)
		}
	}
}

func TestSignatureAlgorithmName(t *testing.T) {
	old := &NegotiationContext{PeerIsOpenSSH: true, PeerVersion: PeerVersion{Major: 7, Minor: 7}}
	current := &NegotiationContext{PeerIsOpenSSH: true, PeerVersion: PeerVersion{Major: 7, Minor: 8}}

	// OpenSSH before 7.8 only understands the legacy RSA certificate name.
	assert.Equal(t, "ssh-rsa-cert-v01@openssh.com",
		SignatureAlgorithmName(old, types.RSACert01, types.DigestSHA256))
	assert.Equal(t, "rsa-sha2-256-cert-v01@openssh.com",
		SignatureAlgorithmName(current, types.RSACert01, types.DigestSHA256))

	// Plain RSA is unaffected by the certificate quirk.
	assert.Equal(t, "rsa-sha2-512",
		SignatureAlgorithmName(old, types.RSA, types.DigestSHA512))
	assert.Equal(t, "ssh-ed25519",
		SignatureAlgorithmName(nil, types.Ed25519, types.DigestAuto))
}

func TestPeerVersionBefore(t *testing.T) {
	v := PeerVersion{Major: 7, Minor: 2, Patch: 0}
	assert.False(t, v.Before(7, 2, 0))
	assert.True(t, v.Before(7, 2, 1))
	assert.True(t, v.Before(7, 3, 0))
	assert.True(t, v.Before(8, 0, 0))
	assert.False(t, v.Before(6, 9, 9))
	assert.False(t, v.Before(7, 1, 9))
}
