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

// Package quantum provides the post-quantum signature engines behind the
// pure PQ and hybrid SSH key types. Scheme metadata (key sizes, liboqs
// identifiers) is always available so codecs can validate lengths; the
// actual sign/verify/keygen operations require building with the
// "quantum" tag and a liboqs installation.
package quantum

import (
	"errors"

	"github.com/jeremyhahn/go-sshpki/pkg/types"
)

var (
	// ErrNotEnabled indicates the binary was built without the quantum tag.
	ErrNotEnabled = errors.New("quantum: built without quantum support (use -tags quantum)")

	// ErrUnsupportedScheme indicates a key type with no post-quantum component.
	ErrUnsupportedScheme = errors.New("quantum: key type has no post-quantum scheme")

	// ErrSignatureFailed indicates the signing operation failed.
	ErrSignatureFailed = errors.New("quantum: signature operation failed")
)

// Scheme describes one post-quantum signature algorithm.
type Scheme struct {
	// OQSName is the liboqs algorithm identifier.
	OQSName string

	// PublicKeyLen and SecretKeyLen are the exact key material sizes.
	// Decoders reject material of any other length, and secret buffers
	// are scrubbed over exactly SecretKeyLen bytes.
	PublicKeyLen int
	SecretKeyLen int
}

var schemes = map[types.KeyType]Scheme{
	types.Dilithium2:              {OQSName: "ML-DSA-44", PublicKeyLen: 1312, SecretKeyLen: 2560},
	types.Falcon512:               {OQSName: "Falcon-512", PublicKeyLen: 897, SecretKeyLen: 1281},
	types.SphincsSHA256128FRobust: {OQSName: "SPHINCS+-SHA2-128f-simple", PublicKeyLen: 32, SecretKeyLen: 64},
}

// hybridComponents maps each hybrid key type to its post-quantum half.
var hybridComponents = map[types.KeyType]types.KeyType{
	types.RSA3072Dilithium2:              types.Dilithium2,
	types.RSA3072Falcon512:               types.Falcon512,
	types.RSA3072SphincsSHA256128FRobust: types.SphincsSHA256128FRobust,
	types.P256Dilithium2:                 types.Dilithium2,
	types.P256Falcon512:                  types.Falcon512,
	types.P256SphincsSHA256128FRobust:    types.SphincsSHA256128FRobust,
}

// SchemeFor returns the post-quantum scheme backing a key type. Hybrid
// types resolve to the scheme of their post-quantum component.
func SchemeFor(t types.KeyType) (Scheme, error) {
	plain := t.Plain()
	if pq, ok := hybridComponents[plain]; ok {
		plain = pq
	}
	s, ok := schemes[plain]
	if !ok {
		return Scheme{}, ErrUnsupportedScheme
	}
	return s, nil
}
