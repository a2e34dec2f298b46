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

// Package key defines the SSH key and signature entities: tagged-variant
// key material, certificate attachment, secure destruction, and
// structural comparison. Keys are value-like: no operation mutates a key
// another caller observes, so concurrent use of independent keys needs
// no locking.
package key

import (
	"crypto/subtle"

	"github.com/jeremyhahn/go-sshpki/pkg/quantum"
	"github.com/jeremyhahn/go-sshpki/pkg/secret"
	"github.com/jeremyhahn/go-sshpki/pkg/types"
)

// Flags records which halves of the key material are present.
type Flags uint8

const (
	// FlagPublic is set when public material is present.
	FlagPublic Flags = 1 << iota
	// FlagPrivate is set when private material is present. FlagPrivate
	// implies FlagPublic.
	FlagPrivate
)

// CompareMode selects which material Equal requires.
type CompareMode int

const (
	// ComparePublic compares public components only.
	ComparePublic CompareMode = iota
	// ComparePrivate additionally requires matching private components
	// on both sides.
	ComparePrivate
)

// Key is the central PKI entity. A Key owns its material exclusively:
// decoding, generation, and duplication always produce fresh buffers,
// and Destroy scrubs every private component before release.
type Key struct {
	// Type is the key's algorithm family, certificate variants included.
	Type types.KeyType

	// Flags records the presence of public and private material.
	Flags Flags

	// Material holds the classical algorithm components. It is nil for
	// pure post-quantum key types.
	Material Material

	// Certificate is the raw bytes of the full certificate blob, present
	// only for certificate key types or after AttachCertificate.
	Certificate []byte

	// CertType is the certificate key type the Certificate blob carries.
	CertType types.KeyType

	// SKApplication is the application identifier of FIDO/U2F
	// security-key variants.
	SKApplication []byte

	// PQPublic and PQSecret hold the post-quantum components of pure PQ
	// and hybrid key types. PQSecret is scrubbed on Destroy.
	PQPublic []byte
	PQSecret secret.Secret

	// Comment is the free-form comment carried by private key containers.
	Comment string
}

// IsPublic reports whether the key holds public material. Private keys
// are also public: the public half is always derivable.
func (k *Key) IsPublic() bool {
	return k != nil && k.Flags&FlagPublic != 0
}

// IsPrivate reports whether the key holds private material.
func (k *Key) IsPrivate() bool {
	return k != nil && k.Flags&FlagPrivate != 0
}

// Dup deep-copies the key. With demote set, private material is omitted
// from the copy, yielding the public key of a private key without the
// private bytes ever entering the copy.
func (k *Key) Dup(demote bool) *Key {
	if k == nil {
		return nil
	}
	out := &Key{
		Type:     k.Type,
		Flags:    FlagPublic,
		CertType: k.CertType,
		Comment:  k.Comment,
	}
	if !demote && k.IsPrivate() {
		out.Flags |= FlagPrivate
	}
	if k.Material != nil {
		out.Material = k.Material.Clone(demote)
	}
	if k.Certificate != nil {
		out.Certificate = append([]byte(nil), k.Certificate...)
	}
	if k.SKApplication != nil {
		out.SKApplication = append([]byte(nil), k.SKApplication...)
	}
	if k.PQPublic != nil {
		out.PQPublic = append([]byte(nil), k.PQPublic...)
	}
	if k.PQSecret != nil && !demote {
		out.PQSecret = secret.New(k.PQSecret.Bytes())
	}
	return out
}

// Destroy scrubs all private material and releases every owned buffer.
// It is safe on nil, zero-valued, and partially-constructed keys, and
// safe to call more than once.
func (k *Key) Destroy() {
	if k == nil {
		return
	}
	if k.Material != nil {
		k.Material.Destroy()
		k.Material = nil
	}
	// The PQ secret length must match the scheme's declared secret key
	// length by construction; Zero covers the whole buffer either way.
	k.PQSecret.Zero()
	zeroBytes(k.Certificate)
	k.Certificate = nil
	k.PQPublic = nil
	k.SKApplication = nil
	k.Flags = 0
	k.Type = types.Unknown
	k.CertType = types.Unknown
	k.Comment = ""
}

// Equal compares two keys structurally. Keys of different types are
// never equal. ComparePrivate fails unless both sides hold private
// material. Security-key variants additionally require matching
// application identifiers.
func (k *Key) Equal(other *Key, mode CompareMode) bool {
	if k == nil || other == nil {
		return false
	}
	if k.Type != other.Type {
		return false
	}
	if mode == ComparePrivate && (!k.IsPrivate() || !other.IsPrivate()) {
		return false
	}
	if k.Type.IsSecurityKey() {
		if subtle.ConstantTimeCompare(k.SKApplication, other.SKApplication) != 1 {
			return false
		}
	}
	if k.Type.IsPostQuantum() {
		if subtle.ConstantTimeCompare(k.PQPublic, other.PQPublic) != 1 {
			return false
		}
		if mode == ComparePrivate &&
			subtle.ConstantTimeCompare(k.PQSecret, other.PQSecret) != 1 {
			return false
		}
		if !k.Type.IsHybrid() {
			return true
		}
	}
	if k.Material == nil || other.Material == nil {
		return false
	}
	return k.Material.Equal(other.Material, mode == ComparePrivate)
}

// AttachCertificate copies the certificate blob of certKey onto k,
// typically pairing a freshly-signed certificate with the private key it
// certifies. It fails if k already carries a certificate or certKey has
// no certificate blob.
func (k *Key) AttachCertificate(certKey *Key) error {
	if k.Certificate != nil {
		return ErrAlreadyCertified
	}
	if certKey == nil || certKey.Certificate == nil {
		return ErrNoCertificate
	}
	k.Certificate = append([]byte(nil), certKey.Certificate...)
	k.CertType = certKey.Type
	return nil
}

// PQSecretLen returns the scheme-declared secret key length for the
// key's post-quantum component, or zero for classical types.
func (k *Key) PQSecretLen() int {
	s, err := quantum.SchemeFor(k.Type)
	if err != nil {
		return 0
	}
	return s.SecretKeyLen
}
