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

package sshwire

import (
	"crypto/dsa" //nolint:staticcheck // ssh-dss interoperability
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/asn1"
	"encoding/pem"
	"fmt"
	"math/big"

	"github.com/jeremyhahn/go-sshpki/pkg/key"
	"github.com/jeremyhahn/go-sshpki/pkg/secret"
	"github.com/jeremyhahn/go-sshpki/pkg/types"
	"github.com/youmark/pkcs8"
)

// Legacy PEM headers plus the two PKCS#8 forms.
const (
	pemRSA          = "RSA PRIVATE KEY"
	pemDSA          = "DSA PRIVATE KEY"
	pemEC           = "EC PRIVATE KEY"
	pemPKCS8        = "PRIVATE KEY"
	pemPKCS8Crypted = "ENCRYPTED PRIVATE KEY"
)

// dsaASN1 is the traditional OpenSSL DSA private key structure.
type dsaASN1 struct {
	Version int
	P, Q, G *big.Int
	Y, X    *big.Int
}

// TypeFromPrivateKeyPEM sniffs the key type from a PEM header without
// parsing the payload. EC keys report P-256 as a placeholder; the exact
// curve is only known after a full parse. Unknown headers yield Unknown.
func TypeFromPrivateKeyPEM(data []byte) types.KeyType {
	block, _ := pem.Decode(data)
	if block == nil {
		return types.Unknown
	}
	switch block.Type {
	case pemRSA:
		return types.RSA
	case pemDSA:
		return types.DSS
	case pemEC:
		return types.ECDSAP256
	}
	return types.Unknown
}

// DecodePEMPrivateKey parses a PEM private key in any supported
// container: legacy RSA/DSA/EC PEM (optionally DEK-Info encrypted),
// PKCS#8 (plain or encrypted), or the OpenSSH v1 container.
func DecodePEMPrivateKey(data []byte, passphrase secret.Secret) (*key.Key, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrMalformed)
	}

	der := block.Bytes
	//nolint:staticcheck // legacy DEK-Info PEM interoperability
	if x509.IsEncryptedPEMBlock(block) {
		if passphrase.Len() == 0 {
			return nil, ErrPassphraseRequired
		}
		var err error
		//nolint:staticcheck
		der, err = x509.DecryptPEMBlock(block, passphrase.Bytes())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrWrongPassphrase, err)
		}
		defer zero(der)
	}

	switch block.Type {
	case opensshPEMType:
		return DecodeOpenSSHPrivateKey(data, passphrase)

	case pemRSA:
		priv, err := x509.ParsePKCS1PrivateKey(der)
		if err != nil {
			return nil, fmt.Errorf("%w: pkcs1: %v", ErrMalformed, err)
		}
		return keyFromCryptoPrivate(priv)

	case pemDSA:
		var raw dsaASN1
		rest, err := asn1.Unmarshal(der, &raw)
		if err != nil || len(rest) != 0 || raw.Version != 0 {
			return nil, fmt.Errorf("%w: dsa asn1", ErrMalformed)
		}
		priv := &dsa.PrivateKey{
			PublicKey: dsa.PublicKey{
				Parameters: dsa.Parameters{P: raw.P, Q: raw.Q, G: raw.G},
				Y:          raw.Y,
			},
			X: raw.X,
		}
		return keyFromCryptoPrivate(priv)

	case pemEC:
		priv, err := x509.ParseECPrivateKey(der)
		if err != nil {
			return nil, fmt.Errorf("%w: sec1: %v", ErrMalformed, err)
		}
		return keyFromCryptoPrivate(priv)

	case pemPKCS8:
		priv, err := x509.ParsePKCS8PrivateKey(der)
		if err != nil {
			return nil, fmt.Errorf("%w: pkcs8: %v", ErrMalformed, err)
		}
		return keyFromCryptoPrivate(priv)

	case pemPKCS8Crypted:
		if passphrase.Len() == 0 {
			return nil, ErrPassphraseRequired
		}
		priv, err := pkcs8.ParsePKCS8PrivateKey(der, passphrase.Bytes())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrWrongPassphrase, err)
		}
		return keyFromCryptoPrivate(priv)
	}

	return nil, fmt.Errorf("%w: PEM type %q", ErrUnsupportedKeyType, block.Type)
}

// keyFromCryptoPrivate wraps a parsed standard library private key.
func keyFromCryptoPrivate(priv any) (*key.Key, error) {
	k := &key.Key{Flags: key.FlagPublic | key.FlagPrivate}
	switch p := priv.(type) {
	case *rsa.PrivateKey:
		p.Precompute()
		k.Type = types.RSA
		k.Material = &key.RSAMaterial{Public: &p.PublicKey, Private: p}
	case *dsa.PrivateKey:
		k.Type = types.DSS
		k.Material = &key.DSSMaterial{Public: &p.PublicKey, Private: p}
	case *ecdsa.PrivateKey:
		switch p.Curve {
		case elliptic.P256():
			k.Type = types.ECDSAP256
		case elliptic.P384():
			k.Type = types.ECDSAP384
		case elliptic.P521():
			k.Type = types.ECDSAP521
		default:
			return nil, fmt.Errorf("%w: curve %s", ErrUnsupportedKeyType, p.Curve.Params().Name)
		}
		k.Material = &key.ECDSAMaterial{Public: &p.PublicKey, Private: p}
	case ed25519.PrivateKey:
		k.Type = types.Ed25519
		k.Material = &key.Ed25519Material{
			Public:  p.Public().(ed25519.PublicKey),
			Private: p,
		}
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedKeyType, priv)
	}
	return k, nil
}

// EncodePEMPrivateKey serializes a private key to PEM. Without a
// passphrase, RSA/DSA/EC keys use their traditional headers and Ed25519
// uses PKCS#8; with a passphrase, keys are wrapped in encrypted PKCS#8
// (DSA, which PKCS#8 tooling no longer accepts, falls back to legacy
// DEK-Info encryption). Post-quantum and hybrid keys have no PEM form
// and must use the OpenSSH container.
func EncodePEMPrivateKey(k *key.Key, passphrase secret.Secret) ([]byte, error) {
	if k == nil || !k.IsPrivate() {
		return nil, key.ErrMissingPrivateKey
	}
	if k.Type.IsPostQuantum() {
		return nil, fmt.Errorf("%w: %v has no PEM form", ErrUnsupportedKeyType, k.Type)
	}

	encrypted := passphrase.Len() > 0

	switch m := k.Material.(type) {
	case *key.RSAMaterial:
		if encrypted {
			return encryptedPKCS8(m.Private, passphrase)
		}
		return pem.EncodeToMemory(&pem.Block{
			Type:  pemRSA,
			Bytes: x509.MarshalPKCS1PrivateKey(m.Private),
		}), nil

	case *key.DSSMaterial:
		der, err := asn1.Marshal(dsaASN1{
			P: m.Private.P, Q: m.Private.Q, G: m.Private.G,
			Y: m.Private.Y, X: m.Private.X,
		})
		if err != nil {
			return nil, fmt.Errorf("sshwire: %w", err)
		}
		if encrypted {
			//nolint:staticcheck // legacy DEK-Info PEM interoperability
			block, err := x509.EncryptPEMBlock(rand.Reader, pemDSA, der,
				passphrase.Bytes(), x509.PEMCipherAES256)
			if err != nil {
				return nil, fmt.Errorf("sshwire: %w", err)
			}
			return pem.EncodeToMemory(block), nil
		}
		return pem.EncodeToMemory(&pem.Block{Type: pemDSA, Bytes: der}), nil

	case *key.ECDSAMaterial:
		if encrypted {
			return encryptedPKCS8(m.Private, passphrase)
		}
		der, err := x509.MarshalECPrivateKey(m.Private)
		if err != nil {
			return nil, fmt.Errorf("sshwire: %w", err)
		}
		return pem.EncodeToMemory(&pem.Block{Type: pemEC, Bytes: der}), nil

	case *key.Ed25519Material:
		if encrypted {
			return encryptedPKCS8(m.Private, passphrase)
		}
		der, err := x509.MarshalPKCS8PrivateKey(m.Private)
		if err != nil {
			return nil, fmt.Errorf("sshwire: %w", err)
		}
		return pem.EncodeToMemory(&pem.Block{Type: pemPKCS8, Bytes: der}), nil
	}

	return nil, fmt.Errorf("%w: %v", ErrUnsupportedKeyType, k.Type)
}

func encryptedPKCS8(priv any, passphrase secret.Secret) ([]byte, error) {
	der, err := pkcs8.MarshalPrivateKey(priv, passphrase.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("sshwire: pkcs8: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: pemPKCS8Crypted, Bytes: der}), nil
}
