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
	"crypto/dsa" //nolint:staticcheck // ssh-dss interoperability
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	"fmt"

	"github.com/jeremyhahn/go-sshpki/pkg/quantum"
	"github.com/jeremyhahn/go-sshpki/pkg/secret"
	"github.com/jeremyhahn/go-sshpki/pkg/types"
)

// hybrid classical parameters are fixed by the key type name.
const rsaHybridBits = 3072

// Generate constructs fresh key material for the given type. The
// parameter is the bit length for RSA and DSS and is ignored for ECDSA
// (the curve is implied by the sub-type) and Ed25519. Certificate,
// security-key, and unknown types are never generated directly and fail
// with ErrUnsupportedKeyType. On success the key carries both public and
// private material.
func Generate(t types.KeyType, parameter int) (*Key, error) {
	if t == types.Unknown || t.IsCertificate() || t.IsSecurityKey() {
		return nil, ErrUnsupportedKeyType
	}

	k := &Key{Type: t, Flags: FlagPublic | FlagPrivate}

	var err error
	switch {
	case t.IsHybrid():
		if t.IsRSAHybrid() {
			k.Material, err = generateRSA(rsaHybridBits)
		} else {
			k.Material, err = generateECDSA(t)
		}
		if err == nil {
			err = generatePQ(k)
		}
	case t.IsPostQuantum():
		err = generatePQ(k)
	default:
		switch t {
		case types.RSA:
			k.Material, err = generateRSA(parameter)
		case types.DSS:
			k.Material, err = generateDSS(parameter)
		case types.ECDSAP256, types.ECDSAP384, types.ECDSAP521:
			k.Material, err = generateECDSA(t)
		case types.Ed25519:
			pub, priv, genErr := ed25519.GenerateKey(rand.Reader)
			if genErr != nil {
				err = genErr
				break
			}
			k.Material = &Ed25519Material{Public: pub, Private: priv}
		default:
			err = ErrUnsupportedKeyType
		}
	}
	if err != nil {
		k.Destroy()
		return nil, err
	}
	return k, nil
}

func generateRSA(bits int) (Material, error) {
	if bits < 1024 || bits > 16384 {
		return nil, fmt.Errorf("%w: rsa bits %d", ErrInvalidParameter, bits)
	}
	priv, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, err
	}
	return &RSAMaterial{Public: &priv.PublicKey, Private: priv}, nil
}

func generateDSS(bits int) (Material, error) {
	var sizes dsa.ParameterSizes
	switch bits {
	case 1024:
		sizes = dsa.L1024N160
	case 2048:
		sizes = dsa.L2048N256
	case 3072:
		sizes = dsa.L3072N256
	default:
		return nil, fmt.Errorf("%w: dsa bits %d", ErrInvalidParameter, bits)
	}
	priv := &dsa.PrivateKey{}
	if err := dsa.GenerateParameters(&priv.Parameters, rand.Reader, sizes); err != nil {
		return nil, err
	}
	if err := dsa.GenerateKey(priv, rand.Reader); err != nil {
		return nil, err
	}
	return &DSSMaterial{Public: &priv.PublicKey, Private: priv}, nil
}

func generateECDSA(t types.KeyType) (Material, error) {
	curve := t.ECDSACurve()
	if curve == nil {
		return nil, ErrUnsupportedKeyType
	}
	priv, err := ecdsa.GenerateKey(curve, rand.Reader)
	if err != nil {
		return nil, err
	}
	return &ECDSAMaterial{Public: &priv.PublicKey, Private: priv}, nil
}

func generatePQ(k *Key) error {
	scheme, err := quantum.SchemeFor(k.Type)
	if err != nil {
		return err
	}
	pub, sec, err := quantum.GenerateKeyPair(scheme)
	if err != nil {
		return err
	}
	k.PQPublic = pub
	k.PQSecret = secret.Secret(sec)
	return nil
}
