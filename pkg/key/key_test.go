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
	"errors"
	"testing"

	"github.com/jeremyhahn/go-sshpki/pkg/quantum"
	"github.com/jeremyhahn/go-sshpki/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateClassical(t *testing.T) {
	tests := []struct {
		name      string
		keyType   types.KeyType
		parameter int
	}{
		{"rsa-1024", types.RSA, 1024},
		{"ecdsa-p256", types.ECDSAP256, 0},
		{"ecdsa-p384", types.ECDSAP384, 0},
		{"ecdsa-p521", types.ECDSAP521, 0},
		{"ed25519", types.Ed25519, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, err := Generate(tt.keyType, tt.parameter)
			require.NoError(t, err)
			defer k.Destroy()

			assert.Equal(t, tt.keyType, k.Type)
			assert.True(t, k.IsPublic())
			assert.True(t, k.IsPrivate())
			require.NotNil(t, k.Material)
			assert.True(t, k.Material.HasPrivate())
		})
	}
}

func TestGenerateDSS(t *testing.T) {
	if testing.Short() {
		t.Skip("DSA parameter generation is slow")
	}
	k, err := Generate(types.DSS, 1024)
	require.NoError(t, err)
	defer k.Destroy()
	assert.True(t, k.IsPrivate())
}

func TestGenerateRefusesNonGeneratable(t *testing.T) {
	for _, kt := range []types.KeyType{
		types.Unknown,
		types.RSACert01,
		types.Ed25519Cert01,
		types.SKECDSA,
		types.SKEd25519,
	} {
		_, err := Generate(kt, 2048)
		assert.ErrorIs(t, err, ErrUnsupportedKeyType, "type %v", kt)
	}
}

func TestGenerateInvalidParameter(t *testing.T) {
	_, err := Generate(types.RSA, 17)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = Generate(types.DSS, 1536)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestDupDemote(t *testing.T) {
	k, err := Generate(types.Ed25519, 0)
	require.NoError(t, err)
	defer k.Destroy()

	pub := k.Dup(true)
	defer pub.Destroy()

	assert.True(t, pub.IsPublic())
	assert.False(t, pub.IsPrivate())
	require.IsType(t, &Ed25519Material{}, pub.Material)
	assert.Nil(t, pub.Material.(*Ed25519Material).Private)

	// Public halves still compare equal.
	assert.True(t, k.Equal(pub, ComparePublic))
	// Private comparison fails: the demoted copy has no private half.
	assert.False(t, k.Equal(pub, ComparePrivate))
}

func TestDupFullCopyIsIndependent(t *testing.T) {
	k, err := Generate(types.ECDSAP256, 0)
	require.NoError(t, err)

	clone := k.Dup(false)
	defer clone.Destroy()
	assert.True(t, k.Equal(clone, ComparePrivate))

	// Destroying the original must not affect the copy.
	k.Destroy()
	assert.True(t, clone.IsPrivate())
	assert.NotNil(t, clone.Material.(*ECDSAMaterial).Private)
}

func TestDestroyScrubsEd25519(t *testing.T) {
	k, err := Generate(types.Ed25519, 0)
	require.NoError(t, err)

	priv := k.Material.(*Ed25519Material).Private
	k.Destroy()

	for i, b := range priv {
		if b != 0 {
			t.Fatalf("private byte %d not scrubbed", i)
		}
	}
	assert.Equal(t, types.Unknown, k.Type)
	assert.False(t, k.IsPrivate())

	// Idempotent and nil-safe.
	k.Destroy()
	var nilKey *Key
	nilKey.Destroy()
	(&Key{}).Destroy()
}

func TestEqualTypeMismatch(t *testing.T) {
	a, err := Generate(types.Ed25519, 0)
	require.NoError(t, err)
	defer a.Destroy()
	b, err := Generate(types.ECDSAP256, 0)
	require.NoError(t, err)
	defer b.Destroy()

	assert.False(t, a.Equal(b, ComparePublic))
	assert.False(t, a.Equal(nil, ComparePublic))
}

func TestEqualSKApplication(t *testing.T) {
	a, err := Generate(types.Ed25519, 0)
	require.NoError(t, err)
	defer a.Destroy()

	sk1 := a.Dup(true)
	defer sk1.Destroy()
	sk1.Type = types.SKEd25519
	sk1.SKApplication = []byte("ssh:token-a")

	sk2 := sk1.Dup(true)
	defer sk2.Destroy()
	assert.True(t, sk1.Equal(sk2, ComparePublic))

	sk2.SKApplication = []byte("ssh:token-b")
	assert.False(t, sk1.Equal(sk2, ComparePublic))
}

func TestAttachCertificate(t *testing.T) {
	priv, err := Generate(types.Ed25519, 0)
	require.NoError(t, err)
	defer priv.Destroy()

	certKey := &Key{
		Type:        types.Ed25519Cert01,
		Flags:       FlagPublic,
		Certificate: []byte{1, 2, 3, 4},
	}

	require.NoError(t, priv.AttachCertificate(certKey))
	assert.Equal(t, []byte{1, 2, 3, 4}, priv.Certificate)
	assert.Equal(t, types.Ed25519Cert01, priv.CertType)

	// Second attach fails.
	err = priv.AttachCertificate(certKey)
	assert.ErrorIs(t, err, ErrAlreadyCertified)

	// Source without a blob fails.
	other, err := Generate(types.Ed25519, 0)
	require.NoError(t, err)
	defer other.Destroy()
	err = other.AttachCertificate(&Key{Type: types.Ed25519Cert01})
	assert.ErrorIs(t, err, ErrNoCertificate)
}

func TestSignatureDestroy(t *testing.T) {
	sig := &Signature{
		Type:     types.Ed25519,
		HashType: types.DigestAuto,
		Ed25519:  []byte{9, 9, 9},
		Raw:      []byte{1, 2, 3},
	}
	raw := sig.Raw
	sig.Destroy()
	assert.Nil(t, sig.Ed25519)
	assert.Equal(t, types.Unknown, sig.Type)
	for _, b := range raw {
		assert.Zero(t, b)
	}
	sig.Destroy()
	var nilSig *Signature
	nilSig.Destroy()
}

func TestGeneratePQ(t *testing.T) {
	// Without the quantum tag the PQ engine reports ErrNotEnabled; with
	// it, generation succeeds. Either way no partially-built key leaks.
	k, err := Generate(types.Dilithium2, 0)
	if errors.Is(err, quantum.ErrNotEnabled) {
		t.Skip("built without quantum support")
	}
	require.NoError(t, err)
	defer k.Destroy()
	assert.NotEmpty(t, k.PQPublic)
	assert.NotEmpty(t, k.PQSecret.Bytes())
}
