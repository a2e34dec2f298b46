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
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/dsa" //nolint:staticcheck // ssh-dss interoperability
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"encoding/binary"
	"encoding/pem"
	"fmt"
	"math/big"

	"github.com/jeremyhahn/go-sshpki/pkg/kdf"
	"github.com/jeremyhahn/go-sshpki/pkg/key"
	"github.com/jeremyhahn/go-sshpki/pkg/quantum"
	"github.com/jeremyhahn/go-sshpki/pkg/secret"
	"github.com/jeremyhahn/go-sshpki/pkg/types"
	"github.com/jeremyhahn/go-sshpki/pkg/wire"
)

// OpenSSH v1 private key container (PROTOCOL.key). The format is
// byte-for-byte documented and reproduced exactly, field order included.
const (
	opensshAuthMagic = "openssh-key-v1\x00"
	opensshPEMType   = "OPENSSH PRIVATE KEY"

	opensshDefaultCipher = "aes256-ctr"
	opensshDefaultKDF    = "bcrypt"
	opensshDefaultRounds = 16
	opensshSaltLen       = 16

	// Plaintext sections are still padded, to an 8-byte boundary.
	opensshPlainBlockSize = 8
)

type opensshCipher struct {
	keyLen    int
	ivLen     int
	blockSize int
}

var opensshCiphers = map[string]opensshCipher{
	"aes128-ctr": {keyLen: 16, ivLen: 16, blockSize: aes.BlockSize},
	"aes192-ctr": {keyLen: 24, ivLen: 16, blockSize: aes.BlockSize},
	"aes256-ctr": {keyLen: 32, ivLen: 16, blockSize: aes.BlockSize},
}

// DecodeOpenSSHPrivateKey parses a PEM-armored OpenSSH v1 private key
// container. The passphrase is required when the container is encrypted
// and ignored otherwise. Only single-key containers are accepted.
func DecodeOpenSSHPrivateKey(data []byte, passphrase secret.Secret) (*key.Key, error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != opensshPEMType {
		return nil, fmt.Errorf("%w: not an OpenSSH private key", ErrMalformed)
	}

	r := wire.NewReader(block.Bytes)
	magic, err := r.ReadBytes(len(opensshAuthMagic))
	if err != nil || !bytes.Equal(magic, []byte(opensshAuthMagic)) {
		return nil, fmt.Errorf("%w: bad container magic", ErrMalformed)
	}

	cipherName, err := r.ReadText()
	if err != nil {
		return nil, fmt.Errorf("%w: cipher name: %v", ErrMalformed, err)
	}
	kdfName, err := r.ReadText()
	if err != nil {
		return nil, fmt.Errorf("%w: kdf name: %v", ErrMalformed, err)
	}
	kdfOptions, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("%w: kdf options: %v", ErrMalformed, err)
	}
	nkeys, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("%w: key count: %v", ErrMalformed, err)
	}
	if nkeys != 1 {
		return nil, fmt.Errorf("%w: container declares %d keys", ErrMultipleKeys, nkeys)
	}
	if _, err := r.ReadString(); err != nil {
		return nil, fmt.Errorf("%w: public key blob: %v", ErrMalformed, err)
	}
	section, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("%w: private section: %v", ErrMalformed, err)
	}
	if r.Remaining() != 0 {
		return nil, fmt.Errorf("%w: trailing bytes after container", ErrMalformed)
	}

	encrypted := cipherName != "none"
	blockSize := opensshPlainBlockSize
	if encrypted {
		spec, ok := opensshCiphers[cipherName]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedCipher, cipherName)
		}
		blockSize = spec.blockSize
		if passphrase.Len() == 0 {
			return nil, ErrPassphraseRequired
		}
		section, err = opensshDecrypt(section, spec, kdfName, kdfOptions, passphrase)
		if err != nil {
			return nil, err
		}
		defer zero(section)
	}

	if len(section) == 0 || len(section)%blockSize != 0 {
		return nil, fmt.Errorf("%w: private section not a multiple of the cipher block size", ErrMalformed)
	}

	return decodePrivateSection(section, encrypted)
}

func opensshDecrypt(section []byte, spec opensshCipher, kdfName string, kdfOptions []byte, passphrase secret.Secret) ([]byte, error) {
	deriver, err := kdf.ForName(kdfName)
	if err != nil {
		return nil, fmt.Errorf("sshwire: %w (%q)", err, kdfName)
	}

	opts := wire.NewReader(kdfOptions)
	salt, err := opts.ReadString()
	if err != nil {
		return nil, fmt.Errorf("%w: kdf salt: %v", ErrMalformed, err)
	}
	rounds, err := opts.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("%w: kdf rounds: %v", ErrMalformed, err)
	}
	if opts.Remaining() != 0 {
		return nil, fmt.Errorf("%w: trailing kdf options", ErrMalformed)
	}

	derived, err := deriver.Derive(passphrase.Bytes(), salt, rounds, spec.keyLen+spec.ivLen)
	if err != nil {
		return nil, fmt.Errorf("sshwire: kdf: %w", err)
	}
	defer zero(derived)

	block, err := aes.NewCipher(derived[:spec.keyLen])
	if err != nil {
		return nil, fmt.Errorf("sshwire: %w", err)
	}
	out := make([]byte, len(section))
	cipher.NewCTR(block, derived[spec.keyLen:]).XORKeyStream(out, section)
	return out, nil
}

// decodePrivateSection parses the decrypted per-key payload: the check
// integer pair, the typed private fields, the comment, and the
// incrementing pad bytes.
func decodePrivateSection(section []byte, encrypted bool) (*key.Key, error) {
	r := wire.NewReader(section)
	check1, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("%w: check int: %v", ErrMalformed, err)
	}
	check2, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("%w: check int: %v", ErrMalformed, err)
	}
	if check1 != check2 {
		// With a cipher in play, a mismatch means the derived key was
		// wrong or the file is corrupt; the two are indistinguishable.
		if encrypted {
			return nil, ErrWrongPassphrase
		}
		return nil, fmt.Errorf("%w: check integers differ in plaintext container", ErrMalformed)
	}

	name, err := r.ReadText()
	if err != nil {
		return nil, fmt.Errorf("%w: key type: %v", ErrMalformed, err)
	}
	t := types.KeyTypeFromName(name)
	if t == types.Unknown {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKeyType, name)
	}
	if t.IsCertificate() || t.IsSecurityKey() {
		return nil, fmt.Errorf("%w: %q in private container", ErrUnsupportedKeyType, name)
	}

	k := &key.Key{Type: t, Flags: key.FlagPublic | key.FlagPrivate}
	if err := decodePrivateFields(r, k, t); err != nil {
		k.Destroy()
		return nil, err
	}

	comment, err := r.ReadText()
	if err != nil {
		k.Destroy()
		return nil, fmt.Errorf("%w: comment: %v", ErrMalformed, err)
	}
	k.Comment = comment

	// Padding must be exactly 1, 2, 3, ... — a validity check, not a
	// skippable trailer.
	pad := r.Rest()
	for i, b := range pad {
		if b != byte(i+1) {
			k.Destroy()
			return nil, fmt.Errorf("%w: corrupt padding at byte %d", ErrMalformed, i)
		}
	}
	return k, nil
}

func decodePrivateFields(r *wire.Reader, k *key.Key, t types.KeyType) error {
	switch {
	case t == types.RSA:
		return decodeRSAPrivate(r, k)
	case t == types.DSS:
		return decodeDSSPrivate(r, k)
	case t == types.Ed25519:
		return decodeEd25519Private(r, k)
	case t.IsHybrid():
		if t.IsRSAHybrid() {
			if err := decodeRSAPrivate(r, k); err != nil {
				return err
			}
		} else {
			if err := decodeECDSAPrivate(r, k, t); err != nil {
				return err
			}
		}
		return decodePQPrivate(r, k, t)
	case t.IsPostQuantum():
		return decodePQPrivate(r, k, t)
	case t.ECDSACurve() != nil:
		return decodeECDSAPrivate(r, k, t)
	}
	return fmt.Errorf("%w: %v", ErrUnsupportedKeyType, t)
}

func decodeRSAPrivate(r *wire.Reader, k *key.Key) error {
	var n, e, d, iqmp, p, q *big.Int
	for _, field := range []struct {
		name string
		dst  **big.Int
	}{
		{"n", &n}, {"e", &e}, {"d", &d}, {"iqmp", &iqmp}, {"p", &p}, {"q", &q},
	} {
		v, err := r.ReadMPInt()
		if err != nil {
			return fmt.Errorf("%w: rsa %s: %v", ErrMalformed, field.name, err)
		}
		*field.dst = v
	}
	if !e.IsInt64() || e.Int64() <= 1 {
		return fmt.Errorf("%w: rsa exponent out of range", ErrMalformed)
	}
	priv := &rsa.PrivateKey{
		PublicKey: rsa.PublicKey{N: n, E: int(e.Int64())},
		D:         d,
		Primes:    []*big.Int{p, q},
	}
	if err := priv.Validate(); err != nil {
		return fmt.Errorf("%w: rsa key validation: %v", ErrMalformed, err)
	}
	priv.Precompute()
	k.Material = &key.RSAMaterial{Public: &priv.PublicKey, Private: priv}
	return nil
}

func decodeDSSPrivate(r *wire.Reader, k *key.Key) error {
	priv := &dsa.PrivateKey{}
	for _, field := range []struct {
		name string
		dst  **big.Int
	}{
		{"p", &priv.P}, {"q", &priv.Q}, {"g", &priv.G}, {"y", &priv.Y}, {"x", &priv.X},
	} {
		v, err := r.ReadMPInt()
		if err != nil {
			return fmt.Errorf("%w: dss %s: %v", ErrMalformed, field.name, err)
		}
		*field.dst = v
	}
	k.Material = &key.DSSMaterial{Public: &priv.PublicKey, Private: priv}
	return nil
}

func decodeECDSAPrivate(r *wire.Reader, k *key.Key, t types.KeyType) error {
	curveName, err := r.ReadText()
	if err != nil {
		return fmt.Errorf("%w: ecdsa curve name: %v", ErrMalformed, err)
	}
	if curveName != t.ECDSACurveName() {
		return fmt.Errorf("%w: curve %q does not match type %q", ErrMalformed, curveName, t.Name())
	}
	point, err := r.ReadString()
	if err != nil {
		return fmt.Errorf("%w: ecdsa point: %v", ErrMalformed, err)
	}
	curve := t.ECDSACurve()
	x, y := elliptic.Unmarshal(curve, point)
	if x == nil {
		return fmt.Errorf("%w: invalid ecdsa point", ErrMalformed)
	}
	d, err := r.ReadMPInt()
	if err != nil {
		return fmt.Errorf("%w: ecdsa d: %v", ErrMalformed, err)
	}
	priv := &ecdsa.PrivateKey{
		PublicKey: ecdsa.PublicKey{Curve: curve, X: x, Y: y},
		D:         d,
	}
	k.Material = &key.ECDSAMaterial{Public: &priv.PublicKey, Private: priv}
	return nil
}

func decodeEd25519Private(r *wire.Reader, k *key.Key) error {
	pub, err := r.ReadString()
	if err != nil {
		return fmt.Errorf("%w: ed25519 public: %v", ErrMalformed, err)
	}
	if len(pub) != ed25519.PublicKeySize {
		return fmt.Errorf("%w: ed25519 public key is %d bytes, want %d",
			ErrMalformed, len(pub), ed25519.PublicKeySize)
	}
	priv, err := r.ReadString()
	if err != nil {
		return fmt.Errorf("%w: ed25519 private: %v", ErrMalformed, err)
	}
	// Engines store either the 32-byte seed or the 64-byte seed-plus-
	// public concatenation; both are accepted and normalized to 64.
	var pk ed25519.PrivateKey
	switch len(priv) {
	case ed25519.SeedSize:
		pk = ed25519.NewKeyFromSeed(priv)
		zero(priv)
	case ed25519.PrivateKeySize:
		if !bytes.Equal(priv[32:], pub) {
			zero(priv)
			return fmt.Errorf("%w: ed25519 private/public halves disagree", ErrMalformed)
		}
		pk = ed25519.PrivateKey(priv)
	default:
		zero(priv)
		return fmt.Errorf("%w: ed25519 private key is %d bytes", ErrMalformed, len(priv))
	}
	k.Material = &key.Ed25519Material{Public: ed25519.PublicKey(pub), Private: pk}
	return nil
}

func decodePQPrivate(r *wire.Reader, k *key.Key, t types.KeyType) error {
	scheme, err := quantum.SchemeFor(t)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedKeyType, t)
	}
	pub, err := r.ReadString()
	if err != nil {
		return fmt.Errorf("%w: pq public key: %v", ErrMalformed, err)
	}
	if len(pub) != scheme.PublicKeyLen {
		return fmt.Errorf("%w: pq public key is %d bytes, want %d",
			ErrMalformed, len(pub), scheme.PublicKeyLen)
	}
	sec, err := r.ReadString()
	if err != nil {
		return fmt.Errorf("%w: pq secret key: %v", ErrMalformed, err)
	}
	if len(sec) != scheme.SecretKeyLen {
		zero(sec)
		return fmt.Errorf("%w: pq secret key is %d bytes, want %d",
			ErrMalformed, len(sec), scheme.SecretKeyLen)
	}
	k.PQPublic = pub
	k.PQSecret = secret.Secret(sec)
	return nil
}

// EncodeOpenSSHPrivateKey serializes a private key to a PEM-armored
// OpenSSH v1 container. With a non-empty passphrase the private section
// is encrypted with aes256-ctr under a bcrypt-derived key; otherwise the
// cipher and KDF are "none". Check integers are freshly randomized on
// every export.
func EncodeOpenSSHPrivateKey(k *key.Key, passphrase secret.Secret) ([]byte, error) {
	if k == nil || !k.IsPrivate() {
		return nil, key.ErrMissingPrivateKey
	}
	if k.Type.IsCertificate() || k.Type.IsSecurityKey() {
		return nil, fmt.Errorf("%w: %v in private container", ErrUnsupportedKeyType, k.Type)
	}

	pubBlob, err := EncodePublicKeyBlob(k)
	if err != nil {
		return nil, err
	}

	encrypted := passphrase.Len() > 0
	cipherName, kdfName := "none", "none"
	blockSize := opensshPlainBlockSize
	var spec opensshCipher
	if encrypted {
		cipherName, kdfName = opensshDefaultCipher, opensshDefaultKDF
		spec = opensshCiphers[cipherName]
		blockSize = spec.blockSize
	}

	section, err := encodePrivateSection(k, blockSize)
	if err != nil {
		return nil, err
	}
	defer zero(section)

	var kdfOptions []byte
	if encrypted {
		salt := make([]byte, opensshSaltLen)
		if _, err := rand.Read(salt); err != nil {
			return nil, fmt.Errorf("sshwire: %w", err)
		}
		var opts wire.Writer
		opts.WriteString(salt)
		opts.WriteUint32(opensshDefaultRounds)
		kdfOptions = opts.Bytes()

		derived, err := kdf.BcryptPBKDF{}.Derive(passphrase.Bytes(), salt, opensshDefaultRounds, spec.keyLen+spec.ivLen)
		if err != nil {
			return nil, fmt.Errorf("sshwire: kdf: %w", err)
		}
		block, err := aes.NewCipher(derived[:spec.keyLen])
		if err != nil {
			zero(derived)
			return nil, fmt.Errorf("sshwire: %w", err)
		}
		cipher.NewCTR(block, derived[spec.keyLen:]).XORKeyStream(section, section)
		zero(derived)
	}

	var w wire.Writer
	w.WriteRaw([]byte(opensshAuthMagic))
	w.WriteText(cipherName)
	w.WriteText(kdfName)
	w.WriteString(kdfOptions)
	w.WriteUint32(1)
	w.WriteString(pubBlob)
	w.WriteString(section)

	return pem.EncodeToMemory(&pem.Block{Type: opensshPEMType, Bytes: w.Bytes()}), nil
}

func encodePrivateSection(k *key.Key, blockSize int) ([]byte, error) {
	var check [4]byte
	if _, err := rand.Read(check[:]); err != nil {
		return nil, fmt.Errorf("sshwire: %w", err)
	}
	checkInt := binary.BigEndian.Uint32(check[:])

	var w wire.Writer
	w.WriteUint32(checkInt)
	w.WriteUint32(checkInt)
	w.WriteText(k.Type.Name())
	if err := encodePrivateFields(&w, k); err != nil {
		return nil, err
	}
	w.WriteText(k.Comment)

	pad := byte(1)
	for w.Len()%blockSize != 0 {
		w.WriteUint8(pad)
		pad++
	}
	return w.Bytes(), nil
}

func encodePrivateFields(w *wire.Writer, k *key.Key) error {
	t := k.Type.Plain()

	switch m := k.Material.(type) {
	case *key.RSAMaterial:
		priv := m.Private
		if priv == nil || len(priv.Primes) < 2 {
			return key.ErrMissingPrivateKey
		}
		w.WriteMPInt(priv.N)
		w.WriteMPInt(big.NewInt(int64(priv.E)))
		w.WriteMPInt(priv.D)
		w.WriteMPInt(priv.Precomputed.Qinv)
		w.WriteMPInt(priv.Primes[0])
		w.WriteMPInt(priv.Primes[1])
	case *key.DSSMaterial:
		if m.Private == nil {
			return key.ErrMissingPrivateKey
		}
		w.WriteMPInt(m.Private.P)
		w.WriteMPInt(m.Private.Q)
		w.WriteMPInt(m.Private.G)
		w.WriteMPInt(m.Private.Y)
		w.WriteMPInt(m.Private.X)
	case *key.ECDSAMaterial:
		if m.Private == nil {
			return key.ErrMissingPrivateKey
		}
		w.WriteText(t.ECDSACurveName())
		w.WriteString(elliptic.Marshal(m.Private.Curve, m.Private.X, m.Private.Y))
		w.WriteMPInt(m.Private.D)
	case *key.Ed25519Material:
		if m.Private == nil {
			return key.ErrMissingPrivateKey
		}
		w.WriteString(m.Public)
		w.WriteString(m.Private)
	case nil:
		if !t.IsPostQuantum() {
			return fmt.Errorf("%w: %v", ErrUnsupportedKeyType, k.Type)
		}
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedKeyType, k.Type)
	}

	if t.IsPostQuantum() {
		if k.PQSecret.Len() == 0 {
			return key.ErrMissingPrivateKey
		}
		w.WriteString(k.PQPublic)
		w.WriteString(k.PQSecret.Bytes())
	}
	return nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
