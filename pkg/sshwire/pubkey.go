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

// Package sshwire encodes and decodes SSH keys, certificates, and
// signatures to and from their wire representations: RFC 4253 public key
// blobs (with RFC 5656 EC extensions), OpenSSH certificate blobs, the
// OpenSSH v1 private key container, and legacy PEM private keys.
//
// Decoding is strict. Every length is checked against the algorithm's
// declared constants, unknown algorithm names fail with
// ErrUnsupportedKeyType, and any structural defect fails with
// ErrMalformed; there is no best-effort partial construction.
package sshwire

import (
	"crypto/dsa" //nolint:staticcheck // ssh-dss interoperability
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"math/big"
	"strings"

	"github.com/jeremyhahn/go-sshpki/pkg/key"
	"github.com/jeremyhahn/go-sshpki/pkg/quantum"
	"github.com/jeremyhahn/go-sshpki/pkg/types"
	"github.com/jeremyhahn/go-sshpki/pkg/wire"
)

// DecodePublicKeyBlob parses an RFC 4253 public key blob (or an OpenSSH
// certificate blob) into a public-only Key.
func DecodePublicKeyBlob(blob []byte) (*key.Key, error) {
	r := wire.NewReader(blob)
	name, err := r.ReadText()
	if err != nil {
		return nil, fmt.Errorf("%w: algorithm name: %v", ErrMalformed, err)
	}
	t := types.KeyTypeFromName(name)
	if t == types.Unknown {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKeyType, name)
	}

	if t.IsCertificate() {
		return decodeCertificate(blob, r, t)
	}

	k := &key.Key{Type: t, Flags: key.FlagPublic}
	if err := decodePublicFields(r, k, t); err != nil {
		k.Destroy()
		return nil, err
	}
	if r.Remaining() != 0 {
		k.Destroy()
		return nil, fmt.Errorf("%w: %d trailing bytes after public key", ErrMalformed, r.Remaining())
	}
	return k, nil
}

// decodePublicFields reads the per-family public fields following the
// algorithm name. The reader is shared with certificate decoding, which
// continues past these fields.
func decodePublicFields(r *wire.Reader, k *key.Key, t types.KeyType) error {
	plain := t.Plain()

	switch {
	case plain == types.RSA:
		return decodeRSAPublic(r, k)
	case plain == types.DSS:
		return decodeDSSPublic(r, k)
	case plain == types.Ed25519 || plain == types.SKEd25519:
		if err := decodeEd25519Public(r, k); err != nil {
			return err
		}
	case plain == types.SKECDSA || plain.ECDSACurve() != nil && !plain.IsHybrid():
		if err := decodeECDSAPublic(r, k, t); err != nil {
			return err
		}
	case plain.IsHybrid():
		if plain.IsRSAHybrid() {
			if err := decodeRSAPublic(r, k); err != nil {
				return err
			}
		} else {
			if err := decodeECDSAPublic(r, k, t); err != nil {
				return err
			}
		}
		return decodePQPublic(r, k, t)
	case plain.IsPostQuantum():
		return decodePQPublic(r, k, t)
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedKeyType, t)
	}

	// Security-key variants carry a trailing application string.
	if plain.IsSecurityKey() {
		app, err := r.ReadString()
		if err != nil {
			return fmt.Errorf("%w: sk application: %v", ErrMalformed, err)
		}
		k.SKApplication = app
	}
	return nil
}

func decodeRSAPublic(r *wire.Reader, k *key.Key) error {
	e, err := r.ReadMPInt()
	if err != nil {
		return fmt.Errorf("%w: rsa e: %v", ErrMalformed, err)
	}
	n, err := r.ReadMPInt()
	if err != nil {
		return fmt.Errorf("%w: rsa n: %v", ErrMalformed, err)
	}
	if !e.IsInt64() || e.Int64() <= 1 || e.Int64() > 1<<31-1 {
		return fmt.Errorf("%w: rsa exponent out of range", ErrMalformed)
	}
	if n.Sign() <= 0 {
		return fmt.Errorf("%w: rsa modulus not positive", ErrMalformed)
	}
	k.Material = &key.RSAMaterial{Public: &rsa.PublicKey{N: n, E: int(e.Int64())}}
	return nil
}

func decodeDSSPublic(r *wire.Reader, k *key.Key) error {
	pub := &dsa.PublicKey{}
	for _, field := range []struct {
		name string
		dst  **big.Int
	}{
		{"p", &pub.P}, {"q", &pub.Q}, {"g", &pub.G}, {"y", &pub.Y},
	} {
		v, err := r.ReadMPInt()
		if err != nil {
			return fmt.Errorf("%w: dss %s: %v", ErrMalformed, field.name, err)
		}
		*field.dst = v
	}
	k.Material = &key.DSSMaterial{Public: pub}
	return nil
}

func decodeECDSAPublic(r *wire.Reader, k *key.Key, t types.KeyType) error {
	curveName, err := r.ReadText()
	if err != nil {
		return fmt.Errorf("%w: ecdsa curve name: %v", ErrMalformed, err)
	}
	if curveName != t.ECDSACurveName() {
		return fmt.Errorf("%w: curve %q does not match type %q",
			ErrMalformed, curveName, t.Name())
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
	k.Material = &key.ECDSAMaterial{Public: &ecdsa.PublicKey{Curve: curve, X: x, Y: y}}
	return nil
}

func decodeEd25519Public(r *wire.Reader, k *key.Key) error {
	point, err := r.ReadString()
	if err != nil {
		return fmt.Errorf("%w: ed25519 point: %v", ErrMalformed, err)
	}
	if len(point) != ed25519.PublicKeySize {
		return fmt.Errorf("%w: ed25519 public key is %d bytes, want %d",
			ErrMalformed, len(point), ed25519.PublicKeySize)
	}
	k.Material = &key.Ed25519Material{Public: ed25519.PublicKey(point)}
	return nil
}

func decodePQPublic(r *wire.Reader, k *key.Key, t types.KeyType) error {
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
	k.PQPublic = pub
	return nil
}

// EncodePublicKeyBlob serializes a key's public half to its RFC 4253
// blob. Certificate keys re-emit their retained certificate blob
// byte-for-byte.
func EncodePublicKeyBlob(k *key.Key) ([]byte, error) {
	if k == nil || !k.IsPublic() {
		return nil, key.ErrMissingPublicKey
	}
	if k.Type.IsCertificate() {
		if k.Certificate == nil {
			return nil, key.ErrNoCertificate
		}
		return append([]byte(nil), k.Certificate...), nil
	}

	var w wire.Writer
	w.WriteText(k.Type.Name())
	if err := encodePublicFields(&w, k); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func encodePublicFields(w *wire.Writer, k *key.Key) error {
	t := k.Type.Plain()

	switch m := k.Material.(type) {
	case *key.RSAMaterial:
		w.WriteMPInt(big.NewInt(int64(m.Public.E)))
		w.WriteMPInt(m.Public.N)
	case *key.DSSMaterial:
		w.WriteMPInt(m.Public.P)
		w.WriteMPInt(m.Public.Q)
		w.WriteMPInt(m.Public.G)
		w.WriteMPInt(m.Public.Y)
	case *key.ECDSAMaterial:
		w.WriteText(t.ECDSACurveName())
		w.WriteString(elliptic.Marshal(m.Public.Curve, m.Public.X, m.Public.Y))
	case *key.Ed25519Material:
		w.WriteString(m.Public)
	case nil:
		if !t.IsPostQuantum() {
			return fmt.Errorf("%w: %v", ErrUnsupportedKeyType, k.Type)
		}
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedKeyType, k.Type)
	}

	if t.IsSecurityKey() {
		w.WriteString(k.SKApplication)
	}
	if t.IsPostQuantum() {
		w.WriteString(k.PQPublic)
	}
	return nil
}

// EncodeAuthorizedKey renders the single-line public key file format:
// "<type> <base64-blob> <comment>\n".
func EncodeAuthorizedKey(k *key.Key, comment string) ([]byte, error) {
	blob, err := EncodePublicKeyBlob(k)
	if err != nil {
		return nil, err
	}
	name := k.Type.Name()
	line := name + " " + base64.StdEncoding.EncodeToString(blob)
	if comment != "" {
		line += " " + comment
	}
	return []byte(line + "\n"), nil
}

// DecodeAuthorizedKey parses a single public key line: the first token
// is the algorithm name, the second the base64 blob; anything after is
// the comment. The declared name must match the blob's embedded name.
func DecodeAuthorizedKey(line []byte) (*key.Key, error) {
	fields := strings.Fields(string(line))
	if len(fields) < 2 {
		return nil, fmt.Errorf("%w: public key line needs a type and a blob", ErrMalformed)
	}
	blob, err := base64.StdEncoding.DecodeString(fields[1])
	if err != nil {
		return nil, fmt.Errorf("%w: base64: %v", ErrMalformed, err)
	}
	k, err := DecodePublicKeyBlob(blob)
	if err != nil {
		return nil, err
	}
	if k.Type.Name() != fields[0] {
		k.Destroy()
		return nil, fmt.Errorf("%w: declared type %q does not match blob type %q",
			ErrMalformed, fields[0], k.Type.Name())
	}
	if len(fields) > 2 {
		k.Comment = strings.Join(fields[2:], " ")
	}
	return k, nil
}
