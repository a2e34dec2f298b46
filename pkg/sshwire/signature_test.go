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
	"encoding/binary"
	"errors"
	"math/big"
	"testing"

	"github.com/jeremyhahn/go-sshpki/pkg/key"
	"github.com/jeremyhahn/go-sshpki/pkg/types"
)

func TestSignatureBlobRoundTripRSA(t *testing.T) {
	k := mustGenerate(t, types.RSA, 1024)
	sig := &key.Signature{
		Type:     types.RSA,
		HashType: types.DigestSHA256,
		RSA:      bytes.Repeat([]byte{0x42}, 128),
	}
	t.Cleanup(sig.Destroy)

	blob, err := EncodeSignatureBlob(sig)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeSignatureBlob(k, blob)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	t.Cleanup(decoded.Destroy)

	if decoded.Type != types.RSA || decoded.HashType != types.DigestSHA256 {
		t.Fatalf("decoded type %v hash %v", decoded.Type, decoded.HashType)
	}
	if !bytes.Equal(decoded.RSA, sig.RSA) {
		t.Fatal("rsa value differs after round trip")
	}

	// The SHA-256 variant must carry its own algorithm name.
	if !bytes.Contains(blob, []byte("rsa-sha2-256")) {
		t.Fatalf("blob missing rsa-sha2-256 name: %x", blob)
	}
}

func TestSignatureBlobRoundTripDSS(t *testing.T) {
	k := mustGenerate(t, types.Ed25519, 0) // stand-in carrier, retyped below
	k.Type = types.DSS

	sig := &key.Signature{
		Type:     types.DSS,
		HashType: types.DigestSHA1,
		DSS: &key.DSASignatureValue{
			R: big.NewInt(0x1234),
			S: big.NewInt(0x56789A),
		},
	}
	t.Cleanup(sig.Destroy)

	blob, err := EncodeSignatureBlob(sig)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeSignatureBlob(k, blob)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	t.Cleanup(decoded.Destroy)

	if decoded.DSS.R.Cmp(sig.DSS.R) != 0 || decoded.DSS.S.Cmp(sig.DSS.S) != 0 {
		t.Fatal("dss components differ after round trip")
	}
}

func TestSignatureBlobDSSExactLength(t *testing.T) {
	k := mustGenerate(t, types.Ed25519, 0)
	k.Type = types.DSS

	// ssh-dss carries exactly two raw 160-bit values. 39 and 41 bytes
	// must both be rejected.
	for _, n := range []int{39, 41} {
		var valueBuf bytes.Buffer
		name := "ssh-dss"
		_ = binary.Write(&valueBuf, binary.BigEndian, uint32(len(name)))
		valueBuf.WriteString(name)
		_ = binary.Write(&valueBuf, binary.BigEndian, uint32(n))
		valueBuf.Write(make([]byte, n))

		_, err := DecodeSignatureBlob(k, valueBuf.Bytes())
		if !errors.Is(err, ErrMalformed) {
			t.Fatalf("%d-byte value: err = %v, want ErrMalformed", n, err)
		}
	}
}

func TestSignatureBlobRoundTripECDSA(t *testing.T) {
	k := mustGenerate(t, types.ECDSAP384, 0)
	sig := &key.Signature{
		Type:     types.ECDSAP384,
		HashType: types.DigestSHA384,
		ECDSA: &key.ECDSASignatureValue{
			R: new(big.Int).SetBytes(bytes.Repeat([]byte{0xFF}, 48)),
			S: big.NewInt(7),
		},
	}
	t.Cleanup(sig.Destroy)

	blob, err := EncodeSignatureBlob(sig)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeSignatureBlob(k, blob)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	t.Cleanup(decoded.Destroy)

	if decoded.ECDSA.R.Cmp(sig.ECDSA.R) != 0 || decoded.ECDSA.S.Cmp(sig.ECDSA.S) != 0 {
		t.Fatal("ecdsa components differ after round trip")
	}
	// High-bit R requires an mpint zero pad; re-encoding must be stable.
	again, err := EncodeSignatureBlob(decoded)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(blob, again) {
		t.Fatal("re-encode not byte-exact")
	}
}

func TestSignatureBlobRoundTripEd25519(t *testing.T) {
	k := mustGenerate(t, types.Ed25519, 0)
	sig := &key.Signature{
		Type:     types.Ed25519,
		HashType: types.DigestAuto,
		Ed25519:  bytes.Repeat([]byte{0xA5}, 64),
	}
	t.Cleanup(sig.Destroy)

	blob, err := EncodeSignatureBlob(sig)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeSignatureBlob(k, blob)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	t.Cleanup(decoded.Destroy)
	if !bytes.Equal(decoded.Ed25519, sig.Ed25519) {
		t.Fatal("ed25519 value differs after round trip")
	}
}

func TestSignatureBlobEd25519ExactLength(t *testing.T) {
	k := mustGenerate(t, types.Ed25519, 0)
	sig := &key.Signature{
		Type:     types.Ed25519,
		HashType: types.DigestAuto,
		Ed25519:  bytes.Repeat([]byte{0xA5}, 64),
	}
	t.Cleanup(sig.Destroy)
	blob, err := EncodeSignatureBlob(sig)
	if err != nil {
		t.Fatal(err)
	}
	// Shrink the embedded value string by one byte.
	truncated := append([]byte(nil), blob...)
	truncated = truncated[:len(truncated)-1]
	binary.BigEndian.PutUint32(truncated[4+len("ssh-ed25519"):], 63)
	if _, err := DecodeSignatureBlob(k, truncated); !errors.Is(err, ErrMalformed) {
		t.Fatalf("63-byte value: err = %v, want ErrMalformed", err)
	}
}

func TestSignatureBlobSecurityKey(t *testing.T) {
	base := mustGenerate(t, types.Ed25519, 0)
	sk := base.Dup(true)
	t.Cleanup(sk.Destroy)
	sk.Type = types.SKEd25519
	sk.SKApplication = []byte("ssh:")

	sig := &key.Signature{
		Type:      types.SKEd25519,
		HashType:  types.DigestAuto,
		Ed25519:   bytes.Repeat([]byte{0x11}, 64),
		SKFlags:   0x01,
		SKCounter: 4242,
	}
	t.Cleanup(sig.Destroy)

	blob, err := EncodeSignatureBlob(sig)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeSignatureBlob(sk, blob)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	t.Cleanup(decoded.Destroy)

	if decoded.SKFlags != 0x01 || decoded.SKCounter != 4242 {
		t.Fatalf("flags %#x counter %d", decoded.SKFlags, decoded.SKCounter)
	}
}

func TestSignatureBlobTrailingBytes(t *testing.T) {
	k := mustGenerate(t, types.Ed25519, 0)
	sig := &key.Signature{
		Type:     types.Ed25519,
		HashType: types.DigestAuto,
		Ed25519:  make([]byte, 64),
	}
	t.Cleanup(sig.Destroy)
	blob, err := EncodeSignatureBlob(sig)
	if err != nil {
		t.Fatal(err)
	}
	blob = append(blob, 0x00)
	if _, err := DecodeSignatureBlob(k, blob); !errors.Is(err, ErrMalformed) {
		t.Fatalf("err = %v, want ErrMalformed", err)
	}
}

func TestSignatureBlobUnknownAlgorithm(t *testing.T) {
	k := mustGenerate(t, types.Ed25519, 0)
	var buf bytes.Buffer
	name := "ssh-kyber512"
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(name)))
	buf.WriteString(name)
	_ = binary.Write(&buf, binary.BigEndian, uint32(4))
	buf.Write([]byte{1, 2, 3, 4})
	if _, err := DecodeSignatureBlob(k, buf.Bytes()); !errors.Is(err, ErrUnsupportedKeyType) {
		t.Fatalf("err = %v, want ErrUnsupportedKeyType", err)
	}
}

func TestSignatureBlobPurePQRaw(t *testing.T) {
	base := mustGenerate(t, types.Ed25519, 0)
	pq := base.Dup(true)
	t.Cleanup(pq.Destroy)
	pq.Type = types.Dilithium2

	raw := bytes.Repeat([]byte{0xD1}, 2420)
	decoded, err := DecodeSignatureBlob(pq, raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	t.Cleanup(decoded.Destroy)
	if decoded.Type != types.Dilithium2 || !bytes.Equal(decoded.PQ, raw) {
		t.Fatal("pure pq signature must pass through untouched")
	}

	out, err := EncodeSignatureBlob(decoded)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, raw) {
		t.Fatal("pure pq re-encode differs")
	}
}

func TestSignatureBlobHybridFraming(t *testing.T) {
	base := mustGenerate(t, types.ECDSAP256, 0)
	hy := base.Dup(true)
	t.Cleanup(hy.Destroy)
	hy.Type = types.P256Dilithium2

	sig := &key.Signature{
		Type:     types.P256Dilithium2,
		HashType: types.DigestSHA256,
		ECDSA: &key.ECDSASignatureValue{
			R: big.NewInt(0x0102),
			S: big.NewInt(0x0304),
		},
		PQ: bytes.Repeat([]byte{0xEE}, 128),
	}
	t.Cleanup(sig.Destroy)

	blob, err := EncodeSignatureBlob(sig)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	classicalLen := binary.BigEndian.Uint32(blob)
	pqLen := binary.BigEndian.Uint32(blob[4+classicalLen:])
	if int(pqLen) != 128 {
		t.Fatalf("pq length = %d", pqLen)
	}
	if len(blob) != int(4+classicalLen+4+pqLen) {
		t.Fatal("hybrid blob has slack bytes")
	}
	// The classical half of an ECDSA hybrid is framed under the hybrid
	// name itself.
	if !bytes.Contains(blob[:4+classicalLen], []byte(types.P256Dilithium2.Name())) {
		t.Fatal("classical half missing hybrid algorithm name")
	}

	decoded, err := DecodeSignatureBlob(hy, blob)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	t.Cleanup(decoded.Destroy)
	if decoded.ECDSA.R.Cmp(sig.ECDSA.R) != 0 || !bytes.Equal(decoded.PQ, sig.PQ) {
		t.Fatal("hybrid halves differ after round trip")
	}

	// Any slack byte anywhere breaks the exact accounting.
	bad := append(append([]byte(nil), blob...), 0x00)
	if _, err := DecodeSignatureBlob(hy, bad); !errors.Is(err, ErrMalformed) {
		t.Fatalf("slack byte: err = %v, want ErrMalformed", err)
	}
	if _, err := DecodeSignatureBlob(hy, blob[:3]); !errors.Is(err, ErrMalformed) {
		t.Fatalf("short blob: err = %v, want ErrMalformed", err)
	}
}

func TestSignatureBlobRSAHybridClassicalName(t *testing.T) {
	base := mustGenerate(t, types.RSA, 1024)
	hy := base.Dup(true)
	t.Cleanup(hy.Destroy)
	hy.Type = types.RSA3072Falcon512

	sig := &key.Signature{
		Type:     types.RSA3072Falcon512,
		HashType: types.DigestSHA256,
		RSA:      bytes.Repeat([]byte{0x5A}, 384),
		PQ:       bytes.Repeat([]byte{0xF5}, 690),
	}
	t.Cleanup(sig.Destroy)

	blob, err := EncodeSignatureBlob(sig)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	classicalLen := binary.BigEndian.Uint32(blob)
	classical := blob[4 : 4+classicalLen]
	// The classical half keeps the plain RSA algorithm identifier, not
	// the hybrid name.
	if !bytes.Contains(classical, []byte("rsa-sha2-256")) {
		t.Fatalf("classical half = %x", classical)
	}
	if bytes.Contains(classical, []byte("falcon")) {
		t.Fatal("hybrid name leaked into the classical half")
	}

	decoded, err := DecodeSignatureBlob(hy, blob)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	t.Cleanup(decoded.Destroy)
	// Decoding reports the classical algorithm for the inner half; the
	// verifier reconciles it against the hybrid key type.
	if decoded.Type != types.RSA {
		t.Fatalf("decoded inner type = %v", decoded.Type)
	}
	if !bytes.Equal(decoded.RSA, sig.RSA) || !bytes.Equal(decoded.PQ, sig.PQ) {
		t.Fatal("hybrid halves differ after round trip")
	}
}
