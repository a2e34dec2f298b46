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
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/jeremyhahn/go-sshpki/pkg/key"
	"github.com/jeremyhahn/go-sshpki/pkg/secret"
	"github.com/jeremyhahn/go-sshpki/pkg/types"
	"github.com/jeremyhahn/go-sshpki/pkg/wire"
)

const dssSignatureLen = 40 // two raw 160-bit values

// EncodeSignatureBlob serializes a signature to its wire blob.
//
// Classical signatures are "string name, string value" (RFC 4253 §6.6),
// with the security-key flags byte and counter appended for sk-* types.
// Pure post-quantum signatures are the raw scheme signature with no name
// framing. Hybrid signatures concatenate both halves, each preceded by a
// 4-byte big-endian length.
func EncodeSignatureBlob(sig *key.Signature) ([]byte, error) {
	if sig == nil {
		return nil, fmt.Errorf("%w: nil signature", ErrMalformed)
	}

	hybrid := sig.Type.IsHybrid()
	pureOQS := sig.Type.IsPostQuantum() && !hybrid

	if pureOQS {
		if sig.PQ == nil {
			return nil, fmt.Errorf("%w: missing pq signature", ErrMalformed)
		}
		return append([]byte(nil), sig.PQ...), nil
	}

	classical, err := encodeClassicalSignature(sig)
	if err != nil {
		return nil, err
	}
	if !hybrid {
		return classical, nil
	}

	if sig.PQ == nil {
		return nil, fmt.Errorf("%w: hybrid signature missing pq half", ErrMalformed)
	}
	out := make([]byte, 0, 8+len(classical)+len(sig.PQ))
	out = binary.BigEndian.AppendUint32(out, uint32(len(classical)))
	out = append(out, classical...)
	out = binary.BigEndian.AppendUint32(out, uint32(len(sig.PQ)))
	out = append(out, sig.PQ...)
	return out, nil
}

// classicalSignatureName returns the name framing the classical half.
// RSA hybrids keep the classical RSA identifier; every other type signs
// under its own name.
func classicalSignatureName(sig *key.Signature) string {
	if sig.Type.IsRSAHybrid() {
		return types.RSA.SignatureName(sig.HashType)
	}
	return sig.Type.SignatureName(sig.HashType)
}

func encodeClassicalSignature(sig *key.Signature) ([]byte, error) {
	name := classicalSignatureName(sig)
	if name == "" {
		return nil, fmt.Errorf("%w: no signature name for %v with %v",
			ErrMalformed, sig.Type, sig.HashType)
	}

	var value wire.Writer
	switch {
	case sig.RSA != nil:
		value.WriteRaw(sig.RSA)
	case sig.DSS != nil:
		r := sig.DSS.R.Bytes()
		s := sig.DSS.S.Bytes()
		if len(r) > dssSignatureLen/2 || len(s) > dssSignatureLen/2 {
			return nil, fmt.Errorf("%w: dss component too large", ErrMalformed)
		}
		buf := make([]byte, dssSignatureLen)
		copy(buf[dssSignatureLen/2-len(r):], r)
		copy(buf[dssSignatureLen-len(s):], s)
		value.WriteRaw(buf)
	case sig.ECDSA != nil:
		value.WriteMPInt(sig.ECDSA.R)
		value.WriteMPInt(sig.ECDSA.S)
	case sig.Ed25519 != nil:
		value.WriteRaw(sig.Ed25519)
	default:
		return nil, fmt.Errorf("%w: empty signature value", ErrMalformed)
	}

	var w wire.Writer
	w.WriteText(name)
	w.WriteString(value.Bytes())
	if sig.Type.IsSecurityKey() {
		w.WriteUint8(sig.SKFlags)
		w.WriteUint32(sig.SKCounter)
	}
	return w.Bytes(), nil
}

// DecodeSignatureBlob parses a signature blob against the key that will
// verify it. The key determines the expected framing: hybrid keys expect
// the dual length-prefixed layout, pure post-quantum keys a raw scheme
// signature, and classical keys the named RFC 4253 layout.
func DecodeSignatureBlob(pubkey *key.Key, blob []byte) (*key.Signature, error) {
	if pubkey == nil {
		return nil, fmt.Errorf("%w: nil key", ErrMalformed)
	}
	plain := pubkey.Type.Plain()

	switch {
	case plain.IsHybrid():
		return decodeHybridSignature(pubkey, blob)
	case plain.IsPostQuantum():
		sig := &key.Signature{
			Type:     plain,
			HashType: types.DigestAuto,
			PQ:       append([]byte(nil), blob...),
			Raw:      secret.New(blob),
		}
		return sig, nil
	default:
		return decodeClassicalSignature(pubkey, blob)
	}
}

func decodeHybridSignature(pubkey *key.Key, blob []byte) (*key.Signature, error) {
	if len(blob) < 4 {
		return nil, fmt.Errorf("%w: hybrid signature too short", ErrMalformed)
	}
	classicalLen := binary.BigEndian.Uint32(blob)
	if uint64(len(blob)) < 4+uint64(classicalLen)+4 {
		return nil, fmt.Errorf("%w: hybrid signature truncated after classical half", ErrMalformed)
	}
	classical := blob[4 : 4+classicalLen]
	pqLen := binary.BigEndian.Uint32(blob[4+classicalLen:])
	// The four components must account for every byte of the blob.
	if uint64(len(blob)) != 4+uint64(classicalLen)+4+uint64(pqLen) {
		return nil, fmt.Errorf("%w: hybrid signature length mismatch", ErrMalformed)
	}
	pq := blob[8+classicalLen:]

	sig, err := decodeClassicalSignature(pubkey, classical)
	if err != nil {
		return nil, err
	}
	sig.PQ = append([]byte(nil), pq...)
	sig.Raw.Zero()
	sig.Raw = secret.New(blob)
	return sig, nil
}

func decodeClassicalSignature(pubkey *key.Key, blob []byte) (*key.Signature, error) {
	r := wire.NewReader(blob)
	name, err := r.ReadText()
	if err != nil {
		return nil, fmt.Errorf("%w: signature name: %v", ErrMalformed, err)
	}
	sigType := types.KeyTypeFromSignatureName(name)
	if sigType == types.Unknown {
		return nil, fmt.Errorf("%w: signature algorithm %q", ErrUnsupportedKeyType, name)
	}
	hashType := types.DigestFromSignatureName(name)

	value, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("%w: signature value: %v", ErrMalformed, err)
	}

	sig := &key.Signature{
		Type:     sigType,
		HashType: hashType,
		Raw:      secret.New(blob),
	}

	if sigType.IsSecurityKey() {
		flags, err := r.ReadUint8()
		if err != nil {
			sig.Destroy()
			return nil, fmt.Errorf("%w: sk flags: %v", ErrMalformed, err)
		}
		counter, err := r.ReadUint32()
		if err != nil {
			sig.Destroy()
			return nil, fmt.Errorf("%w: sk counter: %v", ErrMalformed, err)
		}
		sig.SKFlags = flags
		sig.SKCounter = counter
	}
	if r.Remaining() != 0 {
		sig.Destroy()
		return nil, fmt.Errorf("%w: %d trailing bytes after signature", ErrMalformed, r.Remaining())
	}

	if err := decodeSignatureValue(sig, sigType, value); err != nil {
		sig.Destroy()
		return nil, err
	}
	return sig, nil
}

func decodeSignatureValue(sig *key.Signature, sigType types.KeyType, value []byte) error {
	switch family := sigType.Plain(); {
	case family == types.RSA || family.IsRSAHybrid():
		if len(value) == 0 {
			return fmt.Errorf("%w: empty rsa signature", ErrMalformed)
		}
		sig.RSA = append([]byte(nil), value...)

	case family == types.DSS:
		if len(value) != dssSignatureLen {
			return fmt.Errorf("%w: dss signature is %d bytes, want %d",
				ErrMalformed, len(value), dssSignatureLen)
		}
		sig.DSS = &key.DSASignatureValue{
			R: new(big.Int).SetBytes(value[:dssSignatureLen/2]),
			S: new(big.Int).SetBytes(value[dssSignatureLen/2:]),
		}

	case family.ECDSACurve() != nil:
		vr := wire.NewReader(value)
		rInt, err := vr.ReadMPInt()
		if err != nil {
			return fmt.Errorf("%w: ecdsa r: %v", ErrMalformed, err)
		}
		sInt, err := vr.ReadMPInt()
		if err != nil {
			return fmt.Errorf("%w: ecdsa s: %v", ErrMalformed, err)
		}
		if vr.Remaining() != 0 {
			return fmt.Errorf("%w: trailing bytes in ecdsa signature", ErrMalformed)
		}
		sig.ECDSA = &key.ECDSASignatureValue{R: rInt, S: sInt}

	case family == types.Ed25519 || family == types.SKEd25519:
		if len(value) != 64 {
			return fmt.Errorf("%w: ed25519 signature is %d bytes, want 64",
				ErrMalformed, len(value))
		}
		sig.Ed25519 = append([]byte(nil), value...)

	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedKeyType, sigType)
	}
	return nil
}
