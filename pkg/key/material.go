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
	"crypto/rsa"
	"crypto/subtle"
	"math/big"
)

// Material is the algorithm-specific half of a Key: a tagged variant
// holding exactly the fields of one algorithm family. The concrete type
// is always consistent with the owning Key's type, so codecs and engines
// type-switch on it instead of inspecting parallel optional fields.
type Material interface {
	// HasPrivate reports whether private material is present.
	HasPrivate() bool

	// Clone deep-copies the material. With demote set the private half
	// is omitted, leaving a public-only copy.
	Clone(demote bool) Material

	// Equal compares material. With private set, both sides must hold
	// private material and it must match.
	Equal(other Material, private bool) bool

	// Destroy scrubs private components before release. Safe on
	// partially-populated material.
	Destroy()
}

// zeroBigInt overwrites the words backing v. Scrubbing big.Int values is
// best-effort: intermediate values created by math/big during use are
// owned by the runtime and out of reach.
func zeroBigInt(v *big.Int) {
	if v == nil {
		return
	}
	bits := v.Bits()
	for i := range bits {
		bits[i] = 0
	}
	v.SetInt64(0)
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// =============================================================================
// RSA
// =============================================================================

// RSAMaterial holds RSA key components.
type RSAMaterial struct {
	Public  *rsa.PublicKey
	Private *rsa.PrivateKey
}

// HasPrivate implements Material.
func (m *RSAMaterial) HasPrivate() bool { return m.Private != nil }

// Clone implements Material.
func (m *RSAMaterial) Clone(demote bool) Material {
	out := &RSAMaterial{}
	if m.Public != nil {
		out.Public = &rsa.PublicKey{N: new(big.Int).Set(m.Public.N), E: m.Public.E}
	}
	if m.Private != nil && !demote {
		priv := &rsa.PrivateKey{
			PublicKey: rsa.PublicKey{N: new(big.Int).Set(m.Private.N), E: m.Private.E},
			D:         new(big.Int).Set(m.Private.D),
		}
		for _, p := range m.Private.Primes {
			priv.Primes = append(priv.Primes, new(big.Int).Set(p))
		}
		priv.Precompute()
		out.Private = priv
	}
	return out
}

// Equal implements Material.
func (m *RSAMaterial) Equal(other Material, private bool) bool {
	o, ok := other.(*RSAMaterial)
	if !ok || m.Public == nil || o.Public == nil {
		return false
	}
	if m.Public.N.Cmp(o.Public.N) != 0 || m.Public.E != o.Public.E {
		return false
	}
	if private {
		if m.Private == nil || o.Private == nil {
			return false
		}
		if m.Private.D.Cmp(o.Private.D) != 0 {
			return false
		}
	}
	return true
}

// Destroy implements Material.
func (m *RSAMaterial) Destroy() {
	if m.Private != nil {
		zeroBigInt(m.Private.D)
		for _, p := range m.Private.Primes {
			zeroBigInt(p)
		}
		zeroBigInt(m.Private.Precomputed.Dp)
		zeroBigInt(m.Private.Precomputed.Dq)
		zeroBigInt(m.Private.Precomputed.Qinv)
		m.Private = nil
	}
	m.Public = nil
}

// =============================================================================
// DSS (ssh-dss)
// =============================================================================

// DSSMaterial holds DSA key components.
type DSSMaterial struct {
	Public  *dsa.PublicKey
	Private *dsa.PrivateKey
}

// HasPrivate implements Material.
func (m *DSSMaterial) HasPrivate() bool { return m.Private != nil }

// Clone implements Material.
func (m *DSSMaterial) Clone(demote bool) Material {
	out := &DSSMaterial{}
	if m.Public != nil {
		out.Public = &dsa.PublicKey{
			Parameters: dsa.Parameters{
				P: new(big.Int).Set(m.Public.P),
				Q: new(big.Int).Set(m.Public.Q),
				G: new(big.Int).Set(m.Public.G),
			},
			Y: new(big.Int).Set(m.Public.Y),
		}
	}
	if m.Private != nil && !demote {
		out.Private = &dsa.PrivateKey{
			PublicKey: dsa.PublicKey{
				Parameters: dsa.Parameters{
					P: new(big.Int).Set(m.Private.P),
					Q: new(big.Int).Set(m.Private.Q),
					G: new(big.Int).Set(m.Private.G),
				},
				Y: new(big.Int).Set(m.Private.Y),
			},
			X: new(big.Int).Set(m.Private.X),
		}
	}
	return out
}

// Equal implements Material.
func (m *DSSMaterial) Equal(other Material, private bool) bool {
	o, ok := other.(*DSSMaterial)
	if !ok || m.Public == nil || o.Public == nil {
		return false
	}
	if m.Public.P.Cmp(o.Public.P) != 0 ||
		m.Public.Q.Cmp(o.Public.Q) != 0 ||
		m.Public.G.Cmp(o.Public.G) != 0 ||
		m.Public.Y.Cmp(o.Public.Y) != 0 {
		return false
	}
	if private {
		if m.Private == nil || o.Private == nil {
			return false
		}
		if m.Private.X.Cmp(o.Private.X) != 0 {
			return false
		}
	}
	return true
}

// Destroy implements Material.
func (m *DSSMaterial) Destroy() {
	if m.Private != nil {
		zeroBigInt(m.Private.X)
		m.Private = nil
	}
	m.Public = nil
}

// =============================================================================
// ECDSA
// =============================================================================

// ECDSAMaterial holds ECDSA key components.
type ECDSAMaterial struct {
	Public  *ecdsa.PublicKey
	Private *ecdsa.PrivateKey
}

// HasPrivate implements Material.
func (m *ECDSAMaterial) HasPrivate() bool { return m.Private != nil }

// Clone implements Material.
func (m *ECDSAMaterial) Clone(demote bool) Material {
	out := &ECDSAMaterial{}
	if m.Public != nil {
		out.Public = &ecdsa.PublicKey{
			Curve: m.Public.Curve,
			X:     new(big.Int).Set(m.Public.X),
			Y:     new(big.Int).Set(m.Public.Y),
		}
	}
	if m.Private != nil && !demote {
		out.Private = &ecdsa.PrivateKey{
			PublicKey: ecdsa.PublicKey{
				Curve: m.Private.Curve,
				X:     new(big.Int).Set(m.Private.X),
				Y:     new(big.Int).Set(m.Private.Y),
			},
			D: new(big.Int).Set(m.Private.D),
		}
	}
	return out
}

// Equal implements Material.
func (m *ECDSAMaterial) Equal(other Material, private bool) bool {
	o, ok := other.(*ECDSAMaterial)
	if !ok || m.Public == nil || o.Public == nil {
		return false
	}
	if m.Public.Curve != o.Public.Curve ||
		m.Public.X.Cmp(o.Public.X) != 0 ||
		m.Public.Y.Cmp(o.Public.Y) != 0 {
		return false
	}
	if private {
		if m.Private == nil || o.Private == nil {
			return false
		}
		if m.Private.D.Cmp(o.Private.D) != 0 {
			return false
		}
	}
	return true
}

// Destroy implements Material.
func (m *ECDSAMaterial) Destroy() {
	if m.Private != nil {
		zeroBigInt(m.Private.D)
		m.Private = nil
	}
	m.Public = nil
}

// =============================================================================
// Ed25519
// =============================================================================

// Ed25519Material holds Ed25519 key components. The private key is the
// 64-byte seed-plus-public form used by crypto/ed25519; seed-only inputs
// are expanded at decode time so Destroy always scrubs the full buffer.
type Ed25519Material struct {
	Public  ed25519.PublicKey
	Private ed25519.PrivateKey
}

// HasPrivate implements Material.
func (m *Ed25519Material) HasPrivate() bool { return len(m.Private) > 0 }

// Clone implements Material.
func (m *Ed25519Material) Clone(demote bool) Material {
	out := &Ed25519Material{}
	if m.Public != nil {
		out.Public = append(ed25519.PublicKey(nil), m.Public...)
	}
	if m.Private != nil && !demote {
		out.Private = append(ed25519.PrivateKey(nil), m.Private...)
	}
	return out
}

// Equal implements Material.
func (m *Ed25519Material) Equal(other Material, private bool) bool {
	o, ok := other.(*Ed25519Material)
	if !ok || m.Public == nil || o.Public == nil {
		return false
	}
	if subtle.ConstantTimeCompare(m.Public, o.Public) != 1 {
		return false
	}
	if private {
		if m.Private == nil || o.Private == nil {
			return false
		}
		if subtle.ConstantTimeCompare(m.Private, o.Private) != 1 {
			return false
		}
	}
	return true
}

// Destroy implements Material.
func (m *Ed25519Material) Destroy() {
	zeroBytes(m.Private)
	m.Private = nil
	m.Public = nil
}
