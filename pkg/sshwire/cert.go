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
	"fmt"

	"github.com/jeremyhahn/go-sshpki/pkg/key"
	"github.com/jeremyhahn/go-sshpki/pkg/types"
	"github.com/jeremyhahn/go-sshpki/pkg/wire"
)

// decodeCertificate parses an OpenSSH certificate blob. The reader is
// positioned just past the certificate type name. The layout is the type
// name, a nonce (protocol entropy, read and discarded), the plain-key
// public fields, and the certificate extension fields (serial, validity,
// principals, extensions, CA signature). The extensions are retained as
// an opaque range inside the stored blob rather than modeled field by
// field; they are forwarded verbatim on re-export and interpreted by
// upper protocol layers.
//
// The full original blob is retained so a decode/encode round trip is
// byte-exact, including the already-consumed leading type name.
func decodeCertificate(blob []byte, r *wire.Reader, t types.KeyType) (*key.Key, error) {
	if _, err := r.ReadString(); err != nil {
		return nil, fmt.Errorf("%w: certificate nonce: %v", ErrMalformed, err)
	}

	k := &key.Key{Type: t, Flags: key.FlagPublic}
	if err := decodePublicFields(r, k, t.Plain()); err != nil {
		k.Destroy()
		return nil, err
	}

	// Everything after the public fields is the certificate extension
	// range. An empty range means the signature is missing.
	if r.Remaining() == 0 {
		k.Destroy()
		return nil, fmt.Errorf("%w: certificate missing extension fields", ErrMalformed)
	}

	k.Certificate = append([]byte(nil), blob...)
	k.CertType = t
	return k, nil
}

// CertifiedPublicKey extracts the plain public key certified by a
// certificate key: the same material under the plain key type, with no
// certificate blob attached. Decoding is one-directional; there is no
// path from a plain key back to its certificate.
func CertifiedPublicKey(certKey *key.Key) (*key.Key, error) {
	if certKey == nil || !certKey.Type.IsCertificate() {
		return nil, fmt.Errorf("%w: not a certificate key", ErrUnsupportedKeyType)
	}
	k := certKey.Dup(true)
	zero := make([]byte, len(k.Certificate))
	copy(k.Certificate, zero)
	k.Certificate = nil
	k.Type = certKey.Type.Plain()
	k.CertType = types.Unknown
	return k, nil
}
