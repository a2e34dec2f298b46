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

// Package secret provides a scoped buffer for sensitive material
// (private key bytes, passphrases, raw signatures). A Secret is always
// scrubbed with Zero before release, and redacts itself from every
// formatting and marshaling path so private bytes cannot leak into logs.
package secret

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
)

const redacted = "[REDACTED]"

// Secret holds sensitive bytes. The zero value is a nil, empty secret.
type Secret []byte

// New copies in and returns the copy as a Secret. The caller remains
// responsible for zeroing its own input buffer.
func New(in []byte) Secret {
	out := make(Secret, len(in))
	copy(out, in)
	return out
}

// FromString wraps a string's bytes in a Secret.
func FromString(in string) Secret {
	return Secret([]byte(in))
}

// Bytes returns the underlying bytes without copying. The returned slice
// aliases the secret; it becomes invalid after Zero.
func (s Secret) Bytes() []byte {
	return []byte(s)
}

// Len returns the secret length in bytes.
func (s Secret) Len() int {
	return len(s)
}

// Equal compares two secrets in constant time.
func (s Secret) Equal(other Secret) bool {
	return subtle.ConstantTimeCompare(s, other) == 1
}

// Zero overwrites the secret with zero bytes. Safe on a nil secret.
func (s *Secret) Zero() {
	if s == nil || *s == nil {
		return
	}
	for i := range *s {
		(*s)[i] = 0
	}
	*s = nil
}

// String redacts the secret for fmt.Print* convenience.
func (s Secret) String() string { return redacted }

// Format implements fmt.Formatter so %v, %x, %#v and friends are redacted.
func (s Secret) Format(f fmt.State, c rune) {
	_, _ = io.WriteString(f, redacted)
}

// MarshalJSON redacts the secret in JSON output.
func (s Secret) MarshalJSON() ([]byte, error) { return json.Marshal(redacted) }

// MarshalText redacts the secret in text encodings.
func (s Secret) MarshalText() ([]byte, error) { return []byte(redacted), nil }
