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

package quantum

import (
	"errors"
	"testing"

	"github.com/jeremyhahn/go-sshpki/pkg/types"
)

func TestSchemeFor(t *testing.T) {
	tests := []struct {
		kt      types.KeyType
		oqsName string
	}{
		{types.Dilithium2, "ML-DSA-44"},
		{types.Falcon512, "Falcon-512"},
		{types.SphincsSHA256128FRobust, "SPHINCS+-SHA2-128f-simple"},
		{types.RSA3072Dilithium2, "ML-DSA-44"},
		{types.RSA3072Falcon512, "Falcon-512"},
		{types.P256Dilithium2, "ML-DSA-44"},
		{types.P256SphincsSHA256128FRobust, "SPHINCS+-SHA2-128f-simple"},
	}
	for _, tt := range tests {
		s, err := SchemeFor(tt.kt)
		if err != nil {
			t.Fatalf("SchemeFor(%v): %v", tt.kt, err)
		}
		if s.OQSName != tt.oqsName {
			t.Errorf("SchemeFor(%v).OQSName = %q, want %q", tt.kt, s.OQSName, tt.oqsName)
		}
		if s.PublicKeyLen <= 0 || s.SecretKeyLen <= 0 {
			t.Errorf("SchemeFor(%v): key lengths must be declared", tt.kt)
		}
	}
}

func TestSchemeForClassical(t *testing.T) {
	for _, kt := range []types.KeyType{types.RSA, types.Ed25519, types.ECDSAP384, types.Unknown} {
		if _, err := SchemeFor(kt); !errors.Is(err, ErrUnsupportedScheme) {
			t.Errorf("SchemeFor(%v) err = %v, want ErrUnsupportedScheme", kt, err)
		}
	}
}
