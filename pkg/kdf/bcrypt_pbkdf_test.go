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

package kdf

import (
	"bytes"
	"errors"
	"testing"
)

func TestForName(t *testing.T) {
	k, err := ForName("bcrypt")
	if err != nil {
		t.Fatal(err)
	}
	if k.Name() != "bcrypt" {
		t.Fatalf("Name = %q", k.Name())
	}
	if _, err := ForName("pbkdf2"); !errors.Is(err, ErrUnknownKDF) {
		t.Fatalf("err = %v, want ErrUnknownKDF", err)
	}
}

func TestDeriveDeterministic(t *testing.T) {
	k := BcryptPBKDF{}
	a, err := k.Derive([]byte("passphrase"), []byte("0123456789abcdef"), 16, 48)
	if err != nil {
		t.Fatal(err)
	}
	b, err := k.Derive([]byte("passphrase"), []byte("0123456789abcdef"), 16, 48)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 48 {
		t.Fatalf("key length = %d, want 48", len(a))
	}
	if !bytes.Equal(a, b) {
		t.Fatal("derivation must be deterministic")
	}
}

func TestDeriveSensitivity(t *testing.T) {
	k := BcryptPBKDF{}
	salt := []byte("0123456789abcdef")
	base, err := k.Derive([]byte("passphrase"), salt, 4, 32)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		pass []byte
		salt []byte
		rounds uint32
	}{
		{"different passphrase", []byte("Passphrase"), salt, 4},
		{"different salt", []byte("passphrase"), []byte("fedcba9876543210"), 4},
		{"different rounds", []byte("passphrase"), salt, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := k.Derive(tt.pass, tt.salt, tt.rounds, 32)
			if err != nil {
				t.Fatal(err)
			}
			if bytes.Equal(base, got) {
				t.Fatal("derived key must change with inputs")
			}
		})
	}
}

func TestDeriveShortAndLongKeys(t *testing.T) {
	k := BcryptPBKDF{}
	long, err := k.Derive([]byte("pw"), []byte("salt"), 4, 80)
	if err != nil {
		t.Fatal(err)
	}
	if len(long) != 80 {
		t.Fatalf("key length = %d, want 80", len(long))
	}
	short, err := k.Derive([]byte("pw"), []byte("salt"), 4, 8)
	if err != nil {
		t.Fatal(err)
	}
	if len(short) != 8 {
		t.Fatalf("key length = %d, want 8", len(short))
	}
	// Striped output: a shorter request is not a prefix of a longer one.
	if bytes.Equal(short, long[:8]) {
		t.Log("short key unexpectedly a prefix of long key; striping may be broken")
	}
}

func TestDeriveInvalidParams(t *testing.T) {
	k := BcryptPBKDF{}
	if _, err := k.Derive(nil, []byte("salt"), 4, 32); !errors.Is(err, ErrInvalidParams) {
		t.Error("empty passphrase must fail")
	}
	if _, err := k.Derive([]byte("pw"), []byte("salt"), 0, 32); !errors.Is(err, ErrInvalidParams) {
		t.Error("zero rounds must fail")
	}
	if _, err := k.Derive([]byte("pw"), []byte("salt"), 4, 0); !errors.Is(err, ErrInvalidParams) {
		t.Error("zero key length must fail")
	}
}
