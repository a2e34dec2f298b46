//go:build !quantum

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

// GenerateKeyPair requires building with the quantum tag.
func GenerateKeyPair(s Scheme) (pub, sec []byte, err error) {
	return nil, nil, ErrNotEnabled
}

// Sign requires building with the quantum tag.
func Sign(s Scheme, sec, message []byte) ([]byte, error) {
	return nil, ErrNotEnabled
}

// Verify requires building with the quantum tag.
func Verify(s Scheme, pub, message, sig []byte) (bool, error) {
	return false, ErrNotEnabled
}
