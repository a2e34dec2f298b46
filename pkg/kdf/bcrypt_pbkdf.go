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
	"crypto/sha512"
	"encoding/binary"

	"golang.org/x/crypto/blowfish"
)

// BcryptPBKDF implements OpenBSD's bcrypt_pbkdf(3), the "bcrypt" KDF
// named in OpenSSH v1 private key containers. It stretches the
// passphrase with SHA-512 and a modified bcrypt hash, striping the
// output across blocks so partial-key attacks gain nothing.
type BcryptPBKDF struct{}

const bcryptBlockSize = 32

// Name implements KDF.
func (BcryptPBKDF) Name() string { return "bcrypt" }

// Derive implements KDF.
func (BcryptPBKDF) Derive(passphrase, salt []byte, rounds uint32, keyLen int) ([]byte, error) {
	if rounds < 1 || keyLen < 1 || len(passphrase) == 0 {
		return nil, ErrInvalidParams
	}

	numBlocks := (keyLen + bcryptBlockSize - 1) / bcryptBlockSize
	key := make([]byte, numBlocks*bcryptBlockSize)

	h := sha512.New()
	h.Write(passphrase)
	shapass := h.Sum(nil)

	shasalt := make([]byte, 0, sha512.Size)
	cnt := make([]byte, 4)
	tmp := make([]byte, bcryptBlockSize)

	for block := 1; block <= numBlocks; block++ {
		h.Reset()
		binary.BigEndian.PutUint32(cnt, uint32(block))
		h.Write(salt)
		h.Write(cnt)
		shasalt = h.Sum(shasalt[:0])

		out, err := bcryptHash(shapass, shasalt)
		if err != nil {
			return nil, err
		}
		copy(tmp, out)

		for i := uint32(1); i < rounds; i++ {
			h.Reset()
			h.Write(out)
			shasalt = h.Sum(shasalt[:0])
			out, err = bcryptHash(shapass, shasalt)
			if err != nil {
				return nil, err
			}
			for j := range tmp {
				tmp[j] ^= out[j]
			}
		}

		// Output bytes are striped across blocks, matching the OpenBSD
		// reference implementation.
		for i, v := range tmp {
			ki := i*numBlocks + (block - 1)
			if ki < len(key) {
				key[ki] = v
			}
		}
	}

	return key[:keyLen], nil
}

// bcryptHash is the modified bcrypt at the core of bcrypt_pbkdf: a
// salted Blowfish schedule expanded 64 times, then 64 encryptions of a
// fixed magic block.
func bcryptHash(sha2pass, sha2salt []byte) ([]byte, error) {
	c, err := blowfish.NewSaltedCipher(sha2pass, sha2salt)
	if err != nil {
		return nil, err
	}
	for i := 0; i < 64; i++ {
		blowfish.ExpandKey(sha2salt, c)
		blowfish.ExpandKey(sha2pass, c)
	}

	cdata := []byte("OxychromaticBlowfishSwatDynamite")
	for i := 0; i < 64; i++ {
		for j := 0; j < bcryptBlockSize; j += 8 {
			c.Encrypt(cdata[j:j+8], cdata[j:j+8])
		}
	}

	// The reference implementation emits each 32-bit word little-endian.
	for i := 0; i < bcryptBlockSize; i += 4 {
		cdata[i], cdata[i+3] = cdata[i+3], cdata[i]
		cdata[i+1], cdata[i+2] = cdata[i+2], cdata[i+1]
	}
	return cdata, nil
}
