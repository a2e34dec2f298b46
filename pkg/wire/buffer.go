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

// Package wire implements the binary field primitives of the SSH wire
// format (RFC 4253 section 5): length-prefixed strings, unsigned
// integers, and multiple-precision integers. Decoding is strict: any
// truncated or malformed field is a hard failure, never a partial read.
package wire

import (
	"encoding/binary"
	"errors"
	"math/big"
)

var (
	// ErrTruncated indicates the buffer ended inside a field.
	ErrTruncated = errors.New("wire: truncated field")

	// ErrNegativeMPInt indicates an mpint with the sign bit set. Key and
	// signature components are always non-negative on the wire.
	ErrNegativeMPInt = errors.New("wire: negative mpint")
)

// Reader decodes SSH wire fields from a byte slice. Reads never mutate
// the underlying buffer and returned slices are copies, so a Reader's
// input may be retained or reused freely by the caller.
type Reader struct {
	buf []byte
	off int
}

// NewReader returns a Reader over b.
func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.off
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int {
	return r.off
}

// ReadUint8 decodes a single byte.
func (r *Reader) ReadUint8() (uint8, error) {
	if r.Remaining() < 1 {
		return 0, ErrTruncated
	}
	b := r.buf[r.off]
	r.off++
	return b, nil
}

// ReadUint32 decodes a big-endian 32-bit unsigned integer.
func (r *Reader) ReadUint32() (uint32, error) {
	if r.Remaining() < 4 {
		return 0, ErrTruncated
	}
	v := binary.BigEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v, nil
}

// ReadString decodes a length-prefixed byte string and returns a copy.
func (r *Reader) ReadString() ([]byte, error) {
	n, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	if uint32(r.Remaining()) < n {
		return nil, ErrTruncated
	}
	out := make([]byte, n)
	copy(out, r.buf[r.off:r.off+int(n)])
	r.off += int(n)
	return out, nil
}

// ReadText decodes a length-prefixed string as text.
func (r *Reader) ReadText() (string, error) {
	b, err := r.ReadString()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadMPInt decodes a multiple-precision integer per RFC 4253.
func (r *Reader) ReadMPInt() (*big.Int, error) {
	b, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	if len(b) > 0 && b[0]&0x80 != 0 {
		return nil, ErrNegativeMPInt
	}
	return new(big.Int).SetBytes(b), nil
}

// ReadBytes decodes n raw bytes (no length prefix) and returns a copy.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, ErrTruncated
	}
	out := make([]byte, n)
	copy(out, r.buf[r.off:r.off+n])
	r.off += n
	return out, nil
}

// Rest returns a copy of all unread bytes and consumes them.
func (r *Reader) Rest() []byte {
	out := make([]byte, r.Remaining())
	copy(out, r.buf[r.off:])
	r.off = len(r.buf)
	return out
}

// Writer encodes SSH wire fields. The zero value is ready to use.
type Writer struct {
	buf []byte
}

// WriteUint8 appends a single byte.
func (w *Writer) WriteUint8(v uint8) {
	w.buf = append(w.buf, v)
}

// WriteUint32 appends a big-endian 32-bit unsigned integer.
func (w *Writer) WriteUint32(v uint32) {
	w.buf = binary.BigEndian.AppendUint32(w.buf, v)
}

// WriteString appends a length-prefixed byte string.
func (w *Writer) WriteString(b []byte) {
	w.WriteUint32(uint32(len(b)))
	w.buf = append(w.buf, b...)
}

// WriteText appends a length-prefixed text string.
func (w *Writer) WriteText(s string) {
	w.WriteString([]byte(s))
}

// WriteMPInt appends a multiple-precision integer per RFC 4253: minimal
// length, a leading zero byte when the high bit would otherwise be set,
// and an empty string for zero.
func (w *Writer) WriteMPInt(v *big.Int) {
	if v == nil || v.Sign() == 0 {
		w.WriteUint32(0)
		return
	}
	b := v.Bytes()
	if b[0]&0x80 != 0 {
		w.WriteUint32(uint32(len(b) + 1))
		w.buf = append(w.buf, 0)
		w.buf = append(w.buf, b...)
		return
	}
	w.WriteString(b)
}

// WriteRaw appends bytes verbatim, without a length prefix.
func (w *Writer) WriteRaw(b []byte) {
	w.buf = append(w.buf, b...)
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Bytes returns the encoded buffer. The slice aliases the Writer's
// internal storage; callers that keep writing must copy first.
func (w *Writer) Bytes() []byte {
	return w.buf
}
