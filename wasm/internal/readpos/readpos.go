// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package readpos implements the byte cursor used by the binary decoder. It
// wraps an io.Reader, keeps track of the number of bytes consumed, and
// reports every short read as an error rather than padding or truncating.
package readpos

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pgavlin/wasmdec/wasm"
	"github.com/pgavlin/wasmdec/wasm/leb128"
)

// chunkSize bounds the up-front allocation for a length-prefixed read so that
// a hostile length cannot force a huge allocation before the data arrives.
const chunkSize = 1 << 16

// ReadPos is a byte cursor over an underlying reader.
type ReadPos struct {
	R      *bufio.Reader
	CurPos int64
}

// New returns a ReadPos that reads from r.
func New(r io.Reader) *ReadPos {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &ReadPos{R: br}
}

// FromBytes returns a ReadPos over an in-memory payload.
func FromBytes(b []byte) *ReadPos {
	return New(bytes.NewReader(b))
}

func (r *ReadPos) fail(pos int64, err error) error {
	return fmt.Errorf("offset %d: %w", pos, wasm.ReadError(err))
}

// Read implements io.Reader.
func (r *ReadPos) Read(p []byte) (int, error) {
	n, err := r.R.Read(p)
	r.CurPos += int64(n)
	return n, err
}

// ReadByte implements io.ByteReader. Unlike the other methods it returns a
// bare io.EOF at the end of input so that it composes with io helpers.
func (r *ReadPos) ReadByte() (byte, error) {
	b, err := r.R.ReadByte()
	if err != nil {
		return 0, err
	}
	r.CurPos++
	return b, nil
}

// ReadU8 reads one byte and fails with ErrUnexpectedEOF at the end of input.
func (r *ReadPos) ReadU8() (byte, error) {
	pos := r.CurPos
	b, err := r.ReadByte()
	if err != nil {
		return 0, r.fail(pos, err)
	}
	return b, nil
}

// ReadBytes reads exactly n bytes.
func (r *ReadPos) ReadBytes(n uint32) ([]byte, error) {
	pos := r.CurPos
	if n <= chunkSize {
		buf := make([]byte, n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, r.fail(pos, err)
		}
		return buf, nil
	}

	var buf bytes.Buffer
	buf.Grow(chunkSize)
	if _, err := io.CopyN(&buf, r, int64(n)); err != nil {
		return nil, r.fail(pos, err)
	}
	return buf.Bytes(), nil
}

// HasNext reports whether at least one more byte is available without consuming it.
func (r *ReadPos) HasNext() (bool, error) {
	_, err := r.R.Peek(1)
	switch err {
	case nil:
		return true, nil
	case io.EOF:
		return false, nil
	default:
		return false, r.fail(r.CurPos, err)
	}
}

// ReadU32LE reads a fixed-width little-endian uint32.
func (r *ReadPos) ReadU32LE() (uint32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadVarUint32 reads an unsigned LEB128 32-bit integer.
func (r *ReadPos) ReadVarUint32() (uint32, error) {
	pos := r.CurPos
	v, err := leb128.ReadVarUint32(r)
	if err != nil {
		return 0, r.fail(pos, err)
	}
	return v, nil
}

// ReadVarUint64 reads an unsigned LEB128 64-bit integer.
func (r *ReadPos) ReadVarUint64() (uint64, error) {
	pos := r.CurPos
	v, err := leb128.ReadVarUint64(r)
	if err != nil {
		return 0, r.fail(pos, err)
	}
	return v, nil
}

// ReadVarint32 reads a signed LEB128 32-bit integer.
func (r *ReadPos) ReadVarint32() (int32, error) {
	pos := r.CurPos
	v, err := leb128.ReadVarint32(r)
	if err != nil {
		return 0, r.fail(pos, err)
	}
	return v, nil
}

// ReadVarint64 reads a signed LEB128 64-bit integer.
func (r *ReadPos) ReadVarint64() (int64, error) {
	pos := r.CurPos
	v, err := leb128.ReadVarint64(r)
	if err != nil {
		return 0, r.fail(pos, err)
	}
	return v, nil
}

// ReadToEnd returns all remaining bytes.
func (r *ReadPos) ReadToEnd() ([]byte, error) {
	pos := r.CurPos
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, r.fail(pos, err)
	}
	return b, nil
}
