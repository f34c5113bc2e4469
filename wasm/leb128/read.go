// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package leb128 provides functions for reading and writing integers encoded
// in the Little Endian Base 128 (LEB128) format:
// https://en.wikipedia.org/wiki/LEB128
//
// Decoding is strict: an N-bit value may occupy at most ceil(N/7) bytes, and
// the bits of the final byte that lie beyond N must be zero (unsigned) or a
// copy of the sign bit (signed). Padding within that bound is accepted.
package leb128

import (
	"errors"
	"io"
)

var (
	// ErrOverlong is returned when an encoding uses more bytes than its width permits.
	ErrOverlong = errors.New("integer representation too long")
	// ErrOverflow is returned when the final byte of an encoding carries bits beyond the value's width.
	ErrOverflow = errors.New("integer too large")
)

type byteSource func() (byte, error)

func readerSource(r io.Reader) byteSource {
	if br, ok := r.(io.ByteReader); ok {
		return br.ReadByte
	}
	var buf [1]byte
	return func() (byte, error) {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		return buf[0], nil
	}
}

func sliceSource(b []byte) byteSource {
	i := 0
	return func() (byte, error) {
		if i >= len(b) {
			return 0, io.EOF
		}
		c := b[i]
		i++
		return c, nil
	}
}

func maxBytes(bits uint) int {
	return int((bits + 6) / 7)
}

// decodeUnsigned returns the decoded value and the number of bytes consumed.
func decodeUnsigned(next byteSource, bits uint) (uint64, int, error) {
	var result uint64
	var shift uint
	limit := maxBytes(bits)
	for i := 0; ; i++ {
		b, err := next()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return 0, i, err
		}
		if i == limit-1 {
			if b&0x80 != 0 {
				return 0, i + 1, ErrOverlong
			}
			if rem := bits - shift; rem < 7 && b>>rem != 0 {
				return 0, i + 1, ErrOverflow
			}
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, i + 1, nil
		}
		shift += 7
	}
}

func decodeSigned(next byteSource, bits uint) (int64, int, error) {
	var result int64
	var shift uint
	limit := maxBytes(bits)
	for i := 0; ; i++ {
		b, err := next()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return 0, i, err
		}
		if i == limit-1 {
			if b&0x80 != 0 {
				return 0, i + 1, ErrOverlong
			}
			if rem := bits - shift; rem < 7 {
				// Every bit from the value's sign bit upward must agree.
				mask := byte(0x7f) &^ (byte(1)<<(rem-1) - 1)
				if s := b & mask; s != 0 && s != mask {
					return 0, i + 1, ErrOverflow
				}
			}
		}
		result |= int64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			if shift < 64 && b&0x40 != 0 {
				result |= -1 << shift
			}
			return result, i + 1, nil
		}
	}
}

// ReadVarUint32 reads a LEB128 encoded unsigned 32-bit integer from r.
func ReadVarUint32(r io.Reader) (uint32, error) {
	v, _, err := decodeUnsigned(readerSource(r), 32)
	return uint32(v), err
}

// ReadVarUint64 reads a LEB128 encoded unsigned 64-bit integer from r.
func ReadVarUint64(r io.Reader) (uint64, error) {
	v, _, err := decodeUnsigned(readerSource(r), 64)
	return v, err
}

// ReadVarint32 reads a LEB128 encoded signed 32-bit integer from r.
func ReadVarint32(r io.Reader) (int32, error) {
	v, _, err := decodeSigned(readerSource(r), 32)
	return int32(v), err
}

// ReadVarint33 reads a LEB128 encoded signed 33-bit integer from r. Block type
// indices use this width.
func ReadVarint33(r io.Reader) (int64, error) {
	v, _, err := decodeSigned(readerSource(r), 33)
	return v, err
}

// ReadVarint64 reads a LEB128 encoded signed 64-bit integer from r.
func ReadVarint64(r io.Reader) (int64, error) {
	v, _, err := decodeSigned(readerSource(r), 64)
	return v, err
}

// GetVarUint32 decodes a LEB128 encoded unsigned 32-bit integer from the
// start of b and returns the value and the number of bytes read.
func GetVarUint32(b []byte) (uint32, int, error) {
	v, n, err := decodeUnsigned(sliceSource(b), 32)
	return uint32(v), n, err
}

// GetVarUint64 is the 64-bit variant of GetVarUint32.
func GetVarUint64(b []byte) (uint64, int, error) {
	return decodeUnsigned(sliceSource(b), 64)
}

// GetVarint32 decodes a LEB128 encoded signed 32-bit integer from the start of b.
func GetVarint32(b []byte) (int32, int, error) {
	v, n, err := decodeSigned(sliceSource(b), 32)
	return int32(v), n, err
}

// GetVarint33 decodes a LEB128 encoded signed 33-bit integer from the start of b.
func GetVarint33(b []byte) (int64, int, error) {
	return decodeSigned(sliceSource(b), 33)
}

// GetVarint64 decodes a LEB128 encoded signed 64-bit integer from the start of b.
func GetVarint64(b []byte) (int64, int, error) {
	return decodeSigned(sliceSource(b), 64)
}
