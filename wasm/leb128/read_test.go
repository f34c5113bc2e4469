// Copyright 2018 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package leb128

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"testing"
)

var casesUint = []struct {
	v uint32
	b []byte
}{
	{v: 0, b: []byte{0x00}},
	{v: 8, b: []byte{0x08}},
	{v: 127, b: []byte{0x7f}},
	{v: 128, b: []byte{0x80, 0x01}},
	{v: 624485, b: []byte{0xe5, 0x8e, 0x26}},
	{v: 344865, b: []byte{0xa1, 0x86, 0x15}},
	{v: math.MaxUint32, b: []byte{0xff, 0xff, 0xff, 0xff, 0x0f}},
}

var casesInt = []struct {
	v int64
	b []byte
}{
	{v: 0, b: []byte{0x00}},
	{v: 8, b: []byte{0x08}},
	{v: -1, b: []byte{0x7f}},
	{v: 63, b: []byte{0x3f}},
	{v: 64, b: []byte{0xc0, 0x00}},
	{v: -64, b: []byte{0x40}},
	{v: -65, b: []byte{0xbf, 0x7f}},
	{v: -512, b: []byte{0x80, 0x7c}},
	{v: -123456, b: []byte{0xc0, 0xbb, 0x78}},
	{v: math.MinInt32, b: []byte{0x80, 0x80, 0x80, 0x80, 0x78}},
	{v: math.MaxInt32, b: []byte{0xff, 0xff, 0xff, 0xff, 0x07}},
}

func TestReadVarUint32(t *testing.T) {
	for _, c := range casesUint {
		t.Run(fmt.Sprint(c.v), func(t *testing.T) {
			n, err := ReadVarUint32(bytes.NewReader(c.b))
			if err != nil {
				t.Fatal(err)
			}
			if n != c.v {
				t.Fatalf("got = %d; want = %d", n, c.v)
			}

			n, read, err := GetVarUint32(c.b)
			if err != nil {
				t.Fatal(err)
			}
			if n != c.v || read != len(c.b) {
				t.Fatalf("got = %d (%d bytes); want = %d (%d bytes)", n, read, c.v, len(c.b))
			}
		})
	}
}

func TestReadVarint32(t *testing.T) {
	for _, c := range casesInt {
		t.Run(fmt.Sprint(c.v), func(t *testing.T) {
			n, err := ReadVarint32(bytes.NewReader(c.b))
			if err != nil {
				t.Fatal(err)
			}
			if int64(n) != c.v {
				t.Fatalf("got = %d; want = %d", n, c.v)
			}
		})
	}
}

func TestReadVarint64(t *testing.T) {
	for _, c := range casesInt {
		t.Run(fmt.Sprint(c.v), func(t *testing.T) {
			n, read, err := GetVarint64(c.b)
			if err != nil {
				t.Fatal(err)
			}
			if n != c.v || read != len(c.b) {
				t.Fatalf("got = %d (%d bytes); want = %d", n, read, c.v)
			}
		})
	}
}

func TestReadPadded(t *testing.T) {
	// Non-minimal encodings within the width bound are accepted.
	n, read, err := GetVarUint32([]byte{0x80, 0x80, 0x80, 0x80, 0x00})
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 || read != 5 {
		t.Fatalf("got = %d (%d bytes)", n, read)
	}

	v, _, err := GetVarint32([]byte{0xff, 0xff, 0xff, 0xff, 0x7f})
	if err != nil {
		t.Fatal(err)
	}
	if v != -1 {
		t.Fatalf("got = %d; want = -1", v)
	}
}

func TestReadErrors(t *testing.T) {
	cases := []struct {
		name string
		read func([]byte) error
		b    []byte
		err  error
	}{
		{"uint32 empty", getUint32, nil, io.ErrUnexpectedEOF},
		{"uint32 truncated", getUint32, []byte{0x80, 0x80}, io.ErrUnexpectedEOF},
		{"uint32 overlong", getUint32, []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x00}, ErrOverlong},
		{"uint32 too large", getUint32, []byte{0xff, 0xff, 0xff, 0xff, 0x1f}, ErrOverflow},
		{"uint64 overlong", getUint64, bytes.Repeat([]byte{0x80}, 11), ErrOverlong},
		{"uint64 too large", getUint64, append(bytes.Repeat([]byte{0xff}, 9), 0x02), ErrOverflow},
		{"int32 too large positive", getInt32, []byte{0xff, 0xff, 0xff, 0xff, 0x0f}, ErrOverflow},
		{"int32 too large negative", getInt32, []byte{0x80, 0x80, 0x80, 0x80, 0x70}, ErrOverflow},
		{"int32 overlong", getInt32, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0x7f}, ErrOverlong},
		{"int33 too large", getInt33, []byte{0x80, 0x80, 0x80, 0x80, 0x20}, ErrOverflow},
		{"int64 too large", getInt64, append(bytes.Repeat([]byte{0x80}, 9), 0x02), ErrOverflow},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.read(c.b)
			if !errors.Is(err, c.err) {
				t.Fatalf("got error %v; want %v", err, c.err)
			}
		})
	}
}

func TestReadUnsigned344865(t *testing.T) {
	b := []byte{0xA1, 0x86, 0x15}

	v64, err := ReadVarUint64(bytes.NewReader(b))
	if err != nil {
		t.Fatal(err)
	}
	v32, err := ReadVarUint32(bytes.NewReader(b))
	if err != nil {
		t.Fatal(err)
	}
	if v64 != 344865 || v32 != 344865 {
		t.Fatalf("got = %d, %d; want = 344865", v64, v32)
	}
}

func getUint32(b []byte) error {
	_, _, err := GetVarUint32(b)
	return err
}

func getUint64(b []byte) error {
	_, _, err := GetVarUint64(b)
	return err
}

func getInt32(b []byte) error {
	_, _, err := GetVarint32(b)
	return err
}

func getInt33(b []byte) error {
	_, _, err := GetVarint33(b)
	return err
}

func getInt64(b []byte) error {
	_, _, err := GetVarint64(b)
	return err
}
