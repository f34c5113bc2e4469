// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package binary decodes modules in the WebAssembly binary format.
package binary

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pgavlin/wasmdec/wasm"
	"github.com/pgavlin/wasmdec/wasm/internal/readpos"
)

// DecodeModule decodes a WASM module. r is read to the end but not closed.
func DecodeModule(r io.Reader) (*wasm.Module, error) {
	reader := readpos.New(r)

	version, err := decodeHeader(reader)
	if err != nil {
		return nil, err
	}

	sr := newSectionsReader()
	if err := sr.readSections(reader); err != nil {
		return nil, err
	}
	return Assemble(version, &sr.sections)
}

// Decode decodes a WASM module held in memory.
func Decode(b []byte) (*wasm.Module, error) {
	return DecodeModule(bytes.NewReader(b))
}

// MustDecode decodes a WASM module and panics on failure.
func MustDecode(r io.Reader) *wasm.Module {
	m, err := DecodeModule(r)
	if err != nil {
		panic(fmt.Errorf("decoding module: %w", err))
	}
	return m
}

// Assemble builds a module from its version and decoded sections. The i'th
// entry of the function section and the i'th entry of the code section
// together form function i; the two sections must have the same length.
func Assemble(version uint32, s *Sections) (*wasm.Module, error) {
	if len(s.Functions) != len(s.Code) {
		return nil, wasm.Malformed("function and code section have inconsistent lengths (%d and %d)", len(s.Functions), len(s.Code))
	}

	funcs := make([]wasm.Func, len(s.Functions))
	for i, typeidx := range s.Functions {
		funcs[i] = wasm.Func{
			TypeIndex: typeidx,
			Locals:    s.Code[i].Locals,
			Body:      s.Code[i].Body,
		}
	}

	return &wasm.Module{
		Version: version,
		Types:   s.Types,
		Funcs:   funcs,
		Exports: s.Exports,
	}, nil
}
