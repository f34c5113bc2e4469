// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package binary

import (
	"fmt"
	"unicode/utf8"

	"github.com/pgavlin/wasmdec/wasm"
	"github.com/pgavlin/wasmdec/wasm/internal/readpos"
	"github.com/willf/bitset"
	"go.uber.org/zap"
)

// FuncBody is the decoded content of one code section entry.
type FuncBody struct {
	Locals []wasm.ValueType
	Body   wasm.Expr
}

// Sections accumulates the contents of the sections the decoder understands.
// A section that does not appear in the input leaves its field empty.
type Sections struct {
	Types     []wasm.FuncType
	Functions []uint32
	Exports   []wasm.Export
	Code      []FuncBody
}

type sectionsReader struct {
	seen     bitset.BitSet
	sections Sections
}

func newSectionsReader() *sectionsReader {
	return &sectionsReader{}
}

func (sr *sectionsReader) readSections(r *readpos.ReadPos) error {
	for {
		done, err := sr.readSection(r)
		switch {
		case err != nil:
			return err
		case done:
			return nil
		}
	}
}

// readSection reads one section from r. The first return value is true if
// and only if the module has been completely read.
func (sr *sectionsReader) readSection(r *readpos.ReadPos) (bool, error) {
	more, err := r.HasNext()
	if err != nil {
		return false, err
	}
	if !more {
		return true, nil
	}

	start := r.CurPos
	b, err := r.ReadU8()
	if err != nil {
		return false, err
	}
	id := wasm.SectionID(b)
	if id > wasm.SectionIDDataCount {
		return false, fmt.Errorf("offset %d: %w", start, wasm.Malformed("unknown section id %d", b))
	}

	size, err := r.ReadVarUint32()
	if err != nil {
		return false, fmt.Errorf("reading size of %v section: %w", id, err)
	}
	Logger().Debug("reading section",
		zap.Stringer("id", id),
		zap.Int64("offset", start),
		zap.Uint32("size", size))

	payload, err := r.ReadBytes(size)
	if err != nil {
		return false, fmt.Errorf("reading %v section: %w", id, err)
	}

	switch id {
	case wasm.SectionIDCustom:
		sr.readCustom(payload)
	case wasm.SectionIDType, wasm.SectionIDFunction, wasm.SectionIDExport, wasm.SectionIDCode:
		if sr.seen.Test(uint(id)) {
			return false, fmt.Errorf("offset %d: %w", start, wasm.Malformed("duplicate %v section", id))
		}
		sr.seen.Set(uint(id))
		err = sr.readPayload(id, readpos.FromBytes(payload))
	default:
		return false, fmt.Errorf("offset %d: %w", start, wasm.UnsupportedFeatureError(id))
	}
	if err != nil {
		return false, fmt.Errorf("%v section: %w", id, err)
	}
	return false, nil
}

// readPayload decodes a known section. The decoder must consume the payload
// exactly.
func (sr *sectionsReader) readPayload(id wasm.SectionID, r *readpos.ReadPos) error {
	var err error
	switch id {
	case wasm.SectionIDType:
		sr.sections.Types, err = decodeTypeSection(r)
	case wasm.SectionIDFunction:
		sr.sections.Functions, err = decodeFunctionSection(r)
	case wasm.SectionIDExport:
		sr.sections.Exports, err = decodeExportSection(r)
	case wasm.SectionIDCode:
		sr.sections.Code, err = decodeCodeSection(r)
	}
	if err != nil {
		return err
	}

	more, err := r.HasNext()
	if err != nil {
		return err
	}
	if more {
		return wasm.Malformed("section size mismatch: %d bytes consumed", r.CurPos)
	}
	return nil
}

// readCustom logs a custom section and discards it. The name is read only for
// the log; a custom section whose name cannot be read is still skipped.
func (sr *sectionsReader) readCustom(payload []byte) {
	name, err := readName(readpos.FromBytes(payload))
	if err != nil {
		name = "<unreadable>"
	}
	Logger().Debug("skipping custom section",
		zap.String("name", name),
		zap.Int("size", len(payload)))
}

// readName reads a length-prefixed UTF-8 string.
func readName(r *readpos.ReadPos) (string, error) {
	n, err := r.ReadVarUint32()
	if err != nil {
		return "", err
	}
	b, err := r.ReadBytes(n)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", wasm.Malformed("invalid UTF-8 encoding")
	}
	return string(b), nil
}

// initialCap bounds the capacity reserved for a vector whose length was read
// from the input.
func initialCap(count uint32) int {
	if count > 1024 {
		return 1024
	}
	return int(count)
}
