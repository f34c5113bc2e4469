// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wasm

import (
	"errors"
	"fmt"
)

const (
	Magic   uint32 = 0x6d736100
	Version uint32 = 0x1
)

// SectionID is a 1-byte code that encodes the section code of both known and custom sections.
type SectionID uint8

const (
	SectionIDCustom    SectionID = 0
	SectionIDType      SectionID = 1
	SectionIDImport    SectionID = 2
	SectionIDFunction  SectionID = 3
	SectionIDTable     SectionID = 4
	SectionIDMemory    SectionID = 5
	SectionIDGlobal    SectionID = 6
	SectionIDExport    SectionID = 7
	SectionIDStart     SectionID = 8
	SectionIDElement   SectionID = 9
	SectionIDCode      SectionID = 10
	SectionIDData      SectionID = 11
	SectionIDDataCount SectionID = 12
)

func (s SectionID) String() string {
	n, ok := map[SectionID]string{
		SectionIDCustom:    "custom",
		SectionIDType:      "type",
		SectionIDImport:    "import",
		SectionIDFunction:  "function",
		SectionIDTable:     "table",
		SectionIDMemory:    "memory",
		SectionIDGlobal:    "global",
		SectionIDExport:    "export",
		SectionIDStart:     "start",
		SectionIDElement:   "element",
		SectionIDCode:      "code",
		SectionIDData:      "data",
		SectionIDDataCount: "data count",
	}[s]
	if !ok {
		return "unknown"
	}
	return n
}

// External is the kind of an exported definition.
type External uint8

const (
	ExternalFunction External = 0
	ExternalTable    External = 1
	ExternalMemory   External = 2
	ExternalGlobal   External = 3
)

// ExternalOf converts an export kind byte into an External.
func ExternalOf(b byte) (External, error) {
	if b > byte(ExternalGlobal) {
		return 0, Malformed("invalid export kind 0x%02x", b)
	}
	return External(b), nil
}

func (e External) String() string {
	switch e {
	case ExternalFunction:
		return "func"
	case ExternalTable:
		return "table"
	case ExternalMemory:
		return "memory"
	case ExternalGlobal:
		return "global"
	default:
		return "unknown"
	}
}

// ExportDesc names the exported definition by kind and index.
type ExportDesc struct {
	Kind  External
	Index uint32
}

// Export represents an exported entry by the module.
type Export struct {
	Name string
	Desc ExportDesc
}

// Func is a function defined by the module.
type Func struct {
	TypeIndex uint32
	Locals    []ValueType
	Body      Expr
}

// Module represents a decoded WebAssembly module:
// http://webassembly.org/docs/modules/
type Module struct {
	Version uint32
	Types   []FuncType
	Funcs   []Func
	Exports []Export
}

var (
	ErrExportNotFound = errors.New("wasm: export not found")
	ErrNotAFunction   = errors.New("wasm: export is not a function")
)

// Export returns the export with the given name.
func (m *Module) Export(name string) (Export, bool) {
	for _, e := range m.Exports {
		if e.Name == name {
			return e, true
		}
	}
	return Export{}, false
}

// ExportedFunc resolves an exported function by name to its index, its
// definition, and its signature.
func (m *Module) ExportedFunc(name string) (uint32, *Func, *FuncType, error) {
	e, ok := m.Export(name)
	if !ok {
		return 0, nil, nil, fmt.Errorf("%w: %q", ErrExportNotFound, name)
	}
	if e.Desc.Kind != ExternalFunction {
		return 0, nil, nil, fmt.Errorf("%w: %q is a %v", ErrNotAFunction, name, e.Desc.Kind)
	}

	idx := e.Desc.Index
	if int64(idx) >= int64(len(m.Funcs)) {
		return 0, nil, nil, Malformed("export %q refers to unknown function %d", name, idx)
	}
	f := &m.Funcs[idx]
	if int64(f.TypeIndex) >= int64(len(m.Types)) {
		return 0, nil, nil, Malformed("function %d refers to unknown type %d", idx, f.TypeIndex)
	}
	return idx, f, &m.Types[f.TypeIndex], nil
}
