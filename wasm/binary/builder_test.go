package binary

import (
	"github.com/pgavlin/wasmdec/wasm"
	"github.com/pgavlin/wasmdec/wasm/code"
	"github.com/pgavlin/wasmdec/wasm/leb128"
)

var header = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

// moduleBuilder assembles module binaries for tests.
type moduleBuilder struct {
	b []byte
}

func newModule() *moduleBuilder {
	return &moduleBuilder{b: append([]byte{}, header...)}
}

func (m *moduleBuilder) section(id wasm.SectionID, payload ...[]byte) *moduleBuilder {
	p := cat(payload...)
	m.b = append(m.b, byte(id))
	m.b = leb128.AppendVarUint32(m.b, uint32(len(p)))
	m.b = append(m.b, p...)
	return m
}

func (m *moduleBuilder) bytes() []byte {
	return m.b
}

func cat(parts ...[]byte) []byte {
	var b []byte
	for _, p := range parts {
		b = append(b, p...)
	}
	return b
}

func u32(v uint32) []byte {
	return leb128.AppendVarUint32(nil, v)
}

func name(s string) []byte {
	return append(u32(uint32(len(s))), s...)
}

func valueTypes(types ...wasm.ValueType) []byte {
	b := u32(uint32(len(types)))
	for _, t := range types {
		b = append(b, byte(t))
	}
	return b
}

func funcType(params, results []wasm.ValueType) []byte {
	return cat([]byte{wasm.TypeFunc}, valueTypes(params...), valueTypes(results...))
}

func export(n string, kind wasm.External, index uint32) []byte {
	return cat(name(n), []byte{byte(kind)}, u32(index))
}

type localGroup struct {
	n uint32
	t wasm.ValueType
}

// funcBody returns a size-prefixed code section entry.
func funcBody(locals []localGroup, expr wasm.Expr) []byte {
	b := u32(uint32(len(locals)))
	for _, l := range locals {
		b = append(leb128.AppendVarUint32(b, l.n), byte(l.t))
	}
	b = code.Append(b, expr)
	return append(u32(uint32(len(b))), b...)
}

var i32 = wasm.ValueTypeI32

// addModule is (func (export "add") (param i32 i32) (result i32) local.get 0 local.get 1 i32.add).
func addModule() *moduleBuilder {
	return newModule().
		section(wasm.SectionIDType, u32(1), funcType([]wasm.ValueType{i32, i32}, []wasm.ValueType{i32})).
		section(wasm.SectionIDFunction, u32(1), u32(0)).
		section(wasm.SectionIDExport, u32(1), export("add", wasm.ExternalFunction, 0)).
		section(wasm.SectionIDCode, u32(1), funcBody(nil, wasm.Expr{code.LocalGet(0), code.LocalGet(1), code.I32Add()}))
}
