// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wasm

import (
	"fmt"
	"strings"
)

// ValueType represents the type of a valid value in Wasm. Its value is the
// type's binary encoding.
type ValueType byte

const (
	ValueTypeI32       ValueType = 0x7f
	ValueTypeI64       ValueType = 0x7e
	ValueTypeF32       ValueType = 0x7d
	ValueTypeF64       ValueType = 0x7c
	ValueTypeV128      ValueType = 0x7b
	ValueTypeFuncRef   ValueType = 0x70
	ValueTypeExternRef ValueType = 0x6f
)

var valueTypeStrMap = map[ValueType]string{
	ValueTypeI32:       "i32",
	ValueTypeI64:       "i64",
	ValueTypeF32:       "f32",
	ValueTypeF64:       "f64",
	ValueTypeV128:      "v128",
	ValueTypeFuncRef:   "funcref",
	ValueTypeExternRef: "externref",
}

// ValueTypeOf converts an encoded value type byte into a ValueType.
func ValueTypeOf(b byte) (ValueType, error) {
	t := ValueType(b)
	if _, ok := valueTypeStrMap[t]; !ok {
		return 0, Malformed("unknown value type 0x%02x", b)
	}
	return t, nil
}

func (t ValueType) String() string {
	if s, ok := valueTypeStrMap[t]; ok {
		return s
	}
	return fmt.Sprintf("<unknown value_type 0x%02x>", byte(t))
}

// IsNumber returns true for i32, i64, f32 and f64.
func (t ValueType) IsNumber() bool {
	switch t {
	case ValueTypeI32, ValueTypeI64, ValueTypeF32, ValueTypeF64:
		return true
	}
	return false
}

// IsRef returns true for reference types.
func (t ValueType) IsRef() bool {
	return t == ValueTypeFuncRef || t == ValueTypeExternRef
}

// IsVector returns true for v128.
func (t ValueType) IsVector() bool {
	return t == ValueTypeV128
}

// ResultType is an ordered list of value types. Order is significant: it is
// the argument or return position.
type ResultType []ValueType

func (r ResultType) String() string {
	names := make([]string, len(r))
	for i, t := range r {
		names[i] = t.String()
	}
	return "[" + strings.Join(names, " ") + "]"
}

// TypeFunc is the tag byte that starts every function type entry.
const TypeFunc = 0x60

// FuncType is a function signature: a parameter list and a result list.
type FuncType struct {
	Params  ResultType
	Results ResultType
}

func (f FuncType) String() string {
	return fmt.Sprintf("%v -> %v", f.Params, f.Results)
}

// BlockKind selects which field of a BlockType is meaningful.
type BlockKind uint8

const (
	BlockEmpty BlockKind = iota
	BlockValue
	BlockTypeIndex
)

// BlockTypeEmpty is the encoding of the empty block type.
const BlockTypeEmpty = 0x40

// BlockType is the signature of a block, loop or if: nothing, a single result
// value type, or an index into the type section.
type BlockType struct {
	Kind      BlockKind
	Value     ValueType
	TypeIndex uint32
}

// EmptyBlock returns the empty block type.
func EmptyBlock() BlockType {
	return BlockType{Kind: BlockEmpty}
}

// ValueBlock returns a block type with a single result.
func ValueBlock(t ValueType) BlockType {
	return BlockType{Kind: BlockValue, Value: t}
}

// IndexBlock returns a block type that refers to the type section.
func IndexBlock(typeidx uint32) BlockType {
	return BlockType{Kind: BlockTypeIndex, TypeIndex: typeidx}
}

// Signature resolves the block type against the module's types.
func (b BlockType) Signature(types []FuncType) (FuncType, bool) {
	switch b.Kind {
	case BlockEmpty:
		return FuncType{}, true
	case BlockValue:
		return FuncType{Results: ResultType{b.Value}}, true
	default:
		if int64(b.TypeIndex) >= int64(len(types)) {
			return FuncType{}, false
		}
		return types[b.TypeIndex], true
	}
}

func (b BlockType) String() string {
	switch b.Kind {
	case BlockEmpty:
		return ""
	case BlockValue:
		return fmt.Sprintf("(result %v)", b.Value)
	default:
		return fmt.Sprintf("(type %d)", b.TypeIndex)
	}
}
