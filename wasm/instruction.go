package wasm

import "math"

// Expr is an ordered instruction sequence. The End that terminates it in the
// binary encoding is not stored.
type Expr []Instruction

// Instruction is a single decoded instruction. Opcode selects which of the
// remaining fields are meaningful:
//
//   - block, loop: BlockType and Body
//   - if: BlockType, Body (the then branch) and Else. A nil Else means the
//     instruction had no else branch; an empty else branch is a non-nil,
//     zero-length Expr.
//   - br, br_if, call, local.*, global.*, ref.func: the index in Immediate
//   - br_table: the targets in Labels and the default in Immediate
//   - call_indirect: the type index in Immediate and the table in Labels[0]
//   - select with types: the result types in Types
//   - i32.const, i64.const: the sign-extended value in Immediate
//   - f32.const, f64.const: the IEEE 754 bits in Immediate
//   - loads and stores: offset | align<<32 in Immediate
//   - ref.null: the reference type in Types[0]
//   - the 0xfc prefix: the sub-opcode in Immediate
type Instruction struct {
	Opcode    byte
	Immediate uint64
	Labels    []uint32
	Types     []ValueType

	BlockType BlockType
	Body      Expr
	Else      Expr
}

func (i *Instruction) Index() uint32 {
	return uint32(i.Immediate)
}

func (i *Instruction) Default() uint32 {
	return uint32(i.Immediate)
}

func (i *Instruction) TableIndex() uint32 {
	if len(i.Labels) == 0 {
		return 0
	}
	return i.Labels[0]
}

func (i *Instruction) Memarg() (offset uint32, align uint32) {
	return uint32(i.Immediate), uint32(i.Immediate >> 32)
}

func (i *Instruction) I32() int32 {
	return int32(i.Immediate)
}

func (i *Instruction) I64() int64 {
	return int64(i.Immediate)
}

func (i *Instruction) F32() float32 {
	return math.Float32frombits(uint32(i.Immediate))
}

func (i *Instruction) F64() float64 {
	return math.Float64frombits(i.Immediate)
}

// HasElse reports whether an if instruction carried an else branch.
func (i *Instruction) HasElse() bool {
	return i.Else != nil
}
