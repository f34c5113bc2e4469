package code

import (
	"math"

	"github.com/pgavlin/wasmdec/wasm"
)

// Op returns an instruction with no immediates.
func Op(opcode byte) wasm.Instruction {
	return wasm.Instruction{Opcode: opcode}
}

func Unreachable() wasm.Instruction {
	return Op(OpUnreachable)
}

func Nop() wasm.Instruction {
	return Op(OpNop)
}

func Block(blockType wasm.BlockType, body ...wasm.Instruction) wasm.Instruction {
	return wasm.Instruction{Opcode: OpBlock, BlockType: blockType, Body: body}
}

func Loop(blockType wasm.BlockType, body ...wasm.Instruction) wasm.Instruction {
	return wasm.Instruction{Opcode: OpLoop, BlockType: blockType, Body: body}
}

// If returns an if instruction. A nil els means no else branch.
func If(blockType wasm.BlockType, then, els wasm.Expr) wasm.Instruction {
	return wasm.Instruction{Opcode: OpIf, BlockType: blockType, Body: then, Else: els}
}

func Br(labelidx uint32) wasm.Instruction {
	return wasm.Instruction{Opcode: OpBr, Immediate: uint64(labelidx)}
}

func BrIf(labelidx uint32) wasm.Instruction {
	return wasm.Instruction{Opcode: OpBrIf, Immediate: uint64(labelidx)}
}

// BrTable returns a br_table instruction. The last label is the default.
func BrTable(labelidx uint32, labelidxN ...uint32) wasm.Instruction {
	labels := make([]uint32, len(labelidxN))
	if len(labelidxN) > 0 {
		labels[0], labelidx = labelidx, labelidxN[len(labelidxN)-1]
		copy(labels[1:], labelidxN[:len(labelidxN)-1])
	}

	return wasm.Instruction{Opcode: OpBrTable, Immediate: uint64(labelidx), Labels: labels}
}

func Return() wasm.Instruction {
	return Op(OpReturn)
}

func Call(funcidx uint32) wasm.Instruction {
	return wasm.Instruction{Opcode: OpCall, Immediate: uint64(funcidx)}
}

func CallIndirect(typeidx, tableidx uint32) wasm.Instruction {
	return wasm.Instruction{Opcode: OpCallIndirect, Immediate: uint64(typeidx), Labels: []uint32{tableidx}}
}

func Drop() wasm.Instruction {
	return Op(OpDrop)
}

func Select(types ...wasm.ValueType) wasm.Instruction {
	if len(types) == 0 {
		return Op(OpSelect)
	}
	return wasm.Instruction{Opcode: OpSelectT, Types: types}
}

func LocalGet(localidx uint32) wasm.Instruction {
	return wasm.Instruction{Opcode: OpLocalGet, Immediate: uint64(localidx)}
}

func LocalSet(localidx uint32) wasm.Instruction {
	return wasm.Instruction{Opcode: OpLocalSet, Immediate: uint64(localidx)}
}

func LocalTee(localidx uint32) wasm.Instruction {
	return wasm.Instruction{Opcode: OpLocalTee, Immediate: uint64(localidx)}
}

func GlobalGet(globalidx uint32) wasm.Instruction {
	return wasm.Instruction{Opcode: OpGlobalGet, Immediate: uint64(globalidx)}
}

func GlobalSet(globalidx uint32) wasm.Instruction {
	return wasm.Instruction{Opcode: OpGlobalSet, Immediate: uint64(globalidx)}
}

// Mem returns a load or store instruction.
func Mem(opcode byte, offset, align uint32) wasm.Instruction {
	return wasm.Instruction{Opcode: opcode, Immediate: memarg(offset, align)}
}

func I32Load(offset, align uint32) wasm.Instruction {
	return Mem(OpI32Load, offset, align)
}

func I32Store(offset, align uint32) wasm.Instruction {
	return Mem(OpI32Store, offset, align)
}

func MemorySize() wasm.Instruction {
	return Op(OpMemorySize)
}

func MemoryGrow() wasm.Instruction {
	return Op(OpMemoryGrow)
}

func I32Const(v int32) wasm.Instruction {
	return wasm.Instruction{Opcode: OpI32Const, Immediate: uint64(v)}
}

func I64Const(v int64) wasm.Instruction {
	return wasm.Instruction{Opcode: OpI64Const, Immediate: uint64(v)}
}

func F32Const(v float32) wasm.Instruction {
	return wasm.Instruction{Opcode: OpF32Const, Immediate: uint64(math.Float32bits(v))}
}

func F64Const(v float64) wasm.Instruction {
	return wasm.Instruction{Opcode: OpF64Const, Immediate: math.Float64bits(v)}
}

func I32Add() wasm.Instruction {
	return Op(OpI32Add)
}

func I32Sub() wasm.Instruction {
	return Op(OpI32Sub)
}

func I32Mul() wasm.Instruction {
	return Op(OpI32Mul)
}

func I32And() wasm.Instruction {
	return Op(OpI32And)
}

func I32Or() wasm.Instruction {
	return Op(OpI32Or)
}

func I32Eqz() wasm.Instruction {
	return Op(OpI32Eqz)
}

func I64Add() wasm.Instruction {
	return Op(OpI64Add)
}

func RefNull(t wasm.ValueType) wasm.Instruction {
	return wasm.Instruction{Opcode: OpRefNull, Types: []wasm.ValueType{t}}
}

func RefFunc(funcidx uint32) wasm.Instruction {
	return wasm.Instruction{Opcode: OpRefFunc, Immediate: uint64(funcidx)}
}

// Prefixed returns a 0xfc-prefixed instruction.
func Prefixed(sub uint32) wasm.Instruction {
	return wasm.Instruction{Opcode: OpPrefix, Immediate: uint64(sub)}
}
