package code

import (
	"encoding/binary"
	"io"

	"github.com/pgavlin/wasmdec/wasm"
	"github.com/pgavlin/wasmdec/wasm/leb128"
)

func appendInstruction(b []byte, instr *wasm.Instruction) []byte {
	b = append(b, instr.Opcode)

	switch instr.Opcode {
	case OpBlock, OpLoop:
		b = appendBlockType(b, instr.BlockType)
		b = appendExpr(b, instr.Body)
		b = append(b, OpEnd)
	case OpIf:
		b = appendBlockType(b, instr.BlockType)
		b = appendExpr(b, instr.Body)
		if instr.Else != nil {
			b = append(b, OpElse)
			b = appendExpr(b, instr.Else)
		}
		b = append(b, OpEnd)
	case OpBr, OpBrIf, OpCall, OpLocalGet, OpLocalSet, OpLocalTee, OpGlobalGet, OpGlobalSet, OpRefFunc, OpPrefix:
		// Index encoding
		b = leb128.AppendVarUint32(b, uint32(instr.Immediate))
	case OpBrTable:
		b = leb128.AppendVarUint32(b, uint32(len(instr.Labels)))
		for _, l := range instr.Labels {
			b = leb128.AppendVarUint32(b, l)
		}
		b = leb128.AppendVarUint32(b, uint32(instr.Immediate))
	case OpCallIndirect:
		b = leb128.AppendVarUint32(b, uint32(instr.Immediate))
		b = leb128.AppendVarUint32(b, instr.TableIndex())
	case OpSelectT:
		b = leb128.AppendVarUint32(b, uint32(len(instr.Types)))
		for _, t := range instr.Types {
			b = append(b, byte(t))
		}
	case OpI32Load, OpI64Load, OpF32Load, OpF64Load, OpI32Load8S, OpI32Load8U, OpI32Load16S, OpI32Load16U, OpI64Load8S, OpI64Load8U, OpI64Load16S, OpI64Load16U, OpI64Load32S, OpI64Load32U, OpI32Store, OpI64Store, OpF32Store, OpF64Store, OpI32Store8, OpI32Store16, OpI64Store8, OpI64Store16, OpI64Store32:
		// Memory encoding
		offset, align := instr.Memarg()
		b = leb128.AppendVarUint32(b, align)
		b = leb128.AppendVarUint32(b, offset)
	case OpMemorySize, OpMemoryGrow:
		b = append(b, 0x00)
	case OpI32Const:
		b = leb128.AppendVarint64(b, int64(instr.I32()))
	case OpI64Const:
		b = leb128.AppendVarint64(b, instr.I64())
	case OpF32Const:
		b = binary.LittleEndian.AppendUint32(b, uint32(instr.Immediate))
	case OpF64Const:
		b = binary.LittleEndian.AppendUint64(b, instr.Immediate)
	case OpRefNull:
		t := wasm.ValueTypeFuncRef
		if len(instr.Types) != 0 {
			t = instr.Types[0]
		}
		b = append(b, byte(t))
	default:
		// Single-byte encoding; already done
	}
	return b
}

func appendExpr(b []byte, expr wasm.Expr) []byte {
	for i := range expr {
		b = appendInstruction(b, &expr[i])
	}
	return b
}

// Append appends the binary encoding of expr to b, including the end
// instruction that terminates it.
func Append(b []byte, expr wasm.Expr) []byte {
	return append(appendExpr(b, expr), OpEnd)
}

// Encode writes the binary encoding of expr to w, including the end
// instruction that terminates it. Decoding the output with Decode yields an
// expression equal to expr.
func Encode(w io.Writer, expr wasm.Expr) error {
	_, err := w.Write(Append(nil, expr))
	return err
}
