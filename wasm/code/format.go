package code

import (
	"fmt"
	"io"
	"strings"

	"github.com/pgavlin/wasmdec/wasm"
)

func blockString(op string, instr *wasm.Instruction) string {
	if instr.BlockType.Kind == wasm.BlockEmpty {
		return op
	}
	return op + " " + instr.BlockType.String()
}

func memString(op string, instr *wasm.Instruction) string {
	var b strings.Builder
	b.WriteString(op)
	offset, align := instr.Memarg()
	if offset != 0 {
		fmt.Fprintf(&b, " offset=%v", offset)
	}
	if align != 0 {
		fmt.Fprintf(&b, " align=%v", align)
	}
	return b.String()
}

// Format renders a single instruction in the text format. The bodies of
// structured instructions are not included.
func Format(instr *wasm.Instruction) string {
	op := OpName(instr.Opcode, instr.Immediate)

	switch instr.Opcode {
	case OpBlock, OpLoop, OpIf:
		return blockString(op, instr)
	case OpBr, OpBrIf, OpCall, OpLocalGet, OpLocalSet, OpLocalTee, OpGlobalGet, OpGlobalSet, OpRefFunc:
		return fmt.Sprintf("%s %d", op, instr.Index())
	case OpBrTable:
		var b strings.Builder

		b.WriteString("br_table")
		for _, l := range instr.Labels {
			fmt.Fprintf(&b, " %d", l)
		}
		fmt.Fprintf(&b, " %d", instr.Default())
		return b.String()
	case OpCallIndirect:
		if table := instr.TableIndex(); table != 0 {
			return fmt.Sprintf("call_indirect %d (type %d)", table, instr.Index())
		}
		return fmt.Sprintf("call_indirect (type %d)", instr.Index())
	case OpSelectT:
		return fmt.Sprintf("select (result %v)", wasm.ResultType(instr.Types))
	case OpI32Load, OpI64Load, OpF32Load, OpF64Load, OpI32Load8S, OpI32Load8U, OpI32Load16S, OpI32Load16U, OpI64Load8S, OpI64Load8U, OpI64Load16S, OpI64Load16U, OpI64Load32S, OpI64Load32U, OpI32Store, OpI64Store, OpF32Store, OpF64Store, OpI32Store8, OpI32Store16, OpI64Store8, OpI64Store16, OpI64Store32:
		return memString(op, instr)
	case OpI32Const:
		return fmt.Sprintf("i32.const %d", instr.I32())
	case OpI64Const:
		return fmt.Sprintf("i64.const %d", instr.I64())
	case OpF32Const:
		return fmt.Sprintf("f32.const %g", instr.F32())
	case OpF64Const:
		return fmt.Sprintf("f64.const %g", instr.F64())
	case OpRefNull:
		if len(instr.Types) != 0 && instr.Types[0] == wasm.ValueTypeExternRef {
			return "ref.null extern"
		}
		return "ref.null func"
	default:
		return op
	}
}

// Fprint writes expr to w in the text format, one instruction per line.
// Nested bodies are indented one tab per level below indent.
func Fprint(w io.Writer, expr wasm.Expr, indent int) error {
	for i := range expr {
		if err := fprintInstruction(w, &expr[i], indent); err != nil {
			return err
		}
	}
	return nil
}

func fprintInstruction(w io.Writer, instr *wasm.Instruction, indent int) error {
	prefix := strings.Repeat("\t", indent)
	if _, err := fmt.Fprintf(w, "%s%s\n", prefix, Format(instr)); err != nil {
		return err
	}

	switch instr.Opcode {
	case OpBlock, OpLoop, OpIf:
	default:
		return nil
	}

	if err := Fprint(w, instr.Body, indent+1); err != nil {
		return err
	}
	if instr.Else != nil {
		if _, err := fmt.Fprintf(w, "%selse\n", prefix); err != nil {
			return err
		}
		if err := Fprint(w, instr.Else, indent+1); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%send\n", prefix)
	return err
}
