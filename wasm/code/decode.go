package code

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pgavlin/wasmdec/wasm"
	"github.com/pgavlin/wasmdec/wasm/leb128"
)

// MaxNesting is the deepest block/loop/if nesting accepted within a single
// instruction stream.
const MaxNesting = 1024

// An immediateReader consumes the immediates of one instruction from the
// start of body and returns the remaining bytes.
type immediateReader func(instr *wasm.Instruction, body []byte) ([]byte, error)

// immediates maps each opcode to the rule that reads its immediates. A nil
// entry is an undefined instruction. Structured instructions are handled by
// the decoder itself.
var immediates [256]immediateReader

func init() {
	set := func(r immediateReader, opcodes ...byte) {
		for _, op := range opcodes {
			immediates[op] = r
		}
	}

	set(noImmediate, OpUnreachable, OpNop, OpElse, OpEnd, OpReturn, OpDrop, OpSelect, OpRefIsNull)
	set(indexImmediate, OpBr, OpBrIf, OpCall, OpLocalGet, OpLocalSet, OpLocalTee, OpGlobalGet, OpGlobalSet, OpRefFunc)
	set(brTableImmediate, OpBrTable)
	set(callIndirectImmediate, OpCallIndirect)
	set(selectImmediate, OpSelectT)
	set(memargImmediate,
		OpI32Load, OpI64Load, OpF32Load, OpF64Load,
		OpI32Load8S, OpI32Load8U, OpI32Load16S, OpI32Load16U,
		OpI64Load8S, OpI64Load8U, OpI64Load16S, OpI64Load16U, OpI64Load32S, OpI64Load32U,
		OpI32Store, OpI64Store, OpF32Store, OpF64Store,
		OpI32Store8, OpI32Store16, OpI64Store8, OpI64Store16, OpI64Store32)
	set(zeroByteImmediate, OpMemorySize, OpMemoryGrow)
	set(i32Immediate, OpI32Const)
	set(i64Immediate, OpI64Const)
	set(f32Immediate, OpF32Const)
	set(f64Immediate, OpF64Const)
	set(refTypeImmediate, OpRefNull)
	set(prefixImmediate, OpPrefix)

	// Every numeric instruction from i32.eqz through i64.extend32_s is a
	// single byte.
	for op := OpI32Eqz; op <= OpI64Extend32S; op++ {
		immediates[op] = noImmediate
	}
}

func noImmediate(_ *wasm.Instruction, body []byte) ([]byte, error) {
	return body, nil
}

func indexImmediate(instr *wasm.Instruction, body []byte) ([]byte, error) {
	index, read, err := leb128.GetVarUint32(body)
	if err != nil {
		return nil, err
	}
	instr.Immediate = uint64(index)
	return body[read:], nil
}

func brTableImmediate(instr *wasm.Instruction, body []byte) ([]byte, error) {
	numLabels, read, err := leb128.GetVarUint32(body)
	if err != nil {
		return nil, err
	}
	body = body[read:]

	// Each label takes at least one byte.
	if uint64(numLabels) > uint64(len(body)) {
		return nil, io.ErrUnexpectedEOF
	}

	instr.Labels = make([]uint32, int(numLabels))
	for i := range instr.Labels {
		label, read, err := leb128.GetVarUint32(body)
		if err != nil {
			return nil, err
		}
		instr.Labels[i], body = label, body[read:]
	}

	defaultLabel, read, err := leb128.GetVarUint32(body)
	if err != nil {
		return nil, err
	}
	instr.Immediate = uint64(defaultLabel)
	return body[read:], nil
}

func callIndirectImmediate(instr *wasm.Instruction, body []byte) ([]byte, error) {
	typeidx, read, err := leb128.GetVarUint32(body)
	if err != nil {
		return nil, err
	}
	body = body[read:]

	tableidx, read, err := leb128.GetVarUint32(body)
	if err != nil {
		return nil, err
	}
	instr.Immediate = uint64(typeidx)
	instr.Labels = []uint32{tableidx}
	return body[read:], nil
}

func selectImmediate(instr *wasm.Instruction, body []byte) ([]byte, error) {
	count, read, err := leb128.GetVarUint32(body)
	if err != nil {
		return nil, err
	}
	body = body[read:]
	if uint64(count) > uint64(len(body)) {
		return nil, io.ErrUnexpectedEOF
	}

	instr.Types = make([]wasm.ValueType, int(count))
	for i := range instr.Types {
		t, err := wasm.ValueTypeOf(body[i])
		if err != nil {
			return nil, err
		}
		instr.Types[i] = t
	}
	return body[count:], nil
}

func memargImmediate(instr *wasm.Instruction, body []byte) ([]byte, error) {
	align, read, err := leb128.GetVarUint32(body)
	if err != nil {
		return nil, err
	}
	body = body[read:]

	offset, read, err := leb128.GetVarUint32(body)
	if err != nil {
		return nil, err
	}
	instr.Immediate = memarg(offset, align)
	return body[read:], nil
}

func zeroByteImmediate(_ *wasm.Instruction, body []byte) ([]byte, error) {
	if len(body) == 0 {
		return nil, io.ErrUnexpectedEOF
	}
	if body[0] != 0x00 {
		return nil, wasm.Malformed("zero byte expected")
	}
	return body[1:], nil
}

func i32Immediate(instr *wasm.Instruction, body []byte) ([]byte, error) {
	value, read, err := leb128.GetVarint32(body)
	if err != nil {
		return nil, err
	}
	instr.Immediate = uint64(value)
	return body[read:], nil
}

func i64Immediate(instr *wasm.Instruction, body []byte) ([]byte, error) {
	value, read, err := leb128.GetVarint64(body)
	if err != nil {
		return nil, err
	}
	instr.Immediate = uint64(value)
	return body[read:], nil
}

func f32Immediate(instr *wasm.Instruction, body []byte) ([]byte, error) {
	if len(body) < 4 {
		return nil, io.ErrUnexpectedEOF
	}
	instr.Immediate = uint64(binary.LittleEndian.Uint32(body))
	return body[4:], nil
}

func f64Immediate(instr *wasm.Instruction, body []byte) ([]byte, error) {
	if len(body) < 8 {
		return nil, io.ErrUnexpectedEOF
	}
	instr.Immediate = binary.LittleEndian.Uint64(body)
	return body[8:], nil
}

func refTypeImmediate(instr *wasm.Instruction, body []byte) ([]byte, error) {
	if len(body) == 0 {
		return nil, io.ErrUnexpectedEOF
	}
	t, err := wasm.ValueTypeOf(body[0])
	if err != nil {
		return nil, err
	}
	if !t.IsRef() {
		return nil, wasm.Malformed("ref.null of non-reference type %v", t)
	}
	instr.Types = []wasm.ValueType{t}
	return body[1:], nil
}

func prefixImmediate(instr *wasm.Instruction, body []byte) ([]byte, error) {
	sub, read, err := leb128.GetVarUint32(body)
	if err != nil {
		return nil, err
	}
	if sub > OpI64TruncSatF64U {
		return nil, wasm.Malformed("undefined instruction 0x%02x %d", OpPrefix, sub)
	}
	instr.Immediate = uint64(sub)
	return body[read:], nil
}

func memarg(offset, align uint32) uint64 {
	return uint64(align)<<32 | uint64(offset)
}

type decoder struct {
	size  int
	depth int
}

// offset returns the position of body within the stream being decoded.
func (d *decoder) offset(body []byte) int {
	return d.size - len(body)
}

// Decode decodes one complete instruction stream, such as a function body.
// The stream must end with its own end instruction and nothing may follow it.
func Decode(body []byte) (wasm.Expr, error) {
	d := decoder{size: len(body)}

	expr, rest, term, err := d.decodeExpr(body)
	if err != nil {
		return nil, err
	}
	if term != OpEnd {
		return nil, fmt.Errorf("offset %d: %w", d.offset(rest)-1, wasm.Malformed("else outside of if"))
	}
	if len(rest) != 0 {
		return nil, wasm.Malformed("%d trailing bytes after end of body", len(rest))
	}
	return expr, nil
}

// DecodeInstruction decodes the single instruction at the start of body and
// returns it along with the number of bytes it occupied. Structured
// instructions are decoded through their matching end. A bare end or else is
// returned as an instruction with only its opcode set.
func DecodeInstruction(body []byte) (wasm.Instruction, int, error) {
	d := decoder{size: len(body)}

	instr, rest, err := d.decodeInstruction(body)
	if err != nil {
		return wasm.Instruction{}, 0, err
	}
	return instr, d.offset(rest), nil
}

// decodeExpr decodes instructions until it consumes an end or else at its
// own nesting level. Nested constructs consume their own terminators before
// returning, so the only terminator observed here belongs to this level. It
// returns the instructions, the bytes following the terminator, and the
// terminator's opcode.
func (d *decoder) decodeExpr(body []byte) (wasm.Expr, []byte, byte, error) {
	var expr wasm.Expr
	for {
		instr, rest, err := d.decodeInstruction(body)
		if err != nil {
			return nil, nil, 0, err
		}
		body = rest

		switch instr.Opcode {
		case OpEnd, OpElse:
			return expr, body, instr.Opcode, nil
		}
		expr = append(expr, instr)
	}
}

func (d *decoder) decodeInstruction(body []byte) (wasm.Instruction, []byte, error) {
	start := d.offset(body)
	fail := func(err error) (wasm.Instruction, []byte, error) {
		return wasm.Instruction{}, nil, fmt.Errorf("offset %d: %w", start, wasm.ReadError(err))
	}

	if len(body) == 0 {
		return fail(io.ErrUnexpectedEOF)
	}

	opcode := body[0]
	body = body[1:]

	switch opcode {
	case OpBlock, OpLoop, OpIf:
		return d.decodeStructured(opcode, body)
	}

	read := immediates[opcode]
	if read == nil {
		return fail(wasm.Malformed("undefined instruction 0x%02x", opcode))
	}

	instr := wasm.Instruction{Opcode: opcode}
	body, err := read(&instr, body)
	if err != nil {
		return fail(err)
	}
	return instr, body, nil
}

// decodeStructured decodes a block, loop or if whose opcode has already been
// consumed. The body of each branch is decoded by a recursive call to
// decodeExpr.
func (d *decoder) decodeStructured(opcode byte, body []byte) (wasm.Instruction, []byte, error) {
	start := d.offset(body) - 1
	fail := func(err error) (wasm.Instruction, []byte, error) {
		return wasm.Instruction{}, nil, fmt.Errorf("offset %d: %w", start, wasm.ReadError(err))
	}

	blockType, body, err := decodeBlockType(body)
	if err != nil {
		return fail(err)
	}

	if d.depth == MaxNesting {
		return fail(wasm.Malformed("nesting deeper than %d levels", MaxNesting))
	}
	d.depth++
	defer func() { d.depth-- }()

	instr := wasm.Instruction{Opcode: opcode, BlockType: blockType}

	var term byte
	instr.Body, body, term, err = d.decodeExpr(body)
	if err != nil {
		return wasm.Instruction{}, nil, err
	}
	if term == OpElse {
		if opcode != OpIf {
			return fail(wasm.Malformed("else inside %s", OpName(opcode, 0)))
		}

		instr.Else, body, term, err = d.decodeExpr(body)
		if err != nil {
			return wasm.Instruction{}, nil, err
		}
		if term == OpElse {
			return fail(wasm.Malformed("if with more than one else"))
		}
		if instr.Else == nil {
			instr.Else = wasm.Expr{}
		}
	}
	return instr, body, nil
}
