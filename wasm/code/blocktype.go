package code

import (
	"io"

	"github.com/pgavlin/wasmdec/wasm"
	"github.com/pgavlin/wasmdec/wasm/leb128"
)

// decodeBlockType decodes the block type at the start of body and returns
// the remaining bytes. A single byte is either the empty type or a value
// type; anything else is the first byte of a signed 33-bit type index.
func decodeBlockType(body []byte) (wasm.BlockType, []byte, error) {
	if len(body) == 0 {
		return wasm.BlockType{}, nil, io.ErrUnexpectedEOF
	}

	if body[0] == wasm.BlockTypeEmpty {
		return wasm.EmptyBlock(), body[1:], nil
	}
	if t, err := wasm.ValueTypeOf(body[0]); err == nil {
		return wasm.ValueBlock(t), body[1:], nil
	}

	index, read, err := leb128.GetVarint33(body)
	if err != nil {
		return wasm.BlockType{}, nil, err
	}
	if index < 0 {
		return wasm.BlockType{}, nil, wasm.Malformed("invalid block type 0x%02x", body[0])
	}
	return wasm.IndexBlock(uint32(index)), body[read:], nil
}

func appendBlockType(b []byte, bt wasm.BlockType) []byte {
	switch bt.Kind {
	case wasm.BlockEmpty:
		return append(b, wasm.BlockTypeEmpty)
	case wasm.BlockValue:
		return append(b, byte(bt.Value))
	default:
		return leb128.AppendVarint64(b, int64(bt.TypeIndex))
	}
}
