package binary

import (
	"fmt"

	"github.com/pgavlin/wasmdec/wasm"
	"github.com/pgavlin/wasmdec/wasm/internal/readpos"
)

func decodeTypeSection(r *readpos.ReadPos) ([]wasm.FuncType, error) {
	count, err := r.ReadVarUint32()
	if err != nil {
		return nil, fmt.Errorf("reading type count: %w", err)
	}

	types := make([]wasm.FuncType, 0, initialCap(count))
	for i := uint32(0); i < count; i++ {
		t, err := decodeFuncType(r)
		if err != nil {
			return nil, fmt.Errorf("type %d: %w", i, err)
		}
		types = append(types, t)
	}
	return types, nil
}

func decodeFuncType(r *readpos.ReadPos) (wasm.FuncType, error) {
	start := r.CurPos
	tag, err := r.ReadU8()
	if err != nil {
		return wasm.FuncType{}, err
	}
	if tag != wasm.TypeFunc {
		return wasm.FuncType{}, fmt.Errorf("offset %d: %w", start, wasm.Malformed("invalid function type tag 0x%02x", tag))
	}

	params, err := decodeResultType(r)
	if err != nil {
		return wasm.FuncType{}, fmt.Errorf("reading parameters: %w", err)
	}
	results, err := decodeResultType(r)
	if err != nil {
		return wasm.FuncType{}, fmt.Errorf("reading results: %w", err)
	}
	return wasm.FuncType{Params: params, Results: results}, nil
}

func decodeResultType(r *readpos.ReadPos) (wasm.ResultType, error) {
	count, err := r.ReadVarUint32()
	if err != nil {
		return nil, err
	}

	types := make(wasm.ResultType, 0, initialCap(count))
	for i := uint32(0); i < count; i++ {
		t, err := readValueType(r)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}

func readValueType(r *readpos.ReadPos) (wasm.ValueType, error) {
	start := r.CurPos
	b, err := r.ReadU8()
	if err != nil {
		return 0, err
	}
	t, err := wasm.ValueTypeOf(b)
	if err != nil {
		return 0, fmt.Errorf("offset %d: %w", start, err)
	}
	return t, nil
}
