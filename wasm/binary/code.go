package binary

import (
	"fmt"

	"github.com/pgavlin/wasmdec/wasm"
	"github.com/pgavlin/wasmdec/wasm/code"
	"github.com/pgavlin/wasmdec/wasm/internal/readpos"
	"go.uber.org/zap"
)

// MaxLocals is the largest number of locals a single function may declare.
const MaxLocals = 50000

func decodeCodeSection(r *readpos.ReadPos) ([]FuncBody, error) {
	count, err := r.ReadVarUint32()
	if err != nil {
		return nil, fmt.Errorf("reading body count: %w", err)
	}

	bodies := make([]FuncBody, 0, initialCap(count))
	for i := uint32(0); i < count; i++ {
		size, err := r.ReadVarUint32()
		if err != nil {
			return nil, fmt.Errorf("function %d: reading size: %w", i, err)
		}
		start := r.CurPos
		b, err := r.ReadBytes(size)
		if err != nil {
			return nil, fmt.Errorf("function %d: %w", i, err)
		}

		body, err := decodeFuncBody(b)
		if err != nil {
			return nil, fmt.Errorf("function %d at offset %d: %w", i, start, err)
		}
		Logger().Debug("decoded function body",
			zap.Uint32("index", i),
			zap.Uint32("size", size),
			zap.Int("locals", len(body.Locals)),
			zap.Int("instructions", len(body.Body)))
		bodies = append(bodies, body)
	}
	return bodies, nil
}

func decodeFuncBody(b []byte) (FuncBody, error) {
	r := readpos.FromBytes(b)

	locals, err := decodeLocals(r)
	if err != nil {
		return FuncBody{}, err
	}

	rest, err := r.ReadToEnd()
	if err != nil {
		return FuncBody{}, err
	}
	expr, err := code.Decode(rest)
	if err != nil {
		return FuncBody{}, fmt.Errorf("body: %w", err)
	}
	return FuncBody{Locals: locals, Body: expr}, nil
}

// decodeLocals reads the run-length encoded locals declarations and expands
// them in order.
func decodeLocals(r *readpos.ReadPos) ([]wasm.ValueType, error) {
	groups, err := r.ReadVarUint32()
	if err != nil {
		return nil, fmt.Errorf("reading locals count: %w", err)
	}

	type run struct {
		n uint32
		t wasm.ValueType
	}

	runs := make([]run, 0, initialCap(groups))
	var total uint64
	for i := uint32(0); i < groups; i++ {
		n, err := r.ReadVarUint32()
		if err != nil {
			return nil, fmt.Errorf("locals %d: %w", i, err)
		}
		t, err := readValueType(r)
		if err != nil {
			return nil, fmt.Errorf("locals %d: %w", i, err)
		}

		total += uint64(n)
		if total > MaxLocals {
			return nil, wasm.Malformed("too many locals")
		}
		runs = append(runs, run{n: n, t: t})
	}

	locals := make([]wasm.ValueType, 0, int(total))
	for _, run := range runs {
		for j := uint32(0); j < run.n; j++ {
			locals = append(locals, run.t)
		}
	}
	return locals, nil
}
