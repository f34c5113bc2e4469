package binary

import (
	"fmt"

	"github.com/pgavlin/wasmdec/wasm"
	"github.com/pgavlin/wasmdec/wasm/internal/readpos"
)

func decodeExportSection(r *readpos.ReadPos) ([]wasm.Export, error) {
	count, err := r.ReadVarUint32()
	if err != nil {
		return nil, fmt.Errorf("reading export count: %w", err)
	}

	exports := make([]wasm.Export, 0, initialCap(count))
	names := make(map[string]struct{}, initialCap(count))
	for i := uint32(0); i < count; i++ {
		e, err := decodeExport(r)
		if err != nil {
			return nil, fmt.Errorf("export %d: %w", i, err)
		}
		if _, ok := names[e.Name]; ok {
			return nil, fmt.Errorf("export %d: %w", i, wasm.Malformed("duplicate export name %q", e.Name))
		}
		names[e.Name] = struct{}{}
		exports = append(exports, e)
	}
	return exports, nil
}

func decodeExport(r *readpos.ReadPos) (wasm.Export, error) {
	name, err := readName(r)
	if err != nil {
		return wasm.Export{}, fmt.Errorf("reading name: %w", err)
	}

	start := r.CurPos
	b, err := r.ReadU8()
	if err != nil {
		return wasm.Export{}, err
	}
	kind, err := wasm.ExternalOf(b)
	if err != nil {
		return wasm.Export{}, fmt.Errorf("offset %d: %w", start, err)
	}

	index, err := r.ReadVarUint32()
	if err != nil {
		return wasm.Export{}, fmt.Errorf("reading index: %w", err)
	}
	return wasm.Export{Name: name, Desc: wasm.ExportDesc{Kind: kind, Index: index}}, nil
}
