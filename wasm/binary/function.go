package binary

import (
	"fmt"

	"github.com/pgavlin/wasmdec/wasm/internal/readpos"
)

func decodeFunctionSection(r *readpos.ReadPos) ([]uint32, error) {
	count, err := r.ReadVarUint32()
	if err != nil {
		return nil, fmt.Errorf("reading function count: %w", err)
	}

	indices := make([]uint32, 0, initialCap(count))
	for i := uint32(0); i < count; i++ {
		typeidx, err := r.ReadVarUint32()
		if err != nil {
			return nil, fmt.Errorf("function %d: %w", i, err)
		}
		indices = append(indices, typeidx)
	}
	return indices, nil
}
