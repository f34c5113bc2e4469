package binary

import (
	"testing"

	"github.com/pgavlin/wasmdec/wasm"
	"github.com/pgavlin/wasmdec/wasm/internal/readpos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeExportSection(t *testing.T) {
	exports, err := decodeExportSection(readpos.FromBytes([]byte{0x01, 0x03, 'a', 'd', 'd', 0x00, 0x00}))
	require.NoError(t, err)
	assert.Equal(t, []wasm.Export{
		{Name: "add", Desc: wasm.ExportDesc{Kind: wasm.ExternalFunction, Index: 0}},
	}, exports)

	payload := cat(u32(4),
		export("", wasm.ExternalFunction, 10),
		export("mem", wasm.ExternalMemory, 0),
		export("tbl", wasm.ExternalTable, 1),
		export("g", wasm.ExternalGlobal, 300))
	exports, err = decodeExportSection(readpos.FromBytes(payload))
	require.NoError(t, err)
	assert.Equal(t, []wasm.Export{
		{Name: "", Desc: wasm.ExportDesc{Kind: wasm.ExternalFunction, Index: 10}},
		{Name: "mem", Desc: wasm.ExportDesc{Kind: wasm.ExternalMemory, Index: 0}},
		{Name: "tbl", Desc: wasm.ExportDesc{Kind: wasm.ExternalTable, Index: 1}},
		{Name: "g", Desc: wasm.ExportDesc{Kind: wasm.ExternalGlobal, Index: 300}},
	}, exports)
}

func TestDecodeExportSectionErrors(t *testing.T) {
	cases := []struct {
		name    string
		payload []byte
		kind    error
		message string
	}{
		{
			name:    "duplicate name",
			payload: cat(u32(2), export("f", wasm.ExternalFunction, 0), export("f", wasm.ExternalGlobal, 0)),
			kind:    wasm.ErrMalformed,
			message: `duplicate export name "f"`,
		},
		{
			name:    "invalid kind",
			payload: cat(u32(1), name("f"), []byte{0x04, 0x00}),
			kind:    wasm.ErrMalformed,
		},
		{
			name:    "invalid UTF-8",
			payload: cat(u32(1), []byte{0x01, 0xc0, 0x00, 0x00}),
			kind:    wasm.ErrMalformed,
			message: "invalid UTF-8",
		},
		{
			name:    "truncated name",
			payload: cat(u32(1), []byte{0x05, 'a', 'b'}),
			kind:    wasm.ErrUnexpectedEOF,
		},
		{
			name:    "missing index",
			payload: cat(u32(1), name("f"), []byte{0x00}),
			kind:    wasm.ErrUnexpectedEOF,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := decodeExportSection(readpos.FromBytes(c.payload))
			require.Error(t, err)
			assert.ErrorIs(t, err, c.kind)
			if c.message != "" {
				assert.Contains(t, err.Error(), c.message)
			}
		})
	}
}
