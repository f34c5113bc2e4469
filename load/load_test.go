package load

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/pgavlin/wasmdec/wasm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// (module (func (export "add") (param i32 i32) (result i32) local.get 0 local.get 1 i32.add))
var addModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	0x01, 0x07, 0x01, 0x60, 0x02, 0x7f, 0x7f, 0x01, 0x7f,
	0x03, 0x02, 0x01, 0x00,
	0x07, 0x07, 0x01, 0x03, 'a', 'd', 'd', 0x00, 0x00,
	0x0a, 0x09, 0x01, 0x07, 0x00, 0x20, 0x00, 0x20, 0x01, 0x6a, 0x0b,
}

func checkAddModule(t *testing.T, m *wasm.Module) {
	_, f, sig, err := m.ExportedFunc("add")
	require.NoError(t, err)
	assert.Len(t, f.Body, 3)
	assert.Equal(t, "[i32 i32] -> [i32]", sig.String())
}

func TestLoadModule(t *testing.T) {
	m, err := LoadModule(bytes.NewReader(addModule))
	require.NoError(t, err)
	checkAddModule(t, m)
}

func TestLoadTextModule(t *testing.T) {
	_, err := LoadModule(strings.NewReader("  (module (func))"))
	assert.ErrorIs(t, err, ErrTextFormat)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "add.wasm")
	require.NoError(t, os.WriteFile(path, addModule, 0o600))

	m, err := LoadFile(path)
	require.NoError(t, err)
	checkAddModule(t, m)

	empty := filepath.Join(dir, "empty.wasm")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	_, err = LoadFile(empty)
	assert.ErrorIs(t, err, wasm.ErrUnexpectedEOF)

	truncated := filepath.Join(dir, "truncated.wasm")
	require.NoError(t, os.WriteFile(truncated, addModule[:len(addModule)-1], 0o600))
	_, err = LoadFile(truncated)
	assert.ErrorIs(t, err, wasm.ErrUnexpectedEOF)
	assert.Contains(t, err.Error(), truncated)

	_, err = LoadFile(filepath.Join(dir, "missing.wasm"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFSResolver(t *testing.T) {
	fsys := fstest.MapFS{
		"add.wasm": &fstest.MapFile{Data: addModule},
		"raw":      &fstest.MapFile{Data: addModule},
	}
	r := NewFSResolver(fsys)

	m, err := r.ResolveModule("add")
	require.NoError(t, err)
	checkAddModule(t, m)

	again, err := r.ResolveModule("add")
	require.NoError(t, err)
	assert.Same(t, m, again)

	_, err = r.ResolveModule("raw")
	require.NoError(t, err)

	_, err = r.ResolveModule("missing")
	assert.ErrorIs(t, err, ErrModuleNotFound)
}
