package resolve

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/pgavlin/wasmdec/load"
	"github.com/pgavlin/wasmdec/wasm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Exports "add" (i32 i32) -> i32, "mix" (i64 f64) -> () and the table "tbl".
var calcModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	0x01, 0x0c, 0x02, 0x60, 0x02, 0x7f, 0x7f, 0x01, 0x7f, 0x60, 0x02, 0x7e, 0x7c, 0x00,
	0x03, 0x03, 0x02, 0x00, 0x01,
	0x07, 0x13, 0x03,
	0x03, 'a', 'd', 'd', 0x00, 0x00,
	0x03, 'm', 'i', 'x', 0x00, 0x01,
	0x03, 't', 'b', 'l', 0x01, 0x00,
	0x0a, 0x15, 0x02,
	0x07, 0x00, 0x20, 0x00, 0x20, 0x01, 0x6a, 0x0b,
	0x0b, 0x01, 0x02, 0x7f, 0x41, 0x01, 0x04, 0x40, 0x01, 0x05, 0x0b, 0x0b,
}

func writeModule(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "calc.wasm")
	require.NoError(t, os.WriteFile(path, calcModule, 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	var stdout bytes.Buffer
	command := Command()
	command.SetArgs(args)
	command.SetOut(&stdout)
	command.SetErr(&bytes.Buffer{})
	err := command.Execute()
	return stdout.String(), err
}

func TestResolve(t *testing.T) {
	path := writeModule(t)

	out, err := run(t, path, "add", "1", "2")
	require.NoError(t, err)
	assert.Equal(t, "func 0 \"add\" [i32 i32] -> [i32]\n(invoke \"add\" (i32 1) (i32 2))\n", out)

	out, err = run(t, path, "mix", "-5", "2.5")
	require.NoError(t, err)
	assert.Equal(t, "func 1 \"mix\" [i64 f64] -> []\n(invoke \"mix\" (i64 -5) (f64 2.5))\n", out)

	out, err = run(t, path, "add", "0xffffffff", "-0x10")
	require.NoError(t, err)
	assert.Contains(t, out, "(i32 -1) (i32 -16)")
}

func TestResolveErrors(t *testing.T) {
	path := writeModule(t)

	cases := []struct {
		name    string
		args    []string
		kind    error
		message string
	}{
		{name: "too few arguments", args: []string{path, "add", "1"}, kind: ErrArity, message: "expected 2, got 1"},
		{name: "too many arguments", args: []string{path, "mix", "1", "2", "3"}, kind: ErrArity},
		{name: "not a function", args: []string{path, "tbl"}, kind: wasm.ErrNotAFunction},
		{name: "missing export", args: []string{path, "sub", "1", "2"}, kind: wasm.ErrExportNotFound},
		{name: "missing file", args: []string{filepath.Join(filepath.Dir(path), "none.wasm"), "add"}, kind: os.ErrNotExist},
		{name: "bad integer", args: []string{path, "add", "one", "2"}, message: "argument 0"},
		{name: "i32 out of range", args: []string{path, "add", "1", "4294967296"}, message: "argument 1"},
		{name: "bad float", args: []string{path, "mix", "1", "x"}, message: "argument 1"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := run(t, c.args...)
			require.Error(t, err)
			if c.kind != nil {
				assert.ErrorIs(t, err, c.kind)
			}
			if c.message != "" {
				assert.Contains(t, err.Error(), c.message)
			}
		})
	}

	_, err := run(t, path)
	assert.Error(t, err)
}

func TestParseArg(t *testing.T) {
	a, err := ParseArg(wasm.ValueTypeF32, "1.5")
	require.NoError(t, err)
	assert.Equal(t, "(f32 1.5)", a.String())

	a, err = ParseArg(wasm.ValueTypeI64, "0xffffffffffffffff")
	require.NoError(t, err)
	assert.Equal(t, "(i64 -1)", a.String())

	_, err = ParseArg(wasm.ValueTypeFuncRef, "0")
	assert.Error(t, err)
}

func TestResolveByName(t *testing.T) {
	dir := filepath.Dir(writeModule(t))

	out, err := run(t, "--dir", dir, "calc", "add", "3", "4")
	require.NoError(t, err)
	assert.Equal(t, "func 0 \"add\" [i32 i32] -> [i32]\n(invoke \"add\" (i32 3) (i32 4))\n", out)

	out, err = run(t, "--dir", dir, "calc.wasm", "mix", "1", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "(i64 1) (f64 0)")

	_, err = run(t, "--dir", dir, "other", "add", "1", "2")
	assert.ErrorIs(t, err, load.ErrModuleNotFound)
}
