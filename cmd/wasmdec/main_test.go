package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/pgavlin/wasmdec/wasm/binary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCommands(t *testing.T) {
	root := configureCLI()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"dump", "resolve"}, names)

	cpu := root.PersistentFlags().Lookup("cpu")
	require.NotNil(t, cpu)
	assert.True(t, cpu.Hidden)
}

func TestDebugDump(t *testing.T) {
	defer binary.SetLogger(zap.NewNop())

	// (module)
	path := filepath.Join(t.TempDir(), "empty.wasm")
	require.NoError(t, os.WriteFile(path, []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}, 0o600))

	var stdout bytes.Buffer
	root := configureCLI()
	root.SetArgs([]string{"--debug", "dump", path})
	root.SetOut(&stdout)
	root.SetErr(&bytes.Buffer{})
	require.NoError(t, root.Execute())

	assert.Contains(t, stdout.String(), "types (0)")
}
