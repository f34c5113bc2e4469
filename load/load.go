// Package load reads WebAssembly modules from files and streams.
package load

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pgavlin/wasmdec/wasm"
	wasmbinary "github.com/pgavlin/wasmdec/wasm/binary"
)

// ErrTextFormat is returned for input that looks like a module in the text format.
var ErrTextFormat = errors.New("text format modules are not supported")

func LoadModule(r io.Reader) (*wasm.Module, error) {
	br := bufio.NewReader(r)

	buf, err := br.Peek(4)
	if err == nil && binary.LittleEndian.Uint32(buf) != wasm.Magic && isText(br) {
		return nil, ErrTextFormat
	}
	return wasmbinary.DecodeModule(br)
}

// isText reports whether the buffered input starts with an s-expression.
func isText(br *bufio.Reader) bool {
	buf, _ := br.Peek(br.Buffered())
	return bytes.HasPrefix(bytes.TrimLeft(buf, " \t\r\n"), []byte("(module"))
}

// LoadFile decodes the module stored in the named file. The file is mapped
// into memory where the platform supports it.
func LoadFile(path string) (*wasm.Module, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, unmap, err := mapFile(f)
	if err != nil {
		return nil, fmt.Errorf("reading %v: %w", path, err)
	}
	defer unmap()

	m, err := LoadModule(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %v: %w", path, err)
	}
	return m, nil
}
