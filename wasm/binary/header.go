// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package binary

import (
	"fmt"

	"github.com/pgavlin/wasmdec/wasm"
	"github.com/pgavlin/wasmdec/wasm/internal/readpos"
)

// ErrInvalidMagic is returned when the input does not start with "\0asm".
var ErrInvalidMagic = wasm.Malformed("invalid magic")

// decodeHeader reads the magic number and the format version. Only version 1
// is accepted.
func decodeHeader(r *readpos.ReadPos) (uint32, error) {
	magic, err := r.ReadU32LE()
	if err != nil {
		return 0, fmt.Errorf("reading magic: %w", err)
	}
	if magic != wasm.Magic {
		return 0, ErrInvalidMagic
	}

	version, err := r.ReadU32LE()
	if err != nil {
		return 0, fmt.Errorf("reading version: %w", err)
	}
	if version != wasm.Version {
		return 0, wasm.UnsupportedVersionError(version)
	}
	return version, nil
}
