// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wasm

import (
	"errors"
	"fmt"
	"io"

	"github.com/pgavlin/wasmdec/wasm/leb128"
)

// ErrUnexpectedEOF is returned when the input ends in the middle of a read.
var ErrUnexpectedEOF = io.ErrUnexpectedEOF

var (
	// ErrMalformed matches every *MalformedError via errors.Is.
	ErrMalformed = errors.New("wasm: malformed module")
	// ErrUnsupportedFeature matches every UnsupportedFeatureError via errors.Is.
	ErrUnsupportedFeature = errors.New("wasm: unsupported feature")
)

// MalformedError reports input that does not follow the binary format.
type MalformedError struct {
	Reason string
	Err    error
}

// Malformed returns a *MalformedError with a formatted reason.
func Malformed(format string, args ...interface{}) error {
	return &MalformedError{Reason: fmt.Sprintf(format, args...)}
}

func (e *MalformedError) Error() string {
	return "wasm: malformed: " + e.Reason
}

func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformed
}

func (e *MalformedError) Unwrap() error {
	return e.Err
}

// UnsupportedFeatureError is returned for sections that are part of the
// format but are not decoded. Skipping them would silently change index
// spaces, so they are rejected.
type UnsupportedFeatureError SectionID

func (e UnsupportedFeatureError) Error() string {
	return fmt.Sprintf("wasm: unsupported section %s (id %d)", SectionID(e), uint8(e))
}

func (e UnsupportedFeatureError) Is(target error) bool {
	return target == ErrUnsupportedFeature
}

// UnsupportedVersionError is returned when the header carries a version other than 1.
type UnsupportedVersionError uint32

func (e UnsupportedVersionError) Error() string {
	return fmt.Sprintf("wasm: unsupported binary version %d", uint32(e))
}

func (e UnsupportedVersionError) Is(target error) bool {
	return target == ErrMalformed
}

// ReadError maps a low-level read failure onto the package's error kinds.
// A clean io.EOF becomes ErrUnexpectedEOF because every caller demanded the
// bytes it was reading; LEB128 range errors become malformed errors.
func ReadError(err error) error {
	switch {
	case err == nil:
		return nil
	case err == io.EOF:
		return ErrUnexpectedEOF
	case errors.Is(err, leb128.ErrOverlong), errors.Is(err, leb128.ErrOverflow):
		return &MalformedError{Reason: err.Error(), Err: err}
	default:
		return err
	}
}
