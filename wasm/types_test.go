package wasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueTypeOf(t *testing.T) {
	for _, b := range []byte{0x7f, 0x7e, 0x7d, 0x7c, 0x7b, 0x70, 0x6f} {
		vt, err := ValueTypeOf(b)
		require.NoError(t, err)
		assert.Equal(t, ValueType(b), vt)
	}

	_, err := ValueTypeOf(0x40)
	assert.ErrorIs(t, err, ErrMalformed)
	assert.Contains(t, err.Error(), "unknown value type 0x40")
}

func TestValueTypeClasses(t *testing.T) {
	assert.True(t, ValueTypeF64.IsNumber())
	assert.False(t, ValueTypeV128.IsNumber())
	assert.True(t, ValueTypeV128.IsVector())
	assert.True(t, ValueTypeExternRef.IsRef())
	assert.False(t, ValueTypeI32.IsRef())
	assert.Equal(t, "<unknown value_type 0x01>", ValueType(1).String())
}

func TestFuncTypeString(t *testing.T) {
	f := FuncType{Params: ResultType{ValueTypeI32, ValueTypeF32}}
	assert.Equal(t, "[i32 f32] -> []", f.String())
}

func TestBlockType(t *testing.T) {
	types := []FuncType{{Params: ResultType{ValueTypeI64}, Results: ResultType{ValueTypeI64}}}

	sig, ok := EmptyBlock().Signature(types)
	assert.True(t, ok)
	assert.Equal(t, FuncType{}, sig)

	sig, ok = ValueBlock(ValueTypeF32).Signature(types)
	assert.True(t, ok)
	assert.Equal(t, ResultType{ValueTypeF32}, sig.Results)

	sig, ok = IndexBlock(0).Signature(types)
	assert.True(t, ok)
	assert.Equal(t, types[0], sig)

	_, ok = IndexBlock(1).Signature(types)
	assert.False(t, ok)

	assert.Equal(t, "", EmptyBlock().String())
	assert.Equal(t, "(result f32)", ValueBlock(ValueTypeF32).String())
	assert.Equal(t, "(type 7)", IndexBlock(7).String())
}
