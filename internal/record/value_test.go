package record

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerce_Int16(t *testing.T) {
	v, err := Coerce(TypeInt16, "32767")
	require.NoError(t, err)
	assert.Equal(t, int64(32767), v.Int)
	assert.Equal(t, TypeInt16, v.Type)

	_, err = Coerce(TypeInt16, "32768")
	require.Error(t, err)

	_, err = Coerce(TypeInt16, "-32769")
	require.Error(t, err)

	_, err = Coerce(TypeInt16, "abc")
	require.Error(t, err)
}

func TestCoerce_Int32(t *testing.T) {
	v, err := Coerce(TypeInt32, "-2147483648")
	require.NoError(t, err)
	assert.Equal(t, int64(-2147483648), v.Int)

	_, err = Coerce(TypeInt32, "2147483648")
	require.Error(t, err)
}

func TestCoerce_Int64(t *testing.T) {
	v, err := Coerce(TypeInt64, "9223372036854775807")
	require.NoError(t, err)
	assert.Equal(t, int64(9223372036854775807), v.Int)

	_, err = Coerce(TypeInt64, "9223372036854775808")
	require.Error(t, err)
}

func TestCoerce_Char(t *testing.T) {
	v, err := Coerce(TypeChar, "x")
	require.NoError(t, err)
	assert.Equal(t, 'x', v.Char)

	_, err = Coerce(TypeChar, "xy")
	require.Error(t, err)

	_, err = Coerce(TypeChar, "")
	require.Error(t, err)
}

func TestCoerce_CharRejectsNonASCII(t *testing.T) {
	// The on-disk encoding stores CHAR in one byte; anything wider would
	// come back as a different character after a save/load cycle.
	for _, raw := range []string{"日", "é", "λ", ""} {
		_, err := Coerce(TypeChar, raw)
		require.Error(t, err, "raw=%q", raw)
		assert.Contains(t, err.Error(), "ASCII")
	}

	v, err := Coerce(TypeChar, "")
	require.NoError(t, err)
	assert.Equal(t, rune(0x7f), v.Char)
}

func TestCoerce_Bool(t *testing.T) {
	v, err := Coerce(TypeBool, "0")
	require.NoError(t, err)
	assert.False(t, v.Bool)

	v, err = Coerce(TypeBool, "1")
	require.NoError(t, err)
	assert.True(t, v.Bool)

	// Only the numeric pair is accepted.
	for _, raw := range []string{"2", "yes", "true", "false", "TRUE", "FALSE"} {
		_, err := Coerce(TypeBool, raw)
		require.Error(t, err, "raw=%q", raw)
	}
}

func TestCoerce_Uuid(t *testing.T) {
	v, err := Coerce(TypeUuid, "b3d4e0a8-1f7b-4f9e-8f64-1f0c2ddbb001")
	require.NoError(t, err)
	assert.Equal(t, "b3d4e0a8-1f7b-4f9e-8f64-1f0c2ddbb001", v.Str)

	// empty means auto-generate later
	v, err = Coerce(TypeUuid, "")
	require.NoError(t, err)
	assert.Empty(t, v.Str)

	_, err = Coerce(TypeUuid, "not-a-uuid")
	require.Error(t, err)
}

func TestCoerce_StrAndPassword(t *testing.T) {
	v, err := Coerce(TypeStr, "hello world")
	require.NoError(t, err)
	assert.Equal(t, "hello world", v.Str)

	v, err = Coerce(TypePassword, "s3cret")
	require.NoError(t, err)
	assert.Equal(t, TypePassword, v.Type)
	assert.Equal(t, "s3cret", v.Str)
}

func TestNewUuid(t *testing.T) {
	a := NewUuid()
	b := NewUuid()
	require.NotEqual(t, a, b)

	_, err := uuid.Parse(a.Str)
	require.NoError(t, err)
}

func TestValue_String(t *testing.T) {
	assert.Equal(t, "42", IntValue(TypeInt32, 42).String())
	assert.Equal(t, "x", CharValue('x').String())
	assert.Equal(t, "1", BoolValue(true).String())
	assert.Equal(t, "0", BoolValue(false).String())
	assert.Equal(t, "abc", StrValue(TypeStr, "abc").String())
}

func TestValue_UsableAsMapKey(t *testing.T) {
	// Constraint counters rely on Value being comparable.
	m := map[Value]int{}
	m[StrValue(TypeStr, "a")]++
	m[StrValue(TypeStr, "a")]++
	m[IntValue(TypeInt16, 1)]++
	assert.Equal(t, 2, m[StrValue(TypeStr, "a")])
	assert.Equal(t, 1, m[IntValue(TypeInt16, 1)])
}

func TestTypeTags_RoundTrip(t *testing.T) {
	for _, typ := range []Type{
		TypeUuid, TypeStr, TypePassword, TypeInt16, TypeInt32, TypeInt64, TypeChar, TypeBool,
	} {
		got, err := TypeFromTag(uint8(typ))
		require.NoError(t, err)
		assert.Equal(t, typ, got)
	}
	_, err := TypeFromTag(8)
	require.Error(t, err)
}

func TestConstraintMax(t *testing.T) {
	assert.Equal(t, 0, ConstraintNone.Max())
	assert.Equal(t, 2, ConstraintUnic.Max())
	assert.Equal(t, 10, ConstraintMain.Max())
	assert.Equal(t, 1, ConstraintUnicMain.Max())

	_, err := ConstraintFromTag(4)
	require.Error(t, err)
}
