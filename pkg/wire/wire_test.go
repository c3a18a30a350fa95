package wire

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedIntRoundTrip(t *testing.T) {
	e := NewEncoder(0)
	e.PutUint8(0xAB)
	e.PutInt8(-1)
	e.PutUint16(0x1234)
	e.PutInt16(-2)
	e.PutUint32(0xDEADBEEF)
	e.PutInt32(-3)
	e.PutUint64(0x1122334455667788)
	e.PutInt64(-4)

	d := NewDecoder(e.Bytes())
	u8, err := d.GetUint8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0xAB), u8)

	i8, err := d.GetInt8()
	require.NoError(t, err)
	assert.Equal(t, int8(-1), i8)

	u16, err := d.GetUint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), u16)

	i16, err := d.GetInt16()
	require.NoError(t, err)
	assert.Equal(t, int16(-2), i16)

	u32, err := d.GetUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), u32)

	i32, err := d.GetInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(-3), i32)

	u64, err := d.GetUint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x1122334455667788), u64)

	i64, err := d.GetInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(-4), i64)

	assert.Equal(t, 0, d.Remaining())
}

func TestBoolEncoding(t *testing.T) {
	e := NewEncoder(0)
	e.PutBool(true)
	e.PutBool(false)
	assert.Equal(t, []byte{1, 0}, e.Bytes())

	d := NewDecoder(e.Bytes())
	v, err := d.GetBool()
	require.NoError(t, err)
	assert.True(t, v)
	v, err = d.GetBool()
	require.NoError(t, err)
	assert.False(t, v)
}

func TestStringRoundTrip(t *testing.T) {
	e := NewEncoder(0)
	e.PutString("hello, world")
	d := NewDecoder(e.Bytes())
	s, err := d.GetString()
	require.NoError(t, err)
	assert.Equal(t, "hello, world", s)
}

func TestStringInvalidUTF8(t *testing.T) {
	buf := []byte{0, 0, 0, 2, 0xff, 0xfe}
	d := NewDecoder(buf)
	_, err := d.GetString()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid UTF-8")
}

func TestStringLengthOverflow(t *testing.T) {
	e := NewEncoder(0)
	e.PutUint32(MaxLength + 1)
	d := NewDecoder(e.Bytes())
	_, err := d.GetString()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum")
}

func TestArrayRoundTrip(t *testing.T) {
	e := NewEncoder(0)
	e.PutArrayHeader(3)
	for _, v := range []uint8{1, 2, 3} {
		e.PutUint8(v)
	}

	d := NewDecoder(e.Bytes())
	n, err := d.GetArrayHeader()
	require.NoError(t, err)
	require.Equal(t, 3, n)

	got := make([]uint8, n)
	for i := 0; i < n; i++ {
		got[i], err = d.GetUint8()
		require.NoError(t, err)
	}
	assert.Equal(t, []uint8{1, 2, 3}, got)
}

func TestOptionRoundTrip(t *testing.T) {
	e := NewEncoder(0)
	e.PutOptionSome()
	e.PutUint8(42)
	e.PutOptionNone()

	d := NewDecoder(e.Bytes())
	present, err := d.GetOptionPresent()
	require.NoError(t, err)
	require.True(t, present)
	v, err := d.GetUint8()
	require.NoError(t, err)
	assert.Equal(t, uint8(42), v)

	present, err = d.GetOptionPresent()
	require.NoError(t, err)
	assert.False(t, present)
}

func TestNothingRoundTrip(t *testing.T) {
	e := NewEncoder(0)
	e.PutNothing()
	assert.Empty(t, e.Bytes())

	d := NewDecoder(nil)
	assert.NoError(t, d.GetNothing())
}

func TestEnumTagRoundTrip(t *testing.T) {
	e := NewEncoder(0)
	e.PutEnumTag(3)
	d := NewDecoder(e.Bytes())
	tag, err := d.GetEnumTag(map[uint16]bool{1: true, 2: true, 3: true})
	require.NoError(t, err)
	assert.EqualValues(t, 3, tag)
}

func TestEnumTagInvalid(t *testing.T) {
	e := NewEncoder(0)
	e.PutEnumTag(99)
	d := NewDecoder(e.Bytes())
	_, err := d.GetEnumTag(map[uint16]bool{1: true, 2: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid enum tag")
}

func TestVarUintMaxRoundTrip(t *testing.T) {
	e := NewEncoder(0)
	e.PutVarUint(math.MaxUint64)
	buf := e.Bytes()
	require.Len(t, buf, 10)
	for i := 0; i < 9; i++ {
		assert.NotZero(t, buf[i]&0x80, "byte %d should have continuation bit set", i)
	}
	assert.Zero(t, buf[9]&0x80)

	d := NewDecoder(buf)
	v, err := d.GetVarUint()
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), v)
}

func TestVarIntMinRoundTrip(t *testing.T) {
	e := NewEncoder(0)
	PutVarInt(e, math.MinInt64, 64)
	d := NewDecoder(e.Bytes())
	v, err := GetVarInt(d, 64)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MinInt64), v)
}

func TestVarIntRoundTripSmallWidths(t *testing.T) {
	for _, bits := range []int{8, 16, 32, 64} {
		var samples []int64
		switch bits {
		case 8:
			samples = []int64{0, -1, 1, math.MinInt8, math.MaxInt8}
		case 16:
			samples = []int64{0, -1, 1, math.MinInt16, math.MaxInt16}
		case 32:
			samples = []int64{0, -1, 1, math.MinInt32, math.MaxInt32}
		default:
			samples = []int64{0, -1, 1, math.MinInt64, math.MaxInt64}
		}
		for _, v := range samples {
			e := NewEncoder(0)
			PutVarInt(e, v, bits)
			d := NewDecoder(e.Bytes())
			got, err := GetVarInt(d, bits)
			require.NoError(t, err)
			assert.Equal(t, v, got, "bits=%d v=%d", bits, v)
		}
	}
}

func TestTruncatedInput(t *testing.T) {
	d := NewDecoder([]byte{0x01})
	_, err := d.GetUint32()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "truncated input")
}

func TestArrayEncodeDecodePreservesBytes(t *testing.T) {
	// decode(bytes) then re-encode preserves the byte sequence for any
	// input that decodes successfully.
	orig := []byte{0, 0, 0, 2, 0x05, 0x06}
	d := NewDecoder(orig)
	n, err := d.GetArrayHeader()
	require.NoError(t, err)
	vals := make([]uint8, n)
	for i := range vals {
		vals[i], err = d.GetUint8()
		require.NoError(t, err)
	}

	e := NewEncoder(0)
	e.PutArrayHeader(len(vals))
	for _, v := range vals {
		e.PutUint8(v)
	}
	assert.Equal(t, orig, e.Bytes())
}
