package frame

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// An uncompressed "hello" frame is exactly 00 00 00 05 68 65 6C 6C 6F.
func TestUncompressedEncodingBitExact(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, Uncompressed, 0)
	require.NoError(t, enc.WriteFrame([]byte("hello")))
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x05, 0x68, 0x65, 0x6C, 0x6C, 0x6F}, buf.Bytes())
}

// Feeding the frame one byte at a time yields the frame only after the
// ninth byte, and nothing before.
func TestUncompressedDecodeByteAtATime(t *testing.T) {
	payload := []byte{0x00, 0x00, 0x00, 0x05, 0x68, 0x65, 0x6C, 0x6C, 0x6F}
	dec := NewDecoder(Uncompressed)

	for i := 0; i < len(payload)-1; i++ {
		dec.Feed(payload[i : i+1])
		frame, ok, err := dec.Next()
		require.NoError(t, err)
		require.False(t, ok, "should not have a complete frame before byte %d", i+1)
		require.Nil(t, frame)
	}

	dec.Feed(payload[len(payload)-1:])
	frame, ok, err := dec.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("hello"), frame)
}

// Below the compression threshold, compressed mode still writes flag=0
// with a single length.
func TestCompressedBelowThreshold(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, Compressed, DefaultMinSizeToCompress)
	require.NoError(t, enc.WriteFrame([]byte("hello")))
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x00, 0x05, 0x68, 0x65, 0x6C, 0x6C, 0x6F}, buf.Bytes())
}

func TestCompressedAboveThresholdRoundTrips(t *testing.T) {
	payload := bytes.Repeat([]byte("abcdefgh"), 2048) // 16KiB, highly compressible
	var buf bytes.Buffer
	enc := NewEncoder(&buf, Compressed, DefaultMinSizeToCompress)
	require.NoError(t, enc.WriteFrame(payload))

	// Flag byte must be 1 (compressed).
	require.Equal(t, byte(1), buf.Bytes()[0])
	require.Less(t, buf.Len(), len(payload), "compressed output should be smaller than input")

	dec := NewDecoder(Compressed)
	dec.Feed(buf.Bytes())
	got, ok, err := dec.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, payload, got)
}

func TestCompressedIncompressiblePayloadAboveThresholdUsesFlagOne(t *testing.T) {
	// Pseudo-random bytes LZ4 cannot shrink; at or above the threshold the
	// encoder still writes flag=1, and the block decodes back to the payload.
	payload := make([]byte, 16*1024)
	state := uint32(0x12345678)
	for i := range payload {
		state = state*1664525 + 1013904223
		payload[i] = byte(state >> 24)
	}

	var buf bytes.Buffer
	enc := NewEncoder(&buf, Compressed, DefaultMinSizeToCompress)
	require.NoError(t, enc.WriteFrame(payload))
	require.Equal(t, byte(1), buf.Bytes()[0])

	dec := NewDecoder(Compressed)
	dec.Feed(buf.Bytes())
	got, ok, err := dec.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, payload, got)
}

func TestMultipleFramesInOrder(t *testing.T) {
	frames := [][]byte{[]byte("one"), []byte("two"), []byte("three")}
	var buf bytes.Buffer
	enc := NewEncoder(&buf, Uncompressed, 0)
	for _, f := range frames {
		require.NoError(t, enc.WriteFrame(f))
	}

	dec := NewDecoder(Uncompressed)
	dec.Feed(buf.Bytes())

	var got [][]byte
	for {
		f, ok, err := dec.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, f)
	}
	assert.Equal(t, frames, got)
}

func TestOversizeFrameFailsAtEncode(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, Uncompressed, 0)
	err := enc.WriteFrame(make([]byte, MaxPacketSize+1))
	require.ErrorIs(t, err, ErrOversizePacket)
}

func TestOversizeFrameFailsAtDecode(t *testing.T) {
	dec := NewDecoder(Uncompressed)
	var hdr [4]byte
	// Declare a length one byte over MaxPacketSize.
	oversized := uint32(MaxPacketSize + 1)
	hdr[0] = byte(oversized >> 24)
	hdr[1] = byte(oversized >> 16)
	hdr[2] = byte(oversized >> 8)
	hdr[3] = byte(oversized)
	dec.Feed(hdr[:])
	_, _, err := dec.Next()
	require.ErrorIs(t, err, ErrOversizePacket)
}

func TestCorruptedCompressedPayloadIsInvalidData(t *testing.T) {
	dec := NewDecoder(Compressed)
	var hdr [9]byte
	hdr[0] = 1
	// payload length 4, decompressed length absurdly large relative to it.
	hdr[1], hdr[2], hdr[3], hdr[4] = 0, 0, 0, 4
	hdr[5], hdr[6], hdr[7], hdr[8] = 0, 0, 0, 100
	dec.Feed(hdr[:])
	dec.Feed([]byte{0xff, 0xff, 0xff, 0xff})
	_, _, err := dec.Next()
	require.ErrorIs(t, err, ErrInvalidData)
}
