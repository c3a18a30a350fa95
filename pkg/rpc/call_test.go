package rpc

import (
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olympusrpc/olympus/pkg/fnv"
	"github.com/olympusrpc/olympus/pkg/frame"
	"github.com/olympusrpc/olympus/pkg/wire"
)

// rawCall dials addr, writes one request frame carrying name's
// fingerprint plus body, and returns the full payload of the first
// response frame (fingerprint included), so tests can assert the wire
// bytes exactly.
func rawCall(t *testing.T, addr, name string, body []byte) []byte {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetDeadline(time.Now().Add(2*time.Second)))

	req := make([]byte, fingerprintSize+len(body))
	binary.BigEndian.PutUint64(req[:fingerprintSize], uint64(fnv.Sum64(name)))
	copy(req[fingerprintSize:], body)

	enc := frame.NewEncoder(conn, frame.Uncompressed, 0)
	require.NoError(t, enc.WriteFrame(req))

	dec := frame.NewDecoder(frame.Uncompressed)
	readBuf := make([]byte, 4096)
	for {
		if payload, ok, err := dec.Next(); err != nil {
			t.Fatalf("decoding response frame: %v", err)
		} else if ok {
			return payload
		}
		n, err := conn.Read(readBuf)
		require.NoError(t, err)
		dec.Feed(readBuf[:n])
	}
}

// A "getFile" handler returning File{path: "/p", size: 2, content:
// [0xAB, 0xCD]} must produce a response frame of exactly the echoed
// fingerprint followed by the struct's field encodings in declaration
// order.
func TestGetFileCallRoundTripBitExact(t *testing.T) {
	registry := NewHandlerRegistry()
	registry.Register("getFile", func(ctx Context, body []byte) ([]byte, error) {
		e := wire.NewEncoder(0)
		e.PutString("/p")
		e.PutVarUint(2)
		e.PutArrayHeader(2)
		e.PutUint8(0xAB)
		e.PutUint8(0xCD)
		return e.Bytes(), nil
	})

	addr, stop := testServer(t, registry)
	defer stop()

	// Request params: path plus an absent option, encoded like a struct.
	pe := wire.NewEncoder(0)
	pe.PutString("/some/file")
	pe.PutOptionNone()

	payload := rawCall(t, addr, "getFile", pe.Bytes())

	want := make([]byte, 0, 8+6+1+6)
	want = binary.BigEndian.AppendUint64(want, uint64(fnv.Sum64("getFile")))
	want = append(want, 0x00, 0x00, 0x00, 0x02, 0x2F, 0x70) // path "/p"
	want = append(want, 0x02)                               // varuint size 2
	want = append(want, 0x00, 0x00, 0x00, 0x02, 0xAB, 0xCD) // content array
	assert.Equal(t, want, payload)

	// A decoding peer must reconstruct the struct bit-identically.
	d := wire.NewDecoder(payload[fingerprintSize:])
	path, err := d.GetString()
	require.NoError(t, err)
	assert.Equal(t, "/p", path)
	size, err := d.GetVarUint()
	require.NoError(t, err)
	assert.EqualValues(t, 2, size)
	n, err := d.GetArrayHeader()
	require.NoError(t, err)
	require.Equal(t, 2, n)
	b0, err := d.GetUint8()
	require.NoError(t, err)
	b1, err := d.GetUint8()
	require.NoError(t, err)
	assert.Equal(t, []uint8{0xAB, 0xCD}, []uint8{b0, b1})
	assert.Equal(t, 0, d.Remaining())
}

// A no-parameter procedure's request payload is exactly the 8-byte
// fingerprint; its response payload is the fingerprint plus the encoded
// return value.
func TestNoParameterCallPayloadSizes(t *testing.T) {
	registry := NewHandlerRegistry()
	registry.Register("getServerVersion", func(ctx Context, body []byte) ([]byte, error) {
		assert.Empty(t, body, "a no-parameter request carries no bytes past the fingerprint")
		e := wire.NewEncoder(0)
		e.PutInt8(69)
		return e.Bytes(), nil
	})

	addr, stop := testServer(t, registry)
	defer stop()

	payload := rawCall(t, addr, "getServerVersion", nil)
	require.Len(t, payload, 9)
	assert.Equal(t, uint64(fnv.Sum64("getServerVersion")), binary.BigEndian.Uint64(payload[:8]))
	assert.Equal(t, byte(0x45), payload[8])
}
