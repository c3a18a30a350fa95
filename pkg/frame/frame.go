// Package frame implements Olympus's length-prefixed, optionally
// LZ4-block-compressed frame codec: the layer that turns one byte stream
// into a sequence of discrete request/response payloads for the dispatch
// runtime in pkg/rpc. Compression uses github.com/pierrec/lz4/v4's block
// API, matching the "whole payload at once, no streaming state" contract
// of the compressor interface this codec was built around.
package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

// MaxPacketSize bounds the payload length a frame may declare, at either
// encode or decode time. Exceeding it is always a fatal, unrecoverable
// framing error.
const MaxPacketSize = 8 * 1024 * 1024

// DefaultMinSizeToCompress is the payload length, in bytes, at or above
// which a compressed-mode Encoder actually applies LZ4 compression
// rather than passing the payload through with flag=0.
const DefaultMinSizeToCompress = 8192

// ErrOversizePacket is returned when a frame's declared or actual payload
// length exceeds MaxPacketSize.
var ErrOversizePacket = errors.New("frame: packet exceeds maximum size")

// ErrInvalidData is returned when a compressed frame's payload fails to
// decompress (corrupt block, mismatched mode between peers).
var ErrInvalidData = errors.New("frame: invalid data")

// Mode selects a codec's wire layout. It is fixed at construction and
// must match between both peers of a connection.
type Mode int

const (
	Uncompressed Mode = iota
	Compressed
)

// Encoder serializes frames onto an io.Writer. In Compressed mode it
// compresses a payload only when it is at least MinSizeToCompress bytes,
// matching the "compression iff payload length is at least a
// configurable threshold" encoder rule.
type Encoder struct {
	w                 io.Writer
	mode              Mode
	minSizeToCompress int
}

// NewEncoder returns an Encoder writing to w in the given mode. A zero
// minSizeToCompress is replaced with DefaultMinSizeToCompress; it has no
// effect in Uncompressed mode.
func NewEncoder(w io.Writer, mode Mode, minSizeToCompress int) *Encoder {
	if minSizeToCompress <= 0 {
		minSizeToCompress = DefaultMinSizeToCompress
	}
	return &Encoder{w: w, mode: mode, minSizeToCompress: minSizeToCompress}
}

// WriteFrame encodes payload as one frame and writes it to the
// underlying writer.
func (e *Encoder) WriteFrame(payload []byte) error {
	if len(payload) > MaxPacketSize {
		return ErrOversizePacket
	}

	if e.mode == Uncompressed {
		var header [4]byte
		binary.BigEndian.PutUint32(header[:], uint32(len(payload)))
		if _, err := e.w.Write(header[:]); err != nil {
			return fmt.Errorf("frame: write header: %w", err)
		}
		if _, err := e.w.Write(payload); err != nil {
			return fmt.Errorf("frame: write payload: %w", err)
		}
		return nil
	}

	if len(payload) < e.minSizeToCompress {
		return e.writeUncompressible(payload)
	}

	compressed := make([]byte, lz4.CompressBlockBound(len(payload)))
	var c lz4.Compressor
	n, err := c.CompressBlock(payload, compressed)
	if err != nil {
		return fmt.Errorf("frame: compress: %w", err)
	}
	if n == 0 {
		// With dst sized to CompressBlockBound, CompressBlock always
		// writes a block; a zero count is sent through with flag=0.
		return e.writeUncompressible(payload)
	}
	compressed = compressed[:n]
	if len(compressed) > MaxPacketSize {
		return ErrOversizePacket
	}

	header := make([]byte, 0, 9)
	header = append(header, 1)
	header = binary.BigEndian.AppendUint32(header, uint32(len(compressed)))
	header = binary.BigEndian.AppendUint32(header, uint32(len(payload)))
	if _, err := e.w.Write(header); err != nil {
		return fmt.Errorf("frame: write header: %w", err)
	}
	if _, err := e.w.Write(compressed); err != nil {
		return fmt.Errorf("frame: write payload: %w", err)
	}
	return nil
}

// writeUncompressible writes payload in compressed-mode layout with
// flag=0: a single length field, no decompressed-length.
func (e *Encoder) writeUncompressible(payload []byte) error {
	header := make([]byte, 0, 5)
	header = append(header, 0)
	header = binary.BigEndian.AppendUint32(header, uint32(len(payload)))
	if _, err := e.w.Write(header); err != nil {
		return fmt.Errorf("frame: write header: %w", err)
	}
	if _, err := e.w.Write(payload); err != nil {
		return fmt.Errorf("frame: write payload: %w", err)
	}
	return nil
}

type decoderState int

const (
	stateHeader decoderState = iota
	stateBody
)

// pendingHeader records what the decoder parsed out of a frame header
// while it waits for the body bytes to arrive.
type pendingHeader struct {
	compressed       bool
	payloadLength    uint32
	decompressedSize uint32
}

// Decoder incrementally reassembles frames out of a growing buffer fed
// by Feed, so it can sit directly on top of a streaming net.Conn read
// loop without the caller needing to know frame boundaries in advance.
type Decoder struct {
	mode  Mode
	buf   []byte
	state decoderState
	hdr   pendingHeader
}

// NewDecoder returns a Decoder for the given mode.
func NewDecoder(mode Mode) *Decoder {
	return &Decoder{mode: mode}
}

// Feed appends newly-read bytes to the decoder's internal buffer.
func (d *Decoder) Feed(b []byte) {
	d.buf = append(d.buf, b...)
}

// Next attempts to extract one complete frame from the buffered bytes.
// It returns (nil, false, nil) when more data is required; the caller
// should Feed more bytes and call Next again.
func (d *Decoder) Next() (frame []byte, ok bool, err error) {
	for {
		switch d.state {
		case stateHeader:
			hdr, consumed, ready, err := d.parseHeader()
			if err != nil {
				return nil, false, err
			}
			if !ready {
				return nil, false, nil
			}
			d.buf = d.buf[consumed:]
			d.hdr = hdr
			d.state = stateBody

		case stateBody:
			need := int(d.hdr.payloadLength)
			if len(d.buf) < need {
				return nil, false, nil
			}
			body := make([]byte, need)
			copy(body, d.buf[:need])
			d.buf = d.buf[need:]
			d.state = stateHeader

			if !d.hdr.compressed {
				return body, true, nil
			}

			out := make([]byte, d.hdr.decompressedSize)
			n, decErr := lz4.UncompressBlock(body, out)
			if decErr != nil || uint32(n) != d.hdr.decompressedSize {
				return nil, false, ErrInvalidData
			}
			return out, true, nil
		}
	}
}

// parseHeader tries to parse the next frame header out of the buffer.
// ready is false when more bytes are needed; consumed is only meaningful
// when ready is true.
func (d *Decoder) parseHeader() (hdr pendingHeader, consumed int, ready bool, err error) {
	if d.mode == Uncompressed {
		if len(d.buf) < 4 {
			return pendingHeader{}, 0, false, nil
		}
		length := binary.BigEndian.Uint32(d.buf[:4])
		if length > MaxPacketSize {
			return pendingHeader{}, 0, false, ErrOversizePacket
		}
		return pendingHeader{compressed: false, payloadLength: length}, 4, true, nil
	}

	if len(d.buf) < 5 {
		return pendingHeader{}, 0, false, nil
	}
	flag := d.buf[0]
	payloadLength := binary.BigEndian.Uint32(d.buf[1:5])

	if flag == 0 {
		if payloadLength > MaxPacketSize {
			return pendingHeader{}, 0, false, ErrOversizePacket
		}
		return pendingHeader{compressed: false, payloadLength: payloadLength}, 5, true, nil
	}

	if len(d.buf) < 9 {
		return pendingHeader{}, 0, false, nil
	}
	decompressedSize := binary.BigEndian.Uint32(d.buf[5:9])
	if payloadLength > MaxPacketSize || decompressedSize > MaxPacketSize {
		return pendingHeader{}, 0, false, ErrOversizePacket
	}
	return pendingHeader{compressed: true, payloadLength: payloadLength, decompressedSize: decompressedSize}, 9, true, nil
}
