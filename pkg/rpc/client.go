package rpc

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"runtime/debug"
	"sync"

	"go.opentelemetry.io/otel/trace"

	"github.com/olympusrpc/olympus/internal/logger"
	"github.com/olympusrpc/olympus/internal/telemetry"
	"github.com/olympusrpc/olympus/pkg/fnv"
	"github.com/olympusrpc/olympus/pkg/frame"
)

// outgoing is one queued request: the procedure's IDL-source name (used
// to compute the fingerprint) and its already-serialized body.
type outgoing struct {
	name string
	body []byte
}

// ResponseHandler is invoked with the body of a response frame whose
// fingerprint matches a registered procedure name, plus the Client it
// arrived on (so the handler can issue further calls).
type ResponseHandler func(c *Client, body []byte) error

// Client maintains one outgoing TCP connection, a send queue of 256
// entries drained by one goroutine, and a receive loop that dispatches
// response frames to registered ResponseHandlers by fingerprint. The
// queue is bounded: Send blocks while it is full.
type Client struct {
	conn net.Conn
	cfg  ServerConfig

	sendCh chan outgoing

	mu        sync.RWMutex
	responses map[fnv.Fingerprint]responseEntry

	closeOnce sync.Once
	closed    chan struct{}
}

type responseEntry struct {
	name    string
	handler ResponseHandler
}

// Dial connects to addr and starts the client's send and receive loops.
func Dial(addr string, cfg ServerConfig) (*Client, error) {
	var conn net.Conn
	var err error
	if cfg.DialTimeout > 0 {
		conn, err = net.DialTimeout("tcp", addr, cfg.DialTimeout)
	} else {
		conn, err = net.Dial("tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("rpc: dial %s: %w", addr, err)
	}

	c := &Client{
		conn:      conn,
		cfg:       cfg,
		sendCh:    make(chan outgoing, 256),
		responses: make(map[fnv.Fingerprint]responseEntry),
		closed:    make(chan struct{}),
	}

	go c.sendLoop()
	go c.receiveLoop()

	return c, nil
}

// RegisterResponseHandler binds name's fingerprint to handler. name must
// be the IDL-source procedure name verbatim, matching the server's
// registration contract.
func (c *Client) RegisterResponseHandler(name string, handler ResponseHandler) {
	fp := fnv.Sum64(name)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responses[fp] = responseEntry{name: name, handler: handler}
}

// ErrClientClosed is returned by Send once the client has been closed
// and its queue no longer drains.
var ErrClientClosed = errors.New("rpc: client closed")

// Send serializes no input itself; callers pass an already-encoded body
// (produced by the generated {ProcName}Params encoder, or an empty slice
// for a no-parameter procedure) and the call is enqueued for the send
// loop to frame and write. Returns ErrClientClosed if the client has
// been closed.
func (c *Client) Send(name string, body []byte) error {
	select {
	case <-c.closed:
		return ErrClientClosed
	default:
	}
	select {
	case c.sendCh <- outgoing{name: name, body: body}:
		return nil
	case <-c.closed:
		return ErrClientClosed
	}
}

// Close stops the send loop and closes the underlying connection. The
// receive loop exits on its own once the read fails.
func (c *Client) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return c.conn.Close()
}

func (c *Client) sendLoop() {
	enc := frame.NewEncoder(c.conn, c.cfg.Mode, c.cfg.MinSizeToCompress)
	for {
		select {
		case item := <-c.sendCh:
			fp := fnv.Sum64(item.name)
			frameBody := make([]byte, fingerprintSize+len(item.body))
			binary.BigEndian.PutUint64(frameBody[:fingerprintSize], uint64(fp))
			copy(frameBody[fingerprintSize:], item.body)

			_, span := telemetry.StartSpan(context.Background(), telemetry.SpanClientSend,
				trace.WithAttributes(telemetry.Procedure(item.name), telemetry.Fingerprint(uint64(fp)), telemetry.FrameBytes(len(frameBody))))

			if err := enc.WriteFrame(frameBody); err != nil {
				logger.Debug("rpc: client send failed", "procedure", item.name, "error", err)
				span.End()
				return
			}
			span.End()
		case <-c.closed:
			return
		}
	}
}

func (c *Client) receiveLoop() {
	dec := frame.NewDecoder(c.cfg.Mode)
	readBuf := make([]byte, 32*1024)

	for {
		payload, err := nextFrame(c.conn, dec, readBuf)
		if err != nil {
			logger.Debug("rpc: client receive loop exiting", "error", err)
			return
		}
		if len(payload) < fingerprintSize {
			logger.Debug("rpc: dropping undersized response frame", "length", len(payload))
			continue
		}

		fp := fnv.Fingerprint(binary.BigEndian.Uint64(payload[:fingerprintSize]))
		body := payload[fingerprintSize:]

		c.mu.RLock()
		entry, ok := c.responses[fp]
		c.mu.RUnlock()
		if !ok {
			logger.Warn("rpc: registration miss", "fingerprint", fp, "error", (&RegistrationMiss{Fingerprint: fp}).Error())
			continue
		}

		c.invoke(fp, entry, body)
	}
}

func (c *Client) invoke(fp fnv.Fingerprint, entry responseEntry, body []byte) {
	ctx, span := telemetry.StartSpan(context.Background(), telemetry.SpanClientReceive,
		trace.WithAttributes(telemetry.Procedure(entry.name), telemetry.Fingerprint(uint64(fp)), telemetry.PayloadBytes(len(body))))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("rpc: panic in response handler", "procedure", entry.name, "error", r, "stack", string(debug.Stack()))
		}
	}()

	if err := entry.handler(c, body); err != nil {
		telemetry.RecordError(ctx, err)
		logger.Debug("rpc: response handler failed", "procedure", entry.name, "error", err)
	}
}
