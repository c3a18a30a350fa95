package rpc

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"runtime/debug"
	"sync"
	"time"

	"go.opentelemetry.io/otel/codes"

	"github.com/olympusrpc/olympus/internal/logger"
	"github.com/olympusrpc/olympus/internal/telemetry"
	"github.com/olympusrpc/olympus/pkg/fnv"
	"github.com/olympusrpc/olympus/pkg/frame"
)

const fingerprintSize = 8

// ServerConfig configures the frame codec a Server uses on every
// accepted connection, and the options a Client dialing that server
// applies. Mode and MinSizeToCompress must match between peers.
type ServerConfig struct {
	Mode              frame.Mode
	MinSizeToCompress int

	// DialTimeout bounds Client.Dial; zero means net.Dial's default
	// (no timeout).
	DialTimeout time.Duration
}

// Server accepts TCP connections, reads request frames, dispatches them
// by fingerprint to a HandlerRegistry, and writes back whatever response
// bytes (if any) the handler produces.
type Server struct {
	registry *HandlerRegistry
	cfg      ServerConfig
	newCtx   func() Context
	metrics  Metrics

	mu       sync.Mutex
	sessions map[uint64]struct{}
}

// SetMetrics installs m as the Server's metrics sink. Passing nil (the
// default) disables collection with zero overhead.
func (s *Server) SetMetrics(m Metrics) {
	s.metrics = m
}

// NewServer returns a Server dispatching through registry. newCtx
// produces the prototype Context cloned for every dispatched call.
func NewServer(registry *HandlerRegistry, cfg ServerConfig, newCtx func() Context) *Server {
	return &Server{
		registry: registry,
		cfg:      cfg,
		newCtx:   newCtx,
		sessions: make(map[uint64]struct{}),
	}
}

// Serve binds addr and accepts connections until ctx is canceled or
// Listen fails. Each accepted connection is served in its own goroutine.
func (s *Server) Serve(ctx context.Context, addr string) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("rpc: listen on %s: %w", addr, err)
	}
	defer ln.Close()

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	logger.Info("rpc server listening", "address", addr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			return fmt.Errorf("rpc: accept: %w", err)
		}

		sessionID, err := randomSessionID()
		if err != nil {
			logger.Error("rpc: failed to assign session id", "error", err)
			_ = conn.Close()
			continue
		}

		s.addSession(sessionID)
		go s.serveConn(ctx, conn, sessionID)
	}
}

func randomSessionID() (uint64, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b[:]), nil
}

func (s *Server) addSession(id uint64) {
	s.mu.Lock()
	s.sessions[id] = struct{}{}
	n := len(s.sessions)
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.SetConnectedClients(n)
	}
}

func (s *Server) removeSession(id uint64) {
	s.mu.Lock()
	delete(s.sessions, id)
	n := len(s.sessions)
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.SetConnectedClients(n)
	}
}

// ConnectedClients reports how many sessions are currently tracked.
func (s *Server) ConnectedClients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Server) serveConn(ctx context.Context, conn net.Conn, sessionID uint64) {
	addr := conn.RemoteAddr().String()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("rpc: panic in connection handler", "address", addr, "error", r, "stack", string(debug.Stack()))
		}
		s.removeSession(sessionID)
		_ = conn.Close()
	}()

	dec := frame.NewDecoder(s.cfg.Mode)
	enc := frame.NewEncoder(conn, s.cfg.Mode, s.cfg.MinSizeToCompress)
	readBuf := make([]byte, 32*1024)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		payload, err := nextFrame(conn, dec, readBuf)
		if err != nil {
			if errors.Is(err, io.EOF) {
				logger.Debug("rpc: connection closed by peer", "address", addr)
			} else {
				logger.Debug("rpc: terminating connection", "address", addr, "error", err)
			}
			return
		}

		if err := s.dispatch(ctx, payload, enc, sessionID, addr); err != nil {
			logger.Debug("rpc: terminating connection after dispatch error", "address", addr, "error", err)
			return
		}
	}
}

// nextFrame reads from conn until the decoder has reassembled one
// complete frame.
func nextFrame(conn net.Conn, dec *frame.Decoder, readBuf []byte) ([]byte, error) {
	for {
		if payload, ok, err := dec.Next(); err != nil {
			return nil, &TransportError{Err: err}
		} else if ok {
			return payload, nil
		}

		n, err := conn.Read(readBuf)
		if n > 0 {
			dec.Feed(readBuf[:n])
		}
		if err != nil {
			return nil, err
		}
	}
}

func (s *Server) dispatch(ctx context.Context, payload []byte, enc *frame.Encoder, sessionID uint64, addr string) error {
	if len(payload) < fingerprintSize {
		return &TransportError{Err: fmt.Errorf("frame shorter than fingerprint: %d bytes", len(payload))}
	}
	fp := fnv.Fingerprint(binary.BigEndian.Uint64(payload[:fingerprintSize]))
	body := payload[fingerprintSize:]

	handler, name, ok := s.registry.Lookup(fp)
	if !ok {
		logger.Warn("rpc: registration miss", "fingerprint", fp, "error", (&RegistrationMiss{Fingerprint: fp}).Error())
		if s.metrics != nil {
			s.metrics.ObserveRegistrationMiss()
		}
		return nil
	}

	spanCtx, span := telemetry.StartDispatchSpan(ctx, name, uint64(fp),
		telemetry.ClientAddr(addr),
		telemetry.SessionID(sessionID),
		telemetry.PayloadBytes(len(body)))
	defer span.End()

	respBody, err := s.invoke(handler, name, body)
	if err != nil {
		telemetry.RecordError(spanCtx, err)
		return err
	}
	telemetry.SetStatus(spanCtx, codes.Ok, "")

	if len(respBody) == 0 {
		return nil
	}

	resp := make([]byte, fingerprintSize+len(respBody))
	binary.BigEndian.PutUint64(resp[:fingerprintSize], uint64(fp))
	copy(resp[fingerprintSize:], respBody)
	return enc.WriteFrame(resp)
}

// invoke runs handler with a cloned Context, recovering any panic and
// converting it into a TransportError so that only this connection dies.
func (s *Server) invoke(handler Handler, name string, body []byte) (resp []byte, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("rpc: panic in handler", "procedure", name, "error", r, "stack", string(debug.Stack()))
			err = &TransportError{Err: fmt.Errorf("panic in handler %q: %v", name, r)}
		}
		if s.metrics != nil {
			s.metrics.ObserveDispatch(name, time.Since(start), err)
		}
	}()

	var hctx Context
	if s.newCtx != nil {
		hctx = s.newCtx().Clone()
	}

	resp, callErr := handler(hctx, body)
	if callErr != nil {
		return nil, &HandlerError{Procedure: name, Err: callErr}
	}
	return resp, nil
}
