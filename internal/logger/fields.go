package logger

import (
	"log/slog"
)

// Standard field keys for structured logging. Use these keys
// consistently across all log statements so dispatch-runtime logs can be
// aggregated and queried the same way regardless of which package
// emitted them.
const (
	// ========================================================================
	// Distributed Tracing
	// ========================================================================
	KeyTraceID = "trace_id" // OpenTelemetry trace ID for request correlation
	KeySpanID  = "span_id"  // OpenTelemetry span ID for operation tracking

	// ========================================================================
	// Procedure Dispatch
	// ========================================================================
	KeyProcedure   = "procedure"   // IDL-source procedure name
	KeyFingerprint = "fingerprint" // FNV-1a fingerprint
	KeyStatus      = "status"      // dispatch outcome: "ok", "error", "miss"
	KeyStatusMsg   = "status_msg"  // human-readable status message

	// ========================================================================
	// IDL Compilation
	// ========================================================================
	KeyIDLFile   = "idl_file"   // IDL source file name
	KeyDecl      = "decl"       // declaration name (enum, struct, procedure)
	KeyDeclCount = "decl_count" // number of declarations processed

	// ========================================================================
	// Frame Transport
	// ========================================================================
	KeyFrameBytes      = "frame_bytes"      // on-wire frame length
	KeyPayloadBytes     = "payload_bytes"   // decoded payload length
	KeyCompressed       = "compressed"      // whether this frame used LZ4
	KeyCompressionRatio = "compression_ratio" // compressed / decompressed

	// ========================================================================
	// Client Identification
	// ========================================================================
	KeyClientIP   = "client_ip"   // client IP address
	KeyClientPort = "client_port" // client source port

	// ========================================================================
	// Session & Connection
	// ========================================================================
	KeySessionID       = "session_id"        // rpc.Server session identifier
	KeyConnectedCount = "connected_clients" // number of sessions currently tracked

	// ========================================================================
	// Operation Metadata
	// ========================================================================
	KeyDurationMs = "duration_ms" // operation duration in milliseconds
	KeyError      = "error"       // error message
	KeyErrorCode  = "error_code"  // numeric error code
	KeyAttempt    = "attempt"     // retry attempt number
	KeyMaxRetries = "max_retries" // maximum retry attempts
)

// ============================================================================
// Field constructors for type safety
// These functions provide type-safe construction of slog.Attr values.
// ============================================================================

// TraceID returns a slog.Attr for OpenTelemetry trace ID
func TraceID(id string) slog.Attr {
	return slog.String(KeyTraceID, id)
}

// SpanID returns a slog.Attr for OpenTelemetry span ID
func SpanID(id string) slog.Attr {
	return slog.String(KeySpanID, id)
}

// Procedure returns a slog.Attr for the IDL-source procedure name
func Procedure(name string) slog.Attr {
	return slog.String(KeyProcedure, name)
}

// Fingerprint returns a slog.Attr carrying an FNV-1a fingerprint as a
// uint64 value, which the text handler prints in decimal
func Fingerprint(fp uint64) slog.Attr {
	return slog.Uint64(KeyFingerprint, fp)
}

// Status returns a slog.Attr for dispatch outcome
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// StatusMsg returns a slog.Attr for human-readable status message
func StatusMsg(msg string) slog.Attr {
	return slog.String(KeyStatusMsg, msg)
}

// IDLFile returns a slog.Attr for an IDL source file name
func IDLFile(name string) slog.Attr {
	return slog.String(KeyIDLFile, name)
}

// Decl returns a slog.Attr for a declaration name
func Decl(name string) slog.Attr {
	return slog.String(KeyDecl, name)
}

// DeclCount returns a slog.Attr for the number of declarations processed
func DeclCount(n int) slog.Attr {
	return slog.Int(KeyDeclCount, n)
}

// FrameBytes returns a slog.Attr for the on-wire frame length
func FrameBytes(n int) slog.Attr {
	return slog.Int(KeyFrameBytes, n)
}

// PayloadBytes returns a slog.Attr for the decoded payload length
func PayloadBytes(n int) slog.Attr {
	return slog.Int(KeyPayloadBytes, n)
}

// Compressed returns a slog.Attr for whether a frame used LZ4
func Compressed(c bool) slog.Attr {
	return slog.Bool(KeyCompressed, c)
}

// CompressionRatio returns a slog.Attr for compressed/decompressed size ratio
func CompressionRatio(ratio float64) slog.Attr {
	return slog.Float64(KeyCompressionRatio, ratio)
}

// ClientIP returns a slog.Attr for client IP address
func ClientIP(addr string) slog.Attr {
	return slog.String(KeyClientIP, addr)
}

// ClientPort returns a slog.Attr for client source port
func ClientPort(port int) slog.Attr {
	return slog.Int(KeyClientPort, port)
}

// SessionID returns a slog.Attr for a session identifier
func SessionID(id uint64) slog.Attr {
	return slog.Uint64(KeySessionID, id)
}

// ConnectedCount returns a slog.Attr for the number of tracked sessions
func ConnectedCount(n int) slog.Attr {
	return slog.Int(KeyConnectedCount, n)
}

// DurationMs returns a slog.Attr for duration in milliseconds
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err returns a slog.Attr for an error
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// ErrorCode returns a slog.Attr for numeric error code
func ErrorCode(code int) slog.Attr {
	return slog.Int(KeyErrorCode, code)
}

// Attempt returns a slog.Attr for retry attempt number
func Attempt(n int) slog.Attr {
	return slog.Int(KeyAttempt, n)
}

// MaxRetries returns a slog.Attr for maximum retry attempts
func MaxRetries(n int) slog.Attr {
	return slog.Int(KeyMaxRetries, n)
}
