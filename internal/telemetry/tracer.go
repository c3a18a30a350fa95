package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys for dispatch-runtime spans. These follow OpenTelemetry
// semantic conventions where applicable, under an "olympus." prefix for
// anything specific to this protocol.
const (
	// ========================================================================
	// Client attributes
	// ========================================================================
	AttrClientAddr = "client.address"

	// ========================================================================
	// Dispatch attributes
	// ========================================================================
	AttrProcedure   = "olympus.procedure"
	AttrFingerprint = "olympus.fingerprint"
	AttrSessionID   = "olympus.session_id"
	AttrStatus      = "olympus.status" // "ok", "error", "miss"
	AttrStatusMsg   = "olympus.status_msg"

	// ========================================================================
	// Frame transport attributes
	// ========================================================================
	AttrFrameBytes      = "olympus.frame_bytes"
	AttrPayloadBytes    = "olympus.payload_bytes"
	AttrCompressed      = "olympus.compressed"
	AttrConnectedClients = "olympus.connected_clients"

	// ========================================================================
	// IDL compilation attributes
	// ========================================================================
	AttrIDLFile = "olympus.idl_file"
	AttrDecl    = "olympus.decl"
)

// Span names for dispatch-runtime and compiler operations.
const (
	SpanDispatch       = "olympus.dispatch"
	SpanHandlerInvoke  = "olympus.handler.invoke"
	SpanClientSend     = "olympus.client.send"
	SpanClientReceive  = "olympus.client.receive"
	SpanCompileFile    = "olympus.compile.file"
	SpanVerifyFile     = "olympus.verify.file"
	SpanGenerateFile   = "olympus.generate.file"
)

// ClientAddr returns an attribute for a connection's remote address.
func ClientAddr(addr string) attribute.KeyValue {
	return attribute.String(AttrClientAddr, addr)
}

// Procedure returns an attribute for the IDL-source procedure name.
func Procedure(name string) attribute.KeyValue {
	return attribute.String(AttrProcedure, name)
}

// Fingerprint returns an attribute for a FNV-1a fingerprint.
func Fingerprint(fp uint64) attribute.KeyValue {
	return attribute.Int64(AttrFingerprint, int64(fp))
}

// SessionID returns an attribute for a Server session identifier.
func SessionID(id uint64) attribute.KeyValue {
	return attribute.Int64(AttrSessionID, int64(id))
}

// Status returns an attribute for dispatch outcome.
func Status(status string) attribute.KeyValue {
	return attribute.String(AttrStatus, status)
}

// StatusMsg returns an attribute for a human-readable status message.
func StatusMsg(msg string) attribute.KeyValue {
	return attribute.String(AttrStatusMsg, msg)
}

// FrameBytes returns an attribute for the on-wire frame length.
func FrameBytes(n int) attribute.KeyValue {
	return attribute.Int(AttrFrameBytes, n)
}

// PayloadBytes returns an attribute for the decoded payload length.
func PayloadBytes(n int) attribute.KeyValue {
	return attribute.Int(AttrPayloadBytes, n)
}

// Compressed returns an attribute for whether a frame used LZ4.
func Compressed(c bool) attribute.KeyValue {
	return attribute.Bool(AttrCompressed, c)
}

// ConnectedClients returns an attribute for the number of tracked sessions.
func ConnectedClients(n int) attribute.KeyValue {
	return attribute.Int(AttrConnectedClients, n)
}

// IDLFile returns an attribute for an IDL source file name.
func IDLFile(name string) attribute.KeyValue {
	return attribute.String(AttrIDLFile, name)
}

// Decl returns an attribute for a declaration name.
func Decl(name string) attribute.KeyValue {
	return attribute.String(AttrDecl, name)
}

// StartDispatchSpan starts a span for one dispatched call, tagged with
// its procedure name and fingerprint.
func StartDispatchSpan(ctx context.Context, procedure string, fp uint64, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{
		Procedure(procedure),
		Fingerprint(fp),
	}
	allAttrs = append(allAttrs, attrs...)

	return StartSpan(ctx, SpanDispatch, trace.WithAttributes(allAttrs...))
}

// StartCompileSpan starts a span for compiling one IDL file.
func StartCompileSpan(ctx context.Context, file string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{
		IDLFile(file),
	}
	allAttrs = append(allAttrs, attrs...)

	return StartSpan(ctx, SpanCompileFile, trace.WithAttributes(allAttrs...))
}
