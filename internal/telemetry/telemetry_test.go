package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, "olympus", cfg.ServiceName)
	assert.Equal(t, "dev", cfg.ServiceVersion)
	assert.Equal(t, "localhost:4317", cfg.Endpoint)
	assert.True(t, cfg.Insecure)
	assert.Equal(t, 1.0, cfg.SampleRate)
}

func TestInitDisabled(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.Enabled = false

	shutdown, err := Init(ctx, cfg)
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	// Should be able to call shutdown without error
	err = shutdown(ctx)
	assert.NoError(t, err)

	// Should not be enabled
	assert.False(t, IsEnabled())
}

func TestTracerReturnsNoOp(t *testing.T) {
	// Reset state
	tracer = nil
	enabled = false

	// Without initialization, should return no-op tracer
	tr := Tracer()
	require.NotNil(t, tr)
}

func TestStartSpan(t *testing.T) {
	ctx := context.Background()

	// Even without initialization, StartSpan should work (no-op)
	newCtx, span := StartSpan(ctx, "test.operation")
	require.NotNil(t, newCtx)
	require.NotNil(t, span)

	// Should be able to end the span
	span.End()
}

func TestSpanFromContext(t *testing.T) {
	ctx := context.Background()

	// Should return a span even without active span
	span := SpanFromContext(ctx)
	require.NotNil(t, span)
}

func TestAddEvent(t *testing.T) {
	ctx := context.Background()

	// Should not panic with no active span
	require.NotPanics(t, func() {
		AddEvent(ctx, "test.event")
	})
}

func TestRecordError(t *testing.T) {
	ctx := context.Background()

	// Should not panic with nil error
	require.NotPanics(t, func() {
		RecordError(ctx, nil)
	})

	// Should not panic with error
	require.NotPanics(t, func() {
		RecordError(ctx, errors.New("test error"))
	})
}

func TestSetStatus(t *testing.T) {
	ctx := context.Background()

	// Should not panic
	require.NotPanics(t, func() {
		SetStatus(ctx, codes.Ok, "success")
	})

	require.NotPanics(t, func() {
		SetStatus(ctx, codes.Error, "failed")
	})
}

func TestSetAttributes(t *testing.T) {
	ctx := context.Background()

	// Should not panic
	require.NotPanics(t, func() {
		SetAttributes(ctx, ClientAddr("192.168.1.1:12345"))
	})
}

func TestTraceID(t *testing.T) {
	ctx := context.Background()

	// Without active span, should return empty string
	traceID := TraceID(ctx)
	assert.Equal(t, "", traceID)
}

func TestSpanID(t *testing.T) {
	ctx := context.Background()

	// Without active span, should return empty string
	spanID := SpanID(ctx)
	assert.Equal(t, "", spanID)
}

func TestAttributeHelpers(t *testing.T) {
	t.Run("ClientAddr", func(t *testing.T) {
		attr := ClientAddr("192.168.1.100:12345")
		assert.Equal(t, AttrClientAddr, string(attr.Key))
		assert.Equal(t, "192.168.1.100:12345", attr.Value.AsString())
	})

	t.Run("Procedure", func(t *testing.T) {
		attr := Procedure("getFile")
		assert.Equal(t, AttrProcedure, string(attr.Key))
		assert.Equal(t, "getFile", attr.Value.AsString())
	})

	t.Run("Fingerprint", func(t *testing.T) {
		fp := uint64(0xCBF29CE484222325)
		attr := Fingerprint(fp)
		assert.Equal(t, AttrFingerprint, string(attr.Key))
		assert.Equal(t, int64(fp), attr.Value.AsInt64())
	})

	t.Run("SessionID", func(t *testing.T) {
		attr := SessionID(42)
		assert.Equal(t, AttrSessionID, string(attr.Key))
		assert.Equal(t, int64(42), attr.Value.AsInt64())
	})

	t.Run("Status", func(t *testing.T) {
		attr := Status("ok")
		assert.Equal(t, AttrStatus, string(attr.Key))
		assert.Equal(t, "ok", attr.Value.AsString())
	})

	t.Run("StatusMsg", func(t *testing.T) {
		attr := StatusMsg("registration miss")
		assert.Equal(t, AttrStatusMsg, string(attr.Key))
		assert.Equal(t, "registration miss", attr.Value.AsString())
	})

	t.Run("FrameBytes", func(t *testing.T) {
		attr := FrameBytes(128)
		assert.Equal(t, AttrFrameBytes, string(attr.Key))
		assert.Equal(t, int64(128), attr.Value.AsInt64())
	})

	t.Run("PayloadBytes", func(t *testing.T) {
		attr := PayloadBytes(96)
		assert.Equal(t, AttrPayloadBytes, string(attr.Key))
		assert.Equal(t, int64(96), attr.Value.AsInt64())
	})

	t.Run("Compressed", func(t *testing.T) {
		attr := Compressed(true)
		assert.Equal(t, AttrCompressed, string(attr.Key))
		assert.True(t, attr.Value.AsBool())
	})

	t.Run("ConnectedClients", func(t *testing.T) {
		attr := ConnectedClients(3)
		assert.Equal(t, AttrConnectedClients, string(attr.Key))
		assert.Equal(t, int64(3), attr.Value.AsInt64())
	})

	t.Run("IDLFile", func(t *testing.T) {
		attr := IDLFile("fileservice.olympus")
		assert.Equal(t, AttrIDLFile, string(attr.Key))
		assert.Equal(t, "fileservice.olympus", attr.Value.AsString())
	})

	t.Run("Decl", func(t *testing.T) {
		attr := Decl("getFile")
		assert.Equal(t, AttrDecl, string(attr.Key))
		assert.Equal(t, "getFile", attr.Value.AsString())
	})
}

func TestStartDispatchSpan(t *testing.T) {
	ctx := context.Background()

	newCtx, span := StartDispatchSpan(ctx, "getFile", 0xCBF29CE484222325)
	require.NotNil(t, newCtx)
	require.NotNil(t, span)
	span.End()

	// With additional attributes
	newCtx2, span2 := StartDispatchSpan(ctx, "putFile", 0x1, Compressed(true), FrameBytes(64))
	require.NotNil(t, newCtx2)
	require.NotNil(t, span2)
	span2.End()
}

func TestStartCompileSpan(t *testing.T) {
	ctx := context.Background()

	newCtx, span := StartCompileSpan(ctx, "fileservice.olympus")
	require.NotNil(t, newCtx)
	require.NotNil(t, span)
	span.End()

	// With additional attributes
	newCtx2, span2 := StartCompileSpan(ctx, "common.olympus", Decl("Account"))
	require.NotNil(t, newCtx2)
	require.NotNil(t, span2)
	span2.End()
}
