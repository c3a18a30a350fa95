package rpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olympusrpc/olympus/pkg/fnv"
)

func TestRegistryLookupMiss(t *testing.T) {
	r := NewHandlerRegistry()
	_, _, ok := r.Lookup(fnv.Sum64("nope"))
	assert.False(t, ok)
}

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewHandlerRegistry()
	called := false
	r.Register("doThing", func(ctx Context, body []byte) ([]byte, error) {
		called = true
		return nil, nil
	})

	h, name, ok := r.Lookup(fnv.Sum64("doThing"))
	require.True(t, ok)
	assert.Equal(t, "doThing", name)
	_, _ = h(nil, nil)
	assert.True(t, called)
}

func TestRegistryLatestRegistrationWins(t *testing.T) {
	r := NewHandlerRegistry()
	r.Register("doThing", func(ctx Context, body []byte) ([]byte, error) {
		return []byte("first"), nil
	})
	r.Register("doThing", func(ctx Context, body []byte) ([]byte, error) {
		return []byte("second"), nil
	})

	h, _, ok := r.Lookup(fnv.Sum64("doThing"))
	require.True(t, ok)
	out, err := h(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), out)
}

func TestRegistrationMissErrorMessage(t *testing.T) {
	err := &RegistrationMiss{Fingerprint: fnv.Sum64("x")}
	assert.Contains(t, err.Error(), "no handler registered")
}

func TestHandlerErrorUnwraps(t *testing.T) {
	inner := assert.AnError
	err := &HandlerError{Procedure: "p", Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "p")
}

func TestTransportErrorUnwraps(t *testing.T) {
	inner := assert.AnError
	err := &TransportError{Err: inner}
	assert.ErrorIs(t, err, inner)
}
