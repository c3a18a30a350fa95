package fnv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Known-answer vectors for 64-bit FNV-1a.
func TestSum64KnownAnswers(t *testing.T) {
	tests := []struct {
		name string
		want uint64
	}{
		{"a", 0xaf63dc4c8601ec8c},
		{"abc", 0xe71fa2190541574b},
		{"12345678", 0x173932c41a90a42d},
		{"w54s6edr75tf8yg9uh0ij!@#^&*", 0x2be8d04f8a4fa8d2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Fingerprint(tt.want), Sum64(tt.name))
		})
	}
}

func TestSum64Pure(t *testing.T) {
	assert.Equal(t, Sum64("getFile"), Sum64("getFile"))
}

func TestSum64Distinguishes(t *testing.T) {
	assert.NotEqual(t, Sum64("getFile"), Sum64("deleteFile"))
}
