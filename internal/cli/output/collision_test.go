package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprintCollisionWarning(t *testing.T) {
	c := FingerprintCollision{Fingerprint: "0xdeadbeefdeadbeef", First: "getFile", Second: "putFile"}
	assert.Equal(t, `"getFile" and "putFile" share Fingerprint 0xdeadbeefdeadbeef`, c.Warning())
}
