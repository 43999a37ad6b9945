package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeMetadata(t *testing.T) {
	assert.Equal(t, "{}", encodeMetadata(nil))
	assert.Equal(t, "{}", encodeMetadata(map[string]interface{}{}))
	assert.JSONEq(t, `{"filename":"lease.pdf","version":2}`,
		encodeMetadata(map[string]interface{}{"filename": "lease.pdf", "version": 2}))

	// unmarshalable values degrade to an empty object instead of failing
	assert.Equal(t, "{}", encodeMetadata(map[string]interface{}{"bad": func() {}}))
}
