package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusOf(Validation("bad")))
	assert.Equal(t, http.StatusUnauthorized, StatusOf(Auth("no")))
	assert.Equal(t, http.StatusForbidden, StatusOf(Forbidden("no")))
	assert.Equal(t, http.StatusNotFound, StatusOf(NotFound("missing")))
	assert.Equal(t, http.StatusConflict, StatusOf(Conflict("dup")))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("boom")))
}

func TestStatusOfWrapped(t *testing.T) {
	wrapped := fmt.Errorf("loading document: %w", NotFound("Document not found"))
	assert.Equal(t, http.StatusNotFound, StatusOf(wrapped))
	assert.Equal(t, "Document not found", MessageOf(wrapped))
}

func TestMessageOfHidesInternals(t *testing.T) {
	assert.Equal(t, "dup", MessageOf(Conflict("dup")))
	assert.Equal(t, "Unexpected server error", MessageOf(errors.New("pq: connection refused")))
}
