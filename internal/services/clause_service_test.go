package services

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/attorneycare/server/internal/apperr"
)

func TestMapSplitError(t *testing.T) {
	t.Run("duplicate key becomes conflict", func(t *testing.T) {
		dup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
		err := mapSplitError(dup)
		assert.Equal(t, http.StatusConflict, apperr.StatusOf(err))
	})

	t.Run("bulk duplicate key becomes conflict", func(t *testing.T) {
		dup := mongo.BulkWriteException{WriteErrors: []mongo.BulkWriteError{
			{WriteError: mongo.WriteError{Code: 11000}},
		}}
		err := mapSplitError(dup)
		assert.Equal(t, http.StatusConflict, apperr.StatusOf(err))
	})

	t.Run("other errors pass through", func(t *testing.T) {
		boom := errors.New("connection reset")
		assert.Equal(t, boom, mapSplitError(boom))
		assert.Equal(t, http.StatusInternalServerError, apperr.StatusOf(mapSplitError(boom)))
	})
}

func TestNoMatchError(t *testing.T) {
	t.Run("stale revision on a live clause is a conflict", func(t *testing.T) {
		assert.Equal(t, http.StatusConflict, apperr.StatusOf(noMatchError(true, true)))
	})

	t.Run("guarded update on a deleted clause is not found", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, apperr.StatusOf(noMatchError(true, false)))
	})

	t.Run("unguarded miss is not found", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, apperr.StatusOf(noMatchError(false, false)))
	})
}
