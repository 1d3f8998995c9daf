package errors

import (
	"database/sql"
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	typed := Clone(ErrNotFound, "room not found")
	wrapped := fmt.Errorf("lookup: %w", typed)

	got := FromError(wrapped)

	assert.Equal(t, "NOT_FOUND", got.Code)
	assert.Equal(t, "room not found", got.Message)
	assert.Equal(t, http.StatusNotFound, got.Status)
}

func TestFromErrorWrapsUnknown(t *testing.T) {
	got := FromError(sql.ErrConnDone)

	assert.Equal(t, ErrInternal.Code, got.Code)
	assert.ErrorIs(t, got, sql.ErrConnDone)
	assert.Nil(t, FromError(nil))
}

func TestIsMatchesByCode(t *testing.T) {
	assert.True(t, stdErrors.Is(Clone(ErrCacheMiss, "miss on key"), ErrCacheMiss))
	assert.False(t, stdErrors.Is(ErrNotFound, ErrCacheMiss))
	assert.Equal(t, "layout: boom", Wrap(stdErrors.New("boom"), "X", 500, "layout").Error())
}
