package apperrors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindMapping(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(Validation("bad")))
	assert.Equal(t, http.StatusConflict, HTTPStatus(Conflict("dup")))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("missing")))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(Authorization("no")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(Storage("disk", errors.New("io"))))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("raw")))
}

func TestMessageHidesInternals(t *testing.T) {
	assert.Equal(t, "bad input", Message(Validation("bad input")))
	assert.Equal(t, "internal server error", Message(errors.New("pq: column x does not exist")))
}

func TestWrapKeepsClassifiedErrors(t *testing.T) {
	orig := NotFound("mix not found")
	wrapped := Wrap("failed to delete mix", orig)
	assert.True(t, IsKind(wrapped, KindNotFound))
	assert.Equal(t, "mix not found", wrapped.Message)

	raw := Wrap("failed to delete mix", errors.New("io"))
	assert.True(t, IsKind(raw, KindStorage))
	assert.EqualError(t, raw, "failed to delete mix: io")
}

func TestIsKindThroughWrapping(t *testing.T) {
	err := Validation("nope")
	assert.True(t, IsKind(err, KindValidation))
	assert.False(t, IsKind(err, KindConflict))
	assert.True(t, errors.Is(Wrap("outer", err), err))
}
