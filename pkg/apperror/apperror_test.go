package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errSample = Conflict("sample conflict")

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("create booking: %w", errSample)

	assert.Equal(t, KindConflict, KindOf(wrapped))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestIsMatchesSentinel(t *testing.T) {
	t.Run("Wrap keeps identity", func(t *testing.T) {
		err := errSample.Wrap(errors.New("pg: 23P01"))
		assert.True(t, errors.Is(err, errSample))
		assert.Contains(t, err.Error(), "23P01")
	})

	t.Run("With keeps identity and changes message", func(t *testing.T) {
		err := errSample.With("slot taken")
		assert.True(t, errors.Is(err, errSample))
		assert.Equal(t, "slot taken", Message(err))
	})

	t.Run("Different sentinel", func(t *testing.T) {
		assert.False(t, errors.Is(errSample, Conflict("other")))
		assert.False(t, errors.Is(errSample, NotFound("sample conflict")))
	})
}

func TestMessageHidesInternal(t *testing.T) {
	err := Internal("insert booking", errors.New("connection reset"))

	assert.Equal(t, "Internal server error", Message(err))
	assert.Equal(t, "Internal server error", Message(errors.New("raw")))
	assert.Equal(t, "venue not found", Message(NotFound("venue not found")))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindNotFound, http.StatusNotFound},
		{KindUnauthorized, http.StatusForbidden},
		{KindInvalidInput, http.StatusBadRequest},
		{KindConflict, http.StatusConflict},
		{KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.HTTPStatus())
		})
	}
}
