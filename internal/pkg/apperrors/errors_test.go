package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOf(t *testing.T) {
	if KindOf(NotFound("missing")) != KindNotFound {
		t.Error("NotFound should have kind not_found")
	}
	if KindOf(errors.New("plain")) != KindInternal {
		t.Error("plain errors should default to internal")
	}

	wrapped := fmt.Errorf("context: %w", Conflict("busy"))
	if KindOf(wrapped) != KindConflict {
		t.Error("wrapped apperrors should keep their kind")
	}
}

func TestMessageOfHidesInternalCause(t *testing.T) {
	err := Internal(errors.New("pq: connection refused"))
	if MessageOf(err) != "internal error" {
		t.Errorf("internal message = %q, want generic", MessageOf(err))
	}

	if MessageOf(Validation("quantity must be at least 1")) != "quantity must be at least 1" {
		t.Error("validation messages should pass through")
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NotFound("x"), http.StatusNotFound},
		{Conflict("x"), http.StatusConflict},
		{Validation("x"), http.StatusBadRequest},
		{Authorization("x"), http.StatusForbidden},
		{Internal(errors.New("x")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Internal(cause)
	if !errors.Is(err, cause) {
		t.Error("Internal should wrap its cause")
	}
}
