package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		kind Kind
		msg  string
	}{
		{"NotFound", NotFound("race not found"), ErrNotFound, "race not found"},
		{"NotFoundf", NotFoundf("rider %s not found", "r1"), ErrNotFound, "rider r1 not found"},
		{"Validation", Validation("picks must differ"), ErrValidation, "picks must differ"},
		{"Validationf", Validationf("position %d out of range", 9), ErrValidation, "position 9 out of range"},
		{"Conflict", Conflict("name taken"), ErrConflict, "name taken"},
		{"InvalidInput", InvalidInput("bad season"), ErrInvalidInput, "bad season"},
		{"Unauthorized", Unauthorized("invalid credentials"), ErrUnauthorized, "invalid credentials"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("expected kind %v, got %v", tt.kind, tt.err.Kind)
			}
			if tt.err.Message != tt.msg {
				t.Errorf("expected message %q, got %q", tt.msg, tt.err.Message)
			}
			if tt.err.Err != nil {
				t.Errorf("expected no underlying error, got %v", tt.err.Err)
			}
			if tt.err.Error() != tt.msg {
				t.Errorf("expected Error() %q, got %q", tt.msg, tt.err.Error())
			}
		})
	}
}

func TestInternal_WrapsUnderlying(t *testing.T) {
	cause := errors.New("disk full")
	err := Internal(cause)

	if err.Kind != ErrInternal {
		t.Errorf("expected ErrInternal, got %v", err.Kind)
	}
	if err.Error() != "internal error: disk full" {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("no rows")
	err := Wrap(cause, ErrNotFound, "player not found")

	if err.Kind != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err.Kind)
	}
	if errors.Unwrap(err) != cause {
		t.Error("expected Unwrap to return the cause")
	}
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("submit: %w", Validation("duplicate rider"))

	if KindOf(wrapped) != ErrValidation {
		t.Errorf("expected ErrValidation, got %v", KindOf(wrapped))
	}
	if KindOf(errors.New("plain")) != ErrInternal {
		t.Error("expected plain errors to be internal")
	}
	if !Is(wrapped, ErrValidation) {
		t.Error("expected Is to match validation kind")
	}
	if Is(wrapped, ErrNotFound) {
		t.Error("expected Is not to match not-found kind")
	}
}

func TestKindString(t *testing.T) {
	tests := map[Kind]string{
		ErrInternal:     "internal",
		ErrNotFound:     "not_found",
		ErrValidation:   "validation",
		ErrConflict:     "conflict",
		ErrInvalidInput: "invalid_input",
		ErrUnauthorized: "unauthorized",
		Kind(99):        "internal",
	}
	for kind, want := range tests {
		if got := kind.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}
