package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"NotFound", ErrNotFound, "record not found"},
		{"Unauthorized", ErrUnauthorized, "unauthorized"},
		{"Forbidden", ErrForbidden, "forbidden"},
		{"InvalidInput", ErrInvalidInput, "invalid input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.want {
				t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.want)
			}

			wrapped := fmt.Errorf("query providers: %w", tt.err)
			if !errors.Is(wrapped, tt.err) {
				t.Error("errors.Is() should match wrapped sentinel")
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("resource_type", "unknown value")

	want := "validation failed on resource_type: unknown value"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestStoreError(t *testing.T) {
	cause := errors.New("UNIQUE constraint failed")
	err := NewStoreError("insert", "resources", cause)

	want := "store error (op=insert, table=resources): UNIQUE constraint failed"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is() should unwrap to cause")
	}
}
