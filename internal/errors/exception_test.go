package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusCodeUnwraps(t *testing.T) {
	err := fmt.Errorf("move task t1: %w", ErrUnknownColumn)
	if got := StatusCode(err); got != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", got)
	}
	if got := Message(err); got != "unknown column" {
		t.Fatalf("expected the exception message, got %q", got)
	}
}

func TestPlainErrorsAreInternal(t *testing.T) {
	err := errors.New("disk full")
	if got := StatusCode(err); got != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", got)
	}
	if got := Message(err); got == "disk full" {
		t.Fatal("internal error text leaked to the client message")
	}
}
