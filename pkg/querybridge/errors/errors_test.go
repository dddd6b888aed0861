package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	err := UnsupportedOperator("less")
	msg := err.Error()
	if !strings.Contains(msg, "unsupported_operator") || !strings.Contains(msg, "less") {
		t.Fatalf("message does not name the operator: %q", msg)
	}
}

func TestCodeOfUnwraps(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(ErrTransport, "select request", cause)

	wrapped := stderrors.New("outer: " + err.Error())
	if CodeOf(wrapped) != "" {
		t.Fatalf("untyped error produced a code")
	}
	if CodeOf(err) != ErrTransport {
		t.Fatalf("CodeOf = %q, want transport", CodeOf(err))
	}
	if !stderrors.Is(err, cause) {
		t.Fatal("cause not reachable via errors.Is")
	}
}
