package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestBindingErrorCodeAndMessage(t *testing.T) {
	err := NewBindingError("CreateSessionGroup", 3, nil)

	if err.Code() != CodeBindingUnresolved {
		t.Errorf("expected code %s, got %s", CodeBindingUnresolved, err.Code())
	}
	if err.Operation != "CreateSessionGroup" {
		t.Errorf("unexpected operation: %s", err.Operation)
	}
	if err.Probed != 3 {
		t.Errorf("unexpected probe count: %d", err.Probed)
	}
	if !strings.Contains(err.Error(), "CreateSessionGroup") {
		t.Errorf("message should mention operation: %s", err.Error())
	}
}

func TestIdentifierErrorWrapsSentinel(t *testing.T) {
	err := NewIdentifierError([]byte("nope"))

	if !stderrors.Is(err, ErrUnrecognizedIdentifier) {
		t.Error("identifier error should wrap ErrUnrecognizedIdentifier")
	}
	if err.Code() != CodeUnrecognizedIdentifier {
		t.Errorf("unexpected code: %s", err.Code())
	}
}

func TestOperationErrorPreservesCause(t *testing.T) {
	cause := fmt.Errorf("lobby full")
	err := NewOperationError("JoinSessionGroup", cause)

	if !stderrors.Is(err, cause) {
		t.Error("operation error should unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "lobby full") {
		t.Errorf("cause should appear in message: %s", err.Error())
	}
}

func TestStateErrorMessage(t *testing.T) {
	err := NewStateError("hosting", "start joining")
	if err.Error() != "cannot start joining while hosting" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, CodeOK},
		{"typed", NewNotReadyError("local identity"), CodeNotReady},
		{"wrapped typed", fmt.Errorf("outer: %w", NewOperationError("SendData", nil)), CodeOperationFailed},
		{"plain", fmt.Errorf("plain"), CodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestStackTraceCaptured(t *testing.T) {
	err := NewBindingError("GetLocalIdentifier", 1, nil)
	if err.StackTrace() == "" {
		t.Error("expected a captured stack trace")
	}
}
