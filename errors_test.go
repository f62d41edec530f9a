package hxstate

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	// Verify sentinel errors are distinct
	errs := []error{
		ErrMissingStateProducer,
		ErrNoTemplate,
		ErrStateNotSerializable,
		ErrStateNotResolved,
		ErrStateAlreadyResolved,
		ErrAlreadyInitialized,
		ErrDecryptFailed,
		ErrSignatureInvalid,
		ErrInvalidFormat,
		ErrTransitionNotFound,
		ErrMethodNotAllowed,
	}

	for i, err1 := range errs {
		for j, err2 := range errs {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("Sentinel errors should be distinct: %v and %v", err1, err2)
			}
		}
	}
}

func TestMissingStateProducerError(t *testing.T) {
	err := &MissingStateProducerError{
		Component: "file-viewer",
		Props:     testProps{Label: "x"},
	}

	if !errors.Is(err, ErrMissingStateProducer) {
		t.Error("should unwrap to ErrMissingStateProducer")
	}
	msg := err.Error()
	if !strings.Contains(msg, "file-viewer") {
		t.Errorf("message %q should name the component", msg)
	}
	if !strings.Contains(msg, "x") {
		t.Errorf("message %q should include the props", msg)
	}
}

func TestIsMissingStateProducer(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		expect bool
	}{
		{"nil error", nil, false},
		{"sentinel", ErrMissingStateProducer, true},
		{"structured", &MissingStateProducerError{Component: "c"}, true},
		{"wrapped", fmt.Errorf("lifecycle: %w", &MissingStateProducerError{Component: "c"}), true},
		{"other error", errors.New("other"), false},
		{"ErrNoTemplate", ErrNoTemplate, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsMissingStateProducer(tt.err); got != tt.expect {
				t.Errorf("IsMissingStateProducer(%v) = %v, want %v", tt.err, got, tt.expect)
			}
		})
	}
}

func TestIsDecryptionError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		expect bool
	}{
		{"nil error", nil, false},
		{"ErrDecryptFailed", ErrDecryptFailed, true},
		{"ErrSignatureInvalid", ErrSignatureInvalid, true},
		{"wrapped ErrDecryptFailed", fmt.Errorf("wrapped: %w", ErrDecryptFailed), true},
		{"ErrInvalidFormat", ErrInvalidFormat, false},
		{"other error", errors.New("other"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDecryptionError(tt.err); got != tt.expect {
				t.Errorf("IsDecryptionError(%v) = %v, want %v", tt.err, got, tt.expect)
			}
		})
	}
}

func TestIsLifecycleOrderError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		expect bool
	}{
		{"nil error", nil, false},
		{"ErrStateNotResolved", ErrStateNotResolved, true},
		{"ErrStateAlreadyResolved", ErrStateAlreadyResolved, true},
		{"ErrAlreadyInitialized", ErrAlreadyInitialized, true},
		{"wrapped", fmt.Errorf("w: %w", ErrAlreadyInitialized), true},
		{"ErrMissingStateProducer", ErrMissingStateProducer, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsLifecycleOrderError(tt.err); got != tt.expect {
				t.Errorf("IsLifecycleOrderError(%v) = %v, want %v", tt.err, got, tt.expect)
			}
		})
	}
}
