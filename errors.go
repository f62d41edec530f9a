package hxstate

import (
	"errors"
	"fmt"
)

// Sentinel errors for component operations.
var (
	ErrMissingStateProducer = errors.New("hxstate: no state producer")
	ErrNoTemplate           = errors.New("hxstate: component has no template")
	ErrStateNotSerializable = errors.New("hxstate: state does not survive serialization")
	ErrStateNotResolved     = errors.New("hxstate: state not resolved")
	ErrStateAlreadyResolved = errors.New("hxstate: state already resolved")
	ErrAlreadyInitialized   = errors.New("hxstate: instance already initialized")
	ErrDecryptFailed        = errors.New("hxstate: state decryption failed")
	ErrSignatureInvalid     = errors.New("hxstate: signature verification failed")
	ErrInvalidFormat        = errors.New("hxstate: invalid state format")
	ErrTransitionNotFound   = errors.New("hxstate: transition not found")
	ErrMethodNotAllowed     = errors.New("hxstate: method not allowed for transition")
)

// MissingStateProducerError is returned by the default ResolveState when a
// component reaches a cold start without overriding the state producer.
//
// It identifies the concrete component and carries the props that triggered
// the failure so an error-reporting layer can render a useful diagnostic.
// The error is fatal for the instance: no partial instance is usable after
// it, and the host must discard rather than retry.
type MissingStateProducerError struct {
	// Component is the name of the concrete component type.
	Component string
	// Props is the props record the lifecycle was started with.
	Props any
}

func (e *MissingStateProducerError) Error() string {
	return fmt.Sprintf("hxstate: component %q has no state producer (props %+v)", e.Component, e.Props)
}

// Unwrap makes the error match ErrMissingStateProducer via errors.Is.
func (e *MissingStateProducerError) Unwrap() error {
	return ErrMissingStateProducer
}

// IsMissingStateProducer checks if err indicates a cold start without a
// ResolveState override.
func IsMissingStateProducer(err error) bool {
	return errors.Is(err, ErrMissingStateProducer)
}

// IsDecryptionError checks if err is a decryption or signature error.
func IsDecryptionError(err error) bool {
	return errors.Is(err, ErrDecryptFailed) || errors.Is(err, ErrSignatureInvalid)
}

// IsLifecycleOrderError checks if err is a violation of the one-way
// lifecycle ordering (resolving twice, initializing twice, or initializing
// before state is valid).
func IsLifecycleOrderError(err error) bool {
	return errors.Is(err, ErrStateNotResolved) ||
		errors.Is(err, ErrStateAlreadyResolved) ||
		errors.Is(err, ErrAlreadyInitialized)
}
