package errors

import "errors"

// IsBindingUnresolved checks if an error indicates that no candidate call
// shape could be bound for a platform operation.
func IsBindingUnresolved(err error) bool {
	if err == nil {
		return false
	}

	var bindingErr *BindingError
	return errors.As(err, &bindingErr) || errors.Is(err, ErrBindingUnresolved)
}

// IsUnrecognizedIdentifier checks if an error indicates a value that could
// not be normalized into a canonical identifier.
func IsUnrecognizedIdentifier(err error) bool {
	if err == nil {
		return false
	}

	var idErr *IdentifierError
	return errors.As(err, &idErr) || errors.Is(err, ErrUnrecognizedIdentifier)
}

// IsOperationFailed checks if an error indicates a platform call that
// executed but reported failure.
func IsOperationFailed(err error) bool {
	if err == nil {
		return false
	}

	var opErr *OperationError
	return errors.As(err, &opErr) || errors.Is(err, ErrOperationFailed)
}

// IsNotReady checks if an error indicates missing prerequisites.
func IsNotReady(err error) bool {
	if err == nil {
		return false
	}

	var notReadyErr *NotReadyError
	return errors.As(err, &notReadyErr) || errors.Is(err, ErrNotReady)
}

// IsInvalidState checks if an error indicates a disallowed lifecycle
// transition.
func IsInvalidState(err error) bool {
	if err == nil {
		return false
	}

	var stateErr *StateError
	return errors.As(err, &stateErr) || errors.Is(err, ErrInvalidState)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	if err == nil {
		return false
	}

	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}
