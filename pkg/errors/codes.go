package errors

// Error codes for categorizing failures surfaced by the coordination layer.
// Codes are stable strings so callers and logs can match on them without
// depending on concrete error types.
const (
	// CodeOK indicates success (not an error).
	CodeOK = "OK"

	// CodeUnknown indicates an unknown error occurred.
	CodeUnknown = "UNKNOWN"

	// CodeBindingUnresolved indicates no candidate call shape for a platform
	// operation could be bound against the loaded native module.
	CodeBindingUnresolved = "BINDING_UNRESOLVED"

	// CodeUnrecognizedIdentifier indicates a platform-returned value could not
	// be normalized into a canonical 64-bit identifier.
	CodeUnrecognizedIdentifier = "UNRECOGNIZED_IDENTIFIER"

	// CodeOperationFailed indicates a platform call executed but reported
	// failure.
	CodeOperationFailed = "OPERATION_FAILED"

	// CodeNotReady indicates an operation was requested before required prior
	// state existed (for example joining before the local identity resolved).
	CodeNotReady = "NOT_READY"

	// CodeInvalidState indicates a session lifecycle transition was requested
	// from a state that does not permit it.
	CodeInvalidState = "INVALID_STATE"

	// CodeInvalidArgument indicates the caller supplied an invalid argument.
	CodeInvalidArgument = "INVALID_ARGUMENT"

	// CodeValidation indicates configuration or input validation failed.
	CodeValidation = "VALIDATION_ERROR"
)

// CodeOf extracts the error code from any error. Errors that do not implement
// the Error interface map to CodeUnknown; nil maps to CodeOK.
func CodeOf(err error) string {
	if err == nil {
		return CodeOK
	}
	var coded Error
	if As(err, &coded) {
		return coded.Code()
	}
	return CodeUnknown
}
