package ml

import "fmt"

// ModelErrorCode represents specific model error types.
type ModelErrorCode string

const (
	ErrModelUnavailable ModelErrorCode = "MODEL_UNAVAILABLE"
	ErrBadArtifact      ModelErrorCode = "BAD_ARTIFACT"
	ErrUnknownMerchant  ModelErrorCode = "UNKNOWN_MERCHANT"
)

// ModelError is a structured error for classifier and encoder failures.
type ModelError struct {
	Code     ModelErrorCode
	Message  string
	Merchant string // set for UNKNOWN_MERCHANT
	Cause    error
}

func (e *ModelError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *ModelError) Unwrap() error {
	return e.Cause
}

// IsUnknownMerchant reports whether err is an encoder miss for a merchant
// outside the training vocabulary. Callers quarantine the row rather than
// failing the whole request.
func IsUnknownMerchant(err error) bool {
	me, ok := err.(*ModelError)
	return ok && me.Code == ErrUnknownMerchant
}
