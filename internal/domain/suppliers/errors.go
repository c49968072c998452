package suppliers

import "errors"

var (
	ErrTransactionNotFound = errors.New("supplier transaction not found")
	ErrDescriptionRequired = errors.New("description is required and must be at most 500 characters")
	ErrInvalidAmount       = errors.New("total amount must be between 0.01 and 100000000 with at most two decimals")
	ErrInvalidStatus       = errors.New("paid status must be paid or not_paid")
)

// IsValidationError reports whether err rejects the submitted transaction.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrDescriptionRequired) || errors.Is(err, ErrInvalidAmount) || errors.Is(err, ErrInvalidStatus)
}
