package loans

import (
	"errors"

	"backoffice/internal/platform/money"
)

// Validate checks the loan invariants and returns the first violation.
func Validate(l Loan) error {
	if l.EmployeeID == "" {
		return ErrEmployeeRequired
	}
	if !money.Within(l.Principal, MinPrincipal, MaxPrincipal) {
		return ErrInvalidPrincipal
	}
	if !money.Cents(l.InstallmentAmount) || l.InstallmentAmount < MinInstallment {
		return ErrInvalidInstallment
	}
	if l.InstallmentAmount > l.Principal {
		return ErrInstallmentExceedsPrincipal
	}
	if l.Remaining < 0 {
		return ErrInvalidRemaining
	}
	if l.StartDate.IsZero() || l.EndDate.IsZero() || !l.EndDate.After(l.StartDate) {
		return ErrEndNotAfterStart
	}
	if l.Status != StatusActive && l.Status != StatusComplete {
		return ErrInvalidStatus
	}
	return nil
}

var validationErrors = []error{
	ErrEmployeeRequired,
	ErrInvalidPrincipal,
	ErrInvalidInstallment,
	ErrInstallmentExceedsPrincipal,
	ErrInvalidRemaining,
	ErrEndNotAfterStart,
	ErrInvalidStatus,
}

// IsValidationError reports whether err is one of the invariant violations above.
func IsValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
