package loans

import "errors"

var (
	ErrLoanNotFound                = errors.New("loan not found")
	ErrActiveLoanExists            = errors.New("employee already has an active loan")
	ErrInvalidPrincipal            = errors.New("principal must be between 0.01 and 50000000 with at most two decimals")
	ErrInvalidInstallment          = errors.New("installment amount must be at least 0.01 with at most two decimals")
	ErrInstallmentExceedsPrincipal = errors.New("installment amount cannot be greater than the principal amount")
	ErrInvalidRemaining            = errors.New("remaining balance must not be negative")
	ErrEndNotAfterStart            = errors.New("end date must be after the start date")
	ErrInvalidStatus               = errors.New("status must be active or complete")
	ErrEmployeeRequired            = errors.New("employee id is required")
)
