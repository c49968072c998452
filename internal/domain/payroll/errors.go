package payroll

import "errors"

var (
	ErrSalaryRecordNotFound  = errors.New("salary record not found")
	ErrSalaryRecordExists    = errors.New("salary record already exists for employee and month")
	ErrInvalidMonth          = errors.New("month must look like August-2025 or 2025-08")
	ErrInvalidBasicSalary    = errors.New("basic salary must be between 0.01 and 10000000 with at most two decimals")
	ErrInvalidAllowances     = errors.New("allowances must be between 0 and 5000000 with at most two decimals")
	ErrInvalidPaymentStatus  = errors.New("payment status must be pending or paid")
	ErrRecomputeNeedsBasic   = errors.New("basicSalary is required when changing employeeId, month or allowances; send paymentStatus alone to change only the status")
	ErrEmployeeEmailMissing  = errors.New("employee email address not found")
	ErrPayslipDeliveryFailed = errors.New("failed to send payslip email")
)
