package payroll

import (
	"context"
	"time"

	"backoffice/internal/domain/attendance"
	"backoffice/internal/domain/core"
	"backoffice/internal/domain/loans"
)

type StoreAPI interface {
	CountSalaryRecords(ctx context.Context, filter Filter) (int, error)
	ListSalaryRecords(ctx context.Context, filter Filter, limit, offset int) ([]SalaryRecord, error)
	GetSalaryRecord(ctx context.Context, id string) (SalaryRecord, error)
	InsertSalaryRecord(ctx context.Context, rec SalaryRecord) (SalaryRecord, error)
	UpdateSalaryRecord(ctx context.Context, rec SalaryRecord) (SalaryRecord, error)
	DeleteSalaryRecord(ctx context.Context, id string) error
}

type AttendanceSource interface {
	InWindow(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Record, error)
}

type LoanSource interface {
	ActiveLoan(ctx context.Context, employeeID string) (*loans.Loan, error)
}

type EmployeeDirectory interface {
	GetEmployee(ctx context.Context, employeeID string) (core.Employee, error)
}
