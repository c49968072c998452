package payroll

import "time"

// SalaryRecord is the stored result of one employee-month calculation.
type SalaryRecord struct {
	ID                  string  `json:"id"`
	EmployeeID          string  `json:"employeeId"`
	EmployeeName        string  `json:"employeeName,omitempty"`
	EmployeeEmail       string  `json:"employeeEmail,omitempty"`
	EmployeeDesignation string  `json:"-"`
	Month               string  `json:"month"`
	BasicSalary         float64 `json:"basicSalary"`
	Allowances          float64 `json:"allowances"`

	Breakdown

	PaymentStatus string    `json:"paymentStatus"`
	IsPayable     bool      `json:"isPayable"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (r SalaryRecord) Inputs() Inputs {
	return Inputs{BasicSalary: r.BasicSalary, Allowances: r.Allowances}
}

type CreateInput struct {
	EmployeeID  string
	Month       string
	BasicSalary float64
	Allowances  float64
}

// UpdateInput carries the fields an update supplies; nil fields are left alone.
type UpdateInput struct {
	EmployeeID    *string
	Month         *string
	BasicSalary   *float64
	Allowances    *float64
	PaymentStatus *string
}

func (u UpdateInput) touchesInputs() bool {
	return u.EmployeeID != nil || u.Month != nil || u.Allowances != nil
}

type Filter struct {
	EmployeeID    string
	EmployeeName  string
	Month         string
	PaymentStatus string
}
