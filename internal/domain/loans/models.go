package loans

import "time"

type Loan struct {
	ID                string    `json:"id"`
	EmployeeID        string    `json:"employeeId"`
	EmployeeName      string    `json:"employeeName,omitempty"`
	Principal         float64   `json:"principal"`
	InstallmentAmount float64   `json:"installmentAmount"`
	Remaining         float64   `json:"remaining"`
	StartDate         time.Time `json:"startDate"`
	EndDate           time.Time `json:"endDate"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Draft is a loan as submitted for creation. Remaining defaults to Principal.
type Draft struct {
	EmployeeID        string
	Principal         float64
	InstallmentAmount float64
	Remaining         *float64
	StartDate         time.Time
	EndDate           time.Time
	Status            string
}

// Patch carries the fields an update supplies; nil fields are left alone.
type Patch struct {
	Principal         *float64
	InstallmentAmount *float64
	Remaining         *float64
	StartDate         *time.Time
	EndDate           *time.Time
	Status            *string
}

func (p Patch) apply(l Loan) Loan {
	if p.Principal != nil {
		l.Principal = *p.Principal
	}
	if p.InstallmentAmount != nil {
		l.InstallmentAmount = *p.InstallmentAmount
	}
	if p.Remaining != nil {
		l.Remaining = *p.Remaining
	}
	if p.StartDate != nil {
		l.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		l.EndDate = *p.EndDate
	}
	if p.Status != nil {
		l.Status = *p.Status
	}
	return l
}

type Filter struct {
	EmployeeID   string
	EmployeeName string
	Status       string
}
