package core

import "time"

type Employee struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Designation string    `json:"designation"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DisplayDesignation falls back to "N/A" for employees without a title.
func (e Employee) DisplayDesignation() string {
	if e.Designation == "" {
		return "N/A"
	}
	return e.Designation
}

type EmployeeFilter struct {
	Search string
	Status string
}
