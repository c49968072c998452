package core

const (
	EmployeeStatusActive   = "active"
	EmployeeStatusInactive = "inactive"

	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

var EmployeeStatuses = []string{EmployeeStatusActive, EmployeeStatusInactive}
