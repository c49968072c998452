package auth

import "context"

const (
	RoleAdmin    = "admin"
	RoleHR       = "hr"
	RoleFinance  = "finance"
	RoleEmployee = "employee"
)

const (
	PermEmployeesRead   = "employees.read"
	PermEmployeesWrite  = "employees.write"
	PermAttendanceRead  = "attendance.read"
	PermAttendanceWrite = "attendance.write"
	PermLoansRead       = "loans.read"
	PermLoansWrite      = "loans.write"
	PermPayrollRead     = "payroll.read"
	PermPayrollWrite    = "payroll.write"
	PermSuppliersRead   = "suppliers.read"
	PermSuppliersWrite  = "suppliers.write"
	PermReportsRead     = "reports.read"
	PermAuditRead       = "audit.read"
)

var Roles = []string{RoleAdmin, RoleHR, RoleFinance, RoleEmployee}

var DefaultPermissions = []string{
	PermEmployeesRead,
	PermEmployeesWrite,
	PermAttendanceRead,
	PermAttendanceWrite,
	PermLoansRead,
	PermLoansWrite,
	PermPayrollRead,
	PermPayrollWrite,
	PermSuppliersRead,
	PermSuppliersWrite,
	PermReportsRead,
	PermAuditRead,
}

var RolePermissions = map[string][]string{
	RoleAdmin: DefaultPermissions,
	RoleHR: {
		PermEmployeesRead,
		PermEmployeesWrite,
		PermAttendanceRead,
		PermAttendanceWrite,
		PermLoansRead,
		PermLoansWrite,
		PermPayrollRead,
		PermReportsRead,
	},
	RoleFinance: {
		PermEmployeesRead,
		PermAttendanceRead,
		PermLoansRead,
		PermLoansWrite,
		PermPayrollRead,
		PermPayrollWrite,
		PermSuppliersRead,
		PermSuppliersWrite,
		PermReportsRead,
	},
	RoleEmployee: {
		PermEmployeesRead,
		PermAttendanceRead,
	},
}

// RolePermissionStore answers permission checks from RolePermissions.
type RolePermissionStore struct{}

func (RolePermissionStore) HasPermission(ctx context.Context, roleName, permission string) (bool, error) {
	for _, perm := range RolePermissions[roleName] {
		if perm == permission {
			return true, nil
		}
	}
	return false, nil
}

func IsValidRole(role string) bool {
	_, ok := RolePermissions[role]
	return ok
}
