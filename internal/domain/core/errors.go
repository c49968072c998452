package core

import "errors"

var (
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrEmployeeEmailTaken  = errors.New("employee email already in use")
	ErrEmployeeNameMissing = errors.New("employee name is required")
)
