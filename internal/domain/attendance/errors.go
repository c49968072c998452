package attendance

import "errors"

var (
	ErrInvalidShift     = errors.New("check out must be after check in")
	ErrEmployeeRequired = errors.New("employee id is required")
)
