package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrEmailExists      = errors.New("email already registered to another employee")
	ErrNoSalary         = errors.New("employee has no salary configured")
	ErrNoEmail          = errors.New("employee has no email address")
)
