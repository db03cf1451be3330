package attendance

import "errors"

var (
	ErrSettingsNotFound = errors.New("attendance settings not found")
	ErrHolidayNotFound  = errors.New("holiday not found")
	ErrHolidayExists    = errors.New("a holiday already exists on this date")
	ErrEmployeeInactive = errors.New("attendance can only be recorded for active employees")
)
