package report

import "errors"

var (
	ErrEmployeeNotActive = errors.New("reports are only available for active employees")
	ErrExportNotFound    = errors.New("export not found")
)
