package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/shinelab/detailing-ops/internal/domain/attendance"
	"github.com/shinelab/detailing-ops/internal/domain/auth"
	"github.com/shinelab/detailing-ops/internal/domain/employee"
	"github.com/shinelab/detailing-ops/internal/domain/report"
	"github.com/shinelab/detailing-ops/internal/domain/user"
	"github.com/shinelab/detailing-ops/internal/pkg/email"
	"github.com/shinelab/detailing-ops/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrAccountInactive), errors.Is(err, user.ErrUserInactive):
		Forbidden(w, "Account is inactive")
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")

	// User domain errors
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrInvalidRole):
		BadRequest(w, "Invalid role", nil)
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")
	case errors.Is(err, user.ErrCannotChangeOwnRole):
		Forbidden(w, err.Error())

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "Email already registered to another employee")
	case errors.Is(err, employee.ErrNoSalary):
		Conflict(w, "Employee has no salary configured")
	case errors.Is(err, employee.ErrNoEmail):
		UnprocessableEntity(w, "NO_EMAIL", "Employee has no email address")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrHolidayNotFound):
		NotFound(w, "Holiday not found")
	case errors.Is(err, attendance.ErrHolidayExists):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrEmployeeInactive):
		Conflict(w, err.Error())

	// Report domain errors
	case errors.Is(err, report.ErrEmployeeNotActive):
		Conflict(w, err.Error())
	case errors.Is(err, report.ErrExportNotFound):
		NotFound(w, "Export not found")
	case errors.Is(err, email.ErrMailUnavailable), errors.Is(err, email.ErrMailNotConfigured):
		ServiceUnavailable(w, err.Error())

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
