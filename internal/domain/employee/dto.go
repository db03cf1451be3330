package employee

import (
	"time"

	"github.com/shinelab/detailing-ops/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type EmployeeResponse struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Email      *string          `json:"email,omitempty"`
	Department string           `json:"department"`
	Position   string           `json:"position"`
	JobStatus  string           `json:"job_status"`
	Status     string           `json:"status"`
	Salary     *decimal.Decimal `json:"salary,omitempty"`
	CreatedAt  string           `json:"created_at"`
	UpdatedAt  string           `json:"updated_at"`
}

func ToEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:         e.ID,
		Name:       e.Name,
		Email:      e.Email,
		Department: e.Department,
		Position:   e.Position,
		JobStatus:  string(e.JobStatus),
		Status:     string(e.Status),
		Salary:     e.Salary,
		CreatedAt:  e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  e.UpdatedAt.Format(time.RFC3339),
	}
}

type EmployeeFilter struct {
	Status     *string
	Department *string
}

func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil && !validator.IsInSlice(*f.Status, Statuses) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be 'active' or 'inactive'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CreateEmployeeRequest struct {
	Name       string           `json:"name"`
	Email      *string          `json:"email,omitempty"`
	Department string           `json:"department"`
	Position   string           `json:"position"`
	JobStatus  string           `json:"job_status"`
	Status     string           `json:"status"`
	Salary     *decimal.Decimal `json:"salary,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	} else if len(r.Name) > 255 {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "must not exceed 255 characters"})
	}
	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "must be a valid email address"})
	}
	if validator.IsEmpty(r.Department) {
		errs = append(errs, validator.ValidationError{Field: "department", Message: "is required"})
	}
	if validator.IsEmpty(r.Position) {
		errs = append(errs, validator.ValidationError{Field: "position", Message: "is required"})
	}
	if !validator.IsInSlice(r.JobStatus, JobStatuses) {
		errs = append(errs, validator.ValidationError{Field: "job_status", Message: "must be one of full-time, part-time, freelance"})
	}
	if r.Status != "" && !validator.IsInSlice(r.Status, Statuses) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be 'active' or 'inactive'"})
	}
	if r.Salary != nil && r.Salary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "salary", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateEmployeeRequest struct {
	ID          string           `json:"-"`
	Name        *string          `json:"name,omitempty"`
	Email       *string          `json:"email,omitempty"`
	Department  *string          `json:"department,omitempty"`
	Position    *string          `json:"position,omitempty"`
	JobStatus   *string          `json:"job_status,omitempty"`
	Status      *string          `json:"status,omitempty"`
	Salary      *decimal.Decimal `json:"salary,omitempty"`
	ClearSalary bool             `json:"clear_salary,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "must be a valid UUID"})
	}
	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "must not be empty"})
	}
	if r.Email != nil && *r.Email != "" && !validator.IsValidEmail(*r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "must be a valid email address"})
	}
	if r.Department != nil && validator.IsEmpty(*r.Department) {
		errs = append(errs, validator.ValidationError{Field: "department", Message: "must not be empty"})
	}
	if r.Position != nil && validator.IsEmpty(*r.Position) {
		errs = append(errs, validator.ValidationError{Field: "position", Message: "must not be empty"})
	}
	if r.JobStatus != nil && !validator.IsInSlice(*r.JobStatus, JobStatuses) {
		errs = append(errs, validator.ValidationError{Field: "job_status", Message: "must be one of full-time, part-time, freelance"})
	}
	if r.Status != nil && !validator.IsInSlice(*r.Status, Statuses) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be 'active' or 'inactive'"})
	}
	if r.Salary != nil && r.Salary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "salary", Message: "must be non-negative"})
	}
	if r.Salary != nil && r.ClearSalary {
		errs = append(errs, validator.ValidationError{Field: "clear_salary", Message: "cannot be combined with salary"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
