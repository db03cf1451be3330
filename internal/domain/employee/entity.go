package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID         string
	Name       string
	Email      *string
	Department string
	Position   string
	JobStatus  JobStatus
	Status     Status
	Salary     *decimal.Decimal // monthly base, nil when not configured
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type JobStatus string

const (
	JobStatusFullTime  JobStatus = "full-time"
	JobStatusPartTime  JobStatus = "part-time"
	JobStatusFreelance JobStatus = "freelance"
)

var JobStatuses = []string{string(JobStatusFullTime), string(JobStatusPartTime), string(JobStatusFreelance)}

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

var Statuses = []string{string(StatusActive), string(StatusInactive)}

// IsActive reports whether the employee is included in monthly reporting.
func (e *Employee) IsActive() bool {
	return e.Status == StatusActive
}

// HasSalary reports whether a monthly salary has been configured.
func (e *Employee) HasSalary() bool {
	return e.Salary != nil
}
