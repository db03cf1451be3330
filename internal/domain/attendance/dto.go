package attendance

import (
	"strings"
	"time"

	"github.com/shinelab/detailing-ops/internal/pkg/validator"
)

// ========== RECORD DTOs ==========

type UpsertRecordRequest struct {
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"`
	Status     string  `json:"status"`
	Note       *string `json:"note,omitempty"`
}

func (r *UpsertRecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	} else if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "must be a valid UUID"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "must be a valid date in YYYY-MM-DD format"})
	}
	if !Status(r.Status).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be one of present, absent-paid, absent-unpaid, paid-leave, unpaid-leave"})
	}
	if r.Note != nil && len(*r.Note) > 500 {
		errs = append(errs, validator.ValidationError{Field: "note", Message: "must be at most 500 characters"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// MonthFilter selects one employee's records for a calendar month.
type MonthFilter struct {
	EmployeeID string
	Year       int
	Month      int
}

func (f *MonthFilter) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(f.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	} else if !validator.IsValidUUID(f.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "must be a valid UUID"})
	}
	if !validator.IsValidYear(f.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be between 2000 and 9999"})
	}
	if !validator.IsValidMonth(f.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RecordResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName *string `json:"employee_name,omitempty"`
	Date         string  `json:"date"`
	Status       string  `json:"status"`
	Note         *string `json:"note,omitempty"`
	MarkedBy     *string `json:"marked_by,omitempty"`
	UpdatedAt    string  `json:"updated_at"`
}

func ToRecordResponse(r DailyRecord) RecordResponse {
	return RecordResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName,
		Date:         r.Date.Format(DateLayout),
		Status:       string(r.Status),
		Note:         r.Note,
		MarkedBy:     r.MarkedBy,
		UpdatedAt:    r.UpdatedAt.Format(time.RFC3339),
	}
}

type ClearMonthResponse struct {
	EmployeeID string `json:"employee_id"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	Deleted    int64  `json:"deleted"`
}

// ImportResult reports the outcome of a spreadsheet import. Row numbers are 1-based
// and count the header row.
type ImportResult struct {
	Imported int              `json:"imported"`
	Skipped  int              `json:"skipped"`
	Errors   []ImportRowError `json:"errors"`
}

type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ========== SETTINGS DTOs ==========

type SettingsResponse struct {
	WorkingDays []int     `json:"working_days"`
	WeekendDays []string  `json:"weekend_days"`
	Holidays    []Holiday `json:"holidays"`
	UpdatedAt   *string   `json:"updated_at,omitempty"`
}

func ToSettingsResponse(s Settings) SettingsResponse {
	resp := SettingsResponse{
		WorkingDays: s.WorkingDays,
		WeekendDays: s.WeekendDays,
		Holidays:    s.Holidays,
	}
	if resp.WorkingDays == nil {
		resp.WorkingDays = []int{}
	}
	if resp.WeekendDays == nil {
		resp.WeekendDays = []string{}
	}
	if resp.Holidays == nil {
		resp.Holidays = []Holiday{}
	}
	if !s.UpdatedAt.IsZero() {
		updatedAt := s.UpdatedAt.Format(time.RFC3339)
		resp.UpdatedAt = &updatedAt
	}
	return resp
}

type UpdateSettingsRequest struct {
	WorkingDays *[]int     `json:"working_days,omitempty"`
	WeekendDays *[]string  `json:"weekend_days,omitempty"`
	Holidays    *[]Holiday `json:"holidays,omitempty"`
}

func (r *UpdateSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.WorkingDays != nil {
		for _, d := range *r.WorkingDays {
			if d < 0 || d > 6 {
				errs = append(errs, validator.ValidationError{Field: "working_days", Message: "each day must be between 0 (Sunday) and 6 (Saturday)"})
				break
			}
		}
	}
	if r.WeekendDays != nil {
		for _, name := range *r.WeekendDays {
			if _, ok := validator.ParseWeekdayName(name); !ok {
				errs = append(errs, validator.ValidationError{Field: "weekend_days", Message: "must contain English weekday names"})
				break
			}
		}
	}
	if r.Holidays != nil {
		seen := make(map[string]bool)
		for _, h := range *r.Holidays {
			if _, ok := validator.IsValidDate(h.Date); !ok {
				errs = append(errs, validator.ValidationError{Field: "holidays", Message: "each holiday date must be in YYYY-MM-DD format"})
				break
			}
			if seen[h.Date] {
				errs = append(errs, validator.ValidationError{Field: "holidays", Message: "holiday dates must be unique"})
				break
			}
			seen[h.Date] = true
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AddHolidayRequest struct {
	Date  string `json:"date"`
	Label string `json:"label"`
}

func (r *AddHolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "must be a valid date in YYYY-MM-DD format"})
	}
	if validator.IsEmpty(r.Label) {
		errs = append(errs, validator.ValidationError{Field: "label", Message: "is required"})
	} else if len(strings.TrimSpace(r.Label)) > 100 {
		errs = append(errs, validator.ValidationError{Field: "label", Message: "must be at most 100 characters"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
