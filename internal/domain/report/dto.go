package report

import (
	"github.com/shinelab/detailing-ops/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// FILTER
// ========================================

type ReportFilter struct {
	Year            int
	Month           int
	IncludeHolidays bool
}

func (f *ReportFilter) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidYear(f.Year) {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be between 2000 and 9999",
		})
	}
	if !validator.IsValidMonth(f.Month) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========================================
// MONTHLY REPORT
// ========================================

type MonthlyReport struct {
	Year             int                      `json:"year"`
	Month            int                      `json:"month"`
	PeriodStart      string                   `json:"period_start"`
	PeriodEnd        string                   `json:"period_end"`
	GeneratedAt      string                   `json:"generated_at"`
	Currency         string                   `json:"currency"`
	IncludeHolidays  bool                     `json:"include_holidays"`
	WorkingDays      []int                    `json:"working_days"`
	HolidayBreakdown HolidayBreakdownResponse `json:"holiday_breakdown"`
	Employees        []EmployeeReport         `json:"employees"`
	Totals           ReportTotals             `json:"totals"`
	Warnings         []string                 `json:"warnings"`
}

type ReportTotals struct {
	Employees          int             `json:"employees"`
	EmployeesOnPayroll int             `json:"employees_on_payroll"`
	GrossSalary        decimal.Decimal `json:"gross_salary"`
	TotalDeductions    decimal.Decimal `json:"total_deductions"`
	NetSalary          decimal.Decimal `json:"net_salary"`
	SelectedNetSalary  decimal.Decimal `json:"selected_net_salary"`
}

type EmployeeInfo struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      *string `json:"email,omitempty"`
	Department string  `json:"department"`
	Position   string  `json:"position"`
	JobStatus  string  `json:"job_status"`
}

type EmployeeReport struct {
	Employee EmployeeInfo    `json:"employee"`
	Summary  SummaryResponse `json:"summary"`
	Salary   *SalaryResponse `json:"salary,omitempty"`
	Warnings []string        `json:"warnings,omitempty"`
}

type SummaryResponse struct {
	TotalWorkingDays      int     `json:"total_working_days"`
	TotalPresentDays      int     `json:"total_present_days"`
	TotalAbsentPaidDays   int     `json:"total_absent_paid_days"`
	TotalAbsentUnpaidDays int     `json:"total_absent_unpaid_days"`
	TotalPaidLeaveDays    int     `json:"total_paid_leave_days"`
	TotalUnpaidLeaveDays  int     `json:"total_unpaid_leave_days"`
	TotalNotMarkedDays    int     `json:"total_not_marked_days"`
	AttendancePercentage  float64 `json:"attendance_percentage"`
	OverRecordedDays      int     `json:"over_recorded_days,omitempty"`
}

type SalaryResponse struct {
	WorkingDaysInMonth int             `json:"working_days_in_month"`
	PerDaySalary       decimal.Decimal `json:"per_day_salary"`
	TotalPayableDays   int             `json:"total_payable_days"`
	AbsentDays         int             `json:"absent_days"`
	UnpaidLeaveDays    int             `json:"unpaid_leave_days"`
	TotalDeductions    decimal.Decimal `json:"total_deductions"`
	GrossSalary        decimal.Decimal `json:"gross_salary"`
	NetSalary          decimal.Decimal `json:"net_salary"`
	Display            SalaryDisplays  `json:"display"`
}

// SalaryDisplays always carries both holiday variants plus the one the caller selected.
type SalaryDisplays struct {
	HolidaysExcluded DisplayResponse `json:"holidays_excluded"`
	HolidaysIncluded DisplayResponse `json:"holidays_included"`
	Selected         DisplayResponse `json:"selected"`
}

type DisplayResponse struct {
	Label           string          `json:"label"`
	HolidayDays     int             `json:"holiday_days"`
	PayableDays     int             `json:"payable_days"`
	PayableAmount   decimal.Decimal `json:"payable_amount"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetSalary       decimal.Decimal `json:"net_salary"`
}

type HolidayBreakdownResponse struct {
	WeekendDays          int `json:"weekend_days"`
	CustomHolidays       int `json:"custom_holidays"`
	HolidaysOnWeekoff    int `json:"holidays_on_weekoff"`
	HolidaysNotOnWeekoff int `json:"holidays_not_on_weekoff"`
	Total                int `json:"total"`
}

// ========================================
// SINGLE EMPLOYEE
// ========================================

type EmployeeReportResponse struct {
	Year             int                      `json:"year"`
	Month            int                      `json:"month"`
	Currency         string                   `json:"currency"`
	IncludeHolidays  bool                     `json:"include_holidays"`
	HolidayBreakdown HolidayBreakdownResponse `json:"holiday_breakdown"`
	EmployeeReport
}

// ========================================
// EXPORT
// ========================================

type ExportFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

type StoredExport struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	URL        string `json:"url"`
	Size       int64  `json:"size"`
	ModifiedAt string `json:"modified_at"`
}

// ========================================
// PAYSLIP
// ========================================

type PayslipResponse struct {
	EmployeeID string          `json:"employee_id"`
	SentTo     string          `json:"sent_to"`
	Year       int             `json:"year"`
	Month      int             `json:"month"`
	NetSalary  decimal.Decimal `json:"net_salary"`
}
