package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlySummary is derived per employee per month and never persisted.
type MonthlySummary struct {
	EmployeeID            string
	Year                  int
	Month                 time.Month
	TotalWorkingDays      int
	TotalPresentDays      int
	TotalAbsentPaidDays   int
	TotalAbsentUnpaidDays int
	TotalPaidLeaveDays    int
	TotalUnpaidLeaveDays  int
	TotalNotMarkedDays    int
	AttendancePercentage  float64

	// OverRecordedDays counts recorded days beyond TotalWorkingDays (e.g. entries on a week-off day).
	OverRecordedDays int
}

// RecordedDays is the sum of the five stored-status buckets.
func (s MonthlySummary) RecordedDays() int {
	return s.TotalPresentDays + s.TotalAbsentPaidDays + s.TotalAbsentUnpaidDays +
		s.TotalPaidLeaveDays + s.TotalUnpaidLeaveDays
}

// SalaryBreakdown is computed from a MonthlySummary and the employee's monthly salary.
type SalaryBreakdown struct {
	EmployeeID         string
	Year               int
	Month              time.Month
	WorkingDaysInMonth int
	PerDaySalary       decimal.Decimal
	TotalPayableDays   int
	AbsentDays         int
	UnpaidLeaveDays    int
	TotalDeductions    decimal.Decimal
	GrossSalary        decimal.Decimal
	NetSalary          decimal.Decimal
}

const (
	DisplayHolidaysExcluded = "holidays_excluded"
	DisplayHolidaysIncluded = "holidays_included"
)

// SalaryDisplay is one presentation variant of a SalaryBreakdown.
type SalaryDisplay struct {
	Label           string
	IncludeHolidays bool
	HolidayDays     int
	PayableDays     int
	PayableAmount   decimal.Decimal
	TotalDeductions decimal.Decimal
	NetSalary       decimal.Decimal
}

// HolidayBreakdown counts week-off days and custom holidays for a month.
// Total deliberately counts a custom holiday on a week-off day twice.
type HolidayBreakdown struct {
	WeekendDays          int
	CustomHolidays       int
	HolidaysOnWeekoff    int
	HolidaysNotOnWeekoff int
	Total                int
}
