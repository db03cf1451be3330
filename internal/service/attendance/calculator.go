package attendance

import (
	"math"
	"strings"
	"time"

	"github.com/shinelab/detailing-ops/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

var defaultWorkingDays = []int{1, 2, 3, 4, 5}

// Calculator derives monthly summaries and salary figures from data already in memory.
// It performs no I/O and never fails.
type Calculator struct {
}

func NewCalculator() *Calculator {
	return &Calculator{}
}

// Summarize tallies one employee's records for a month. Records for another employee,
// outside the month or with an unknown status are ignored. Duplicate (employee, date)
// records collapse to the last one in input order.
func (c *Calculator) Summarize(
	employeeID string,
	year int,
	month time.Month,
	records []attendance.DailyRecord,
	holidayDates []time.Time,
	workingDayIndices []int,
) attendance.MonthlySummary {
	summary := attendance.MonthlySummary{
		EmployeeID:       employeeID,
		Year:             year,
		Month:            month,
		TotalWorkingDays: c.WorkingDays(year, month, holidayDates, workingDayIndices),
	}

	latest := make(map[string]attendance.Status, len(records))
	for _, r := range records {
		if r.EmployeeID != employeeID {
			continue
		}
		if r.Date.Year() != year || r.Date.Month() != month {
			continue
		}
		if !r.Status.IsValid() {
			continue
		}
		latest[attendance.RecordKey(r.EmployeeID, r.Date)] = r.Status
	}

	for _, status := range latest {
		switch status {
		case attendance.StatusPresent:
			summary.TotalPresentDays++
		case attendance.StatusAbsentPaid:
			summary.TotalAbsentPaidDays++
		case attendance.StatusAbsentUnpaid:
			summary.TotalAbsentUnpaidDays++
		case attendance.StatusPaidLeave:
			summary.TotalPaidLeaveDays++
		case attendance.StatusUnpaidLeave:
			summary.TotalUnpaidLeaveDays++
		}
	}

	recorded := summary.RecordedDays()
	summary.TotalNotMarkedDays = max(0, summary.TotalWorkingDays-recorded)
	summary.OverRecordedDays = max(0, recorded-summary.TotalWorkingDays)

	if summary.TotalWorkingDays > 0 {
		pct := float64(summary.TotalPresentDays) / float64(summary.TotalWorkingDays) * 100
		summary.AttendancePercentage = math.Round(pct*100) / 100
	}

	return summary
}

// WorkingDays counts the days of the month on a working weekday that are not holidays.
// An empty index list means Monday to Friday.
func (c *Calculator) WorkingDays(year int, month time.Month, holidayDates []time.Time, workingDayIndices []int) int {
	working := weekdaySet(workingDayIndices)
	holidays := dateSet(year, month, holidayDates)

	count := 0
	start, end := attendance.MonthRange(year, month)
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		if working[d.Weekday()] && !holidays[d.Format(attendance.DateLayout)] {
			count++
		}
	}
	return count
}

// HolidaysOnWorkingDays counts the distinct holidays in the month that fall on a working
// weekday, which are exactly the days WorkingDays removed.
func (c *Calculator) HolidaysOnWorkingDays(year int, month time.Month, holidayDates []time.Time, workingDayIndices []int) int {
	working := weekdaySet(workingDayIndices)

	count := 0
	for key := range dateSet(year, month, holidayDates) {
		d, _ := time.Parse(attendance.DateLayout, key)
		if working[d.Weekday()] {
			count++
		}
	}
	return count
}

// CalculateSalary prorates monthlySalary over the summary's working days. Callers skip
// employees without a configured salary.
func (c *Calculator) CalculateSalary(
	employeeID string,
	year int,
	month time.Month,
	monthlySalary decimal.Decimal,
	summary attendance.MonthlySummary,
) attendance.SalaryBreakdown {
	b := attendance.SalaryBreakdown{
		EmployeeID:         employeeID,
		Year:               year,
		Month:              month,
		WorkingDaysInMonth: summary.TotalWorkingDays,
		PerDaySalary:       decimal.Zero,
		TotalPayableDays:   summary.TotalPresentDays + summary.TotalPaidLeaveDays + summary.TotalAbsentPaidDays,
		AbsentDays:         summary.TotalAbsentUnpaidDays,
		UnpaidLeaveDays:    summary.TotalUnpaidLeaveDays,
		GrossSalary:        monthlySalary,
	}

	if b.WorkingDaysInMonth > 0 {
		b.PerDaySalary = monthlySalary.Div(decimal.NewFromInt(int64(b.WorkingDaysInMonth)))
	}

	b.TotalDeductions = decimal.NewFromInt(int64(b.AbsentDays + b.UnpaidLeaveDays)).Mul(b.PerDaySalary)
	b.NetSalary = decimal.NewFromInt(int64(b.TotalPayableDays)).Mul(b.PerDaySalary).Sub(b.TotalDeductions)

	return b
}

// HolidayBreakdown counts week-off days and custom holidays in the month. Weekday names
// match case-insensitively and holidays with an unparseable date are skipped.
// Total is WeekendDays + CustomHolidays, so a holiday on a week-off day counts twice.
func (c *Calculator) HolidayBreakdown(
	year int,
	month time.Month,
	weekendDayNames []string,
	holidays []attendance.Holiday,
) attendance.HolidayBreakdown {
	weekend := make(map[string]bool, len(weekendDayNames))
	for _, name := range weekendDayNames {
		weekend[strings.ToLower(strings.TrimSpace(name))] = true
	}
	isWeekoff := func(d time.Time) bool {
		return weekend[strings.ToLower(d.Weekday().String())]
	}

	var hb attendance.HolidayBreakdown

	start, end := attendance.MonthRange(year, month)
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		if isWeekoff(d) {
			hb.WeekendDays++
		}
	}

	seen := make(map[string]bool, len(holidays))
	for _, h := range holidays {
		d, err := time.Parse(attendance.DateLayout, strings.TrimSpace(h.Date))
		if err != nil {
			continue
		}
		if d.Year() != year || d.Month() != month {
			continue
		}
		key := d.Format(attendance.DateLayout)
		if seen[key] {
			continue
		}
		seen[key] = true

		hb.CustomHolidays++
		if isWeekoff(d) {
			hb.HolidaysOnWeekoff++
		}
	}

	hb.HolidaysNotOnWeekoff = hb.CustomHolidays - hb.HolidaysOnWeekoff
	hb.Total = hb.WeekendDays + hb.CustomHolidays

	return hb
}

func weekdaySet(indices []int) map[time.Weekday]bool {
	if len(indices) == 0 {
		indices = defaultWorkingDays
	}
	set := make(map[time.Weekday]bool, 7)
	for _, i := range indices {
		if i < 0 || i > 6 {
			continue
		}
		set[time.Weekday(i)] = true
	}
	return set
}

func dateSet(year int, month time.Month, dates []time.Time) map[string]bool {
	set := make(map[string]bool, len(dates))
	for _, d := range dates {
		if d.Year() != year || d.Month() != month {
			continue
		}
		set[d.Format(attendance.DateLayout)] = true
	}
	return set
}
