package attendance

import "github.com/shopspring/decimal"

// PayableView renders a SalaryBreakdown for display. holidayDays is the number of custom
// holidays that fell on working weekdays; it is only added when includeHolidays is set.
// The canonical breakdown is never modified.
func PayableView(b SalaryBreakdown, holidayDays int, includeHolidays bool) SalaryDisplay {
	view := SalaryDisplay{
		Label:           DisplayHolidaysExcluded,
		IncludeHolidays: includeHolidays,
		PayableDays:     b.TotalPayableDays,
		TotalDeductions: b.TotalDeductions,
	}
	if includeHolidays {
		view.Label = DisplayHolidaysIncluded
		view.HolidayDays = holidayDays
		view.PayableDays += holidayDays
	}

	view.PayableAmount = decimal.NewFromInt(int64(view.PayableDays)).Mul(b.PerDaySalary)
	view.NetSalary = view.PayableAmount.Sub(b.TotalDeductions)
	return view
}
