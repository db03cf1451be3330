package report

import (
	"time"

	"github.com/shinelab/detailing-ops/internal/domain/attendance"
	"github.com/shinelab/detailing-ops/internal/domain/employee"
	"github.com/shinelab/detailing-ops/internal/domain/report"
	"github.com/shopspring/decimal"
)

// money rounds an amount for presentation. Calculations keep full precision.
func money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func toEmployeeInfo(e employee.Employee) report.EmployeeInfo {
	return report.EmployeeInfo{
		ID:         e.ID,
		Name:       e.Name,
		Email:      e.Email,
		Department: e.Department,
		Position:   e.Position,
		JobStatus:  string(e.JobStatus),
	}
}

func toSummaryResponse(s attendance.MonthlySummary) report.SummaryResponse {
	return report.SummaryResponse{
		TotalWorkingDays:      s.TotalWorkingDays,
		TotalPresentDays:      s.TotalPresentDays,
		TotalAbsentPaidDays:   s.TotalAbsentPaidDays,
		TotalAbsentUnpaidDays: s.TotalAbsentUnpaidDays,
		TotalPaidLeaveDays:    s.TotalPaidLeaveDays,
		TotalUnpaidLeaveDays:  s.TotalUnpaidLeaveDays,
		TotalNotMarkedDays:    s.TotalNotMarkedDays,
		AttendancePercentage:  s.AttendancePercentage,
		OverRecordedDays:      s.OverRecordedDays,
	}
}

func toDisplayResponse(d attendance.SalaryDisplay) report.DisplayResponse {
	return report.DisplayResponse{
		Label:           d.Label,
		HolidayDays:     d.HolidayDays,
		PayableDays:     d.PayableDays,
		PayableAmount:   money(d.PayableAmount),
		TotalDeductions: money(d.TotalDeductions),
		NetSalary:       money(d.NetSalary),
	}
}

// ========================================
// WORKBOOK SHEETS
// ========================================

var summaryHeaders = []string{
	"Employee", "Department", "Position", "Working Days", "Present", "Absent (Paid)",
	"Absent (Unpaid)", "Paid Leave", "Unpaid Leave", "Not Marked", "Attendance %",
}

func summaryRows(r report.MonthlyReport) [][]interface{} {
	rows := make([][]interface{}, 0, len(r.Employees))
	for _, e := range r.Employees {
		s := e.Summary
		rows = append(rows, []interface{}{
			e.Employee.Name, e.Employee.Department, e.Employee.Position,
			s.TotalWorkingDays, s.TotalPresentDays, s.TotalAbsentPaidDays,
			s.TotalAbsentUnpaidDays, s.TotalPaidLeaveDays, s.TotalUnpaidLeaveDays,
			s.TotalNotMarkedDays, s.AttendancePercentage,
		})
	}
	return rows
}

func salaryHeaders(currency string) []string {
	return []string{
		"Employee",
		"Gross Salary (" + currency + ")",
		"Per Day (" + currency + ")",
		"Payable Days",
		"Deductions (" + currency + ")",
		"Net Salary (" + currency + ")",
		"Holiday Days",
		"Net Incl. Holidays (" + currency + ")",
	}
}

// salaryRows lists employees with a configured salary, followed by a totals row.
func salaryRows(r report.MonthlyReport) [][]interface{} {
	var rows [][]interface{}
	for _, e := range r.Employees {
		if e.Salary == nil {
			continue
		}
		sal := e.Salary
		rows = append(rows, []interface{}{
			e.Employee.Name,
			sal.GrossSalary.InexactFloat64(),
			sal.PerDaySalary.InexactFloat64(),
			sal.TotalPayableDays,
			sal.TotalDeductions.InexactFloat64(),
			sal.NetSalary.InexactFloat64(),
			sal.Display.HolidaysIncluded.HolidayDays,
			sal.Display.HolidaysIncluded.NetSalary.InexactFloat64(),
		})
	}
	rows = append(rows, []interface{}{
		"Total",
		r.Totals.GrossSalary.InexactFloat64(),
		"",
		"",
		r.Totals.TotalDeductions.InexactFloat64(),
		r.Totals.NetSalary.InexactFloat64(),
		"",
		"",
	})
	return rows
}

var holidayHeaders = []string{"Date", "Weekday", "Label"}

func holidayRows(settings attendance.Settings, year int, month time.Month, b report.HolidayBreakdownResponse) [][]interface{} {
	labels := make(map[string]string, len(settings.Holidays))
	for _, h := range settings.Holidays {
		labels[h.Date] = h.Label
	}

	var rows [][]interface{}
	for _, d := range settings.HolidayDatesIn(year, month) {
		key := d.Format(attendance.DateLayout)
		rows = append(rows, []interface{}{key, d.Weekday().String(), labels[key]})
	}

	rows = append(rows,
		[]interface{}{},
		[]interface{}{"Week-off days", b.WeekendDays},
		[]interface{}{"Custom holidays", b.CustomHolidays},
		[]interface{}{"Holidays on week-off", b.HolidaysOnWeekoff},
		[]interface{}{"Holidays on working days", b.HolidaysNotOnWeekoff},
		[]interface{}{"Total", b.Total},
	)
	return rows
}
