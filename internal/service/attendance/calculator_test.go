package attendance

import (
	"testing"
	"time"

	"github.com/shinelab/detailing-ops/internal/domain/attendance"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEmployeeID = "0192d4e0-7b1a-7c3e-8f00-000000000001"

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func record(employeeID string, d time.Time, status attendance.Status) attendance.DailyRecord {
	return attendance.DailyRecord{EmployeeID: employeeID, Date: d, Status: status}
}

// weekdaysOf returns the Monday to Friday dates of the month minus the given holidays.
func weekdaysOf(year int, month time.Month, holidays ...time.Time) []time.Time {
	skip := make(map[string]bool)
	for _, h := range holidays {
		skip[h.Format(attendance.DateLayout)] = true
	}
	var days []time.Time
	start, end := attendance.MonthRange(year, month)
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday || skip[d.Format(attendance.DateLayout)] {
			continue
		}
		days = append(days, d)
	}
	return days
}

// Test working day counting
func TestCalculator_WorkingDays(t *testing.T) {
	c := NewCalculator()

	tests := []struct {
		name     string
		year     int
		month    time.Month
		holidays []time.Time
		indices  []int
		expected int
	}{
		{"october 2024 defaults", 2024, time.October, nil, nil, 23},
		{"leap february 2024", 2024, time.February, nil, nil, 21},
		{"explicit mon-fri", 2024, time.October, nil, []int{1, 2, 3, 4, 5}, 23},
		{"weekday holiday removed", 2024, time.October, []time.Time{date(2024, 10, 15)}, nil, 22},
		{"weekend holiday ignored", 2024, time.October, []time.Time{date(2024, 10, 5)}, nil, 23},
		{"holiday in other month ignored", 2024, time.October, []time.Time{date(2024, 11, 15)}, nil, 23},
		{"duplicate holiday counts once", 2024, time.October, []time.Time{date(2024, 10, 15), date(2024, 10, 15)}, nil, 22},
		{"duplicate indices count once", 2024, time.October, nil, []int{1, 1, 2, 3, 4, 5, 5}, 23},
		{"out of range indices ignored", 2024, time.October, nil, []int{1, 2, 3, 4, 5, 7, -1}, 23},
		{"six day week", 2024, time.October, nil, []int{1, 2, 3, 4, 5, 6}, 27},
		{"only invalid indices", 2024, time.October, nil, []int{9}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.WorkingDays(tt.year, tt.month, tt.holidays, tt.indices))
		})
	}
}

// Test a month without records is entirely not marked
func TestCalculator_Summarize_NoRecords(t *testing.T) {
	c := NewCalculator()

	summary := c.Summarize(testEmployeeID, 2024, time.October, nil, nil, nil)

	assert.Equal(t, 23, summary.TotalWorkingDays)
	assert.Equal(t, 23, summary.TotalNotMarkedDays)
	assert.Equal(t, 0, summary.RecordedDays())
	assert.Equal(t, 0.0, summary.AttendancePercentage)
	assert.Equal(t, 0, summary.OverRecordedDays)
	assert.Equal(t, testEmployeeID, summary.EmployeeID)
	assert.Equal(t, 2024, summary.Year)
	assert.Equal(t, time.October, summary.Month)
}

// Test buckets and not-marked days partition the working days
func TestCalculator_Summarize_Partition(t *testing.T) {
	c := NewCalculator()
	days := weekdaysOf(2024, time.October)
	statuses := attendance.Statuses

	for n := 0; n <= len(days); n++ {
		var records []attendance.DailyRecord
		for i := 0; i < n; i++ {
			records = append(records, record(testEmployeeID, days[i], statuses[i%len(statuses)]))
		}

		summary := c.Summarize(testEmployeeID, 2024, time.October, records, nil, nil)

		assert.Equal(t, n, summary.RecordedDays())
		assert.Equal(t, summary.TotalWorkingDays, summary.RecordedDays()+summary.TotalNotMarkedDays)
		assert.GreaterOrEqual(t, summary.TotalNotMarkedDays, 0)
		assert.Equal(t, 0, summary.OverRecordedDays)
	}
}

// Test records beyond the working days clamp not-marked at zero and are reported
func TestCalculator_Summarize_OverRecorded(t *testing.T) {
	c := NewCalculator()
	var records []attendance.DailyRecord
	for _, d := range weekdaysOf(2024, time.October) {
		records = append(records, record(testEmployeeID, d, attendance.StatusPresent))
	}
	// Saturday entries
	records = append(records,
		record(testEmployeeID, date(2024, 10, 5), attendance.StatusPresent),
		record(testEmployeeID, date(2024, 10, 12), attendance.StatusPaidLeave),
	)

	summary := c.Summarize(testEmployeeID, 2024, time.October, records, nil, nil)

	assert.Equal(t, 23, summary.TotalWorkingDays)
	assert.Equal(t, 24, summary.TotalPresentDays)
	assert.Equal(t, 1, summary.TotalPaidLeaveDays)
	assert.Equal(t, 0, summary.TotalNotMarkedDays)
	assert.Equal(t, 2, summary.OverRecordedDays)
	assert.Equal(t, 104.35, summary.AttendancePercentage)
}

// Test the last duplicate record for a date wins
func TestCalculator_Summarize_DuplicateLastWins(t *testing.T) {
	c := NewCalculator()
	records := []attendance.DailyRecord{
		record(testEmployeeID, date(2024, 10, 1), attendance.StatusPresent),
		record(testEmployeeID, date(2024, 10, 2), attendance.StatusPresent),
		record(testEmployeeID, date(2024, 10, 1), attendance.StatusAbsentUnpaid),
	}

	summary := c.Summarize(testEmployeeID, 2024, time.October, records, nil, nil)

	assert.Equal(t, 1, summary.TotalPresentDays)
	assert.Equal(t, 1, summary.TotalAbsentUnpaidDays)
	assert.Equal(t, 2, summary.RecordedDays())
	assert.Equal(t, 21, summary.TotalNotMarkedDays)
}

// Test foreign, out-of-month and unknown-status records are ignored
func TestCalculator_Summarize_IgnoresStrayRecords(t *testing.T) {
	c := NewCalculator()
	records := []attendance.DailyRecord{
		record("0192d4e0-7b1a-7c3e-8f00-000000000002", date(2024, 10, 1), attendance.StatusPresent),
		record(testEmployeeID, date(2024, 9, 30), attendance.StatusPresent),
		record(testEmployeeID, date(2023, 10, 1), attendance.StatusPresent),
		record(testEmployeeID, date(2024, 10, 2), attendance.Status("late")),
		record(testEmployeeID, date(2024, 10, 3), attendance.Status("")),
		record(testEmployeeID, date(2024, 10, 4), attendance.StatusAbsentPaid),
	}

	summary := c.Summarize(testEmployeeID, 2024, time.October, records, nil, nil)

	assert.Equal(t, 1, summary.RecordedDays())
	assert.Equal(t, 1, summary.TotalAbsentPaidDays)
	assert.Equal(t, 22, summary.TotalNotMarkedDays)
}

// Test a month with no working days yields zero percentage
func TestCalculator_Summarize_ZeroWorkingDays(t *testing.T) {
	c := NewCalculator()
	records := []attendance.DailyRecord{
		record(testEmployeeID, date(2024, 10, 1), attendance.StatusPresent),
	}

	summary := c.Summarize(testEmployeeID, 2024, time.October, records, nil, []int{42})

	assert.Equal(t, 0, summary.TotalWorkingDays)
	assert.Equal(t, 0, summary.TotalNotMarkedDays)
	assert.Equal(t, 1, summary.OverRecordedDays)
	assert.Equal(t, 0.0, summary.AttendancePercentage)
}

// Test percentage rounding to two decimals
func TestCalculator_Summarize_PercentageRounding(t *testing.T) {
	c := NewCalculator()
	days := weekdaysOf(2024, time.October)
	var records []attendance.DailyRecord
	for _, d := range days[:2] {
		records = append(records, record(testEmployeeID, d, attendance.StatusPresent))
	}

	summary := c.Summarize(testEmployeeID, 2024, time.October, records, nil, nil)

	// 2 / 23 * 100 = 8.6956...
	assert.Equal(t, 8.7, summary.AttendancePercentage)
}

// Test identical inputs give identical summaries
func TestCalculator_Summarize_Deterministic(t *testing.T) {
	c := NewCalculator()
	days := weekdaysOf(2024, time.October)
	var records []attendance.DailyRecord
	for i, d := range days {
		records = append(records, record(testEmployeeID, d, attendance.Statuses[i%len(attendance.Statuses)]))
	}
	holidays := []time.Time{date(2024, 10, 15)}

	first := c.Summarize(testEmployeeID, 2024, time.October, records, holidays, []int{1, 2, 3, 4, 5})
	second := c.Summarize(testEmployeeID, 2024, time.October, records, holidays, []int{1, 2, 3, 4, 5})

	assert.Equal(t, first, second)
}

// Test full attendance pays the whole salary
func TestCalculator_CalculateSalary_FullAttendance(t *testing.T) {
	c := NewCalculator()
	summary := attendance.MonthlySummary{TotalWorkingDays: 30, TotalPresentDays: 30}

	b := c.CalculateSalary(testEmployeeID, 2024, time.October, decimal.NewFromInt(3000), summary)

	assert.True(t, b.PerDaySalary.Equal(decimal.NewFromInt(100)), b.PerDaySalary.String())
	assert.Equal(t, 30, b.TotalPayableDays)
	assert.True(t, b.TotalDeductions.IsZero())
	assert.True(t, b.NetSalary.Equal(decimal.NewFromInt(3000)), b.NetSalary.String())
	assert.True(t, b.GrossSalary.Equal(decimal.NewFromInt(3000)))
	assert.Equal(t, 30, b.WorkingDaysInMonth)
}

// Test unpaid absence is deducted
func TestCalculator_CalculateSalary_UnpaidAbsence(t *testing.T) {
	c := NewCalculator()
	summary := attendance.MonthlySummary{TotalWorkingDays: 30, TotalPresentDays: 25, TotalAbsentUnpaidDays: 5}

	b := c.CalculateSalary(testEmployeeID, 2024, time.October, decimal.NewFromInt(3000), summary)

	assert.True(t, b.PerDaySalary.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 25, b.TotalPayableDays)
	assert.Equal(t, 5, b.AbsentDays)
	assert.True(t, b.TotalDeductions.Equal(decimal.NewFromInt(500)), b.TotalDeductions.String())
	assert.True(t, b.NetSalary.Equal(decimal.NewFromInt(2000)), b.NetSalary.String())
}

// Test the zero-working-day month guards the division
func TestCalculator_CalculateSalary_ZeroWorkingDays(t *testing.T) {
	c := NewCalculator()
	summary := attendance.MonthlySummary{TotalWorkingDays: 0, TotalPresentDays: 2}

	b := c.CalculateSalary(testEmployeeID, 2024, time.October, decimal.NewFromInt(3000), summary)

	assert.True(t, b.PerDaySalary.IsZero())
	assert.True(t, b.TotalDeductions.IsZero())
	assert.True(t, b.NetSalary.IsZero())
	assert.True(t, b.GrossSalary.Equal(decimal.NewFromInt(3000)))
}

// Test the Jane Doe month end to end
func TestCalculator_JaneDoeMonth(t *testing.T) {
	c := NewCalculator()
	holiday := date(2024, 10, 15)
	days := weekdaysOf(2024, time.October, holiday)
	require.Len(t, days, 22)

	var records []attendance.DailyRecord
	for i, d := range days {
		status := attendance.StatusPresent
		switch {
		case i >= 18 && i < 20:
			status = attendance.StatusUnpaidLeave
		case i == 20:
			status = attendance.StatusAbsentUnpaid
		case i == 21:
			status = attendance.StatusPaidLeave
		}
		records = append(records, record(testEmployeeID, d, status))
	}

	summary := c.Summarize(testEmployeeID, 2024, time.October, records, []time.Time{holiday}, nil)

	assert.Equal(t, 22, summary.TotalWorkingDays)
	assert.Equal(t, 18, summary.TotalPresentDays)
	assert.Equal(t, 2, summary.TotalUnpaidLeaveDays)
	assert.Equal(t, 1, summary.TotalAbsentUnpaidDays)
	assert.Equal(t, 1, summary.TotalPaidLeaveDays)
	assert.Equal(t, 0, summary.TotalAbsentPaidDays)
	assert.Equal(t, 0, summary.TotalNotMarkedDays)
	assert.Equal(t, 81.82, summary.AttendancePercentage)

	b := c.CalculateSalary(testEmployeeID, 2024, time.October, decimal.NewFromInt(4500), summary)

	assert.Equal(t, "204.545", b.PerDaySalary.StringFixed(3))
	assert.Equal(t, 19, b.TotalPayableDays)
	assert.Equal(t, 1, b.AbsentDays)
	assert.Equal(t, 2, b.UnpaidLeaveDays)
	assert.Equal(t, "613.64", b.TotalDeductions.StringFixed(2))
	assert.Equal(t, "3272.73", b.NetSalary.StringFixed(2))
	assert.Equal(t, "4500.00", b.GrossSalary.StringFixed(2))

	holidayDays := c.HolidaysOnWorkingDays(2024, time.October, []time.Time{holiday}, nil)
	assert.Equal(t, 1, holidayDays)

	included := attendance.PayableView(b, holidayDays, true)
	assert.Equal(t, 20, included.PayableDays)
	// 20 * 204.5454... - 613.6363...
	assert.Equal(t, "3477.27", included.NetSalary.StringFixed(2))
}

// Test only holidays on working weekdays are counted for display
func TestCalculator_HolidaysOnWorkingDays(t *testing.T) {
	c := NewCalculator()
	holidays := []time.Time{
		date(2024, 10, 15), // Tuesday
		date(2024, 10, 15),
		date(2024, 10, 5), // Saturday
		date(2024, 11, 1), // next month
	}

	assert.Equal(t, 1, c.HolidaysOnWorkingDays(2024, time.October, holidays, nil))
	assert.Equal(t, 2, c.HolidaysOnWorkingDays(2024, time.October, holidays, []int{1, 2, 3, 4, 5, 6}))
}

// Test a holiday on a weekend is counted twice in the total
func TestCalculator_HolidayBreakdown_WeekendOverlapDoubleCounted(t *testing.T) {
	c := NewCalculator()
	holidays := []attendance.Holiday{
		{Date: "2024-10-05", Label: "Saturday holiday"},
	}

	hb := c.HolidayBreakdown(2024, time.October, []string{"Saturday", "Sunday"}, holidays)

	assert.Equal(t, 8, hb.WeekendDays)
	assert.Equal(t, 1, hb.CustomHolidays)
	assert.Equal(t, 1, hb.HolidaysOnWeekoff)
	assert.Equal(t, 0, hb.HolidaysNotOnWeekoff)
	// 8 + 1, the Saturday holiday is already one of the 8 weekend days
	assert.Equal(t, 9, hb.Total)
	assert.Equal(t, hb.WeekendDays+hb.CustomHolidays, hb.Total)
}

// Test holiday breakdown filtering and name matching
func TestCalculator_HolidayBreakdown(t *testing.T) {
	c := NewCalculator()

	tests := []struct {
		name     string
		weekend  []string
		holidays []attendance.Holiday
		expected attendance.HolidayBreakdown
	}{
		{
			name:     "no holidays",
			weekend:  []string{"Saturday", "Sunday"},
			expected: attendance.HolidayBreakdown{WeekendDays: 8, Total: 8},
		},
		{
			name:    "case insensitive names",
			weekend: []string{"saturday", "SUNDAY"},
			holidays: []attendance.Holiday{
				{Date: "2024-10-06", Label: "Sunday"},
				{Date: "2024-10-15", Label: "Tuesday"},
			},
			expected: attendance.HolidayBreakdown{WeekendDays: 8, CustomHolidays: 2, HolidaysOnWeekoff: 1, HolidaysNotOnWeekoff: 1, Total: 10},
		},
		{
			name:    "other months and bad dates skipped",
			weekend: []string{"Friday"},
			holidays: []attendance.Holiday{
				{Date: "2024-09-30", Label: "September"},
				{Date: "2024-10-32", Label: "Invalid"},
				{Date: "not-a-date", Label: "Invalid"},
				{Date: "2024-10-04", Label: "Friday"},
			},
			expected: attendance.HolidayBreakdown{WeekendDays: 4, CustomHolidays: 1, HolidaysOnWeekoff: 1, Total: 5},
		},
		{
			name:    "duplicate holiday dates count once",
			weekend: nil,
			holidays: []attendance.Holiday{
				{Date: "2024-10-15", Label: "A"},
				{Date: "2024-10-15", Label: "B"},
			},
			expected: attendance.HolidayBreakdown{CustomHolidays: 1, HolidaysNotOnWeekoff: 1, Total: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.HolidayBreakdown(2024, time.October, tt.weekend, tt.holidays))
		})
	}
}
