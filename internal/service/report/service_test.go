package report

import (
	"bytes"
	"context"
	"sort"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shinelab/detailing-ops/internal/domain/attendance"
	"github.com/shinelab/detailing-ops/internal/domain/employee"
	"github.com/shinelab/detailing-ops/internal/domain/report"
	"github.com/shinelab/detailing-ops/internal/pkg/email"
	"github.com/shinelab/detailing-ops/internal/pkg/excel"
	"github.com/shinelab/detailing-ops/internal/pkg/metrics"
	"github.com/shinelab/detailing-ops/internal/pkg/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const (
	janeID   = "0192d4e0-7b1a-7c3e-8f00-000000000001"
	omarID   = "0192d4e0-7b1a-7c3e-8f00-000000000002"
	formerID = "0192d4e0-7b1a-7c3e-8f00-000000000003"
	noMailID = "0192d4e0-7b1a-7c3e-8f00-000000000004"
)

type fakeEmployeeRepository struct {
	employees []employee.Employee
}

func (f *fakeEmployeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepository) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	return f.employees, nil
}

func (f *fakeEmployeeRepository) GetActive(ctx context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range f.employees {
		if e.IsActive() {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEmployeeRepository) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	f.employees = append(f.employees, e)
	return e, nil
}

func (f *fakeEmployeeRepository) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	return e, nil
}

func (f *fakeEmployeeRepository) ExistsByEmail(ctx context.Context, email string, excludeID *string) (bool, error) {
	return false, nil
}

type fakeAttendanceRepository struct {
	records []attendance.DailyRecord
}

func (f *fakeAttendanceRepository) Upsert(ctx context.Context, r attendance.DailyRecord) (attendance.DailyRecord, error) {
	f.records = append(f.records, r)
	return r, nil
}

func (f *fakeAttendanceRepository) inRange(employeeID string, start, end time.Time) []attendance.DailyRecord {
	var out []attendance.DailyRecord
	for _, r := range f.records {
		if employeeID != "" && r.EmployeeID != employeeID {
			continue
		}
		if !r.Date.Before(start) && r.Date.Before(end) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func (f *fakeAttendanceRepository) ListByEmployee(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.DailyRecord, error) {
	return f.inRange(employeeID, start, end), nil
}

func (f *fakeAttendanceRepository) ListByRange(ctx context.Context, start, end time.Time) ([]attendance.DailyRecord, error) {
	return f.inRange("", start, end), nil
}

func (f *fakeAttendanceRepository) DeleteByEmployee(ctx context.Context, employeeID string, start, end time.Time) (int64, error) {
	return 0, nil
}

type fakeSettingsRepository struct {
	settings attendance.Settings
	gets     int
}

func (f *fakeSettingsRepository) Get(ctx context.Context) (attendance.Settings, error) {
	f.gets++
	return f.settings, nil
}

func (f *fakeSettingsRepository) Upsert(ctx context.Context, s attendance.Settings) (attendance.Settings, error) {
	f.settings = s
	return s, nil
}

type fakeEmailService struct {
	err  error
	sent []email.PayslipData
	to   []string
}

func (f *fakeEmailService) SendPayslip(ctx context.Context, to string, data email.PayslipData) error {
	if f.err != nil {
		return f.err
	}
	f.to = append(f.to, to)
	f.sent = append(f.sent, data)
	return nil
}

type reportFixture struct {
	service  report.ReportService
	records  *fakeAttendanceRepository
	settings *fakeSettingsRepository
	email   *fakeEmailService
	metrics *metrics.Metrics
}

func strPtr(s string) *string { return &s }

func salary(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func day(d int) time.Time {
	return time.Date(2024, time.October, d, 0, 0, 0, 0, time.UTC)
}

// octoberWorkingDays lists Mon-Fri of October 2024 without the Oct 15 holiday (22 days).
func octoberWorkingDays() []time.Time {
	var days []time.Time
	for d := 1; d <= 31; d++ {
		date := day(d)
		if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday || d == 15 {
			continue
		}
		days = append(days, date)
	}
	return days
}

// janeRecords gives 18 present, 1 paid leave, 2 unpaid absences and 1 unpaid leave.
func janeRecords() []attendance.DailyRecord {
	var records []attendance.DailyRecord
	for i, d := range octoberWorkingDays() {
		status := attendance.StatusPresent
		switch {
		case i == 18:
			status = attendance.StatusPaidLeave
		case i == 19 || i == 20:
			status = attendance.StatusAbsentUnpaid
		case i == 21:
			status = attendance.StatusUnpaidLeave
		}
		records = append(records, attendance.DailyRecord{EmployeeID: janeID, Date: d, Status: status})
	}
	return records
}

func newReportFixture(t *testing.T) reportFixture {
	t.Helper()

	employees := &fakeEmployeeRepository{employees: []employee.Employee{
		{ID: janeID, Name: "Jane Doe", Email: strPtr("jane@example.com"), Department: "Detailing", Position: "Detailer",
			JobStatus: employee.JobStatusFullTime, Status: employee.StatusActive, Salary: salary("4500")},
		{ID: omarID, Name: "Omar Saleh", Email: strPtr("omar@example.com"), Department: "Detailing", Position: "Washer",
			JobStatus: employee.JobStatusPartTime, Status: employee.StatusActive},
		{ID: formerID, Name: "Former Staff", Status: employee.StatusInactive, Salary: salary("3000")},
		{ID: noMailID, Name: "No Mail", Status: employee.StatusActive, Salary: salary("3000")},
	}}

	settings := attendance.DefaultSettings()
	settings.Holidays = []attendance.Holiday{
		{Date: "2024-10-15", Label: "Company Day"},
		{Date: "2024-12-02", Label: "National Day"},
	}

	fileStorage, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/files")
	require.NoError(t, err)

	f := reportFixture{
		records:  &fakeAttendanceRepository{records: janeRecords()},
		settings: &fakeSettingsRepository{settings: settings},
		email:    &fakeEmailService{},
		metrics:  metrics.New(),
	}
	f.service = NewReportService(employees, f.records, f.settings,
		fileStorage, f.email, f.metrics, "AED")
	return f
}

// readSheet returns the formatted rows of one sheet of an exported workbook.
func readSheet(t *testing.T, data []byte, sheet string) [][]string {
	t.Helper()
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows(sheet)
	require.NoError(t, err)
	return rows
}

func findEmployee(t *testing.T, r report.MonthlyReport, id string) report.EmployeeReport {
	t.Helper()
	for _, e := range r.Employees {
		if e.Employee.ID == id {
			return e
		}
	}
	t.Fatalf("employee %s not in report", id)
	return report.EmployeeReport{}
}

// Test MonthlyReport produces summaries, both salary views and the holiday breakdown
func TestReportService_MonthlyReport(t *testing.T) {
	f := newReportFixture(t)

	r, err := f.service.MonthlyReport(context.Background(), report.ReportFilter{Year: 2024, Month: 10, IncludeHolidays: true})
	require.NoError(t, err)

	assert.Equal(t, "2024-10-01", r.PeriodStart)
	assert.Equal(t, "2024-10-31", r.PeriodEnd)
	assert.Equal(t, "AED", r.Currency)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, r.WorkingDays)
	assert.Equal(t, report.HolidayBreakdownResponse{
		WeekendDays: 8, CustomHolidays: 1, HolidaysOnWeekoff: 0, HolidaysNotOnWeekoff: 1, Total: 9,
	}, r.HolidayBreakdown)
	require.Len(t, r.Employees, 3)

	jane := findEmployee(t, r, janeID)
	assert.Equal(t, 22, jane.Summary.TotalWorkingDays)
	assert.Equal(t, 18, jane.Summary.TotalPresentDays)
	assert.Equal(t, 0, jane.Summary.TotalNotMarkedDays)
	assert.Equal(t, 81.82, jane.Summary.AttendancePercentage)
	assert.Empty(t, jane.Warnings)

	require.NotNil(t, jane.Salary)
	assert.Equal(t, "204.55", jane.Salary.PerDaySalary.String())
	assert.Equal(t, 19, jane.Salary.TotalPayableDays)
	assert.Equal(t, "613.64", jane.Salary.TotalDeductions.String())
	assert.Equal(t, "3272.73", jane.Salary.NetSalary.String())
	assert.Equal(t, attendance.DisplayHolidaysExcluded, jane.Salary.Display.HolidaysExcluded.Label)
	assert.Equal(t, "3272.73", jane.Salary.Display.HolidaysExcluded.NetSalary.String())
	assert.Equal(t, 1, jane.Salary.Display.HolidaysIncluded.HolidayDays)
	assert.Equal(t, "3477.27", jane.Salary.Display.HolidaysIncluded.NetSalary.String())
	assert.Equal(t, attendance.DisplayHolidaysIncluded, jane.Salary.Display.Selected.Label)

	omar := findEmployee(t, r, omarID)
	assert.Nil(t, omar.Salary)
	assert.Equal(t, 22, omar.Summary.TotalNotMarkedDays)
	require.Len(t, omar.Warnings, 1)
	assert.Contains(t, omar.Warnings[0], "no salary configured")

	assert.Equal(t, 3, r.Totals.Employees)
	assert.Equal(t, 2, r.Totals.EmployeesOnPayroll)
	assert.Equal(t, "7500", r.Totals.GrossSalary.String())
	assert.Equal(t, "3272.73", r.Totals.NetSalary.String())
	assert.Equal(t, "3613.64", r.Totals.SelectedNetSalary.String())
	assert.Contains(t, r.Warnings, omar.Warnings[0])

	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.ReportsGenerated.WithLabelValues("monthly")))
}

// Test records beyond the working days surface as a warning without changing the arithmetic
func TestReportService_OverRecordedWarning(t *testing.T) {
	f := newReportFixture(t)
	f.records.records = append(f.records.records,
		attendance.DailyRecord{EmployeeID: janeID, Date: day(5), Status: attendance.StatusPresent})

	r, err := f.service.EmployeeReport(context.Background(), janeID, report.ReportFilter{Year: 2024, Month: 10})
	require.NoError(t, err)

	assert.Equal(t, 19, r.Summary.TotalPresentDays)
	assert.Equal(t, 1, r.Summary.OverRecordedDays)
	assert.Equal(t, 0, r.Summary.TotalNotMarkedDays)
	require.Len(t, r.Warnings, 1)
	assert.Contains(t, r.Warnings[0], "beyond the 22 working days")
	assert.Equal(t, attendance.DisplayHolidaysExcluded, r.Salary.Display.Selected.Label)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.OverRecordedMonths))
}

// Test EmployeeReport rejects unknown and inactive employees and bad filters
func TestReportService_EmployeeReportErrors(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()
	filter := report.ReportFilter{Year: 2024, Month: 10}

	_, err := f.service.EmployeeReport(ctx, formerID, filter)
	assert.ErrorIs(t, err, report.ErrEmployeeNotActive)

	_, err = f.service.EmployeeReport(ctx, "0192d4e0-7b1a-7c3e-8f00-0000000000ff", filter)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = f.service.EmployeeReport(ctx, "abc", filter)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = f.service.EmployeeReport(ctx, janeID, report.ReportFilter{Year: 1999, Month: 0})
	assert.Error(t, err)
}

// Test ExportMonthly writes the summary, salary and holiday sheets
func TestReportService_ExportMonthly(t *testing.T) {
	f := newReportFixture(t)

	file, err := f.service.ExportMonthly(context.Background(), report.ReportFilter{Year: 2024, Month: 10})
	require.NoError(t, err)
	assert.Equal(t, "attendance-2024-10.xlsx", file.FileName)
	assert.Equal(t, excel.ContentType, file.ContentType)

	assert.Equal(t, 1, f.settings.gets)

	summary := readSheet(t, file.Data, "Summary")
	require.Len(t, summary, 4)
	assert.Equal(t, "Employee", summary[0][0])
	assert.Equal(t, "Jane Doe", summary[1][0])

	salaries := readSheet(t, file.Data, "Salary")
	require.Len(t, salaries, 4)
	assert.Equal(t, "Gross Salary (AED)", salaries[0][1])
	assert.Equal(t, "Total", salaries[3][0])

	holidays := readSheet(t, file.Data, "Holidays")
	assert.Equal(t, []string{"2024-10-15", "Tuesday", "Company Day"}, holidays[1])
}

// Test StoreMonthlyExport is idempotent and stored workbooks can be listed and downloaded
func TestReportService_StoredExports(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()
	filter := report.ReportFilter{Year: 2024, Month: 10}

	stored, created, err := f.service.StoreMonthlyExport(ctx, filter)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "exports/attendance-2024-10.xlsx", stored.Path)
	assert.Equal(t, "http://localhost:8080/files/exports/attendance-2024-10.xlsx", stored.URL)

	_, created, err = f.service.StoreMonthlyExport(ctx, filter)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.ExportsWritten))

	exports, err := f.service.ListExports(ctx)
	require.NoError(t, err)
	require.Len(t, exports, 1)
	assert.Equal(t, "attendance-2024-10.xlsx", exports[0].Name)
	assert.Positive(t, exports[0].Size)

	file, err := f.service.DownloadExport(ctx, "attendance-2024-10.xlsx")
	require.NoError(t, err)
	assert.Len(t, file.Data, int(exports[0].Size))

	_, err = f.service.DownloadExport(ctx, "attendance-2024-11.xlsx")
	assert.ErrorIs(t, err, report.ErrExportNotFound)
	_, err = f.service.DownloadExport(ctx, "../secrets.xlsx")
	assert.ErrorIs(t, err, report.ErrExportNotFound)
}

// Test SendPayslip mails the selected view and reports missing contact or salary
func TestReportService_SendPayslip(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()
	filter := report.ReportFilter{Year: 2024, Month: 10}

	resp, err := f.service.SendPayslip(ctx, janeID, filter)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", resp.SentTo)
	assert.Equal(t, "3272.73", resp.NetSalary.String())

	require.Len(t, f.email.sent, 1)
	sent := f.email.sent[0]
	assert.Equal(t, "October 2024", sent.Period)
	assert.Equal(t, "204.55", sent.PerDaySalary)
	assert.Equal(t, "613.64", sent.Deductions)
	assert.Equal(t, "3272.73", sent.NetSalary)
	assert.False(t, sent.HolidaysIncluded)

	_, err = f.service.SendPayslip(ctx, omarID, filter)
	assert.ErrorIs(t, err, employee.ErrNoSalary)

	_, err = f.service.SendPayslip(ctx, noMailID, filter)
	assert.ErrorIs(t, err, employee.ErrNoEmail)

	_, err = f.service.SendPayslip(ctx, "not-an-id", filter)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	f.email.err = email.ErrMailUnavailable
	_, err = f.service.SendPayslip(ctx, janeID, filter)
	assert.ErrorIs(t, err, email.ErrMailUnavailable)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.PayslipsSent.WithLabelValues("failed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.PayslipsSent.WithLabelValues("sent")))

	f.email.err = email.ErrMailNotConfigured
	_, err = f.service.SendPayslip(ctx, janeID, filter)
	assert.ErrorIs(t, err, email.ErrMailNotConfigured)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.PayslipsSent.WithLabelValues("skipped")))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.PayslipsSent.WithLabelValues("failed")))
}
