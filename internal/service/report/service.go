package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/shinelab/detailing-ops/internal/domain/attendance"
	"github.com/shinelab/detailing-ops/internal/domain/employee"
	"github.com/shinelab/detailing-ops/internal/domain/report"
	"github.com/shinelab/detailing-ops/internal/pkg/email"
	"github.com/shinelab/detailing-ops/internal/pkg/excel"
	"github.com/shinelab/detailing-ops/internal/pkg/metrics"
	"github.com/shinelab/detailing-ops/internal/pkg/storage"
	"github.com/shinelab/detailing-ops/internal/pkg/validator"
	attendancesvc "github.com/shinelab/detailing-ops/internal/service/attendance"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const exportPrefix = "exports"

type ReportServiceImpl struct {
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	settingsRepo   attendance.SettingsRepository
	calculator     *attendancesvc.Calculator
	fileStorage    storage.FileStorage
	emailService   email.EmailService
	metrics        *metrics.Metrics
	currency       string
}

func NewReportService(
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	settingsRepo attendance.SettingsRepository,
	fileStorage storage.FileStorage,
	emailService email.EmailService,
	m *metrics.Metrics,
	currency string,
) report.ReportService {
	return &ReportServiceImpl{
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		settingsRepo:   settingsRepo,
		calculator:     attendancesvc.NewCalculator(),
		fileStorage:    fileStorage,
		emailService:   emailService,
		metrics:        m,
		currency:       currency,
	}
}

// monthInput is everything the calculator needs for one month.
type monthInput struct {
	year         int
	month        time.Month
	settings     attendance.Settings
	holidayDates []time.Time
	holidayDays  int
}

// employeeResult pairs a rendered report with its canonical breakdown.
type employeeResult struct {
	report    report.EmployeeReport
	breakdown *attendance.SalaryBreakdown
	selected  *attendance.SalaryDisplay
}

func (s *ReportServiceImpl) loadSettings(ctx context.Context) (attendance.Settings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, attendance.ErrSettingsNotFound) {
			return attendance.DefaultSettings(), nil
		}
		return attendance.Settings{}, fmt.Errorf("failed to get attendance settings: %w", err)
	}
	return settings, nil
}

func (s *ReportServiceImpl) newMonthInput(year int, month time.Month, settings attendance.Settings) monthInput {
	holidayDates := settings.HolidayDatesIn(year, month)
	return monthInput{
		year:         year,
		month:        month,
		settings:     settings,
		holidayDates: holidayDates,
		holidayDays:  s.calculator.HolidaysOnWorkingDays(year, month, holidayDates, settings.WorkingDays),
	}
}

func (s *ReportServiceImpl) holidayBreakdown(in monthInput) report.HolidayBreakdownResponse {
	b := s.calculator.HolidayBreakdown(in.year, in.month, in.settings.WeekendDays, in.settings.Holidays)
	return report.HolidayBreakdownResponse{
		WeekendDays:          b.WeekendDays,
		CustomHolidays:       b.CustomHolidays,
		HolidaysOnWeekoff:    b.HolidaysOnWeekoff,
		HolidaysNotOnWeekoff: b.HolidaysNotOnWeekoff,
		Total:                b.Total,
	}
}

// buildEmployee summarizes one employee. Records for other employees are ignored.
func (s *ReportServiceImpl) buildEmployee(emp employee.Employee, records []attendance.DailyRecord, in monthInput, includeHolidays bool) employeeResult {
	summary := s.calculator.Summarize(emp.ID, in.year, in.month, records, in.holidayDates, in.settings.WorkingDays)

	result := employeeResult{
		report: report.EmployeeReport{
			Employee: toEmployeeInfo(emp),
			Summary:  toSummaryResponse(summary),
		},
	}

	if summary.OverRecordedDays > 0 {
		s.metrics.OverRecordedMonths.Inc()
		slog.Warn("recorded days exceed working days",
			"employee_id", emp.ID,
			"year", in.year,
			"month", int(in.month),
			"working_days", summary.TotalWorkingDays,
			"recorded_days", summary.RecordedDays(),
		)
		result.report.Warnings = append(result.report.Warnings, fmt.Sprintf(
			"%s has %d recorded day(s) beyond the %d working days of the month",
			emp.Name, summary.OverRecordedDays, summary.TotalWorkingDays,
		))
	}

	if !emp.HasSalary() {
		result.report.Warnings = append(result.report.Warnings, fmt.Sprintf(
			"%s has no salary configured, salary breakdown omitted", emp.Name,
		))
		return result
	}

	breakdown := s.calculator.CalculateSalary(emp.ID, in.year, in.month, *emp.Salary, summary)
	excluded := attendance.PayableView(breakdown, in.holidayDays, false)
	included := attendance.PayableView(breakdown, in.holidayDays, true)
	selected := excluded
	if includeHolidays {
		selected = included
	}

	result.breakdown = &breakdown
	result.selected = &selected
	result.report.Salary = &report.SalaryResponse{
		WorkingDaysInMonth: breakdown.WorkingDaysInMonth,
		PerDaySalary:       money(breakdown.PerDaySalary),
		TotalPayableDays:   breakdown.TotalPayableDays,
		AbsentDays:         breakdown.AbsentDays,
		UnpaidLeaveDays:    breakdown.UnpaidLeaveDays,
		TotalDeductions:    money(breakdown.TotalDeductions),
		GrossSalary:        money(breakdown.GrossSalary),
		NetSalary:          money(breakdown.NetSalary),
		Display: report.SalaryDisplays{
			HolidaysExcluded: toDisplayResponse(excluded),
			HolidaysIncluded: toDisplayResponse(included),
			Selected:         toDisplayResponse(selected),
		},
	}
	return result
}

// MonthlyReport implements report.ReportService.
func (s *ReportServiceImpl) MonthlyReport(ctx context.Context, filter report.ReportFilter) (report.MonthlyReport, error) {
	started := time.Now()
	resp, _, err := s.monthlyReport(ctx, filter)
	if err != nil {
		return report.MonthlyReport{}, err
	}
	s.metrics.ObserveReport("monthly", started)
	return resp, nil
}

// monthlyReport builds the report and returns the settings it was computed from.
func (s *ReportServiceImpl) monthlyReport(ctx context.Context, filter report.ReportFilter) (report.MonthlyReport, attendance.Settings, error) {
	if err := filter.Validate(); err != nil {
		return report.MonthlyReport{}, attendance.Settings{}, err
	}

	year, month := filter.Year, time.Month(filter.Month)
	start, end := attendance.MonthRange(year, month)

	var (
		employees []employee.Employee
		records   []attendance.DailyRecord
		settings  attendance.Settings
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		employees, err = s.employeeRepo.GetActive(gctx)
		if err != nil {
			return fmt.Errorf("failed to get active employees: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		records, err = s.attendanceRepo.ListByRange(gctx, start, end)
		if err != nil {
			return fmt.Errorf("failed to get attendance records: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		settings, err = s.loadSettings(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return report.MonthlyReport{}, attendance.Settings{}, err
	}

	byEmployee := make(map[string][]attendance.DailyRecord)
	for _, r := range records {
		byEmployee[r.EmployeeID] = append(byEmployee[r.EmployeeID], r)
	}

	in := s.newMonthInput(year, month, settings)
	resp := report.MonthlyReport{
		Year:             year,
		Month:            filter.Month,
		PeriodStart:      start.Format(attendance.DateLayout),
		PeriodEnd:        end.AddDate(0, 0, -1).Format(attendance.DateLayout),
		GeneratedAt:      time.Now().UTC().Format(time.RFC3339),
		Currency:         s.currency,
		IncludeHolidays:  filter.IncludeHolidays,
		WorkingDays:      workingDaysOrDefault(settings.WorkingDays),
		HolidayBreakdown: s.holidayBreakdown(in),
		Employees:        make([]report.EmployeeReport, 0, len(employees)),
		Warnings:         []string{},
		Totals: report.ReportTotals{
			GrossSalary:       decimal.Zero,
			TotalDeductions:   decimal.Zero,
			NetSalary:         decimal.Zero,
			SelectedNetSalary: decimal.Zero,
		},
	}

	for _, emp := range employees {
		result := s.buildEmployee(emp, byEmployee[emp.ID], in, filter.IncludeHolidays)
		resp.Employees = append(resp.Employees, result.report)
		resp.Warnings = append(resp.Warnings, result.report.Warnings...)

		resp.Totals.Employees++
		if result.breakdown == nil {
			continue
		}
		resp.Totals.EmployeesOnPayroll++
		resp.Totals.GrossSalary = resp.Totals.GrossSalary.Add(result.breakdown.GrossSalary)
		resp.Totals.TotalDeductions = resp.Totals.TotalDeductions.Add(result.breakdown.TotalDeductions)
		resp.Totals.NetSalary = resp.Totals.NetSalary.Add(result.breakdown.NetSalary)
		resp.Totals.SelectedNetSalary = resp.Totals.SelectedNetSalary.Add(result.selected.NetSalary)
	}

	resp.Totals.GrossSalary = money(resp.Totals.GrossSalary)
	resp.Totals.TotalDeductions = money(resp.Totals.TotalDeductions)
	resp.Totals.NetSalary = money(resp.Totals.NetSalary)
	resp.Totals.SelectedNetSalary = money(resp.Totals.SelectedNetSalary)

	return resp, settings, nil
}

// activeEmployee loads an employee that reports may be produced for.
func (s *ReportServiceImpl) activeEmployee(ctx context.Context, employeeID string) (employee.Employee, error) {
	if !validator.IsValidUUID(employeeID) {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, err
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if !emp.IsActive() {
		return employee.Employee{}, report.ErrEmployeeNotActive
	}
	return emp, nil
}

// employeeMonth loads the records and settings of one employee's month.
func (s *ReportServiceImpl) employeeMonth(ctx context.Context, employeeID string, year int, month time.Month) ([]attendance.DailyRecord, attendance.Settings, error) {
	start, end := attendance.MonthRange(year, month)

	var (
		records  []attendance.DailyRecord
		settings attendance.Settings
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.attendanceRepo.ListByEmployee(gctx, employeeID, start, end)
		if err != nil {
			return fmt.Errorf("failed to get attendance records: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		settings, err = s.loadSettings(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, attendance.Settings{}, err
	}
	return records, settings, nil
}

// EmployeeReport implements report.ReportService.
func (s *ReportServiceImpl) EmployeeReport(ctx context.Context, employeeID string, filter report.ReportFilter) (report.EmployeeReportResponse, error) {
	if err := filter.Validate(); err != nil {
		return report.EmployeeReportResponse{}, err
	}
	started := time.Now()

	emp, err := s.activeEmployee(ctx, employeeID)
	if err != nil {
		return report.EmployeeReportResponse{}, err
	}

	year, month := filter.Year, time.Month(filter.Month)
	records, settings, err := s.employeeMonth(ctx, emp.ID, year, month)
	if err != nil {
		return report.EmployeeReportResponse{}, err
	}

	in := s.newMonthInput(year, month, settings)
	result := s.buildEmployee(emp, records, in, filter.IncludeHolidays)

	s.metrics.ObserveReport("employee", started)
	return report.EmployeeReportResponse{
		Year:             year,
		Month:            filter.Month,
		Currency:         s.currency,
		IncludeHolidays:  filter.IncludeHolidays,
		HolidayBreakdown: s.holidayBreakdown(in),
		EmployeeReport:   result.report,
	}, nil
}

// ExportFileName names the workbook of a month.
func ExportFileName(filter report.ReportFilter) string {
	name := fmt.Sprintf("attendance-%04d-%02d", filter.Year, filter.Month)
	if filter.IncludeHolidays {
		name += "-holidays-included"
	}
	return name + ".xlsx"
}

// ExportMonthly implements report.ReportService.
func (s *ReportServiceImpl) ExportMonthly(ctx context.Context, filter report.ReportFilter) (report.ExportFile, error) {
	started := time.Now()
	monthly, settings, err := s.monthlyReport(ctx, filter)
	if err != nil {
		return report.ExportFile{}, err
	}

	wb, err := excel.NewWorkbook()
	if err != nil {
		return report.ExportFile{}, err
	}
	defer wb.Close()

	if err := wb.AddSheet("Summary", summaryHeaders, summaryRows(monthly)); err != nil {
		return report.ExportFile{}, err
	}
	if err := wb.AddSheet("Salary", salaryHeaders(monthly.Currency), salaryRows(monthly)); err != nil {
		return report.ExportFile{}, err
	}
	holidays := holidayRows(settings, filter.Year, time.Month(filter.Month), monthly.HolidayBreakdown)
	if err := wb.AddSheet("Holidays", holidayHeaders, holidays); err != nil {
		return report.ExportFile{}, err
	}

	data, err := wb.Bytes()
	if err != nil {
		return report.ExportFile{}, err
	}

	s.metrics.ObserveReport("export", started)
	return report.ExportFile{
		FileName:    ExportFileName(filter),
		ContentType: excel.ContentType,
		Data:        data,
	}, nil
}

func (s *ReportServiceImpl) toStoredExport(ctx context.Context, obj storage.Object) (report.StoredExport, error) {
	url, err := s.fileStorage.GetURL(ctx, obj.Path, 0)
	if err != nil {
		return report.StoredExport{}, fmt.Errorf("failed to get export url: %w", err)
	}
	return report.StoredExport{
		Name:       path.Base(obj.Path),
		Path:       obj.Path,
		URL:        url,
		Size:       obj.Size,
		ModifiedAt: obj.ModifiedAt.UTC().Format(time.RFC3339),
	}, nil
}

// StoreMonthlyExport implements report.ReportService. The bool reports whether a new
// workbook was written.
func (s *ReportServiceImpl) StoreMonthlyExport(ctx context.Context, filter report.ReportFilter) (report.StoredExport, bool, error) {
	if err := filter.Validate(); err != nil {
		return report.StoredExport{}, false, err
	}

	key := path.Join(exportPrefix, ExportFileName(filter))
	exists, err := s.fileStorage.Exists(ctx, key)
	if err != nil {
		return report.StoredExport{}, false, fmt.Errorf("failed to check export: %w", err)
	}
	if exists {
		stored, err := s.toStoredExport(ctx, storage.Object{Path: key})
		return stored, false, err
	}

	file, err := s.ExportMonthly(ctx, filter)
	if err != nil {
		return report.StoredExport{}, false, err
	}

	storedPath, err := s.fileStorage.Upload(ctx, bytes.NewReader(file.Data), key, file.ContentType)
	if err != nil {
		return report.StoredExport{}, false, fmt.Errorf("failed to store export: %w", err)
	}
	s.metrics.ExportsWritten.Inc()
	slog.Info("monthly attendance export stored", "path", storedPath, "size", len(file.Data))

	stored, err := s.toStoredExport(ctx, storage.Object{
		Path:       storedPath,
		Size:       int64(len(file.Data)),
		ModifiedAt: time.Now(),
	})
	return stored, true, err
}

// ListExports implements report.ReportService.
func (s *ReportServiceImpl) ListExports(ctx context.Context) ([]report.StoredExport, error) {
	objects, err := s.fileStorage.List(ctx, exportPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}

	exports := make([]report.StoredExport, 0, len(objects))
	for _, obj := range objects {
		if !strings.HasSuffix(obj.Path, ".xlsx") {
			continue
		}
		stored, err := s.toStoredExport(ctx, obj)
		if err != nil {
			return nil, err
		}
		exports = append(exports, stored)
	}
	return exports, nil
}

// DownloadExport implements report.ReportService.
func (s *ReportServiceImpl) DownloadExport(ctx context.Context, name string) (report.ExportFile, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") || !strings.HasSuffix(name, ".xlsx") {
		return report.ExportFile{}, report.ErrExportNotFound
	}

	rc, err := s.fileStorage.Download(ctx, path.Join(exportPrefix, name))
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) || errors.Is(err, storage.ErrInvalidPath) {
			return report.ExportFile{}, report.ErrExportNotFound
		}
		return report.ExportFile{}, fmt.Errorf("failed to open export: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return report.ExportFile{}, fmt.Errorf("failed to read export: %w", err)
	}

	return report.ExportFile{
		FileName:    name,
		ContentType: excel.ContentType,
		Data:        data,
	}, nil
}

// SendPayslip implements report.ReportService.
func (s *ReportServiceImpl) SendPayslip(ctx context.Context, employeeID string, filter report.ReportFilter) (report.PayslipResponse, error) {
	if err := filter.Validate(); err != nil {
		return report.PayslipResponse{}, err
	}

	emp, err := s.activeEmployee(ctx, employeeID)
	if err != nil {
		return report.PayslipResponse{}, err
	}
	if emp.Email == nil || *emp.Email == "" {
		return report.PayslipResponse{}, employee.ErrNoEmail
	}
	if !emp.HasSalary() {
		return report.PayslipResponse{}, employee.ErrNoSalary
	}

	year, month := filter.Year, time.Month(filter.Month)
	records, settings, err := s.employeeMonth(ctx, emp.ID, year, month)
	if err != nil {
		return report.PayslipResponse{}, err
	}

	in := s.newMonthInput(year, month, settings)
	result := s.buildEmployee(emp, records, in, filter.IncludeHolidays)
	summary := result.report.Summary
	selected := *result.selected

	data := email.PayslipData{
		EmployeeName:     emp.Name,
		Period:           fmt.Sprintf("%s %d", month, year),
		Currency:         s.currency,
		WorkingDays:      summary.TotalWorkingDays,
		PresentDays:      summary.TotalPresentDays,
		PaidLeaveDays:    summary.TotalPaidLeaveDays,
		AbsentPaidDays:   summary.TotalAbsentPaidDays,
		AbsentUnpaidDays: summary.TotalAbsentUnpaidDays,
		UnpaidLeaveDays:  summary.TotalUnpaidLeaveDays,
		NotMarkedDays:    summary.TotalNotMarkedDays,
		PayableDays:      selected.PayableDays,
		HolidayDays:      selected.HolidayDays,
		HolidaysIncluded: selected.IncludeHolidays,
		GrossSalary:      result.breakdown.GrossSalary.StringFixed(2),
		PerDaySalary:     result.breakdown.PerDaySalary.StringFixed(2),
		Deductions:       selected.TotalDeductions.StringFixed(2),
		NetSalary:        selected.NetSalary.StringFixed(2),
	}

	if err := s.emailService.SendPayslip(ctx, *emp.Email, data); err != nil {
		if errors.Is(err, email.ErrMailNotConfigured) {
			s.metrics.PayslipsSent.WithLabelValues("skipped").Inc()
			slog.Warn("payslip not sent, mail delivery is not configured", "employee_id", emp.ID)
			return report.PayslipResponse{}, err
		}
		s.metrics.PayslipsSent.WithLabelValues("failed").Inc()
		slog.Error("failed to send payslip", "employee_id", emp.ID, "error", err)
		return report.PayslipResponse{}, fmt.Errorf("failed to send payslip: %w", err)
	}
	s.metrics.PayslipsSent.WithLabelValues("sent").Inc()

	return report.PayslipResponse{
		EmployeeID: emp.ID,
		SentTo:     *emp.Email,
		Year:       year,
		Month:      filter.Month,
		NetSalary:  money(selected.NetSalary),
	}, nil
}

func workingDaysOrDefault(days []int) []int {
	if len(days) == 0 {
		return []int{1, 2, 3, 4, 5}
	}
	return days
}
