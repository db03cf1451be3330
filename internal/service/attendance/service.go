package attendance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/shinelab/detailing-ops/internal/domain/attendance"
	"github.com/shinelab/detailing-ops/internal/domain/employee"
	"github.com/shinelab/detailing-ops/internal/pkg/excel"
	"github.com/shinelab/detailing-ops/internal/pkg/metrics"
	"github.com/shinelab/detailing-ops/internal/pkg/sse"
	"github.com/shinelab/detailing-ops/internal/pkg/validator"
)

// Topic is the hub topic every attendance change event is published on.
const Topic = "attendance"

const (
	EventRecordUpserted   = "attendance.record.upserted"
	EventRecordsCleared   = "attendance.records.cleared"
	EventRecordsImported  = "attendance.records.imported"
	EventSettingsUpdated  = "attendance.settings.updated"
	maxImportErrorsReport = 100
)

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	settingsRepo   attendance.SettingsRepository
	employeeRepo   employee.EmployeeRepository
	transactor     attendance.Transactor
	hub            *sse.Hub
	metrics        *metrics.Metrics
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	settingsRepo attendance.SettingsRepository,
	employeeRepo employee.EmployeeRepository,
	transactor attendance.Transactor,
	hub *sse.Hub,
	m *metrics.Metrics,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		settingsRepo:   settingsRepo,
		employeeRepo:   employeeRepo,
		transactor:     transactor,
		hub:            hub,
		metrics:        m,
	}
}

// userIDFromContext returns the authenticated user, if any.
func userIDFromContext(ctx context.Context) *string {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return nil
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil
	}
	return &userID
}

func (s *AttendanceServiceImpl) publish(name string, data interface{}) {
	s.hub.Publish(sse.Event{Topic: Topic, Name: name, Data: data})
}

func (s *AttendanceServiceImpl) activeEmployee(ctx context.Context, id string) (employee.Employee, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, err
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if !emp.IsActive() {
		return employee.Employee{}, attendance.ErrEmployeeInactive
	}
	return emp, nil
}

// UpsertRecord implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) UpsertRecord(ctx context.Context, req attendance.UpsertRecordRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	emp, err := s.activeEmployee(ctx, req.EmployeeID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	saved, err := s.upsert(ctx, req, userIDFromContext(ctx))
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	saved.EmployeeName = &emp.Name
	s.metrics.RecordsUpserted.WithLabelValues(req.Status).Inc()

	resp := attendance.ToRecordResponse(saved)
	s.publish(EventRecordUpserted, resp)
	return resp, nil
}

// upsert writes an already validated request.
func (s *AttendanceServiceImpl) upsert(ctx context.Context, req attendance.UpsertRecordRequest, markedBy *string) (attendance.DailyRecord, error) {
	date, _ := validator.IsValidDate(req.Date)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.DailyRecord{}, fmt.Errorf("failed to generate record id: %w", err)
	}

	var note *string
	if req.Note != nil {
		if trimmed := strings.TrimSpace(*req.Note); trimmed != "" {
			note = &trimmed
		}
	}

	saved, err := s.attendanceRepo.Upsert(ctx, attendance.DailyRecord{
		ID:         id.String(),
		EmployeeID: req.EmployeeID,
		Date:       date,
		Status:     attendance.Status(req.Status),
		Note:       note,
		MarkedBy:   markedBy,
	})
	if err != nil {
		return attendance.DailyRecord{}, fmt.Errorf("failed to save attendance record: %w", err)
	}
	return saved, nil
}

// ListRecords implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListRecords(ctx context.Context, filter attendance.MonthFilter) ([]attendance.RecordResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	start, end := attendance.MonthRange(filter.Year, time.Month(filter.Month))
	records, err := s.attendanceRepo.ListByEmployee(ctx, filter.EmployeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}

	resp := make([]attendance.RecordResponse, 0, len(records))
	for _, r := range records {
		resp = append(resp, attendance.ToRecordResponse(r))
	}
	return resp, nil
}

// ClearMonth implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClearMonth(ctx context.Context, filter attendance.MonthFilter) (attendance.ClearMonthResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ClearMonthResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, filter.EmployeeID); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return attendance.ClearMonthResponse{}, err
		}
		return attendance.ClearMonthResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	start, end := attendance.MonthRange(filter.Year, time.Month(filter.Month))
	deleted, err := s.attendanceRepo.DeleteByEmployee(ctx, filter.EmployeeID, start, end)
	if err != nil {
		return attendance.ClearMonthResponse{}, fmt.Errorf("failed to clear attendance records: %w", err)
	}

	resp := attendance.ClearMonthResponse{
		EmployeeID: filter.EmployeeID,
		Year:       filter.Year,
		Month:      filter.Month,
		Deleted:    deleted,
	}

	s.metrics.RecordsCleared.Add(float64(deleted))
	slog.Info("attendance month cleared", "employee_id", filter.EmployeeID, "year", filter.Year, "month", filter.Month, "deleted", deleted)
	s.publish(EventRecordsCleared, resp)
	return resp, nil
}

// ImportRecords implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ImportRecords(ctx context.Context, file io.Reader) (attendance.ImportResult, error) {
	rows, err := excel.ReadFirstSheet(file)
	if err != nil {
		return attendance.ImportResult{}, validator.ValidationErrors{{Field: "file", Message: "must be a readable xlsx workbook"}}
	}
	if len(rows) == 0 {
		return attendance.ImportResult{}, validator.ValidationErrors{{Field: "file", Message: "sheet is empty"}}
	}

	columns := make(map[string]int)
	for i, h := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(h))] = i
	}
	var missing []string
	for _, required := range []string{"employee_id", "date", "status"} {
		if _, ok := columns[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return attendance.ImportResult{}, validator.ValidationErrors{{Field: "file", Message: "missing columns: " + strings.Join(missing, ", ")}}
	}

	cell := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	result := attendance.ImportResult{Errors: []attendance.ImportRowError{}}
	skip := func(row int, msg string) {
		result.Skipped++
		if len(result.Errors) < maxImportErrorsReport {
			result.Errors = append(result.Errors, attendance.ImportRowError{Row: row, Message: msg})
		}
	}

	employees := make(map[string]error)
	var valid []attendance.UpsertRecordRequest

	for i, row := range rows[1:] {
		rowNum := i + 2

		req := attendance.UpsertRecordRequest{
			EmployeeID: strings.ToLower(cell(row, "employee_id")),
			Date:       excel.DateValue(cell(row, "date")),
			Status:     strings.ToLower(cell(row, "status")),
		}
		if req.EmployeeID == "" && req.Date == "" && req.Status == "" {
			continue
		}
		if note := cell(row, "note"); note != "" {
			req.Note = &note
		}

		if err := req.Validate(); err != nil {
			skip(rowNum, err.Error())
			continue
		}

		empErr, seen := employees[req.EmployeeID]
		if !seen {
			_, empErr = s.activeEmployee(ctx, req.EmployeeID)
			employees[req.EmployeeID] = empErr
		}
		if empErr != nil {
			if errors.Is(empErr, employee.ErrEmployeeNotFound) || errors.Is(empErr, attendance.ErrEmployeeInactive) {
				skip(rowNum, empErr.Error())
				continue
			}
			return attendance.ImportResult{}, empErr
		}

		valid = append(valid, req)
	}

	// Valid rows are written all or nothing.
	markedBy := userIDFromContext(ctx)
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, req := range valid {
			if _, err := s.upsert(ctx, req, markedBy); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return attendance.ImportResult{}, err
	}
	for _, req := range valid {
		s.metrics.RecordsUpserted.WithLabelValues(req.Status).Inc()
	}
	result.Imported = len(valid)

	slog.Info("attendance import finished", "imported", result.Imported, "skipped", result.Skipped)
	if result.Imported > 0 {
		s.publish(EventRecordsImported, result)
	}
	return result, nil
}

// loadSettings returns the stored settings or the defaults when none were saved yet.
func (s *AttendanceServiceImpl) loadSettings(ctx context.Context) (attendance.Settings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, attendance.ErrSettingsNotFound) {
			return attendance.DefaultSettings(), nil
		}
		return attendance.Settings{}, fmt.Errorf("failed to get attendance settings: %w", err)
	}
	return settings, nil
}

func (s *AttendanceServiceImpl) saveSettings(ctx context.Context, settings attendance.Settings) (attendance.SettingsResponse, error) {
	sort.SliceStable(settings.Holidays, func(i, j int) bool {
		return settings.Holidays[i].Date < settings.Holidays[j].Date
	})

	saved, err := s.settingsRepo.Upsert(ctx, settings)
	if err != nil {
		return attendance.SettingsResponse{}, fmt.Errorf("failed to save attendance settings: %w", err)
	}

	resp := attendance.ToSettingsResponse(saved)
	s.publish(EventSettingsUpdated, resp)
	return resp, nil
}

// GetSettings implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetSettings(ctx context.Context) (attendance.SettingsResponse, error) {
	settings, err := s.loadSettings(ctx)
	if err != nil {
		return attendance.SettingsResponse{}, err
	}
	return attendance.ToSettingsResponse(settings), nil
}

// UpdateSettings implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) UpdateSettings(ctx context.Context, req attendance.UpdateSettingsRequest) (attendance.SettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SettingsResponse{}, err
	}

	settings, err := s.loadSettings(ctx)
	if err != nil {
		return attendance.SettingsResponse{}, err
	}

	if req.WorkingDays != nil {
		settings.WorkingDays = uniqueSortedDays(*req.WorkingDays)
	}
	if req.WeekendDays != nil {
		settings.WeekendDays = canonicalWeekdayNames(*req.WeekendDays)
	}
	if req.Holidays != nil {
		holidays := make([]attendance.Holiday, 0, len(*req.Holidays))
		for _, h := range *req.Holidays {
			holidays = append(holidays, attendance.Holiday{Date: h.Date, Label: strings.TrimSpace(h.Label)})
		}
		settings.Holidays = holidays
	}

	return s.saveSettings(ctx, settings)
}

// AddHoliday implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) AddHoliday(ctx context.Context, req attendance.AddHolidayRequest) (attendance.SettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SettingsResponse{}, err
	}

	settings, err := s.loadSettings(ctx)
	if err != nil {
		return attendance.SettingsResponse{}, err
	}

	for _, h := range settings.Holidays {
		if h.Date == req.Date {
			return attendance.SettingsResponse{}, attendance.ErrHolidayExists
		}
	}
	settings.Holidays = append(settings.Holidays, attendance.Holiday{Date: req.Date, Label: strings.TrimSpace(req.Label)})

	return s.saveSettings(ctx, settings)
}

// RemoveHoliday implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) RemoveHoliday(ctx context.Context, date string) (attendance.SettingsResponse, error) {
	if _, ok := validator.IsValidDate(date); !ok {
		return attendance.SettingsResponse{}, validator.ValidationErrors{{Field: "date", Message: "must be a valid date in YYYY-MM-DD format"}}
	}

	settings, err := s.loadSettings(ctx)
	if err != nil {
		return attendance.SettingsResponse{}, err
	}

	kept := make([]attendance.Holiday, 0, len(settings.Holidays))
	for _, h := range settings.Holidays {
		if h.Date != date {
			kept = append(kept, h)
		}
	}
	if len(kept) == len(settings.Holidays) {
		return attendance.SettingsResponse{}, attendance.ErrHolidayNotFound
	}
	settings.Holidays = kept

	return s.saveSettings(ctx, settings)
}

// Subscribe implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Subscribe(ctx context.Context) (<-chan sse.Event, func()) {
	ch, cleanup := s.hub.Subscribe(Topic)
	s.metrics.StreamSubscriptions.Inc()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.metrics.StreamSubscriptions.Dec()
			cleanup()
		})
	}
}

func uniqueSortedDays(days []int) []int {
	seen := make(map[int]bool, len(days))
	out := make([]int, 0, len(days))
	for _, d := range days {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Ints(out)
	return out
}

func canonicalWeekdayNames(names []string) []string {
	seen := make(map[time.Weekday]bool, len(names))
	var days []time.Weekday
	for _, name := range names {
		d, ok := validator.ParseWeekdayName(name)
		if !ok || seen[d] {
			continue
		}
		seen[d] = true
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, d.String())
	}
	return out
}
