package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shinelab/detailing-ops/internal/domain/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReportService struct {
	report.ReportService
	filters []report.ReportFilter
	stored  map[string]bool
	err     error
}

func (f *fakeReportService) StoreMonthlyExport(ctx context.Context, filter report.ReportFilter) (report.StoredExport, bool, error) {
	if f.err != nil {
		return report.StoredExport{}, false, f.err
	}
	f.filters = append(f.filters, filter)
	key := time.Date(filter.Year, time.Month(filter.Month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
	created := !f.stored[key]
	f.stored[key] = true
	return report.StoredExport{Path: "exports/attendance-" + key + ".xlsx"}, created, nil
}

// Test previousMonth crosses year boundaries
func TestPreviousMonth(t *testing.T) {
	tests := []struct {
		now   time.Time
		year  int
		month time.Month
	}{
		{time.Date(2024, time.November, 1, 0, 5, 0, 0, time.UTC), 2024, time.October},
		{time.Date(2024, time.March, 31, 23, 0, 0, 0, time.UTC), 2024, time.February},
		{time.Date(2025, time.January, 15, 12, 0, 0, 0, time.UTC), 2024, time.December},
	}

	for _, tt := range tests {
		year, month := previousMonth(tt.now)
		assert.Equal(t, tt.year, year)
		assert.Equal(t, tt.month, month)
	}
}

// Test the export job requests the previous month and tolerates repeated runs
func TestExportJobs_ExportPreviousMonth(t *testing.T) {
	svc := &fakeReportService{stored: map[string]bool{}}
	jobs := NewExportJobs(svc, true)
	jobs.now = func() time.Time { return time.Date(2024, time.November, 1, 2, 0, 0, 0, time.UTC) }

	scheduler := NewScheduler()
	jobs.RegisterJobs(scheduler, time.Hour)
	require.Len(t, scheduler.Jobs(), 1)

	require.NoError(t, scheduler.RunOnce(context.Background()))
	require.NoError(t, scheduler.RunOnce(context.Background()))

	require.Len(t, svc.filters, 2)
	assert.Equal(t, report.ReportFilter{Year: 2024, Month: 10, IncludeHolidays: true}, svc.filters[0])
	assert.True(t, svc.stored["2024-10"])
}

// Test export failures are returned to the scheduler
func TestExportJobs_Error(t *testing.T) {
	svc := &fakeReportService{stored: map[string]bool{}, err: errors.New("disk full")}
	jobs := NewExportJobs(svc, false)

	err := jobs.ExportPreviousMonth(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
