package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shinelab/detailing-ops/internal/domain/report"
)

// ExportJobs stores the previous month's attendance workbook. The job runs on an
// interval and is a no-op once the month's file exists, so a missed first-of-month
// run is caught up on the next tick.
type ExportJobs struct {
	reportService   report.ReportService
	includeHolidays bool
	now             func() time.Time
}

func NewExportJobs(reportService report.ReportService, includeHolidays bool) *ExportJobs {
	return &ExportJobs{
		reportService:   reportService,
		includeHolidays: includeHolidays,
		now:             time.Now,
	}
}

func (j *ExportJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("export_previous_month_attendance", interval, j.ExportPreviousMonth)
}

// ExportPreviousMonth writes the workbook for the month before the current one.
func (j *ExportJobs) ExportPreviousMonth(ctx context.Context) error {
	year, month := previousMonth(j.now())
	filter := report.ReportFilter{Year: year, Month: int(month), IncludeHolidays: j.includeHolidays}

	stored, created, err := j.reportService.StoreMonthlyExport(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to export %04d-%02d: %w", year, month, err)
	}
	if created {
		slog.Info("Monthly attendance workbook exported", "year", year, "month", int(month), "path", stored.Path)
	}
	return nil
}

func previousMonth(now time.Time) (int, time.Month) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prev := first.AddDate(0, -1, 0)
	return prev.Year(), prev.Month()
}
