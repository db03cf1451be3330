package attendance

import (
	"context"
	"io"

	"github.com/shinelab/detailing-ops/internal/pkg/sse"
)

// AttendanceService covers record administration and settings.
type AttendanceService interface {
	UpsertRecord(ctx context.Context, req UpsertRecordRequest) (RecordResponse, error)
	ListRecords(ctx context.Context, filter MonthFilter) ([]RecordResponse, error)
	ClearMonth(ctx context.Context, filter MonthFilter) (ClearMonthResponse, error)

	// ImportRecords upserts records from an xlsx sheet with employee_id, date, status and
	// an optional note column. Invalid rows are skipped and reported.
	ImportRecords(ctx context.Context, file io.Reader) (ImportResult, error)

	GetSettings(ctx context.Context) (SettingsResponse, error)
	UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (SettingsResponse, error)
	AddHoliday(ctx context.Context, req AddHolidayRequest) (SettingsResponse, error)
	RemoveHoliday(ctx context.Context, date string) (SettingsResponse, error)

	// Subscribe streams record and settings change events until cleanup is called.
	Subscribe(ctx context.Context) (<-chan sse.Event, func())
}
