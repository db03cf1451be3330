package attendance

import (
	"context"
	"time"
)

// AttendanceRepository stores daily records. Ranges are [start, end).
type AttendanceRepository interface {
	// Upsert creates the record or overwrites the existing one for (EmployeeID, Date).
	Upsert(ctx context.Context, record DailyRecord) (DailyRecord, error)

	ListByEmployee(ctx context.Context, employeeID string, start, end time.Time) ([]DailyRecord, error)

	ListByRange(ctx context.Context, start, end time.Time) ([]DailyRecord, error)

	// DeleteByEmployee removes all records of one employee in the range in a single statement.
	DeleteByEmployee(ctx context.Context, employeeID string, start, end time.Time) (int64, error)
}

// SettingsRepository stores the singleton settings document.
type SettingsRepository interface {
	Get(ctx context.Context) (Settings, error)
	Upsert(ctx context.Context, settings Settings) (Settings, error)
}

// Transactor runs fn in one database transaction. Repositories called with the
// context passed to fn take part in it.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
