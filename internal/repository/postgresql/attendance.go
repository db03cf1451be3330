package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shinelab/detailing-ops/internal/domain/attendance"
	"github.com/shinelab/detailing-ops/internal/pkg/database"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

const recordColumns = `
	a.id, a.employee_id, a.date, a.status, a.note, a.marked_by, a.created_at, a.updated_at, e.name
`

func scanRecords(rows pgx.Rows) ([]attendance.DailyRecord, error) {
	defer rows.Close()

	records := make([]attendance.DailyRecord, 0)
	for rows.Next() {
		var r attendance.DailyRecord
		if err := rows.Scan(
			&r.ID, &r.EmployeeID, &r.Date, &r.Status, &r.Note, &r.MarkedBy,
			&r.CreatedAt, &r.UpdatedAt, &r.EmployeeName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance records: %w", err)
	}
	return records, nil
}

// Upsert implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Upsert(ctx context.Context, record attendance.DailyRecord) (attendance.DailyRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO daily_attendance (id, employee_id, date, status, note, marked_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (employee_id, date) DO UPDATE
		SET status = EXCLUDED.status,
			note = EXCLUDED.note,
			marked_by = EXCLUDED.marked_by,
			updated_at = NOW()
		RETURNING id, employee_id, date, status, note, marked_by, created_at, updated_at
	`

	var saved attendance.DailyRecord
	err := q.QueryRow(ctx, query,
		record.ID,
		record.EmployeeID,
		record.Date,
		record.Status,
		record.Note,
		record.MarkedBy,
	).Scan(
		&saved.ID, &saved.EmployeeID, &saved.Date, &saved.Status, &saved.Note, &saved.MarkedBy,
		&saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		return attendance.DailyRecord{}, fmt.Errorf("failed to upsert attendance record: %w", err)
	}

	return saved, nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.DailyRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + recordColumns + `
		FROM daily_attendance a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.employee_id = $1 AND a.date >= $2 AND a.date < $3
		ORDER BY a.date
	`

	rows, err := q.Query(ctx, query, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	return scanRecords(rows)
}

// ListByRange implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByRange(ctx context.Context, start, end time.Time) ([]attendance.DailyRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + recordColumns + `
		FROM daily_attendance a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.date >= $1 AND a.date < $2
		ORDER BY a.employee_id, a.date
	`

	rows, err := q.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	return scanRecords(rows)
}

// DeleteByEmployee implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) DeleteByEmployee(ctx context.Context, employeeID string, start, end time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		DELETE FROM daily_attendance
		WHERE employee_id = $1 AND date >= $2 AND date < $3
	`, employeeID, start, end)
	if err != nil {
		return 0, fmt.Errorf("failed to delete attendance records: %w", err)
	}

	return tag.RowsAffected(), nil
}
