package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shinelab/detailing-ops/internal/domain/attendance"
	"github.com/shinelab/detailing-ops/internal/pkg/database"
)

type settingsRepositoryImpl struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) attendance.SettingsRepository {
	return &settingsRepositoryImpl{db: db}
}

func scanSettings(row pgx.Row) (attendance.Settings, error) {
	var (
		s        attendance.Settings
		holidays []byte
	)
	if err := row.Scan(&s.WorkingDays, &s.WeekendDays, &holidays, &s.UpdatedAt); err != nil {
		return attendance.Settings{}, err
	}
	if err := json.Unmarshal(holidays, &s.Holidays); err != nil {
		return attendance.Settings{}, fmt.Errorf("failed to decode holidays: %w", err)
	}
	return s, nil
}

// Get implements attendance.SettingsRepository.
func (r *settingsRepositoryImpl) Get(ctx context.Context) (attendance.Settings, error) {
	q := GetQuerier(ctx, r.db)

	row := q.QueryRow(ctx, `
		SELECT working_days, weekend_days, holidays, updated_at
		FROM attendance_settings
		WHERE id = 1
	`)

	s, err := scanSettings(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Settings{}, attendance.ErrSettingsNotFound
		}
		return attendance.Settings{}, fmt.Errorf("failed to get attendance settings: %w", err)
	}
	return s, nil
}

// Upsert implements attendance.SettingsRepository.
func (r *settingsRepositoryImpl) Upsert(ctx context.Context, settings attendance.Settings) (attendance.Settings, error) {
	q := GetQuerier(ctx, r.db)

	holidays := settings.Holidays
	if holidays == nil {
		holidays = []attendance.Holiday{}
	}
	encoded, err := json.Marshal(holidays)
	if err != nil {
		return attendance.Settings{}, fmt.Errorf("failed to encode holidays: %w", err)
	}

	workingDays := settings.WorkingDays
	if workingDays == nil {
		workingDays = []int{}
	}
	weekendDays := settings.WeekendDays
	if weekendDays == nil {
		weekendDays = []string{}
	}

	row := q.QueryRow(ctx, `
		INSERT INTO attendance_settings (id, working_days, weekend_days, holidays)
		VALUES (1, $1, $2, $3::jsonb)
		ON CONFLICT (id) DO UPDATE
		SET working_days = EXCLUDED.working_days,
			weekend_days = EXCLUDED.weekend_days,
			holidays = EXCLUDED.holidays,
			updated_at = NOW()
		RETURNING working_days, weekend_days, holidays, updated_at
	`, workingDays, weekendDays, string(encoded))

	saved, err := scanSettings(row)
	if err != nil {
		return attendance.Settings{}, fmt.Errorf("failed to save attendance settings: %w", err)
	}
	return saved, nil
}
