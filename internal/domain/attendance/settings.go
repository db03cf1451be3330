package attendance

import (
	"time"
)

// Holiday is an organization-wide custom day off.
type Holiday struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Label string `json:"label"`
}

// Settings is the organization-wide working-day configuration. Callers treat it as an
// immutable value for the duration of one computation.
type Settings struct {
	WorkingDays []int
	WeekendDays []string
	Holidays    []Holiday
	UpdatedAt   time.Time
}

func DefaultSettings() Settings {
	return Settings{
		WorkingDays: []int{1, 2, 3, 4, 5},
		WeekendDays: []string{"Saturday", "Sunday"},
		Holidays:    []Holiday{},
	}
}

// HolidayDatesIn returns the parsed dates of holidays that fall inside the month.
// Unparseable entries are skipped.
func (s Settings) HolidayDatesIn(year int, month time.Month) []time.Time {
	var dates []time.Time
	for _, h := range s.Holidays {
		d, err := time.Parse(DateLayout, h.Date)
		if err != nil {
			continue
		}
		if d.Year() == year && d.Month() == month {
			dates = append(dates, d)
		}
	}
	return dates
}
