package attendance

import (
	"time"
)

// Status is the stored state of one employee-day. "Not marked" is the absence of a record.
type Status string

const (
	StatusPresent      Status = "present"
	StatusAbsentPaid   Status = "absent-paid"
	StatusAbsentUnpaid Status = "absent-unpaid"
	StatusPaidLeave    Status = "paid-leave"
	StatusUnpaidLeave  Status = "unpaid-leave"
)

var Statuses = []Status{
	StatusPresent,
	StatusAbsentPaid,
	StatusAbsentUnpaid,
	StatusPaidLeave,
	StatusUnpaidLeave,
}

func (s Status) IsValid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// DailyRecord is one attendance entry, unique per (EmployeeID, Date).
type DailyRecord struct {
	ID         string
	EmployeeID string
	Date       time.Time
	Status     Status
	Note       *string
	MarkedBy   *string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Joined
	EmployeeName *string
}

const DateLayout = "2006-01-02"

// RecordKey is the composite identity the store enforces for a record.
func RecordKey(employeeID string, date time.Time) string {
	return employeeID + "_" + date.Format(DateLayout)
}

// MonthRange returns [start, end) for the calendar month in UTC.
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
