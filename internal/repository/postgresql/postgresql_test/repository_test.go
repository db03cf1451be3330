package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shinelab/detailing-ops/internal/domain/attendance"
	"github.com/shinelab/detailing-ops/internal/domain/employee"
	"github.com/shinelab/detailing-ops/internal/domain/user"
	"github.com/shinelab/detailing-ops/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newID(t *testing.T) string {
	id, err := uuid.NewV7()
	require.NoError(t, err)
	return id.String()
}

func createEmployee(t *testing.T, ctx context.Context, repo employee.EmployeeRepository, name string, salary *decimal.Decimal) employee.Employee {
	t.Helper()
	e, err := repo.Create(ctx, employee.Employee{
		ID:        newID(t),
		Name:      name,
		JobStatus: employee.JobStatusFullTime,
		Status:    employee.StatusActive,
		Salary:    salary,
	})
	require.NoError(t, err)
	return e
}

// ===== EMPLOYEE REPOSITORY TESTS =====

func TestEmployeeRepository_CreateAndUpdate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewEmployeeRepository(db)

	salary := decimal.RequireFromString("4500.50")
	email := "jane@example.com"
	created, err := repo.Create(ctx, employee.Employee{
		ID: newID(t), Name: "Jane Doe", Email: &email, Department: "Detailing",
		JobStatus: employee.JobStatusFullTime, Status: employee.StatusActive, Salary: &salary,
	})
	require.NoError(t, err)
	require.NotNil(t, created.Salary)
	assert.True(t, salary.Equal(*created.Salary))

	_, err = repo.Create(ctx, employee.Employee{
		ID: newID(t), Name: "Copy", Email: &email,
		JobStatus: employee.JobStatusFullTime, Status: employee.StatusActive,
	})
	assert.ErrorIs(t, err, employee.ErrEmailExists)

	exists, err := repo.ExistsByEmail(ctx, "JANE@example.com", nil)
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.ExistsByEmail(ctx, email, &created.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	created.Salary = nil
	created.Status = employee.StatusInactive
	updated, err := repo.Update(ctx, created)
	require.NoError(t, err)
	assert.Nil(t, updated.Salary)

	active, err := repo.GetActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	_, err = repo.GetByID(ctx, newID(t))
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

// ===== ATTENDANCE REPOSITORY TESTS =====

func TestAttendanceRepository_UpsertListDelete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	employees := postgresql.NewEmployeeRepository(db)
	repo := postgresql.NewAttendanceRepository(db)

	jane := createEmployee(t, ctx, employees, "Jane Doe", nil)
	omar := createEmployee(t, ctx, employees, "Omar Saleh", nil)
	oct1 := time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC)

	first, err := repo.Upsert(ctx, attendance.DailyRecord{
		ID: newID(t), EmployeeID: jane.ID, Date: oct1, Status: attendance.StatusPresent,
	})
	require.NoError(t, err)

	second, err := repo.Upsert(ctx, attendance.DailyRecord{
		ID: newID(t), EmployeeID: jane.ID, Date: oct1, Status: attendance.StatusPaidLeave,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, attendance.StatusPaidLeave, second.Status)

	for _, d := range []int{2, 31} {
		_, err := repo.Upsert(ctx, attendance.DailyRecord{
			ID: newID(t), EmployeeID: jane.ID, Date: oct1.AddDate(0, 0, d-1), Status: attendance.StatusPresent,
		})
		require.NoError(t, err)
	}
	_, err = repo.Upsert(ctx, attendance.DailyRecord{
		ID: newID(t), EmployeeID: jane.ID, Date: oct1.AddDate(0, 1, 0), Status: attendance.StatusPresent,
	})
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, attendance.DailyRecord{
		ID: newID(t), EmployeeID: omar.ID, Date: oct1, Status: attendance.StatusAbsentUnpaid,
	})
	require.NoError(t, err)

	start, end := attendance.MonthRange(2024, time.October)
	records, err := repo.ListByEmployee(ctx, jane.ID, start, end)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Jane Doe", *records[0].EmployeeName)

	all, err := repo.ListByRange(ctx, start, end)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	deleted, err := repo.DeleteByEmployee(ctx, jane.ID, start, end)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	all, err = repo.ListByRange(ctx, start, end)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestWithTransaction_RollsBack(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	employees := postgresql.NewEmployeeRepository(db)

	errBoom := errors.New("boom")
	err := postgresql.NewTxManager(db).WithinTransaction(ctx, func(ctx context.Context) error {
		createEmployee(t, ctx, employees, "Temp", nil)
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)

	all, err := employees.List(ctx, employee.EmployeeFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

// ===== SETTINGS REPOSITORY TESTS =====

func TestSettingsRepository_GetAndUpsert(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewSettingsRepository(db)

	_, err := repo.Get(ctx)
	assert.ErrorIs(t, err, attendance.ErrSettingsNotFound)

	saved, err := repo.Upsert(ctx, attendance.Settings{
		WorkingDays: []int{0, 1, 2, 3, 4},
		WeekendDays: []string{"Friday", "Saturday"},
		Holidays:    []attendance.Holiday{{Date: "2024-12-02", Label: "National Day"}},
	})
	require.NoError(t, err)
	assert.False(t, saved.UpdatedAt.IsZero())

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got.WorkingDays)
	assert.Equal(t, []string{"Friday", "Saturday"}, got.WeekendDays)
	assert.Equal(t, []attendance.Holiday{{Date: "2024-12-02", Label: "National Day"}}, got.Holidays)
}

// ===== USER REPOSITORY TESTS =====

func TestUserRepository_CreateAndUpdateRole(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(db)

	created, err := repo.Create(ctx, user.User{
		ID: newID(t), Email: "admin@example.com", Name: "Admin", PasswordHash: "hash",
		Role: user.RoleAdmin, IsActive: true,
	})
	require.NoError(t, err)

	_, err = repo.Create(ctx, user.User{
		ID: newID(t), Email: "admin@example.com", Name: "Dup", PasswordHash: "hash",
		Role: user.RoleStaff, IsActive: true,
	})
	assert.ErrorIs(t, err, user.ErrUserEmailExists)

	found, err := repo.GetByEmail(ctx, "ADMIN@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	updated, err := repo.UpdateRole(ctx, created.ID, user.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, user.RoleManager, updated.Role)

	_, err = repo.GetByID(ctx, newID(t))
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
