package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shinelab/detailing-ops/internal/domain/employee"
	"github.com/shinelab/detailing-ops/internal/pkg/database"
	"github.com/shinelab/detailing-ops/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `
	id, name, email, department, position, job_status, status, salary::text, created_at, updated_at
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var (
		e      employee.Employee
		salary *string
	)
	if err := row.Scan(
		&e.ID, &e.Name, &e.Email, &e.Department, &e.Position, &e.JobStatus, &e.Status,
		&salary, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return employee.Employee{}, err
	}
	if salary != nil {
		d, err := decimal.NewFromString(*salary)
		if err != nil {
			return employee.Employee{}, fmt.Errorf("invalid salary for employee %s: %w", e.ID, err)
		}
		e.Salary = &d
	}
	return e, nil
}

// salaryArg renders a salary as numeric text so NULL stays NULL.
func salaryArg(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func (r *employeeRepositoryImpl) queryEmployees(ctx context.Context, query string, args ...interface{}) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}
	return employees, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	// A malformed id would fail the uuid cast in postgres.
	if !validator.IsValidUUID(id) {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	q := GetQuerier(ctx, r.db)

	e, err := scanEmployee(q.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee with id %s: %w", id, err)
	}
	return e, nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Department != nil {
		args = append(args, *filter.Department)
		conditions = append(conditions, fmt.Sprintf("department = $%d", len(args)))
	}

	query := `SELECT ` + employeeColumns + ` FROM employees`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY name, id"

	return r.queryEmployees(ctx, query, args...)
}

// GetActive implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetActive(ctx context.Context) ([]employee.Employee, error) {
	return r.queryEmployees(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE status = $1 ORDER BY name, id`,
		employee.StatusActive,
	)
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	row := q.QueryRow(ctx, `
		INSERT INTO employees (id, name, email, department, position, job_status, status, salary)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::numeric)
		RETURNING `+employeeColumns,
		newEmployee.ID,
		newEmployee.Name,
		newEmployee.Email,
		newEmployee.Department,
		newEmployee.Position,
		newEmployee.JobStatus,
		newEmployee.Status,
		salaryArg(newEmployee.Salary),
	)

	created, err := scanEmployee(row)
	if err != nil {
		if isUniqueViolation(err) {
			return employee.Employee{}, employee.ErrEmailExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return created, nil
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	row := q.QueryRow(ctx, `
		UPDATE employees
		SET name = $2, email = $3, department = $4, position = $5, job_status = $6,
			status = $7, salary = $8::numeric, updated_at = NOW()
		WHERE id = $1
		RETURNING `+employeeColumns,
		emp.ID,
		emp.Name,
		emp.Email,
		emp.Department,
		emp.Position,
		emp.JobStatus,
		emp.Status,
		salaryArg(emp.Salary),
	)

	updated, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		if isUniqueViolation(err) {
			return employee.Employee{}, employee.ErrEmailExists
		}
		return employee.Employee{}, fmt.Errorf("failed to update employee with id %s: %w", emp.ID, err)
	}
	return updated, nil
}

// ExistsByEmail implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ExistsByEmail(ctx context.Context, email string, excludeID *string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM employees
			WHERE lower(email) = lower($1) AND ($2::uuid IS NULL OR id <> $2::uuid)
		)
	`, email, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check employee email: %w", err)
	}
	return exists, nil
}
