package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shinelab/detailing-ops/internal/domain/employee"
	"github.com/shinelab/detailing-ops/internal/pkg/validator"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{employeeRepo: employeeRepo}
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	e := strings.ToLower(strings.TrimSpace(*email))
	if e == "" {
		return nil
	}
	return &e
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	email := normalizeEmail(req.Email)
	if email != nil {
		exists, err := s.employeeRepo.ExistsByEmail(ctx, *email, nil)
		if err != nil {
			return employee.EmployeeResponse{}, fmt.Errorf("failed to check email: %w", err)
		}
		if exists {
			return employee.EmployeeResponse{}, employee.ErrEmailExists
		}
	}

	id, err := uuid.NewV7()
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to generate employee id: %w", err)
	}

	status := employee.StatusActive
	if req.Status != "" {
		status = employee.Status(req.Status)
	}

	created, err := s.employeeRepo.Create(ctx, employee.Employee{
		ID:         id.String(),
		Name:       strings.TrimSpace(req.Name),
		Email:      email,
		Department: strings.TrimSpace(req.Department),
		Position:   strings.TrimSpace(req.Position),
		JobStatus:  employee.JobStatus(req.JobStatus),
		Status:     status,
		Salary:     req.Salary,
	})
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to create employee: %w", err)
	}

	slog.Info("employee created", "employee_id", created.ID, "has_salary", created.HasSalary())
	return employee.ToEmployeeResponse(created), nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	if !validator.IsValidUUID(id) {
		return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
	}

	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EmployeeResponse{}, err
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return employee.ToEmployeeResponse(emp), nil
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	// The id comes from the URL path, so a malformed one names no employee.
	if !validator.IsValidUUID(req.ID) {
		return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
	}
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EmployeeResponse{}, err
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	if req.Name != nil {
		emp.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		emp.Email = normalizeEmail(req.Email)
		if emp.Email != nil {
			exists, err := s.employeeRepo.ExistsByEmail(ctx, *emp.Email, &emp.ID)
			if err != nil {
				return employee.EmployeeResponse{}, fmt.Errorf("failed to check email: %w", err)
			}
			if exists {
				return employee.EmployeeResponse{}, employee.ErrEmailExists
			}
		}
	}
	if req.Department != nil {
		emp.Department = strings.TrimSpace(*req.Department)
	}
	if req.Position != nil {
		emp.Position = strings.TrimSpace(*req.Position)
	}
	if req.JobStatus != nil {
		emp.JobStatus = employee.JobStatus(*req.JobStatus)
	}
	if req.Status != nil {
		emp.Status = employee.Status(*req.Status)
	}
	if req.Salary != nil {
		emp.Salary = req.Salary
	}
	if req.ClearSalary {
		emp.Salary = nil
	}

	updated, err := s.employeeRepo.Update(ctx, emp)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EmployeeResponse{}, err
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to update employee: %w", err)
	}

	return employee.ToEmployeeResponse(updated), nil
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) ([]employee.EmployeeResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	employees, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	resp := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		resp = append(resp, employee.ToEmployeeResponse(e))
	}
	return resp, nil
}
