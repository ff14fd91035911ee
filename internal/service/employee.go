package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/spartacusmuoz/transferte-prenota/internal/auth"
	"github.com/spartacusmuoz/transferte-prenota/internal/domain"
	"github.com/spartacusmuoz/transferte-prenota/internal/policy"
	"github.com/spartacusmuoz/transferte-prenota/internal/repo"
)

// ProfileInput carries the self-service profile fields an employee may edit.
type ProfileInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	WorkArea  string
}

// EmployeeService implements employee administration (admin only) and
// self-service profile edits.
type EmployeeService struct {
	employees repo.EmployeeRepo
	policy    policy.Policy
}

// NewEmployeeService constructs an EmployeeService backed by the employee repo.
func NewEmployeeService(employees repo.EmployeeRepo, p policy.Policy) *EmployeeService {
	return &EmployeeService{employees: employees, policy: p}
}

// List returns one page of all employees. Admin only.
func (s *EmployeeService) List(ctx context.Context, actor domain.Actor, p domain.PaginationParams) ([]domain.Employee, int64, error) {
	if err := s.policy.CheckAdmin(actor); err != nil {
		return nil, 0, fmt.Errorf("service.EmployeeService.List: %w", err)
	}
	employees, total, err := s.employees.List(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.EmployeeService.List: %w", err)
	}
	if employees == nil {
		employees = []domain.Employee{}
	}
	return employees, total, nil
}

// ResetPassword replaces an employee's password. Admin only.
func (s *EmployeeService) ResetPassword(ctx context.Context, actor domain.Actor, id uuid.UUID, newPassword string) error {
	if err := s.policy.CheckAdmin(actor); err != nil {
		return fmt.Errorf("service.EmployeeService.ResetPassword: %w", err)
	}
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", domain.ErrValidation)
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("service.EmployeeService.ResetPassword: hash password: %w", err)
	}
	if err := s.employees.UpdatePassword(ctx, id, hash); err != nil {
		return fmt.Errorf("service.EmployeeService.ResetPassword: %w", err)
	}
	return nil
}

// UpdateRole changes an employee's role. Admin only.
func (s *EmployeeService) UpdateRole(ctx context.Context, actor domain.Actor, id uuid.UUID, role domain.Role) (domain.Employee, error) {
	if err := s.policy.CheckAdmin(actor); err != nil {
		return domain.Employee{}, fmt.Errorf("service.EmployeeService.UpdateRole: %w", err)
	}
	if _, err := domain.ParseRole(string(role)); err != nil {
		return domain.Employee{}, err
	}

	result, err := s.employees.UpdateRole(ctx, id, role)
	if err != nil {
		return domain.Employee{}, fmt.Errorf("service.EmployeeService.UpdateRole: %w", err)
	}
	return result, nil
}

// UpdateProfile applies self-service profile edits to the actor's own record.
// Role and password are not reachable from here.
func (s *EmployeeService) UpdateProfile(ctx context.Context, actor domain.Actor, input ProfileInput) (domain.Employee, error) {
	employee, err := s.employees.GetByID(ctx, actor.ID)
	if err != nil {
		return domain.Employee{}, fmt.Errorf("service.EmployeeService.UpdateProfile: %w", err)
	}

	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return domain.Employee{}, fmt.Errorf("%w: first and last name are required", domain.ErrValidation)
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.Employee{}, fmt.Errorf("%w: a valid email is required", domain.ErrValidation)
	}

	employee.FirstName = input.FirstName
	employee.LastName = input.LastName
	employee.Email = email
	employee.Phone = input.Phone
	employee.WorkArea = input.WorkArea

	result, err := s.employees.Update(ctx, employee)
	if err != nil {
		return domain.Employee{}, fmt.Errorf("service.EmployeeService.UpdateProfile: %w", err)
	}
	return result, nil
}
