package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/spartacusmuoz/transferte-prenota/internal/auth"
	"github.com/spartacusmuoz/transferte-prenota/internal/domain"
	"github.com/spartacusmuoz/transferte-prenota/internal/repo"
)

// RegisterInput carries the fields needed to register a new employee.
// Role is optional and defaults to employee.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	WorkArea  string
	Password  string
	Role      domain.Role
}

// AuthService implements registration and login.
type AuthService struct {
	employees repo.EmployeeRepo
	tokens    *auth.TokenManager
}

// NewAuthService constructs an AuthService backed by the employee repo and
// the given token manager.
func NewAuthService(employees repo.EmployeeRepo, tokens *auth.TokenManager) *AuthService {
	return &AuthService{employees: employees, tokens: tokens}
}

// Register validates the input, hashes the password, and persists the
// employee. Returns domain.ErrConflict when the email is already registered.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (domain.Employee, error) {
	if err := validateRegisterInput(input); err != nil {
		return domain.Employee{}, err
	}

	role := input.Role
	if role == "" {
		role = domain.RoleEmployee
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return domain.Employee{}, fmt.Errorf("service.AuthService.Register: hash password: %w", err)
	}

	employee := domain.Employee{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:        input.Phone,
		WorkArea:     input.WorkArea,
		Role:         role,
		PasswordHash: hash,
	}

	result, err := s.employees.Create(ctx, employee)
	if err != nil {
		return domain.Employee{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}
	return result, nil
}

// Login verifies the credentials and returns a signed access token plus the
// employee record. A wrong email and a wrong password both yield
// domain.ErrUnauthorized — the response must not reveal which one it was.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, domain.Employee, error) {
	employee, err := s.employees.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", domain.Employee{}, fmt.Errorf("service.AuthService.Login: %w: invalid email or password", domain.ErrUnauthorized)
	}
	if !auth.CheckPassword(password, employee.PasswordHash) {
		return "", domain.Employee{}, fmt.Errorf("service.AuthService.Login: %w: invalid email or password", domain.ErrUnauthorized)
	}

	token, err := s.tokens.Issue(employee)
	if err != nil {
		return "", domain.Employee{}, fmt.Errorf("service.AuthService.Login: issue token: %w", err)
	}
	return token, employee, nil
}

// validateRegisterInput enforces the registration business rules.
func validateRegisterInput(input RegisterInput) error {
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return fmt.Errorf("%w: first and last name are required", domain.ErrValidation)
	}
	email := strings.TrimSpace(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: a valid email is required", domain.ErrValidation)
	}
	if len(input.Password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", domain.ErrValidation)
	}
	if input.Role != "" {
		if _, err := domain.ParseRole(string(input.Role)); err != nil {
			return err
		}
	}
	return nil
}
