package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/spartacusmuoz/transferte-prenota/internal/domain"
)

// EmployeeRepo defines the persistence operations for Employees.
type EmployeeRepo interface {
	// Create inserts a new employee. Returns domain.ErrConflict if the email
	// is already registered.
	Create(ctx context.Context, employee domain.Employee) (domain.Employee, error)

	// GetByID retrieves an employee by primary key.
	// Returns domain.ErrNotFound if no such employee exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Employee, error)

	// GetByEmail retrieves an employee by unique email.
	// Returns domain.ErrNotFound if no such employee exists.
	GetByEmail(ctx context.Context, email string) (domain.Employee, error)

	// List returns one page of employees ordered by last name, plus the total count.
	List(ctx context.Context, p domain.PaginationParams) ([]domain.Employee, int64, error)

	// Update overwrites the profile fields (names, email, phone, work area).
	// Role and password hash are not touched.
	Update(ctx context.Context, employee domain.Employee) (domain.Employee, error)

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	// UpdateRole replaces the employee's role and returns the updated record.
	UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) (domain.Employee, error)
}

// pgEmployeeRepo is the Postgres implementation of EmployeeRepo.
type pgEmployeeRepo struct {
	db db
}

// NewEmployeeRepo constructs an EmployeeRepo backed by the provided db connection.
func NewEmployeeRepo(db db) EmployeeRepo {
	return &pgEmployeeRepo{db: db}
}

const employeeColumns = `id, first_name, last_name, email, phone, work_area,
		role, password_hash, created_at, updated_at`

// Create inserts a new employee row.
// A unique violation on the email column maps to domain.ErrConflict.
func (r *pgEmployeeRepo) Create(ctx context.Context, employee domain.Employee) (domain.Employee, error) {
	const q = `
		INSERT INTO employees (first_name, last_name, email, phone, work_area, role, password_hash)
		VALUES (@first_name, @last_name, @email, @phone, @work_area, @role, @password_hash)
		RETURNING ` + employeeColumns

	args := pgx.NamedArgs{
		"first_name":    employee.FirstName,
		"last_name":     employee.LastName,
		"email":         employee.Email,
		"phone":         employee.Phone,
		"work_area":     employee.WorkArea,
		"role":          string(employee.Role),
		"password_hash": employee.PasswordHash,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanEmployee(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Employee{}, fmt.Errorf("repo.EmployeeRepo.Create: email already registered: %w", domain.ErrConflict)
		}
		return domain.Employee{}, fmt.Errorf("repo.EmployeeRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves an employee by primary key.
func (r *pgEmployeeRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Employee, error) {
	const q = `SELECT ` + employeeColumns + ` FROM employees WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanEmployee(row)
	if err != nil {
		return domain.Employee{}, fmt.Errorf("repo.EmployeeRepo.GetByID: %w", err)
	}
	return result, nil
}

// GetByEmail retrieves an employee by unique email.
func (r *pgEmployeeRepo) GetByEmail(ctx context.Context, email string) (domain.Employee, error) {
	const q = `SELECT ` + employeeColumns + ` FROM employees WHERE email = @email`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"email": email})
	result, err := scanEmployee(row)
	if err != nil {
		return domain.Employee{}, fmt.Errorf("repo.EmployeeRepo.GetByEmail: %w", err)
	}
	return result, nil
}

// List returns one page of employees ordered by last name, first name.
func (r *pgEmployeeRepo) List(ctx context.Context, p domain.PaginationParams) ([]domain.Employee, int64, error) {
	const countQ = `SELECT count(*) FROM employees`

	var total int64
	if err := r.db.QueryRow(ctx, countQ).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.EmployeeRepo.List: count: %w", err)
	}

	const q = `
		SELECT ` + employeeColumns + `
		FROM employees
		ORDER BY last_name, first_name
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.EmployeeRepo.List: %w", err)
	}
	defer rows.Close()

	var employees []domain.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.EmployeeRepo.List: scan: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.EmployeeRepo.List: rows: %w", err)
	}

	return employees, total, nil
}

// Update overwrites the profile fields and returns the updated record.
// A unique violation (email taken by someone else) maps to domain.ErrConflict.
func (r *pgEmployeeRepo) Update(ctx context.Context, employee domain.Employee) (domain.Employee, error) {
	const q = `
		UPDATE employees
		SET first_name = @first_name,
		    last_name  = @last_name,
		    email      = @email,
		    phone      = @phone,
		    work_area  = @work_area,
		    updated_at = now()
		WHERE id = @id
		RETURNING ` + employeeColumns

	args := pgx.NamedArgs{
		"id":         employee.ID,
		"first_name": employee.FirstName,
		"last_name":  employee.LastName,
		"email":      employee.Email,
		"phone":      employee.Phone,
		"work_area":  employee.WorkArea,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanEmployee(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Employee{}, fmt.Errorf("repo.EmployeeRepo.Update: email already registered: %w", domain.ErrConflict)
		}
		return domain.Employee{}, fmt.Errorf("repo.EmployeeRepo.Update: %w", err)
	}
	return result, nil
}

// UpdatePassword replaces the stored password hash.
func (r *pgEmployeeRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	const q = `
		UPDATE employees
		SET password_hash = @password_hash, updated_at = now()
		WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "password_hash": passwordHash})
	if err != nil {
		return fmt.Errorf("repo.EmployeeRepo.UpdatePassword: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.EmployeeRepo.UpdatePassword: %w", domain.ErrNotFound)
	}
	return nil
}

// UpdateRole replaces the employee's role.
func (r *pgEmployeeRepo) UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) (domain.Employee, error) {
	const q = `
		UPDATE employees
		SET role = @role, updated_at = now()
		WHERE id = @id
		RETURNING ` + employeeColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "role": string(role)})
	result, err := scanEmployee(row)
	if err != nil {
		return domain.Employee{}, fmt.Errorf("repo.EmployeeRepo.UpdateRole: %w", err)
	}
	return result, nil
}

// scanEmployee maps a single database row into a domain.Employee.
func scanEmployee(s scanner) (domain.Employee, error) {
	var (
		e        domain.Employee
		id       pgtype.UUID
		phone    pgtype.Text
		workArea pgtype.Text
		role     string
	)

	err := s.Scan(&id, &e.FirstName, &e.LastName, &e.Email, &phone, &workArea,
		&role, &e.PasswordHash, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Employee{}, domain.ErrNotFound
		}
		return domain.Employee{}, err
	}

	e.ID = uuid.UUID(id.Bytes)
	e.Phone = phone.String
	e.WorkArea = workArea.String
	e.Role = domain.Role(role)

	return e, nil
}
