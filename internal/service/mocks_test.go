package service_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spartacusmuoz/transferte-prenota/internal/domain"
	"github.com/spartacusmuoz/transferte-prenota/internal/repo"
)

// Hand-written test doubles for the repo interfaces. Each method delegates to
// a function field; tests stub only the calls they expect to happen.

type mockTripRepo struct {
	create         func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID        func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	listByEmployee func(ctx context.Context, employeeID uuid.UUID) ([]domain.Trip, error)
	listAll        func(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	update         func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	updateStatus   func(ctx context.Context, id uuid.UUID, status domain.TripStatus, note *string) (domain.Trip, error)
	delete         func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]domain.Trip, error) {
	return m.listByEmployee(ctx, employeeID)
}
func (m *mockTripRepo) ListAll(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	if m.listAll != nil {
		return m.listAll(ctx, p)
	}
	return nil, 0, nil
}
func (m *mockTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.update(ctx, trip)
}
func (m *mockTripRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TripStatus, note *string) (domain.Trip, error) {
	return m.updateStatus(ctx, id, status, note)
}
func (m *mockTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ repo.TripRepo = (*mockTripRepo)(nil)

type mockExpenseRepo struct {
	create         func(ctx context.Context, expense domain.Expense) (domain.Expense, error)
	getByID        func(ctx context.Context, id uuid.UUID) (domain.Expense, error)
	listByEmployee func(ctx context.Context, employeeID uuid.UUID) ([]domain.Expense, error)
	listAll        func(ctx context.Context, p domain.PaginationParams) ([]domain.Expense, int64, error)
	sumByTrip      func(ctx context.Context, tripID uuid.UUID) (decimal.Decimal, error)
	getFile        func(ctx context.Context, fileID uuid.UUID) (domain.ExpenseFile, error)
	deleteFile     func(ctx context.Context, fileID uuid.UUID) error
}

func (m *mockExpenseRepo) Create(ctx context.Context, expense domain.Expense) (domain.Expense, error) {
	return m.create(ctx, expense)
}
func (m *mockExpenseRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Expense, error) {
	return m.getByID(ctx, id)
}
func (m *mockExpenseRepo) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]domain.Expense, error) {
	return m.listByEmployee(ctx, employeeID)
}
func (m *mockExpenseRepo) ListAll(ctx context.Context, p domain.PaginationParams) ([]domain.Expense, int64, error) {
	if m.listAll != nil {
		return m.listAll(ctx, p)
	}
	return nil, 0, nil
}
func (m *mockExpenseRepo) SumByTrip(ctx context.Context, tripID uuid.UUID) (decimal.Decimal, error) {
	return m.sumByTrip(ctx, tripID)
}
func (m *mockExpenseRepo) GetFile(ctx context.Context, fileID uuid.UUID) (domain.ExpenseFile, error) {
	return m.getFile(ctx, fileID)
}
func (m *mockExpenseRepo) DeleteFile(ctx context.Context, fileID uuid.UUID) error {
	return m.deleteFile(ctx, fileID)
}

var _ repo.ExpenseRepo = (*mockExpenseRepo)(nil)

type mockBookingRepo struct {
	create         func(ctx context.Context, booking domain.Booking) (domain.Booking, error)
	getByID        func(ctx context.Context, id uuid.UUID) (domain.Booking, error)
	listByEmployee func(ctx context.Context, employeeID uuid.UUID) ([]domain.Booking, error)
	listAll        func(ctx context.Context, p domain.PaginationParams) ([]domain.Booking, int64, error)
	sumByTrip      func(ctx context.Context, tripID uuid.UUID) (decimal.Decimal, error)
}

func (m *mockBookingRepo) Create(ctx context.Context, booking domain.Booking) (domain.Booking, error) {
	return m.create(ctx, booking)
}
func (m *mockBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	return m.getByID(ctx, id)
}
func (m *mockBookingRepo) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]domain.Booking, error) {
	return m.listByEmployee(ctx, employeeID)
}
func (m *mockBookingRepo) ListAll(ctx context.Context, p domain.PaginationParams) ([]domain.Booking, int64, error) {
	if m.listAll != nil {
		return m.listAll(ctx, p)
	}
	return nil, 0, nil
}
func (m *mockBookingRepo) SumByTrip(ctx context.Context, tripID uuid.UUID) (decimal.Decimal, error) {
	return m.sumByTrip(ctx, tripID)
}

var _ repo.BookingRepo = (*mockBookingRepo)(nil)

type mockEmployeeRepo struct {
	create         func(ctx context.Context, employee domain.Employee) (domain.Employee, error)
	getByID        func(ctx context.Context, id uuid.UUID) (domain.Employee, error)
	getByEmail     func(ctx context.Context, email string) (domain.Employee, error)
	list           func(ctx context.Context, p domain.PaginationParams) ([]domain.Employee, int64, error)
	update         func(ctx context.Context, employee domain.Employee) (domain.Employee, error)
	updatePassword func(ctx context.Context, id uuid.UUID, passwordHash string) error
	updateRole     func(ctx context.Context, id uuid.UUID, role domain.Role) (domain.Employee, error)
}

func (m *mockEmployeeRepo) Create(ctx context.Context, employee domain.Employee) (domain.Employee, error) {
	return m.create(ctx, employee)
}
func (m *mockEmployeeRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Employee, error) {
	return m.getByID(ctx, id)
}
func (m *mockEmployeeRepo) GetByEmail(ctx context.Context, email string) (domain.Employee, error) {
	return m.getByEmail(ctx, email)
}
func (m *mockEmployeeRepo) List(ctx context.Context, p domain.PaginationParams) ([]domain.Employee, int64, error) {
	if m.list != nil {
		return m.list(ctx, p)
	}
	return nil, 0, nil
}
func (m *mockEmployeeRepo) Update(ctx context.Context, employee domain.Employee) (domain.Employee, error) {
	return m.update(ctx, employee)
}
func (m *mockEmployeeRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return m.updatePassword(ctx, id, passwordHash)
}
func (m *mockEmployeeRepo) UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) (domain.Employee, error) {
	return m.updateRole(ctx, id, role)
}

var _ repo.EmployeeRepo = (*mockEmployeeRepo)(nil)
