package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spartacusmuoz/transferte-prenota/internal/domain"
	"github.com/spartacusmuoz/transferte-prenota/internal/policy"
	"github.com/spartacusmuoz/transferte-prenota/internal/repo"
)

// FileUpload is a receipt attachment as received from the HTTP layer.
type FileUpload struct {
	Filename string
	MimeType string
	Content  []byte
}

// ExpenseInput carries the fields needed to create an expense.
type ExpenseInput struct {
	TripID      uuid.UUID
	Category    string
	Amount      decimal.Decimal
	Currency    string
	ReceiptType domain.ReceiptType
	ExpenseDate time.Time
	Files       []FileUpload
}

// ExpenseService implements the expense side of the ledger: creating dated,
// categorized costs with receipt files on a trip the actor owns.
type ExpenseService struct {
	trips    repo.TripRepo
	expenses repo.ExpenseRepo
	policy   policy.Policy

	// allowedMimeTypes restricts receipt uploads when non-empty.
	allowedMimeTypes []string
}

// NewExpenseService constructs an ExpenseService backed by the provided repos.
// Pass a nil or empty allowedMimeTypes to accept any file type.
func NewExpenseService(trips repo.TripRepo, expenses repo.ExpenseRepo, p policy.Policy, allowedMimeTypes []string) *ExpenseService {
	return &ExpenseService{trips: trips, expenses: expenses, policy: p, allowedMimeTypes: allowedMimeTypes}
}

// Create validates the expense, verifies the parent trip exists and belongs
// to the actor, then persists the expense and its files atomically.
// Returns domain.ErrNotFound if the trip does not exist and
// domain.ErrForbidden if it belongs to someone else.
func (s *ExpenseService) Create(ctx context.Context, actor domain.Actor, input ExpenseInput) (domain.Expense, error) {
	trip, err := s.trips.GetByID(ctx, input.TripID)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Create: %w", err)
	}
	if err := s.policy.CheckStrictOwner(actor, trip.EmployeeID); err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Create: %w", err)
	}
	if err := s.validateInput(input); err != nil {
		return domain.Expense{}, err
	}

	expense := domain.Expense{
		TripID:      input.TripID,
		Category:    input.Category,
		Amount:      input.Amount,
		Currency:    input.Currency,
		ReceiptType: input.ReceiptType,
		ExpenseDate: input.ExpenseDate,
	}
	if expense.Currency == "" {
		expense.Currency = domain.DefaultCurrency
	}
	for _, f := range input.Files {
		expense.Files = append(expense.Files, domain.ExpenseFile{
			Filename: f.Filename,
			MimeType: f.MimeType,
			Content:  f.Content,
		})
	}

	result, err := s.expenses.Create(ctx, expense)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Create: %w", err)
	}
	return result, nil
}

// ListMine returns all expenses across the actor's trips.
// Always returns a non-nil slice so callers can safely range over it.
func (s *ExpenseService) ListMine(ctx context.Context, actor domain.Actor) ([]domain.Expense, error) {
	expenses, err := s.expenses.ListByEmployee(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("service.ExpenseService.ListMine: %w", err)
	}
	if expenses == nil {
		return []domain.Expense{}, nil
	}
	return expenses, nil
}

// ListAll returns one page of every employee's expenses.
// Gated by the list-all policy (manager/admin by default).
func (s *ExpenseService) ListAll(ctx context.Context, actor domain.Actor, p domain.PaginationParams) ([]domain.Expense, int64, error) {
	if err := s.policy.CheckListAll(actor); err != nil {
		return nil, 0, fmt.Errorf("service.ExpenseService.ListAll: %w", err)
	}
	expenses, total, err := s.expenses.ListAll(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.ExpenseService.ListAll: %w", err)
	}
	if expenses == nil {
		expenses = []domain.Expense{}
	}
	return expenses, total, nil
}

// GetFile resolves file → expense → trip and returns the file with content
// when the actor owns the trip. The ownership denial is domain.ErrForbidden;
// a broken chain surfaces as domain.ErrNotFound.
func (s *ExpenseService) GetFile(ctx context.Context, actor domain.Actor, fileID uuid.UUID) (domain.ExpenseFile, error) {
	file, err := s.authorizeFile(ctx, actor, fileID)
	if err != nil {
		return domain.ExpenseFile{}, fmt.Errorf("service.ExpenseService.GetFile: %w", err)
	}
	return file, nil
}

// DeleteFile removes a receipt file. Same ownership chain as GetFile.
func (s *ExpenseService) DeleteFile(ctx context.Context, actor domain.Actor, fileID uuid.UUID) error {
	if _, err := s.authorizeFile(ctx, actor, fileID); err != nil {
		return fmt.Errorf("service.ExpenseService.DeleteFile: %w", err)
	}
	if err := s.expenses.DeleteFile(ctx, fileID); err != nil {
		return fmt.Errorf("service.ExpenseService.DeleteFile: %w", err)
	}
	return nil
}

// authorizeFile walks file → expense → trip and checks trip ownership.
func (s *ExpenseService) authorizeFile(ctx context.Context, actor domain.Actor, fileID uuid.UUID) (domain.ExpenseFile, error) {
	file, err := s.expenses.GetFile(ctx, fileID)
	if err != nil {
		return domain.ExpenseFile{}, err
	}
	expense, err := s.expenses.GetByID(ctx, file.ExpenseID)
	if err != nil {
		return domain.ExpenseFile{}, err
	}
	trip, err := s.trips.GetByID(ctx, expense.TripID)
	if err != nil {
		return domain.ExpenseFile{}, err
	}
	if err := s.policy.CheckStrictOwner(actor, trip.EmployeeID); err != nil {
		return domain.ExpenseFile{}, err
	}
	return file, nil
}

// validateInput enforces the expense business rules.
//   - Category must be non-empty.
//   - Amount must not be negative.
//   - Every file needs a filename; its MIME type must pass the allow-list
//     when one is configured.
func (s *ExpenseService) validateInput(input ExpenseInput) error {
	if strings.TrimSpace(input.Category) == "" {
		return fmt.Errorf("%w: category is required", domain.ErrValidation)
	}
	if input.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", domain.ErrValidation)
	}
	if input.ExpenseDate.IsZero() {
		return fmt.Errorf("%w: expense_date is required", domain.ErrValidation)
	}
	for _, f := range input.Files {
		if strings.TrimSpace(f.Filename) == "" {
			return fmt.Errorf("%w: file name is required", domain.ErrValidation)
		}
		if len(s.allowedMimeTypes) > 0 && !slices.Contains(s.allowedMimeTypes, f.MimeType) {
			return fmt.Errorf("%w: file type %q is not allowed", domain.ErrValidation, f.MimeType)
		}
	}
	return nil
}
