package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/spartacusmuoz/transferte-prenota/internal/domain"
)

// ExpenseRepo defines the persistence operations for Expenses and their files.
type ExpenseRepo interface {
	// Create inserts an expense and all its attached files in one transaction.
	// Either everything commits or nothing does. Returns the persisted expense
	// with file metadata populated.
	Create(ctx context.Context, expense domain.Expense) (domain.Expense, error)

	// GetByID retrieves an expense (with file metadata, no content) by primary key.
	// Returns domain.ErrNotFound if no such expense exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Expense, error)

	// ListByEmployee returns all expenses across the employee's trips,
	// newest expense date first, with file metadata.
	ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]domain.Expense, error)

	// ListAll returns one page of all expenses plus the total count.
	ListAll(ctx context.Context, p domain.PaginationParams) ([]domain.Expense, int64, error)

	// SumByTrip returns the sum of all expense amounts for a trip.
	// A trip with no expenses sums to zero.
	SumByTrip(ctx context.Context, tripID uuid.UUID) (decimal.Decimal, error)

	// GetFile retrieves a single file including its content.
	// Returns domain.ErrNotFound if no such file exists.
	GetFile(ctx context.Context, fileID uuid.UUID) (domain.ExpenseFile, error)

	// DeleteFile removes a file by ID.
	// Returns domain.ErrNotFound if it does not exist.
	DeleteFile(ctx context.Context, fileID uuid.UUID) error
}

// pgExpenseRepo is the Postgres implementation of ExpenseRepo.
// It needs txdb rather than plain db because Create spans multiple inserts.
type pgExpenseRepo struct {
	db txdb
}

// NewExpenseRepo constructs an ExpenseRepo backed by the provided connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx — nested
// transactions become savepoints, so rollback isolation still holds.
func NewExpenseRepo(db txdb) ExpenseRepo {
	return &pgExpenseRepo{db: db}
}

const expenseColumns = `id, trip_id, category, amount, currency, receipt_type,
		expense_date, created_at, updated_at`

// Create inserts the expense row and its file rows atomically.
func (r *pgExpenseRepo) Create(ctx context.Context, expense domain.Expense) (domain.Expense, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.Create: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	const q = `
		INSERT INTO expenses (trip_id, category, amount, currency, receipt_type, expense_date)
		VALUES (@trip_id, @category, @amount::numeric, @currency, @receipt_type, @expense_date)
		RETURNING ` + expenseColumns

	args := pgx.NamedArgs{
		"trip_id":      expense.TripID,
		"category":     expense.Category,
		"amount":       expense.Amount.String(),
		"currency":     expense.Currency,
		"receipt_type": string(expense.ReceiptType),
		"expense_date": expense.ExpenseDate,
	}

	created, err := scanExpense(tx.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.Create: %w", err)
	}

	const fileQ = `
		INSERT INTO expense_files (expense_id, filename, mime_type, content)
		VALUES (@expense_id, @filename, @mime_type, @content)
		RETURNING id, expense_id, filename, mime_type, created_at`

	for _, f := range expense.Files {
		fileArgs := pgx.NamedArgs{
			"expense_id": created.ID,
			"filename":   f.Filename,
			"mime_type":  f.MimeType,
			"content":    f.Content,
		}
		stored, err := scanExpenseFileMeta(tx.QueryRow(ctx, fileQ, fileArgs))
		if err != nil {
			return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.Create: file %q: %w", f.Filename, err)
		}
		created.Files = append(created.Files, stored)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.Create: commit: %w", err)
	}
	if created.Files == nil {
		created.Files = []domain.ExpenseFile{}
	}
	return created, nil
}

// GetByID retrieves an expense with its file metadata.
func (r *pgExpenseRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Expense, error) {
	const q = `SELECT ` + expenseColumns + ` FROM expenses WHERE id = @id`

	expense, err := scanExpense(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.GetByID: %w", err)
	}

	files, err := r.loadFileMeta(ctx, []uuid.UUID{expense.ID})
	if err != nil {
		return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.GetByID: %w", err)
	}
	expense.Files = files[expense.ID]
	if expense.Files == nil {
		expense.Files = []domain.ExpenseFile{}
	}
	return expense, nil
}

// ListByEmployee returns expenses across all trips owned by the employee.
func (r *pgExpenseRepo) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]domain.Expense, error) {
	const q = `
		SELECT e.id, e.trip_id, e.category, e.amount, e.currency, e.receipt_type,
		       e.expense_date, e.created_at, e.updated_at
		FROM expenses e
		JOIN trips t ON t.id = e.trip_id
		WHERE t.employee_id = @employee_id
		ORDER BY e.expense_date DESC, e.created_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"employee_id": employeeID})
	if err != nil {
		return nil, fmt.Errorf("repo.ExpenseRepo.ListByEmployee: %w", err)
	}
	defer rows.Close()

	expenses, err := collectExpenses(rows, "repo.ExpenseRepo.ListByEmployee")
	if err != nil {
		return nil, err
	}
	if err := r.attachFileMeta(ctx, expenses); err != nil {
		return nil, fmt.Errorf("repo.ExpenseRepo.ListByEmployee: %w", err)
	}
	return expenses, nil
}

// ListAll returns one page of all expenses plus the total count.
func (r *pgExpenseRepo) ListAll(ctx context.Context, p domain.PaginationParams) ([]domain.Expense, int64, error) {
	const countQ = `SELECT count(*) FROM expenses`

	var total int64
	if err := r.db.QueryRow(ctx, countQ).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.ExpenseRepo.ListAll: count: %w", err)
	}

	const q = `
		SELECT ` + expenseColumns + `
		FROM expenses
		ORDER BY expense_date DESC, created_at DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ExpenseRepo.ListAll: %w", err)
	}
	defer rows.Close()

	expenses, err := collectExpenses(rows, "repo.ExpenseRepo.ListAll")
	if err != nil {
		return nil, 0, err
	}
	if err := r.attachFileMeta(ctx, expenses); err != nil {
		return nil, 0, fmt.Errorf("repo.ExpenseRepo.ListAll: %w", err)
	}
	return expenses, total, nil
}

// SumByTrip returns the total expense amount for a trip (zero when none).
func (r *pgExpenseRepo) SumByTrip(ctx context.Context, tripID uuid.UUID) (decimal.Decimal, error) {
	const q = `SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE trip_id = @trip_id`

	var n pgtype.Numeric
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID}).Scan(&n); err != nil {
		return decimal.Zero, fmt.Errorf("repo.ExpenseRepo.SumByTrip: %w", err)
	}
	return numericToDecimal(n), nil
}

// GetFile retrieves a file row including the raw content bytes.
func (r *pgExpenseRepo) GetFile(ctx context.Context, fileID uuid.UUID) (domain.ExpenseFile, error) {
	const q = `
		SELECT id, expense_id, filename, mime_type, content, created_at
		FROM expense_files
		WHERE id = @id`

	var (
		f         domain.ExpenseFile
		id, expID pgtype.UUID
		mime      pgtype.Text
	)
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": fileID}).
		Scan(&id, &expID, &f.Filename, &mime, &f.Content, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ExpenseFile{}, fmt.Errorf("repo.ExpenseRepo.GetFile: %w", domain.ErrNotFound)
		}
		return domain.ExpenseFile{}, fmt.Errorf("repo.ExpenseRepo.GetFile: %w", err)
	}

	f.ID = uuid.UUID(id.Bytes)
	f.ExpenseID = uuid.UUID(expID.Bytes)
	f.MimeType = mime.String
	return f, nil
}

// DeleteFile removes a file by primary key.
func (r *pgExpenseRepo) DeleteFile(ctx context.Context, fileID uuid.UUID) error {
	const q = `DELETE FROM expense_files WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": fileID})
	if err != nil {
		return fmt.Errorf("repo.ExpenseRepo.DeleteFile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ExpenseRepo.DeleteFile: %w", domain.ErrNotFound)
	}
	return nil
}

// attachFileMeta populates Files on each expense with one batched query.
func (r *pgExpenseRepo) attachFileMeta(ctx context.Context, expenses []domain.Expense) error {
	if len(expenses) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(expenses))
	for i, e := range expenses {
		ids[i] = e.ID
	}
	byExpense, err := r.loadFileMeta(ctx, ids)
	if err != nil {
		return err
	}
	for i := range expenses {
		expenses[i].Files = byExpense[expenses[i].ID]
		if expenses[i].Files == nil {
			expenses[i].Files = []domain.ExpenseFile{}
		}
	}
	return nil
}

// loadFileMeta fetches file metadata (no content) for a set of expense IDs.
func (r *pgExpenseRepo) loadFileMeta(ctx context.Context, expenseIDs []uuid.UUID) (map[uuid.UUID][]domain.ExpenseFile, error) {
	const q = `
		SELECT id, expense_id, filename, mime_type, created_at
		FROM expense_files
		WHERE expense_id = ANY(@ids)
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"ids": expenseIDs})
	if err != nil {
		return nil, fmt.Errorf("load file meta: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]domain.ExpenseFile)
	for rows.Next() {
		f, err := scanExpenseFileMeta(rows)
		if err != nil {
			return nil, fmt.Errorf("load file meta: scan: %w", err)
		}
		out[f.ExpenseID] = append(out[f.ExpenseID], f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load file meta: rows: %w", err)
	}
	return out, nil
}

// collectExpenses drains rows into a slice, wrapping scan errors with op.
func collectExpenses(rows pgx.Rows, op string) ([]domain.Expense, error) {
	var expenses []domain.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}
	return expenses, nil
}

// scanExpense maps a single database row into a domain.Expense (no files).
func scanExpense(s scanner) (domain.Expense, error) {
	var (
		e           domain.Expense
		id, tripID  pgtype.UUID
		amount      pgtype.Numeric
		receiptType string
		expenseDate pgtype.Date
	)

	err := s.Scan(&id, &tripID, &e.Category, &amount, &e.Currency,
		&receiptType, &expenseDate, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Expense{}, domain.ErrNotFound
		}
		return domain.Expense{}, err
	}

	e.ID = uuid.UUID(id.Bytes)
	e.TripID = uuid.UUID(tripID.Bytes)
	e.Amount = numericToDecimal(amount)
	e.ReceiptType = domain.ReceiptType(receiptType)
	e.ExpenseDate = expenseDate.Time

	return e, nil
}

// scanExpenseFileMeta maps a file metadata row (no content column).
func scanExpenseFileMeta(s scanner) (domain.ExpenseFile, error) {
	var (
		f         domain.ExpenseFile
		id, expID pgtype.UUID
		mime      pgtype.Text
	)

	err := s.Scan(&id, &expID, &f.Filename, &mime, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ExpenseFile{}, domain.ErrNotFound
		}
		return domain.ExpenseFile{}, err
	}

	f.ID = uuid.UUID(id.Bytes)
	f.ExpenseID = uuid.UUID(expID.Bytes)
	f.MimeType = mime.String

	return f, nil
}
