package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceiptType categorizes the receipt attached to an expense.
type ReceiptType string

const (
	ReceiptAir        ReceiptType = "air"
	ReceiptRail       ReceiptType = "rail"
	ReceiptTaxi       ReceiptType = "taxi"
	ReceiptHotel      ReceiptType = "hotel"
	ReceiptRestaurant ReceiptType = "restaurant"
	ReceiptOther      ReceiptType = "other"
)

// ParseReceiptType validates a raw receipt type string.
// Returns ErrValidation for unknown values.
func ParseReceiptType(s string) (ReceiptType, error) {
	switch ReceiptType(s) {
	case ReceiptAir, ReceiptRail, ReceiptTaxi, ReceiptHotel, ReceiptRestaurant, ReceiptOther:
		return ReceiptType(s), nil
	}
	return "", fmt.Errorf("%w: unknown receipt type %q", ErrValidation, s)
}

// DefaultCurrency is applied when an expense is created without one.
const DefaultCurrency = "EUR"

// Expense is a dated, categorized monetary cost attached to a trip.
// An expense has no lifecycle of its own — it follows its trip.
type Expense struct {
	ID          uuid.UUID       `json:"id"`
	TripID      uuid.UUID       `json:"trip_id"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	ReceiptType ReceiptType     `json:"receipt_type"`
	ExpenseDate time.Time       `json:"expense_date"`
	Files       []ExpenseFile   `json:"files"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ExpenseFile is a receipt attachment stored as an opaque byte blob.
// Content is immutable once stored. List responses carry only the metadata;
// Content is populated by the dedicated file download path.
type ExpenseFile struct {
	ID        uuid.UUID `json:"id"`
	ExpenseID uuid.UUID `json:"expense_id"`
	Filename  string    `json:"filename"`
	MimeType  string    `json:"mime_type,omitempty"`
	Content   []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
