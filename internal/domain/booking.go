package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransportType is the means of transport a booking reserves.
type TransportType string

const (
	TransportAir   TransportType = "air"
	TransportRail  TransportType = "rail"
	TransportCar   TransportType = "car"
	TransportOther TransportType = "other"
)

// ParseTransportType validates a raw transport type string.
// Returns ErrValidation for unknown values.
func ParseTransportType(s string) (TransportType, error) {
	switch TransportType(s) {
	case TransportAir, TransportRail, TransportCar, TransportOther:
		return TransportType(s), nil
	}
	return "", fmt.Errorf("%w: unknown transport type %q", ErrValidation, s)
}

// Booking is a reserved transport item attached to a trip.
// Cost is nil when the price is not yet known; reimbursement treats a nil
// cost as zero.
type Booking struct {
	ID            uuid.UUID        `json:"id"`
	TripID        uuid.UUID        `json:"trip_id"`
	TransportType TransportType    `json:"transport_type"`
	Supplier      string           `json:"supplier,omitempty"`
	Cost          *decimal.Decimal `json:"cost,omitempty"`
	Details       string           `json:"details,omitempty"`
	TicketFile    string           `json:"ticket_file,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// Reimbursement is the rolled-up cost of a trip: the sum of all expense
// amounts plus all non-nil booking costs. Amounts are summed raw — no
// currency conversion is attempted.
type Reimbursement struct {
	TripID       uuid.UUID       `json:"trip_id"`
	ExpenseTotal decimal.Decimal `json:"expense_total"`
	BookingTotal decimal.Decimal `json:"booking_total"`
	Total        decimal.Decimal `json:"total"`
	ComputedAt   time.Time       `json:"computed_at"`
}
