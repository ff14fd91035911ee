package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spartacusmuoz/transferte-prenota/internal/domain"
	"github.com/spartacusmuoz/transferte-prenota/internal/policy"
	"github.com/spartacusmuoz/transferte-prenota/internal/repo"
)

// BookingInput carries the fields needed to propose a booking.
// Cost is nil when the price is not yet known.
type BookingInput struct {
	TripID        uuid.UUID
	TransportType domain.TransportType
	Supplier      string
	Cost          *decimal.Decimal
	Details       string
	TicketFile    string
}

// BookingService implements the booking side of the ledger.
type BookingService struct {
	trips    repo.TripRepo
	bookings repo.BookingRepo
	policy   policy.Policy
}

// NewBookingService constructs a BookingService backed by the provided repos.
func NewBookingService(trips repo.TripRepo, bookings repo.BookingRepo, p policy.Policy) *BookingService {
	return &BookingService{trips: trips, bookings: bookings, policy: p}
}

// Create verifies the parent trip exists and belongs to the actor, then
// persists the booking. Returns domain.ErrNotFound for a missing trip and
// domain.ErrForbidden for someone else's trip.
func (s *BookingService) Create(ctx context.Context, actor domain.Actor, input BookingInput) (domain.Booking, error) {
	trip, err := s.trips.GetByID(ctx, input.TripID)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", err)
	}
	if err := s.policy.CheckStrictOwner(actor, trip.EmployeeID); err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", err)
	}
	if input.Cost != nil && input.Cost.IsNegative() {
		return domain.Booking{}, fmt.Errorf("%w: cost must not be negative", domain.ErrValidation)
	}

	booking := domain.Booking{
		TripID:        input.TripID,
		TransportType: input.TransportType,
		Supplier:      input.Supplier,
		Cost:          input.Cost,
		Details:       input.Details,
		TicketFile:    input.TicketFile,
	}

	result, err := s.bookings.Create(ctx, booking)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", err)
	}
	return result, nil
}

// ListMine returns all bookings across the actor's trips.
// Always returns a non-nil slice so callers can safely range over it.
func (s *BookingService) ListMine(ctx context.Context, actor domain.Actor) ([]domain.Booking, error) {
	bookings, err := s.bookings.ListByEmployee(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("service.BookingService.ListMine: %w", err)
	}
	if bookings == nil {
		return []domain.Booking{}, nil
	}
	return bookings, nil
}

// ListAll returns one page of every employee's bookings.
// Gated by the list-all policy (manager/admin by default).
func (s *BookingService) ListAll(ctx context.Context, actor domain.Actor, p domain.PaginationParams) ([]domain.Booking, int64, error) {
	if err := s.policy.CheckListAll(actor); err != nil {
		return nil, 0, fmt.Errorf("service.BookingService.ListAll: %w", err)
	}
	bookings, total, err := s.bookings.ListAll(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.BookingService.ListAll: %w", err)
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	return bookings, total, nil
}
