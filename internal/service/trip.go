// Package service contains the business logic for the trasferte API.
// Services validate inputs, enforce the access policy, and orchestrate repo
// calls. No SQL lives here — services depend on repo interfaces, not
// implementations.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spartacusmuoz/transferte-prenota/internal/domain"
	"github.com/spartacusmuoz/transferte-prenota/internal/policy"
	"github.com/spartacusmuoz/transferte-prenota/internal/repo"
)

// TripInput carries the employee-authored fields of a trip.
type TripInput struct {
	DepartureDate time.Time
	ReturnDate    time.Time
	Destination   string
	ExtraLocation string
	ProjectType   string
	EmployeeNote  string
}

// TripService implements the trip lifecycle and reimbursement aggregation.
type TripService struct {
	trips    repo.TripRepo
	expenses repo.ExpenseRepo
	bookings repo.BookingRepo
	policy   policy.Policy

	// strictTransitions enforces the status transition graph; when false any
	// status may be set by an elevated actor, replicating the legacy setter.
	strictTransitions bool

	// ownerEditLocked freezes employee-authored fields once a trip is decided.
	ownerEditLocked bool
}

// NewTripService constructs a TripService backed by the provided repos.
func NewTripService(trips repo.TripRepo, expenses repo.ExpenseRepo, bookings repo.BookingRepo,
	p policy.Policy, strictTransitions, ownerEditLocked bool) *TripService {
	return &TripService{
		trips:             trips,
		expenses:          expenses,
		bookings:          bookings,
		policy:            p,
		strictTransitions: strictTransitions,
		ownerEditLocked:   ownerEditLocked,
	}
}

// Create validates and persists a new trip owned by the actor.
// New trips always start in the submitted state.
func (s *TripService) Create(ctx context.Context, actor domain.Actor, input TripInput) (domain.Trip, error) {
	if err := validateTripInput(input); err != nil {
		return domain.Trip{}, err
	}

	trip := domain.Trip{
		EmployeeID:    actor.ID,
		DepartureDate: input.DepartureDate,
		ReturnDate:    input.ReturnDate,
		Destination:   input.Destination,
		ExtraLocation: input.ExtraLocation,
		ProjectType:   input.ProjectType,
		EmployeeNote:  input.EmployeeNote,
	}

	result, err := s.trips.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single trip. The owner and elevated roles may read it;
// any other employee gets domain.ErrForbidden.
func (s *TripService) GetByID(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	if err := s.policy.CheckOwner(actor, trip.EmployeeID); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return trip, nil
}

// ListMine returns the actor's own trips.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) ListMine(ctx context.Context, actor domain.Actor) ([]domain.Trip, error) {
	trips, err := s.trips.ListByEmployee(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListMine: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// ListAll returns one page of every employee's trips.
// Gated by the list-all policy (manager/admin by default).
func (s *TripService) ListAll(ctx context.Context, actor domain.Actor, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	if err := s.policy.CheckListAll(actor); err != nil {
		return nil, 0, fmt.Errorf("service.TripService.ListAll: %w", err)
	}
	trips, total, err := s.trips.ListAll(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.ListAll: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, total, nil
}

// Update lets the owner edit the employee-authored fields of their trip.
// With ownerEditLocked enabled, a decided trip can no longer be edited.
func (s *TripService) Update(ctx context.Context, actor domain.Actor, id uuid.UUID, input TripInput) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	if err := s.policy.CheckStrictOwner(actor, trip.EmployeeID); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	if s.ownerEditLocked && trip.Status.Decided() {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: trip already decided: %w", domain.ErrConflict)
	}
	if err := validateTripInput(input); err != nil {
		return domain.Trip{}, err
	}

	trip.DepartureDate = input.DepartureDate
	trip.ReturnDate = input.ReturnDate
	trip.Destination = input.Destination
	trip.ExtraLocation = input.ExtraLocation
	trip.ProjectType = input.ProjectType
	trip.EmployeeNote = input.EmployeeNote

	result, err := s.trips.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return result, nil
}

// Approve sets the trip to approved. Manager/admin only.
// A non-nil note overwrites the secretariat note.
func (s *TripService) Approve(ctx context.Context, actor domain.Actor, id uuid.UUID, note *string) (domain.Trip, error) {
	return s.SetStatus(ctx, actor, id, domain.StatusApproved, note)
}

// Reject sets the trip to rejected. Manager/admin only.
func (s *TripService) Reject(ctx context.Context, actor domain.Actor, id uuid.UUID, note *string) (domain.Trip, error) {
	return s.SetStatus(ctx, actor, id, domain.StatusRejected, note)
}

// Complete sets the trip to completed. Manager/admin only.
func (s *TripService) Complete(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.Trip, error) {
	return s.SetStatus(ctx, actor, id, domain.StatusCompleted, nil)
}

// SetStatus is the generic status setter behind Approve/Reject/Complete.
// In strict mode the transition graph is enforced; otherwise any status goes,
// which matches the behaviour the secretariat's list view relies on today.
// An empty status keeps the current one, allowing note-only updates.
func (s *TripService) SetStatus(ctx context.Context, actor domain.Actor, id uuid.UUID, status domain.TripStatus, note *string) (domain.Trip, error) {
	if err := s.policy.CheckDecide(actor); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.SetStatus: %w", err)
	}

	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.SetStatus: %w", err)
	}

	if status == "" {
		status = trip.Status
	}

	if s.strictTransitions && !trip.Status.CanTransitionTo(status) {
		return domain.Trip{}, fmt.Errorf("%w: cannot move trip from %s to %s",
			domain.ErrValidation, trip.Status, status)
	}

	result, err := s.trips.UpdateStatus(ctx, id, status, note)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.SetStatus: %w", err)
	}
	return result, nil
}

// Delete removes a trip. Owner only; a trip that still has expenses or
// bookings attached cannot be deleted (domain.ErrConflict).
func (s *TripService) Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	if err := s.policy.CheckStrictOwner(actor, trip.EmployeeID); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	if err := s.trips.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// Reimbursement rolls up all expense amounts and booking costs of a trip.
// Manager/admin only. Read-only and safe to call repeatedly.
func (s *TripService) Reimbursement(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.Reimbursement, error) {
	if err := s.policy.CheckDecide(actor); err != nil {
		return domain.Reimbursement{}, fmt.Errorf("service.TripService.Reimbursement: %w", err)
	}
	if _, err := s.trips.GetByID(ctx, id); err != nil {
		return domain.Reimbursement{}, fmt.Errorf("service.TripService.Reimbursement: %w", err)
	}

	expenseTotal, err := s.expenses.SumByTrip(ctx, id)
	if err != nil {
		return domain.Reimbursement{}, fmt.Errorf("service.TripService.Reimbursement: %w", err)
	}
	bookingTotal, err := s.bookings.SumByTrip(ctx, id)
	if err != nil {
		return domain.Reimbursement{}, fmt.Errorf("service.TripService.Reimbursement: %w", err)
	}

	return domain.Reimbursement{
		TripID:       id,
		ExpenseTotal: expenseTotal,
		BookingTotal: bookingTotal,
		Total:        expenseTotal.Add(bookingTotal),
		ComputedAt:   time.Now().UTC(),
	}, nil
}

// validateTripInput enforces business rules common to Create and Update.
//   - Destination must be non-empty (whitespace-only is rejected).
//   - ReturnDate must not be before DepartureDate.
func validateTripInput(input TripInput) error {
	if strings.TrimSpace(input.Destination) == "" {
		return fmt.Errorf("%w: destination is required", domain.ErrValidation)
	}
	if input.DepartureDate.IsZero() || input.ReturnDate.IsZero() {
		return fmt.Errorf("%w: departure_date and return_date are required", domain.ErrValidation)
	}
	if input.ReturnDate.Before(input.DepartureDate) {
		return fmt.Errorf("%w: return_date must not be before departure_date", domain.ErrValidation)
	}
	return nil
}
