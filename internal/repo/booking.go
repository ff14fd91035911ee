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

// BookingRepo defines the persistence operations for Bookings.
type BookingRepo interface {
	// Create inserts a new booking and returns the persisted record.
	Create(ctx context.Context, booking domain.Booking) (domain.Booking, error)

	// GetByID retrieves a booking by primary key.
	// Returns domain.ErrNotFound if no such booking exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error)

	// ListByEmployee returns all bookings across the employee's trips,
	// newest first.
	ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]domain.Booking, error)

	// ListAll returns one page of all bookings plus the total count.
	ListAll(ctx context.Context, p domain.PaginationParams) ([]domain.Booking, int64, error)

	// SumByTrip returns the sum of all booking costs for a trip.
	// NULL costs count as zero; a trip with no bookings sums to zero.
	SumByTrip(ctx context.Context, tripID uuid.UUID) (decimal.Decimal, error)
}

// pgBookingRepo is the Postgres implementation of BookingRepo.
type pgBookingRepo struct {
	db db
}

// NewBookingRepo constructs a BookingRepo backed by the provided db connection.
func NewBookingRepo(db db) BookingRepo {
	return &pgBookingRepo{db: db}
}

const bookingColumns = `id, trip_id, transport_type, supplier, cost, details,
		ticket_file, created_at, updated_at`

// Create inserts a new booking row. A nil cost becomes NULL.
func (r *pgBookingRepo) Create(ctx context.Context, booking domain.Booking) (domain.Booking, error) {
	const q = `
		INSERT INTO bookings (trip_id, transport_type, supplier, cost, details, ticket_file)
		VALUES (@trip_id, @transport_type, @supplier, @cost::numeric, @details, @ticket_file)
		RETURNING ` + bookingColumns

	var cost *string
	if booking.Cost != nil {
		s := booking.Cost.String()
		cost = &s
	}

	args := pgx.NamedArgs{
		"trip_id":        booking.TripID,
		"transport_type": string(booking.TransportType),
		"supplier":       booking.Supplier,
		"cost":           cost,
		"details":        booking.Details,
		"ticket_file":    booking.TicketFile,
	}

	result, err := scanBooking(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a booking by primary key.
func (r *pgBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = @id`

	result, err := scanBooking(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListByEmployee returns bookings across all trips owned by the employee.
func (r *pgBookingRepo) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]domain.Booking, error) {
	const q = `
		SELECT b.id, b.trip_id, b.transport_type, b.supplier, b.cost, b.details,
		       b.ticket_file, b.created_at, b.updated_at
		FROM bookings b
		JOIN trips t ON t.id = b.trip_id
		WHERE t.employee_id = @employee_id
		ORDER BY b.created_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"employee_id": employeeID})
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListByEmployee: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows, "repo.BookingRepo.ListByEmployee")
}

// ListAll returns one page of all bookings plus the total count.
func (r *pgBookingRepo) ListAll(ctx context.Context, p domain.PaginationParams) ([]domain.Booking, int64, error) {
	const countQ = `SELECT count(*) FROM bookings`

	var total int64
	if err := r.db.QueryRow(ctx, countQ).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.BookingRepo.ListAll: count: %w", err)
	}

	const q = `
		SELECT ` + bookingColumns + `
		FROM bookings
		ORDER BY created_at DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.BookingRepo.ListAll: %w", err)
	}
	defer rows.Close()

	bookings, err := collectBookings(rows, "repo.BookingRepo.ListAll")
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// SumByTrip returns the total booking cost for a trip, counting NULL costs as zero.
func (r *pgBookingRepo) SumByTrip(ctx context.Context, tripID uuid.UUID) (decimal.Decimal, error) {
	const q = `SELECT COALESCE(SUM(COALESCE(cost, 0)), 0) FROM bookings WHERE trip_id = @trip_id`

	var n pgtype.Numeric
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID}).Scan(&n); err != nil {
		return decimal.Zero, fmt.Errorf("repo.BookingRepo.SumByTrip: %w", err)
	}
	return numericToDecimal(n), nil
}

// collectBookings drains rows into a slice, wrapping scan errors with op.
func collectBookings(rows pgx.Rows, op string) ([]domain.Booking, error) {
	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}
	return bookings, nil
}

// scanBooking maps a single database row into a domain.Booking.
// It handles the nullable cost, supplier, details, and ticket_file columns.
func scanBooking(s scanner) (domain.Booking, error) {
	var (
		b          domain.Booking
		id, tripID pgtype.UUID
		transport  string
		supplier   pgtype.Text
		cost       pgtype.Numeric
		details    pgtype.Text
		ticket     pgtype.Text
	)

	err := s.Scan(&id, &tripID, &transport, &supplier, &cost, &details,
		&ticket, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Booking{}, domain.ErrNotFound
		}
		return domain.Booking{}, err
	}

	b.ID = uuid.UUID(id.Bytes)
	b.TripID = uuid.UUID(tripID.Bytes)
	b.TransportType = domain.TransportType(transport)
	b.Supplier = supplier.String
	b.Details = details.String
	b.TicketFile = ticket.String
	if cost.Valid {
		c := numericToDecimal(cost)
		b.Cost = &c
	}

	return b, nil
}
