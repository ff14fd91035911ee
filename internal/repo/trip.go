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

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with
	// DB-generated id, status, created_at, and updated_at populated).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// ListByEmployee returns all trips owned by the employee, newest departure first.
	ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]domain.Trip, error)

	// ListAll returns one page of all trips plus the total count.
	ListAll(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)

	// Update overwrites the employee-authored fields of an existing trip and
	// returns the updated record. Status and secretariat note are not touched.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// UpdateStatus sets the trip status and, when note is non-nil, overwrites
	// the secretariat note. Returns domain.ErrNotFound if the trip is missing.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TripStatus, note *string) (domain.Trip, error)

	// Delete removes a trip by ID. Returns domain.ErrNotFound if it does not
	// exist and domain.ErrConflict if expenses or bookings still reference it.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, employee_id, departure_date, return_date, destination,
		extra_location, project_type, status, employee_note, secretariat_note,
		created_at, updated_at`

// Create inserts a new trip row and returns the full persisted record.
// The status column defaults to 'submitted' in the schema.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (employee_id, departure_date, return_date, destination,
		                   extra_location, project_type, employee_note)
		VALUES (@employee_id, @departure_date, @return_date, @destination,
		        @extra_location, @project_type, @employee_note)
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"employee_id":    trip.EmployeeID,
		"departure_date": trip.DepartureDate,
		"return_date":    trip.ReturnDate,
		"destination":    trip.Destination,
		"extra_location": trip.ExtraLocation,
		"project_type":   trip.ProjectType,
		"employee_note":  trip.EmployeeNote,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a trip by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListByEmployee returns the employee's trips ordered by departure_date descending.
func (r *pgTripRepo) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE employee_id = @employee_id
		ORDER BY departure_date DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"employee_id": employeeID})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByEmployee: %w", err)
	}
	defer rows.Close()

	return collectTrips(rows, "repo.TripRepo.ListByEmployee")
}

// ListAll returns one page of all trips ordered by departure_date descending,
// plus the total row count for pagination.
func (r *pgTripRepo) ListAll(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	const countQ = `SELECT count(*) FROM trips`

	var total int64
	if err := r.db.QueryRow(ctx, countQ).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListAll: count: %w", err)
	}

	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		ORDER BY departure_date DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListAll: %w", err)
	}
	defer rows.Close()

	trips, err := collectTrips(rows, "repo.TripRepo.ListAll")
	if err != nil {
		return nil, 0, err
	}
	return trips, total, nil
}

// Update overwrites the employee-authored fields and returns the updated record.
func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET departure_date = @departure_date,
		    return_date    = @return_date,
		    destination    = @destination,
		    extra_location = @extra_location,
		    project_type   = @project_type,
		    employee_note  = @employee_note,
		    updated_at     = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"id":             trip.ID,
		"departure_date": trip.DepartureDate,
		"return_date":    trip.ReturnDate,
		"destination":    trip.Destination,
		"extra_location": trip.ExtraLocation,
		"project_type":   trip.ProjectType,
		"employee_note":  trip.EmployeeNote,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

// UpdateStatus sets the status and optionally the secretariat note.
// A nil note leaves the existing note untouched.
func (r *pgTripRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TripStatus, note *string) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET status           = @status,
		    secretariat_note = COALESCE(@note, secretariat_note),
		    updated_at       = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "status": string(status), "note": note})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.UpdateStatus: %w", err)
	}
	return result, nil
}

// Delete removes a trip by primary key.
// A foreign key violation (expenses or bookings still attached) maps to
// domain.ErrConflict so the handler can answer 409 instead of 500.
func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("repo.TripRepo.Delete: trip has expenses or bookings: %w", domain.ErrConflict)
		}
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// collectTrips drains rows into a slice, wrapping scan errors with op.
func collectTrips(rows pgx.Rows, op string) ([]domain.Trip, error) {
	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}
	return trips, nil
}

// scanTrip maps a single database row into a domain.Trip.
// It handles the UUID and date conversions and nullable text columns.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t         domain.Trip
		id, empID pgtype.UUID
		departure pgtype.Date
		ret       pgtype.Date
		status    string
		extra     pgtype.Text
		project   pgtype.Text
		empNote   pgtype.Text
		secNote   pgtype.Text
	)

	err := s.Scan(&id, &empID, &departure, &ret, &t.Destination,
		&extra, &project, &status, &empNote, &secNote,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.EmployeeID = uuid.UUID(empID.Bytes)
	t.DepartureDate = departure.Time
	t.ReturnDate = ret.Time
	t.Status = domain.TripStatus(status)
	t.ExtraLocation = extra.String
	t.ProjectType = project.String
	t.EmployeeNote = empNote.String
	t.SecretariatNote = secNote.String

	return t, nil
}
