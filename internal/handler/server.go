// Package handler implements the HTTP handlers for the trasferte API.
// All handlers are methods on Server. Methods are split into resource-specific
// files (trip.go, expense.go, etc.) but all share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/spartacusmuoz/transferte-prenota/internal/domain"
	"github.com/spartacusmuoz/transferte-prenota/internal/middleware"
	"github.com/spartacusmuoz/transferte-prenota/internal/service"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, actor domain.Actor, input service.TripInput) (domain.Trip, error)
	GetByID(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.Trip, error)
	ListMine(ctx context.Context, actor domain.Actor) ([]domain.Trip, error)
	ListAll(ctx context.Context, actor domain.Actor, p domain.PaginationParams) ([]domain.Trip, int64, error)
	Update(ctx context.Context, actor domain.Actor, id uuid.UUID, input service.TripInput) (domain.Trip, error)
	Approve(ctx context.Context, actor domain.Actor, id uuid.UUID, note *string) (domain.Trip, error)
	Reject(ctx context.Context, actor domain.Actor, id uuid.UUID, note *string) (domain.Trip, error)
	Complete(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.Trip, error)
	SetStatus(ctx context.Context, actor domain.Actor, id uuid.UUID, status domain.TripStatus, note *string) (domain.Trip, error)
	Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error
	Reimbursement(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.Reimbursement, error)
}

// ExpenseServicer defines the business operations the expense handlers depend on.
type ExpenseServicer interface {
	Create(ctx context.Context, actor domain.Actor, input service.ExpenseInput) (domain.Expense, error)
	ListMine(ctx context.Context, actor domain.Actor) ([]domain.Expense, error)
	ListAll(ctx context.Context, actor domain.Actor, p domain.PaginationParams) ([]domain.Expense, int64, error)
	GetFile(ctx context.Context, actor domain.Actor, fileID uuid.UUID) (domain.ExpenseFile, error)
	DeleteFile(ctx context.Context, actor domain.Actor, fileID uuid.UUID) error
}

// BookingServicer defines the business operations the booking handlers depend on.
type BookingServicer interface {
	Create(ctx context.Context, actor domain.Actor, input service.BookingInput) (domain.Booking, error)
	ListMine(ctx context.Context, actor domain.Actor) ([]domain.Booking, error)
	ListAll(ctx context.Context, actor domain.Actor, p domain.PaginationParams) ([]domain.Booking, int64, error)
}

// AuthServicer defines the registration/login operations the auth handlers depend on.
type AuthServicer interface {
	Register(ctx context.Context, input service.RegisterInput) (domain.Employee, error)
	Login(ctx context.Context, email, password string) (string, domain.Employee, error)
}

// EmployeeServicer defines the admin and profile operations the handlers depend on.
type EmployeeServicer interface {
	List(ctx context.Context, actor domain.Actor, p domain.PaginationParams) ([]domain.Employee, int64, error)
	ResetPassword(ctx context.Context, actor domain.Actor, id uuid.UUID, newPassword string) error
	UpdateRole(ctx context.Context, actor domain.Actor, id uuid.UUID, role domain.Role) (domain.Employee, error)
	UpdateProfile(ctx context.Context, actor domain.Actor, input service.ProfileInput) (domain.Employee, error)
}

// Server holds the handler dependencies for all API endpoints.
type Server struct {
	trips     TripServicer
	expenses  ExpenseServicer
	bookings  BookingServicer
	auth      AuthServicer
	employees EmployeeServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(trips TripServicer, expenses ExpenseServicer, bookings BookingServicer,
	auth AuthServicer, employees EmployeeServicer) *Server {
	return &Server{trips: trips, expenses: expenses, bookings: bookings, auth: auth, employees: employees}
}

// Routes registers every endpoint on a new chi router.
// requireAuth wraps all routes except /auth/* and /healthz.
func (s *Server) Routes(requireAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.Register)
		r.Post("/login", s.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)

		r.Route("/trasferte", func(r chi.Router) {
			r.Post("/", s.CreateTrip)
			r.Get("/", s.ListMyTrips)
			r.Get("/all", s.ListAllTrips)
			r.Get("/{tripID}", s.GetTrip)
			r.Put("/{tripID}", s.UpdateTrip)
			r.Delete("/{tripID}", s.DeleteTrip)
			r.Patch("/{tripID}/approva", s.ApproveTrip)
			r.Patch("/{tripID}/rifiuta", s.RejectTrip)
			r.Patch("/{tripID}/completa", s.CompleteTrip)
			r.Patch("/{tripID}/stato", s.SetTripStatus)
			r.Get("/{tripID}/rimborso", s.TripReimbursement)
			r.Post("/{tripID}/spese", s.CreateExpense)
			r.Post("/{tripID}/prenotazioni", s.CreateBooking)
		})

		r.Route("/spese", func(r chi.Router) {
			r.Get("/", s.ListAllExpenses)
			r.Get("/mine", s.ListMyExpenses)
			r.Get("/file/{fileID}", s.GetExpenseFile)
			r.Delete("/file/{fileID}", s.DeleteExpenseFile)
		})

		r.Route("/prenotazioni", func(r chi.Router) {
			r.Get("/", s.ListAllBookings)
			r.Get("/mine", s.ListMyBookings)
		})

		r.Route("/admin/utenti", func(r chi.Router) {
			r.Get("/", s.ListEmployees)
			r.Post("/{employeeID}/reset-password", s.ResetPassword)
			r.Patch("/{employeeID}/ruolo", s.UpdateRole)
		})

		r.Put("/utenti/me", s.UpdateProfile)
	})

	return r
}

// actorFrom extracts the authenticated actor placed in the context by the
// auth middleware. ok is false only if a route was wired without it.
func actorFrom(r *http.Request) (domain.Actor, bool) {
	return middleware.ActorFrom(r.Context())
}

// pathUUID parses the named chi URL parameter as a UUID.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}

// queryPagination builds PaginationParams from the optional ?page= and
// ?limit= query parameters.
func queryPagination(r *http.Request) domain.PaginationParams {
	return domain.NewPaginationParams(queryInt(r, "page"), queryInt(r, "limit"))
}

// queryInt parses an optional integer query parameter, nil when absent or malformed.
func queryInt(r *http.Request, name string) *int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}
