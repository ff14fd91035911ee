package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/spartacusmuoz/transferte-prenota/internal/domain"
	"github.com/spartacusmuoz/transferte-prenota/internal/handler"
	"github.com/spartacusmuoz/transferte-prenota/internal/middleware"
	"github.com/spartacusmuoz/transferte-prenota/internal/service"
)

// ---- mock servicers --------------------------------------------------------

type mockTripServicer struct {
	create        func(ctx context.Context, actor domain.Actor, input service.TripInput) (domain.Trip, error)
	getByID       func(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.Trip, error)
	listMine      func(ctx context.Context, actor domain.Actor) ([]domain.Trip, error)
	listAll       func(ctx context.Context, actor domain.Actor, p domain.PaginationParams) ([]domain.Trip, int64, error)
	update        func(ctx context.Context, actor domain.Actor, id uuid.UUID, input service.TripInput) (domain.Trip, error)
	approve       func(ctx context.Context, actor domain.Actor, id uuid.UUID, note *string) (domain.Trip, error)
	reject        func(ctx context.Context, actor domain.Actor, id uuid.UUID, note *string) (domain.Trip, error)
	complete      func(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.Trip, error)
	setStatus     func(ctx context.Context, actor domain.Actor, id uuid.UUID, status domain.TripStatus, note *string) (domain.Trip, error)
	delete        func(ctx context.Context, actor domain.Actor, id uuid.UUID) error
	reimbursement func(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.Reimbursement, error)
}

func (m *mockTripServicer) Create(ctx context.Context, actor domain.Actor, input service.TripInput) (domain.Trip, error) {
	return m.create(ctx, actor, input)
}
func (m *mockTripServicer) GetByID(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, actor, id)
}
func (m *mockTripServicer) ListMine(ctx context.Context, actor domain.Actor) ([]domain.Trip, error) {
	return m.listMine(ctx, actor)
}
func (m *mockTripServicer) ListAll(ctx context.Context, actor domain.Actor, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.listAll(ctx, actor, p)
}
func (m *mockTripServicer) Update(ctx context.Context, actor domain.Actor, id uuid.UUID, input service.TripInput) (domain.Trip, error) {
	return m.update(ctx, actor, id, input)
}
func (m *mockTripServicer) Approve(ctx context.Context, actor domain.Actor, id uuid.UUID, note *string) (domain.Trip, error) {
	return m.approve(ctx, actor, id, note)
}
func (m *mockTripServicer) Reject(ctx context.Context, actor domain.Actor, id uuid.UUID, note *string) (domain.Trip, error) {
	return m.reject(ctx, actor, id, note)
}
func (m *mockTripServicer) Complete(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.Trip, error) {
	return m.complete(ctx, actor, id)
}
func (m *mockTripServicer) SetStatus(ctx context.Context, actor domain.Actor, id uuid.UUID, status domain.TripStatus, note *string) (domain.Trip, error) {
	return m.setStatus(ctx, actor, id, status, note)
}
func (m *mockTripServicer) Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	return m.delete(ctx, actor, id)
}
func (m *mockTripServicer) Reimbursement(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.Reimbursement, error) {
	return m.reimbursement(ctx, actor, id)
}

var _ handler.TripServicer = (*mockTripServicer)(nil)

type mockExpenseServicer struct {
	create     func(ctx context.Context, actor domain.Actor, input service.ExpenseInput) (domain.Expense, error)
	listMine   func(ctx context.Context, actor domain.Actor) ([]domain.Expense, error)
	listAll    func(ctx context.Context, actor domain.Actor, p domain.PaginationParams) ([]domain.Expense, int64, error)
	getFile    func(ctx context.Context, actor domain.Actor, fileID uuid.UUID) (domain.ExpenseFile, error)
	deleteFile func(ctx context.Context, actor domain.Actor, fileID uuid.UUID) error
}

func (m *mockExpenseServicer) Create(ctx context.Context, actor domain.Actor, input service.ExpenseInput) (domain.Expense, error) {
	return m.create(ctx, actor, input)
}
func (m *mockExpenseServicer) ListMine(ctx context.Context, actor domain.Actor) ([]domain.Expense, error) {
	return m.listMine(ctx, actor)
}
func (m *mockExpenseServicer) ListAll(ctx context.Context, actor domain.Actor, p domain.PaginationParams) ([]domain.Expense, int64, error) {
	return m.listAll(ctx, actor, p)
}
func (m *mockExpenseServicer) GetFile(ctx context.Context, actor domain.Actor, fileID uuid.UUID) (domain.ExpenseFile, error) {
	return m.getFile(ctx, actor, fileID)
}
func (m *mockExpenseServicer) DeleteFile(ctx context.Context, actor domain.Actor, fileID uuid.UUID) error {
	return m.deleteFile(ctx, actor, fileID)
}

var _ handler.ExpenseServicer = (*mockExpenseServicer)(nil)

type mockBookingServicer struct {
	create   func(ctx context.Context, actor domain.Actor, input service.BookingInput) (domain.Booking, error)
	listMine func(ctx context.Context, actor domain.Actor) ([]domain.Booking, error)
	listAll  func(ctx context.Context, actor domain.Actor, p domain.PaginationParams) ([]domain.Booking, int64, error)
}

func (m *mockBookingServicer) Create(ctx context.Context, actor domain.Actor, input service.BookingInput) (domain.Booking, error) {
	return m.create(ctx, actor, input)
}
func (m *mockBookingServicer) ListMine(ctx context.Context, actor domain.Actor) ([]domain.Booking, error) {
	return m.listMine(ctx, actor)
}
func (m *mockBookingServicer) ListAll(ctx context.Context, actor domain.Actor, p domain.PaginationParams) ([]domain.Booking, int64, error) {
	return m.listAll(ctx, actor, p)
}

var _ handler.BookingServicer = (*mockBookingServicer)(nil)

type mockAuthServicer struct {
	register func(ctx context.Context, input service.RegisterInput) (domain.Employee, error)
	login    func(ctx context.Context, email, password string) (string, domain.Employee, error)
}

func (m *mockAuthServicer) Register(ctx context.Context, input service.RegisterInput) (domain.Employee, error) {
	return m.register(ctx, input)
}
func (m *mockAuthServicer) Login(ctx context.Context, email, password string) (string, domain.Employee, error) {
	return m.login(ctx, email, password)
}

var _ handler.AuthServicer = (*mockAuthServicer)(nil)

type mockEmployeeServicer struct {
	list          func(ctx context.Context, actor domain.Actor, p domain.PaginationParams) ([]domain.Employee, int64, error)
	resetPassword func(ctx context.Context, actor domain.Actor, id uuid.UUID, newPassword string) error
	updateRole    func(ctx context.Context, actor domain.Actor, id uuid.UUID, role domain.Role) (domain.Employee, error)
	updateProfile func(ctx context.Context, actor domain.Actor, input service.ProfileInput) (domain.Employee, error)
}

func (m *mockEmployeeServicer) List(ctx context.Context, actor domain.Actor, p domain.PaginationParams) ([]domain.Employee, int64, error) {
	return m.list(ctx, actor, p)
}
func (m *mockEmployeeServicer) ResetPassword(ctx context.Context, actor domain.Actor, id uuid.UUID, newPassword string) error {
	return m.resetPassword(ctx, actor, id, newPassword)
}
func (m *mockEmployeeServicer) UpdateRole(ctx context.Context, actor domain.Actor, id uuid.UUID, role domain.Role) (domain.Employee, error) {
	return m.updateRole(ctx, actor, id, role)
}
func (m *mockEmployeeServicer) UpdateProfile(ctx context.Context, actor domain.Actor, input service.ProfileInput) (domain.Employee, error) {
	return m.updateProfile(ctx, actor, input)
}

var _ handler.EmployeeServicer = (*mockEmployeeServicer)(nil)

// ---- test server -----------------------------------------------------------

// stubParser resolves any bearer token to a fixed actor.
type stubParser struct {
	actor domain.Actor
}

func (p stubParser) Parse(string) (domain.Actor, error) {
	return p.actor, nil
}

// serverDeps bundles the mocks so tests override only what they exercise.
type serverDeps struct {
	trips     *mockTripServicer
	expenses  *mockExpenseServicer
	bookings  *mockBookingServicer
	auth      *mockAuthServicer
	employees *mockEmployeeServicer
}

// newTestServer mounts the full route tree with the real auth middleware
// backed by a stub token parser. Requests made with authedRequest carry a
// token that resolves to the given actor.
func newTestServer(t *testing.T, actor domain.Actor, deps serverDeps) *httptest.Server {
	t.Helper()

	if deps.trips == nil {
		deps.trips = &mockTripServicer{}
	}
	if deps.expenses == nil {
		deps.expenses = &mockExpenseServicer{}
	}
	if deps.bookings == nil {
		deps.bookings = &mockBookingServicer{}
	}
	if deps.auth == nil {
		deps.auth = &mockAuthServicer{}
	}
	if deps.employees == nil {
		deps.employees = &mockEmployeeServicer{}
	}

	srv := handler.NewServer(deps.trips, deps.expenses, deps.bookings, deps.auth, deps.employees)
	ts := httptest.NewServer(srv.Routes(middleware.NewAuthenticator(stubParser{actor: actor})))
	t.Cleanup(ts.Close)
	return ts
}

// authedRequest performs a request with a bearer token attached.
func authedRequest(t *testing.T, method, url string, body io.Reader) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer test-token")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// decodeBody unmarshals the response body into v.
func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}
