package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/spartacusmuoz/transferte-prenota/internal/domain"
	"github.com/spartacusmuoz/transferte-prenota/internal/service"
)

// dateLayout is the wire format for trip and expense dates.
const dateLayout = "2006-01-02"

// tripRequest is the JSON body for creating or updating a trip.
// Dates travel as "YYYY-MM-DD" strings.
type tripRequest struct {
	DepartureDate string `json:"departure_date"`
	ReturnDate    string `json:"return_date"`
	Destination   string `json:"destination"`
	ExtraLocation string `json:"extra_location"`
	ProjectType   string `json:"project_type"`
	EmployeeNote  string `json:"employee_note"`
}

// tripResponse is the JSON shape of a trip in responses.
type tripResponse struct {
	ID              uuid.UUID         `json:"id"`
	EmployeeID      uuid.UUID         `json:"employee_id"`
	DepartureDate   string            `json:"departure_date"`
	ReturnDate      string            `json:"return_date"`
	Destination     string            `json:"destination"`
	ExtraLocation   string            `json:"extra_location,omitempty"`
	ProjectType     string            `json:"project_type,omitempty"`
	Status          domain.TripStatus `json:"status"`
	EmployeeNote    string            `json:"employee_note,omitempty"`
	SecretariatNote string            `json:"secretariat_note,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func toTripResponse(t domain.Trip) tripResponse {
	return tripResponse{
		ID:              t.ID,
		EmployeeID:      t.EmployeeID,
		DepartureDate:   t.DepartureDate.Format(dateLayout),
		ReturnDate:      t.ReturnDate.Format(dateLayout),
		Destination:     t.Destination,
		ExtraLocation:   t.ExtraLocation,
		ProjectType:     t.ProjectType,
		Status:          t.Status,
		EmployeeNote:    t.EmployeeNote,
		SecretariatNote: t.SecretariatNote,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func toTripResponses(trips []domain.Trip) []tripResponse {
	out := make([]tripResponse, 0, len(trips))
	for _, t := range trips {
		out = append(out, toTripResponse(t))
	}
	return out
}

// tripInputFromRequest parses the request body dates into a service input.
func tripInputFromRequest(req tripRequest) (service.TripInput, error) {
	var input service.TripInput
	var err error
	if req.DepartureDate != "" {
		input.DepartureDate, err = time.Parse(dateLayout, req.DepartureDate)
		if err != nil {
			return service.TripInput{}, err
		}
	}
	if req.ReturnDate != "" {
		input.ReturnDate, err = time.Parse(dateLayout, req.ReturnDate)
		if err != nil {
			return service.TripInput{}, err
		}
	}
	input.Destination = req.Destination
	input.ExtraLocation = req.ExtraLocation
	input.ProjectType = req.ProjectType
	input.EmployeeNote = req.EmployeeNote
	return input, nil
}

// CreateTrip handles POST /trasferte.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}

	var req tripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRequestError(w, "invalid request body")
		return
	}
	input, err := tripInputFromRequest(req)
	if err != nil {
		writeRequestError(w, "dates must be in YYYY-MM-DD format")
		return
	}

	trip, err := s.trips.Create(r.Context(), actor, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTripResponse(trip))
}

// ListMyTrips handles GET /trasferte.
func (s *Server) ListMyTrips(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}

	trips, err := s.trips.ListMine(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTripResponses(trips))
}

// pagedResponse wraps a page of items with the total row count.
type pagedResponse struct {
	Items any   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// ListAllTrips handles GET /trasferte/all. Manager/admin only.
func (s *Server) ListAllTrips(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}

	p := queryPagination(r)
	trips, total, err := s.trips.ListAll(r.Context(), actor, p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse{
		Items: toTripResponses(trips),
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	})
}

// GetTrip handles GET /trasferte/{tripID}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	id, err := pathUUID(r, "tripID")
	if err != nil {
		writeRequestError(w, "invalid trip id")
		return
	}

	trip, err := s.trips.GetByID(r.Context(), actor, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTripResponse(trip))
}

// UpdateTrip handles PUT /trasferte/{tripID}. Owner only.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	id, err := pathUUID(r, "tripID")
	if err != nil {
		writeRequestError(w, "invalid trip id")
		return
	}

	var req tripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRequestError(w, "invalid request body")
		return
	}
	input, err := tripInputFromRequest(req)
	if err != nil {
		writeRequestError(w, "dates must be in YYYY-MM-DD format")
		return
	}

	trip, err := s.trips.Update(r.Context(), actor, id, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTripResponse(trip))
}

// DeleteTrip handles DELETE /trasferte/{tripID}. Owner only; trips with
// attached expenses or bookings answer 409.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	id, err := pathUUID(r, "tripID")
	if err != nil {
		writeRequestError(w, "invalid trip id")
		return
	}

	if err := s.trips.Delete(r.Context(), actor, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decisionRequest is the optional JSON body of the approve/reject endpoints.
type decisionRequest struct {
	Note *string `json:"note"`
}

// decisionNote reads the optional note body. An empty or absent body is fine.
func decisionNote(r *http.Request) (*string, error) {
	var req decisionRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	return req.Note, nil
}

// ApproveTrip handles PATCH /trasferte/{tripID}/approva. Manager/admin only.
func (s *Server) ApproveTrip(w http.ResponseWriter, r *http.Request) {
	s.decide(w, r, s.trips.Approve)
}

// RejectTrip handles PATCH /trasferte/{tripID}/rifiuta. Manager/admin only.
func (s *Server) RejectTrip(w http.ResponseWriter, r *http.Request) {
	s.decide(w, r, s.trips.Reject)
}

// decide factors the shared shape of the approve and reject handlers.
func (s *Server) decide(w http.ResponseWriter, r *http.Request,
	fn func(ctx context.Context, actor domain.Actor, id uuid.UUID, note *string) (domain.Trip, error)) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	id, err := pathUUID(r, "tripID")
	if err != nil {
		writeRequestError(w, "invalid trip id")
		return
	}
	note, err := decisionNote(r)
	if err != nil {
		writeRequestError(w, "invalid request body")
		return
	}

	trip, err := fn(r.Context(), actor, id, note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTripResponse(trip))
}

// CompleteTrip handles PATCH /trasferte/{tripID}/completa. Manager/admin only.
func (s *Server) CompleteTrip(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	id, err := pathUUID(r, "tripID")
	if err != nil {
		writeRequestError(w, "invalid trip id")
		return
	}

	trip, err := s.trips.Complete(r.Context(), actor, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTripResponse(trip))
}

// statusRequest is the JSON body of the generic status endpoint.
// Both fields are optional; an empty status keeps the current one.
type statusRequest struct {
	Status string  `json:"status"`
	Note   *string `json:"note"`
}

// SetTripStatus handles PATCH /trasferte/{tripID}/stato. Manager/admin only.
func (s *Server) SetTripStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	id, err := pathUUID(r, "tripID")
	if err != nil {
		writeRequestError(w, "invalid trip id")
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRequestError(w, "invalid request body")
		return
	}

	var status domain.TripStatus
	if req.Status != "" {
		status, err = domain.ParseTripStatus(req.Status)
		if err != nil {
			writeError(w, err)
			return
		}
	}

	trip, err := s.trips.SetStatus(r.Context(), actor, id, status, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTripResponse(trip))
}

// TripReimbursement handles GET /trasferte/{tripID}/rimborso. Manager/admin only.
func (s *Server) TripReimbursement(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	id, err := pathUUID(r, "tripID")
	if err != nil {
		writeRequestError(w, "invalid trip id")
		return
	}

	reimbursement, err := s.trips.Reimbursement(r.Context(), actor, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reimbursement)
}
