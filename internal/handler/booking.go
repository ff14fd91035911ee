package handler

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/spartacusmuoz/transferte-prenota/internal/domain"
	"github.com/spartacusmuoz/transferte-prenota/internal/service"
)

// bookingRequest is the JSON body for creating a booking.
// Cost is optional; omit it when the price is not yet known.
type bookingRequest struct {
	TransportType string           `json:"transport_type"`
	Supplier      string           `json:"supplier"`
	Cost          *decimal.Decimal `json:"cost"`
	Details       string           `json:"details"`
	TicketFile    string           `json:"ticket_file"`
}

// CreateBooking handles POST /trasferte/{tripID}/prenotazioni.
func (s *Server) CreateBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		writeRequestError(w, "invalid trip id")
		return
	}

	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRequestError(w, "invalid request body")
		return
	}

	transport, err := domain.ParseTransportType(req.TransportType)
	if err != nil {
		writeError(w, err)
		return
	}

	booking, err := s.bookings.Create(r.Context(), actor, service.BookingInput{
		TripID:        tripID,
		TransportType: transport,
		Supplier:      req.Supplier,
		Cost:          req.Cost,
		Details:       req.Details,
		TicketFile:    req.TicketFile,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

// ListMyBookings handles GET /prenotazioni/mine.
func (s *Server) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}

	bookings, err := s.bookings.ListMine(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

// ListAllBookings handles GET /prenotazioni. Manager/admin only.
func (s *Server) ListAllBookings(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}

	p := queryPagination(r)
	bookings, total, err := s.bookings.ListAll(r.Context(), actor, p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse{Items: bookings, Total: total, Page: p.Page, Limit: p.Limit})
}
