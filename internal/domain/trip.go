package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TripStatus is the lifecycle state of a trip.
type TripStatus string

const (
	// StatusSubmitted is the initial state of every new trip.
	StatusSubmitted TripStatus = "submitted"
	// StatusApproved means the secretariat accepted the trip.
	StatusApproved TripStatus = "approved"
	// StatusRejected means the secretariat declined the trip.
	StatusRejected TripStatus = "rejected"
	// StatusCompleted means the trip took place and is closed.
	StatusCompleted TripStatus = "completed"
)

// ParseTripStatus validates a raw status string.
// Returns ErrValidation for unknown values.
func ParseTripStatus(s string) (TripStatus, error) {
	switch TripStatus(s) {
	case StatusSubmitted, StatusApproved, StatusRejected, StatusCompleted:
		return TripStatus(s), nil
	}
	return "", fmt.Errorf("%w: unknown trip status %q", ErrValidation, s)
}

// CanTransitionTo reports whether the strict transition graph allows moving
// from the current status to next:
//
//	submitted → approved | rejected
//	approved  → completed
//
// Re-applying the current status is always allowed (idempotent re-approval).
// No edge leaves rejected or completed.
func (s TripStatus) CanTransitionTo(next TripStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case StatusSubmitted:
		return next == StatusApproved || next == StatusRejected
	case StatusApproved:
		return next == StatusCompleted
	}
	return false
}

// Decided reports whether the secretariat has acted on the trip.
// Used by the owner-edit lock: a decided trip may be frozen for its owner.
func (s TripStatus) Decided() bool {
	return s != StatusSubmitted
}

// Trip represents a business-travel request spanning a date range.
// A trip is the top-level aggregate; expenses and bookings belong to a trip.
// EmployeeID is immutable after creation.
type Trip struct {
	ID              uuid.UUID  `json:"id"`
	EmployeeID      uuid.UUID  `json:"employee_id"`
	DepartureDate   time.Time  `json:"departure_date"`
	ReturnDate      time.Time  `json:"return_date"`
	Destination     string     `json:"destination"`
	ExtraLocation   string     `json:"extra_location,omitempty"`
	ProjectType     string     `json:"project_type,omitempty"`
	Status          TripStatus `json:"status"`
	EmployeeNote    string     `json:"employee_note,omitempty"`
	SecretariatNote string     `json:"secretariat_note,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
