// Package policy implements the role and ownership permission table.
// It is a pure in-memory check with no I/O: the single Policy value is
// constructed from configuration in main and passed explicitly to every
// service that gates an operation.
package policy

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/spartacusmuoz/transferte-prenota/internal/domain"
)

// Policy holds the configurable knobs of the permission table.
// The zero value is the strictest variant.
type Policy struct {
	// RequireElevatedRoleForListAll gates the "list all" endpoints
	// (trips, expenses, bookings) to manager/admin when true.
	// When false any authenticated actor may list all rows.
	RequireElevatedRoleForListAll bool
}

// Default returns the policy used in production deployments:
// list-all endpoints are restricted to manager/admin.
func Default() Policy {
	return Policy{RequireElevatedRoleForListAll: true}
}

// elevated reports whether the role may act on trips it does not own.
func elevated(role domain.Role) bool {
	return role == domain.RoleManager || role == domain.RoleAdmin
}

// CheckDecide verifies the actor may approve, reject, or complete trips.
// Only manager and admin qualify.
func (p Policy) CheckDecide(actor domain.Actor) error {
	if !elevated(actor.Role) {
		return fmt.Errorf("%w: role %s cannot decide trips", domain.ErrForbidden, actor.Role)
	}
	return nil
}

// CheckListAll verifies the actor may list resources across all employees.
func (p Policy) CheckListAll(actor domain.Actor) error {
	if p.RequireElevatedRoleForListAll && !elevated(actor.Role) {
		return fmt.Errorf("%w: role %s cannot list all", domain.ErrForbidden, actor.Role)
	}
	return nil
}

// CheckAdmin verifies the actor may administer employees
// (reset passwords, change roles, list users).
func (p Policy) CheckAdmin(actor domain.Actor) error {
	if actor.Role != domain.RoleAdmin {
		return fmt.Errorf("%w: admin role required", domain.ErrForbidden)
	}
	return nil
}

// CheckOwner verifies the actor owns the resource identified by ownerID.
// Managers and admins pass regardless of ownership, which lets them read
// and act on any trip. The denial is ErrForbidden, not ErrNotFound: the
// resource exists, the actor just may not touch it.
func (p Policy) CheckOwner(actor domain.Actor, ownerID uuid.UUID) error {
	if actor.ID == ownerID || elevated(actor.Role) {
		return nil
	}
	return fmt.Errorf("%w: not the owner", domain.ErrForbidden)
}

// CheckStrictOwner is like CheckOwner but without the elevated-role bypass.
// Used for employee-authored fields (trip edits, expense uploads) that even
// a manager must not author on someone else's behalf.
func (p Policy) CheckStrictOwner(actor domain.Actor, ownerID uuid.UUID) error {
	if actor.ID == ownerID {
		return nil
	}
	return fmt.Errorf("%w: not the owner", domain.ErrForbidden)
}
