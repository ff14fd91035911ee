package policy_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/spartacusmuoz/transferte-prenota/internal/domain"
	"github.com/spartacusmuoz/transferte-prenota/internal/policy"
)

func actor(role domain.Role) domain.Actor {
	return domain.Actor{ID: uuid.New(), Role: role}
}

func TestCheckDecide(t *testing.T) {
	p := policy.Default()

	assert.ErrorIs(t, p.CheckDecide(actor(domain.RoleEmployee)), domain.ErrForbidden)
	assert.NoError(t, p.CheckDecide(actor(domain.RoleManager)))
	assert.NoError(t, p.CheckDecide(actor(domain.RoleAdmin)))
}

func TestCheckListAll_Gated(t *testing.T) {
	p := policy.Default()

	assert.ErrorIs(t, p.CheckListAll(actor(domain.RoleEmployee)), domain.ErrForbidden)
	assert.NoError(t, p.CheckListAll(actor(domain.RoleManager)))
	assert.NoError(t, p.CheckListAll(actor(domain.RoleAdmin)))
}

func TestCheckListAll_Ungated(t *testing.T) {
	p := policy.Policy{RequireElevatedRoleForListAll: false}

	assert.NoError(t, p.CheckListAll(actor(domain.RoleEmployee)))
}

func TestCheckAdmin(t *testing.T) {
	p := policy.Default()

	assert.ErrorIs(t, p.CheckAdmin(actor(domain.RoleEmployee)), domain.ErrForbidden)
	assert.ErrorIs(t, p.CheckAdmin(actor(domain.RoleManager)), domain.ErrForbidden)
	assert.NoError(t, p.CheckAdmin(actor(domain.RoleAdmin)))
}

func TestCheckOwner(t *testing.T) {
	p := policy.Default()
	owner := actor(domain.RoleEmployee)

	// the owner always passes
	assert.NoError(t, p.CheckOwner(owner, owner.ID))

	// another plain employee is forbidden
	assert.ErrorIs(t, p.CheckOwner(actor(domain.RoleEmployee), owner.ID), domain.ErrForbidden)

	// elevated roles bypass ownership
	assert.NoError(t, p.CheckOwner(actor(domain.RoleManager), owner.ID))
	assert.NoError(t, p.CheckOwner(actor(domain.RoleAdmin), owner.ID))
}

func TestCheckStrictOwner(t *testing.T) {
	p := policy.Default()
	owner := actor(domain.RoleEmployee)

	assert.NoError(t, p.CheckStrictOwner(owner, owner.ID))

	// not even an admin may author on someone else's behalf
	assert.ErrorIs(t, p.CheckStrictOwner(actor(domain.RoleAdmin), owner.ID), domain.ErrForbidden)
}
