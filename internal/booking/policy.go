package booking

import "github.com/npezzotti/homeease/internal/types"

type edge struct {
	From types.Status
	To   types.Status
	Role types.Role
}

// permissions lists every allowed status change and the role that may make it.
// Anything absent is refused.
var permissions = map[edge]struct{}{
	{From: types.StatusPending, To: types.StatusInProgress, Role: types.RolePlumber}:   {},
	{From: types.StatusPending, To: types.StatusCompleted, Role: types.RolePlumber}:    {},
	{From: types.StatusInProgress, To: types.StatusCompleted, Role: types.RolePlumber}: {},
	{From: types.StatusPending, To: types.StatusCancelled, Role: types.RoleResident}:   {},
}

// Allowed reports whether role may move a booking from one status to another.
func Allowed(from, to types.Status, role types.Role) bool {
	_, ok := permissions[edge{From: from, To: to, Role: role}]
	return ok
}

// assignedParty reports whether actor is the participant of b that role refers to.
func assignedParty(b types.Booking, actor types.Actor) bool {
	switch actor.Role {
	case types.RolePlumber:
		return b.PlumberId == actor.Id
	case types.RoleResident:
		return b.ResidentId == actor.Id
	}
	return false
}

// checkTransition validates a requested change against the permission table and
// the booking's assigned parties.
func checkTransition(b types.Booking, actor types.Actor, to types.Status) error {
	refuse := func(reason string) error {
		return &TransitionError{BookingId: b.Id, From: b.Status, To: to, Role: actor.Role, Reason: reason}
	}

	switch {
	case b.Status == to:
		return refuse("booking is already in that status")
	case b.Status.Terminal():
		return refuse("booking is closed")
	case !Allowed(b.Status, to, actor.Role):
		return refuse("transition not permitted for role")
	case !assignedParty(b, actor):
		return refuse("actor is not assigned to booking")
	}

	return nil
}
