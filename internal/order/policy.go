package order

import "tecnoroute-be/internal/user"

// authorizeTransition applies the role policy for moving o to target. When the
// acting driver takes a pending order, assign holds the driver to link.
func authorizeTransition(actor user.Identity, o *Order, target Status) (assign *uint, err error) {
	switch actor.Role {
	case user.RoleAdmin:
		return nil, nil
	case user.RoleDriver:
		if actor.Driver == nil {
			return nil, ErrDriverNotFound
		}
		driverID := actor.Driver.ID

		switch {
		case o.Status == StatusPending && target == StatusConfirmed:
			return &driverID, nil
		case o.Status == StatusConfirmed && target == StatusInProgress:
			if !o.AssignedTo(driverID) {
				return nil, ErrNotAssignedToTake
			}
			return nil, nil
		case o.Status == StatusInProgress && target == StatusDelivered:
			if !o.AssignedTo(driverID) {
				return nil, ErrNotAssignedToDeliver
			}
			return nil, nil
		default:
			return nil, errTransitionNotAllowed(o.Status, target)
		}
	default:
		return nil, ErrNotAuthorized
	}
}

// visibilityFor maps an actor to the orders it may read.
func visibilityFor(actor user.Identity) Visibility {
	switch actor.Role {
	case user.RoleAdmin:
		return Visibility{All: true}
	case user.RoleDriver:
		if actor.Driver == nil {
			return Visibility{}
		}
		id := actor.Driver.ID
		return Visibility{DriverID: &id}
	default:
		id := actor.UserID
		return Visibility{UserID: &id}
	}
}

// transitionLookup is the visibility used to find the order a status change
// targets. Staff see every order so the transition policy, not the read filter,
// decides what a driver may move.
func transitionLookup(actor user.Identity) Visibility {
	if actor.IsAdmin() || actor.IsDriver() {
		return Visibility{All: true}
	}
	return visibilityFor(actor)
}

// canManage reports whether actor may edit or delete o.
func canManage(actor user.Identity, o *Order) bool {
	return actor.Role == user.RoleAdmin || o.UserID == actor.UserID
}
