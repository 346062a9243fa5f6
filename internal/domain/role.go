package domain

// Role is the relation of a requester to a booking, resolved once per request
type Role int

const (
	RoleNone Role = iota
	RoleBooker
	RoleOwner
)

func (r Role) String() string {
	switch r {
	case RoleBooker:
		return "booker"
	case RoleOwner:
		return "owner"
	default:
		return "none"
	}
}

// ResolveRole determines the requester's role. The booker of an item is never its owner,
// so booker takes precedence if both ids match.
func ResolveRole(requesterID, bookerID, ownerID int64) Role {
	switch requesterID {
	case bookerID:
		return RoleBooker
	case ownerID:
		return RoleOwner
	default:
		return RoleNone
	}
}

// allowedTransitions[role][from] lists target statuses the role may set.
// Terminal statuses have no entries.
var allowedTransitions = map[Role]map[BookingStatus][]BookingStatus{
	RoleBooker: {
		StatusWaiting: {StatusCanceled},
	},
	RoleOwner: {
		StatusWaiting: {StatusApproved, StatusRejected},
	},
}

// CanTransition reports whether role may move a booking from one status to another
func CanTransition(role Role, from, to BookingStatus) bool {
	for _, allowed := range allowedTransitions[role][from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CanChangeWindow reports whether role may alter start/end of a booking with the given status
func CanChangeWindow(role Role, status BookingStatus) bool {
	return role == RoleBooker && status == StatusWaiting
}
