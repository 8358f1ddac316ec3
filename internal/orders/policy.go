package orders

import "github.com/orderdesk/orderdesk/internal/rbac"

// Role-scoped transition tables. Keys are the current status; values are the
// statuses that role may move the order to, in canonical order. A status
// absent from the table allows nothing.
//
// The assigned pseudo-state skips straight to whatever the role can
// ultimately do, so freshly routed work never needs a multi-step status walk.
var (
	employeeTransitions = map[Status][]Status{
		StatusPending:   {StatusConfirmed},
		StatusConfirmed: {StatusShipped},
		StatusShipped:   {StatusDelivered},
		StatusAssigned:  {StatusConfirmed, StatusShipped, StatusDelivered},
	}

	shipmentTransitions = map[Status][]Status{
		StatusConfirmed: {StatusShipped},
		StatusAssigned:  {StatusShipped},
	}

	deliveryTransitions = map[Status][]Status{
		StatusShipped:  {StatusDelivered},
		StatusAssigned: {StatusDelivered},
	}
)

// AllowedTransitions computes the set of statuses the role may move an order
// to from the current status. The result is empty when nothing is allowed;
// an unrecognised role or status yields an empty set rather than an error.
// pending is initial-only and never appears in any result.
func AllowedTransitions(current Status, role rbac.Role) []Status {
	if !current.Valid() || current.Terminal() {
		return nil
	}

	switch role {
	case rbac.RoleAdmin:
		// Anything reachable except pending and the status already held.
		allowed := make([]Status, 0, len(statusOrder)-1)
		for _, s := range statusOrder {
			if s == current {
				continue
			}
			allowed = append(allowed, s)
		}
		return allowed
	case rbac.RoleEmployee:
		return cloneTransitions(employeeTransitions[current])
	case rbac.RoleShipment:
		return cloneTransitions(shipmentTransitions[current])
	case rbac.RoleDelivery:
		return cloneTransitions(deliveryTransitions[current])
	default:
		// Fail closed on roles this table has never heard of.
		return nil
	}
}

// CanTransition reports whether the role may move an order from current to
// requested. Requesting the current status is a caller-level no-op and is
// not treated as allowed here.
func CanTransition(current, requested Status, role rbac.Role) bool {
	for _, s := range AllowedTransitions(current, role) {
		if s == requested {
			return true
		}
	}
	return false
}

func cloneTransitions(src []Status) []Status {
	if len(src) == 0 {
		return nil
	}
	out := make([]Status, len(src))
	copy(out, src)
	return out
}
