// Package rbac scopes back-office actions to a closed set of actor roles.
package rbac

import "strings"

// Role is the closed set of back-office actor roles. Status transition
// policies switch exhaustively over it, so adding a role is a compile-time
// exercise rather than a string audit.
type Role string

const (
	// RoleAdmin may drive any non-terminal record to any reachable status.
	RoleAdmin Role = "admin"
	// RoleEmployee walks orders forward one step at a time.
	RoleEmployee Role = "Employee"
	// RoleDelivery marks shipped orders as delivered.
	RoleDelivery Role = "Delivery"
	// RoleShipment moves confirmed orders out the door.
	RoleShipment Role = "Shipment"
)

// Roles lists every recognised role.
func Roles() []Role {
	return []Role{RoleAdmin, RoleEmployee, RoleDelivery, RoleShipment}
}

// Valid reports whether the role is one of the recognised values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEmployee, RoleDelivery, RoleShipment:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// ParseRole resolves a stored role value. Matching is case-insensitive
// because legacy rows carry mixed casing; anything unrecognised fails closed.
func ParseRole(raw string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "admin":
		return RoleAdmin, true
	case "employee":
		return RoleEmployee, true
	case "delivery":
		return RoleDelivery, true
	case "shipment":
		return RoleShipment, true
	default:
		return "", false
	}
}
