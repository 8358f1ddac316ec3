package orders

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orderdesk/orderdesk/internal/rbac"
)

var allStatuses = []Status{
	StatusPending, StatusAssigned, StatusConfirmed, StatusShipped,
	StatusDelivered, StatusCancelled, StatusReturned,
}

func TestPendingNeverReachable(t *testing.T) {
	for _, role := range rbac.Roles() {
		for _, current := range allStatuses {
			allowed := AllowedTransitions(current, role)
			require.NotContains(t, allowed, StatusPending,
				"role %s from %s must not reach pending", role, current)
		}
	}
}

func TestTerminalStatesAllowNothing(t *testing.T) {
	for _, role := range rbac.Roles() {
		for _, terminal := range []Status{StatusDelivered, StatusCancelled, StatusReturned} {
			require.Empty(t, AllowedTransitions(terminal, role),
				"role %s from terminal %s", role, terminal)
		}
	}
}

func TestEmployeeForwardChain(t *testing.T) {
	require.Equal(t, []Status{StatusConfirmed}, AllowedTransitions(StatusPending, rbac.RoleEmployee))
	require.Equal(t, []Status{StatusShipped}, AllowedTransitions(StatusConfirmed, rbac.RoleEmployee))
	require.Equal(t, []Status{StatusDelivered}, AllowedTransitions(StatusShipped, rbac.RoleEmployee))
	require.Equal(t,
		[]Status{StatusConfirmed, StatusShipped, StatusDelivered},
		AllowedTransitions(StatusAssigned, rbac.RoleEmployee))
}

func TestRoleScoping(t *testing.T) {
	require.Contains(t, AllowedTransitions(StatusConfirmed, rbac.RoleShipment), StatusShipped)
	require.NotContains(t, AllowedTransitions(StatusConfirmed, rbac.RoleDelivery), StatusShipped)

	require.Equal(t, []Status{StatusShipped}, AllowedTransitions(StatusAssigned, rbac.RoleShipment))
	require.Equal(t, []Status{StatusDelivered}, AllowedTransitions(StatusAssigned, rbac.RoleDelivery))

	// Couriers cannot cancel.
	require.NotContains(t, AllowedTransitions(StatusAssigned, rbac.RoleDelivery), StatusCancelled)
	require.NotContains(t, AllowedTransitions(StatusShipped, rbac.RoleDelivery), StatusCancelled)
}

func TestShipmentDeadEnds(t *testing.T) {
	require.Empty(t, AllowedTransitions(StatusShipped, rbac.RoleShipment))
	require.Empty(t, AllowedTransitions(StatusPending, rbac.RoleShipment))
	require.Empty(t, AllowedTransitions(StatusPending, rbac.RoleDelivery))
}

func TestAdminReachesEverythingButPendingAndSelf(t *testing.T) {
	allowed := AllowedTransitions(StatusConfirmed, rbac.RoleAdmin)
	require.NotContains(t, allowed, StatusPending)
	require.NotContains(t, allowed, StatusConfirmed)
	require.ElementsMatch(t,
		[]Status{StatusAssigned, StatusShipped, StatusDelivered, StatusCancelled, StatusReturned},
		allowed)

	// Terminal states stay terminal even for admin.
	require.Empty(t, AllowedTransitions(StatusDelivered, rbac.RoleAdmin))
	require.Empty(t, AllowedTransitions(StatusCancelled, rbac.RoleAdmin))
}

func TestUnknownRoleOrStatusFailsClosed(t *testing.T) {
	require.Empty(t, AllowedTransitions(StatusConfirmed, rbac.Role("superuser")))
	require.Empty(t, AllowedTransitions(Status("limbo"), rbac.RoleAdmin))
	require.False(t, CanTransition(Status("limbo"), StatusShipped, rbac.RoleAdmin))
}

func TestCanTransitionExcludesCurrentStatus(t *testing.T) {
	for _, role := range rbac.Roles() {
		for _, current := range allStatuses {
			require.False(t, CanTransition(current, current, role),
				"role %s must not transition %s onto itself", role, current)
		}
	}
}
