package rbac

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"admin":    RoleAdmin,
		"Admin":    RoleAdmin,
		"employee": RoleEmployee,
		"Employee": RoleEmployee,
		"DELIVERY": RoleDelivery,
		" Shipment ": RoleShipment,
	}
	for raw, want := range cases {
		got, ok := ParseRole(raw)
		require.True(t, ok, "parse %q", raw)
		require.Equal(t, want, got)
	}
}

func TestParseRoleFailsClosed(t *testing.T) {
	for _, raw := range []string{"", "root", "superuser", "employe"} {
		_, ok := ParseRole(raw)
		require.False(t, ok, "expected %q to be rejected", raw)
	}
}

func TestRolesAreValid(t *testing.T) {
	for _, r := range Roles() {
		require.True(t, r.Valid())
	}
	require.False(t, Role("manager").Valid())
}
