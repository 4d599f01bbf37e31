package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	cases := []struct {
		role       Role
		permission Permission
		want       bool
	}{
		{RoleOwner, PermissionAttendanceRepair, true},
		{RoleManager, PermissionAttendanceProcess, true},
		{RoleManager, PermissionCheckinWrite, false},
		{RoleDevice, PermissionCheckinWrite, true},
		{RoleDevice, PermissionAttendanceProcess, false},
		{RoleEmployee, PermissionAttendanceProcess, false},
		{Role("unknown"), PermissionAttendanceView, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, HasPermission(c.role, c.permission), "%s/%s", c.role, c.permission)
	}
}
