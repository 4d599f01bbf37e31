package user

type Permission string

const (
	// Attendance processing
	PermissionAttendanceView    Permission = "attendance.view"
	PermissionAttendanceProcess Permission = "attendance.process"
	PermissionAttendanceRepair  Permission = "attendance.repair"

	// Device integration
	PermissionCheckinWrite Permission = "checkin.write"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermissionAttendanceView,
		PermissionAttendanceProcess,
		PermissionAttendanceRepair,
		PermissionCheckinWrite,
	},
	RoleManager: {
		PermissionAttendanceView,
		PermissionAttendanceProcess,
		PermissionAttendanceRepair,
	},
	RoleDevice: {
		PermissionCheckinWrite,
	},
	RoleEmployee: {
		PermissionAttendanceView,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
