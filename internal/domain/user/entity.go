package user

type Role string

const (
	RoleOwner    Role = "owner"    // Company owner - full access
	RoleManager  Role = "manager"  // HR manager - runs attendance processing and repairs
	RoleDevice   Role = "device"   // Biometric device integration - pushes check-ins
	RoleEmployee Role = "employee" // Regular employee
)
