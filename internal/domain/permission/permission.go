package permission

// Role identifies the actor category performing an action.
type Role string

const (
	// RoleAdmin manages contracts, finances and closure.
	RoleAdmin Role = "ADMIN"
	// RoleAgent is the operational role: check-in/out and inspections.
	RoleAgent Role = "AGENT"
)

// IsValid checks if the role is a known Role
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleAgent:
		return true
	}
	return false
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// Permission is a closed enumeration of the actions the gate decides on.
type Permission string

const (
	PermAdvanceAdministrative Permission = "ADVANCE_ADMINISTRATIVE"
	PermAdvanceOperational    Permission = "ADVANCE_OPERATIONAL"
	PermRevertPipeline        Permission = "REVERT_PIPELINE"
	PermCancelDossier         Permission = "CANCEL_DOSSIER"
	PermManagePayments        Permission = "MANAGE_PAYMENTS"
	PermPerformInspection     Permission = "PERFORM_INSPECTION"
	PermManageTasks           Permission = "MANAGE_TASKS"
)

// IsValid checks if the permission is a known Permission
func (p Permission) IsValid() bool {
	switch p {
	case PermAdvanceAdministrative, PermAdvanceOperational, PermRevertPipeline,
		PermCancelDossier, PermManagePayments, PermPerformInspection, PermManageTasks:
		return true
	}
	return false
}

// rolePermissions is the immutable (role, permission) grant table.
var rolePermissions = map[Role]map[Permission]bool{
	RoleAdmin: {
		PermAdvanceAdministrative: true,
		PermAdvanceOperational:    true,
		PermRevertPipeline:        true,
		PermCancelDossier:         true,
		PermManagePayments:        true,
		PermPerformInspection:     true,
		PermManageTasks:           true,
	},
	RoleAgent: {
		PermAdvanceAdministrative: false,
		PermAdvanceOperational:    true,
		PermRevertPipeline:        false,
		PermCancelDossier:         true,
		PermManagePayments:        false,
		PermPerformInspection:     true,
		PermManageTasks:           true,
	},
}

// Allowed reports whether the role holds the permission.
func Allowed(role Role, perm Permission) bool {
	grants, ok := rolePermissions[role]
	if !ok {
		return false
	}
	return grants[perm]
}

// Overrides carries the per-user permission overrides. The struct is
// deliberately closed: only PerformInspection can be overridden per user,
// so only that override is representable.
type Overrides struct {
	PerformInspection *bool
}

// AllowedWith applies per-user overrides on top of the role grant table.
func AllowedWith(role Role, perm Permission, ov Overrides) bool {
	if perm == PermPerformInspection && ov.PerformInspection != nil {
		return *ov.PerformInspection
	}
	return Allowed(role, perm)
}
