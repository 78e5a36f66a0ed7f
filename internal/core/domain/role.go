package domain

// Role is the closed set of account roles. Authorization is decided by a
// fixed per-role permission table plus a total order user < manager < admin.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

// DefaultRole is assigned when account creation omits a role.
const DefaultRole = RoleUser

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

// Rank returns the hierarchy position of r: admin=3, manager=2, user=1.
// Unknown roles rank 0 so every comparison against them fails closed.
func (r Role) Rank() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleManager:
		return 2
	case RoleUser:
		return 1
	}
	return 0
}

// Permissions is one row of the role permission table.
type Permissions struct {
	CanCreateUsers        bool
	CanCreateRoles        []Role
	CanEditUsers          bool
	CanEditRoles          bool
	CanDeleteUsers        bool
	CanDeleteRoles        []Role
	CanToggleUserStatus   bool
	CanViewUserManagement bool
}

// PermissionsFor resolves the permission table entry for a role. The switch is
// exhaustive over the Role constants; anything else (including the empty
// string) gets the zero value, i.e. no permissions at all.
func PermissionsFor(r Role) Permissions {
	switch r {
	case RoleAdmin:
		return Permissions{
			CanCreateUsers:        true,
			CanCreateRoles:        []Role{RoleAdmin, RoleManager, RoleUser},
			CanEditUsers:          true,
			CanEditRoles:          true,
			CanDeleteUsers:        true,
			CanDeleteRoles:        []Role{RoleAdmin, RoleManager, RoleUser},
			CanToggleUserStatus:   true,
			CanViewUserManagement: true,
		}
	case RoleManager:
		return Permissions{
			CanCreateUsers:        true,
			CanCreateRoles:        []Role{RoleUser},
			CanEditUsers:          true,
			CanEditRoles:          false,
			CanDeleteUsers:        true,
			CanDeleteRoles:        []Role{RoleUser},
			CanToggleUserStatus:   true,
			CanViewUserManagement: true,
		}
	case RoleUser:
		return Permissions{}
	}
	return Permissions{}
}

func containsRole(roles []Role, r Role) bool {
	for _, candidate := range roles {
		if candidate == r {
			return true
		}
	}
	return false
}

// CanCreateUserWithRole reports whether creatorRole may create an account
// holding targetRole.
func CanCreateUserWithRole(creatorRole, targetRole Role) bool {
	p := PermissionsFor(creatorRole)
	return p.CanCreateUsers && containsRole(p.CanCreateRoles, targetRole)
}

// CanDeleteUserWithRole reports whether deleterRole may delete an account
// holding targetRole. Self-deletion is rejected one layer up, before this
// check runs.
func CanDeleteUserWithRole(deleterRole, targetRole Role) bool {
	p := PermissionsFor(deleterRole)
	return p.CanDeleteUsers && containsRole(p.CanDeleteRoles, targetRole)
}

// CanChangeRole reports whether editorRole may change another account's role.
// Role changes are admin-only regardless of CanEditUsers.
func CanChangeRole(editorRole Role) bool {
	return editorRole == RoleAdmin
}

// HasMinimumRole reports whether role sits at or above threshold in the
// hierarchy.
func HasMinimumRole(role, threshold Role) bool {
	return role.Rank() >= threshold.Rank() && role.Rank() > 0
}

// CanAccessUserManagement reports whether role may view the account
// management surface (listing, filtering).
func CanAccessUserManagement(role Role) bool {
	return PermissionsFor(role).CanViewUserManagement
}

// CreatableRoles returns the roles an actor may assign when creating accounts.
func CreatableRoles(creatorRole Role) []Role {
	return PermissionsFor(creatorRole).CanCreateRoles
}
