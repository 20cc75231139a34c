package identity

// Role represents a platform-level user role
type Role string

const (
	// RoleGlobalAdmin bypasses every scoping rule
	RoleGlobalAdmin Role = "global_admin"
	// RoleSupervisor may manage other users' scoping settings
	RoleSupervisor Role = "supervisor"
	// RoleSiteEditor edits content within granted sites only
	RoleSiteEditor Role = "site_editor"
	// RoleEditor edits content platform-wide subject to scoping
	RoleEditor Role = "editor"
	// RoleReviewer reviews submitted content
	RoleReviewer Role = "reviewer"
	// RoleAuthor creates content they own
	RoleAuthor Role = "author"
	// RoleResearcher has read-mostly access
	RoleResearcher Role = "researcher"
)

// Bypass reports whether the role is exempt from all scoping rules.
func (r Role) Bypass() bool {
	return r == RoleGlobalAdmin
}

// CanManageSettings reports whether the role may change another user's
// scoping settings.
func (r Role) CanManageSettings() bool {
	return r == RoleGlobalAdmin || r == RoleSupervisor
}

// Principal is the authenticated actor whose access is being evaluated
type Principal struct {
	ID   int64 `json:"id"`
	Role Role  `json:"role"`
}

// Bypass reports whether the principal is exempt from scoping. A nil
// principal never bypasses.
func (p *Principal) Bypass() bool {
	return p != nil && p.Role.Bypass()
}
