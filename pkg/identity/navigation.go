package identity

// Admin navigation section identifiers
const (
	SectionSites    = "sites"
	SectionItems    = "items"
	SectionItemSets = "item-sets"
	SectionMedia    = "media"
	SectionAssets   = "assets"
	SectionUsers    = "users"
	SectionModules  = "modules"
	SectionSettings = "settings"
)

// restrictedSections is the allow-list applied to content-only roles.
var restrictedSections = []string{SectionSites, SectionItems, SectionItemSets}

// AllowedAdminSections returns the admin navigation sections visible to a
// role. Reviewer, author and researcher roles are limited to the content
// sections; every other role sees the full navigation (nil means
// unrestricted).
func AllowedAdminSections(role Role) []string {
	switch role {
	case RoleReviewer, RoleAuthor, RoleResearcher:
		sections := make([]string, len(restrictedSections))
		copy(sections, restrictedSections)
		return sections
	default:
		return nil
	}
}

// SectionAllowed reports whether a navigation section is visible to a role.
func SectionAllowed(role Role, section string) bool {
	allowed := AllowedAdminSections(role)
	if allowed == nil {
		return true
	}
	for _, s := range allowed {
		if s == section {
			return true
		}
	}
	return false
}
