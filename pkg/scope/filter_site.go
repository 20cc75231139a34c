package scope

import (
	"context"
	"fmt"

	"github.com/curateproject/siteward/pkg/identity"
	"github.com/curateproject/siteward/pkg/query"
	"github.com/curateproject/siteward/pkg/routing"
	"github.com/curateproject/siteward/pkg/settings"
)

// SiteFilter narrows site list queries on admin routes to the sites the
// user holds any permission record for. Public routes list sites by their
// own visibility rules, so the filter only engages behind the admin prefix.
type SiteFilter struct {
	filterCore
}

// NewSiteFilter creates the site query filter.
func NewSiteFilter(store settings.Store, grants *GrantReader, opts ...FilterOption) *SiteFilter {
	return &SiteFilter{filterCore: newFilterCore(store, grants, opts)}
}

// Apply restricts the builder to the user's permitted site ids. The
// admission set comes from a distinct permission-row lookup so it has the
// same shape as the rows being scoped; a user with no permitted sites gets
// the unconditional contradiction 1 = 0.
func (f *SiteFilter) Apply(ctx context.Context, principal *identity.Principal, b query.Builder, rc routing.RouteContext) error {
	if !routing.IsAdmin(rc, f.adminPrefix) {
		f.countSkip("site", skipNonAdmin)
		return nil
	}

	ok, reason := f.scoped(ctx, principal, "site", settings.KeyLimitToGrantedSites)
	if !ok {
		f.countSkip("site", reason)
		return nil
	}

	permitted, err := f.grants.PermittedSiteIDs(ctx, principal.ID)
	if err != nil {
		return fmt.Errorf("failed to scope site query: %w", err)
	}

	root := b.RootAlias()
	if len(permitted) == 0 {
		b.AndWhere("1 = 0")
	} else {
		b.AndWhere(root + ".id IN (:permittedSites)").
			SetParameter("permittedSites", permitted)
	}

	f.countApply("site")
	return nil
}
