package scope

import (
	"context"
	"fmt"

	"github.com/curateproject/siteward/pkg/identity"
	"github.com/curateproject/siteward/pkg/query"
	"github.com/curateproject/siteward/pkg/routing"
	"github.com/curateproject/siteward/pkg/settings"
)

// MediaFilter narrows media list queries on admin routes to media whose
// parent item sits on a granted site. Public site routes scope media
// through their own site context, so the filter only engages behind the
// admin prefix.
type MediaFilter struct {
	filterCore
}

// NewMediaFilter creates the media query filter.
func NewMediaFilter(store settings.Store, grants *GrantReader, opts ...FilterOption) *MediaFilter {
	return &MediaFilter{filterCore: newFilterCore(store, grants, opts)}
}

// Apply scopes the builder with inner joins from the root media through its
// parent item to that item's sites. A user with no grants gets the
// impossible site id -1; the join shape stays stable.
func (f *MediaFilter) Apply(ctx context.Context, principal *identity.Principal, b query.Builder, rc routing.RouteContext) error {
	if !routing.IsAdmin(rc, f.adminPrefix) {
		f.countSkip("media", skipNonAdmin)
		return nil
	}

	ok, reason := f.scoped(ctx, principal, "media", settings.KeyLimitToGrantedSites)
	if !ok {
		f.countSkip("media", reason)
		return nil
	}

	granted, err := f.grants.GrantedSites(ctx, principal.ID)
	if err != nil {
		return fmt.Errorf("failed to scope media query: %w", err)
	}
	if len(granted) == 0 {
		granted = []int64{-1}
	}

	root := b.RootAlias()
	b.InnerJoin(root+".item", "item").
		InnerJoin("item.sites", "site").
		AndWhere("site.id IN (:grantedSites)").
		SetParameter("grantedSites", granted)

	f.countApply("media")
	return nil
}
