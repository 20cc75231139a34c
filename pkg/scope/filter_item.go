package scope

import (
	"context"
	"fmt"

	"github.com/curateproject/siteward/pkg/identity"
	"github.com/curateproject/siteward/pkg/query"
	"github.com/curateproject/siteward/pkg/routing"
	"github.com/curateproject/siteward/pkg/settings"
)

// ItemFilter narrows item list queries to the sites the user is granted.
// It applies in every search context, admin and API alike.
type ItemFilter struct {
	filterCore
}

// NewItemFilter creates the item query filter.
func NewItemFilter(store settings.Store, grants *GrantReader, opts ...FilterOption) *ItemFilter {
	return &ItemFilter{filterCore: newFilterCore(store, grants, opts)}
}

// Apply scopes the builder to the principal's granted sites: an inner join
// from the root item to its sites with a site-id admission list. A user
// with no grants gets the impossible site id -1, so the query keeps its
// shape and returns zero rows.
func (f *ItemFilter) Apply(ctx context.Context, principal *identity.Principal, b query.Builder, rc routing.RouteContext) error {
	ok, reason := f.scoped(ctx, principal, "item", settings.KeyLimitToGrantedSites)
	if !ok {
		f.countSkip("item", reason)
		return nil
	}

	granted, err := f.grants.GrantedSites(ctx, principal.ID)
	if err != nil {
		return fmt.Errorf("failed to scope item query: %w", err)
	}
	if len(granted) == 0 {
		granted = []int64{-1}
	}

	root := b.RootAlias()
	b.InnerJoin(root+".sites", "site").
		AndWhere("site.id IN (:grantedSites)").
		SetParameter("grantedSites", granted)

	f.countApply("item")
	return nil
}
