package scope

import (
	"context"
	"fmt"

	"github.com/curateproject/siteward/pkg/identity"
	"github.com/curateproject/siteward/pkg/query"
	"github.com/curateproject/siteward/pkg/routing"
	"github.com/curateproject/siteward/pkg/settings"
)

// ItemSetFilter narrows item-set list queries to sets attached to granted
// sites, while always admitting sets the user owns. Like the item filter it
// applies in every search context.
type ItemSetFilter struct {
	filterCore
}

// NewItemSetFilter creates the item-set query filter.
func NewItemSetFilter(store settings.Store, grants *GrantReader, opts ...FilterOption) *ItemSetFilter {
	return &ItemSetFilter{filterCore: newFilterCore(store, grants, opts)}
}

// Apply scopes the builder with a left join through the site attachment so
// ownership can admit sets with no site at all. A user with no grants gets
// the owner-only predicate and no join.
func (f *ItemSetFilter) Apply(ctx context.Context, principal *identity.Principal, b query.Builder, rc routing.RouteContext) error {
	ok, reason := f.scoped(ctx, principal, "item_set", settings.KeyLimitToGrantedSites)
	if !ok {
		f.countSkip("item_set", reason)
		return nil
	}

	granted, err := f.grants.GrantedSites(ctx, principal.ID)
	if err != nil {
		return fmt.Errorf("failed to scope item set query: %w", err)
	}

	root := b.RootAlias()
	if len(granted) == 0 {
		b.AndWhere(root + ".owner_id = :userID").
			SetParameter("userID", principal.ID)
	} else {
		b.LeftJoin(root+".siteItemSets", "site_item_set").
			LeftJoin("site_item_set.site", "site").
			AndWhere("(site.id IN (:grantedSites) OR " + root + ".owner_id = :userID)").
			SetParameter("grantedSites", granted).
			SetParameter("userID", principal.ID)
	}

	f.countApply("item_set")
	return nil
}
