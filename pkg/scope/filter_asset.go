package scope

import (
	"context"

	"github.com/curateproject/siteward/pkg/identity"
	"github.com/curateproject/siteward/pkg/query"
	"github.com/curateproject/siteward/pkg/routing"
	"github.com/curateproject/siteward/pkg/settings"
)

// AssetFilter narrows asset list queries to assets the user owns. It is
// keyed on its own setting, limit_to_own_assets, and needs no grant data
// and no join.
type AssetFilter struct {
	filterCore
}

// NewAssetFilter creates the asset query filter.
func NewAssetFilter(store settings.Store, grants *GrantReader, opts ...FilterOption) *AssetFilter {
	return &AssetFilter{filterCore: newFilterCore(store, grants, opts)}
}

// Apply adds the ownership predicate to the builder.
func (f *AssetFilter) Apply(ctx context.Context, principal *identity.Principal, b query.Builder, rc routing.RouteContext) error {
	ok, reason := f.scoped(ctx, principal, "asset", settings.KeyLimitToOwnAssets)
	if !ok {
		f.countSkip("asset", reason)
		return nil
	}

	b.AndWhere(b.RootAlias() + ".owner_id = :userID").
		SetParameter("userID", principal.ID)

	f.countApply("asset")
	return nil
}
