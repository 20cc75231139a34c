package content

import "github.com/curateproject/siteward/pkg/query"

// Entity names used in query association paths
const (
	EntityItem        = "item"
	EntityItemSet     = "item_set"
	EntityMedia       = "media"
	EntityAsset       = "asset"
	EntitySite        = "site"
	EntitySiteItemSet = "site_item_set"
)

// QuerySchema returns the association map the scoping filters join
// through. The optional media_site table is excluded on purpose; direct
// media-site grants are only consulted by the assertion engine, which
// probes for the table at runtime.
func QuerySchema() query.Schema {
	return query.Schema{
		"item.sites": {
			TargetEntity: EntitySite,
			TargetTable:  "site",
			LinkTable:    "item_site",
			LinkOn:       "{link}.item_id = {src}.id",
			TargetOn:     "{dst}.id = {link}.site_id",
		},
		"media.item": {
			TargetEntity: EntityItem,
			TargetTable:  "item",
			On:           "{dst}.id = {src}.item_id",
		},
		"item_set.siteItemSets": {
			TargetEntity: EntitySiteItemSet,
			TargetTable:  "site_item_set",
			On:           "{dst}.item_set_id = {src}.id",
		},
		"site_item_set.site": {
			TargetEntity: EntitySite,
			TargetTable:  "site",
			On:           "{dst}.id = {src}.site_id",
		},
	}
}
