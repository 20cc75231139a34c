// Package content holds the platform resource model as consumed by the
// scoping layer: entity read models, the API read boundary used during
// context resolution, and the relational schema the filters join against.
package content

import "errors"

// ErrNotFound is returned by Reader lookups for missing entities.
var ErrNotFound = errors.New("resource not found")

// Item is a content record assignable to any number of sites.
type Item struct {
	ID      int64   `json:"id"`
	OwnerID int64   `json:"owner_id"`
	Title   string  `json:"title,omitempty"`
	SiteIDs []int64 `json:"site_ids,omitempty"`
}

// ItemSet is a curated collection of items. Unlike items, item sets admit
// access through ownership as well as site membership.
type ItemSet struct {
	ID      int64  `json:"id"`
	OwnerID int64  `json:"owner_id"`
	Title   string `json:"title,omitempty"`
}

// Media is a file attached to exactly one item. Site membership is derived
// from the parent item, optionally augmented by direct media-site
// assignments where that deployment feature exists.
type Media struct {
	ID     int64  `json:"id"`
	ItemID int64  `json:"item_id"`
	Source string `json:"source,omitempty"`
}

// Asset is an uploaded file with no site relationship; visibility is
// ownership-based only.
type Asset struct {
	ID      int64  `json:"id"`
	OwnerID int64  `json:"owner_id"`
	Name    string `json:"name,omitempty"`
}

// Site is a tenant-facing publication surface.
type Site struct {
	ID    int64  `json:"id"`
	Slug  string `json:"slug,omitempty"`
	Title string `json:"title,omitempty"`
}
