package settings

import (
	"context"
	"errors"
	"strings"
)

// Per-user setting keys
const (
	// KeyLimitToGrantedSites restricts item/item-set/media/site visibility
	// to the user's granted sites when truthy.
	KeyLimitToGrantedSites = "limit_to_granted_sites"
	// KeyLimitToOwnAssets restricts asset visibility to owned assets when
	// truthy.
	KeyLimitToOwnAssets = "limit_to_own_assets"
	// KeyDefaultItemSites holds the comma-separated site ids newly created
	// items are assigned to.
	KeyDefaultItemSites = "default_item_sites"
	// KeySitewardActive is the site-wide activation flag, stored under
	// SiteWideUserID. When falsy the whole scoping layer stands down.
	KeySitewardActive = "siteward_active"
)

// SiteWideUserID is the pseudo user id site-wide settings are stored under.
const SiteWideUserID int64 = 0

// ErrNotFound is returned by Get when no value is stored for the key.
var ErrNotFound = errors.New("setting not found")

// Store is the per-user key-value settings boundary. Values are stored as
// strings; boolean coercion happens in GetBool.
type Store interface {
	// Get returns the raw stored value, or ErrNotFound.
	Get(ctx context.Context, userID int64, key string) (string, error)

	// Set stores a value for the user.
	Set(ctx context.Context, userID int64, key, value string) error
}

// GetBool reads a boolean setting with falsy-default coercion. Absent,
// null-ish, and malformed values fall back to def rather than erroring; a
// store failure also falls back to def so callers decide the safe side.
func GetBool(ctx context.Context, store Store, userID int64, key string, def bool) (value bool, lookupErr error) {
	raw, err := store.Get(ctx, userID, key)
	if errors.Is(err, ErrNotFound) {
		return def, nil
	}
	if err != nil {
		return def, err
	}
	return CoerceBool(raw, def), nil
}

// Active reports whether scoping is enabled site-wide. Absent defaults to
// enabled, and so does a store failure: an unreadable flag must not stand
// the scoping layer down.
func Active(ctx context.Context, store Store) bool {
	active, err := GetBool(ctx, store, SiteWideUserID, KeySitewardActive, true)
	if err != nil {
		return true
	}
	return active
}

// CoerceBool maps a stored scalar onto a boolean, tolerating the value
// shapes the platform has historically written: empty, "null", "false",
// "0", "no" and "off" are false; "true", "1", "yes" and "on" are true.
// Anything unrecognized yields the default.
func CoerceBool(raw string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "null", "false", "0", "no", "off":
		return false
	case "true", "1", "yes", "on":
		return true
	default:
		return def
	}
}
