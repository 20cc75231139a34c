package settings

import (
	"context"
	"strings"

	"github.com/curateproject/siteward/pkg/identity"
)

// CoherenceWarning describes an incomplete isolation configuration. It is
// advisory only; nothing in the scoping engine depends on it.
type CoherenceWarning struct {
	UserID  int64  `json:"user_id"`
	Message string `json:"message"`
}

const (
	warnScopingDisabled = "site editor has limit_to_granted_sites disabled"
	warnNoDefaultSites  = "site editor has no default item sites configured"
)

// CheckCoherence inspects a site editor's settings and reports warnings for
// configurations that defeat isolation: scoping switched off, or no default
// sites so newly created items land outside every site. Other roles never
// warn. Store failures yield no warnings; this is a UI nicety, not an
// enforcement point.
func CheckCoherence(ctx context.Context, store Store, userID int64, role identity.Role) []CoherenceWarning {
	if role != identity.RoleSiteEditor {
		return nil
	}

	var warnings []CoherenceWarning

	limited, err := GetBool(ctx, store, userID, KeyLimitToGrantedSites, false)
	if err == nil && !limited {
		warnings = append(warnings, CoherenceWarning{UserID: userID, Message: warnScopingDisabled})
	}

	raw, err := store.Get(ctx, userID, KeyDefaultItemSites)
	if err != nil || !hasAnySite(raw) {
		if err == nil || err == ErrNotFound {
			warnings = append(warnings, CoherenceWarning{UserID: userID, Message: warnNoDefaultSites})
		}
	}

	return warnings
}

// hasAnySite reports whether a stored default_item_sites value names at
// least one site id.
func hasAnySite(raw string) bool {
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) != "" {
			return true
		}
	}
	return false
}
