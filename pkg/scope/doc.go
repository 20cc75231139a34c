// Package scope implements site-grant based access scoping for the content
// platform: a single-resource access assertion and a family of query
// filters that narrow list queries to the sites a user is granted.
//
// # Overview
//
// Users below the administrative roles can be limited to the content of the
// sites they hold permission records for. Two mechanisms enforce the limit:
//
//  1. Assertion: a yes/no access decision for one concrete resource,
//     consulted by ACL-style permission checks.
//  2. Filters: query interceptors that rewrite list queries before they
//     execute, so restricted users never see out-of-scope rows at all.
//
// Both are keyed on per-user settings (limit_to_granted_sites for site
// scoping, limit_to_own_assets for asset ownership) and both fail closed:
// an unreadable setting limits the user, an unresolvable resource denies
// access.
//
// # Assertion
//
// An Assertion is built per request from a settings store, a GrantReader
// and a content read boundary:
//
//	engine := scope.NewAssertion(store, grants, reader,
//		scope.WithLogger(logger),
//		scope.WithMetrics(metrics))
//	if !engine.HasAccess(ctx, principal.ID, scope.ItemRef(item), routeCtx) {
//		// deny
//	}
//
// The resource is named by a Ref. Concrete entities use ItemRef and
// MediaRef; when the caller only knows which adapter or controller is
// handling the request, the adapter/controller Refs tell the engine to
// pull the resource id out of the request body, query string or route
// parameters and load the entity itself. Media always resolve to their
// parent item, with direct media-site grants unioned in when present.
//
// Per-request caches memoize setting, grant and site lookups so a page
// asserting dozens of resources costs one query per distinct id. Call
// Reset between requests when pooling engines.
//
// # Filters
//
// Each filter targets one resource type and mutates a query.Builder:
//
//	filter := scope.NewItemFilter(store, grants)
//	if err := filter.Apply(ctx, principal, builder, routeCtx); err != nil {
//		return err
//	}
//
// The item and item-set filters apply in every search context; the media
// and site filters only engage on admin routes, since public routes carry
// their own site context. All filters skip administrators and users whose
// scoping setting is off. A scoped user with no grants gets a query that
// returns zero rows rather than an error.
//
// # Grants
//
// GrantReader reads the site_permission, item_site and optional media_site
// tables. The media_site table may be absent in a deployment; the first
// failed probe marks it unavailable for the reader's lifetime and later
// media-site lookups return an empty set without touching the database.
package scope
