package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/curateproject/siteward/pkg/content"
	"github.com/curateproject/siteward/pkg/httputil"
	"github.com/curateproject/siteward/pkg/identity"
	"github.com/curateproject/siteward/pkg/observability"
	"github.com/curateproject/siteward/pkg/query"
	"github.com/curateproject/siteward/pkg/routing"
	"github.com/curateproject/siteward/pkg/scope"
	"github.com/curateproject/siteward/pkg/settings"
)

// resourceFilter is the shape every scoping filter exposes.
type resourceFilter interface {
	Apply(ctx context.Context, principal *identity.Principal, b query.Builder, rc routing.RouteContext) error
}

// listItems returns items scoped to the caller's granted sites.
func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	rows, err := s.scopedQuery(r, s.itemFilter,
		content.EntityItem, "item", "it",
		"DISTINCT it.id", "it.owner_id", "it.title")
	if err != nil {
		s.listError(w, r, "item", err)
		return
	}
	defer rows.Close()

	items := []content.Item{}
	for rows.Next() {
		var item content.Item
		if err := rows.Scan(&item.ID, &item.OwnerID, &item.Title); err != nil {
			s.listError(w, r, "item", err)
			return
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		s.listError(w, r, "item", err)
		return
	}

	httputil.WriteSuccess(w, items)
}

// getItem returns one item after asserting access to it.
func (s *Server) getItem(w http.ResponseWriter, r *http.Request) {
	id := httputil.ParsePathInt64(mux.Vars(r), "id")
	item, err := s.reader.Item(r.Context(), id)
	if err == content.ErrNotFound {
		httputil.WriteNotFoundError(w, "item not found")
		return
	}
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}

	if !s.assertAccess(r, scope.ItemRef(item)) {
		httputil.WriteForbidden(w, "item is outside your granted sites")
		return
	}

	httputil.WriteSuccess(w, item)
}

// listItemSets returns item sets scoped to granted sites or ownership.
func (s *Server) listItemSets(w http.ResponseWriter, r *http.Request) {
	rows, err := s.scopedQuery(r, s.itemSetFilter,
		content.EntityItemSet, "item_set", "iset",
		"DISTINCT iset.id", "iset.owner_id", "iset.title")
	if err != nil {
		s.listError(w, r, "item_set", err)
		return
	}
	defer rows.Close()

	sets := []content.ItemSet{}
	for rows.Next() {
		var set content.ItemSet
		if err := rows.Scan(&set.ID, &set.OwnerID, &set.Title); err != nil {
			s.listError(w, r, "item_set", err)
			return
		}
		sets = append(sets, set)
	}
	if err := rows.Err(); err != nil {
		s.listError(w, r, "item_set", err)
		return
	}

	httputil.WriteSuccess(w, sets)
}

// listMedia returns media whose parent item sits on a granted site.
func (s *Server) listMedia(w http.ResponseWriter, r *http.Request) {
	rows, err := s.scopedQuery(r, s.mediaFilter,
		content.EntityMedia, "media", "m",
		"DISTINCT m.id", "m.item_id", "m.source")
	if err != nil {
		s.listError(w, r, "media", err)
		return
	}
	defer rows.Close()

	media := []content.Media{}
	for rows.Next() {
		var m content.Media
		if err := rows.Scan(&m.ID, &m.ItemID, &m.Source); err != nil {
			s.listError(w, r, "media", err)
			return
		}
		media = append(media, m)
	}
	if err := rows.Err(); err != nil {
		s.listError(w, r, "media", err)
		return
	}

	httputil.WriteSuccess(w, media)
}

// getMedia returns one media after asserting access through its parent item.
func (s *Server) getMedia(w http.ResponseWriter, r *http.Request) {
	id := httputil.ParsePathInt64(mux.Vars(r), "id")
	media, err := s.reader.Media(r.Context(), id)
	if err == content.ErrNotFound {
		httputil.WriteNotFoundError(w, "media not found")
		return
	}
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}

	if !s.assertAccess(r, scope.MediaRef(media)) {
		httputil.WriteForbidden(w, "media is outside your granted sites")
		return
	}

	httputil.WriteSuccess(w, media)
}

// listAssets returns assets scoped to ownership.
func (s *Server) listAssets(w http.ResponseWriter, r *http.Request) {
	rows, err := s.scopedQuery(r, s.assetFilter,
		content.EntityAsset, "asset", "a",
		"a.id", "a.owner_id", "a.name")
	if err != nil {
		s.listError(w, r, "asset", err)
		return
	}
	defer rows.Close()

	assets := []content.Asset{}
	for rows.Next() {
		var asset content.Asset
		if err := rows.Scan(&asset.ID, &asset.OwnerID, &asset.Name); err != nil {
			s.listError(w, r, "asset", err)
			return
		}
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		s.listError(w, r, "asset", err)
		return
	}

	httputil.WriteSuccess(w, assets)
}

// listSites returns sites the caller holds permission records for.
func (s *Server) listSites(w http.ResponseWriter, r *http.Request) {
	rows, err := s.scopedQuery(r, s.siteFilter,
		content.EntitySite, "site", "s",
		"s.id", "s.slug", "s.title")
	if err != nil {
		s.listError(w, r, "site", err)
		return
	}
	defer rows.Close()

	sites := []content.Site{}
	for rows.Next() {
		var site content.Site
		if err := rows.Scan(&site.ID, &site.Slug, &site.Title); err != nil {
			s.listError(w, r, "site", err)
			return
		}
		sites = append(sites, site)
	}
	if err := rows.Err(); err != nil {
		s.listError(w, r, "site", err)
		return
	}

	httputil.WriteSuccess(w, sites)
}

// scopedQuery builds a select for the entity, runs the filter against it
// and executes the scoped statement.
func (s *Server) scopedQuery(r *http.Request, filter resourceFilter, entity, table, alias string, columns ...string) (rowScanner, error) {
	builder := query.NewSelect(content.QuerySchema(), entity, table, alias, columns...)

	if settings.Active(r.Context(), s.store) {
		principal := identity.PrincipalFromContext(r.Context())
		rc := routing.NewMuxContext(r)
		if err := filter.Apply(r.Context(), principal, builder, rc); err != nil {
			return nil, err
		}
	}

	stmt, args, err := builder.SQL()
	if err != nil {
		return nil, err
	}

	return s.db.QueryContext(r.Context(), stmt, args...)
}

// assertAccess runs a fresh per-request assertion for a single resource.
func (s *Server) assertAccess(r *http.Request, ref scope.Ref) bool {
	principal := identity.PrincipalFromContext(r.Context())
	if principal == nil {
		return false
	}
	if principal.Bypass() {
		return true
	}
	if !settings.Active(r.Context(), s.store) {
		return true
	}

	engine := scope.NewAssertion(s.store, s.grants, s.reader,
		scope.WithDefaultLimit(s.assertionDefaultLimit),
		scope.WithLogger(s.logger),
		scope.WithMetrics(s.metrics))

	return engine.HasAccess(r.Context(), principal.ID, ref, routing.NewMuxContext(r))
}

func (s *Server) listError(w http.ResponseWriter, r *http.Request, resource string, err error) {
	s.logger.WithError(err).WithField("resource", resource).
		WithField("request_id", observability.GetRequestID(r.Context())).
		Error("scoped list query failed")
	httputil.WriteInternalError(w, err)
}

// rowScanner is the subset of *sql.Rows the list handlers consume.
type rowScanner interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
	Close() error
}

func headerInt64(r *http.Request, name string) int64 {
	raw := r.Header.Get(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
