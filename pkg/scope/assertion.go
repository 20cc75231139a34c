package scope

import (
	"context"
	"strconv"

	"github.com/curateproject/siteward/pkg/content"
	"github.com/curateproject/siteward/pkg/observability"
	"github.com/curateproject/siteward/pkg/routing"
	"github.com/curateproject/siteward/pkg/settings"
)

// Assertion decides single-resource access based on site grants. One
// instance serves one request; pooled instances must call Reset between
// requests. HasAccess never panics across its boundary and never returns
// an error: every infrastructure failure degrades to the fail-closed
// default of the lookup that failed.
type Assertion struct {
	settings settings.Store
	grants   *GrantReader
	reader   content.Reader
	logger   *observability.Logger
	metrics  *observability.Metrics

	// defaultLimit is the value assumed for limit_to_granted_sites when
	// the user has no stored setting. Historically false; operators may
	// flip it deployment-wide.
	defaultLimit bool

	cache *requestCache
}

// AssertionOption configures an Assertion.
type AssertionOption func(*Assertion)

// WithDefaultLimit sets the default for limit_to_granted_sites when the
// user has no stored value.
func WithDefaultLimit(limit bool) AssertionOption {
	return func(a *Assertion) { a.defaultLimit = limit }
}

// WithLogger attaches a logger.
func WithLogger(logger *observability.Logger) AssertionOption {
	return func(a *Assertion) { a.logger = logger }
}

// WithMetrics attaches metrics.
func WithMetrics(metrics *observability.Metrics) AssertionOption {
	return func(a *Assertion) { a.metrics = metrics }
}

// NewAssertion creates an assertion engine over the settings store, grant
// reader and content read boundary.
func NewAssertion(store settings.Store, grants *GrantReader, reader content.Reader, opts ...AssertionOption) *Assertion {
	a := &Assertion{
		settings: store,
		grants:   grants,
		reader:   reader,
		cache:    newRequestCache(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Reset discards the request-scoped caches. Pooled engines call this at
// request start; the media-table availability flag on the grant reader
// deliberately survives.
func (a *Assertion) Reset() {
	a.cache = newRequestCache()
}

// HasAccess reports whether the principal is granted access to the
// referenced resource. True means access granted; hosts wiring this into a
// deny rule perform their own negation.
//
// The decision: resolve the reference to an item identity (fail closed on
// any resolution failure), consult the user's limit_to_granted_sites
// setting (unrestricted when off), then require a non-empty intersection
// between the user's granted sites and the resource's sites: the item's
// site assignments, unioned with direct media-site grants when the
// reference identified a media.
func (a *Assertion) HasAccess(ctx context.Context, principalID int64, ref Ref, rc routing.RouteContext) (granted bool) {
	defer func() {
		if r := recover(); r != nil {
			if a.logger != nil {
				a.logger.WithField("panic", r).Error("assertion panicked, denying access")
			}
			a.countAssertion(observability.OutcomeError)
			granted = false
		}
	}()

	if principalID <= 0 {
		a.countAssertion(observability.OutcomeDenied)
		return false
	}

	itemID, mediaID, ok := a.resolve(ctx, ref, rc)
	if !ok {
		a.countAssertion(observability.OutcomeUnresolvable)
		return false
	}

	if !a.shouldLimit(ctx, principalID) {
		a.countAssertion(observability.OutcomeUnrestricted)
		return true
	}

	granted = a.hasSiteOverlap(ctx, principalID, itemID, mediaID)
	if granted {
		a.countAssertion(observability.OutcomeGranted)
	} else {
		a.countAssertion(observability.OutcomeDenied)
	}
	return granted
}

// shouldLimit reads the scoping setting for a principal, memoized per
// request. A failed settings lookup limits the user: fail closed on
// infrastructure error.
func (a *Assertion) shouldLimit(ctx context.Context, principalID int64) bool {
	if limit, ok := a.cache.shouldLimit[principalID]; ok {
		a.countCacheHit("should_limit")
		return limit
	}

	limit, err := settings.GetBool(ctx, a.settings, principalID, settings.KeyLimitToGrantedSites, a.defaultLimit)
	a.countSettingsLookup(err)
	if err != nil {
		if a.logger != nil {
			a.logger.WithError(err).Warn("settings lookup failed, limiting access")
		}
		limit = true
	}

	a.cache.shouldLimit[principalID] = limit
	return limit
}

// hasSiteOverlap checks the grant intersection for a resolved item,
// unioning in direct media-site grants when a media was identified.
func (a *Assertion) hasSiteOverlap(ctx context.Context, principalID, itemID, mediaID int64) bool {
	grantedSites, ok := a.grantedSites(ctx, principalID)
	if !ok || len(grantedSites) == 0 {
		return false
	}

	resourceSites, ok := a.itemSites(ctx, itemID)
	if !ok {
		return false
	}

	if mediaID > 0 {
		resourceSites = append(resourceSites, a.mediaSites(ctx, mediaID)...)
	}

	return intersects(grantedSites, resourceSites)
}

func (a *Assertion) grantedSites(ctx context.Context, principalID int64) ([]int64, bool) {
	if sites, ok := a.cache.grantedSites[principalID]; ok {
		a.countCacheHit("granted_sites")
		return sites, true
	}

	sites, err := a.grants.GrantedSites(ctx, principalID)
	if err != nil {
		if a.logger != nil {
			a.logger.WithError(err).Warn("granted sites lookup failed, denying access")
		}
		return nil, false
	}

	a.cache.grantedSites[principalID] = sites
	return sites, true
}

func (a *Assertion) itemSites(ctx context.Context, itemID int64) ([]int64, bool) {
	if sites, ok := a.cache.itemSites[itemID]; ok {
		a.countCacheHit("item_sites")
		return sites, true
	}

	sites, err := a.grants.ItemSites(ctx, itemID)
	if err != nil {
		if a.logger != nil {
			a.logger.WithError(err).Warn("item sites lookup failed, denying access")
		}
		return nil, false
	}

	a.cache.itemSites[itemID] = sites
	return sites, true
}

func (a *Assertion) mediaSites(ctx context.Context, mediaID int64) []int64 {
	if sites, ok := a.cache.mediaSites[mediaID]; ok {
		a.countCacheHit("media_sites")
		return sites
	}

	sites := a.grants.MediaSites(ctx, mediaID)
	a.cache.mediaSites[mediaID] = sites
	return sites
}

// resolve maps a resource reference to the canonical item identity and,
// when the reference identified a media, its media id. Precedence: direct
// item, media via parent, one-level unwrap, then adapter/controller tokens
// falling back to request/route parameter extraction through the content
// read boundary.
func (a *Assertion) resolve(ctx context.Context, ref Ref, rc routing.RouteContext) (itemID, mediaID int64, ok bool) {
	switch ref.kind {
	case refItem:
		if ref.item.ID <= 0 {
			return 0, 0, false
		}
		return ref.item.ID, 0, true

	case refMedia:
		if ref.media.ID <= 0 || ref.media.ItemID <= 0 {
			return 0, 0, false
		}
		return ref.media.ItemID, ref.media.ID, true

	case refWrapped:
		// One level only; a wrapper inside a wrapper is unresolvable.
		if ref.inner.kind == refWrapped {
			return 0, 0, false
		}
		return a.resolve(ctx, *ref.inner, rc)

	case refItemAdapter, refItemController:
		id := extractItemID(rc)
		if id <= 0 {
			return 0, 0, false
		}
		item, err := a.reader.Item(ctx, id)
		if err != nil || item == nil {
			return 0, 0, false
		}
		return item.ID, 0, true

	case refMediaAdapter, refMediaController:
		id := extractMediaID(rc)
		if id <= 0 {
			return 0, 0, false
		}
		media, err := a.reader.Media(ctx, id)
		if err != nil || media == nil || media.ItemID <= 0 {
			return 0, 0, false
		}
		return media.ItemID, media.ID, true

	default:
		return 0, 0, false
	}
}

// extractItemID pulls an item id from the request: body id, query id, then
// the route parameters item-id, item_id, id. First positive integer wins.
func extractItemID(rc routing.RouteContext) int64 {
	if rc == nil {
		return 0
	}
	if id := normalizeID(rc.BodyParam("id")); id > 0 {
		return id
	}
	if id := normalizeID(rc.QueryParam("id")); id > 0 {
		return id
	}
	for _, name := range []string{"item-id", "item_id", "id"} {
		if id := normalizeID(rc.Param(name)); id > 0 {
			return id
		}
	}
	return 0
}

// extractMediaID pulls a media id from the request, preferring the
// media-specific parameter names before the generic id.
func extractMediaID(rc routing.RouteContext) int64 {
	if rc == nil {
		return 0
	}
	for _, name := range []string{"media_id", "id"} {
		if id := normalizeID(rc.BodyParam(name)); id > 0 {
			return id
		}
	}
	for _, name := range []string{"media_id", "id"} {
		if id := normalizeID(rc.QueryParam(name)); id > 0 {
			return id
		}
	}
	for _, name := range []string{"media-id", "media_id", "id"} {
		if id := normalizeID(rc.Param(name)); id > 0 {
			return id
		}
	}
	return 0
}

// normalizeID parses a positive integer id; anything else is 0.
func normalizeID(raw string) int64 {
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

func (a *Assertion) countAssertion(outcome string) {
	if a.metrics != nil {
		a.metrics.AssertionsTotal.WithLabelValues(outcome).Inc()
	}
}

func (a *Assertion) countCacheHit(cache string) {
	if a.metrics != nil {
		a.metrics.AssertionCacheHits.WithLabelValues(cache).Inc()
	}
}

func (a *Assertion) countSettingsLookup(err error) {
	if a.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	a.metrics.SettingsLookupsTotal.WithLabelValues(status).Inc()
}
