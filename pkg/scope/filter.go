package scope

import (
	"context"

	"github.com/curateproject/siteward/pkg/identity"
	"github.com/curateproject/siteward/pkg/observability"
	"github.com/curateproject/siteward/pkg/routing"
	"github.com/curateproject/siteward/pkg/settings"
)

// Skip reasons recorded when a filter leaves a query untouched.
const (
	skipNoPrincipal = "no_principal"
	skipBypassRole  = "bypass_role"
	skipSettingOff  = "setting_off"
	skipNonAdmin    = "non_admin_route"
)

// filterCore carries the dependencies every query filter shares. Filters
// default the scoping setting to on: a user without a stored value is
// limited until someone decides otherwise.
type filterCore struct {
	settings settings.Store
	grants   *GrantReader
	logger   *observability.Logger
	metrics  *observability.Metrics

	adminPrefix  string
	defaultLimit bool
}

func newFilterCore(store settings.Store, grants *GrantReader, opts []FilterOption) filterCore {
	c := filterCore{
		settings:     store,
		grants:       grants,
		adminPrefix:  routing.DefaultAdminPrefix,
		defaultLimit: true,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// FilterOption configures a query filter.
type FilterOption func(*filterCore)

// FilterWithLogger attaches a logger to a filter.
func FilterWithLogger(logger *observability.Logger) FilterOption {
	return func(c *filterCore) { c.logger = logger }
}

// FilterWithMetrics attaches metrics to a filter.
func FilterWithMetrics(metrics *observability.Metrics) FilterOption {
	return func(c *filterCore) { c.metrics = metrics }
}

// FilterWithAdminPrefix overrides the route-name prefix identifying admin
// routes for the route-gated filters.
func FilterWithAdminPrefix(prefix string) FilterOption {
	return func(c *filterCore) { c.adminPrefix = prefix }
}

// FilterWithDefaultLimit overrides the assumed value of the scoping
// setting for users without a stored one.
func FilterWithDefaultLimit(limit bool) FilterOption {
	return func(c *filterCore) { c.defaultLimit = limit }
}

// scoped decides whether a filter applies for the principal: a missing
// principal, a bypass role, or a falsy setting leaves the query untouched.
// A settings lookup failure scopes the user: fail closed.
func (c *filterCore) scoped(ctx context.Context, principal *identity.Principal, resource, key string) (bool, string) {
	if principal == nil || principal.ID <= 0 {
		return false, skipNoPrincipal
	}
	if principal.Bypass() {
		return false, skipBypassRole
	}

	limit, err := settings.GetBool(ctx, c.settings, principal.ID, key, c.defaultLimit)
	c.countSettingsLookup(err)
	if err != nil {
		if c.logger != nil {
			c.logger.WithError(err).WithField("resource", resource).
				Warn("settings lookup failed, scoping query")
		}
		return true, ""
	}
	if !limit {
		return false, skipSettingOff
	}
	return true, ""
}

func (c *filterCore) countApply(resource string) {
	if c.metrics != nil {
		c.metrics.FilterApplicationsTotal.WithLabelValues(resource).Inc()
	}
}

func (c *filterCore) countSkip(resource, reason string) {
	if c.metrics != nil {
		c.metrics.FilterSkipsTotal.WithLabelValues(resource, reason).Inc()
	}
}

func (c *filterCore) countSettingsLookup(err error) {
	if c.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.metrics.SettingsLookupsTotal.WithLabelValues(status).Inc()
}
