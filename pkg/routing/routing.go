package routing

import "strings"

// DefaultAdminPrefix is the route-name namespace of the privileged UI.
const DefaultAdminPrefix = "admin"

// RouteContext exposes the matched route and request parameters of the
// current request. Implementations must return the empty string for absent
// values rather than erroring; id extraction treats "" as "not present".
type RouteContext interface {
	// MatchedRouteName returns the name of the matched route, or "" when
	// routing did not match.
	MatchedRouteName() string

	// Param returns a route parameter by name.
	Param(name string) string

	// QueryParam returns a query-string parameter by name.
	QueryParam(name string) string

	// BodyParam returns a form/body parameter by name.
	BodyParam(name string) string
}

// IsAdmin reports whether the matched route lives in the administrative
// namespace. A nil context or unmatched route is never admin: scoping stays
// off outside the privileged UI.
func IsAdmin(rc RouteContext, prefix string) bool {
	if rc == nil {
		return false
	}
	name := rc.MatchedRouteName()
	if name == "" {
		return false
	}
	if prefix == "" {
		prefix = DefaultAdminPrefix
	}
	return strings.HasPrefix(name, prefix)
}

// StaticContext is an in-memory RouteContext for tests and non-HTTP
// callers.
type StaticContext struct {
	RouteName   string
	Params      map[string]string
	QueryParams map[string]string
	BodyParams  map[string]string
}

// MatchedRouteName returns the configured route name.
func (s *StaticContext) MatchedRouteName() string { return s.RouteName }

// Param returns a configured route parameter.
func (s *StaticContext) Param(name string) string { return s.Params[name] }

// QueryParam returns a configured query parameter.
func (s *StaticContext) QueryParam(name string) string { return s.QueryParams[name] }

// BodyParam returns a configured body parameter.
func (s *StaticContext) BodyParam(name string) string { return s.BodyParams[name] }
