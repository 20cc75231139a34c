package routing

import (
	"net/http"

	"github.com/gorilla/mux"
)

// MuxContext adapts a gorilla/mux request to the RouteContext boundary.
type MuxContext struct {
	request *http.Request
	vars    map[string]string
	route   string
}

// NewMuxContext captures the matched route and parameters of a request
// handled by a mux router. The request body form is parsed lazily on first
// BodyParam call.
func NewMuxContext(r *http.Request) *MuxContext {
	ctx := &MuxContext{
		request: r,
		vars:    mux.Vars(r),
	}

	if route := mux.CurrentRoute(r); route != nil {
		ctx.route = route.GetName()
	}

	return ctx
}

// MatchedRouteName returns the mux route name, or "" when unmatched or the
// route is unnamed.
func (m *MuxContext) MatchedRouteName() string { return m.route }

// Param returns a mux route variable.
func (m *MuxContext) Param(name string) string { return m.vars[name] }

// QueryParam returns a query-string parameter.
func (m *MuxContext) QueryParam(name string) string {
	return m.request.URL.Query().Get(name)
}

// BodyParam returns a POST form parameter. Parse errors surface as absent
// parameters; the caller's id extraction already treats "" as missing.
func (m *MuxContext) BodyParam(name string) string {
	if m.request.PostForm == nil {
		_ = m.request.ParseForm()
	}
	return m.request.PostForm.Get(name)
}
