package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/curateproject/siteward/pkg/httputil"
	"github.com/curateproject/siteward/pkg/identity"
	"github.com/curateproject/siteward/pkg/settings"
)

// putSettingRequest carries a raw setting value; boolean scoping settings
// accept bools and the usual string/number spellings, validated server-side.
type putSettingRequest struct {
	Value interface{} `json:"value"`
}

// putUserSetting updates one scoping setting for a target user. Only global
// admins and supervisors may do this; the service enforces it.
func (s *Server) putUserSetting(w http.ResponseWriter, r *http.Request) {
	actor := identity.PrincipalFromContext(r.Context())
	vars := mux.Vars(r)
	targetID := httputil.ParsePathInt64(vars, "user_id")
	key := vars["key"]

	var req putSettingRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	var err error
	if key == settings.KeyDefaultItemSites {
		raw, ok := req.Value.(string)
		if !ok {
			httputil.WriteBadRequest(w, "default_item_sites must be a comma-separated string")
			return
		}
		err = s.service.SetDefaultItemSites(r.Context(), actor, targetID, raw)
	} else {
		err = s.service.SetScopingFlag(r.Context(), actor, targetID, key, req.Value)
	}

	switch {
	case errors.Is(err, settings.ErrForbidden):
		httputil.WriteForbidden(w, "only administrators may change scoping settings")
	case err != nil:
		httputil.WriteBadRequest(w, err.Error())
	default:
		httputil.WriteNoContent(w)
	}
}

// getSettingWarnings reports coherence warnings for a site editor's
// isolation configuration.
func (s *Server) getSettingWarnings(w http.ResponseWriter, r *http.Request) {
	actor := identity.PrincipalFromContext(r.Context())
	if actor == nil || !actor.Role.CanManageSettings() {
		httputil.WriteForbidden(w, "only administrators may review scoping settings")
		return
	}

	targetID := httputil.ParsePathInt64(mux.Vars(r), "user_id")
	role := identity.Role(r.URL.Query().Get("role"))

	warnings := settings.CheckCoherence(r.Context(), s.store, targetID, role)
	if warnings == nil {
		warnings = []settings.CoherenceWarning{}
	}
	httputil.WriteSuccess(w, warnings)
}

// getNavigation returns the admin navigation sections visible to a role.
func (s *Server) getNavigation(w http.ResponseWriter, r *http.Request) {
	actor := identity.PrincipalFromContext(r.Context())
	if actor == nil {
		httputil.WriteUnauthorized(w, "authentication required")
		return
	}

	role := actor.Role
	if raw := r.URL.Query().Get("role"); raw != "" && actor.Role.CanManageSettings() {
		role = identity.Role(strings.TrimSpace(raw))
	}

	sections := identity.AllowedAdminSections(role)
	response := map[string]interface{}{
		"role":       role,
		"restricted": sections != nil,
		"sections":   sections,
	}
	httputil.WriteSuccess(w, response)
}
