package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleBypass(t *testing.T) {
	assert.True(t, RoleGlobalAdmin.Bypass())

	for _, role := range []Role{RoleSupervisor, RoleSiteEditor, RoleEditor, RoleReviewer, RoleAuthor, RoleResearcher, Role("")} {
		assert.False(t, role.Bypass(), "role %q", role)
	}

	var nobody *Principal
	assert.False(t, nobody.Bypass())
	assert.True(t, (&Principal{ID: 1, Role: RoleGlobalAdmin}).Bypass())
}

func TestCanManageSettings(t *testing.T) {
	assert.True(t, RoleGlobalAdmin.CanManageSettings())
	assert.True(t, RoleSupervisor.CanManageSettings())
	assert.False(t, RoleSiteEditor.CanManageSettings())
	assert.False(t, RoleEditor.CanManageSettings())
}

func TestPrincipalContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, PrincipalFromContext(ctx))

	p := &Principal{ID: 7, Role: RoleEditor}
	ctx = WithPrincipal(ctx, p)
	assert.Equal(t, p, PrincipalFromContext(ctx))

	assert.Equal(t, p, ContextProvider{}.CurrentPrincipal(ctx))
	assert.Nil(t, ContextProvider{}.CurrentPrincipal(context.Background()))
}

func TestStaticProvider(t *testing.T) {
	p := &Principal{ID: 3, Role: RoleSupervisor}
	assert.Equal(t, p, StaticProvider{Principal: p}.CurrentPrincipal(context.Background()))
	assert.Nil(t, StaticProvider{}.CurrentPrincipal(context.Background()))
}

func TestMiddlewareAttachesPrincipal(t *testing.T) {
	resolve := func(r *http.Request) *Principal {
		if r.Header.Get("X-User-ID") == "7" {
			return &Principal{ID: 7, Role: RoleEditor}
		}
		return nil
	}

	var seen *Principal
	handler := Middleware(resolve)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = PrincipalFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-User-ID", "7")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	require.NotNil(t, seen)
	assert.Equal(t, int64(7), seen.ID)

	seen = nil
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	assert.Nil(t, seen, "anonymous requests carry no principal")
}

func TestAllowedAdminSections(t *testing.T) {
	for _, role := range []Role{RoleReviewer, RoleAuthor, RoleResearcher} {
		sections := AllowedAdminSections(role)
		assert.Equal(t, []string{SectionSites, SectionItems, SectionItemSets}, sections, "role %q", role)
	}

	for _, role := range []Role{RoleGlobalAdmin, RoleSupervisor, RoleSiteEditor, RoleEditor} {
		assert.Nil(t, AllowedAdminSections(role), "role %q", role)
	}
}

func TestSectionAllowed(t *testing.T) {
	assert.True(t, SectionAllowed(RoleReviewer, SectionItems))
	assert.False(t, SectionAllowed(RoleReviewer, SectionUsers))
	assert.True(t, SectionAllowed(RoleGlobalAdmin, SectionUsers))
}
