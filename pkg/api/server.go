package api

import (
	"database/sql"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/curateproject/siteward/pkg/content"
	"github.com/curateproject/siteward/pkg/httputil"
	"github.com/curateproject/siteward/pkg/identity"
	"github.com/curateproject/siteward/pkg/observability"
	"github.com/curateproject/siteward/pkg/scope"
	"github.com/curateproject/siteward/pkg/settings"
)

// Server is the admin API surface of the scoping layer: scoped list
// endpoints per resource type, a single-resource endpoint guarded by the
// access assertion, and the settings management endpoints.
type Server struct {
	router *mux.Router
	db     *sql.DB

	store    settings.Store
	service  *settings.Service
	grants   *scope.GrantReader
	reader   content.Reader
	logger   *observability.Logger
	metrics  *observability.Metrics
	resolver func(*http.Request) *identity.Principal

	adminPrefix           string
	assertionDefaultLimit bool
	filterDefaultLimit    bool

	itemFilter    *scope.ItemFilter
	itemSetFilter *scope.ItemSetFilter
	mediaFilter   *scope.MediaFilter
	assetFilter   *scope.AssetFilter
	siteFilter    *scope.SiteFilter
}

// Options configures a Server beyond its required dependencies.
type Options struct {
	// AdminPrefix is the route-name prefix identifying admin routes.
	// Defaults to "admin".
	AdminPrefix string

	// AssertionDefaultLimit is the limit_to_granted_sites default for
	// single-resource assertions.
	AssertionDefaultLimit bool

	// FilterDefaultLimit is the same default for the list filters.
	// Defaults to true via config; the zero value here means unlimited.
	FilterDefaultLimit bool

	// Resolver maps a request to its principal. Defaults to header-based
	// resolution (X-User-ID, X-User-Role) suitable for demo deployments
	// behind a trusted proxy.
	Resolver func(*http.Request) *identity.Principal

	Logger  *observability.Logger
	Metrics *observability.Metrics
}

// NewServer wires the scoping layer into an HTTP server.
func NewServer(db *sql.DB, store settings.Store, opts Options) *Server {
	if opts.AdminPrefix == "" {
		opts.AdminPrefix = "admin"
	}
	if opts.Logger == nil {
		opts.Logger = observability.NewLogger(observability.InfoLevel, nil)
	}
	if opts.Resolver == nil {
		opts.Resolver = HeaderResolver
	}

	grants := scope.NewGrantReader(db, opts.Metrics)
	filterOpts := []scope.FilterOption{
		scope.FilterWithAdminPrefix(opts.AdminPrefix),
		scope.FilterWithDefaultLimit(opts.FilterDefaultLimit),
		scope.FilterWithLogger(opts.Logger),
		scope.FilterWithMetrics(opts.Metrics),
	}

	s := &Server{
		router:   mux.NewRouter(),
		db:       db,
		store:    store,
		service:  settings.NewService(store),
		grants:   grants,
		reader:   content.NewSQLReader(db),
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		resolver: opts.Resolver,

		adminPrefix:           opts.AdminPrefix,
		assertionDefaultLimit: opts.AssertionDefaultLimit,
		filterDefaultLimit:    opts.FilterDefaultLimit,

		itemFilter:    scope.NewItemFilter(store, grants, filterOpts...),
		itemSetFilter: scope.NewItemSetFilter(store, grants, filterOpts...),
		mediaFilter:   scope.NewMediaFilter(store, grants, filterOpts...),
		assetFilter:   scope.NewAssetFilter(store, grants, filterOpts...),
		siteFilter:    scope.NewSiteFilter(store, grants, filterOpts...),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all the API routes. Route names carry the admin
// prefix; the route-gated filters key off it.
func (s *Server) setupRoutes() {
	admin := s.router.PathPrefix("/admin").Subrouter()

	admin.HandleFunc("/items", s.listItems).Methods("GET").Name(s.adminPrefix + "/items")
	admin.HandleFunc("/items/{id:[0-9]+}", s.getItem).Methods("GET").Name(s.adminPrefix + "/item")
	admin.HandleFunc("/item-sets", s.listItemSets).Methods("GET").Name(s.adminPrefix + "/item-sets")
	admin.HandleFunc("/media", s.listMedia).Methods("GET").Name(s.adminPrefix + "/media")
	admin.HandleFunc("/media/{id:[0-9]+}", s.getMedia).Methods("GET").Name(s.adminPrefix + "/media-show")
	admin.HandleFunc("/assets", s.listAssets).Methods("GET").Name(s.adminPrefix + "/assets")
	admin.HandleFunc("/sites", s.listSites).Methods("GET").Name(s.adminPrefix + "/sites")

	admin.HandleFunc("/users/{user_id:[0-9]+}/settings/{key}", s.putUserSetting).
		Methods("PUT").Name(s.adminPrefix + "/user-setting")
	admin.HandleFunc("/users/{user_id:[0-9]+}/settings/warnings", s.getSettingWarnings).
		Methods("GET").Name(s.adminPrefix + "/user-setting-warnings")
	admin.HandleFunc("/users/{user_id:[0-9]+}/navigation", s.getNavigation).
		Methods("GET").Name(s.adminPrefix + "/user-navigation")

	s.router.HandleFunc("/health", s.health).Methods("GET")
}

// Handler returns the server's handler with its middleware chain applied.
func (s *Server) Handler() http.Handler {
	return httputil.Chain(
		httputil.RequestIDMiddleware,
		httputil.RecoveryMiddleware(s.logger),
		httputil.LoggingMiddleware(s.logger),
		identity.Middleware(s.resolver),
	)(s.router)
}

// Router exposes the underlying router for route building and tests.
func (s *Server) Router() *mux.Router { return s.router }

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		httputil.WriteErrorMessage(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	httputil.WriteSuccess(w, map[string]string{"status": "ok"})
}

// HeaderResolver builds a principal from the X-User-ID and X-User-Role
// headers. Suitable only behind a proxy that authenticates and sets them.
func HeaderResolver(r *http.Request) *identity.Principal {
	id := headerInt64(r, "X-User-ID")
	if id <= 0 {
		return nil
	}
	return &identity.Principal{
		ID:   id,
		Role: identity.Role(r.Header.Get("X-User-Role")),
	}
}
