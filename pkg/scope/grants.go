package scope

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"

	"github.com/curateproject/siteward/pkg/observability"
)

// GrantReader reads site grants and site assignments from the relational
// store. All reads are plain parameterized SQL; the reader never writes.
// A single reader is shared across concurrent requests.
type GrantReader struct {
	db      *sql.DB
	metrics *observability.Metrics

	// mediaTableMissing flips on the first failed media_site query and
	// stays set for the reader's lifetime, so a missing optional table is
	// probed once rather than per call.
	mediaTableMissing atomic.Bool
}

// NewGrantReader creates a grant reader over a database handle. metrics may
// be nil.
func NewGrantReader(db *sql.DB, metrics *observability.Metrics) *GrantReader {
	return &GrantReader{db: db, metrics: metrics}
}

// GrantedSites returns the site ids the user holds permission records for.
func (g *GrantReader) GrantedSites(ctx context.Context, userID int64) ([]int64, error) {
	query := `SELECT site_id FROM site_permission WHERE user_id = $1`
	ids, err := g.queryIDs(ctx, "site_permission", query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get granted sites: %w", err)
	}
	return ids, nil
}

// ItemSites returns the site ids an item is assigned to.
func (g *GrantReader) ItemSites(ctx context.Context, itemID int64) ([]int64, error) {
	query := `SELECT site_id FROM item_site WHERE item_id = $1`
	ids, err := g.queryIDs(ctx, "item_site", query, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get item sites: %w", err)
	}
	return ids, nil
}

// MediaSites returns the site ids directly assigned to a media through the
// optional media_site table. When the table is absent the first failure
// marks it unavailable and every later call returns an empty set without
// touching the database; schema variability is not an error.
func (g *GrantReader) MediaSites(ctx context.Context, mediaID int64) []int64 {
	if g.mediaTableMissing.Load() {
		return nil
	}

	query := `SELECT site_id FROM media_site WHERE media_id = $1`
	ids, err := g.queryIDs(ctx, "media_site", query, mediaID)
	if err != nil {
		g.mediaTableMissing.Store(true)
		return nil
	}

	return ids
}

// PermittedSiteIDs returns the distinct site ids a user has any grant to,
// through the site table itself. The site filter uses this form so its
// admission set has the same shape as the rows it scopes.
func (g *GrantReader) PermittedSiteIDs(ctx context.Context, userID int64) ([]int64, error) {
	query := `
		SELECT DISTINCT s.id
		FROM site s
		LEFT JOIN site_permission sp ON s.id = sp.site_id
		WHERE sp.user_id = $1
	`
	ids, err := g.queryIDs(ctx, "site", query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get permitted sites: %w", err)
	}
	return ids, nil
}

// queryIDs runs a single-column id query.
func (g *GrantReader) queryIDs(ctx context.Context, table, query string, arg int64) ([]int64, error) {
	rows, err := g.db.QueryContext(ctx, query, arg)
	if err != nil {
		g.countLookup(table, "error")
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			g.countLookup(table, "error")
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		g.countLookup(table, "error")
		return nil, err
	}

	g.countLookup(table, "ok")
	return ids, nil
}

func (g *GrantReader) countLookup(table, status string) {
	if g.metrics != nil {
		g.metrics.GrantLookupsTotal.WithLabelValues(table, status).Inc()
	}
}

// intersects reports whether two id sets share at least one member.
func intersects(a, b []int64) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[int64]struct{}, len(a))
	for _, id := range a {
		set[id] = struct{}{}
	}
	for _, id := range b {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}
