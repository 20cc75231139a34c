package scope

import (
	"context"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/curateproject/siteward/pkg/content"
	"github.com/curateproject/siteward/pkg/settings"
)

// memStore is an in-memory settings store. A non-nil failErr makes every
// Get fail, for fail-closed tests.
type memStore struct {
	values  map[int64]map[string]string
	failErr error
	gets    int
}

func newMemStore() *memStore {
	return &memStore{values: make(map[int64]map[string]string)}
}

func (m *memStore) Get(ctx context.Context, userID int64, key string) (string, error) {
	m.gets++
	if m.failErr != nil {
		return "", m.failErr
	}
	user, ok := m.values[userID]
	if !ok {
		return "", settings.ErrNotFound
	}
	value, ok := user[key]
	if !ok {
		return "", settings.ErrNotFound
	}
	return value, nil
}

func (m *memStore) Set(ctx context.Context, userID int64, key, value string) error {
	if m.values[userID] == nil {
		m.values[userID] = make(map[string]string)
	}
	m.values[userID][key] = value
	return nil
}

// fakeReader serves items and media from maps. Lookups of unknown ids
// return content.ErrNotFound; panicID triggers a panic for recovery tests.
type fakeReader struct {
	items   map[int64]*content.Item
	media   map[int64]*content.Media
	panicID int64
}

func (f *fakeReader) Item(ctx context.Context, id int64) (*content.Item, error) {
	if f.panicID != 0 && id == f.panicID {
		panic(fmt.Sprintf("reader blew up on item %d", id))
	}
	item, ok := f.items[id]
	if !ok {
		return nil, content.ErrNotFound
	}
	return item, nil
}

func (f *fakeReader) Media(ctx context.Context, id int64) (*content.Media, error) {
	media, ok := f.media[id]
	if !ok {
		return nil, content.ErrNotFound
	}
	return media, nil
}

const (
	grantedSitesQuery   = `SELECT site_id FROM site_permission WHERE user_id = $1`
	itemSitesQuery      = `SELECT site_id FROM item_site WHERE item_id = $1`
	mediaSitesQuery     = `SELECT site_id FROM media_site WHERE media_id = $1`
	permittedSitesQuery = `SELECT DISTINCT s.id`
)

// newMockGrants builds a GrantReader over a sqlmock handle.
func newMockGrants(t *testing.T) (*GrantReader, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewGrantReader(db, nil), mock, func() { db.Close() }
}

// expectIDs queues an id-list query expectation.
func expectIDs(mock sqlmock.Sqlmock, query string, arg int64, ids ...int64) {
	rows := sqlmock.NewRows([]string{"site_id"})
	for _, id := range ids {
		rows.AddRow(id)
	}
	mock.ExpectQuery(regexp.QuoteMeta(query)).WithArgs(arg).WillReturnRows(rows)
}
