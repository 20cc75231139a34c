package scope

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrantedSites(t *testing.T) {
	grants, mock, closeDB := newMockGrants(t)
	defer closeDB()
	expectIDs(mock, grantedSitesQuery, 7, 10, 20)

	ids, err := grants.GrantedSites(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 20}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMediaSitesProbeOnce(t *testing.T) {
	grants, mock, closeDB := newMockGrants(t)
	defer closeDB()
	mock.ExpectQuery(regexp.QuoteMeta(mediaSitesQuery)).WithArgs(int64(5)).
		WillReturnError(errors.New(`relation "media_site" does not exist`))

	ctx := context.Background()
	assert.Empty(t, grants.MediaSites(ctx, 5))

	// Second call never reaches the database.
	assert.Empty(t, grants.MediaSites(ctx, 6))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMediaSitesConcurrentFirstProbe(t *testing.T) {
	grants, mock, closeDB := newMockGrants(t)
	defer closeDB()
	mock.ExpectQuery(regexp.QuoteMeta(mediaSitesQuery)).WithArgs(int64(5)).
		WillReturnError(errors.New(`relation "media_site" does not exist`))

	// One reader is shared across requests; concurrent probes of a missing
	// table must all settle on the empty set without racing on the flag.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Empty(t, grants.MediaSites(context.Background(), 5))
		}()
	}
	wg.Wait()

	// The flag is settled; later calls issue no query at all.
	assert.Empty(t, grants.MediaSites(context.Background(), 6))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMediaSitesAvailableTable(t *testing.T) {
	grants, mock, closeDB := newMockGrants(t)
	defer closeDB()
	expectIDs(mock, mediaSitesQuery, 5, 20)
	expectIDs(mock, mediaSitesQuery, 6)

	ctx := context.Background()
	assert.Equal(t, []int64{20}, grants.MediaSites(ctx, 5))
	assert.Empty(t, grants.MediaSites(ctx, 6))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPermittedSiteIDs(t *testing.T) {
	grants, mock, closeDB := newMockGrants(t)
	defer closeDB()
	rows := sqlmock.NewRows([]string{"id"}).AddRow(10)
	mock.ExpectQuery(permittedSitesQuery).WithArgs(int64(7)).WillReturnRows(rows)

	ids, err := grants.PermittedSiteIDs(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, []int64{10}, ids)
}

func TestIntersects(t *testing.T) {
	assert.True(t, intersects([]int64{1, 2, 3}, []int64{3, 4}))
	assert.False(t, intersects([]int64{1, 2}, []int64{3, 4}))
	assert.False(t, intersects(nil, []int64{1}))
	assert.False(t, intersects([]int64{1}, nil))
}
