package content

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLReaderItem(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	reader := NewSQLReader(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "owner_id", "title"}).AddRow(99, 7, "Basalt samples")
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, owner_id, title FROM item WHERE id = $1`)).
			WithArgs(int64(99)).WillReturnRows(rows)

		item, err := reader.Item(ctx, 99)
		require.NoError(t, err)
		assert.Equal(t, &Item{ID: 99, OwnerID: 7, Title: "Basalt samples"}, item)
	})

	t.Run("missing maps to ErrNotFound", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, owner_id, title FROM item`)).
			WithArgs(int64(404)).WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "title"}))

		_, err := reader.Item(ctx, 404)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("failure wraps", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, owner_id, title FROM item`)).
			WithArgs(int64(99)).WillReturnError(errors.New("connection reset"))

		_, err := reader.Item(ctx, 99)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLReaderMedia(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	reader := NewSQLReader(db)

	rows := sqlmock.NewRows([]string{"id", "item_id", "source"}).AddRow(5, 99, "scan-001.tif")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, item_id, source FROM media WHERE id = $1`)).
		WithArgs(int64(5)).WillReturnRows(rows)

	media, err := reader.Media(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, &Media{ID: 5, ItemID: 99, Source: "scan-001.tif"}, media)
}

func TestMigrationsOrderedAndComplete(t *testing.T) {
	migrations := Migrations()
	require.NotEmpty(t, migrations)

	for i, m := range migrations {
		assert.Equal(t, i+1, m.Version, "versions are contiguous from 1")
		assert.NotEmpty(t, m.SQL)
		assert.NotEmpty(t, m.Description)
		assert.NotContains(t, m.SQL, "media_site", "the optional table is not part of the baseline")
	}
}

func TestRunMigrations(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for range Migrations() {
		mock.ExpectBegin()
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()
	}

	require.NoError(t, RunMigrations(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrationsRollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnError(errors.New("permission denied"))
	mock.ExpectRollback()

	err = RunMigrations(context.Background(), db)
	assert.ErrorContains(t, err, "migration 1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuerySchemaPaths(t *testing.T) {
	schema := QuerySchema()

	for _, path := range []string{"item.sites", "media.item", "item_set.siteItemSets", "site_item_set.site"} {
		_, ok := schema[path]
		assert.True(t, ok, "missing association %s", path)
	}

	assert.NotEmpty(t, schema["item.sites"].LinkTable, "item-site is many-to-many")
	assert.Empty(t, schema["media.item"].LinkTable, "media-item is direct")
}
