package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() Schema {
	return Schema{
		"item.sites": {
			TargetEntity: "site",
			TargetTable:  "site",
			LinkTable:    "item_site",
			LinkOn:       "{link}.item_id = {src}.id",
			TargetOn:     "{dst}.id = {link}.site_id",
		},
		"media.item": {
			TargetEntity: "item",
			TargetTable:  "item",
			On:           "{dst}.id = {src}.item_id",
		},
	}
}

func TestSelectBuilderPlainSelect(t *testing.T) {
	b := NewSelect(testSchema(), "item", "item", "it", "it.id", "it.title")

	sql, args, err := b.SQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT it.id, it.title FROM item it", sql)
	assert.Empty(t, args)
}

func TestSelectBuilderDefaultColumns(t *testing.T) {
	b := NewSelect(testSchema(), "item", "item", "it")

	sql, _, err := b.SQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT it.* FROM item it", sql)
}

func TestSelectBuilderLinkJoinAndInList(t *testing.T) {
	b := NewSelect(testSchema(), "item", "item", "it", "DISTINCT it.id")
	b.InnerJoin("it.sites", "site").
		AndWhere("site.id IN (:grantedSites)").
		SetParameter("grantedSites", []int64{10, 20})

	sql, args, err := b.SQL()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT DISTINCT it.id FROM item it"+
			" INNER JOIN item_site site_link ON site_link.item_id = it.id"+
			" INNER JOIN site site ON site.id = site_link.site_id"+
			" WHERE (site.id IN ($1, $2))",
		sql)
	assert.Equal(t, []interface{}{int64(10), int64(20)}, args)
}

func TestSelectBuilderEmptySliceMatchesNothing(t *testing.T) {
	b := NewSelect(testSchema(), "item", "item", "it", "it.id")
	b.AndWhere("it.id IN (:ids)").SetParameter("ids", []int64{})

	sql, args, err := b.SQL()
	require.NoError(t, err)
	assert.Contains(t, sql, "IN (NULL)")
	assert.Empty(t, args)
}

func TestSelectBuilderChainedJoins(t *testing.T) {
	b := NewSelect(testSchema(), "media", "media", "m", "m.id")
	b.InnerJoin("m.item", "item").
		InnerJoin("item.sites", "site").
		AndWhere("site.id IN (:grantedSites)").
		AndWhere("m.id > :minID").
		SetParameter("grantedSites", []int64{20}).
		SetParameter("minID", int64(5))

	sql, args, err := b.SQL()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT m.id FROM media m"+
			" INNER JOIN item item ON item.id = m.item_id"+
			" INNER JOIN item_site site_link ON site_link.item_id = item.id"+
			" INNER JOIN site site ON site.id = site_link.site_id"+
			" WHERE (site.id IN ($1)) AND (m.id > $2)",
		sql)
	assert.Equal(t, []interface{}{int64(20), int64(5)}, args)
}

func TestSelectBuilderPrefixSharingParameterNames(t *testing.T) {
	b := NewSelect(testSchema(), "item", "item", "it", "it.id")
	b.AndWhere("it.owner_id = :site").
		AndWhere("it.id IN (:siteIds)").
		SetParameter("site", int64(3)).
		SetParameter("siteIds", []int64{10, 20})

	sql, args, err := b.SQL()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT it.id FROM item it WHERE (it.owner_id = $1) AND (it.id IN ($2, $3))",
		sql)
	assert.Equal(t, []interface{}{int64(3), int64(10), int64(20)}, args)
}

func TestSelectBuilderErrors(t *testing.T) {
	t.Run("unknown association", func(t *testing.T) {
		b := NewSelect(testSchema(), "item", "item", "it")
		b.InnerJoin("it.owner", "owner")
		_, _, err := b.SQL()
		assert.ErrorContains(t, err, "unknown association")
		assert.Error(t, b.Err())
	})

	t.Run("unknown alias", func(t *testing.T) {
		b := NewSelect(testSchema(), "item", "item", "it")
		b.InnerJoin("x.sites", "site")
		_, _, err := b.SQL()
		assert.ErrorContains(t, err, "unknown alias")
	})

	t.Run("malformed path", func(t *testing.T) {
		b := NewSelect(testSchema(), "item", "item", "it")
		b.InnerJoin("sites", "site")
		_, _, err := b.SQL()
		assert.ErrorContains(t, err, "malformed")
	})

	t.Run("unbound parameter", func(t *testing.T) {
		b := NewSelect(testSchema(), "item", "item", "it")
		b.AndWhere("it.owner_id = :userID")
		_, _, err := b.SQL()
		assert.ErrorContains(t, err, "unbound parameter")
	})

	t.Run("bound but unused parameter", func(t *testing.T) {
		b := NewSelect(testSchema(), "item", "item", "it")
		b.SetParameter("userID", int64(7))
		_, _, err := b.SQL()
		assert.ErrorContains(t, err, "bound but unused")
	})

	t.Run("error sticks through later calls", func(t *testing.T) {
		b := NewSelect(testSchema(), "item", "item", "it")
		b.InnerJoin("bad", "x").AndWhere("1 = 1")
		_, _, err := b.SQL()
		assert.Error(t, err)
	})
}

func TestRecorderCapturesMutations(t *testing.T) {
	r := NewRecorder("it")
	r.InnerJoin("it.sites", "site").
		LeftJoin("site.owner", "owner").
		AndWhere("site.id IN (:ids)").
		SetParameter("ids", []int64{1}).
		SetParameter("ids", []int64{2})

	assert.Equal(t, "it", r.RootAlias())
	assert.Equal(t, []JoinRecord{
		{Kind: "inner", Path: "it.sites", Alias: "site"},
		{Kind: "left", Path: "site.owner", Alias: "owner"},
	}, r.Joins)
	assert.Equal(t, []string{"site.id IN (:ids)"}, r.Predicates)
	assert.Equal(t, []int64{2}, r.Params["ids"])
	assert.Equal(t, []string{"ids"}, r.ParamOrder, "rebinding keeps first-use order")
}
