package stagestore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	configsqlite "cyclestats/lib/configutil/sqlite"
	"cyclestats/lib/scrapers/procyclingstats"
	"cyclestats/lib/stagestore/db"
	"cyclestats/lib/testutil"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	setup := testutil.Setup(t, testutil.Params{
		Name:     "lib/stagestore",
		DbSchema: db.Schema,
	})
	store := New(setup.DB)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Empty(t, records)

	err = store.Save(ctx, []procyclingstats.StageRecord{
		{"stage_url": "race/tour-de-france/2022/stage-2", "race": "tour-de-france", "year": 2022, "distance": "202.2 km"},
		{"stage_url": "race/tour-de-france/2022/stage-1", "race": "tour-de-france", "year": 2022, "distance": "13.2 km"},
	})
	require.NoError(t, err)

	err = store.Save(ctx, []procyclingstats.StageRecord{
		{"stage_url": "race/tour-de-france/2022/stage-2", "race": "tour-de-france", "year": 2022, "distance": "202.5 km"},
	})
	require.NoError(t, err)

	records, err = store.List(ctx)
	require.NoError(t, err)

	expected := []procyclingstats.StageRecord{
		{"stage_url": "race/tour-de-france/2022/stage-1", "race": "tour-de-france", "year": float64(2022), "distance": "13.2 km"},
		{"stage_url": "race/tour-de-france/2022/stage-2", "race": "tour-de-france", "year": float64(2022), "distance": "202.5 km"},
	}
	if diff := cmp.Diff(expected, records); diff != "" {
		t.Fatal("unexpected records:", diff)
	}
}

func TestSaveRejectsRecordWithoutURL(t *testing.T) {
	setup := testutil.Setup(t, testutil.Params{
		Name:     "lib/stagestore",
		DbSchema: db.Schema,
	})
	store := New(setup.DB)
	ctx := context.Background()

	err := store.Save(ctx, []procyclingstats.StageRecord{
		{"stage_url": "race/giro-d-italia/2021/stage-1", "race": "giro-d-italia", "year": 2021},
		{"race": "giro-d-italia", "year": 2021},
	})
	require.Error(t, err)

	// the whole batch is rolled back
	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "stages.db")
	ctx := context.Background()

	store, database, err := Open(configsqlite.Struct{File: path})
	require.NoError(t, err)
	err = store.Save(ctx, []procyclingstats.StageRecord{
		{"stage_url": "race/vuelta-a-espana/2020/stage-1", "race": "vuelta-a-espana", "year": 2020},
	})
	require.NoError(t, err)
	require.NoError(t, database.Close())

	store, database, err = Open(configsqlite.Struct{File: path})
	require.NoError(t, err)
	defer database.Close()

	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "race/vuelta-a-espana/2020/stage-1", records[0]["stage_url"])
}

func TestOpenUnsupportedURL(t *testing.T) {
	_, _, err := Open(configsqlite.Struct{Url: "postgres://localhost/stages"})
	require.Error(t, err)
}
