package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	configsqlite "cyclestats/lib/configutil/sqlite"
	"cyclestats/lib/telemetry"
)

type Params struct {
	Name string
	// if unspecified, it will skip setting up a db
	DbSchema string
	// if unspecified, it will use `:memory:`
	DbPath string
}

type Result struct {
	DB *sql.DB
}

// Setup initializes telemetry for the test named `params.Name` and opens
// a sqlite database with the given schema, both are closed on cleanup.
func Setup(t testing.TB, params Params) Result {
	cleanup := telemetry.SetupForTesting(t, fmt.Sprintf("test:%s", params.Name))
	t.Cleanup(cleanup)

	if params.DbSchema == "" {
		return Result{}
	}

	dbpath := params.DbPath
	if dbpath == "" {
		dbpath = ":memory:"
	}
	db, err := configsqlite.Struct{File: dbpath}.OpenDB(params.DbSchema)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		db.Close()
	})

	return Result{DB: db}
}
