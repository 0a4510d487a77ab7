package main

import (
	"fmt"
	"log/slog"
	"os"

	devenv "cyclestats/dev/env"
	configsqlite "cyclestats/lib/configutil/sqlite"
	"cyclestats/lib/stagestore/db"
)

func CreateDataDirs() error {
	for _, dir := range []string{
		"<dev_state>/wikipedia/original",
		"<dev_state>/wikipedia/cleaned",
	} {
		resolved, err := devenv.ResolvePath(dir)
		if err != nil {
			return err
		}
		err = os.MkdirAll(resolved, 0777)
		if err != nil {
			return err
		}
		fmt.Println("data directory at", resolved)
	}
	return nil
}

func CreateStageDB() error {
	path, err := devenv.ResolvePath("<dev_state>/stages.db")
	if err != nil {
		return err
	}
	_, err = os.Stat(path)
	if err == nil {
		fmt.Println("database already created at", path)
		return nil
	}

	fmt.Println("creating database at", path)
	database, err := configsqlite.Struct{File: path}.OpenDB(db.Schema)
	if err != nil {
		return err
	}
	return database.Close()
}

func PrintConfigLocations() {
	slog.Info("tests against the live websites are skipped unless dev/.state/live_test.json5 exists, see devenv.LiveTestConfig for its fields.")
}
