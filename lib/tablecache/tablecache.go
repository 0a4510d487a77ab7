// Package tablecache loads a directory of previously saved csv tables.
package tablecache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cyclestats/lib/table"
)

const suffix = ".csv"

func read(path string) (table.Table, error) {
	return table.ReadFile(path, table.ReadOptions{IndexColumn: true})
}

// Load reads every .csv file in dir, keyed by its file name without the
// suffix. The first column of each file becomes the row index. Other
// entries are ignored. Any unreadable file fails the whole load.
func Load(dir string) (map[string]table.Table, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("load cached tables: %w", err)
	}

	out := map[string]table.Table{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, suffix) {
			continue
		}
		t, err := read(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("load cached tables: %w", err)
		}
		out[strings.TrimSuffix(name, suffix)] = t
	}
	return out, nil
}

// LoadNamed reads only the tables with the given keys.
func LoadNamed(dir string, keys ...string) (map[string]table.Table, error) {
	out := make(map[string]table.Table, len(keys))
	for _, key := range keys {
		t, err := read(filepath.Join(dir, key+suffix))
		if err != nil {
			return nil, fmt.Errorf("load cached table '%s': %w", key, err)
		}
		out[key] = t
	}
	return out, nil
}
