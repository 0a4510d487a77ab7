package commands

import (
	"sort"
	"strings"

	"cyclestats/cmd/cyclestats/utils"
	"cyclestats/lib/serviceutil"
	datatable "cyclestats/lib/table"
	"cyclestats/lib/tablecache"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var cacheKeys []string

func init() {
	cacheCmd.Flags().StringSliceVar(&cacheKeys, "keys", nil, "Only load these tables (ex. df_Tour_de_Francia).")
	rootCmd.AddCommand(cacheCmd)
}

var cacheCmd = &cobra.Command{
	Use:   "cache [dir] [--keys key,key]",
	Short: "Loads every cached csv table in a directory and summarizes them.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		dir := cfg.Wikipedia.CleanedDir
		if len(args) > 0 {
			dir = args[0]
		}
		dir = resolvePath(dir)

		var tables map[string]datatable.Table
		var err error
		if len(cacheKeys) > 0 {
			tables, err = tablecache.LoadNamed(dir, cacheKeys...)
		} else {
			tables, err = tablecache.Load(dir)
		}
		if err != nil {
			serviceutil.Fatal("failed to load tables", err)
		}

		keys := make([]string, 0, len(tables))
		for key := range tables {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		t := utils.NewTable()
		t.AppendHeader(table.Row{"Key", "Rows", "Index", "Columns"})
		for _, key := range keys {
			loaded := tables[key]
			t.AppendRow(table.Row{
				key,
				loaded.Len(),
				loaded.IndexName,
				strings.Join(loaded.Columns, ", "),
			})
		}
		t.Render()
	},
}
