package commands

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"cyclestats/cmd/cyclestats/utils"
	"cyclestats/lib/segment"
	"cyclestats/lib/serviceutil"
	datatable "cyclestats/lib/table"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	splitDateColumn string
	splitOut        string
	splitIndex      bool
	splitLayouts    []string
	splitLocation   string
)

func init() {
	splitCmd.Flags().StringVar(&splitDateColumn, "date-column", "date", "The column holding the date of each row.")
	splitCmd.Flags().StringVar(&splitOut, "out", "", "The directory to write segments to (defaults to the directory of the input).")
	splitCmd.Flags().BoolVar(&splitIndex, "index", false, "Treat the first column of the csv as the row index.")
	splitCmd.Flags().StringSliceVar(&splitLayouts, "layout", nil, "Go time layouts to parse dates with, tried in order.")
	splitCmd.Flags().StringVar(&splitLocation, "location", "UTC", "The time zone of dates that carry none (ex. Europe/Paris).")
	rootCmd.AddCommand(splitCmd)
}

var splitCmd = &cobra.Command{
	Use:   "split <file.csv> [--date-column <name>] [--out <dir>]",
	Short: "Splits a csv into segments wherever the date goes backwards.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		input := resolvePath(args[0])
		t, err := datatable.ReadFile(input, datatable.ReadOptions{IndexColumn: splitIndex})
		if err != nil {
			serviceutil.Fatal("failed to read csv", err)
		}

		location, err := time.LoadLocation(splitLocation)
		if err != nil {
			serviceutil.Fatal("invalid --location", err)
		}
		opts := []segment.Option{segment.WithLocation(location)}
		if len(splitLayouts) > 0 {
			opts = append(opts, segment.WithLayouts(splitLayouts...))
		}
		segments, err := segment.SplitByDateDecrease(t, splitDateColumn, opts...)
		if err != nil {
			serviceutil.Fatal("failed to split table", err)
		}

		out := splitOut
		if out == "" {
			out = filepath.Dir(input)
		}
		out = resolvePath(out)
		stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))

		summary := utils.NewTable()
		summary.AppendHeader(table.Row{"File", "Rows", "First", "Last"})
		for i, seg := range segments {
			path := filepath.Join(out, fmt.Sprintf("%s_segment_%d.csv", stem, i+1))
			err := datatable.WriteFile(path, seg)
			if err != nil {
				serviceutil.Fatal("failed to write segment", err)
			}

			first, _ := seg.Value(0, splitDateColumn)
			last, _ := seg.Value(seg.Len()-1, splitDateColumn)
			summary.AppendRow(table.Row{path, seg.Len(), first, last})
		}
		summary.Render()
	},
}
