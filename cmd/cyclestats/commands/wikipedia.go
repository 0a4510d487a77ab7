package commands

import (
	"log/slog"

	"cyclestats/cmd/cyclestats/utils"
	"cyclestats/lib/scrapers/wikipedia"
	"cyclestats/lib/serviceutil"
	"cyclestats/lib/telemetry"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var wikipediaOut string

func init() {
	wikipediaCmd.Flags().StringVar(&wikipediaOut, "out", "", "The directory to write tables to (defaults to wikipedia.original_dir).")
	rootCmd.AddCommand(wikipediaCmd)
}

var wikipediaCmd = &cobra.Command{
	Use:   "wikipedia [topic...] [--out <dir>]",
	Short: "Downloads the statistics table of each topic from Wikipedia into csv files.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		topics := args
		if len(topics) == 0 {
			topics = cfg.Wikipedia.Topics
		}
		out := wikipediaOut
		if out == "" {
			out = cfg.Wikipedia.OriginalDir
		}
		out = resolvePath(out)

		client := wikipedia.NewClient(wikipedia.Options{
			URLTemplate: cfg.Wikipedia.URLTemplate,
			TableClass:  cfg.Wikipedia.TableClass,
			Sink:        wikipedia.DirectorySink{Dir: out},
			Tel:         telemetry.SlogAPI{},
			HttpOutput:  httpOutput(),
		})

		harvest, err := client.HarvestTables(cmd.Context(), topics)
		if err != nil {
			serviceutil.Fatal("failed to harvest wikipedia tables", err)
		}

		t := utils.NewTable()
		t.AppendHeader(table.Row{"Topic", "Key", "Rows", "Columns"})
		for _, named := range harvest.Tables {
			t.AppendRow(table.Row{
				named.Topic,
				wikipedia.Key(named.Topic),
				named.Table.Len(),
				len(named.Table.Columns),
			})
		}
		for _, topic := range harvest.Missing {
			t.AppendRow(table.Row{topic, "(no table)", "", ""})
		}
		t.Render()

		slog.Info("wrote tables", "dir", out, "count", len(harvest.Tables))
	},
}
