package commands

import (
	"fmt"
	"log/slog"
	"strings"

	"cyclestats/cmd/cyclestats/utils"
	configsqlite "cyclestats/lib/configutil/sqlite"
	"cyclestats/lib/scrapers/procyclingstats"
	"cyclestats/lib/serviceutil"
	"cyclestats/lib/stagestore"
	"cyclestats/lib/telemetry"
	"cyclestats/lib/textutil"
	"cyclestats/services/stageharvest"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	stageYears  = map[string]*[]int{}
	stageSeries []string
	stageDb     string
)

func init() {
	for _, series := range stageharvest.DefaultSeries {
		years := new([]int)
		stageYears[series.Name] = years
		stagesCmd.Flags().IntSliceVar(years, series.Name, nil, fmt.Sprintf("The years of %s to harvest.", series.Slug))
	}
	stagesCmd.Flags().StringSliceVar(&stageSeries, "series", nil, "Only harvest these series (giro, tour, vuelta).")
	stagesCmd.Flags().StringVar(&stageDb, "db", "", "A sqlite file or libsql url to save stages into (defaults to stages_db).")
	rootCmd.AddCommand(stagesCmd)
}

// selectSeries resolves series names given on the command line, unknown
// names fail with a suggestion of the closest known one.
func selectSeries(names []string) ([]stageharvest.Series, error) {
	if len(names) == 0 {
		return stageharvest.DefaultSeries, nil
	}

	known := make([]string, len(stageharvest.DefaultSeries))
	for i, series := range stageharvest.DefaultSeries {
		known[i] = series.Name
	}

	var selected []stageharvest.Series
	for _, name := range names {
		found := false
		for _, series := range stageharvest.DefaultSeries {
			if series.Name == strings.ToLower(name) || series.Slug == strings.ToLower(name) {
				selected = append(selected, series)
				found = true
				break
			}
		}
		if found {
			continue
		}
		suggestion, similarity := textutil.Closest(name, known)
		if similarity >= 0.7 {
			return nil, fmt.Errorf("unknown series '%s', did you mean '%s'?", name, suggestion)
		}
		return nil, fmt.Errorf("unknown series '%s', expected one of %s", name, strings.Join(known, ", "))
	}
	return selected, nil
}

func stageStoreConfig(cfg Config) configsqlite.Struct {
	if stageDb == "" {
		return cfg.StagesDB
	}
	if strings.Contains(stageDb, "://") {
		return configsqlite.Struct{Url: stageDb, AuthToken: cfg.StagesDB.AuthToken}
	}
	return configsqlite.Struct{File: stageDb}
}

var stagesCmd = &cobra.Command{
	Use:   "stages [--giro Y,Y] [--tour Y,Y] [--vuelta Y,Y] [--db <path>]",
	Short: "Harvests the stages of the grand tours from procyclingstats.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		series, err := selectSeries(stageSeries)
		if err != nil {
			serviceutil.Fatal("invalid --series", err)
		}

		client, err := procyclingstats.NewClient(procyclingstats.ClientOptions{
			BaseUrl:    cfg.Procyclingstats.BaseUrl,
			Tel:        telemetry.SlogAPI{},
			HttpOutput: httpOutput(),
		})
		if err != nil {
			serviceutil.Fatal("failed to create procyclingstats client", err)
		}

		yearsBySeries := make([][]int, len(series))
		for i, s := range series {
			yearsBySeries[i] = *stageYears[s.Name]
		}

		harvester := stageharvest.New(client, telemetry.SlogAPI{}, series...)
		result := harvester.Harvest(cmd.Context(), yearsBySeries)

		if len(result.Failures) > 0 {
			t := utils.NewTable()
			t.AppendHeader(table.Row{"Kind", "Series", "Year", "Stage", "Error"})
			for _, f := range result.Failures {
				errText := ""
				if f.Err != nil {
					errText = f.Err.Error()
				}
				t.AppendRow(table.Row{f.Kind, f.Series, f.Year, f.Stage, errText})
			}
			t.Render()
		}
		slog.Info("harvested stages", "records", len(result.Records), "failures", len(result.Failures))

		storeConfig := stageStoreConfig(cfg)
		if storeConfig.File == "" && storeConfig.Url == "" {
			return
		}
		store, db, err := stagestore.Open(storeConfig)
		if err != nil {
			serviceutil.Fatal("failed to open stage store", err)
		}
		defer db.Close()

		err = store.Save(cmd.Context(), result.Records)
		if err != nil {
			serviceutil.Fatal("failed to save stages", err)
		}
		slog.Info("saved stages", "records", len(result.Records))
	},
}
