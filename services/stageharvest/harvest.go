package stageharvest

import (
	"context"
	"fmt"

	"cyclestats/lib/scrapers/procyclingstats"
	"cyclestats/lib/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("cyclestats.services.stageharvest")

// Provider resolves races and their stages, procyclingstats.Client is the
// production implementation.
type Provider interface {
	// GetRace returns (nil, nil) when the provider has no data for the
	// given edition.
	GetRace(ctx context.Context, slug string, year int) (*procyclingstats.Race, error)
	ListStages(race *procyclingstats.Race) ([]procyclingstats.StageRef, error)
	ParseStage(ctx context.Context, ref procyclingstats.StageRef) (procyclingstats.StageRecord, error)
}

// Series is a recurring race, e.g. the Tour de France.
type Series struct {
	Name string
	Slug string
}

var (
	Giro   = Series{Name: "giro", Slug: "giro-d-italia"}
	Tour   = Series{Name: "tour", Slug: "tour-de-france"}
	Vuelta = Series{Name: "vuelta", Slug: "vuelta-a-espana"}
)

var DefaultSeries = []Series{Giro, Tour, Vuelta}

type FailureKind string

const (
	FailureNoData FailureKind = "no-data"
	FailureRace   FailureKind = "race"
	FailureStage  FailureKind = "stage"
)

type Failure struct {
	Kind   FailureKind
	Series string
	Year   int
	// Stage is the path of the stage that failed, empty for year level
	// failures.
	Stage string
	Err   error
}

func (f Failure) String() string {
	if f.Stage != "" {
		return fmt.Sprintf("%s %s %d %s: %v", f.Kind, f.Series, f.Year, f.Stage, f.Err)
	}
	if f.Err != nil {
		return fmt.Sprintf("%s %s %d: %v", f.Kind, f.Series, f.Year, f.Err)
	}
	return fmt.Sprintf("%s %s %d", f.Kind, f.Series, f.Year)
}

type Result struct {
	Records  []procyclingstats.StageRecord
	Failures []Failure
}

type Harvester struct {
	provider Provider
	tel      telemetry.API
	series   []Series
}

func New(provider Provider, tel telemetry.API, series ...Series) Harvester {
	if len(series) == 0 {
		series = DefaultSeries
	}
	if tel == nil {
		tel = telemetry.SlogAPI{}
	}
	return Harvester{
		provider: provider,
		tel:      telemetry.NewScopedAPI("stage-harvester", tel),
		series:   series,
	}
}

func (h Harvester) Series() []Series {
	return h.series
}

func (h Harvester) fail(result *Result, f Failure) {
	result.Failures = append(result.Failures, f)
	switch f.Kind {
	case FailureNoData:
		h.tel.ReportWarning("get-race.no-data", f.Series, f.Year)
	case FailureRace:
		h.tel.ReportBroken("get-race", f.Series, f.Year, f.Err)
	case FailureStage:
		h.tel.ReportBroken("parse-stage", f.Series, f.Year, f.Stage, f.Err)
	}
}

// Harvest collects the stage records of every year in yearsBySeries, where
// yearsBySeries[i] holds the years of the i-th configured series. Failures
// never stop the harvest, they are collected in the result and reported
// through telemetry.
func (h Harvester) Harvest(ctx context.Context, yearsBySeries [][]int) Result {
	ctx, span := tracer.Start(ctx, "Harvest")
	defer span.End()

	result := Result{}
	for i, years := range yearsBySeries {
		if i >= len(h.series) {
			for _, year := range years {
				h.fail(&result, Failure{
					Kind:   FailureRace,
					Series: fmt.Sprintf("#%d", i),
					Year:   year,
					Err:    fmt.Errorf("no series configured at position %d", i),
				})
			}
			continue
		}
		for _, year := range years {
			h.harvestYear(ctx, h.series[i], year, &result)
		}
	}

	span.SetAttributes(
		attribute.Int("records", len(result.Records)),
		attribute.Int("failures", len(result.Failures)),
	)
	if len(result.Failures) > 0 {
		span.SetStatus(codes.Error, "some races or stages failed")
	}
	h.tel.ReportCount("records", int64(len(result.Records)))
	return result
}

func (h Harvester) harvestYear(ctx context.Context, series Series, year int, result *Result) {
	ctx, span := tracer.Start(ctx, "harvestYear")
	defer span.End()
	span.SetAttributes(
		attribute.String("series", series.Slug),
		attribute.Int("year", year),
	)

	race, err := h.provider.GetRace(ctx, series.Slug, year)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get race")
		h.fail(result, Failure{Kind: FailureRace, Series: series.Name, Year: year, Err: err})
		return
	}
	if race == nil {
		h.fail(result, Failure{Kind: FailureNoData, Series: series.Name, Year: year})
		return
	}

	stages, err := h.provider.ListStages(race)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list stages")
		h.fail(result, Failure{Kind: FailureRace, Series: series.Name, Year: year, Err: err})
		return
	}
	h.tel.ReportDebug("found stages", series.Name, year, len(stages))

	for _, ref := range stages {
		record, err := h.provider.ParseStage(ctx, ref)
		if err != nil {
			span.RecordError(err)
			h.fail(result, Failure{
				Kind:   FailureStage,
				Series: series.Name,
				Year:   year,
				Stage:  ref.Path,
				Err:    err,
			})
			continue
		}
		result.Records = append(result.Records, record)
	}
}
