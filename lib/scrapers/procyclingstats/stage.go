package procyclingstats

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cyclestats/lib/htmlutil"
	"cyclestats/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ErrStageShape is returned when a stage page does not have the expected
// structure.
var ErrStageShape = fmt.Errorf("unexpected stage page structure")

// StageRecord holds the parsed attributes of a stage. `stage_url`, `race`
// and `year` are always present, the rest depends on the page.
type StageRecord map[string]any

// ParseStage fetches and parses the page of a single stage.
func (c *Client) ParseStage(ctx context.Context, ref StageRef) (StageRecord, error) {
	ctx, span := tracer.Start(ctx, "ParseStage")
	defer span.End()
	span.SetAttributes(attribute.String("path", ref.Path))

	doc, err := c.fetch(ctx, ref.Path)
	if errors.Is(err, errPageNotFound) {
		err = fmt.Errorf("%s: %w", ref.Path, err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch stage")
		return nil, err
	}

	record, err := parseStage(doc, ref)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse stage")
		return nil, err
	}
	return record, nil
}

var dateLayouts = []string{
	"02 January 2006",
	"2 January 2006",
	"2006-01-02",
}

func parseDate(value string) (time.Time, bool) {
	// "01 July 2022, 13:15" -> "01 July 2022"
	value, _, _ = strings.Cut(value, ",")
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func parseStage(doc *goquery.Document, ref StageRef) (StageRecord, error) {
	infolist := doc.Find("ul.infolist").First()
	if infolist.Length() == 0 {
		return nil, fmt.Errorf("%s: missing info list: %w", ref.Path, ErrStageShape)
	}

	record := StageRecord{
		"stage_url": ref.Path,
		"race":      ref.RaceSlug,
		"year":      ref.Year,
	}
	if title := htmlutil.Text(doc.Find("h1").First()); title != "" {
		record["stage_name"] = title
	}

	infolist.Find("li").Each(func(_ int, item *goquery.Selection) {
		parts := item.ChildrenFiltered("div")
		if parts.Length() < 2 {
			return
		}
		key := textutil.SnakeCase(htmlutil.Text(parts.Eq(0)))
		if key == "" {
			return
		}
		record[key] = htmlutil.Text(parts.Eq(1))
	})

	if raw, ok := record["date"].(string); ok {
		if date, ok := parseDate(raw); ok {
			record["date_iso"] = date.Format(time.DateOnly)
		}
	}

	results := parseResults(doc.Find("table.results").First())
	if len(results) > 0 {
		record["results"] = results
	}
	return record, nil
}

func parseResults(tbl *goquery.Selection) []map[string]string {
	if tbl.Length() == 0 {
		return nil
	}

	var header []string
	tbl.Find("thead th").Each(func(_ int, th *goquery.Selection) {
		header = append(header, textutil.SnakeCase(htmlutil.Text(th)))
	})

	var rows []map[string]string
	tbl.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		row := map[string]string{}
		tr.ChildrenFiltered("td").Each(func(i int, td *goquery.Selection) {
			if i >= len(header) || header[i] == "" {
				return
			}
			row[header[i]] = htmlutil.Text(td)
		})
		if len(row) > 0 {
			rows = append(rows, row)
		}
	})
	return rows
}
