package procyclingstats

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"cyclestats/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Race is a single edition of a race, e.g. the 2022 Tour de France.
type Race struct {
	Slug string
	Year int
	Name string
	Path string

	doc *goquery.Document
}

// StageRef points at the page of one stage of a race.
type StageRef struct {
	RaceSlug string
	Year     int
	Name     string
	// Path is relative to the base url, e.g. race/tour-de-france/2022/stage-1
	Path string
}

func RacePath(slug string, year int) string {
	return fmt.Sprintf("race/%s/%d", slug, year)
}

// GetRace fetches the overview page of a race edition. A nil race and a
// nil error means the site has no data for it.
func (c *Client) GetRace(ctx context.Context, slug string, year int) (*Race, error) {
	ctx, span := tracer.Start(ctx, "GetRace")
	defer span.End()

	path := RacePath(slug, year)
	span.SetAttributes(attribute.String("path", path))

	doc, err := c.fetch(ctx, path)
	if errors.Is(err, errPageNotFound) {
		c.tel.ReportDebug("race not found", path)
		return nil, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch race")
		c.tel.ReportDebug("failed to fetch race", path, err)
		return nil, err
	}

	name := htmlutil.Text(doc.Find("h1").First())
	if name == "" {
		c.tel.ReportDebug("race page has no title", path)
		return nil, nil
	}

	return &Race{
		Slug: slug,
		Year: year,
		Name: name,
		Path: path,
		doc:  doc,
	}, nil
}

var stageHref = regexp.MustCompile(`^/?race/([\w-]+)/(\d{4})/(stage-\d+[a-z]?|prologue)(?:/.*)?$`)

// ListStages returns the stages linked from the race page, in page order.
func (c *Client) ListStages(race *Race) ([]StageRef, error) {
	if race == nil || race.doc == nil {
		return nil, fmt.Errorf("race was not fetched by this client")
	}
	return parseStages(race.doc, race.Slug, race.Year), nil
}

func parseStages(doc *goquery.Document, slug string, year int) []StageRef {
	seen := map[string]struct{}{}
	stages := []StageRef{}

	for _, anchor := range htmlutil.GetAnchors(doc.Find("a[href]")) {
		href := anchor.Href
		if i := strings.Index(href, "race/"); i > 0 && strings.Contains(href[:i], "://") {
			href = href[i:]
		}
		groups := stageHref.FindStringSubmatch(href)
		if len(groups) < 4 {
			continue
		}
		linkYear, err := strconv.Atoi(groups[2])
		if err != nil || groups[1] != slug || linkYear != year {
			continue
		}

		path := fmt.Sprintf("race/%s/%d/%s", slug, year, groups[3])
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}

		name := anchor.Name
		if name == "" {
			name = groups[3]
		}
		stages = append(stages, StageRef{
			RaceSlug: slug,
			Year:     year,
			Name:     name,
			Path:     path,
		})
	}
	return stages
}
