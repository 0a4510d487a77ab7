package wikipedia

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"cyclestats/lib/htmlutil"
	"cyclestats/lib/restyutil"
	"cyclestats/lib/table"
	"cyclestats/lib/telemetry"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("cyclestats.lib.scrapers.wikipedia")

const (
	DefaultURLTemplate = "https://es.wikipedia.org/wiki/Anexo:Datos_estad%C3%ADsticos_"
	DefaultTableClass  = "wikitable"
)

var ErrRowShape = fmt.Errorf("row has more cells than the header")

// Sink persists a harvested table under a key.
type Sink interface {
	Put(key string, t table.Table) error
}

// DirectorySink writes each table to <Dir>/<key>.csv, replacing any
// previous file with the same key.
type DirectorySink struct {
	Dir string
}

func (s DirectorySink) Put(key string, t table.Table) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("invalid table key '%s'", key)
	}
	return table.WriteFile(filepath.Join(s.Dir, key+".csv"), t)
}

var keySeparators = strings.NewReplacer("/", "_", `\`, "_")

// Key is the name a topic's table is persisted under, path separators in
// the topic become underscores.
func Key(topic string) string {
	return "df_" + keySeparators.Replace(topic)
}

type NamedTable struct {
	Topic string
	Table table.Table
}

// Harvest is the result of HarvestTables. Missing lists, in input order,
// the topics whose page had no matching table.
type Harvest struct {
	Tables  []NamedTable
	Missing []string
}

type Options struct {
	// URLTemplate is prefixed to the topic to build the page url.
	URLTemplate string
	// TableClass is the css class of the table to extract.
	TableClass string
	// Sink receives every table found, it may be nil.
	Sink      Sink
	Tel       telemetry.API
	Timeout   time.Duration
	UserAgent string
	// HttpOutput receives a dump of every http exchange, it may be nil.
	HttpOutput restyutil.InstrumentOutput
}

type Client struct {
	http        *resty.Client
	urlTemplate string
	tableClass  string
	sink        Sink
	tel         telemetry.API
}

func NewClient(opts Options) *Client {
	if opts.URLTemplate == "" {
		opts.URLTemplate = DefaultURLTemplate
	}
	if opts.TableClass == "" {
		opts.TableClass = DefaultTableClass
	}
	if opts.Tel == nil {
		opts.Tel = telemetry.SlogAPI{}
	}
	if opts.Timeout == 0 {
		opts.Timeout = time.Second * 30
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "cyclestats/1.0 (dataset builder)"
	}

	tel := telemetry.NewScopedAPI("wikipedia", opts.Tel)

	client := resty.New()
	client.SetTimeout(opts.Timeout)
	client.SetHeader("user-agent", opts.UserAgent)
	telemetry.InstrumentResty(client, "cyclestats.lib.scrapers.wikipedia.http", tel)
	restyutil.InstrumentClient(client, "wikipedia-", opts.HttpOutput)

	return &Client{
		http:        client,
		urlTemplate: opts.URLTemplate,
		tableClass:  opts.TableClass,
		sink:        opts.Sink,
		tel:         tel,
	}
}

// PageURL is the page a topic is scraped from.
func (c *Client) PageURL(topic string) string {
	return c.urlTemplate + strings.ReplaceAll(topic, " ", "_")
}

// FetchTable fetches the page of a topic and extracts its first matching
// table. found is false when the page (or the table) does not exist.
func (c *Client) FetchTable(ctx context.Context, topic string) (t table.Table, found bool, err error) {
	ctx, span := tracer.Start(ctx, "FetchTable")
	defer span.End()

	link := c.PageURL(topic)
	span.SetAttributes(attribute.String("url", link))

	res, err := c.http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch page")
		return table.Table{}, false, fmt.Errorf("fetch %s: %w", link, err)
	}
	if res.StatusCode() == http.StatusNotFound {
		return table.Table{}, false, nil
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "unexpected status")
		return table.Table{}, false, fmt.Errorf("fetch %s: unexpected status %s", link, res.Status())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return table.Table{}, false, fmt.Errorf("parse %s: %w", link, err)
	}

	t, found, err = ParseTable(doc, c.tableClass)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse table")
		return table.Table{}, false, fmt.Errorf("parse %s: %w", link, err)
	}
	return t, found, nil
}

// HarvestTables fetches the table of every topic, persisting each one to
// the sink as it is found. Topics without a table are skipped and listed
// in Harvest.Missing. Any fetch, parse or persist error aborts the batch.
func (c *Client) HarvestTables(ctx context.Context, topics []string) (Harvest, error) {
	ctx, span := tracer.Start(ctx, "HarvestTables")
	defer span.End()

	var out Harvest
	for _, topic := range topics {
		t, found, err := c.FetchTable(ctx, topic)
		if err != nil {
			span.SetStatus(codes.Error, "harvest aborted")
			return Harvest{}, err
		}
		if !found {
			c.tel.ReportDebug("no table found", topic)
			out.Missing = append(out.Missing, topic)
			continue
		}

		if c.sink != nil {
			err = c.sink.Put(Key(topic), t)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "failed to persist table")
				return Harvest{}, fmt.Errorf("persist %s: %w", topic, err)
			}
		}
		out.Tables = append(out.Tables, NamedTable{Topic: topic, Table: t})
	}

	c.tel.ReportCount("tables", int64(len(out.Tables)))
	return out, nil
}

func cells(row *goquery.Selection) []string {
	var out []string
	row.ChildrenFiltered("th, td").Each(func(_ int, cell *goquery.Selection) {
		out = append(out, htmlutil.Text(cell))
	})
	return out
}

// ParseTable converts the first table with the css class `class` into a
// Table. The first row gives the column names, rows shorter than it are
// padded with empty cells and rows wider than it are an error.
func ParseTable(doc *goquery.Document, class string) (table.Table, bool, error) {
	tbl := doc.Find("table." + class).First()
	if tbl.Length() == 0 {
		return table.Table{}, false, nil
	}

	// rows of nested tables belong to those tables
	rows := tbl.Find("tr").FilterFunction(func(_ int, row *goquery.Selection) bool {
		return row.Closest("table").IsSelection(tbl)
	})
	if rows.Length() == 0 {
		return table.Table{}, true, nil
	}

	out := table.New(cells(rows.First())...)
	var err error
	rows.Slice(1, rows.Length()).EachWithBreak(func(i int, row *goquery.Selection) bool {
		values := cells(row)
		if len(values) == 0 {
			return true
		}
		if len(values) > len(out.Columns) {
			err = fmt.Errorf("row %d has %d cells, header has %d: %w", i+1, len(values), len(out.Columns), ErrRowShape)
			return false
		}
		for len(values) < len(out.Columns) {
			values = append(values, "")
		}
		out.Rows = append(out.Rows, values)
		return true
	})
	if err != nil {
		return table.Table{}, true, err
	}
	return out, true, nil
}
