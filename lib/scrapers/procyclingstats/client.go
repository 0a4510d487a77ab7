package procyclingstats

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cyclestats/lib/restyutil"
	"cyclestats/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

var tracer = telemetry.Tracer("cyclestats.lib.scrapers.procyclingstats")

const DefaultBaseUrl = "https://www.procyclingstats.com/"

var errPageNotFound = fmt.Errorf("page not found")

type ClientOptions struct {
	BaseUrl string
	Tel     telemetry.API
	Timeout time.Duration
	// HttpOutput receives a dump of every http exchange, it may be nil.
	HttpOutput restyutil.InstrumentOutput
	// DisableCloudflareBypass leaves the default transport untouched, it is
	// meant for tests against a local server.
	DisableCloudflareBypass bool
}

// Client reads races and stages from procyclingstats.com.
type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
	tel     telemetry.API
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.Tel == nil {
		opts.Tel = telemetry.SlogAPI{}
	}
	if opts.Timeout == 0 {
		opts.Timeout = time.Second * 30
	}

	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}
	tel := telemetry.NewScopedAPI("procyclingstats", opts.Tel)

	client := resty.New()
	client.SetBaseURL(strings.TrimSuffix(baseUrl.String(), "/"))
	if !opts.DisableCloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(opts.Timeout)

	telemetry.InstrumentResty(client, "cyclestats.lib.scrapers.procyclingstats.http", tel)
	restyutil.InstrumentClient(client, "procyclingstats-", opts.HttpOutput)

	return &Client{
		BaseUrl: baseUrl,
		Http:    client,
		tel:     tel,
	}, nil
}

// fetch gets a page relative to the base url, errPageNotFound is returned
// for 404s and for the "page not found" page the site serves with a 200.
func (c *Client) fetch(ctx context.Context, path string) (*goquery.Document, error) {
	res, err := c.Http.R().
		SetContext(ctx).
		Get("/" + strings.TrimPrefix(path, "/"))
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	if res.StatusCode() == http.StatusNotFound {
		return nil, errPageNotFound
	}
	if res.IsError() {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", path, res.Status())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	title := strings.ToLower(doc.Find("title").Text())
	if strings.Contains(title, "page not found") {
		return nil, errPageNotFound
	}
	return doc, nil
}
