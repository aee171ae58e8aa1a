package scraper

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"github.com/aluiziolira/go-scrape-shops/config"
)

// PageFetcher loads a listing page as a document tree.
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) (*goquery.Document, error)
}

// Fetcher issues one synchronous GET per page through a colly collector.
type Fetcher struct {
	collector *colly.Collector
	metrics   *Metrics
}

// NewFetcher builds a fetcher that identifies as cfg.UserAgent.
func NewFetcher(cfg *config.Config, metrics *Metrics) *Fetcher {
	collector := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
		colly.ParseHTTPErrorResponse(),
	)

	collector.SetRequestTimeout(cfg.Timeout)
	collector.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	})

	return &Fetcher{
		collector: collector,
		metrics:   metrics,
	}
}

// Fetch downloads pageURL and parses the body. Any status outside 2xx
// fails with a *StatusError; nothing is retried.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Callbacks are per page, the clone shares the transport.
	c := f.collector.Clone()

	var (
		start    time.Time
		body     []byte
		fetchErr error
	)
	c.OnRequest(func(r *colly.Request) {
		start = time.Now()
	})
	c.OnResponse(func(r *colly.Response) {
		f.metrics.ObserveDuration(time.Since(start))
		if r.StatusCode < http.StatusOK || r.StatusCode >= http.StatusMultipleChoices {
			fetchErr = &StatusError{URL: r.Request.URL.String(), StatusCode: r.StatusCode}
			return
		}
		body = r.Body
	})

	if err := c.Visit(pageURL); err != nil {
		return nil, classifyError(fmt.Errorf("visit %s: %w", pageURL, err))
	}
	if fetchErr != nil {
		return nil, classifyError(fetchErr)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html from %s: %w", pageURL, err)
	}
	return doc, nil
}
