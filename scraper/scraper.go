package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aluiziolira/go-scrape-shops/config"
	"github.com/aluiziolira/go-scrape-shops/models"
	"github.com/aluiziolira/go-scrape-shops/parser"
)

// Saver persists one shop's items and returns the destination name.
type Saver interface {
	Save(items []models.Item, shop string) (string, error)
}

// Mirror keeps a secondary copy of each saved table.
type Mirror interface {
	ReplaceDay(ctx context.Context, shop string, day time.Time, items []models.Item) error
}

// Options carries the optional collaborators of a ShopScraper.
type Options struct {
	Mirror  Mirror
	Metrics *Metrics
	// Out receives the "<n> items saved to <file>" line. Defaults to io.Discard.
	Out io.Writer
	Now func() time.Time
}

// ShopScraper drives one site's parser over one listing page.
type ShopScraper struct {
	site    parser.Site
	fetcher PageFetcher
	table   Saver
	mirror  Mirror
	metrics *Metrics
	out     io.Writer
	now     func() time.Time
}

// NewShopScraper binds a site to its fetcher and output table.
func NewShopScraper(site parser.Site, fetcher PageFetcher, table Saver, opts Options) *ShopScraper {
	s := &ShopScraper{
		site:    site,
		fetcher: fetcher,
		table:   table,
		mirror:  opts.Mirror,
		metrics: opts.Metrics,
		out:     opts.Out,
		now:     opts.Now,
	}
	if s.out == nil {
		s.out = io.Discard
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// ScrapeShop fetches pageURL, parses every item and saves them in one
// write. A fetch or parse failure returns before anything is written.
func (s *ShopScraper) ScrapeShop(ctx context.Context, pageURL string) (*models.ShopResult, error) {
	shop := s.site.Name()
	logger := slog.With(slog.String("shop", shop), slog.String("url", pageURL))
	start := s.now()

	logger.Debug("fetching listing page")
	s.metrics.IncRequest(shop)
	doc, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, s.fail(fmt.Errorf("fetch: %w", err))
	}

	items, err := parser.ParsePage(s.site, doc)
	if err != nil {
		return nil, s.fail(fmt.Errorf("parse: %w", err))
	}
	logger.Debug("parsed listing page", slog.Int("items", len(items)))

	name, err := s.table.Save(items, shop)
	if err != nil {
		return nil, s.fail(fmt.Errorf("save: %w", err))
	}

	if s.mirror != nil {
		if err := s.mirror.ReplaceDay(ctx, shop, start, items); err != nil {
			return nil, s.fail(fmt.Errorf("mirror: %w", err))
		}
	}

	s.metrics.AddItems(shop, len(items))
	fmt.Fprintf(s.out, "%d items saved to %s\n", len(items), name)
	logger.Info("shop scraped", slog.Int("items", len(items)), slog.String("destination", name))

	return &models.ShopResult{
		Shop:        shop,
		URL:         pageURL,
		Items:       len(items),
		Destination: name,
		StartTime:   start,
		EndTime:     s.now(),
	}, nil
}

func (s *ShopScraper) fail(err error) error {
	s.metrics.IncError(errorTypeLabel(err))
	return err
}

// Run scrapes targets one after another. Every target's site is resolved
// before the first request; the first failing shop stops the run and the
// results gathered so far are returned with the error.
func Run(ctx context.Context, targets []config.Target, fetcher PageFetcher, table Saver, opts Options) ([]*models.ShopResult, error) {
	sites := make([]parser.Site, len(targets))
	for i, target := range targets {
		site, err := parser.Lookup(target.Site)
		if err != nil {
			return nil, fmt.Errorf("target %d: %w", i, err)
		}
		sites[i] = site
	}

	results := make([]*models.ShopResult, 0, len(targets))
	for i, target := range targets {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result, err := NewShopScraper(sites[i], fetcher, table, opts).ScrapeShop(ctx, target.URL)
		if err != nil {
			return results, fmt.Errorf("scrape %s: %w", sites[i].Name(), err)
		}
		results = append(results, result)
	}
	return results, nil
}
