// Package parser extracts item records from shop listing pages. Each
// supported shop provides a Site describing where its items live in the
// page markup.
package parser

import (
	"fmt"
	"sort"

	"github.com/PuerkitoBio/goquery"

	"github.com/aluiziolira/go-scrape-shops/models"
)

// Site is the per-shop parsing strategy.
type Site interface {
	// Name identifies the shop; it prefixes the output table name.
	Name() string
	// Containers returns the item containers of a page in document order.
	// An empty selection means the page lists no items.
	Containers(doc *goquery.Selection) *goquery.Selection
	// ParseItem extracts one record from a container returned by Containers.
	ParseItem(container *goquery.Selection) (models.Item, error)
}

var registry = map[string]Site{
	EbaySite{}.Name():   EbaySite{},
	BarnesSite{}.Name(): BarnesSite{},
}

// Lookup returns the site registered under name.
func Lookup(name string) (Site, error) {
	site, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown site %q (known: %v)", name, Sites())
	}
	return site, nil
}

// Sites lists the registered site names.
func Sites() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParsePage extracts one item per container. The first container that
// fails to parse aborts the page.
func ParsePage(site Site, doc *goquery.Document) ([]models.Item, error) {
	containers := site.Containers(doc.Selection)
	items := make([]models.Item, 0, containers.Length())
	for i := range containers.Nodes {
		item, err := site.ParseItem(containers.Eq(i))
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}
