package parser

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/aluiziolira/go-scrape-shops/models"
)

// EbaySite parses eBay search result pages.
type EbaySite struct{}

func (EbaySite) Name() string { return "ebay" }

// Containers returns the list items of the first results list. Pages
// without a results list have no items.
func (EbaySite) Containers(doc *goquery.Selection) *goquery.Selection {
	results, ok := find(doc, "ul.srp-results")
	if !ok {
		return results
	}
	return results.Find("li.s-item")
}

func (s EbaySite) ParseItem(container *goquery.Selection) (models.Item, error) {
	url, err := requireAttr(s.Name(), container, "a", "href")
	if err != nil {
		return models.Item{}, err
	}
	imageURL, err := requireAttr(s.Name(), container, "img.s-item__image-img", "src")
	if err != nil {
		return models.Item{}, err
	}
	name, err := requireText(s.Name(), container, "h3.s-item__title")
	if err != nil {
		return models.Item{}, err
	}
	price, err := requireText(s.Name(), container, "span.s-item__price")
	if err != nil {
		return models.Item{}, err
	}

	return models.Item{
		URL:      url,
		ImageURL: imageURL,
		Name:     name,
		Price:    price,
	}, nil
}
