package parser

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/aluiziolira/go-scrape-shops/models"
)

const barnesPricing = "div.product-shelf-pricing"

// BarnesSite parses Barnes & Noble search result shelves.
type BarnesSite struct{}

func (BarnesSite) Name() string { return "barnesandnoble" }

func (BarnesSite) Containers(doc *goquery.Selection) *goquery.Selection {
	return doc.Find("div.product-shelf-tile-book")
}

// ParseItem reads link and title from the anchor in the pricing block.
// The price is the text of the last span in that block.
func (s BarnesSite) ParseItem(container *goquery.Selection) (models.Item, error) {
	pricing, ok := find(container, barnesPricing)
	if !ok {
		return models.Item{}, &StructureError{Site: s.Name(), Selector: barnesPricing}
	}

	link, ok := find(pricing, "a")
	if !ok {
		return models.Item{}, &StructureError{Site: s.Name(), Selector: barnesPricing + " a"}
	}
	url, ok := attr(link, "href")
	if !ok {
		return models.Item{}, &StructureError{Site: s.Name(), Selector: barnesPricing + " a", Attr: "href"}
	}
	name, ok := attr(link, "title")
	if !ok {
		return models.Item{}, &StructureError{Site: s.Name(), Selector: barnesPricing + " a", Attr: "title"}
	}

	spans := pricing.Find("span")
	if spans.Length() == 0 {
		return models.Item{}, &StructureError{Site: s.Name(), Selector: barnesPricing + " span"}
	}
	price := text(spans.Last())

	imageURL, err := requireAttr(s.Name(), container, "img", "src")
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
