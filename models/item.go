// Package models defines data structures for the scraper.
package models

import "time"

// Item is one product listed on a shop's results page. All fields keep
// the text exactly as the site renders it; Price is not parsed.
type Item struct {
	URL      string `csv:"url" json:"url"`
	ImageURL string `csv:"img_url" json:"img_url"`
	Name     string `csv:"name" json:"name"`
	Price    string `csv:"price" json:"price"`
}

// ShopResult holds the outcome of scraping a single shop page.
type ShopResult struct {
	Shop        string
	URL         string
	Items       int
	Destination string
	StartTime   time.Time
	EndTime     time.Time
}

// Duration reports how long the scrape took.
func (r *ShopResult) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}
