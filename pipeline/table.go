// Package pipeline persists scraped items as dated per-shop tables.
package pipeline

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/aluiziolira/go-scrape-shops/models"
)

// TableName is the base name of a shop's table for day, without extension.
func TableName(shop string, day time.Time) string {
	return fmt.Sprintf("%s_%s", shop, day.Format(time.DateOnly))
}

// Table saves one shop's items per call, one file per shop and day.
type Table struct {
	dir    string
	format string
	now    func() time.Time
}

// NewTable writes into dir using format (csv, json or dual). A nil now
// defaults to time.Now.
func NewTable(dir, format string, now func() time.Time) *Table {
	if now == nil {
		now = time.Now
	}
	if dir == "" {
		dir = "."
	}
	return &Table{dir: dir, format: format, now: now}
}

// Save writes items to today's table for shop, replacing any earlier
// same-day table, and returns the file name written. For dual output the
// CSV name is returned.
func (t *Table) Save(items []models.Item, shop string) (string, error) {
	base := TableName(shop, t.now())
	name, writer, err := t.open(base)
	if err != nil {
		return "", err
	}

	if err := writer.Write(items); err != nil {
		writer.Close()
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	if err := writer.Validate(); err != nil {
		return "", fmt.Errorf("validate %s: %w", name, err)
	}
	return name, nil
}

func (t *Table) open(base string) (string, OutputWriter, error) {
	csvName := base + ".csv"
	jsonName := base + ".jsonl"

	switch t.format {
	case "", "csv":
		w, err := NewCSVWriter(filepath.Join(t.dir, csvName))
		return csvName, w, err
	case "json":
		w, err := NewJSONWriter(filepath.Join(t.dir, jsonName))
		return jsonName, w, err
	case "dual":
		w, err := NewDualWriter(filepath.Join(t.dir, csvName), filepath.Join(t.dir, jsonName))
		return csvName, w, err
	default:
		return "", nil, fmt.Errorf("unsupported format: %s", t.format)
	}
}
