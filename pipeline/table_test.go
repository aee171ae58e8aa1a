package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aluiziolira/go-scrape-shops/models"
)

func fixedDay() time.Time {
	return time.Date(2024, 3, 1, 18, 45, 0, 0, time.UTC)
}

func TestTableName(t *testing.T) {
	if got := TableName("ebay", fixedDay()); got != "ebay_2024-03-01" {
		t.Fatalf("TableName = %q, want %q", got, "ebay_2024-03-01")
	}
}

func TestTableSave(t *testing.T) {
	tests := []struct {
		format   string
		wantName string
		files    []string
	}{
		{format: "csv", wantName: "ebay_2024-03-01.csv", files: []string{"ebay_2024-03-01.csv"}},
		{format: "", wantName: "ebay_2024-03-01.csv", files: []string{"ebay_2024-03-01.csv"}},
		{format: "json", wantName: "ebay_2024-03-01.jsonl", files: []string{"ebay_2024-03-01.jsonl"}},
		{format: "dual", wantName: "ebay_2024-03-01.csv", files: []string{"ebay_2024-03-01.csv", "ebay_2024-03-01.jsonl"}},
	}

	for _, tt := range tests {
		t.Run("format_"+tt.format, func(t *testing.T) {
			dir := t.TempDir()
			table := NewTable(dir, tt.format, fixedDay)

			name, err := table.Save(sampleItems, "ebay")
			if err != nil {
				t.Fatalf("save: %v", err)
			}
			if name != tt.wantName {
				t.Fatalf("name = %q, want %q", name, tt.wantName)
			}
			for _, f := range tt.files {
				if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
					t.Fatalf("expected %s: %v", f, err)
				}
			}
		})
	}
}

func TestTableSaveEmptyWritesHeaderOnly(t *testing.T) {
	dir := t.TempDir()
	table := NewTable(dir, "csv", fixedDay)

	name, err := table.Save(nil, "barnesandnoble")
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	records := readCSV(t, filepath.Join(dir, name))
	if len(records) != 1 {
		t.Fatalf("records=%d, want header only", len(records))
	}
	if records[0][0] != "url" || records[0][3] != "price" {
		t.Fatalf("unexpected header: %v", records[0])
	}
}

func TestTableSaveOverwritesSameDay(t *testing.T) {
	dir := t.TempDir()
	table := NewTable(dir, "csv", fixedDay)

	if _, err := table.Save(sampleItems, "ebay"); err != nil {
		t.Fatalf("first save: %v", err)
	}
	name, err := table.Save([]models.Item{sampleItems[0]}, "ebay")
	if err != nil {
		t.Fatalf("second save: %v", err)
	}

	if records := readCSV(t, filepath.Join(dir, name)); len(records) != 2 {
		t.Fatalf("records=%d, want 2 after overwrite", len(records))
	}
}

func TestTableSaveUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	table := NewTable(dir, "xml", fixedDay)
	if _, err := table.Save(sampleItems, "ebay"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("no file should be written, found %d", len(entries))
	}
}
