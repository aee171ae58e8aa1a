// Package storage mirrors saved shop tables into a SQLite database so
// several days of runs can be queried together.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aluiziolira/go-scrape-shops/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS items (
	"shop"     TEXT NOT NULL,
	"run_date" TEXT NOT NULL,
	"position" INTEGER NOT NULL,
	"url"      TEXT NOT NULL,
	"img_url"  TEXT NOT NULL,
	"name"     TEXT NOT NULL,
	"price"    TEXT NOT NULL,
	PRIMARY KEY ("shop", "run_date", "position")
);`

// Store wraps the database connection.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create items table: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ReplaceDay swaps the shop's rows for day with items, keeping their order.
func (s *Store) ReplaceDay(ctx context.Context, shop string, day time.Time, items []models.Item) error {
	runDate := day.Format(time.DateOnly)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE shop = ? AND run_date = ?`, shop, runDate); err != nil {
		return fmt.Errorf("delete previous rows: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO items (shop, run_date, position, url, img_url, name, price) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, item := range items {
		if _, err := stmt.ExecContext(ctx, shop, runDate, i, item.URL, item.ImageURL, item.Name, item.Price); err != nil {
			return fmt.Errorf("insert item %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Items returns the shop's rows for day in their original order.
func (s *Store) Items(ctx context.Context, shop string, day time.Time) ([]models.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT url, img_url, name, price FROM items WHERE shop = ? AND run_date = ? ORDER BY position`,
		shop, day.Format(time.DateOnly))
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.URL, &item.ImageURL, &item.Name, &item.Price); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
