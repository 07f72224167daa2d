package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/secdigest/secdigest/app/feed"
)

const lastRefreshKey = "last_refresh_at"

var _ ItemRepository = (*SQLiteItemRepository)(nil)

type SQLiteItemRepository struct {
	db *DB
}

func NewItemRepository(db *DB) *SQLiteItemRepository {
	return &SQLiteItemRepository{db: db}
}

// ReplaceItems swaps the stored digest for the given assembly in one
// transaction. Position preserves the assembler's ordering.
func (r *SQLiteItemRepository) ReplaceItems(items []feed.Item) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM digest_items`); err != nil {
		return fmt.Errorf("failed to clear digest: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO digest_items (
			position, title, link, content, published_at,
			source, source_url, category, cve_id, sources
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for position, item := range items {
		sources, err := json.Marshal(item.Sources)
		if err != nil {
			return fmt.Errorf("failed to encode sources: %w", err)
		}

		_, err = stmt.Exec(position, item.Title, item.Link, item.Content,
			item.PublishedAt.UTC(), item.Source, item.SourceURL,
			string(item.Category), item.CVEID, string(sources))
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit digest: %w", err)
	}

	return nil
}

// GetItems returns digest items in stored order, optionally filtered by
// category. A non-positive limit returns everything.
func (r *SQLiteItemRepository) GetItems(category string, limit int) ([]Item, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.Query(`
		SELECT id, position, title, link, content, published_at,
		       source, source_url, category, cve_id, sources, created_at
		FROM digest_items
		WHERE ($1 = '' OR category = $1)
		ORDER BY position ASC
		LIMIT $2
	`, category, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

func (r *SQLiteItemRepository) GetItemByLink(link string) (*Item, error) {
	row := r.db.QueryRow(`
		SELECT id, position, title, link, content, published_at,
		       source, source_url, category, cve_id, sources, created_at
		FROM digest_items
		WHERE link = $1
		LIMIT 1
	`, link)

	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item by link: %w", err)
	}

	return item, nil
}

func (r *SQLiteItemRepository) GetItemCount() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM digest_items`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get item count: %w", err)
	}
	return count, nil
}

func (r *SQLiteItemRepository) GetCategoryCounts() (map[string]int, error) {
	rows, err := r.db.Query(`
		SELECT category, COUNT(*)
		FROM digest_items
		GROUP BY category
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get category counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		counts[category] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category counts: %w", err)
	}

	return counts, nil
}

func (r *SQLiteItemRepository) GetLastRefreshAt() (*time.Time, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM digest_meta WHERE key = $1`, lastRefreshKey).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last refresh time: %w", err)
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("failed to parse last refresh time: %w", err)
	}

	return &t, nil
}

func (r *SQLiteItemRepository) SetLastRefreshAt(t time.Time) error {
	_, err := r.db.Exec(`
		INSERT INTO digest_meta (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`, lastRefreshKey, t.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to set last refresh time: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*Item, error) {
	var item Item
	var sources string

	err := row.Scan(&item.ID, &item.Position, &item.Title, &item.Link,
		&item.Content, &item.PublishedAt, &item.Source, &item.SourceURL,
		&item.Category, &item.CVEID, &sources, &item.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(sources), &item.Sources); err != nil {
		return nil, fmt.Errorf("failed to decode sources: %w", err)
	}

	return &item, nil
}

func scanItems(rows *sql.Rows) ([]Item, error) {
	var items []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item rows: %w", err)
	}

	return items, nil
}
