package database

import (
	"database/sql"
	"fmt"
)

var _ SummaryRepository = (*SQLiteSummaryRepository)(nil)

type SQLiteSummaryRepository struct {
	db *DB
}

func NewSummaryRepository(db *DB) *SQLiteSummaryRepository {
	return &SQLiteSummaryRepository{db: db}
}

func (r *SQLiteSummaryRepository) GetSummary(link string) (*Summary, error) {
	var summary Summary
	err := r.db.QueryRow(`
		SELECT link, model, summary, created_at
		FROM summaries
		WHERE link = $1
	`, link).Scan(&summary.Link, &summary.Model, &summary.Summary, &summary.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}

	return &summary, nil
}

func (r *SQLiteSummaryRepository) UpsertSummary(link, model, text string) error {
	_, err := r.db.Exec(`
		INSERT INTO summaries (link, model, summary) VALUES ($1, $2, $3)
		ON CONFLICT (link) DO UPDATE SET
			model = excluded.model,
			summary = excluded.summary,
			created_at = CURRENT_TIMESTAMP
	`, link, model, text)
	if err != nil {
		return fmt.Errorf("failed to upsert summary: %w", err)
	}
	return nil
}

// PruneOrphans drops cached summaries whose item is no longer part of the
// digest. Returns the number of rows removed.
func (r *SQLiteSummaryRepository) PruneOrphans() (int64, error) {
	result, err := r.db.Exec(`
		DELETE FROM summaries
		WHERE link NOT IN (SELECT link FROM digest_items)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prune summaries: %w", err)
	}

	pruned, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned summaries: %w", err)
	}

	return pruned, nil
}
