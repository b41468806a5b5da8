package store

import (
	"context"

	"github.com/cesargomez89/leaktracker/internal/constants"
	"github.com/cesargomez89/leaktracker/internal/domain"
)

// HistoryRepo stores one row per tracker fetch attempt.
type HistoryRepo struct {
	db *DB
}

func NewHistoryRepo(db *DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

func (r *HistoryRepo) Record(ctx context.Context, f *domain.FetchRecord) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO fetch_history (id, doc_id, sheet_type, status, error, track_count, duration_ms, created_at)
		VALUES (:id, :doc_id, :sheet_type, :status, :error, :track_count, :duration_ms, :created_at)
	`, f)
	return err
}

// List returns the latest fetches for docID, newest first.
func (r *HistoryRepo) List(ctx context.Context, docID string, limit int) ([]*domain.FetchRecord, error) {
	if limit <= 0 {
		limit = constants.DefaultHistoryLimit
	}
	var list []*domain.FetchRecord
	err := r.db.SelectContext(ctx, &list, `
		SELECT * FROM fetch_history WHERE doc_id = ?
		ORDER BY created_at DESC, id DESC LIMIT ?
	`, docID, limit)
	return list, err
}

func (r *HistoryRepo) DeleteByDoc(ctx context.Context, docID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM fetch_history WHERE doc_id = ?", docID)
	return err
}
