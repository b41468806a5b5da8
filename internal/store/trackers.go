package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/cesargomez89/leaktracker/internal/domain"
)

// TrackerRepo records every tracker document the service has parsed.
type TrackerRepo struct {
	db *DB
}

func NewTrackerRepo(db *DB) *TrackerRepo {
	return &TrackerRepo{db: db}
}

func (r *TrackerRepo) Upsert(ctx context.Context, t *domain.TrackerRecord) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO trackers (doc_id, url, artist_name, eras, track_count, last_fetched)
		VALUES (:doc_id, :url, :artist_name, :eras, :track_count, :last_fetched)
		ON CONFLICT(doc_id) DO UPDATE SET
			url = excluded.url,
			artist_name = excluded.artist_name,
			eras = excluded.eras,
			track_count = excluded.track_count,
			last_fetched = excluded.last_fetched
	`, t)
	return err
}

// Get returns the tracker with docID, or nil when unknown.
func (r *TrackerRepo) Get(ctx context.Context, docID string) (*domain.TrackerRecord, error) {
	var t domain.TrackerRecord
	err := r.db.GetContext(ctx, &t, "SELECT * FROM trackers WHERE doc_id = ?", docID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns all trackers, most recently fetched first.
func (r *TrackerRepo) List(ctx context.Context) ([]*domain.TrackerRecord, error) {
	var list []*domain.TrackerRecord
	err := r.db.SelectContext(ctx, &list, "SELECT * FROM trackers ORDER BY last_fetched DESC")
	return list, err
}

func (r *TrackerRepo) Delete(ctx context.Context, docID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM trackers WHERE doc_id = ?", docID)
	return err
}

// Forget removes a tracker together with its fetch history.
func (r *TrackerRepo) Forget(ctx context.Context, docID string) error {
	return r.db.RunInTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM fetch_history WHERE doc_id = ?", docID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, "DELETE FROM trackers WHERE doc_id = ?", docID)
		return err
	})
}
