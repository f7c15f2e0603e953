package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrDocumentNotFound = errors.New("document not found")

// DocumentRepository abstracts persistence of the single state document.
type DocumentRepository interface {
	Get(ctx context.Context) (json.RawMessage, error)
	Replace(ctx context.Context, body json.RawMessage) error
}

// DocumentRepo is a sqlx implementation of DocumentRepository.
type DocumentRepo struct {
	db *sqlx.DB
}

// NewDocumentRepo constructs a DocumentRepo.
func NewDocumentRepo(db *sqlx.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// Get returns the stored document body.
func (r *DocumentRepo) Get(ctx context.Context) (json.RawMessage, error) {
	var body json.RawMessage
	err := r.db.GetContext(ctx, &body, `SELECT body FROM document WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDocumentNotFound
	}
	return body, err
}

// Replace stores body as the new document, wholesale.
func (r *DocumentRepo) Replace(ctx context.Context, body json.RawMessage) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO document (id, body, updated_at) VALUES (1, $1, NOW())
        ON CONFLICT (id) DO UPDATE SET body = EXCLUDED.body, updated_at = NOW()`, body)
	return err
}
