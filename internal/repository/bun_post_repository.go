package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Jashan32/talawa-api/internal/db/models"
	"github.com/uptrace/bun"
)

// BunPostRepository persists posts and attachment records using Bun.
type BunPostRepository struct {
	db *bun.DB
}

// NewBunPostRepository constructs a repository backed by Bun.
func NewBunPostRepository(db *bun.DB) *BunPostRepository {
	return &BunPostRepository{db: db}
}

// CreateWithAttachments inserts the post and its attachment rows in a single
// transaction. Attachment rows reference objects that callers have already
// stored; no row is written unless every insert succeeds.
func (r *BunPostRepository) CreateWithAttachments(ctx context.Context, post *models.Post, attachments []*models.PostAttachment) error {
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	for _, a := range attachments {
		a.PostID = post.ID
		a.CreatedAt = now
	}

	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewInsert().Model(post).Returning("*").Exec(ctx)
		if err != nil {
			return fmt.Errorf("insert post: %w", err)
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			return fmt.Errorf("insert post %q: %w", post.ID, ErrNoRowReturned)
		}

		if len(attachments) == 0 {
			return nil
		}

		res, err = tx.NewInsert().Model(&attachments).Returning("*").Exec(ctx)
		if err != nil {
			return fmt.Errorf("insert attachments: %w", err)
		}
		if rows, _ := res.RowsAffected(); rows != int64(len(attachments)) {
			return fmt.Errorf("insert attachments: wrote %d of %d rows: %w", rows, len(attachments), ErrNoRowReturned)
		}
		return nil
	})
}

// GetByID fetches a post with its creator, organization, and attachments.
// Attachment IDs are time-sortable, so ordering by ID yields insertion
// order.
func (r *BunPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	post := new(models.Post)
	err := r.db.NewSelect().
		Model(post).
		Where("p.id = ?", id).
		Relation("Creator").
		Relation("Organization").
		Relation("Attachments", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("pa.id ASC")
		}).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("post %q: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("query post: %w", err)
	}
	return post, nil
}
