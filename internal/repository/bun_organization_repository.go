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

// BunOrganizationRepository persists organizations and memberships using Bun.
type BunOrganizationRepository struct {
	db *bun.DB
}

// NewBunOrganizationRepository constructs a repository backed by Bun.
func NewBunOrganizationRepository(db *bun.DB) *BunOrganizationRepository {
	return &BunOrganizationRepository{db: db}
}

// CreateWithMembership inserts the organization and the creator's membership
// atomically. A rollback leaves neither row behind.
func (r *BunOrganizationRepository) CreateWithMembership(ctx context.Context, org *models.Organization, membership *models.OrganizationMembership) error {
	now := time.Now()
	org.CreatedAt = now
	org.UpdatedAt = now
	membership.CreatedAt = now

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewInsert().Model(org).Returning("*").Exec(ctx)
		if err != nil {
			if isDuplicateKeyError(err) {
				return fmt.Errorf("organization named %q: %w", org.Name, ErrDuplicate)
			}
			return fmt.Errorf("insert organization: %w", err)
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			return fmt.Errorf("insert organization %q: %w", org.ID, ErrNoRowReturned)
		}

		res, err = tx.NewInsert().Model(membership).Returning("*").Exec(ctx)
		if err != nil {
			return fmt.Errorf("insert creator membership: %w", err)
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			return fmt.Errorf("insert creator membership: %w", ErrNoRowReturned)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return nil
}

// GetByID fetches an organization by primary key.
func (r *BunOrganizationRepository) GetByID(ctx context.Context, id string) (*models.Organization, error) {
	org := new(models.Organization)
	err := r.db.NewSelect().Model(org).Where("o.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("organization %q: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("query organization: %w", err)
	}
	return org, nil
}

// GetByIDForMember fetches an organization with the membership rows narrowed
// to one member. Memberships is empty when the member does not belong to the
// organization.
func (r *BunOrganizationRepository) GetByIDForMember(ctx context.Context, id, memberID string) (*models.Organization, error) {
	org := new(models.Organization)
	err := r.db.NewSelect().
		Model(org).
		Where("o.id = ?", id).
		Relation("Memberships", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("om.member_id = ?", memberID)
		}).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("organization %q: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("query organization: %w", err)
	}
	return org, nil
}

// AddMembership inserts one membership row.
func (r *BunOrganizationRepository) AddMembership(ctx context.Context, membership *models.OrganizationMembership) error {
	membership.CreatedAt = time.Now()

	res, err := r.db.NewInsert().Model(membership).Returning("*").Exec(ctx)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("membership of %q in %q: %w", membership.MemberID, membership.OrganizationID, ErrDuplicate)
		}
		return fmt.Errorf("insert membership: %w", err)
	}

	if rows, _ := res.RowsAffected(); rows == 0 {
		return fmt.Errorf("insert membership: %w", ErrNoRowReturned)
	}
	return nil
}
