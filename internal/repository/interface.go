package repository

import (
	"context"

	"github.com/Jashan32/talawa-api/internal/db/models"
)

// UserRepository exposes persistence operations for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// OrganizationRepository exposes persistence operations for organizations
// and their memberships.
type OrganizationRepository interface {
	// CreateWithMembership inserts the organization and the creator's
	// administrator membership in one transaction.
	CreateWithMembership(ctx context.Context, org *models.Organization, membership *models.OrganizationMembership) error

	GetByID(ctx context.Context, id string) (*models.Organization, error)

	// GetByIDForMember loads the organization with its membership rows
	// filtered to the given member, so callers can authorize without a
	// second query. The Memberships slice holds at most one row.
	GetByIDForMember(ctx context.Context, id, memberID string) (*models.Organization, error)

	AddMembership(ctx context.Context, membership *models.OrganizationMembership) error
}

// PostRepository exposes persistence operations for posts and their
// attachment records.
type PostRepository interface {
	// CreateWithAttachments inserts the post and all attachment rows in one
	// transaction. Either everything commits or nothing does.
	CreateWithAttachments(ctx context.Context, post *models.Post, attachments []*models.PostAttachment) error

	// GetByID loads a post with its attachments in insertion order.
	GetByID(ctx context.Context, id string) (*models.Post, error)
}
