// Package testutil provides shared fixtures for package tests: an in-memory
// migrated database and seed helpers for the core entities.
package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	"github.com/Jashan32/talawa-api/internal/db/bunx"
	"github.com/Jashan32/talawa-api/internal/db/models"
	"github.com/Jashan32/talawa-api/internal/migrations"
)

// NewDB opens an in-memory SQLite database with the full schema applied.
// The handle is closed when the test finishes.
func NewDB(t *testing.T) *bun.DB {
	t.Helper()
	ctx := context.Background()

	db, err := bunx.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = bunx.Close(db) })

	migrator := migrate.NewMigrator(db, migrations.Migrations)
	require.NoError(t, migrator.Init(ctx))
	_, err = migrator.Migrate(ctx)
	require.NoError(t, err)

	return db
}

// NewID returns a fresh UUIDv7 string.
func NewID(t *testing.T) string {
	t.Helper()
	id, err := uuid.NewV7()
	require.NoError(t, err)
	return id.String()
}

// SeedUser inserts a user with the given role and returns it.
func SeedUser(t *testing.T, db *bun.DB, role models.UserRole) *models.User {
	t.Helper()
	id := NewID(t)
	user := &models.User{
		ID:           id,
		Name:         "user " + id[:8],
		EmailAddress: id + "@example.com",
		PasswordHash: "x",
		Role:         role,
	}
	_, err := db.NewInsert().Model(user).Exec(context.Background())
	require.NoError(t, err)
	return user
}

// SeedOrganization inserts an organization created by the given user.
func SeedOrganization(t *testing.T, db *bun.DB, creator *models.User) *models.Organization {
	t.Helper()
	id := NewID(t)
	org := &models.Organization{
		ID:        id,
		Name:      "org " + id,
		CreatorID: &creator.ID,
	}
	_, err := db.NewInsert().Model(org).Exec(context.Background())
	require.NoError(t, err)
	return org
}

// SeedMembership links a user to an organization with the given role.
func SeedMembership(t *testing.T, db *bun.DB, user *models.User, org *models.Organization, role models.MembershipRole) *models.OrganizationMembership {
	t.Helper()
	m := &models.OrganizationMembership{
		MemberID:       user.ID,
		OrganizationID: org.ID,
		Role:           role,
		CreatorID:      org.CreatorID,
	}
	_, err := db.NewInsert().Model(m).Exec(context.Background())
	require.NoError(t, err)
	return m
}
