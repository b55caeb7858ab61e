package migrations

import (
	"context"
	"fmt"

	"github.com/Jashan32/talawa-api/internal/db/models"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(up_20250612000001, down_20250612000001)
}

// up_20250612000001 creates the account and organization tables
func up_20250612000001(ctx context.Context, db *bun.DB) error {
	fmt.Print(" [up] creating users table...")
	_, err := db.NewCreateTable().
		Model((*models.User)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create users: %w", err)
	}
	fmt.Println(" OK")

	fmt.Print(" [up] creating organizations table...")
	q := db.NewCreateTable().
		Model((*models.Organization)(nil)).
		IfNotExists()
	// SQLite only supports FK definitions at table creation time.
	if IsSQLite(db) {
		q = q.ForeignKey(`(creator_id) REFERENCES users(id) ON DELETE SET NULL`)
	}
	if _, err = q.Exec(ctx); err != nil {
		return fmt.Errorf("create organizations: %w", err)
	}
	if IsPostgreSQL(db) {
		_, err = db.Exec(`
			ALTER TABLE organizations
			ADD CONSTRAINT fk_organizations_creator_id
			FOREIGN KEY (creator_id) REFERENCES users(id) ON DELETE SET NULL
		`)
		if err != nil {
			return fmt.Errorf("add FK constraint on organizations.creator_id: %w", err)
		}
	}
	fmt.Println(" OK")

	fmt.Print(" [up] creating organization_memberships table...")
	q = db.NewCreateTable().
		Model((*models.OrganizationMembership)(nil)).
		IfNotExists()
	if IsSQLite(db) {
		q = q.ForeignKey(`(member_id) REFERENCES users(id) ON DELETE CASCADE`)
		q = q.ForeignKey(`(organization_id) REFERENCES organizations(id) ON DELETE CASCADE`)
		q = q.ForeignKey(`(creator_id) REFERENCES users(id) ON DELETE SET NULL`)
	}
	if _, err = q.Exec(ctx); err != nil {
		return fmt.Errorf("create organization_memberships: %w", err)
	}
	if IsPostgreSQL(db) {
		_, err = db.Exec(`
			ALTER TABLE organization_memberships
			ADD CONSTRAINT fk_organization_memberships_member_id
			FOREIGN KEY (member_id) REFERENCES users(id) ON DELETE CASCADE
		`)
		if err != nil {
			return fmt.Errorf("add FK constraint on organization_memberships.member_id: %w", err)
		}
		_, err = db.Exec(`
			ALTER TABLE organization_memberships
			ADD CONSTRAINT fk_organization_memberships_organization_id
			FOREIGN KEY (organization_id) REFERENCES organizations(id) ON DELETE CASCADE
		`)
		if err != nil {
			return fmt.Errorf("add FK constraint on organization_memberships.organization_id: %w", err)
		}
		_, err = db.Exec(`
			ALTER TABLE organization_memberships
			ADD CONSTRAINT fk_organization_memberships_creator_id
			FOREIGN KEY (creator_id) REFERENCES users(id) ON DELETE SET NULL
		`)
		if err != nil {
			return fmt.Errorf("add FK constraint on organization_memberships.creator_id: %w", err)
		}
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_organization_memberships_member ON organization_memberships(member_id)`)
	if err != nil {
		return fmt.Errorf("create index on member_id: %w", err)
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_organization_memberships_organization ON organization_memberships(organization_id)`)
	if err != nil {
		return fmt.Errorf("create index on organization_id: %w", err)
	}
	fmt.Println(" OK")

	return nil
}

// down_20250612000001 drops the account and organization tables
func down_20250612000001(ctx context.Context, db *bun.DB) error {
	fmt.Print(" [down] dropping account and organization tables...")

	for _, table := range []string{"organization_memberships", "organizations", "users"} {
		if _, err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
	}

	fmt.Println(" OK")
	return nil
}
