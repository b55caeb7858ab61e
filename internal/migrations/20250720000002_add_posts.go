package migrations

import (
	"context"
	"fmt"

	"github.com/Jashan32/talawa-api/internal/db/models"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(up_20250720000002, down_20250720000002)
}

// up_20250720000002 creates the posts and post_attachments tables
func up_20250720000002(ctx context.Context, db *bun.DB) error {
	fmt.Print(" [up] creating posts table...")
	q := db.NewCreateTable().
		Model((*models.Post)(nil)).
		IfNotExists()
	if IsSQLite(db) {
		q = q.ForeignKey(`(creator_id) REFERENCES users(id) ON DELETE SET NULL`)
		q = q.ForeignKey(`(organization_id) REFERENCES organizations(id) ON DELETE CASCADE`)
	}
	if _, err := q.Exec(ctx); err != nil {
		return fmt.Errorf("create posts: %w", err)
	}
	if IsPostgreSQL(db) {
		_, err := db.Exec(`
			ALTER TABLE posts
			ADD CONSTRAINT fk_posts_creator_id
			FOREIGN KEY (creator_id) REFERENCES users(id) ON DELETE SET NULL
		`)
		if err != nil {
			return fmt.Errorf("add FK constraint on posts.creator_id: %w", err)
		}
		_, err = db.Exec(`
			ALTER TABLE posts
			ADD CONSTRAINT fk_posts_organization_id
			FOREIGN KEY (organization_id) REFERENCES organizations(id) ON DELETE CASCADE
		`)
		if err != nil {
			return fmt.Errorf("add FK constraint on posts.organization_id: %w", err)
		}
	}

	// Organization feeds list newest posts first.
	_, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_posts_organization_created ON posts(organization_id, created_at)`)
	if err != nil {
		return fmt.Errorf("create index on (organization_id, created_at): %w", err)
	}
	fmt.Println(" OK")

	fmt.Print(" [up] creating post_attachments table...")
	q = db.NewCreateTable().
		Model((*models.PostAttachment)(nil)).
		IfNotExists()
	if IsSQLite(db) {
		q = q.ForeignKey(`(post_id) REFERENCES posts(id) ON DELETE CASCADE`)
		q = q.ForeignKey(`(creator_id) REFERENCES users(id) ON DELETE SET NULL`)
	}
	if _, err := q.Exec(ctx); err != nil {
		return fmt.Errorf("create post_attachments: %w", err)
	}
	if IsPostgreSQL(db) {
		_, err := db.Exec(`
			ALTER TABLE post_attachments
			ADD CONSTRAINT fk_post_attachments_post_id
			FOREIGN KEY (post_id) REFERENCES posts(id) ON DELETE CASCADE
		`)
		if err != nil {
			return fmt.Errorf("add FK constraint on post_attachments.post_id: %w", err)
		}
		_, err = db.Exec(`
			ALTER TABLE post_attachments
			ADD CONSTRAINT fk_post_attachments_creator_id
			FOREIGN KEY (creator_id) REFERENCES users(id) ON DELETE SET NULL
		`)
		if err != nil {
			return fmt.Errorf("add FK constraint on post_attachments.creator_id: %w", err)
		}
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_post_attachments_post ON post_attachments(post_id)`)
	if err != nil {
		return fmt.Errorf("create index on post_id: %w", err)
	}
	fmt.Println(" OK")

	return nil
}

// down_20250720000002 drops the posts and post_attachments tables
func down_20250720000002(ctx context.Context, db *bun.DB) error {
	fmt.Print(" [down] dropping post tables...")

	for _, table := range []string{"post_attachments", "posts"} {
		if _, err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
	}

	fmt.Println(" OK")
	return nil
}
