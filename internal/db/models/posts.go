package models

import (
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// Post is a message published within an organization.
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:p"`

	ID             string     `bun:"id,pk,type:uuid"`
	Caption        string     `bun:"caption,notnull"`
	CreatorID      *string    `bun:"creator_id,type:uuid"`
	OrganizationID string     `bun:"organization_id,notnull,type:uuid"`
	PinnedAt       *time.Time `bun:"pinned_at"` // set only by organization or global administrators
	CreatedAt      time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt      time.Time  `bun:"updated_at,notnull,default:current_timestamp"`

	Creator      *User             `bun:"rel:belongs-to,join:creator_id=id"`
	Organization *Organization     `bun:"rel:belongs-to,join:organization_id=id"`
	Attachments  []*PostAttachment `bun:"rel:has-many,join:id=post_id"`
}

// PostAttachment records one stored binary belonging to a post. Name is the
// object storage key; the attachment row is only written after the object
// itself has been stored.
type PostAttachment struct {
	bun.BaseModel `bun:"table:post_attachments,alias:pa"`

	ID        string    `bun:"id,pk,type:uuid"`
	PostID    string    `bun:"post_id,notnull,type:uuid"`
	Name      string    `bun:"name,notnull,unique"`
	MimeType  string    `bun:"mime_type,notnull"`
	CreatorID *string   `bun:"creator_id,type:uuid"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// IsImage reports whether the attachment holds an image MIME type.
func (a *PostAttachment) IsImage() bool {
	return a != nil && strings.HasPrefix(a.MimeType, "image/")
}
