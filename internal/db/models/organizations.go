package models

import (
	"time"

	"github.com/uptrace/bun"
)

// MembershipRole is the role a member holds within one organization,
// independent of their global role.
type MembershipRole string

const (
	MembershipRoleAdministrator MembershipRole = "administrator"
	MembershipRoleRegular       MembershipRole = "regular"
)

// Organization groups members and their posts.
type Organization struct {
	bun.BaseModel `bun:"table:organizations,alias:o"`

	ID          string    `bun:"id,pk,type:uuid"`
	Name        string    `bun:"name,notnull,unique"`
	Description *string   `bun:"description"`
	CreatorID   *string   `bun:"creator_id,type:uuid"` // nulled when the creator account is deleted
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp"`

	Creator     *User                     `bun:"rel:belongs-to,join:creator_id=id"`
	Memberships []*OrganizationMembership `bun:"rel:has-many,join:id=organization_id"`
}

// OrganizationMembership links a user to an organization with a role.
// The pair (member, organization) is the primary key; a user joins an
// organization at most once.
type OrganizationMembership struct {
	bun.BaseModel `bun:"table:organization_memberships,alias:om"`

	MemberID       string         `bun:"member_id,pk,type:uuid"`
	OrganizationID string         `bun:"organization_id,pk,type:uuid"`
	Role           MembershipRole `bun:"role,notnull,default:'regular'"`
	CreatorID      *string        `bun:"creator_id,type:uuid"`
	CreatedAt      time.Time      `bun:"created_at,notnull,default:current_timestamp"`

	Member       *User         `bun:"rel:belongs-to,join:member_id=id"`
	Organization *Organization `bun:"rel:belongs-to,join:organization_id=id"`
}

// IsAdministrator reports whether the membership carries the organization
// administrator role.
func (m *OrganizationMembership) IsAdministrator() bool {
	return m != nil && m.Role == MembershipRoleAdministrator
}
