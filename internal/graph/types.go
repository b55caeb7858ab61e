package graph

import (
	"context"
	"errors"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/Jashan32/talawa-api/internal/db/models"
	"github.com/Jashan32/talawa-api/internal/gqlerr"
	"github.com/Jashan32/talawa-api/internal/repository"
)

// UserResolver projects a user row.
type UserResolver struct {
	user *models.User
}

func (r *UserResolver) ID() graphql.ID       { return graphql.ID(r.user.ID) }
func (r *UserResolver) Name() string         { return r.user.Name }
func (r *UserResolver) EmailAddress() string { return r.user.EmailAddress }
func (r *UserResolver) Role() string         { return string(r.user.Role) }
func (r *UserResolver) CreatedAt() DateTime  { return DateTime{Time: r.user.CreatedAt} }

// AuthPayloadResolver projects a token issued by signUp or signIn.
type AuthPayloadResolver struct {
	token string
	user  *models.User
}

func (r *AuthPayloadResolver) AuthenticationToken() string { return r.token }
func (r *AuthPayloadResolver) User() *UserResolver         { return &UserResolver{user: r.user} }

// OrganizationResolver projects an organization row.
type OrganizationResolver struct {
	root *Resolver
	org  *models.Organization
}

func (r *OrganizationResolver) ID() graphql.ID       { return graphql.ID(r.org.ID) }
func (r *OrganizationResolver) Name() string         { return r.org.Name }
func (r *OrganizationResolver) Description() *string { return r.org.Description }
func (r *OrganizationResolver) CreatedAt() DateTime  { return DateTime{Time: r.org.CreatedAt} }

// Creator resolves lazily: the row arrives preloaded from some paths and
// bare from others. A missing account resolves to null.
func (r *OrganizationResolver) Creator(ctx context.Context) (*UserResolver, error) {
	if r.org.Creator != nil {
		return &UserResolver{user: r.org.Creator}, nil
	}
	if r.org.CreatorID == nil {
		return nil, nil
	}
	user, err := r.root.accounts.GetUser(ctx, *r.org.CreatorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, gqlerr.Internal(ctx, r.root.logger, "resolve organization creator", err)
	}
	return &UserResolver{user: user}, nil
}

// MembershipResolver projects an organization membership row.
type MembershipResolver struct {
	root       *Resolver
	membership *models.OrganizationMembership
}

func (r *MembershipResolver) MemberID() graphql.ID { return graphql.ID(r.membership.MemberID) }
func (r *MembershipResolver) OrganizationID() graphql.ID {
	return graphql.ID(r.membership.OrganizationID)
}
func (r *MembershipResolver) Role() string        { return string(r.membership.Role) }
func (r *MembershipResolver) CreatedAt() DateTime { return DateTime{Time: r.membership.CreatedAt} }

func (r *MembershipResolver) Member() *UserResolver {
	return &UserResolver{user: r.membership.Member}
}

func (r *MembershipResolver) Organization() *OrganizationResolver {
	return &OrganizationResolver{root: r.root, org: r.membership.Organization}
}

// PostResolver projects a post row with its attachments.
type PostResolver struct {
	root *Resolver
	post *models.Post
}

func (r *PostResolver) ID() graphql.ID      { return graphql.ID(r.post.ID) }
func (r *PostResolver) Caption() string     { return r.post.Caption }
func (r *PostResolver) CreatedAt() DateTime { return DateTime{Time: r.post.CreatedAt} }

func (r *PostResolver) PinnedAt() *DateTime {
	if r.post.PinnedAt == nil {
		return nil
	}
	return &DateTime{Time: *r.post.PinnedAt}
}

func (r *PostResolver) Creator() *UserResolver {
	if r.post.Creator == nil {
		return nil
	}
	return &UserResolver{user: r.post.Creator}
}

func (r *PostResolver) Organization() *OrganizationResolver {
	return &OrganizationResolver{root: r.root, org: r.post.Organization}
}

func (r *PostResolver) Attachments() []*AttachmentResolver {
	out := make([]*AttachmentResolver, len(r.post.Attachments))
	for i, attachment := range r.post.Attachments {
		out[i] = &AttachmentResolver{root: r.root, attachment: attachment}
	}
	return out
}

// ImageURL is the URL of the first image attachment in insertion order, or
// null when the post has none.
func (r *PostResolver) ImageURL() *string {
	for _, attachment := range r.post.Attachments {
		if attachment.IsImage() {
			url := r.root.objectURL(attachment.Name)
			return &url
		}
	}
	return nil
}

// AttachmentResolver projects a post attachment row.
type AttachmentResolver struct {
	root       *Resolver
	attachment *models.PostAttachment
}

func (r *AttachmentResolver) ID() graphql.ID      { return graphql.ID(r.attachment.ID) }
func (r *AttachmentResolver) Name() string        { return r.attachment.Name }
func (r *AttachmentResolver) MimeType() string    { return r.attachment.MimeType }
func (r *AttachmentResolver) URL() string         { return r.root.objectURL(r.attachment.Name) }
func (r *AttachmentResolver) CreatedAt() DateTime { return DateTime{Time: r.attachment.CreatedAt} }
