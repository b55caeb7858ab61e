// Package posts implements post publication and retrieval: argument
// validation, caller authentication, organization-scoped authorization,
// attachment object storage, and the transactional row writes.
package posts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Jashan32/talawa-api/internal/auth"
	"github.com/Jashan32/talawa-api/internal/db/models"
	"github.com/Jashan32/talawa-api/internal/gqlerr"
	"github.com/Jashan32/talawa-api/internal/objectstore"
	"github.com/Jashan32/talawa-api/internal/repository"
)

// Service orchestrates post operations for the GraphQL resolvers.
type Service struct {
	users  repository.UserRepository
	orgs   repository.OrganizationRepository
	posts  repository.PostRepository
	store  objectstore.Store
	logger *slog.Logger
}

// NewService constructs a Service.
func NewService(
	users repository.UserRepository,
	orgs repository.OrganizationRepository,
	posts repository.PostRepository,
	store objectstore.Store,
	logger *slog.Logger,
) *Service {
	return &Service{users: users, orgs: orgs, posts: posts, store: store, logger: logger}
}

// AttachmentUpload is one attachment payload submitted with a post.
type AttachmentUpload struct {
	// Data is the base64-encoded payload.
	Data string
	// MimeType is the declared content type, checked against the allow-list.
	MimeType string
}

// CreatePostInput carries the createPost arguments.
type CreatePostInput struct {
	Caption        string
	OrganizationID string
	IsPinned       *bool
	Attachments    []AttachmentUpload
}

// CreatePost publishes a post in an organization.
//
// The stages run strictly in order: validate arguments, establish the
// caller, authorize against the organization, store attachment objects, and
// only then write the post and attachment rows in one transaction. Nothing
// is persisted before validation and authorization pass, and a transaction
// rollback leaves no rows behind (stored objects may be orphaned; rows
// referencing unstored objects can never exist).
func (s *Service) CreatePost(ctx context.Context, input CreatePostInput) (*models.Post, error) {
	validated, excluded, err := validateCreatePost(input)
	if err != nil {
		return nil, err
	}
	for _, issue := range excluded {
		s.logger.WarnContext(ctx, "excluding attachment", "argumentPath", issue.ArgumentPath, "reason", issue.Message)
	}

	principal, ok := auth.PrincipalFrom(ctx)
	if !ok {
		return nil, gqlerr.Unauthenticated()
	}

	// The caller and the organization are independent reads; fetch them in
	// parallel. Absence is checked afterwards so the error precedence stays
	// deterministic: authentication first, then resource existence.
	var (
		caller *models.User
		org    *models.Organization
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.users.GetByID(gctx, principal.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil
			}
			return fmt.Errorf("load caller: %w", err)
		}
		caller = u
		return nil
	})
	g.Go(func() error {
		o, err := s.orgs.GetByIDForMember(gctx, input.OrganizationID, principal.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil
			}
			return fmt.Errorf("load organization: %w", err)
		}
		org = o
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, gqlerr.Internal(ctx, s.logger, "create post: load caller and organization", err)
	}

	if caller == nil {
		return nil, gqlerr.Unauthenticated()
	}
	if org == nil {
		return nil, gqlerr.ResourcesNotFound(gqlerr.Issue{
			ArgumentPath: gqlerr.Path("input", "organizationId"),
		})
	}

	var membership *models.OrganizationMembership
	if len(org.Memberships) > 0 {
		membership = org.Memberships[0]
	}

	// Global administrators act in any organization; everyone else needs a
	// membership in the target organization.
	if !caller.IsAdministrator() && membership == nil {
		return nil, gqlerr.UnauthorizedActionOnResources(gqlerr.Issue{
			ArgumentPath: gqlerr.Path("input", "organizationId"),
		})
	}

	// Restricted arguments require an administrator role, global or within
	// the organization. Every offending argument is reported.
	elevated := caller.IsAdministrator() || membership.IsAdministrator()
	var restricted []gqlerr.Issue
	if input.IsPinned != nil && !elevated {
		restricted = append(restricted, gqlerr.Issue{
			ArgumentPath: gqlerr.Path("input", "isPinned"),
			Message:      "Only administrators can pin posts.",
		})
	}
	if len(restricted) > 0 {
		return nil, gqlerr.UnauthorizedArguments(restricted...)
	}

	post := &models.Post{
		ID:             models.NewID(),
		Caption:        validated.caption,
		CreatorID:      &caller.ID,
		OrganizationID: org.ID,
	}
	if input.IsPinned != nil && *input.IsPinned {
		now := time.Now()
		post.PinnedAt = &now
	}

	// Objects are stored before the transaction opens so committed rows can
	// only reference stored objects. A failure past this point orphans the
	// objects written so far; they are unreferenced and harmless.
	attachments := make([]*models.PostAttachment, 0, len(validated.attachments))
	for _, upload := range validated.attachments {
		name := models.NewID()
		err := s.store.Put(ctx, name, bytes.NewReader(upload.payload), int64(len(upload.payload)), upload.mimeType)
		if err != nil {
			return nil, gqlerr.Internal(ctx, s.logger, "create post: store attachment object", err)
		}
		attachments = append(attachments, &models.PostAttachment{
			ID:        models.NewID(),
			Name:      name,
			MimeType:  upload.mimeType,
			CreatorID: &caller.ID,
		})
	}

	if err := s.posts.CreateWithAttachments(ctx, post, attachments); err != nil {
		return nil, gqlerr.Internal(ctx, s.logger, "create post: persist rows", err)
	}

	post.Attachments = attachments
	post.Organization = org
	post.Creator = caller
	return post, nil
}

// GetPost loads one post for an authenticated caller. Callers must be a
// global administrator or a member of the post's organization.
func (s *Service) GetPost(ctx context.Context, id string) (*models.Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, gqlerr.InvalidArguments(gqlerr.Issue{
			ArgumentPath: gqlerr.Path("input", "id"),
			Message:      "Must be a valid id.",
		})
	}

	principal, ok := auth.PrincipalFrom(ctx)
	if !ok {
		return nil, gqlerr.Unauthenticated()
	}

	var (
		caller *models.User
		post   *models.Post
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.users.GetByID(gctx, principal.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil
			}
			return fmt.Errorf("load caller: %w", err)
		}
		caller = u
		return nil
	})
	g.Go(func() error {
		p, err := s.posts.GetByID(gctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil
			}
			return fmt.Errorf("load post: %w", err)
		}
		post = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, gqlerr.Internal(ctx, s.logger, "get post: load caller and post", err)
	}

	if caller == nil {
		return nil, gqlerr.Unauthenticated()
	}
	if post == nil {
		return nil, gqlerr.ResourcesNotFound(gqlerr.Issue{
			ArgumentPath: gqlerr.Path("input", "id"),
		})
	}

	if !caller.IsAdministrator() {
		org, err := s.orgs.GetByIDForMember(ctx, post.OrganizationID, caller.ID)
		if err != nil {
			return nil, gqlerr.Internal(ctx, s.logger, "get post: load membership", err)
		}
		if len(org.Memberships) == 0 {
			return nil, gqlerr.UnauthorizedActionOnResources(gqlerr.Issue{
				ArgumentPath: gqlerr.Path("input", "id"),
			})
		}
	}

	return post, nil
}
