// Package orgs implements organization creation, joining, and retrieval.
package orgs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Jashan32/talawa-api/internal/auth"
	"github.com/Jashan32/talawa-api/internal/db/models"
	"github.com/Jashan32/talawa-api/internal/gqlerr"
	"github.com/Jashan32/talawa-api/internal/repository"
)

const (
	nameMaxLength        = 256
	descriptionMaxLength = 2048
)

// Service orchestrates organization operations for the GraphQL resolvers.
type Service struct {
	users  repository.UserRepository
	orgs   repository.OrganizationRepository
	logger *slog.Logger
}

// NewService constructs a Service.
func NewService(users repository.UserRepository, orgs repository.OrganizationRepository, logger *slog.Logger) *Service {
	return &Service{users: users, orgs: orgs, logger: logger}
}

// CreateOrganizationInput carries the createOrganization arguments.
type CreateOrganizationInput struct {
	Name        string
	Description *string
}

// CreateOrganization creates an organization and enrolls its creator as an
// organization administrator. Only global administrators may create
// organizations.
func (s *Service) CreateOrganization(ctx context.Context, input CreateOrganizationInput) (*models.Organization, error) {
	var issues []gqlerr.Issue

	name := strings.TrimSpace(input.Name)
	if name == "" {
		issues = append(issues, gqlerr.Issue{
			ArgumentPath: gqlerr.Path("input", "name"),
			Message:      "Must not be empty.",
		})
	} else if utf8.RuneCountInString(name) > nameMaxLength {
		issues = append(issues, gqlerr.Issue{
			ArgumentPath: gqlerr.Path("input", "name"),
			Message:      fmt.Sprintf("Must not exceed %d characters.", nameMaxLength),
		})
	}
	if input.Description != nil && utf8.RuneCountInString(*input.Description) > descriptionMaxLength {
		issues = append(issues, gqlerr.Issue{
			ArgumentPath: gqlerr.Path("input", "description"),
			Message:      fmt.Sprintf("Must not exceed %d characters.", descriptionMaxLength),
		})
	}
	if len(issues) > 0 {
		return nil, gqlerr.InvalidArguments(issues...)
	}

	caller, err := s.authenticate(ctx)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdministrator() {
		return nil, gqlerr.UnauthorizedAction()
	}

	org := &models.Organization{
		ID:          models.NewID(),
		Name:        name,
		Description: input.Description,
		CreatorID:   &caller.ID,
	}
	membership := &models.OrganizationMembership{
		MemberID:       caller.ID,
		OrganizationID: org.ID,
		Role:           models.MembershipRoleAdministrator,
		CreatorID:      &caller.ID,
	}
	if err := s.orgs.CreateWithMembership(ctx, org, membership); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, gqlerr.InvalidArguments(gqlerr.Issue{
				ArgumentPath: gqlerr.Path("input", "name"),
				Message:      "An organization with this name already exists.",
			})
		}
		return nil, gqlerr.Internal(ctx, s.logger, "create organization: persist rows", err)
	}

	org.Creator = caller
	org.Memberships = []*models.OrganizationMembership{membership}
	return org, nil
}

// JoinOrganization enrolls the caller in an organization with the regular
// membership role.
func (s *Service) JoinOrganization(ctx context.Context, organizationID string) (*models.OrganizationMembership, error) {
	if _, err := uuid.Parse(organizationID); err != nil {
		return nil, gqlerr.InvalidArguments(gqlerr.Issue{
			ArgumentPath: gqlerr.Path("input", "organizationId"),
			Message:      "Must be a valid id.",
		})
	}

	principal, ok := auth.PrincipalFrom(ctx)
	if !ok {
		return nil, gqlerr.Unauthenticated()
	}

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
		o, err := s.orgs.GetByID(gctx, organizationID)
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
		return nil, gqlerr.Internal(ctx, s.logger, "join organization: load caller and organization", err)
	}

	if caller == nil {
		return nil, gqlerr.Unauthenticated()
	}
	if org == nil {
		return nil, gqlerr.ResourcesNotFound(gqlerr.Issue{
			ArgumentPath: gqlerr.Path("input", "organizationId"),
		})
	}

	membership := &models.OrganizationMembership{
		MemberID:       caller.ID,
		OrganizationID: org.ID,
		Role:           models.MembershipRoleRegular,
		CreatorID:      &caller.ID,
	}
	if err := s.orgs.AddMembership(ctx, membership); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, gqlerr.InvalidArguments(gqlerr.Issue{
				ArgumentPath: gqlerr.Path("input", "organizationId"),
				Message:      "You are already a member of this organization.",
			})
		}
		return nil, gqlerr.Internal(ctx, s.logger, "join organization: persist membership", err)
	}

	membership.Member = caller
	membership.Organization = org
	return membership, nil
}

// GetOrganization loads one organization for an authenticated caller.
// Organizations are discoverable by any account so that joining is possible.
func (s *Service) GetOrganization(ctx context.Context, id string) (*models.Organization, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, gqlerr.InvalidArguments(gqlerr.Issue{
			ArgumentPath: gqlerr.Path("input", "id"),
			Message:      "Must be a valid id.",
		})
	}

	if _, err := s.authenticate(ctx); err != nil {
		return nil, err
	}

	org, err := s.orgs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, gqlerr.ResourcesNotFound(gqlerr.Issue{
				ArgumentPath: gqlerr.Path("input", "id"),
			})
		}
		return nil, gqlerr.Internal(ctx, s.logger, "get organization: load organization", err)
	}
	return org, nil
}

// authenticate resolves the caller's account or reports unauthenticated.
func (s *Service) authenticate(ctx context.Context) (*models.User, error) {
	principal, ok := auth.PrincipalFrom(ctx)
	if !ok {
		return nil, gqlerr.Unauthenticated()
	}
	caller, err := s.users.GetByID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, gqlerr.Unauthenticated()
		}
		return nil, gqlerr.Internal(ctx, s.logger, "resolve caller", err)
	}
	return caller, nil
}
