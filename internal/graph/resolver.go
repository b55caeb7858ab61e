package graph

import (
	"context"
	"log/slog"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/Jashan32/talawa-api/internal/services/accounts"
	"github.com/Jashan32/talawa-api/internal/services/orgs"
	"github.com/Jashan32/talawa-api/internal/services/posts"
)

// Resolver is the schema root. Field methods delegate to the services and
// wrap their results in type resolvers.
type Resolver struct {
	accounts *accounts.Service
	orgs     *orgs.Service
	posts    *posts.Service
	baseURL  string
	logger   *slog.Logger
}

// NewResolver constructs the root resolver. baseURL is the externally
// reachable API address used to build object URLs.
func NewResolver(
	accountsSvc *accounts.Service,
	orgsSvc *orgs.Service,
	postsSvc *posts.Service,
	baseURL string,
	logger *slog.Logger,
) *Resolver {
	return &Resolver{
		accounts: accountsSvc,
		orgs:     orgsSvc,
		posts:    postsSvc,
		baseURL:  baseURL,
		logger:   logger,
	}
}

// objectURL addresses one stored attachment object over HTTP.
func (r *Resolver) objectURL(name string) string {
	return r.baseURL + "/objects/" + name
}

// SignUpInput mirrors MutationSignUpInput.
type SignUpInput struct {
	Name         string
	EmailAddress string
	Password     string
	CaptchaToken *string
}

// SignInInput mirrors MutationSignInInput.
type SignInInput struct {
	EmailAddress string
	Password     string
}

// CreateOrganizationInput mirrors MutationCreateOrganizationInput.
type CreateOrganizationInput struct {
	Name        string
	Description *string
}

// JoinOrganizationInput mirrors MutationJoinOrganizationInput.
type JoinOrganizationInput struct {
	OrganizationID graphql.ID
}

// CreatePostAttachmentInput mirrors MutationCreatePostAttachmentInput.
type CreatePostAttachmentInput struct {
	Data     string
	MimeType string
}

// CreatePostInput mirrors MutationCreatePostInput.
type CreatePostInput struct {
	Caption        string
	OrganizationID graphql.ID
	IsPinned       *bool
	Attachments    *[]CreatePostAttachmentInput
}

// QueryPostInput mirrors the post query input.
type QueryPostInput struct {
	ID graphql.ID
}

// QueryOrganizationInput mirrors the organization query input.
type QueryOrganizationInput struct {
	ID graphql.ID
}

func (r *Resolver) Me(ctx context.Context) (*UserResolver, error) {
	user, err := r.accounts.Me(ctx)
	if err != nil {
		return nil, err
	}
	return &UserResolver{user: user}, nil
}

func (r *Resolver) Post(ctx context.Context, args struct{ Input QueryPostInput }) (*PostResolver, error) {
	post, err := r.posts.GetPost(ctx, string(args.Input.ID))
	if err != nil {
		return nil, err
	}
	return &PostResolver{root: r, post: post}, nil
}

func (r *Resolver) Organization(ctx context.Context, args struct{ Input QueryOrganizationInput }) (*OrganizationResolver, error) {
	org, err := r.orgs.GetOrganization(ctx, string(args.Input.ID))
	if err != nil {
		return nil, err
	}
	return &OrganizationResolver{root: r, org: org}, nil
}

func (r *Resolver) SignUp(ctx context.Context, args struct{ Input SignUpInput }) (*AuthPayloadResolver, error) {
	result, err := r.accounts.SignUp(ctx, accounts.SignUpInput{
		Name:         args.Input.Name,
		EmailAddress: args.Input.EmailAddress,
		Password:     args.Input.Password,
		CaptchaToken: args.Input.CaptchaToken,
	})
	if err != nil {
		return nil, err
	}
	return &AuthPayloadResolver{token: result.Token, user: result.User}, nil
}

func (r *Resolver) SignIn(ctx context.Context, args struct{ Input SignInInput }) (*AuthPayloadResolver, error) {
	result, err := r.accounts.SignIn(ctx, accounts.SignInInput{
		EmailAddress: args.Input.EmailAddress,
		Password:     args.Input.Password,
	})
	if err != nil {
		return nil, err
	}
	return &AuthPayloadResolver{token: result.Token, user: result.User}, nil
}

func (r *Resolver) CreateOrganization(ctx context.Context, args struct{ Input CreateOrganizationInput }) (*OrganizationResolver, error) {
	org, err := r.orgs.CreateOrganization(ctx, orgs.CreateOrganizationInput{
		Name:        args.Input.Name,
		Description: args.Input.Description,
	})
	if err != nil {
		return nil, err
	}
	return &OrganizationResolver{root: r, org: org}, nil
}

func (r *Resolver) JoinOrganization(ctx context.Context, args struct{ Input JoinOrganizationInput }) (*MembershipResolver, error) {
	membership, err := r.orgs.JoinOrganization(ctx, string(args.Input.OrganizationID))
	if err != nil {
		return nil, err
	}
	return &MembershipResolver{root: r, membership: membership}, nil
}

func (r *Resolver) CreatePost(ctx context.Context, args struct{ Input CreatePostInput }) (*PostResolver, error) {
	input := posts.CreatePostInput{
		Caption:        args.Input.Caption,
		OrganizationID: string(args.Input.OrganizationID),
		IsPinned:       args.Input.IsPinned,
	}
	if args.Input.Attachments != nil {
		for _, upload := range *args.Input.Attachments {
			input.Attachments = append(input.Attachments, posts.AttachmentUpload{
				Data:     upload.Data,
				MimeType: upload.MimeType,
			})
		}
	}

	post, err := r.posts.CreatePost(ctx, input)
	if err != nil {
		return nil, err
	}
	return &PostResolver{root: r, post: post}, nil
}
