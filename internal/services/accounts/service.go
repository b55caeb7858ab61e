// Package accounts implements registration, sign-in, and the current-user
// lookup.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/Jashan32/talawa-api/internal/auth"
	"github.com/Jashan32/talawa-api/internal/db/models"
	"github.com/Jashan32/talawa-api/internal/gqlerr"
	"github.com/Jashan32/talawa-api/internal/recaptcha"
	"github.com/Jashan32/talawa-api/internal/repository"
)

const (
	nameMaxLength     = 256
	passwordMinLength = 8
	// bcrypt ignores everything past 72 bytes; cap well below that.
	passwordMaxLength = 64
)

// Service orchestrates account operations for the GraphQL resolvers.
type Service struct {
	users   repository.UserRepository
	tokens  *auth.TokenManager
	captcha recaptcha.Verifier
	logger  *slog.Logger
}

// NewService constructs a Service. Captcha verification is off until
// WithCaptcha is called.
func NewService(users repository.UserRepository, tokens *auth.TokenManager, logger *slog.Logger) *Service {
	return &Service{users: users, tokens: tokens, logger: logger}
}

// WithCaptcha makes SignUp require a verified captcha token.
func (s *Service) WithCaptcha(v recaptcha.Verifier) *Service {
	s.captcha = v
	return s
}

// SignUpInput carries the signUp arguments.
type SignUpInput struct {
	Name         string
	EmailAddress string
	Password     string
	CaptchaToken *string
}

// SignInInput carries the signIn arguments.
type SignInInput struct {
	EmailAddress string
	Password     string
}

// AuthResult is a signed bearer token together with the account it
// authenticates.
type AuthResult struct {
	Token string
	User  *models.User
}

// SignUp registers a new account with the regular role and signs it in.
func (s *Service) SignUp(ctx context.Context, input SignUpInput) (*AuthResult, error) {
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

	email, emailIssue := normalizeEmail(input.EmailAddress)
	if emailIssue != nil {
		issues = append(issues, *emailIssue)
	}

	if issue := validatePassword(input.Password); issue != nil {
		issues = append(issues, *issue)
	}

	if s.captcha != nil && (input.CaptchaToken == nil || *input.CaptchaToken == "") {
		issues = append(issues, gqlerr.Issue{
			ArgumentPath: gqlerr.Path("input", "captchaToken"),
			Message:      "Required.",
		})
	}

	if len(issues) > 0 {
		return nil, gqlerr.InvalidArguments(issues...)
	}

	if s.captcha != nil {
		if err := s.captcha.Verify(ctx, *input.CaptchaToken); err != nil {
			if errors.Is(err, recaptcha.ErrRejected) {
				return nil, gqlerr.InvalidArguments(gqlerr.Issue{
					ArgumentPath: gqlerr.Path("input", "captchaToken"),
					Message:      "Failed verification.",
				})
			}
			return nil, gqlerr.Internal(ctx, s.logger, "sign up: verify captcha", err)
		}
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, gqlerr.Internal(ctx, s.logger, "sign up: hash password", err)
	}

	user := &models.User{
		ID:           models.NewID(),
		Name:         name,
		EmailAddress: email,
		PasswordHash: hash,
		Role:         models.UserRoleRegular,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, gqlerr.InvalidArguments(gqlerr.Issue{
				ArgumentPath: gqlerr.Path("input", "emailAddress"),
				Message:      "This email address is already registered.",
			})
		}
		return nil, gqlerr.Internal(ctx, s.logger, "sign up: create user", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, gqlerr.Internal(ctx, s.logger, "sign up: issue token", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

// SignIn authenticates an existing account by email and password.
func (s *Service) SignIn(ctx context.Context, input SignInInput) (*AuthResult, error) {
	var issues []gqlerr.Issue

	email, emailIssue := normalizeEmail(input.EmailAddress)
	if emailIssue != nil {
		issues = append(issues, *emailIssue)
	}
	if input.Password == "" {
		issues = append(issues, gqlerr.Issue{
			ArgumentPath: gqlerr.Path("input", "password"),
			Message:      "Must not be empty.",
		})
	}
	if len(issues) > 0 {
		return nil, gqlerr.InvalidArguments(issues...)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, gqlerr.InvalidArguments(gqlerr.Issue{
				ArgumentPath: gqlerr.Path("input", "emailAddress"),
				Message:      "No account registered with this email address.",
			})
		}
		return nil, gqlerr.Internal(ctx, s.logger, "sign in: load user", err)
	}

	if !auth.CheckPassword(user.PasswordHash, input.Password) {
		return nil, gqlerr.InvalidArguments(gqlerr.Issue{
			ArgumentPath: gqlerr.Path("input", "password"),
			Message:      "Incorrect password.",
		})
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, gqlerr.Internal(ctx, s.logger, "sign in: issue token", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

// Me resolves the calling account. A token whose user row is gone counts as
// unauthenticated.
func (s *Service) Me(ctx context.Context) (*models.User, error) {
	principal, ok := auth.PrincipalFrom(ctx)
	if !ok {
		return nil, gqlerr.Unauthenticated()
	}

	user, err := s.users.GetByID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, gqlerr.Unauthenticated()
		}
		return nil, gqlerr.Internal(ctx, s.logger, "me: load user", err)
	}
	return user, nil
}

// GetUser loads one account by ID for projection purposes.
func (s *Service) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("user %q: %w", id, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// CreateUser provisions an account outside the GraphQL surface, for the
// administrator CLI. Errors are plain; the caller renders them.
func (s *Service) CreateUser(ctx context.Context, name, email, password string, role models.UserRole) (*models.User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("name must not be empty")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("invalid email address %q", email)
	}
	if len(password) < passwordMinLength {
		return nil, fmt.Errorf("password must be at least %d characters", passwordMinLength)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           models.NewID(),
		Name:         strings.TrimSpace(name),
		EmailAddress: strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// normalizeEmail validates the address syntax and lowercases it for lookup
// and storage.
func normalizeEmail(email string) (string, *gqlerr.Issue) {
	trimmed := strings.TrimSpace(email)
	if _, err := mail.ParseAddress(trimmed); err != nil || trimmed == "" {
		return "", &gqlerr.Issue{
			ArgumentPath: gqlerr.Path("input", "emailAddress"),
			Message:      "Must be a valid email address.",
		}
	}
	return strings.ToLower(trimmed), nil
}

func validatePassword(password string) *gqlerr.Issue {
	switch {
	case utf8.RuneCountInString(password) < passwordMinLength:
		return &gqlerr.Issue{
			ArgumentPath: gqlerr.Path("input", "password"),
			Message:      fmt.Sprintf("Must be at least %d characters.", passwordMinLength),
		}
	case utf8.RuneCountInString(password) > passwordMaxLength:
		return &gqlerr.Issue{
			ArgumentPath: gqlerr.Path("input", "password"),
			Message:      fmt.Sprintf("Must not exceed %d characters.", passwordMaxLength),
		}
	}
	return nil
}
