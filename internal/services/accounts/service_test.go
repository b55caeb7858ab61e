package accounts_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jashan32/talawa-api/internal/auth"
	"github.com/Jashan32/talawa-api/internal/db/models"
	"github.com/Jashan32/talawa-api/internal/gqlerr"
	"github.com/Jashan32/talawa-api/internal/recaptcha"
	"github.com/Jashan32/talawa-api/internal/repository"
	"github.com/Jashan32/talawa-api/internal/services/accounts"
	"github.com/Jashan32/talawa-api/internal/testutil"
)

type stubVerifier struct {
	err   error
	token string
}

func (s *stubVerifier) Verify(_ context.Context, token string) error {
	s.token = token
	return s.err
}

func newService(t *testing.T) (*accounts.Service, *auth.TokenManager) {
	t.Helper()
	db := testutil.NewDB(t)
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := accounts.NewService(repository.NewBunUserRepository(db), tokens, logger)
	return svc, tokens
}

func requireCode(t *testing.T, err error, code gqlerr.Code) *gqlerr.Error {
	t.Helper()
	var gqlErr *gqlerr.Error
	require.ErrorAs(t, err, &gqlErr)
	require.Equal(t, code, gqlErr.Code)
	return gqlErr
}

func TestSignUp(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a regular account and signs it in", func(t *testing.T) {
		svc, tokens := newService(t)

		result, err := svc.SignUp(ctx, accounts.SignUpInput{
			Name:         "Ada Lovelace",
			EmailAddress: "Ada@Example.COM",
			Password:     "correct horse",
		})
		require.NoError(t, err)

		assert.Equal(t, "Ada Lovelace", result.User.Name)
		assert.Equal(t, "ada@example.com", result.User.EmailAddress)
		assert.Equal(t, models.UserRoleRegular, result.User.Role)
		assert.NotEqual(t, "correct horse", result.User.PasswordHash)

		subject, err := tokens.Verify(result.Token)
		require.NoError(t, err)
		assert.Equal(t, result.User.ID, subject)
	})

	t.Run("reports every constraint violation at once", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.SignUp(ctx, accounts.SignUpInput{
			Name:         "  ",
			EmailAddress: "not-an-email",
			Password:     "short",
		})
		gqlErr := requireCode(t, err, gqlerr.CodeInvalidArguments)
		require.Len(t, gqlErr.Issues, 3)
		assert.Equal(t, gqlerr.Path("input", "name"), gqlErr.Issues[0].ArgumentPath)
		assert.Equal(t, gqlerr.Path("input", "emailAddress"), gqlErr.Issues[1].ArgumentPath)
		assert.Equal(t, gqlerr.Path("input", "password"), gqlErr.Issues[2].ArgumentPath)
	})

	t.Run("rejects names over the length cap", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.SignUp(ctx, accounts.SignUpInput{
			Name:         strings.Repeat("n", 257),
			EmailAddress: "long@example.com",
			Password:     "long enough",
		})
		gqlErr := requireCode(t, err, gqlerr.CodeInvalidArguments)
		require.Len(t, gqlErr.Issues, 1)
		assert.Equal(t, gqlerr.Path("input", "name"), gqlErr.Issues[0].ArgumentPath)
	})

	t.Run("rejects a duplicate email address", func(t *testing.T) {
		svc, _ := newService(t)

		input := accounts.SignUpInput{
			Name:         "First",
			EmailAddress: "taken@example.com",
			Password:     "long enough",
		}
		_, err := svc.SignUp(ctx, input)
		require.NoError(t, err)

		input.Name = "Second"
		_, err = svc.SignUp(ctx, input)
		gqlErr := requireCode(t, err, gqlerr.CodeInvalidArguments)
		require.Len(t, gqlErr.Issues, 1)
		assert.Equal(t, gqlerr.Path("input", "emailAddress"), gqlErr.Issues[0].ArgumentPath)
	})

	t.Run("duplicate detection is case insensitive", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.SignUp(ctx, accounts.SignUpInput{
			Name:         "First",
			EmailAddress: "case@example.com",
			Password:     "long enough",
		})
		require.NoError(t, err)

		_, err = svc.SignUp(ctx, accounts.SignUpInput{
			Name:         "Second",
			EmailAddress: "CASE@example.com",
			Password:     "long enough",
		})
		requireCode(t, err, gqlerr.CodeInvalidArguments)
	})
}

func TestSignUpCaptcha(t *testing.T) {
	ctx := context.Background()
	token := "captcha-token"

	base := accounts.SignUpInput{
		Name:         "Ada",
		EmailAddress: "ada@example.com",
		Password:     "long enough",
	}

	t.Run("requires a token when verification is enabled", func(t *testing.T) {
		svc, _ := newService(t)
		svc.WithCaptcha(&stubVerifier{})

		_, err := svc.SignUp(ctx, base)
		gqlErr := requireCode(t, err, gqlerr.CodeInvalidArguments)
		require.Len(t, gqlErr.Issues, 1)
		assert.Equal(t, gqlerr.Path("input", "captchaToken"), gqlErr.Issues[0].ArgumentPath)
	})

	t.Run("passes the token through to the verifier", func(t *testing.T) {
		svc, _ := newService(t)
		verifier := &stubVerifier{}
		svc.WithCaptcha(verifier)

		input := base
		input.CaptchaToken = &token
		_, err := svc.SignUp(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, token, verifier.token)
	})

	t.Run("maps a rejected token to invalid arguments", func(t *testing.T) {
		svc, _ := newService(t)
		svc.WithCaptcha(&stubVerifier{err: recaptcha.ErrRejected})

		input := base
		input.CaptchaToken = &token
		_, err := svc.SignUp(ctx, input)
		gqlErr := requireCode(t, err, gqlerr.CodeInvalidArguments)
		require.Len(t, gqlErr.Issues, 1)
		assert.Equal(t, gqlerr.Path("input", "captchaToken"), gqlErr.Issues[0].ArgumentPath)
	})

	t.Run("maps a verifier outage to unexpected", func(t *testing.T) {
		svc, _ := newService(t)
		svc.WithCaptcha(&stubVerifier{err: errors.New("connection refused")})

		input := base
		input.CaptchaToken = &token
		_, err := svc.SignUp(ctx, input)
		requireCode(t, err, gqlerr.CodeUnexpected)
	})

	t.Run("ignores the verifier when disabled", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.SignUp(ctx, base)
		require.NoError(t, err)
	})
}

func TestSignIn(t *testing.T) {
	ctx := context.Background()

	signUp := func(t *testing.T, svc *accounts.Service) *models.User {
		t.Helper()
		result, err := svc.SignUp(ctx, accounts.SignUpInput{
			Name:         "Ada",
			EmailAddress: "ada@example.com",
			Password:     "correct horse",
		})
		require.NoError(t, err)
		return result.User
	}

	t.Run("returns a token for valid credentials", func(t *testing.T) {
		svc, tokens := newService(t)
		user := signUp(t, svc)

		result, err := svc.SignIn(ctx, accounts.SignInInput{
			EmailAddress: "ADA@example.com",
			Password:     "correct horse",
		})
		require.NoError(t, err)
		assert.Equal(t, user.ID, result.User.ID)

		subject, err := tokens.Verify(result.Token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, subject)
	})

	t.Run("rejects an unregistered email address", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.SignIn(ctx, accounts.SignInInput{
			EmailAddress: "nobody@example.com",
			Password:     "whatever works",
		})
		gqlErr := requireCode(t, err, gqlerr.CodeInvalidArguments)
		require.Len(t, gqlErr.Issues, 1)
		assert.Equal(t, gqlerr.Path("input", "emailAddress"), gqlErr.Issues[0].ArgumentPath)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		svc, _ := newService(t)
		signUp(t, svc)

		_, err := svc.SignIn(ctx, accounts.SignInInput{
			EmailAddress: "ada@example.com",
			Password:     "incorrect horse",
		})
		gqlErr := requireCode(t, err, gqlerr.CodeInvalidArguments)
		require.Len(t, gqlErr.Issues, 1)
		assert.Equal(t, gqlerr.Path("input", "password"), gqlErr.Issues[0].ArgumentPath)
	})

	t.Run("rejects malformed input before touching the database", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.SignIn(ctx, accounts.SignInInput{EmailAddress: "nope", Password: ""})
		gqlErr := requireCode(t, err, gqlerr.CodeInvalidArguments)
		require.Len(t, gqlErr.Issues, 2)
	})
}

func TestMe(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves the authenticated account", func(t *testing.T) {
		svc, _ := newService(t)
		result, err := svc.SignUp(ctx, accounts.SignUpInput{
			Name:         "Ada",
			EmailAddress: "ada@example.com",
			Password:     "correct horse",
		})
		require.NoError(t, err)

		authed := auth.WithPrincipal(ctx, auth.Principal{UserID: result.User.ID})
		me, err := svc.Me(authed)
		require.NoError(t, err)
		assert.Equal(t, result.User.ID, me.ID)
	})

	t.Run("rejects anonymous callers", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.Me(ctx)
		requireCode(t, err, gqlerr.CodeUnauthenticated)
	})

	t.Run("treats a stale token subject as unauthenticated", func(t *testing.T) {
		svc, _ := newService(t)

		authed := auth.WithPrincipal(ctx, auth.Principal{UserID: testutil.NewID(t)})
		_, err := svc.Me(authed)
		requireCode(t, err, gqlerr.CodeUnauthenticated)
	})
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("provisions an administrator", func(t *testing.T) {
		svc, _ := newService(t)

		user, err := svc.CreateUser(ctx, "Root", "root@example.com", "long enough", models.UserRoleAdministrator)
		require.NoError(t, err)
		assert.Equal(t, models.UserRoleAdministrator, user.Role)
		assert.True(t, auth.CheckPassword(user.PasswordHash, "long enough"))
	})

	t.Run("rejects malformed input with plain errors", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.CreateUser(ctx, "", "root@example.com", "long enough", models.UserRoleRegular)
		require.Error(t, err)

		_, err = svc.CreateUser(ctx, "Root", "not-an-email", "long enough", models.UserRoleRegular)
		require.Error(t, err)

		_, err = svc.CreateUser(ctx, "Root", "root@example.com", "short", models.UserRoleRegular)
		require.Error(t, err)
	})
}
