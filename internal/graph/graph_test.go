package graph_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/Jashan32/talawa-api/internal/auth"
	"github.com/Jashan32/talawa-api/internal/db/models"
	"github.com/Jashan32/talawa-api/internal/gqlerr"
	"github.com/Jashan32/talawa-api/internal/graph"
	"github.com/Jashan32/talawa-api/internal/repository"
	"github.com/Jashan32/talawa-api/internal/services/accounts"
	"github.com/Jashan32/talawa-api/internal/services/orgs"
	"github.com/Jashan32/talawa-api/internal/services/posts"
	"github.com/Jashan32/talawa-api/internal/testutil"
)

const baseURL = "http://localhost:4000"

type fixture struct {
	schema *graphql.Schema
	db     *bun.DB
	store  *testutil.MemObjectStore
	tokens *auth.TokenManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	store := testutil.NewMemObjectStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	users := repository.NewBunUserRepository(db)
	organizations := repository.NewBunOrganizationRepository(db)
	postRows := repository.NewBunPostRepository(db)

	resolver := graph.NewResolver(
		accounts.NewService(users, tokens, logger),
		orgs.NewService(users, organizations, logger),
		posts.NewService(users, organizations, postRows, store, logger),
		baseURL,
		logger,
	)
	return &fixture{schema: graph.NewSchema(resolver), db: db, store: store, tokens: tokens}
}

func (f *fixture) exec(ctx context.Context, query string, variables map[string]interface{}) *graphql.Response {
	return f.schema.Exec(ctx, query, "", variables)
}

func asPrincipal(ctx context.Context, user *models.User) context.Context {
	return auth.WithPrincipal(ctx, auth.Principal{UserID: user.ID})
}

func decode(t *testing.T, resp *graphql.Response, into interface{}) {
	t.Helper()
	require.Empty(t, resp.Errors)
	require.NoError(t, json.Unmarshal(resp.Data, into))
}

// requireErrCode asserts the response failed with exactly one error carrying
// the extensions code, and returns the extensions for further checks.
func requireErrCode(t *testing.T, resp *graphql.Response, code gqlerr.Code) map[string]interface{} {
	t.Helper()
	require.Len(t, resp.Errors, 1)
	ext := resp.Errors[0].Extensions
	require.NotNil(t, ext)
	require.Equal(t, string(code), ext["code"])
	return ext
}

// issuePaths flattens extensions.issues[*].argumentPath.
func issuePaths(t *testing.T, ext map[string]interface{}) [][]interface{} {
	t.Helper()
	raw, ok := ext["issues"].([]interface{})
	require.True(t, ok, "extensions carries no issues")
	paths := make([][]interface{}, len(raw))
	for i, entry := range raw {
		issue, ok := entry.(map[string]interface{})
		require.True(t, ok)
		path, ok := issue["argumentPath"].([]interface{})
		require.True(t, ok)
		paths[i] = path
	}
	return paths
}

func TestSignUpFlow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	resp := f.exec(ctx, `
		mutation {
			signUp(input: {name: "Ada Lovelace", emailAddress: "Ada@Example.com", password: "correct horse"}) {
				authenticationToken
				user { id name emailAddress role createdAt }
			}
		}`, nil)

	var data struct {
		SignUp struct {
			AuthenticationToken string
			User                struct {
				ID           string
				Name         string
				EmailAddress string
				Role         string
				CreatedAt    string
			}
		}
	}
	decode(t, resp, &data)

	assert.Equal(t, "Ada Lovelace", data.SignUp.User.Name)
	assert.Equal(t, "ada@example.com", data.SignUp.User.EmailAddress)
	assert.Equal(t, "regular", data.SignUp.User.Role)
	_, err := time.Parse(time.RFC3339Nano, data.SignUp.User.CreatedAt)
	require.NoError(t, err)

	subject, err := f.tokens.Verify(data.SignUp.AuthenticationToken)
	require.NoError(t, err)
	assert.Equal(t, data.SignUp.User.ID, subject)

	authed := auth.WithPrincipal(ctx, auth.Principal{UserID: subject})
	resp = f.exec(authed, `query { me { id emailAddress } }`, nil)

	var me struct {
		Me struct {
			ID           string
			EmailAddress string
		}
	}
	decode(t, resp, &me)
	assert.Equal(t, subject, me.Me.ID)
	assert.Equal(t, "ada@example.com", me.Me.EmailAddress)
}

func TestSignUpValidationErrors(t *testing.T) {
	f := newFixture(t)

	resp := f.exec(context.Background(), `
		mutation {
			signUp(input: {name: "", emailAddress: "not-an-email", password: "short"}) {
				authenticationToken
			}
		}`, nil)

	ext := requireErrCode(t, resp, gqlerr.CodeInvalidArguments)
	paths := issuePaths(t, ext)
	require.Len(t, paths, 3)
	assert.Equal(t, []interface{}{"input", "name"}, paths[0])
	assert.Equal(t, []interface{}{"input", "emailAddress"}, paths[1])
	assert.Equal(t, []interface{}{"input", "password"}, paths[2])
}

func TestSignIn(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	resp := f.exec(ctx, `
		mutation {
			signUp(input: {name: "Ada", emailAddress: "ada@example.com", password: "correct horse"}) {
				user { id }
			}
		}`, nil)
	require.Empty(t, resp.Errors)

	resp = f.exec(ctx, `
		mutation {
			signIn(input: {emailAddress: "ada@example.com", password: "correct horse"}) {
				authenticationToken
				user { emailAddress }
			}
		}`, nil)

	var data struct {
		SignIn struct {
			AuthenticationToken string
			User                struct{ EmailAddress string }
		}
	}
	decode(t, resp, &data)
	assert.Equal(t, "ada@example.com", data.SignIn.User.EmailAddress)
	assert.NotEmpty(t, data.SignIn.AuthenticationToken)

	resp = f.exec(ctx, `
		mutation {
			signIn(input: {emailAddress: "ada@example.com", password: "incorrect horse"}) {
				authenticationToken
			}
		}`, nil)
	ext := requireErrCode(t, resp, gqlerr.CodeInvalidArguments)
	paths := issuePaths(t, ext)
	require.Len(t, paths, 1)
	assert.Equal(t, []interface{}{"input", "password"}, paths[0])
}

func TestMeUnauthenticated(t *testing.T) {
	f := newFixture(t)

	resp := f.exec(context.Background(), `query { me { id } }`, nil)
	requireErrCode(t, resp, gqlerr.CodeUnauthenticated)
}

func TestOrganizationLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := testutil.SeedUser(t, f.db, models.UserRoleAdministrator)
	regular := testutil.SeedUser(t, f.db, models.UserRoleRegular)

	resp := f.exec(asPrincipal(ctx, admin), `
		mutation {
			createOrganization(input: {name: "Garden Collective", description: "Shared beds and tools."}) {
				id
				name
				description
				creator { id }
			}
		}`, nil)

	var created struct {
		CreateOrganization struct {
			ID          string
			Name        string
			Description *string
			Creator     struct{ ID string }
		}
	}
	decode(t, resp, &created)
	assert.Equal(t, "Garden Collective", created.CreateOrganization.Name)
	require.NotNil(t, created.CreateOrganization.Description)
	assert.Equal(t, admin.ID, created.CreateOrganization.Creator.ID)

	t.Run("regular caller may not create", func(t *testing.T) {
		resp := f.exec(asPrincipal(ctx, regular), `
			mutation { createOrganization(input: {name: "Nope"}) { id } }`, nil)
		requireErrCode(t, resp, gqlerr.CodeUnauthorizedAction)
	})

	t.Run("regular caller joins", func(t *testing.T) {
		resp := f.exec(asPrincipal(ctx, regular), fmt.Sprintf(`
			mutation {
				joinOrganization(input: {organizationId: %q}) {
					memberId
					organizationId
					role
					organization { name }
				}
			}`, created.CreateOrganization.ID), nil)

		var joined struct {
			JoinOrganization struct {
				MemberID       string
				OrganizationID string
				Role           string
				Organization   struct{ Name string }
			}
		}
		decode(t, resp, &joined)
		assert.Equal(t, regular.ID, joined.JoinOrganization.MemberID)
		assert.Equal(t, "regular", joined.JoinOrganization.Role)
		assert.Equal(t, "Garden Collective", joined.JoinOrganization.Organization.Name)
	})

	t.Run("joining twice fails", func(t *testing.T) {
		resp := f.exec(asPrincipal(ctx, regular), fmt.Sprintf(`
			mutation { joinOrganization(input: {organizationId: %q}) { role } }`,
			created.CreateOrganization.ID), nil)
		ext := requireErrCode(t, resp, gqlerr.CodeInvalidArguments)
		paths := issuePaths(t, ext)
		require.Len(t, paths, 1)
		assert.Equal(t, []interface{}{"input", "organizationId"}, paths[0])
	})

	t.Run("organization query", func(t *testing.T) {
		resp := f.exec(asPrincipal(ctx, regular), fmt.Sprintf(`
			query { organization(input: {id: %q}) { id name } }`,
			created.CreateOrganization.ID), nil)

		var got struct {
			Organization struct {
				ID   string
				Name string
			}
		}
		decode(t, resp, &got)
		assert.Equal(t, created.CreateOrganization.ID, got.Organization.ID)
	})

	t.Run("missing organization", func(t *testing.T) {
		resp := f.exec(asPrincipal(ctx, regular), fmt.Sprintf(`
			query { organization(input: {id: %q}) { id } }`, testutil.NewID(t)), nil)
		requireErrCode(t, resp, gqlerr.CodeResourcesNotFound)
	})
}

func TestCreatePost(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := testutil.SeedUser(t, f.db, models.UserRoleAdministrator)
	org := testutil.SeedOrganization(t, f.db, admin)

	query := `
		mutation CreatePost($input: MutationCreatePostInput!) {
			createPost(input: $input) {
				id
				caption
				pinnedAt
				imageURL
				creator { id }
				organization { id creator { id } }
				attachments { id name mimeType url }
			}
		}`
	variables := map[string]interface{}{
		"input": map[string]interface{}{
			"caption":        "pictures from the weekend",
			"organizationId": org.ID,
			"isPinned":       true,
			"attachments": []interface{}{
				map[string]interface{}{
					"data":     base64.StdEncoding.EncodeToString([]byte("a movie")),
					"mimeType": "video/mp4",
				},
				map[string]interface{}{
					"data":     base64.StdEncoding.EncodeToString([]byte("a picture")),
					"mimeType": "image/png",
				},
			},
		},
	}

	resp := f.exec(asPrincipal(ctx, admin), query, variables)

	var data struct {
		CreatePost struct {
			ID           string
			Caption      string
			PinnedAt     *string
			ImageURL     *string
			Creator      struct{ ID string }
			Organization struct {
				ID      string
				Creator struct{ ID string }
			}
			Attachments []struct {
				ID       string
				Name     string
				MimeType string
				URL      string
			}
		}
	}
	decode(t, resp, &data)

	assert.Equal(t, "pictures from the weekend", data.CreatePost.Caption)
	require.NotNil(t, data.CreatePost.PinnedAt)
	assert.Equal(t, admin.ID, data.CreatePost.Creator.ID)
	assert.Equal(t, org.ID, data.CreatePost.Organization.ID)
	assert.Equal(t, admin.ID, data.CreatePost.Organization.Creator.ID)

	require.Len(t, data.CreatePost.Attachments, 2)
	assert.Equal(t, "video/mp4", data.CreatePost.Attachments[0].MimeType)
	assert.Equal(t, "image/png", data.CreatePost.Attachments[1].MimeType)
	for _, attachment := range data.CreatePost.Attachments {
		assert.Equal(t, baseURL+"/objects/"+attachment.Name, attachment.URL)
		assert.True(t, f.store.Has(attachment.Name))
	}

	// The first image attachment supplies imageURL; the leading video does
	// not count.
	require.NotNil(t, data.CreatePost.ImageURL)
	assert.Equal(t, baseURL+"/objects/"+data.CreatePost.Attachments[1].Name, *data.CreatePost.ImageURL)

	t.Run("post query round trip", func(t *testing.T) {
		resp := f.exec(asPrincipal(ctx, admin), fmt.Sprintf(`
			query { post(input: {id: %q}) { id caption attachments { mimeType } organization { id } } }`,
			data.CreatePost.ID), nil)

		var got struct {
			Post struct {
				ID           string
				Caption      string
				Attachments  []struct{ MimeType string }
				Organization struct{ ID string }
			}
		}
		decode(t, resp, &got)
		assert.Equal(t, data.CreatePost.ID, got.Post.ID)
		require.Len(t, got.Post.Attachments, 2)
		assert.Equal(t, "video/mp4", got.Post.Attachments[0].MimeType)
		assert.Equal(t, org.ID, got.Post.Organization.ID)
	})
}

func TestCreatePostWithoutImageHasNullImageURL(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := testutil.SeedUser(t, f.db, models.UserRoleAdministrator)
	org := testutil.SeedOrganization(t, f.db, admin)

	resp := f.exec(asPrincipal(ctx, admin), fmt.Sprintf(`
		mutation {
			createPost(input: {caption: "words only", organizationId: %q}) {
				pinnedAt
				imageURL
				attachments { id }
			}
		}`, org.ID), nil)

	var data struct {
		CreatePost struct {
			PinnedAt    *string
			ImageURL    *string
			Attachments []struct{ ID string }
		}
	}
	decode(t, resp, &data)
	assert.Nil(t, data.CreatePost.PinnedAt)
	assert.Nil(t, data.CreatePost.ImageURL)
	assert.Empty(t, data.CreatePost.Attachments)
}

func TestCreatePostErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := testutil.SeedUser(t, f.db, models.UserRoleAdministrator)
	org := testutil.SeedOrganization(t, f.db, admin)
	member := testutil.SeedUser(t, f.db, models.UserRoleRegular)
	testutil.SeedMembership(t, f.db, member, org, models.MembershipRoleRegular)
	outsider := testutil.SeedUser(t, f.db, models.UserRoleRegular)

	t.Run("anonymous caller", func(t *testing.T) {
		resp := f.exec(ctx, fmt.Sprintf(`
			mutation { createPost(input: {caption: "hi", organizationId: %q}) { id } }`, org.ID), nil)
		requireErrCode(t, resp, gqlerr.CodeUnauthenticated)
	})

	t.Run("invalid arguments carry every issue", func(t *testing.T) {
		resp := f.exec(asPrincipal(ctx, member), `
			mutation { createPost(input: {caption: "", organizationId: "not-a-uuid"}) { id } }`, nil)
		ext := requireErrCode(t, resp, gqlerr.CodeInvalidArguments)
		paths := issuePaths(t, ext)
		require.Len(t, paths, 2)
		assert.Equal(t, []interface{}{"input", "caption"}, paths[0])
		assert.Equal(t, []interface{}{"input", "organizationId"}, paths[1])
	})

	t.Run("non-member", func(t *testing.T) {
		resp := f.exec(asPrincipal(ctx, outsider), fmt.Sprintf(`
			mutation { createPost(input: {caption: "hi", organizationId: %q}) { id } }`, org.ID), nil)
		ext := requireErrCode(t, resp, gqlerr.CodeUnauthorizedActionOnResources)
		paths := issuePaths(t, ext)
		require.Len(t, paths, 1)
		assert.Equal(t, []interface{}{"input", "organizationId"}, paths[0])
	})

	t.Run("member pinning", func(t *testing.T) {
		resp := f.exec(asPrincipal(ctx, member), fmt.Sprintf(`
			mutation { createPost(input: {caption: "hi", organizationId: %q, isPinned: true}) { id } }`, org.ID), nil)
		ext := requireErrCode(t, resp, gqlerr.CodeUnauthorizedArguments)
		paths := issuePaths(t, ext)
		require.Len(t, paths, 1)
		assert.Equal(t, []interface{}{"input", "isPinned"}, paths[0])
	})

	t.Run("missing organization", func(t *testing.T) {
		resp := f.exec(asPrincipal(ctx, member), fmt.Sprintf(`
			mutation { createPost(input: {caption: "hi", organizationId: %q}) { id } }`, testutil.NewID(t)), nil)
		requireErrCode(t, resp, gqlerr.CodeResourcesNotFound)
	})

	t.Run("missing post", func(t *testing.T) {
		resp := f.exec(asPrincipal(ctx, member), fmt.Sprintf(`
			query { post(input: {id: %q}) { id } }`, testutil.NewID(t)), nil)
		requireErrCode(t, resp, gqlerr.CodeResourcesNotFound)
	})
}
