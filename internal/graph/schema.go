// Package graph exposes the GraphQL surface: the schema definition, the
// root resolver delegating to the services, and the type resolvers that
// project persisted rows into response objects.
package graph

import graphql "github.com/graph-gophers/graphql-go"

// NewSchema parses the schema definition against the resolver. It panics on
// a definition/resolver mismatch, which is a programming error caught by any
// test that builds the schema.
func NewSchema(r *Resolver) *graphql.Schema {
	return graphql.MustParseSchema(schemaDef, r)
}

const schemaDef = `
schema {
	query: Query
	mutation: Mutation
}

"An RFC 3339 timestamp, always rendered in UTC."
scalar DateTime

enum UserRole {
	administrator
	regular
}

enum MembershipRole {
	administrator
	regular
}

type User {
	id: ID!
	name: String!
	emailAddress: String!
	role: UserRole!
	createdAt: DateTime!
}

"A signed bearer token together with the account it authenticates."
type AuthPayload {
	authenticationToken: String!
	user: User!
}

type Organization {
	id: ID!
	name: String!
	description: String
	createdAt: DateTime!
	creator: User
}

type OrganizationMembership {
	memberId: ID!
	organizationId: ID!
	role: MembershipRole!
	createdAt: DateTime!
	member: User!
	organization: Organization!
}

type PostAttachment {
	id: ID!
	name: String!
	mimeType: String!
	url: String!
	createdAt: DateTime!
}

type Post {
	id: ID!
	caption: String!
	pinnedAt: DateTime
	createdAt: DateTime!
	creator: User
	organization: Organization!
	attachments: [PostAttachment!]!
	"URL of the first image attachment, when one exists."
	imageURL: String
}

input MutationSignUpInput {
	name: String!
	emailAddress: String!
	password: String!
	captchaToken: String
}

input MutationSignInInput {
	emailAddress: String!
	password: String!
}

input MutationCreateOrganizationInput {
	name: String!
	description: String
}

input MutationJoinOrganizationInput {
	organizationId: ID!
}

input MutationCreatePostAttachmentInput {
	"Base64 encoded payload."
	data: String!
	mimeType: String!
}

input MutationCreatePostInput {
	caption: String!
	organizationId: ID!
	isPinned: Boolean
	attachments: [MutationCreatePostAttachmentInput!]
}

input QueryPostInput {
	id: ID!
}

input QueryOrganizationInput {
	id: ID!
}

type Query {
	"The account the request is authenticated as."
	me: User
	post(input: QueryPostInput!): Post
	organization(input: QueryOrganizationInput!): Organization
}

type Mutation {
	signUp(input: MutationSignUpInput!): AuthPayload
	signIn(input: MutationSignInInput!): AuthPayload
	createOrganization(input: MutationCreateOrganizationInput!): Organization
	joinOrganization(input: MutationJoinOrganizationInput!): OrganizationMembership
	createPost(input: MutationCreatePostInput!): Post
}
`
