// Package gqlerr defines the typed errors surfaced to GraphQL callers.
// Every resolver failure carries exactly one machine-readable code and,
// where arguments are at fault, the paths of the offending arguments.
// graph-gophers serializes them into the response error's extensions.
package gqlerr

import (
	"context"
	"errors"
	"log/slog"
)

// Code is the machine-readable failure class.
type Code string

const (
	// CodeUnauthenticated: the caller presented no usable identity, or the
	// identity no longer resolves to an account.
	CodeUnauthenticated Code = "unauthenticated"

	// CodeInvalidArguments: one or more arguments violate schema or
	// semantic constraints.
	CodeInvalidArguments Code = "invalid_arguments"

	// CodeResourcesNotFound: an argument references a resource that does
	// not exist.
	CodeResourcesNotFound Code = "arguments_associated_resources_not_found"

	// CodeUnauthorizedAction: the caller's role does not permit the
	// operation at all.
	CodeUnauthorizedAction Code = "unauthorized_action"

	// CodeUnauthorizedActionOnResources: the caller may not perform the
	// operation on the specific resources their arguments reference.
	CodeUnauthorizedActionOnResources Code = "unauthorized_action_on_arguments_associated_resources"

	// CodeUnauthorizedArguments: the caller used arguments reserved for a
	// more privileged role.
	CodeUnauthorizedArguments Code = "unauthorized_arguments"

	// CodeUnexpected: an internal failure with no caller remedy. Detail is
	// logged server-side, never surfaced.
	CodeUnexpected Code = "unexpected"
)

// Issue points at one offending argument.
type Issue struct {
	// ArgumentPath addresses the argument from the operation root,
	// e.g. ["input", "attachments", 2, "mimeType"]. Integer elements index
	// into collections.
	ArgumentPath []any `json:"argumentPath"`

	// Message explains the violation in caller terms.
	Message string `json:"message,omitempty"`
}

// Error is a resolver failure with a stable code.
type Error struct {
	Code    Code
	Message string
	Issues  []Issue
}

func (e *Error) Error() string { return e.Message }

// Extensions feeds the GraphQL error serializer; the map lands under
// "extensions" in the response error entry.
func (e *Error) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"code": string(e.Code)}
	if len(e.Issues) > 0 {
		issues := make([]interface{}, len(e.Issues))
		for i, issue := range e.Issues {
			entry := map[string]interface{}{"argumentPath": issue.ArgumentPath}
			if issue.Message != "" {
				entry["message"] = issue.Message
			}
			issues[i] = entry
		}
		ext["issues"] = issues
	}
	return ext
}

// Path builds an ArgumentPath from mixed string and integer segments.
func Path(segments ...any) []any { return segments }

// Unauthenticated reports a request with no resolvable identity.
func Unauthenticated() *Error {
	return &Error{
		Code:    CodeUnauthenticated,
		Message: "You must be authenticated to perform this action.",
	}
}

// InvalidArguments reports constraint violations. Every violation is
// included, not just the first.
func InvalidArguments(issues ...Issue) *Error {
	return &Error{
		Code:    CodeInvalidArguments,
		Message: "Invalid arguments provided.",
		Issues:  issues,
	}
}

// ResourcesNotFound reports arguments referencing missing resources.
func ResourcesNotFound(issues ...Issue) *Error {
	return &Error{
		Code:    CodeResourcesNotFound,
		Message: "No resources found for the provided arguments.",
		Issues:  issues,
	}
}

// UnauthorizedAction reports an operation outside the caller's role
// entirely, independent of any argument.
func UnauthorizedAction() *Error {
	return &Error{
		Code:    CodeUnauthorizedAction,
		Message: "You are not authorized to perform this action.",
	}
}

// UnauthorizedActionOnResources reports an operation the caller may not
// perform on the resources their arguments reference.
func UnauthorizedActionOnResources(issues ...Issue) *Error {
	return &Error{
		Code:    CodeUnauthorizedActionOnResources,
		Message: "You are not authorized to perform this action on the resources associated to the provided arguments.",
		Issues:  issues,
	}
}

// UnauthorizedArguments reports use of arguments reserved for a more
// privileged role.
func UnauthorizedArguments(issues ...Issue) *Error {
	return &Error{
		Code:    CodeUnauthorizedArguments,
		Message: "You are not authorized to use certain arguments.",
		Issues:  issues,
	}
}

// Unexpected reports an internal failure without detail.
func Unexpected() *Error {
	return &Error{
		Code:    CodeUnexpected,
		Message: "Something went wrong. Please try again later.",
	}
}

// Internal returns err unchanged when it is already a classified *Error.
// Anything else is logged with full detail and replaced by the opaque
// unexpected error.
func Internal(ctx context.Context, logger *slog.Logger, msg string, err error) *Error {
	var gqlErr *Error
	if errors.As(err, &gqlErr) {
		return gqlErr
	}
	logger.ErrorContext(ctx, msg, "error", err)
	return Unexpected()
}
