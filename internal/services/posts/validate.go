package posts

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Jashan32/talawa-api/internal/gqlerr"
)

const (
	captionMaxLength   = 2048
	maxAttachmentBytes = 5 << 20
)

// allowedMimeTypes is the attachment allow-list. Uploads declaring anything
// else are excluded from the stored set.
var allowedMimeTypes = map[string]struct{}{
	"image/avif": {},
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"video/mp4":  {},
	"video/webm": {},
}

type validatedUpload struct {
	payload  []byte
	mimeType string
}

type validatedInput struct {
	caption     string
	attachments []validatedUpload
}

// validateCreatePost separates two kinds of violations. Schema constraints
// (caption, id format, payload size and encoding) reject the whole mutation;
// all of them are collected before failing. The per-item MIME allow-list
// only excludes the offending attachment: the issue is returned for logging
// and the remaining attachments proceed.
func validateCreatePost(input CreatePostInput) (validatedInput, []gqlerr.Issue, error) {
	var fatal []gqlerr.Issue

	caption := strings.TrimSpace(input.Caption)
	if caption == "" {
		fatal = append(fatal, gqlerr.Issue{
			ArgumentPath: gqlerr.Path("input", "caption"),
			Message:      "Must not be empty.",
		})
	} else if utf8.RuneCountInString(caption) > captionMaxLength {
		fatal = append(fatal, gqlerr.Issue{
			ArgumentPath: gqlerr.Path("input", "caption"),
			Message:      fmt.Sprintf("Must not exceed %d characters.", captionMaxLength),
		})
	}

	if _, err := uuid.Parse(input.OrganizationID); err != nil {
		fatal = append(fatal, gqlerr.Issue{
			ArgumentPath: gqlerr.Path("input", "organizationId"),
			Message:      "Must be a valid id.",
		})
	}

	out := validatedInput{caption: caption}
	var excluded []gqlerr.Issue
	for i, upload := range input.Attachments {
		payload, err := base64.StdEncoding.DecodeString(upload.Data)
		if err != nil {
			fatal = append(fatal, gqlerr.Issue{
				ArgumentPath: gqlerr.Path("input", "attachments", i, "data"),
				Message:      "Must be base64 encoded.",
			})
			continue
		}
		if len(payload) == 0 {
			fatal = append(fatal, gqlerr.Issue{
				ArgumentPath: gqlerr.Path("input", "attachments", i, "data"),
				Message:      "Must not be empty.",
			})
			continue
		}
		if len(payload) > maxAttachmentBytes {
			fatal = append(fatal, gqlerr.Issue{
				ArgumentPath: gqlerr.Path("input", "attachments", i, "data"),
				Message:      "Must not exceed 5 MiB.",
			})
			continue
		}
		if _, ok := allowedMimeTypes[upload.MimeType]; !ok {
			excluded = append(excluded, gqlerr.Issue{
				ArgumentPath: gqlerr.Path("input", "attachments", i, "mimeType"),
				Message:      fmt.Sprintf("Mime type %q is not supported.", upload.MimeType),
			})
			continue
		}
		out.attachments = append(out.attachments, validatedUpload{
			payload:  payload,
			mimeType: upload.MimeType,
		})
	}

	if len(fatal) > 0 {
		return validatedInput{}, nil, gqlerr.InvalidArguments(fatal...)
	}
	return out, excluded, nil
}
