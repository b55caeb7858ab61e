package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Jashan32/talawa-api/internal/objectstore"
)

// HandleObject streams one stored attachment object. Object names are opaque
// keys minted at upload time; anything unknown is a 404.
func HandleObject(store objectstore.Store, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")

		rc, info, err := store.Get(r.Context(), name)
		if err != nil {
			if errors.Is(err, objectstore.ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			logger.ErrorContext(r.Context(), "open object", "name", name, "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		defer rc.Close()

		if info.ContentType != "" {
			w.Header().Set("Content-Type", info.ContentType)
		}
		if info.Size > 0 {
			w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
		}
		w.Header().Set("Cache-Control", "private, max-age=86400, immutable")

		if _, err := io.Copy(w, rc); err != nil {
			// The response is already underway; all we can do is note it.
			logger.DebugContext(r.Context(), "stream object interrupted", "name", name, "error", err)
		}
	}
}
