package handlers

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/gw-plant-doctor/internal/logger"
	"github.com/sbilibin2017/gw-plant-doctor/internal/storage"
)

//go:generate mockgen -source=uploads.go -destination=mock_uploads.go -package=handlers

// FileOpener reads stored uploads.
type FileOpener interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// NewUploadHandler serves stored uploads by name. Mount it on a route with a {name} parameter.
// @Summary Get an upload
// @Description Streams a stored plant photo or reference image
// @Tags analysis
// @Produce octet-stream
// @Param name path string true "Upload name"
// @Success 200 {file} file "Upload content"
// @Failure 404 {string} string "Not found"
// @Router /uploads/{name} [get]
func NewUploadHandler(files FileOpener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")

		rc, err := files.Open(r.Context(), name)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			logger.Log.Errorw("failed to open upload", "name", name, "err", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		defer rc.Close()

		contentType := mime.TypeByExtension(filepath.Ext(name))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.WriteHeader(http.StatusOK)

		if _, err := io.Copy(w, rc); err != nil {
			logger.Log.Errorw("failed to stream upload", "name", name, "err", err)
		}
	}
}
