package handlers

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"tripledger/internal/blobstore"
	apperrors "tripledger/internal/errors"
)

// BlobReader verifies signed URLs and opens stored blobs.
type BlobReader interface {
	VerifyToken(p, token string) error
	Open(ctx context.Context, p string) (io.ReadCloser, error)
}

// BlobHandler serves receipt images behind signed, expiring URLs.
type BlobHandler struct {
	blobs BlobReader
}

// NewBlobHandler creates a new BlobHandler.
func NewBlobHandler(blobs BlobReader) *BlobHandler {
	return &BlobHandler{blobs: blobs}
}

// ServeBlob handles downloading a blob with a signed token.
// @Summary     Download blob
// @Tags        blobs
// @Produce     octet-stream
// @Param       path  path  string true "Blob path"
// @Param       token query string true "Signed URL token"
// @Success     200 {file} file "Blob content"
// @Failure     401 {object} ErrorResponse "Invalid or expired token"
// @Failure     404 {object} ErrorResponse "Blob not found"
// @Router      /blobs/{path} [get]
func (h *BlobHandler) ServeBlob(c *gin.Context) {
	p := strings.TrimPrefix(c.Param("path"), "/")
	if err := h.blobs.VerifyToken(p, c.Query("token")); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid or expired blob token"))
		return
	}

	r, err := h.blobs.Open(c.Request.Context(), p)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) || errors.Is(err, blobstore.ErrInvalidPath) {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrNotFound, "Blob not found"))
			return
		}
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	defer r.Close()

	contentType := mime.TypeByExtension(path.Ext(p))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, -1, contentType, r, map[string]string{
		"Cache-Control": "private, max-age=300",
	})
}
