package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/job-portal/internal/application"
	domainerrors "github.com/oksasatya/job-portal/internal/domain/errors"
	"github.com/oksasatya/job-portal/internal/domain/media"
)

// formFile buffers the multipart file in field. A missing field is not an
// error; it yields an absent Optional.
func formFile(c *gin.Context, field string, maxBytes int64) (application.Optional[media.FileUpload], error) {
	none := application.None[media.FileUpload]()
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return none, nil
		}
		return none, domainerrors.ErrInvalidPayload.WithDetails(map[string]string{field: "unreadable file"})
	}
	if maxBytes > 0 && fh.Size > maxBytes {
		return none, domainerrors.ErrInvalidPayload.WithDetails(map[string]string{
			field: fmt.Sprintf("must be at most %d bytes", maxBytes),
		})
	}
	f, err := fh.Open()
	if err != nil {
		return none, domainerrors.ErrInvalidPayload.WithDetails(map[string]string{field: "unreadable file"})
	}
	defer func() { _ = f.Close() }()

	limit := fh.Size
	if maxBytes > 0 {
		limit = maxBytes
	}
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return none, domainerrors.ErrInvalidPayload.WithDetails(map[string]string{field: "unreadable file"})
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return none, domainerrors.ErrInvalidPayload.WithDetails(map[string]string{
			field: fmt.Sprintf("must be at most %d bytes", maxBytes),
		})
	}
	if len(data) == 0 {
		return none, nil
	}
	return application.Some(media.FileUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}), nil
}
