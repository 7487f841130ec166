package objectstore

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/oksasatya/job-portal/internal/domain/media"
)

// objectKey builds folder/<uuid><ext>. The extension comes from the original
// filename or, failing that, from the sniffed content.
func objectKey(folder string, f media.FileUpload) string {
	ext := strings.ToLower(filepath.Ext(f.Filename))
	if ext == "" && len(f.Data) > 0 {
		ext = mimetype.Detect(f.Data).Extension()
	}
	return path.Join(folder, uuid.NewString()+ext)
}

// contentType keeps the declared type unless it is missing or generic.
func contentType(f media.FileUpload) string {
	ct := strings.TrimSpace(f.ContentType)
	if ct == "" || ct == "application/octet-stream" {
		if len(f.Data) == 0 {
			return "application/octet-stream"
		}
		return mimetype.Detect(f.Data).String()
	}
	return ct
}
