package objectstore

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/oksasatya/job-portal/internal/domain/media"
)

// ImageNormalizer shrinks profile photos before handing them to the next
// uploader. Other folders, and files that do not decode as images, pass
// through untouched.
type ImageNormalizer struct {
	next   media.Uploader
	maxDim int
}

func NewImageNormalizer(next media.Uploader, maxDim int) *ImageNormalizer {
	return &ImageNormalizer{next: next, maxDim: maxDim}
}

func (n *ImageNormalizer) Upload(ctx context.Context, folder string, f media.FileUpload) (string, error) {
	if folder == media.FolderProfilePhotos && n.maxDim > 0 {
		if out, ok := normalizeImage(f, n.maxDim); ok {
			f = out
		}
	}
	return n.next.Upload(ctx, folder, f)
}

// maxDecodePixels bounds the decoded size of a photo. Headers declaring more
// pixels are uploaded as-is instead of being decoded into memory.
const maxDecodePixels = 40_000_000

var encodings = map[string]struct {
	format imaging.Format
	ext    string
	ct     string
}{
	"jpeg": {imaging.JPEG, ".jpg", "image/jpeg"},
	"png":  {imaging.PNG, ".png", "image/png"},
	"gif":  {imaging.GIF, ".gif", "image/gif"},
}

func normalizeImage(f media.FileUpload, maxDim int) (media.FileUpload, bool) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(f.Data))
	if err != nil {
		return f, false
	}
	if cfg.Width <= maxDim && cfg.Height <= maxDim {
		return f, false
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxDecodePixels {
		return f, false
	}
	enc, ok := encodings[format]
	if !ok {
		return f, false
	}
	img, _, err := image.Decode(bytes.NewReader(f.Data))
	if err != nil {
		return f, false
	}
	var resized image.Image
	if cfg.Width >= cfg.Height {
		resized = imaging.Resize(img, maxDim, 0, imaging.Lanczos)
	} else {
		resized = imaging.Resize(img, 0, maxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, enc.format); err != nil {
		return f, false
	}
	name := strings.TrimSuffix(f.Filename, filepath.Ext(f.Filename)) + enc.ext
	return media.FileUpload{Filename: name, ContentType: enc.ct, Data: buf.Bytes()}, true
}

var _ media.Uploader = (*ImageNormalizer)(nil)
