package objectstore

import (
	"bytes"
	"context"

	"cloud.google.com/go/storage"

	"github.com/oksasatya/job-portal/internal/domain/media"
	"github.com/oksasatya/job-portal/pkg/helpers"
)

// GCSUploader stores files in a Google Cloud Storage bucket.
type GCSUploader struct {
	client *storage.Client
	bucket string
}

func NewGCSUploader(client *storage.Client, bucket string) *GCSUploader {
	return &GCSUploader{client: client, bucket: bucket}
}

func (u *GCSUploader) Upload(ctx context.Context, folder string, f media.FileUpload) (string, error) {
	return helpers.UploadObject(ctx, u.client, u.bucket, objectKey(folder, f), contentType(f), bytes.NewReader(f.Data))
}

var _ media.Uploader = (*GCSUploader)(nil)
