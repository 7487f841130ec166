package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/oksasatya/job-portal/internal/domain/media"
)

type S3Options struct {
	Bucket    string
	Region    string
	Endpoint  string // custom endpoint for MinIO and friends
	AccessKey string
	SecretKey string
	// PublicBaseURL replaces the generated object URL prefix when set
	PublicBaseURL string
}

// S3Uploader stores files in an S3 (or S3-compatible) bucket.
type S3Uploader struct {
	uploader *manager.Uploader
	opts     S3Options
}

func NewS3Uploader(ctx context.Context, opts S3Options) (*S3Uploader, error) {
	loadOpts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(opts.Region)}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loadOpts = append(loadOpts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}
	cfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Uploader{uploader: manager.NewUploader(client), opts: opts}, nil
}

func (u *S3Uploader) Upload(ctx context.Context, folder string, f media.FileUpload) (string, error) {
	key := objectKey(folder, f)
	_, err := u.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.opts.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(f.Data),
		ContentType: aws.String(contentType(f)),
	})
	if err != nil {
		return "", err
	}
	return u.objectURL(key), nil
}

func (u *S3Uploader) objectURL(key string) string {
	switch {
	case u.opts.PublicBaseURL != "":
		return strings.TrimRight(u.opts.PublicBaseURL, "/") + "/" + key
	case u.opts.Endpoint != "":
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(u.opts.Endpoint, "/"), u.opts.Bucket, key)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.opts.Bucket, u.opts.Region, key)
	}
}

var _ media.Uploader = (*S3Uploader)(nil)
