package objectstore

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/job-portal/internal/domain/media"
)

type captureUploader struct {
	got   []media.FileUpload
	err   error
	delay time.Duration
}

func (c *captureUploader) Upload(ctx context.Context, folder string, f media.FileUpload) (string, error) {
	c.got = append(c.got, f)
	if c.delay > 0 {
		select {
		case <-time.After(c.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if c.err != nil {
		return "", c.err
	}
	return "https://cdn.example.com/" + folder + "/" + f.Filename, nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestObjectKey(t *testing.T) {
	key := objectKey(media.FolderResumes, media.FileUpload{Filename: "My CV.PDF"})
	assert.True(t, strings.HasPrefix(key, "resumes/"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))
	assert.NotContains(t, key, "My CV")

	sniffed := objectKey(media.FolderResumes, media.FileUpload{Filename: "upload", Data: []byte("%PDF-1.4\n")})
	assert.True(t, strings.HasSuffix(sniffed, ".pdf"))

	assert.NotEqual(t, key, objectKey(media.FolderResumes, media.FileUpload{Filename: "My CV.PDF"}))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/jpeg", contentType(media.FileUpload{ContentType: "image/jpeg"}))
	assert.Equal(t, "application/octet-stream", contentType(media.FileUpload{}))
	assert.Equal(t, "application/pdf", contentType(media.FileUpload{ContentType: "application/octet-stream", Data: []byte("%PDF-1.4\n")}))
}

func TestImageNormalizer_ShrinksLargePhotos(t *testing.T) {
	next := &captureUploader{}
	n := NewImageNormalizer(next, 64)

	_, err := n.Upload(context.Background(), media.FolderProfilePhotos, media.FileUpload{
		Filename: "me.png", ContentType: "image/png", Data: pngBytes(t, 256, 128),
	})
	require.NoError(t, err)
	require.Len(t, next.got, 1)

	out := next.got[0]
	assert.Equal(t, "me.png", out.Filename)
	assert.Equal(t, "image/png", out.ContentType)
	cfg, format, err := image.DecodeConfig(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 32, cfg.Height)
}

func TestImageNormalizer_PassThrough(t *testing.T) {
	next := &captureUploader{}
	n := NewImageNormalizer(next, 64)
	ctx := context.Background()

	small := media.FileUpload{Filename: "me.png", Data: pngBytes(t, 32, 32)}
	_, err := n.Upload(ctx, media.FolderProfilePhotos, small)
	require.NoError(t, err)
	assert.Equal(t, small.Data, next.got[0].Data)

	large := media.FileUpload{Filename: "scan.png", Data: pngBytes(t, 256, 256)}
	_, err = n.Upload(ctx, media.FolderResumes, large)
	require.NoError(t, err)
	assert.Equal(t, large.Data, next.got[1].Data)

	notImage := media.FileUpload{Filename: "me.png", Data: []byte("not an image")}
	_, err = n.Upload(ctx, media.FolderProfilePhotos, notImage)
	require.NoError(t, err)
	assert.Equal(t, notImage.Data, next.got[2].Data)
}

// hugePNG returns a small valid PNG whose header claims w x h pixels.
func hugePNG(t *testing.T, w, h uint32) []byte {
	t.Helper()
	data := pngBytes(t, 1, 1)
	// signature(8) length(4) "IHDR"(4) width(4) height(4) ... crc at 29
	binary.BigEndian.PutUint32(data[16:20], w)
	binary.BigEndian.PutUint32(data[20:24], h)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func TestImageNormalizer_SkipsOversizedHeaders(t *testing.T) {
	next := &captureUploader{}
	n := NewImageNormalizer(next, 64)

	bomb := media.FileUpload{Filename: "bomb.png", ContentType: "image/png", Data: hugePNG(t, 30000, 30000)}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(bomb.Data))
	require.NoError(t, err)
	require.Equal(t, 30000, cfg.Width)

	_, err = n.Upload(context.Background(), media.FolderProfilePhotos, bomb)
	require.NoError(t, err)
	require.Len(t, next.got, 1)
	assert.Equal(t, bomb, next.got[0])
}

func TestImageNormalizer_KeepsGIFFormat(t *testing.T) {
	next := &captureUploader{}
	n := NewImageNormalizer(next, 64)

	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, image.NewPaletted(image.Rect(0, 0, 200, 100), color.Palette{color.Black, color.White}), nil))
	_, err := n.Upload(context.Background(), media.FolderProfilePhotos, media.FileUpload{
		Filename: "me.gif", ContentType: "image/gif", Data: buf.Bytes(),
	})
	require.NoError(t, err)

	out := next.got[0]
	assert.Equal(t, "me.gif", out.Filename)
	assert.Equal(t, "image/gif", out.ContentType)
	cfg, format, err := image.DecodeConfig(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, "gif", format)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 32, cfg.Height)
}

func TestBreakerUploader_OpensAfterFailures(t *testing.T) {
	next := &captureUploader{err: errors.New("storage down")}
	b := NewBreakerUploader(next, BreakerSettings{MaxFailures: 2, OpenTimeout: time.Minute}, nil)
	ctx := context.Background()
	f := media.FileUpload{Filename: "a.txt", Data: []byte("a")}

	for i := 0; i < 2; i++ {
		_, err := b.Upload(ctx, media.FolderResumes, f)
		assert.EqualError(t, err, "storage down")
	}
	assert.Equal(t, "open", b.State())

	_, err := b.Upload(ctx, media.FolderResumes, f)
	assert.Error(t, err)
	assert.Len(t, next.got, 2, "open breaker must not reach storage")
}

func TestBreakerUploader_CallTimeout(t *testing.T) {
	next := &captureUploader{delay: time.Second}
	b := NewBreakerUploader(next, BreakerSettings{CallTimeout: 20 * time.Millisecond}, nil)

	_, err := b.Upload(context.Background(), media.FolderResumes, media.FileUpload{Filename: "a.txt"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBreakerUploader_Success(t *testing.T) {
	b := NewBreakerUploader(&captureUploader{}, BreakerSettings{}, nil)
	url, err := b.Upload(context.Background(), media.FolderResumes, media.FileUpload{Filename: "a.txt"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/resumes/a.txt", url)
	assert.Equal(t, "closed", b.State())
}

func TestS3ObjectURL(t *testing.T) {
	u := &S3Uploader{opts: S3Options{Bucket: "media", Region: "eu-west-1"}}
	assert.Equal(t, "https://media.s3.eu-west-1.amazonaws.com/resumes/x.pdf", u.objectURL("resumes/x.pdf"))

	u.opts.Endpoint = "http://localhost:9000/"
	assert.Equal(t, "http://localhost:9000/media/resumes/x.pdf", u.objectURL("resumes/x.pdf"))

	u.opts.PublicBaseURL = "https://cdn.example.com/"
	assert.Equal(t, "https://cdn.example.com/resumes/x.pdf", u.objectURL("resumes/x.pdf"))
}
