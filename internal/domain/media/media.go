// Package media declares the upload relay port used by the account service.
package media

import "context"

const (
	FolderProfilePhotos = "profile-photos"
	FolderResumes       = "resumes"
)

// FileUpload is a file received in a multipart request, fully buffered.
type FileUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

func (f *FileUpload) Size() int { return len(f.Data) }

// Uploader stores a file under folder and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, folder string, file FileUpload) (string, error)
}
