package application

import (
	"context"
	"time"

	"github.com/oksasatya/job-portal/internal/domain/entity"
)

// TokenDenylist remembers revoked session token ids.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// EmailPublisher enqueues a JSON message for the email worker.
type EmailPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// JobSearcher is the optional full-text index for job postings.
type JobSearcher interface {
	IndexJob(ctx context.Context, j *entity.Job) error
	SearchJobIDs(ctx context.Context, keyword string, size int) ([]string, error)
}

// ProfileCache holds sanitized profile views for the public lookup.
// Invalidate fences out versions older than version, so a Set carrying a
// view read before the invalidating write is ignored.
type ProfileCache interface {
	Get(ctx context.Context, userID string) (*entity.UserView, bool)
	Set(ctx context.Context, v entity.UserView, version int64)
	Invalidate(ctx context.Context, userID string, version int64)
}
