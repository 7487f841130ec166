package objectstore

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/oksasatya/job-portal/internal/domain/media"
)

type BreakerSettings struct {
	MaxFailures int
	OpenTimeout time.Duration
	// CallTimeout bounds a single upload; zero means no extra bound
	CallTimeout time.Duration
}

// BreakerUploader bounds each upload with a timeout and stops calling the
// storage provider for a while after repeated failures.
type BreakerUploader struct {
	next    media.Uploader
	cb      *gobreaker.CircuitBreaker
	timeout time.Duration
}

func NewBreakerUploader(next media.Uploader, s BreakerSettings, logger *logrus.Logger) *BreakerUploader {
	maxFailures := uint32(5)
	if s.MaxFailures > 0 {
		maxFailures = uint32(s.MaxFailures)
	}
	st := gobreaker.Settings{
		Name:        "media-upload",
		MaxRequests: 1,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			if logger != nil {
				logger.WithFields(logrus.Fields{
					"breaker": name,
					"from":    from.String(),
					"to":      to.String(),
				}).Warn("circuit breaker state")
			}
		},
	}
	return &BreakerUploader{next: next, cb: gobreaker.NewCircuitBreaker(st), timeout: s.CallTimeout}
}

func (b *BreakerUploader) Upload(ctx context.Context, folder string, f media.FileUpload) (string, error) {
	res, err := b.cb.Execute(func() (interface{}, error) {
		c := ctx
		if b.timeout > 0 {
			var cancel context.CancelFunc
			c, cancel = context.WithTimeout(ctx, b.timeout)
			defer cancel()
		}
		return b.next.Upload(c, folder, f)
	})
	if err != nil {
		return "", err
	}
	return res.(string), nil
}

// State exposes the breaker state for debug output.
func (b *BreakerUploader) State() string { return b.cb.State().String() }

var _ media.Uploader = (*BreakerUploader)(nil)
