package repository

import (
	"context"

	"github.com/oksasatya/job-portal/internal/domain/entity"
)

// JobQuery is the storage-side part of a job search. Zero values mean "no filter".
type JobQuery struct {
	IDs         []string // restrict to these ids (search engine candidates)
	Keyword     string   // case-insensitive match on title, description, location
	Location    string   // case-insensitive substring
	JobType     string   // exact match
	MinSalary   *float64
	MaxSalary   *float64
	CreatedBy   string
	OldestFirst bool
	Limit       int64
}

type JobRepository interface {
	Create(ctx context.Context, j *entity.Job) error
	GetByID(ctx context.Context, id string) (*entity.Job, error)
	Find(ctx context.Context, q JobQuery) ([]*entity.Job, error)
	AddApplication(ctx context.Context, jobID, applicationID string) error
}
