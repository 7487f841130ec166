package repository

import (
	"context"

	"github.com/oksasatya/job-portal/internal/domain/entity"
)

type ApplicationRepository interface {
	// Create returns ErrDuplicateKey if the applicant already applied to the job.
	Create(ctx context.Context, a *entity.JobApplication) error
	GetByID(ctx context.Context, id string) (*entity.JobApplication, error)
	GetByJobAndApplicant(ctx context.Context, jobID, applicantID string) (*entity.JobApplication, error)
	Delete(ctx context.Context, id string) error
	ListByApplicant(ctx context.Context, applicantID string) ([]*entity.JobApplication, error)
	ListByJob(ctx context.Context, jobID string) ([]*entity.JobApplication, error)
	UpdateStatus(ctx context.Context, id string, status entity.ApplicationStatus) error
}
