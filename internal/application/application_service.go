package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/job-portal/internal/domain/entity"
	domainerrors "github.com/oksasatya/job-portal/internal/domain/errors"
	repo "github.com/oksasatya/job-portal/internal/domain/repository"
)

type ApplicationService struct {
	Applications repo.ApplicationRepository
	Jobs         repo.JobRepository
	Users        repo.UserRepository
	Notifier     *Notifier
	Logger       *logrus.Logger
}

func NewApplicationService(apps repo.ApplicationRepository, jobs repo.JobRepository, users repo.UserRepository, notifier *Notifier, logger *logrus.Logger) *ApplicationService {
	return &ApplicationService{Applications: apps, Jobs: jobs, Users: users, Notifier: notifier, Logger: logger}
}

// AppliedJob is an application of the caller together with its job.
type AppliedJob struct {
	entity.JobApplication
	Job *entity.Job `json:"job"`
}

// Applicant is an application on a recruiter's job with the sanitized applicant.
type Applicant struct {
	entity.JobApplication
	Applicant entity.UserView `json:"applicant"`
}

func (s *ApplicationService) Apply(ctx context.Context, userID, jobID string) (*entity.JobApplication, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, domainerrors.ErrMissingID
	}
	student, err := requireRole(ctx, s.Users, userID, entity.RoleStudent, domainerrors.ErrStudentOnly)
	if err != nil {
		return nil, err
	}
	job, err := s.loadJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	app := &entity.JobApplication{JobID: job.ID, Applicant: student.ID, Status: entity.StatusPending}
	if err := s.Applications.Create(ctx, app); err != nil {
		if errors.Is(err, repo.ErrDuplicateKey) {
			s.relinkExisting(ctx, job.ID, student.ID)
			return nil, domainerrors.ErrAlreadyApplied
		}
		return nil, domainerrors.Wrap(err, "create application")
	}
	if err := s.Jobs.AddApplication(ctx, job.ID, app.ID); err != nil {
		// without the link the application would block every retry
		if dErr := s.Applications.Delete(ctx, app.ID); dErr != nil && s.Logger != nil {
			s.Logger.WithError(dErr).WithField("application_id", app.ID).Error("rollback of unlinked application failed")
		}
		return nil, domainerrors.Wrap(err, "link application")
	}
	metricApplicationsCreated.Add(1)
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"job_id": job.ID, "user_id": student.ID}).Info("application created")
	}

	if s.Notifier != nil {
		if recruiter, err := s.Users.GetByID(ctx, job.CreatedBy); err == nil {
			s.Notifier.ApplicationReceived(ctx, recruiter, student, job)
		}
	}
	return app, nil
}

// relinkExisting repairs the job link of an application left behind by a
// failed rollback. AddApplication is idempotent, so linked ones are untouched.
func (s *ApplicationService) relinkExisting(ctx context.Context, jobID, applicantID string) {
	existing, err := s.Applications.GetByJobAndApplicant(ctx, jobID, applicantID)
	if err == nil {
		err = s.Jobs.AddApplication(ctx, jobID, existing.ID)
	}
	if err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("job_id", jobID).Warn("relink of existing application failed")
	}
}

// ListApplied returns the caller's applications, newest first.
func (s *ApplicationService) ListApplied(ctx context.Context, userID string) ([]AppliedJob, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domainerrors.ErrUnauthenticated
	}
	apps, err := s.Applications.ListByApplicant(ctx, userID)
	if err != nil {
		return nil, domainerrors.Wrap(err, "list applications")
	}
	if len(apps) == 0 {
		return []AppliedJob{}, nil
	}
	ids := make([]string, 0, len(apps))
	for _, a := range apps {
		ids = append(ids, a.JobID)
	}
	jobs, err := s.Jobs.Find(ctx, repo.JobQuery{IDs: ids})
	if err != nil {
		return nil, domainerrors.Wrap(err, "load jobs")
	}
	byID := make(map[string]*entity.Job, len(jobs))
	for _, j := range jobs {
		byID[j.ID] = j
	}
	out := make([]AppliedJob, 0, len(apps))
	for _, a := range apps {
		out = append(out, AppliedJob{JobApplication: *a, Job: byID[a.JobID]})
	}
	return out, nil
}

// ListApplicants returns the applications on a job owned by the calling recruiter.
func (s *ApplicationService) ListApplicants(ctx context.Context, userID, jobID string) (*entity.Job, []Applicant, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, nil, domainerrors.ErrMissingID
	}
	job, err := s.ownedJob(ctx, userID, jobID)
	if err != nil {
		return nil, nil, err
	}
	apps, err := s.Applications.ListByJob(ctx, job.ID)
	if err != nil {
		return nil, nil, domainerrors.Wrap(err, "list applications")
	}
	ids := make([]string, 0, len(apps))
	for _, a := range apps {
		ids = append(ids, a.Applicant)
	}
	users, err := s.Users.GetManyByIDs(ctx, ids)
	if err != nil {
		return nil, nil, domainerrors.Wrap(err, "load applicants")
	}
	byID := make(map[string]*entity.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	out := make([]Applicant, 0, len(apps))
	for _, a := range apps {
		item := Applicant{JobApplication: *a}
		if u, ok := byID[a.Applicant]; ok {
			item.Applicant = u.View()
		} else {
			item.Applicant = entity.UserView{ID: a.Applicant}
		}
		out = append(out, item)
	}
	return job, out, nil
}

// UpdateStatus lets the recruiter owning the job decide on an application.
func (s *ApplicationService) UpdateStatus(ctx context.Context, userID, applicationID, status string) (*entity.JobApplication, error) {
	if strings.TrimSpace(applicationID) == "" {
		return nil, domainerrors.ErrMissingID
	}
	st, ok := entity.ParseApplicationStatus(status)
	if !ok {
		return nil, domainerrors.ErrInvalidStatus
	}
	app, err := s.Applications.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, domainerrors.ErrApplicationNotFound
		}
		return nil, domainerrors.Wrap(err, "load application")
	}
	job, err := s.ownedJob(ctx, userID, app.JobID)
	if err != nil {
		return nil, err
	}
	if err := s.Applications.UpdateStatus(ctx, app.ID, st); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, domainerrors.ErrApplicationNotFound
		}
		return nil, domainerrors.Wrap(err, "update application")
	}
	app.Status = st

	if s.Notifier != nil {
		if applicant, err := s.Users.GetByID(ctx, app.Applicant); err == nil {
			s.Notifier.ApplicationStatus(ctx, applicant, job, st)
		}
	}
	return app, nil
}

func (s *ApplicationService) ownedJob(ctx context.Context, userID, jobID string) (*entity.Job, error) {
	if _, err := requireRole(ctx, s.Users, userID, entity.RoleRecruiter, domainerrors.ErrRecruiterOnly); err != nil {
		return nil, err
	}
	job, err := s.loadJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.CreatedBy != userID {
		return nil, domainerrors.ErrNotJobOwner
	}
	return job, nil
}

func (s *ApplicationService) loadJob(ctx context.Context, jobID string) (*entity.Job, error) {
	job, err := s.Jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, domainerrors.ErrJobNotFound
		}
		return nil, domainerrors.Wrap(err, "load job")
	}
	return job, nil
}
