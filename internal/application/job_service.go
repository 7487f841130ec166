package application

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/job-portal/internal/domain/entity"
	domainerrors "github.com/oksasatya/job-portal/internal/domain/errors"
	repo "github.com/oksasatya/job-portal/internal/domain/repository"
)

const searchCandidates = 200

type JobService struct {
	Jobs   repo.JobRepository
	Users  repo.UserRepository
	Search JobSearcher
	Logger *logrus.Logger
}

func NewJobService(jobs repo.JobRepository, users repo.UserRepository, search JobSearcher, logger *logrus.Logger) *JobService {
	return &JobService{Jobs: jobs, Users: users, Search: search, Logger: logger}
}

type PostJobInput struct {
	Title       string
	Description string
	// Requirements may hold one entry per requirement or a single
	// sentence-separated blob.
	Requirements    []string
	Salary          float64
	Location        string
	JobType         string
	ExperienceLevel int
	Position        int
	CompanyName     string
}

func (s *JobService) PostJob(ctx context.Context, userID string, in PostJobInput) (*entity.Job, error) {
	if _, err := s.requireRole(ctx, userID, entity.RoleRecruiter, domainerrors.ErrRecruiterOnly); err != nil {
		return nil, err
	}
	j := &entity.Job{
		Title:           strings.TrimSpace(in.Title),
		Description:     strings.TrimSpace(in.Description),
		Requirements:    ParseRequirements(in.Requirements),
		Salary:          in.Salary,
		Location:        strings.TrimSpace(in.Location),
		JobType:         strings.TrimSpace(in.JobType),
		ExperienceLevel: in.ExperienceLevel,
		Position:        in.Position,
		CompanyName:     strings.TrimSpace(in.CompanyName),
		CreatedBy:       userID,
	}
	if j.Title == "" || j.Description == "" || j.Location == "" || j.JobType == "" || j.CompanyName == "" {
		return nil, domainerrors.ErrMissingFields
	}
	details := map[string]string{}
	if j.Salary < 0 {
		details["salary"] = "must be greater than or equal to 0"
	}
	if j.Position < 1 {
		details["position"] = "must be at least 1"
	}
	if j.ExperienceLevel < 0 {
		details["experienceLevel"] = "must be greater than or equal to 0"
	}
	if len(details) > 0 {
		return nil, domainerrors.ErrInvalidPayload.WithDetails(details)
	}
	if err := s.Jobs.Create(ctx, j); err != nil {
		return nil, domainerrors.Wrap(err, "create job")
	}
	metricJobsPosted.Add(1)
	if s.Search != nil {
		if err := s.Search.IndexJob(ctx, j); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("job_id", j.ID).Warn("job indexing failed, keyword search falls back to database")
		}
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"job_id": j.ID, "user_id": userID}).Info("job posted")
	}
	return j, nil
}

// JobFilter mirrors the filters of the job listing page.
type JobFilter struct {
	Keyword     string
	Location    string
	JobType     string // "" or "All" means any
	SalaryRange string // "min-max"; a missing max means no upper bound
	Sort        string // latest (default) or oldest
}

func (s *JobService) ListJobs(ctx context.Context, f JobFilter) ([]*entity.Job, error) {
	q := repo.JobQuery{
		Keyword:     strings.TrimSpace(f.Keyword),
		Location:    strings.TrimSpace(f.Location),
		OldestFirst: strings.EqualFold(strings.TrimSpace(f.Sort), "oldest"),
	}
	if jt := strings.TrimSpace(f.JobType); jt != "" && !strings.EqualFold(jt, "all") {
		q.JobType = jt
	}
	if f.SalaryRange != "" {
		lo, hi, err := ParseSalaryRange(f.SalaryRange)
		if err != nil {
			return nil, err
		}
		q.MinSalary, q.MaxSalary = lo, hi
	}

	if q.Keyword != "" && s.Search != nil {
		ids, err := s.Search.SearchJobIDs(ctx, q.Keyword, searchCandidates)
		if err == nil {
			if len(ids) == 0 {
				return []*entity.Job{}, nil
			}
			q.IDs = ids
			q.Keyword = ""
		} else if s.Logger != nil {
			s.Logger.WithError(err).Warn("job search failed, falling back to database filter")
		}
	}

	jobs, err := s.Jobs.Find(ctx, q)
	if err != nil {
		return nil, domainerrors.Wrap(err, "find jobs")
	}
	return jobs, nil
}

func (s *JobService) GetJob(ctx context.Context, id string) (*entity.Job, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domainerrors.ErrMissingID
	}
	j, err := s.Jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, domainerrors.ErrJobNotFound
		}
		return nil, domainerrors.Wrap(err, "load job")
	}
	return j, nil
}

// ListRecruiterJobs returns the postings created by the calling recruiter.
func (s *JobService) ListRecruiterJobs(ctx context.Context, userID string) ([]*entity.Job, error) {
	if _, err := s.requireRole(ctx, userID, entity.RoleRecruiter, domainerrors.ErrRecruiterOnly); err != nil {
		return nil, err
	}
	jobs, err := s.Jobs.Find(ctx, repo.JobQuery{CreatedBy: userID})
	if err != nil {
		return nil, domainerrors.Wrap(err, "find jobs")
	}
	return jobs, nil
}

func (s *JobService) requireRole(ctx context.Context, userID string, role entity.Role, denied error) (*entity.User, error) {
	return requireRole(ctx, s.Users, userID, role, denied)
}

func requireRole(ctx context.Context, users repo.UserRepository, userID string, role entity.Role, denied error) (*entity.User, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domainerrors.ErrUnauthenticated
	}
	u, err := users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}
		return nil, domainerrors.Wrap(err, "load user")
	}
	if u.Role != role {
		return nil, denied
	}
	return u, nil
}

// ParseRequirements splits every entry on sentence ends and newlines,
// trims the pieces, drops empty ones and terminates each with a period.
func ParseRequirements(raw []string) []string {
	out := []string{}
	for _, r := range raw {
		pieces := strings.FieldsFunc(r, func(c rune) bool { return c == '.' || c == '\n' || c == '\r' })
		for _, p := range pieces {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p+".")
			}
		}
	}
	return out
}

// ParseSalaryRange parses "min-max", "min-" or "min". A nil max means unbounded.
func ParseSalaryRange(s string) (*float64, *float64, error) {
	invalid := domainerrors.ErrInvalidPayload.WithDetails(map[string]string{"salaryRange": "must look like min-max"})
	loStr, hiStr, _ := strings.Cut(strings.TrimSpace(s), "-")
	lo, err := strconv.ParseFloat(strings.TrimSpace(loStr), 64)
	if err != nil || lo < 0 {
		return nil, nil, invalid
	}
	hiStr = strings.TrimSpace(hiStr)
	if hiStr == "" {
		return &lo, nil, nil
	}
	hi, err := strconv.ParseFloat(hiStr, 64)
	if err != nil || hi < lo {
		return nil, nil, invalid
	}
	return &lo, &hi, nil
}
