package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/oksasatya/job-portal/internal/domain/entity"
	"github.com/oksasatya/job-portal/internal/domain/media"
	repo "github.com/oksasatya/job-portal/internal/domain/repository"
)

// --- users ---

type fakeUsers struct {
	mu     sync.Mutex
	byID   map[string]*entity.User
	nextID int

	updates int
	// conflicts makes the next N updates lose the version check after
	// racing is applied to the stored copy.
	conflicts int
	racing    func(u *entity.User)
	getErr    error
	// afterGet runs once, after the next GetByID has read its copy.
	afterGet func()
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[string]*entity.User{}}
}

func cloneUser(u *entity.User) *entity.User {
	cp := *u
	cp.Profile.Skills = append([]string(nil), u.Profile.Skills...)
	return &cp
}

func (f *fakeUsers) Create(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return repo.ErrDuplicateKey
		}
	}
	f.nextID++
	now := time.Now().UTC()
	u.ID = fmt.Sprintf("%024x", f.nextID)
	u.Version = 1
	u.CreatedAt, u.UpdatedAt = now, now
	f.byID[u.ID] = cloneUser(u)
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, err := f.getByID(id)
	f.mu.Lock()
	hook := f.afterGet
	f.afterGet = nil
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return u, err
}

func (f *fakeUsers) getByID(id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return cloneUser(u), nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUsers) Update(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	stored, ok := f.byID[u.ID]
	if !ok {
		return repo.ErrNotFound
	}
	if f.conflicts > 0 {
		f.conflicts--
		if f.racing != nil {
			f.racing(stored)
		}
		stored.Version++
		return repo.ErrVersionConflict
	}
	if stored.Version != u.Version {
		return repo.ErrVersionConflict
	}
	for id, other := range f.byID {
		if id != u.ID && other.Email == u.Email {
			return repo.ErrDuplicateKey
		}
	}
	u.Version++
	u.UpdatedAt = time.Now().UTC()
	f.byID[u.ID] = cloneUser(u)
	return nil
}

func (f *fakeUsers) GetManyByIDs(_ context.Context, ids []string) ([]*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*entity.User{}
	for _, id := range ids {
		if u, ok := f.byID[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (f *fakeUsers) stored(id string) *entity.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneUser(f.byID[id])
}

// --- media ---

type uploadCall struct {
	folder string
	file   media.FileUpload
}

type fakeUploader struct {
	calls []uploadCall
	err   error
	// failFolder limits err to one folder; empty means every folder fails.
	failFolder string
}

func (f *fakeUploader) Upload(_ context.Context, folder string, file media.FileUpload) (string, error) {
	f.calls = append(f.calls, uploadCall{folder: folder, file: file})
	if f.err != nil && (f.failFolder == "" || f.failFolder == folder) {
		return "", f.err
	}
	return fmt.Sprintf("https://cdn.example.com/%s/%d-%s", folder, len(f.calls), file.Filename), nil
}

// --- denylist ---

type fakeDenylist struct {
	revoked map[string]time.Duration
	err     error
}

func newFakeDenylist() *fakeDenylist {
	return &fakeDenylist{revoked: map[string]time.Duration{}}
}

func (f *fakeDenylist) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.revoked[tokenID] = ttl
	return nil
}

func (f *fakeDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.revoked[tokenID]
	return ok, nil
}

// --- profile cache ---

type fakeCache struct {
	views       map[string]entity.UserView
	fences      map[string]int64
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{views: map[string]entity.UserView{}, fences: map[string]int64{}}
}

func (f *fakeCache) Get(_ context.Context, id string) (*entity.UserView, bool) {
	v, ok := f.views[id]
	if !ok {
		return nil, false
	}
	return &v, true
}

func (f *fakeCache) Set(_ context.Context, v entity.UserView, version int64) {
	if version < f.fences[v.ID] {
		return
	}
	f.views[v.ID] = v
}

func (f *fakeCache) Invalidate(_ context.Context, id string, version int64) {
	if version > f.fences[id] {
		f.fences[id] = version
	}
	delete(f.views, id)
	f.invalidated = append(f.invalidated, id)
}

// --- jobs ---

type fakeJobs struct {
	mu     sync.Mutex
	byID   map[string]*entity.Job
	order  []string
	nextID int
	// lastQuery is the most recent Find argument.
	lastQuery repo.JobQuery
	findErr   error
	linkErr   error
}

func newFakeJobs() *fakeJobs {
	return &fakeJobs{byID: map[string]*entity.Job{}}
}

func (f *fakeJobs) Create(_ context.Context, j *entity.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	now := time.Now().UTC().Add(time.Duration(f.nextID) * time.Millisecond)
	j.ID = fmt.Sprintf("%024x", 1000+f.nextID)
	j.Applications = []string{}
	j.CreatedAt, j.UpdatedAt = now, now
	cp := *j
	f.byID[j.ID] = &cp
	f.order = append(f.order, j.ID)
	return nil
}

func (f *fakeJobs) GetByID(_ context.Context, id string) (*entity.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *j
	cp.Applications = append([]string(nil), j.Applications...)
	return &cp, nil
}

func (f *fakeJobs) Find(_ context.Context, q repo.JobQuery) ([]*entity.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuery = q
	if f.findErr != nil {
		return nil, f.findErr
	}
	var ids map[string]bool
	if q.IDs != nil {
		ids = map[string]bool{}
		for _, id := range q.IDs {
			ids[id] = true
		}
	}
	out := []*entity.Job{}
	for _, id := range f.order {
		j := f.byID[id]
		if ids != nil && !ids[id] {
			continue
		}
		if q.CreatedBy != "" && j.CreatedBy != q.CreatedBy {
			continue
		}
		if q.JobType != "" && j.JobType != q.JobType {
			continue
		}
		if q.MinSalary != nil && j.Salary < *q.MinSalary {
			continue
		}
		if q.MaxSalary != nil && j.Salary > *q.MaxSalary {
			continue
		}
		cp := *j
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(a, b int) bool {
		if q.OldestFirst {
			return out[a].CreatedAt.Before(out[b].CreatedAt)
		}
		return out[a].CreatedAt.After(out[b].CreatedAt)
	})
	return out, nil
}

func (f *fakeJobs) AddApplication(_ context.Context, jobID, applicationID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.linkErr != nil {
		return f.linkErr
	}
	j, ok := f.byID[jobID]
	if !ok {
		return repo.ErrNotFound
	}
	for _, a := range j.Applications {
		if a == applicationID {
			return nil
		}
	}
	j.Applications = append(j.Applications, applicationID)
	return nil
}

// --- applications ---

type fakeApplications struct {
	mu        sync.Mutex
	byID      map[string]*entity.JobApplication
	order     []string
	nextID    int
	deleteErr error
}

func newFakeApplications() *fakeApplications {
	return &fakeApplications{byID: map[string]*entity.JobApplication{}}
}

func (f *fakeApplications) Create(_ context.Context, a *entity.JobApplication) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.JobID == a.JobID && existing.Applicant == a.Applicant {
			return repo.ErrDuplicateKey
		}
	}
	f.nextID++
	a.ID = fmt.Sprintf("%024x", 5000+f.nextID)
	a.CreatedAt = time.Now().UTC()
	a.UpdatedAt = a.CreatedAt
	cp := *a
	f.byID[a.ID] = &cp
	f.order = append(f.order, a.ID)
	return nil
}

func (f *fakeApplications) GetByID(_ context.Context, id string) (*entity.JobApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeApplications) GetByJobAndApplicant(_ context.Context, jobID, applicantID string) (*entity.JobApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if a.JobID == jobID && a.Applicant == applicantID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeApplications) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.byID[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.byID, id)
	for i, oid := range f.order {
		if oid == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeApplications) list(match func(*entity.JobApplication) bool) []*entity.JobApplication {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*entity.JobApplication{}
	for i := len(f.order) - 1; i >= 0; i-- {
		a := f.byID[f.order[i]]
		if match(a) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out
}

func (f *fakeApplications) ListByApplicant(_ context.Context, applicantID string) ([]*entity.JobApplication, error) {
	return f.list(func(a *entity.JobApplication) bool { return a.Applicant == applicantID }), nil
}

func (f *fakeApplications) ListByJob(_ context.Context, jobID string) ([]*entity.JobApplication, error) {
	return f.list(func(a *entity.JobApplication) bool { return a.JobID == jobID }), nil
}

func (f *fakeApplications) UpdateStatus(_ context.Context, id string, status entity.ApplicationStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return repo.ErrNotFound
	}
	a.Status = status
	return nil
}

// --- search ---

type fakeSearch struct {
	indexed  []string
	ids      []string
	err      error
	indexErr error
}

func (f *fakeSearch) IndexJob(_ context.Context, j *entity.Job) error {
	if f.indexErr != nil {
		return f.indexErr
	}
	f.indexed = append(f.indexed, j.ID)
	return nil
}

func (f *fakeSearch) SearchJobIDs(_ context.Context, _ string, _ int) ([]string, error) {
	return f.ids, f.err
}

// --- email ---

type fakePublisher struct {
	mu   sync.Mutex
	msgs []any
	err  error
}

func (f *fakePublisher) PublishJSON(_ context.Context, body any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, body)
	return nil
}

var errBoom = errors.New("boom")
