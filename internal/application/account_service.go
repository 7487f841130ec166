package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/job-portal/internal/domain/entity"
	domainerrors "github.com/oksasatya/job-portal/internal/domain/errors"
	"github.com/oksasatya/job-portal/internal/domain/media"
	repo "github.com/oksasatya/job-portal/internal/domain/repository"
	"github.com/oksasatya/job-portal/pkg/helpers"
)

// updateAttempts bounds how often a profile update is re-applied after
// losing an optimistic version check.
const updateAttempts = 3

type AccountService struct {
	Users    repo.UserRepository
	Hasher   *helpers.PasswordHasher
	JWT      *helpers.JWTManager
	Media    media.Uploader
	Denylist TokenDenylist
	Notifier *Notifier
	Logger   *logrus.Logger
	// Cache is optional; nil disables profile caching.
	Cache ProfileCache
}

func NewAccountService(users repo.UserRepository, hasher *helpers.PasswordHasher, jwt *helpers.JWTManager, uploader media.Uploader, denylist TokenDenylist, notifier *Notifier, logger *logrus.Logger) *AccountService {
	return &AccountService{
		Users:    users,
		Hasher:   hasher,
		JWT:      jwt,
		Media:    uploader,
		Denylist: denylist,
		Notifier: notifier,
		Logger:   logger,
	}
}

type RegisterInput struct {
	Fullname    string
	Email       string
	PhoneNumber string
	Password    string
	Role        string
	Photo       Optional[media.FileUpload]
}

// Register creates the account. It does not start a session.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) error {
	fullname := strings.TrimSpace(in.Fullname)
	email := strings.TrimSpace(in.Email)
	phone := strings.TrimSpace(in.PhoneNumber)
	roleStr := strings.TrimSpace(in.Role)
	if fullname == "" || email == "" || phone == "" || in.Password == "" || roleStr == "" {
		return domainerrors.ErrMissingFields
	}
	role, ok := entity.ParseRole(roleStr)
	if !ok {
		return domainerrors.ErrInvalidRole
	}

	existing, err := s.Users.GetByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		return domainerrors.ErrEmailTaken
	case err != nil && !errors.Is(err, repo.ErrNotFound):
		return domainerrors.Wrap(err, "lookup email")
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return domainerrors.Wrap(err, "hash password")
	}

	u := &entity.User{
		Fullname:     fullname,
		Email:        email,
		PhoneNumber:  phone,
		PasswordHash: hash,
		Role:         role,
		Profile:      entity.Profile{Skills: []string{}},
	}
	if photo, ok := in.Photo.Get(); ok {
		url, err := s.upload(ctx, media.FolderProfilePhotos, photo)
		if err != nil {
			return err
		}
		u.Profile.ProfilePhotoURL = url
	}

	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateKey) {
			return domainerrors.ErrEmailTaken
		}
		return domainerrors.Wrap(err, "create user")
	}
	metricAccountsRegistered.Add(1)
	s.logInfo("account registered", logrus.Fields{"user_id": u.ID, "role": u.Role})
	s.Notifier.Welcome(ctx, u)
	return nil
}

type LoginInput struct {
	Email    string
	Password string
	Role     string
}

type LoginResult struct {
	Token     string
	TokenID   string
	ExpiresAt time.Time
	User      entity.UserView
}

// Login verifies credentials and issues a session token.
//
// The password comparison runs even when the email is unknown (against a
// dummy hash) and the role comparison runs even when the password is wrong,
// so every failed attempt does the same work.
func (s *AccountService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	email := strings.TrimSpace(in.Email)
	role := strings.TrimSpace(in.Role)
	if email == "" || in.Password == "" || role == "" {
		return nil, domainerrors.ErrMissingFields
	}

	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, domainerrors.Wrap(err, "lookup email")
	}
	found := err == nil && u != nil

	hash := s.Hasher.DummyHash()
	storedRole := ""
	if found {
		hash = u.PasswordHash
		storedRole = u.Role.String()
	}
	passwordOK := s.Hasher.Compare(hash, in.Password)
	roleOK := storedRole == role

	if !found || !passwordOK {
		metricLoginsFailed.Add(1)
		return nil, domainerrors.ErrInvalidCredentials
	}
	if !roleOK {
		metricLoginsFailed.Add(1)
		return nil, domainerrors.ErrRoleMismatch
	}

	token, tokenID, exp, err := s.JWT.GenerateToken(u.ID)
	if err != nil {
		return nil, domainerrors.Wrap(err, "generate token")
	}
	metricLoginsSucceeded.Add(1)
	s.logInfo("login succeeded", logrus.Fields{"user_id": u.ID})
	return &LoginResult{Token: token, TokenID: tokenID, ExpiresAt: exp, User: u.View()}, nil
}

// Logout revokes token until its natural expiry when a denylist is
// configured. It always succeeds; a missing or invalid token has nothing
// left to revoke.
func (s *AccountService) Logout(ctx context.Context, token string) {
	if s.Denylist == nil || token == "" {
		return
	}
	claims, err := s.JWT.ParseToken(token)
	if err != nil || claims.ExpiresAt == nil {
		return
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.Denylist.Revoke(ctx, claims.TokenID(), ttl); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", claims.UserID).Warn("token revoke failed")
	}
}

type UpdateProfileInput struct {
	Fullname    Optional[string]
	Email       Optional[string]
	PhoneNumber Optional[string]
	Bio         Optional[string]
	// Skills is the raw comma separated list
	Skills Optional[string]
	Resume Optional[media.FileUpload]
	Photo  Optional[media.FileUpload]
}

// profileChanges are the resolved field values of an update, uploads
// included, so they can be re-applied to a fresher copy of the user.
type profileChanges struct {
	fullname    Optional[string]
	email       Optional[string]
	phoneNumber Optional[string]
	bio         Optional[string]
	skills      Optional[[]string]
	resumeURL   Optional[string]
	resumeName  Optional[string]
	photoURL    Optional[string]
}

func (c *profileChanges) empty() bool {
	return !c.fullname.IsSet() && !c.email.IsSet() && !c.phoneNumber.IsSet() && !c.bio.IsSet() &&
		!c.skills.IsSet() && !c.resumeURL.IsSet() && !c.photoURL.IsSet()
}

// apply writes the changes into u and returns the names of the fields set.
func (c *profileChanges) apply(u *entity.User) map[string]string {
	changed := map[string]string{}
	if v, ok := c.fullname.Get(); ok {
		u.Fullname = v
		changed["fullname"] = v
	}
	if v, ok := c.email.Get(); ok {
		u.Email = v
		changed["email"] = v
	}
	if v, ok := c.phoneNumber.Get(); ok {
		u.PhoneNumber = v
		changed["phoneNumber"] = v
	}
	if v, ok := c.bio.Get(); ok {
		u.Profile.Bio = v
		changed["bio"] = "updated"
	}
	if v, ok := c.skills.Get(); ok {
		u.Profile.Skills = append([]string(nil), v...)
		changed["skills"] = strings.Join(v, ", ")
	}
	if v, ok := c.resumeURL.Get(); ok {
		u.Profile.ResumeURL = v
		name, _ := c.resumeName.Get()
		u.Profile.ResumeOriginalName = name
		changed["resume"] = name
	}
	if v, ok := c.photoURL.Get(); ok {
		u.Profile.ProfilePhotoURL = v
		changed["profilePhoto"] = "updated"
	}
	return changed
}

// UpdateProfile applies the fields present in in to the user's account.
// Files are uploaded first and their URLs folded into the pending update;
// the update is written once with an optimistic version check. When an
// upload fails the remaining changes are still written and the returned
// ErrMediaUpload names the failed fields in its details.
func (s *AccountService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (entity.UserView, error) {
	if strings.TrimSpace(userID) == "" {
		return entity.UserView{}, domainerrors.ErrUnauthenticated
	}
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return entity.UserView{}, err
	}

	ch := profileChanges{
		fullname:    in.Fullname,
		email:       in.Email,
		phoneNumber: in.PhoneNumber,
		bio:         in.Bio,
	}
	if raw, ok := in.Skills.Get(); ok {
		ch.skills = Some(ParseSkills(raw))
	}
	// Uploads are independent: each success is kept even when the other fails.
	failed := map[string]string{}
	if f, ok := in.Resume.Get(); ok {
		if url, err := s.upload(ctx, media.FolderResumes, f); err != nil {
			s.logUploadFailure(userID, "resume", err)
			failed["resume"] = "upload failed"
		} else {
			ch.resumeURL = Some(url)
			ch.resumeName = Some(f.Filename)
		}
	}
	if f, ok := in.Photo.Get(); ok {
		if url, err := s.upload(ctx, media.FolderProfilePhotos, f); err != nil {
			s.logUploadFailure(userID, "profilePhoto", err)
			failed["profilePhoto"] = "upload failed"
		} else {
			ch.photoURL = Some(url)
		}
	}
	var uploadErr error
	if len(failed) > 0 {
		uploadErr = domainerrors.ErrMediaUpload.WithDetails(failed)
	}

	if ch.empty() {
		return u.View(), uploadErr
	}

	changed := ch.apply(u)
	backoff := retry.WithMaxRetries(updateAttempts-1, retry.NewConstant(20*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := s.Users.Update(ctx, u)
		if !errors.Is(err, repo.ErrVersionConflict) {
			return err
		}
		fresh, gErr := s.Users.GetByID(ctx, userID)
		if gErr != nil {
			return gErr
		}
		u = fresh
		changed = ch.apply(u)
		return retry.RetryableError(err)
	})
	switch {
	case err == nil:
	case errors.Is(err, repo.ErrVersionConflict):
		return entity.UserView{}, domainerrors.ErrConcurrentUpdate
	case errors.Is(err, repo.ErrNotFound):
		return entity.UserView{}, domainerrors.ErrUserNotFound
	case errors.Is(err, repo.ErrDuplicateKey):
		return entity.UserView{}, domainerrors.ErrEmailTaken
	default:
		return entity.UserView{}, domainerrors.Wrap(err, "update user")
	}

	if s.Cache != nil {
		s.Cache.Invalidate(ctx, u.ID, u.Version)
	}
	metricProfileUpdates.Add(1)
	s.logInfo("profile updated", logrus.Fields{"user_id": u.ID, "fields": len(changed)})
	s.Notifier.ProfileUpdated(ctx, u, changed)
	return u.View(), uploadErr
}

// FetchByID is the public profile lookup. The result is always sanitized.
func (s *AccountService) FetchByID(ctx context.Context, id string) (entity.UserView, error) {
	if strings.TrimSpace(id) == "" {
		return entity.UserView{}, domainerrors.ErrMissingID
	}
	if s.Cache != nil {
		if v, ok := s.Cache.Get(ctx, strings.TrimSpace(id)); ok {
			return *v, nil
		}
	}
	u, err := s.loadUser(ctx, id)
	if err != nil {
		return entity.UserView{}, err
	}
	v := u.View()
	if s.Cache != nil {
		s.Cache.Set(ctx, v, u.Version)
	}
	return v, nil
}

func (s *AccountService) loadUser(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}
		return nil, domainerrors.Wrap(err, "load user")
	}
	return u, nil
}

func (s *AccountService) upload(ctx context.Context, folder string, f media.FileUpload) (string, error) {
	if s.Media == nil {
		return "", domainerrors.ErrMediaUpload.WithCause(errors.New("media uploader not configured"))
	}
	url, err := s.Media.Upload(ctx, folder, f)
	if err != nil {
		return "", domainerrors.ErrMediaUpload.WithCause(err)
	}
	return url, nil
}

func (s *AccountService) logUploadFailure(userID, field string, err error) {
	if s.Logger != nil {
		helpers.LogError(s.Logger, "profile upload failed", err, logrus.Fields{"user_id": userID, "field": field})
	}
}

func (s *AccountService) logInfo(msg string, fields logrus.Fields) {
	if s.Logger != nil {
		helpers.LogInfo(s.Logger, msg, fields)
	}
}

// ParseSkills splits a comma separated list, trimming items and dropping
// empty ones. Order is preserved.
func ParseSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
