package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/job-portal/internal/application"
	domainerrors "github.com/oksasatya/job-portal/internal/domain/errors"
	"github.com/oksasatya/job-portal/internal/interface/middleware"
	"github.com/oksasatya/job-portal/pkg/helpers"
	"github.com/oksasatya/job-portal/pkg/response"
	"github.com/oksasatya/job-portal/pkg/validation"
)

type UserHandler struct {
	Svc            *application.AccountService
	Logger         *logrus.Logger
	Cookies        *helpers.Manager
	MaxUploadBytes int64
}

func NewUserHandler(svc *application.AccountService, logger *logrus.Logger, cookies *helpers.Manager, maxUploadBytes int64) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, Cookies: cookies, MaxUploadBytes: maxUploadBytes}
}

type registerRequest struct {
	Fullname    string `form:"fullname"`
	Email       string `form:"email" binding:"omitempty,email"`
	PhoneNumber string `form:"phoneNumber"`
	Password    string `form:"password"`
	Role        string `form:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type updateProfileRequest struct {
	Fullname    string `form:"fullname"`
	Email       string `form:"email" binding:"omitempty,email"`
	PhoneNumber string `form:"phoneNumber"`
	Bio         string `form:"bio"`
	Skills      string `form:"skills"`
}

// Register POST /user/register (multipart, optional "file" photo)
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Fail(c, domainerrors.ErrInvalidPayload.WithDetails(validation.ToDetails(err)), h.Logger)
		return
	}
	photo, err := formFile(c, "file", h.MaxUploadBytes)
	if err != nil {
		response.Fail(c, err, h.Logger)
		return
	}
	err = h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Fullname:    req.Fullname,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
		Role:        req.Role,
		Photo:       photo,
	})
	if err != nil {
		response.Fail(c, err, h.Logger)
		return
	}
	response.Success(c, http.StatusCreated, "Account created successfully.", nil)
}

// Login POST /user/login {email, password, role}
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, domainerrors.ErrInvalidPayload.WithDetails(validation.ToDetails(err)), h.Logger)
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), application.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		response.Fail(c, err, h.Logger)
		return
	}
	h.Cookies.Set(c, res.Token, res.ExpiresAt)
	response.Success(c, http.StatusOK, "Welcome back "+res.User.Fullname, gin.H{"user": res.User})
}

// Logout GET /user/logout
func (h *UserHandler) Logout(c *gin.Context) {
	h.Svc.Logout(c.Request.Context(), h.Cookies.Token(c))
	h.Cookies.Clear(c)
	response.Success(c, http.StatusOK, "Logged out successfully.", nil)
}

// UpdateProfile POST /user/profile/update (auth, multipart, optional "resume" and "profile" files)
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if uid == "" {
		response.Fail(c, domainerrors.ErrUnauthenticated, h.Logger)
		return
	}
	var req updateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Fail(c, domainerrors.ErrInvalidPayload.WithDetails(validation.ToDetails(err)), h.Logger)
		return
	}
	resume, err := formFile(c, "resume", h.MaxUploadBytes)
	if err != nil {
		response.Fail(c, err, h.Logger)
		return
	}
	photo, err := formFile(c, "profile", h.MaxUploadBytes)
	if err != nil {
		response.Fail(c, err, h.Logger)
		return
	}
	user, err := h.Svc.UpdateProfile(c.Request.Context(), uid, application.UpdateProfileInput{
		Fullname:    application.OptionalString(req.Fullname),
		Email:       application.OptionalString(req.Email),
		PhoneNumber: application.OptionalString(req.PhoneNumber),
		Bio:         application.OptionalString(req.Bio),
		Skills:      application.OptionalString(req.Skills),
		Resume:      resume,
		Photo:       photo,
	})
	if err != nil {
		response.Fail(c, err, h.Logger)
		return
	}
	response.Success(c, http.StatusOK, "Profile updated successfully.", gin.H{"user": user})
}

// FetchUser GET /user/fetchuser?id=<id>
func (h *UserHandler) FetchUser(c *gin.Context) {
	user, err := h.Svc.FetchByID(c.Request.Context(), c.Query("id"))
	if err != nil {
		response.Fail(c, err, h.Logger)
		return
	}
	response.Success(c, http.StatusOK, "User profile: "+user.Fullname, gin.H{"user": user})
}
