package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/job-portal/internal/application"
	domainerrors "github.com/oksasatya/job-portal/internal/domain/errors"
	"github.com/oksasatya/job-portal/internal/interface/middleware"
	"github.com/oksasatya/job-portal/pkg/response"
	"github.com/oksasatya/job-portal/pkg/validation"
)

type ApplicationHandler struct {
	Svc    *application.ApplicationService
	Logger *logrus.Logger
}

func NewApplicationHandler(svc *application.ApplicationService, logger *logrus.Logger) *ApplicationHandler {
	return &ApplicationHandler{Svc: svc, Logger: logger}
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Apply GET /application/apply/:id (student)
func (h *ApplicationHandler) Apply(c *gin.Context) {
	app, err := h.Svc.Apply(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id"))
	if err != nil {
		response.Fail(c, err, h.Logger)
		return
	}
	response.Success(c, http.StatusCreated, "Job applied successfully.", gin.H{"application": app})
}

// Applied GET /application/get
func (h *ApplicationHandler) Applied(c *gin.Context) {
	apps, err := h.Svc.ListApplied(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		response.Fail(c, err, h.Logger)
		return
	}
	response.Success(c, http.StatusOK, "Applications fetched successfully.", gin.H{"application": apps})
}

// Applicants GET /application/:id/applicants (owning recruiter)
func (h *ApplicationHandler) Applicants(c *gin.Context) {
	job, applicants, err := h.Svc.ListApplicants(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id"))
	if err != nil {
		response.Fail(c, err, h.Logger)
		return
	}
	response.Success(c, http.StatusOK, "Applicants fetched successfully.", gin.H{"job": job, "applicants": applicants})
}

// UpdateStatus POST /application/status/:id/update {status}
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, domainerrors.ErrInvalidPayload.WithDetails(validation.ToDetails(err)), h.Logger)
		return
	}
	app, err := h.Svc.UpdateStatus(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id"), req.Status)
	if err != nil {
		response.Fail(c, err, h.Logger)
		return
	}
	response.Success(c, http.StatusOK, "Status updated successfully.", gin.H{"application": app})
}
