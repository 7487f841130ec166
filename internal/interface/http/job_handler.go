package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/job-portal/internal/application"
	domainerrors "github.com/oksasatya/job-portal/internal/domain/errors"
	"github.com/oksasatya/job-portal/internal/interface/middleware"
	"github.com/oksasatya/job-portal/pkg/response"
	"github.com/oksasatya/job-portal/pkg/validation"
)

type JobHandler struct {
	Svc    *application.JobService
	Logger *logrus.Logger
}

func NewJobHandler(svc *application.JobService, logger *logrus.Logger) *JobHandler {
	return &JobHandler{Svc: svc, Logger: logger}
}

// requirementList accepts either a JSON array of strings or a single string.
type requirementList []string

func (r *requirementList) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*r = list
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*r = []string{s}
	return nil
}

type postJobRequest struct {
	Title           string          `json:"title" binding:"required"`
	Description     string          `json:"description" binding:"required"`
	Requirements    requirementList `json:"requirements"`
	Salary          float64         `json:"salary" binding:"gte=0"`
	Location        string          `json:"location" binding:"required"`
	JobType         string          `json:"jobType" binding:"required"`
	ExperienceLevel int             `json:"experienceLevel" binding:"gte=0"`
	Position        int             `json:"position" binding:"required,min=1"`
	CompanyName     string          `json:"companyName" binding:"required"`
}

// PostJob POST /job/post (recruiter)
func (h *JobHandler) PostJob(c *gin.Context) {
	var req postJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, domainerrors.ErrInvalidPayload.WithDetails(validation.ToDetails(err)), h.Logger)
		return
	}
	job, err := h.Svc.PostJob(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), application.PostJobInput{
		Title:           req.Title,
		Description:     req.Description,
		Requirements:    req.Requirements,
		Salary:          req.Salary,
		Location:        req.Location,
		JobType:         req.JobType,
		ExperienceLevel: req.ExperienceLevel,
		Position:        req.Position,
		CompanyName:     req.CompanyName,
	})
	if err != nil {
		response.Fail(c, err, h.Logger)
		return
	}
	response.Success(c, http.StatusCreated, "New job created successfully.", gin.H{"job": job})
}

// ListJobs GET /job/get?keyword=&location=&jobType=&salaryRange=&sort=
func (h *JobHandler) ListJobs(c *gin.Context) {
	keyword := c.Query("keyword")
	if keyword == "" {
		keyword = c.Query("search")
	}
	jobs, err := h.Svc.ListJobs(c.Request.Context(), application.JobFilter{
		Keyword:     keyword,
		Location:    c.Query("location"),
		JobType:     c.Query("jobType"),
		SalaryRange: c.Query("salaryRange"),
		Sort:        strings.ToLower(c.DefaultQuery("sort", "latest")),
	})
	if err != nil {
		response.Fail(c, err, h.Logger)
		return
	}
	response.Success(c, http.StatusOK, "Jobs fetched successfully.", gin.H{"jobs": jobs})
}

// GetJob GET /job/get/:id
func (h *JobHandler) GetJob(c *gin.Context) {
	job, err := h.Svc.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, err, h.Logger)
		return
	}
	response.Success(c, http.StatusOK, "Job fetched successfully.", gin.H{"job": job})
}

// AdminJobs GET /job/getadminjobs (recruiter)
func (h *JobHandler) AdminJobs(c *gin.Context) {
	jobs, err := h.Svc.ListRecruiterJobs(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		response.Fail(c, err, h.Logger)
		return
	}
	response.Success(c, http.StatusOK, "Jobs fetched successfully.", gin.H{"jobs": jobs})
}
