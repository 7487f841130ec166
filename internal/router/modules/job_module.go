package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/job-portal/internal/container"
	handlers "github.com/oksasatya/job-portal/internal/interface/http"
	"github.com/oksasatya/job-portal/internal/interface/middleware"
)

// JobModule wires job routes under /job. Listing and detail are public.
type JobModule struct {
	Handler *handlers.JobHandler
	Auth    gin.HandlerFunc
}

func NewJobModule(h *handlers.JobHandler, auth gin.HandlerFunc) *JobModule {
	return &JobModule{Handler: h, Auth: auth}
}

func (m *JobModule) Register(rg *gin.RouterGroup) {
	browseLimiter := middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil)

	g := rg.Group("/job")
	g.GET("/get", browseLimiter, m.Handler.ListJobs)
	g.GET("/get/:id", browseLimiter, m.Handler.GetJob)

	auth := g.Group("/")
	auth.Use(m.Auth)
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/post", m.Handler.PostJob)
		auth.GET("/getadminjobs", m.Handler.AdminJobs)
	}
}
