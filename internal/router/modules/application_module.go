package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/job-portal/internal/container"
	handlers "github.com/oksasatya/job-portal/internal/interface/http"
	"github.com/oksasatya/job-portal/internal/interface/middleware"
)

// ApplicationModule wires /application routes; all of them need a session.
type ApplicationModule struct {
	Handler *handlers.ApplicationHandler
	Auth    gin.HandlerFunc
}

func NewApplicationModule(h *handlers.ApplicationHandler, auth gin.HandlerFunc) *ApplicationModule {
	return &ApplicationModule{Handler: h, Auth: auth}
}

func (m *ApplicationModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/application")
	g.Use(m.Auth)
	g.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		g.GET("/apply/:id", m.Handler.Apply)
		g.GET("/get", m.Handler.Applied)
		g.GET("/:id/applicants", m.Handler.Applicants)
		g.POST("/status/:id/update", m.Handler.UpdateStatus)
	}
}
