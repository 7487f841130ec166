package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/job-portal/internal/container"
	handlers "github.com/oksasatya/job-portal/internal/interface/http"
	"github.com/oksasatya/job-portal/internal/interface/middleware"
)

// UserModule wires account routes under /user.
// Public: POST /user/register, POST /user/login, GET /user/logout, GET /user/fetchuser
// Protected: POST /user/profile/update
type UserModule struct {
	Handler *handlers.UserHandler
	Auth    gin.HandlerFunc
}

func NewUserModule(h *handlers.UserHandler, auth gin.HandlerFunc) *UserModule {
	return &UserModule{Handler: h, Auth: auth}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	// Public with rate limiting
	registerLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil) // 5 req/min per IP
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)   // 10 req/min per IP
	lookupLimiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), nil)

	g := rg.Group("/user")
	g.POST("/register", registerLimiter, m.Handler.Register)
	g.POST("/login", loginLimiter, m.Handler.Login)
	g.GET("/logout", m.Handler.Logout)
	g.GET("/fetchuser", lookupLimiter, m.Handler.FetchUser)

	// Protected
	auth := g.Group("/")
	auth.Use(m.Auth)
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/profile/update", m.Handler.UpdateProfile)
	}
}
