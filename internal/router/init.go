package router

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/job-portal/internal/application"
	"github.com/oksasatya/job-portal/internal/container"
	"github.com/oksasatya/job-portal/internal/infrastructure/mongodb"
	"github.com/oksasatya/job-portal/internal/infrastructure/search"
	handlers "github.com/oksasatya/job-portal/internal/interface/http"
	"github.com/oksasatya/job-portal/internal/interface/middleware"
	"github.com/oksasatya/job-portal/internal/router/modules"
)

type ModuleDeps struct {
	Account      *application.AccountService
	Jobs         *application.JobService
	Applications *application.ApplicationService
	Auth         gin.HandlerFunc
}

// BuildDeps wires repositories and services from the container singletons.
func BuildDeps() ModuleDeps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	db := container.GetMongo()

	users := mongodb.NewUserRepository(db)
	jobs := mongodb.NewJobRepository(db)
	apps := mongodb.NewApplicationRepository(db)

	notifier := application.NewNotifier(container.GetEmailPublisher(), cfg, logger)

	var searcher application.JobSearcher
	if es := container.GetES(); es != nil {
		searcher = search.NewJobIndex(es, cfg.ESJobsIndex, logger)
	}

	account := application.NewAccountService(
		users,
		container.GetHasher(),
		container.GetJWT(),
		container.GetUploader(),
		container.GetDenylist(),
		notifier,
		logger,
	)
	account.Cache = container.GetProfileCache()

	return ModuleDeps{
		Account:      account,
		Jobs:         application.NewJobService(jobs, users, searcher, logger),
		Applications: application.NewApplicationService(apps, jobs, users, notifier, logger),
		Auth:         middleware.Auth(container.GetJWT(), container.GetCookies(), container.GetDenylist(), logger),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	deps := BuildDeps()

	r.Add(modules.NewUserModule(
		handlers.NewUserHandler(deps.Account, logger, container.GetCookies(), cfg.MaxUploadBytes),
		deps.Auth,
	))
	r.Add(modules.NewJobModule(handlers.NewJobHandler(deps.Jobs, logger), deps.Auth))
	r.Add(modules.NewApplicationModule(handlers.NewApplicationHandler(deps.Applications, logger), deps.Auth))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
