package router

import (
	"github.com/virenradadiya3/todo/internal/application"
	"github.com/virenradadiya3/todo/internal/container"
	"github.com/virenradadiya3/todo/internal/infrastructure/postgres"
	"github.com/virenradadiya3/todo/internal/infrastructure/redisstore"
	handlers "github.com/virenradadiya3/todo/internal/interface/http"
	"github.com/virenradadiya3/todo/internal/router/modules"
)

// InitModules initializes all application modules and registers them with the
// router registry. Called once during application startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	users := postgres.NewUserRepository(container.GetPGPool())
	tasks := postgres.NewTaskRepository(container.GetPGPool())
	blacklist := redisstore.NewTokenBlacklist(container.GetRedis())

	authSvc := application.NewAuthService(users, blacklist, container.GetJWT(), container.GetRabbitPub(), logger, cfg)
	taskSvc := application.NewTaskService(tasks, logger, container.GetES(), cfg.ESTasksIndex)

	authHandler := handlers.NewAuthHandler(authSvc, logger, cfg.Env)
	taskHandler := handlers.NewTaskHandler(taskSvc, logger, cfg.Env)

	r.Add(modules.NewAuthModule(authHandler, blacklist, users, container.GetJWT(), logger, cfg.Env))
	r.Add(modules.NewTaskModule(taskHandler, blacklist, users, container.GetJWT(), logger, cfg.Env))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
