package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	repo "github.com/virenradadiya3/todo/internal/domain/repository"
	handlers "github.com/virenradadiya3/todo/internal/interface/http"
	"github.com/virenradadiya3/todo/internal/interface/middleware"
	"github.com/virenradadiya3/todo/pkg/helpers"
)

// TaskModule wires the /todoItems routes; every route is token-protected.
type TaskModule struct {
	Handler   *handlers.TaskHandler
	Blacklist repo.TokenBlacklist
	Users     repo.UserRepository
	JWT       *helpers.JWTManager
	Logger    *logrus.Logger
	Env       string
}

func NewTaskModule(h *handlers.TaskHandler, blacklist repo.TokenBlacklist, users repo.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger, env string) *TaskModule {
	return &TaskModule{Handler: h, Blacklist: blacklist, Users: users, JWT: jwt, Logger: logger, Env: env}
}

func (m *TaskModule) Register(rg *gin.RouterGroup) {
	grp := rg.Group("/todoItems")
	grp.Use(middleware.Auth(m.Blacklist, m.Users, m.JWT, m.Logger, m.Env))
	{
		grp.POST("/createTodo", m.Handler.Create)
		grp.GET("/getAllTodos", m.Handler.List)
		grp.GET("/getTodo/:id", m.Handler.Get)
		grp.PUT("/updateTodo/:id", m.Handler.Update)
		grp.DELETE("/deleteTodo/:id", m.Handler.Delete)
		grp.GET("/searchTodos", m.Handler.Search)
	}
}
