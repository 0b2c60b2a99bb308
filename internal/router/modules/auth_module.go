package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	repo "github.com/virenradadiya3/todo/internal/domain/repository"
	handlers "github.com/virenradadiya3/todo/internal/interface/http"
	"github.com/virenradadiya3/todo/internal/interface/middleware"
	"github.com/virenradadiya3/todo/pkg/helpers"
)

// AuthModule wires the /todoAuth routes.
// Public: registerUser, loginUser, forgotUserPassword, resetUserPassword/:token
// Protected: logoutUser
type AuthModule struct {
	Handler   *handlers.AuthHandler
	Blacklist repo.TokenBlacklist
	Users     repo.UserRepository
	JWT       *helpers.JWTManager
	Logger    *logrus.Logger
	Env       string
}

func NewAuthModule(h *handlers.AuthHandler, blacklist repo.TokenBlacklist, users repo.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger, env string) *AuthModule {
	return &AuthModule{Handler: h, Blacklist: blacklist, Users: users, JWT: jwt, Logger: logger, Env: env}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	grp := rg.Group("/todoAuth")

	grp.POST("/registerUser", m.Handler.Register)
	grp.POST("/loginUser", m.Handler.Login)
	grp.POST("/forgotUserPassword", m.Handler.ForgotPassword)
	grp.POST("/resetUserPassword/:token", m.Handler.ResetPassword)

	protected := grp.Group("/")
	protected.Use(middleware.Auth(m.Blacklist, m.Users, m.JWT, m.Logger, m.Env))
	{
		protected.POST("/logoutUser", m.Handler.Logout)
	}
}
