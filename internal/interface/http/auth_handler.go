package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/virenradadiya3/todo/internal/application"
	"github.com/virenradadiya3/todo/internal/interface/middleware"
	"github.com/virenradadiya3/todo/pkg/response"
	"github.com/virenradadiya3/todo/pkg/validation"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
	Env    string
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger, env string) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Env: env}
}

type registerRequest struct {
	UserName     string `json:"userName" binding:"required"`
	UserEmail    string `json:"userEmail" binding:"required,email"`
	UserPassword string `json:"userPassword" binding:"required,pwd"`
}

type loginRequest struct {
	UserEmail    string `json:"userEmail" binding:"required,email"`
	UserPassword string `json:"userPassword" binding:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Password string `json:"password" binding:"required,pwd"`
}

// detail exposes internal error text in development only.
func (h *AuthHandler) detail(err error) any {
	if h.Env == "development" && err != nil {
		return err.Error()
	}
	return nil
}

func (h *AuthHandler) logError(c *gin.Context, msg string, err error) {
	h.Logger.WithError(err).WithFields(logrus.Fields{
		"request_id": c.GetString("request_id"),
		"real_ip":    c.GetString("real_ip"),
	}).Error(msg)
}

// Register handles POST /todoAuth/registerUser
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid user data", validation.ToDetails(err))
		return
	}

	u, token, err := h.Svc.Register(c.Request.Context(), req.UserName, req.UserEmail, req.UserPassword)
	if err != nil {
		if errors.Is(err, application.ErrEmailTaken) {
			response.Error(c, http.StatusBadRequest, "User already exists", nil)
			return
		}
		h.logError(c, "register failed", err)
		response.Error(c, http.StatusInternalServerError, "Server error", h.detail(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"_id":       u.ID,
		"userName":  u.Name,
		"userEmail": u.Email,
		"token":     token,
	})
}

// Login handles POST /todoAuth/loginUser
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid user data", validation.ToDetails(err))
		return
	}

	u, token, err := h.Svc.Login(c.Request.Context(), req.UserEmail, req.UserPassword)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "Invalid email or password", nil)
			return
		}
		h.logError(c, "login failed", err)
		response.Error(c, http.StatusInternalServerError, "Server error", h.detail(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"_id":       u.ID,
		"userName":  u.Name,
		"userEmail": u.Email,
		"token":     token,
	})
}

// ForgotPassword handles POST /todoAuth/forgotUserPassword
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid payload", validation.ToDetails(err))
		return
	}

	if err := h.Svc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "User not found", nil)
			return
		}
		h.logError(c, "forgot password failed", err)
		response.Error(c, http.StatusInternalServerError, "Server error", h.detail(err))
		return
	}

	response.Message(c, http.StatusOK, "Password reset email sent")
}

// ResetPassword handles POST /todoAuth/resetUserPassword/:token
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid payload", validation.ToDetails(err))
		return
	}

	if err := h.Svc.ResetPassword(c.Request.Context(), c.Param("token"), req.Password); err != nil {
		if errors.Is(err, application.ErrResetTokenInvalid) {
			response.Error(c, http.StatusBadRequest, "Password reset token is invalid or has expired", nil)
			return
		}
		h.logError(c, "reset password failed", err)
		response.Error(c, http.StatusInternalServerError, "Server error", h.detail(err))
		return
	}

	response.Message(c, http.StatusOK, "Password updated successfully")
}

// Logout handles POST /todoAuth/logoutUser (protected)
func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetString(middleware.CtxTokenKey)

	if err := h.Svc.Logout(c.Request.Context(), token); err != nil {
		h.logError(c, "logout failed", err)
		response.Error(c, http.StatusInternalServerError, "Server error", h.detail(err))
		return
	}

	response.Message(c, http.StatusOK, "Logged out successfully")
}
