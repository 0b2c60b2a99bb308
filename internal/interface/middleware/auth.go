package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	repo "github.com/virenradadiya3/todo/internal/domain/repository"
	"github.com/virenradadiya3/todo/pkg/helpers"
	"github.com/virenradadiya3/todo/pkg/response"
)

// Context keys set by Auth on success.
const (
	CtxUserIDKey    = "userID"
	CtxUserNameKey  = "userName"
	CtxUserEmailKey = "userEmail"
	CtxTokenKey     = "authToken"
)

// Auth is the gate in front of every protected route. The step order matters:
// the blacklist lookup runs before signature verification so a revoked token
// is rejected even though it is still cryptographically valid.
func Auth(blacklist repo.TokenBlacklist, users repo.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger, env string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.AbortError(c, http.StatusUnauthorized, "No token provided", nil)
			return
		}

		revoked, err := blacklist.IsRevoked(c.Request.Context(), token)
		if err != nil {
			logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error("blacklist lookup failed")
			response.AbortError(c, http.StatusInternalServerError, "Server error in authentication", nil)
			return
		}
		if revoked {
			response.AbortError(c, http.StatusUnauthorized, "Token has been invalidated", nil)
			return
		}

		claims, err := jwt.Parse(token)
		if err != nil {
			var detail any
			if env == "development" {
				detail = err.Error()
			}
			response.AbortError(c, http.StatusUnauthorized, "Token is invalid or expired", detail)
			return
		}

		u, err := users.GetPublicByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				response.AbortError(c, http.StatusUnauthorized, "User not found", nil)
				return
			}
			logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error("user lookup failed")
			response.AbortError(c, http.StatusInternalServerError, "Server error in authentication", nil)
			return
		}

		c.Set(CtxUserIDKey, u.ID)
		c.Set(CtxUserNameKey, u.Name)
		c.Set(CtxUserEmailKey, u.Email)
		c.Set(CtxTokenKey, token)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	h := c.GetHeader("Authorization")
	if h == "" || !strings.HasPrefix(h, "Bearer") {
		return "", false
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
