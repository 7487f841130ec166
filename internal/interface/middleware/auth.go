package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/job-portal/internal/application"
	domainerrors "github.com/oksasatya/job-portal/internal/domain/errors"
	"github.com/oksasatya/job-portal/pkg/helpers"
	"github.com/oksasatya/job-portal/pkg/response"
)

const (
	CtxUserIDKey  = "userID"
	CtxTokenIDKey = "tokenID"
)

// Auth validates the session token (cookie first, then Bearer header) and
// rejects revoked tokens. It sets userID and tokenID in the Gin context on
// success; any failure aborts with 401 before the handler runs.
func Auth(jwt *helpers.JWTManager, cookies *helpers.Manager, denylist application.TokenDenylist, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := cookies.Token(c)
		if token == "" {
			response.Fail(c, domainerrors.ErrUnauthenticated, nil)
			return
		}
		claims, err := jwt.ParseToken(token)
		if err != nil {
			response.Fail(c, domainerrors.ErrUnauthenticated, nil)
			return
		}
		if denylist != nil {
			revoked, err := denylist.IsRevoked(c.Request.Context(), claims.TokenID())
			if err != nil && logger != nil {
				logger.WithError(err).WithField("user_id", claims.UserID).Warn("denylist lookup failed")
			}
			// fail closed: an unknown revocation state is not trusted
			if revoked || err != nil {
				response.Fail(c, domainerrors.ErrUnauthenticated, nil)
				return
			}
		}

		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxTokenIDKey, claims.TokenID())
		c.Next()
	}
}
