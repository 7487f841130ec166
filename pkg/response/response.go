package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	domainerrors "github.com/oksasatya/job-portal/internal/domain/errors"
)

// Envelope builds the flat response body: success and message plus any
// payload keys merged alongside them.
func Envelope(ctx *gin.Context, success bool, message string, payload gin.H) gin.H {
	body := gin.H{}
	for k, v := range payload {
		body[k] = v
	}
	body["success"] = success
	body["message"] = message
	if rid := ctx.GetString("request_id"); rid != "" {
		body["request_id"] = rid
	}
	return body
}

func Success(ctx *gin.Context, status int, message string, payload gin.H) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, Envelope(ctx, true, message, payload))
}

func Error(ctx *gin.Context, status int, message string, details interface{}) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	var payload gin.H
	if details != nil {
		payload = gin.H{"error": details}
	}
	ctx.AbortWithStatusJSON(status, Envelope(ctx, false, message, payload))
}

// Fail renders err. AppErrors keep their status and message; anything else
// is logged and reported as a generic 500 so internals never leak.
func Fail(ctx *gin.Context, err error, logger *logrus.Logger) {
	if appErr, ok := domainerrors.As(err); ok {
		if logger != nil && appErr.HTTPCode() >= http.StatusInternalServerError {
			logger.WithFields(logrus.Fields{
				"request_id": ctx.GetString("request_id"),
				"kind":       appErr.Kind(),
				"path":       ctx.FullPath(),
			}).WithError(err).Error("request failed")
		}
		Error(ctx, appErr.HTTPCode(), appErr.Message(), appErr.Details())
		return
	}
	if logger != nil {
		logger.WithFields(logrus.Fields{
			"request_id": ctx.GetString("request_id"),
			"path":       ctx.FullPath(),
		}).WithError(err).Error("unhandled error")
	}
	Error(ctx, http.StatusInternalServerError, "internal server error", nil)
}
