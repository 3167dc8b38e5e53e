package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "taxonomy/internal/errors"
	"taxonomy/internal/logger"
)

// relayed is implemented by transport errors that carry the category
// store's own error code, such as client.StoreError.
type relayed interface {
	AppError() *apperrors.AppError
}

// ErrorHandler writes the last error attached to the gin context as the
// {"error":{"code","message"}} envelope. Store rejections relayed by the
// client keep the store's code and status. Nothing is written when the
// handler already answered.
func ErrorHandler() gin.HandlerFunc {
	log := logger.Named("http")
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		fields := []interface{}{
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"request_id", RequestID(c),
		}

		appErr, ok := toAppError(err)
		if !ok {
			// Unexpected error: log full details, return generic message
			log.Errorw("unhandled error", append(fields, "error", err.Error())...)
			writeError(c, apperrors.ErrInternalServer)
			return
		}
		if appErr.Internal != nil {
			log.Errorw("request failed", append(fields,
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
			)...)
		}
		writeError(c, appErr)
	}
}

func toAppError(err error) (*apperrors.AppError, bool) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	var r relayed
	if errors.As(err, &r) {
		return r.AppError(), true
	}
	return nil, false
}

func writeError(c *gin.Context, e *apperrors.AppError) {
	c.AbortWithStatusJSON(e.StatusCode, gin.H{
		"error": gin.H{"code": e.Code, "message": e.Message},
	})
}
