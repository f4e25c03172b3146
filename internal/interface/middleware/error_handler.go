package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bootcamp-directory/pkg/apperror"
	"github.com/oksasatya/bootcamp-directory/pkg/response"
)

// ErrorHandler is the single place failures become HTTP responses. Handlers
// record errors with c.Error and return.
func ErrorHandler(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		ae, ok := apperror.As(err)
		if !ok {
			ae = apperror.Server("Server Error", err)
		}
		status := apperror.Status(ae.Kind)
		msg := ae.Message
		if status == http.StatusInternalServerError {
			logger.WithError(err).WithFields(logrus.Fields{
				"request_id": c.GetString("request_id"),
				"method":     c.Request.Method,
				"path":       c.Request.URL.Path,
			}).Error("request failed")
			if msg == "" {
				msg = "Server Error"
			}
		}
		response.Error(c, status, msg, ae.Details)
	}
}
