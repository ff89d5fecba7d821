package handlers

import (
	"ecitizen/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger returns the request-scoped logger set by middleware, or the global
// one, tagged with the route and any session id in the path.
func getLogger(c *gin.Context) *zap.Logger {
	logger := utils.GetLogger()
	if l, exists := c.Get("logger"); exists {
		if scoped, ok := l.(*zap.Logger); ok {
			logger = scoped
		}
	}
	fields := []zap.Field{zap.String("route", c.FullPath())}
	if id := c.Param("sessionID"); id != "" {
		fields = append(fields, zap.String("sessionId", id))
	}
	return logger.With(fields...)
}
