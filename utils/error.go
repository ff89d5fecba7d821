package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every 5xx reply. The voice frontend speaks
// Details back to the caller, so it never carries internal error text.
type ErrorResponse struct {
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// ErrorHandler recovers panics in a dialogue request and answers with a
// generic 500 so the caller can retry the turn.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic",
					zap.Any("error", err),
					zap.String("method", c.Request.Method),
					zap.String("path", c.FullPath()),
					zap.String("sessionId", c.Param("sessionID")),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Message:   "Internal Server Error",
					Details:   "Something went wrong on our side. Please say that again.",
					SessionID: c.Param("sessionID"),
				})
			}
		}()
		c.Next()
	}
}

// JSONError logs and writes a structured error reply.
func JSONError(c *gin.Context, status int, message string, details string) {
	GetLogger().Warn(message,
		zap.Int("status", status),
		zap.String("path", c.FullPath()),
		zap.String("details", details),
	)
	c.JSON(status, ErrorResponse{Message: message, Details: details, SessionID: c.Param("sessionID")})
}
