package middleware

import (
	"net/http"

	"ecitizen/utils"

	"github.com/gin-gonic/gin"
)

// ValidateSessionID rejects requests whose :sessionID path parameter is not a safe id.
func ValidateSessionID() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !utils.ValidSessionID(c.Param("sessionID")) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
			return
		}
		c.Next()
	}
}
