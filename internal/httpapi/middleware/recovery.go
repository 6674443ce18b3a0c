package middleware

import (
	"log"
	"net/http"

	"github.com/Be1newinner/ship-chatbot/internal/common"
	"github.com/gin-gonic/gin"
)

// Recovery turns panics into the uniform 500 envelope instead of gin's
// default plain-text response.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err any) {
		log.Printf("panic recovered: %v", err)
		common.Fail(c, http.StatusInternalServerError, 50000, "internal error")
		c.Abort()
	})
}
