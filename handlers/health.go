package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandleRoot returns the fixed liveness payload. It never depends on the
// provider or database state.
func HandleRoot() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Letter Analyzer API is running!"})
	}
}

func HandleHealthcheck() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	}
}
