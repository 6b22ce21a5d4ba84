package handlers

import (
	"net/http"

	"letter-analyzer-api/utils"

	"github.com/gin-gonic/gin"
)

func HandleMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"letter_analyses_total":          utils.AnalysesTotal.Value(),
			"letter_analyses_failures_total": utils.AnalysesFailures.Value(),
			"provider_failures_total":        utils.ProviderFailures.Value(),
			"uploads_rejected_total":         utils.UploadsRejected.Value(),
		})
	}
}
