package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"letter-analyzer-api/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandleListAnalyses returns recently stored analyses, newest first.
func HandleListAnalyses(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 50
		if v := c.Query("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
				return
			}
			limit = n
		}

		results, err := utils.ListAnalyses(c.Request.Context(), limit)
		if err != nil {
			logger.Error("Database query failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve analyses"})
			return
		}
		c.JSON(http.StatusOK, results)
	}
}

// HandleGetAnalysis returns one stored analysis by id.
func HandleGetAnalysis(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
			return
		}

		result, err := utils.GetAnalysis(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				c.JSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
				return
			}
			logger.Error("Database query failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve analysis"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
