package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"letter-analyzer-api/analyzer"
	"letter-analyzer-api/config"
	"letter-analyzer-api/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandleAnalyzeLetter accepts a multipart letter image, forwards it to the AI
// provider and returns the structured analysis. The provider is called at most
// once per request and never when validation fails.
func HandleAnalyzeLetter(logger *zap.Logger, cfg *config.Config, client analyzer.CompletionClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			utils.UploadsRejected.Add(1)
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is required (form key: file)"})
			return
		}

		if fileHeader.Size > cfg.MaxUploadBytes {
			utils.UploadsRejected.Add(1)
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": fmt.Sprintf("file exceeds the %d byte limit", cfg.MaxUploadBytes),
			})
			return
		}

		contentType := fileHeader.Header.Get("Content-Type")
		if contentType != "" && !strings.HasPrefix(contentType, "image/") {
			utils.UploadsRejected.Add(1)
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "only image uploads are supported"})
			return
		}

		src, err := fileHeader.Open()
		if err != nil {
			logger.Error("File processing failed", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
			return
		}
		defer src.Close()

		// The declared size is client-controlled, so cap the actual read too.
		data, err := io.ReadAll(io.LimitReader(src, cfg.MaxUploadBytes+1))
		if err != nil {
			logger.Error("File processing failed", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
			return
		}
		if int64(len(data)) > cfg.MaxUploadBytes {
			utils.UploadsRejected.Add(1)
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": fmt.Sprintf("file exceeds the %d byte limit", cfg.MaxUploadBytes),
			})
			return
		}

		result, err := analyzer.AnalyzeLetter(c.Request.Context(), logger, client, data, contentType)
		if err != nil {
			utils.ProviderFailures.Add(1)
			utils.AnalysesFailures.Add(1)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to analyze letter"})
			return
		}
		utils.AnalysesTotal.Add(1)

		// History and archival are best-effort; the analysis already succeeded.
		if cfg.HistoryEnabled {
			stored := &utils.StoredAnalysis{
				FileName:       filepath.Base(fileHeader.Filename),
				Summary:        result.Summary,
				Highlights:     result.Highlights,
				WhatToDo:       result.WhatToDo,
				ImportantDates: result.ImportantDates,
				EmailPrompt:    result.EmailPrompt,
			}
			if _, err := utils.SaveAnalysis(c.Request.Context(), stored); err != nil {
				logger.Warn("Failed to record analysis history", zap.Error(err))
			}
		}

		if cfg.ArchiveEnabled {
			key := fmt.Sprintf("letters/%d_%s", time.Now().UnixNano(), filepath.Base(fileHeader.Filename))
			if err := utils.ArchiveLetter(c.Request.Context(), cfg.LetterBucket, key, contentType, data); err != nil {
				logger.Warn("Failed to archive letter image", zap.Error(err))
			}
		}

		c.JSON(http.StatusOK, result)
	}
}
