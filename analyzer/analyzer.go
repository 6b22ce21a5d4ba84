package analyzer

import (
	"context"
	"encoding/base64"
	"fmt"

	"go.uber.org/zap"
)

// AnalyzeLetter encodes the uploaded image, sends it to the provider with the
// fixed letter-analysis prompt and parses the structured reply.
func AnalyzeLetter(ctx context.Context, logger *zap.Logger, client CompletionClient, image []byte, contentType string) (*AnalysisResult, error) {
	logger.Info("Starting letter analysis process")

	if len(image) == 0 {
		return nil, fmt.Errorf("image data is empty")
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(image))
	logger.Debug("Encoded letter image", zap.Int("size_bytes", len(image)), zap.String("content_type", contentType))

	reply, err := client.Complete(ctx, dataURL)
	if err != nil {
		logger.Error("Provider call failed", zap.Error(err))
		return nil, fmt.Errorf("failed to analyze letter: %w", err)
	}

	result, err := ParseResponse(reply)
	if err != nil {
		logger.Error("Provider response parsing failed", zap.Error(err))
		return nil, fmt.Errorf("failed to parse provider response: %w", err)
	}

	logger.Info("Letter analysis completed successfully",
		zap.Int("highlights", len(result.Highlights)),
		zap.Int("actions", len(result.WhatToDo)),
		zap.Int("dates", len(result.ImportantDates)))

	return result, nil
}
