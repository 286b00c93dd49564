package services

import (
	"context"
	"log/slog"

	"cargolens/internal/infrastructure"
)

// Helper functions for analysis service logging using centralized infrastructure logger

// logAnalysisError logs an error in analysis service operations
func logAnalysisError(ctx context.Context, action, message string, attrs ...slog.Attr) {
	logger := infrastructure.LoggerWithContext(ctx)

	// Add standard attributes
	allAttrs := []slog.Attr{
		slog.String("component", "analysis_service"),
		slog.String("action", action),
	}

	allAttrs = append(allAttrs, attrs...)

	logger.LogAttrs(ctx, slog.LevelError, message, allAttrs...)
}
