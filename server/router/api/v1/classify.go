package v1

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/teligen-kh/aicounsel/internal/observability"
	"github.com/teligen-kh/aicounsel/server/classifier"
)

// ClassifyRequest is the body of POST /api/v1/classify.
type ClassifyRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId,omitempty"`
}

// ClassifyResponse is the classification outcome plus an optional canned
// reply for categories that redirect the conversation.
type ClassifyResponse struct {
	*classifier.Result
	SuggestedReply string `json:"suggestedReply,omitempty"`
	RequestID      string `json:"requestId"`
	LatencyMs      int64  `json:"latencyMs"`
}

// Classify assigns a category to a customer message.
// POST /api/v1/classify
func (s *APIV1Service) Classify(c echo.Context) error {
	var req ClassifyRequest
	if err := c.Bind(&req); err != nil {
		s.Metrics.RecordFailure()
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}
	if req.Message == "" {
		s.Metrics.RecordFailure()
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "message is required"})
	}

	reqCtx := observability.NewRequestContext(s.logger, req.SessionID)
	ctx := observability.WithRequestContext(c.Request().Context(), reqCtx)

	result := s.Pipeline.Classify(ctx, req.Message)
	latency := time.Since(reqCtx.StartTime)
	s.Metrics.RecordClassification(result.Category.String(), latency)

	reqCtx.Info("classification served",
		slog.String(observability.LogFieldCategory, result.Category.String()),
		slog.String(observability.LogFieldMethod, result.Method),
		slog.Int(observability.LogFieldMessageLen, len(req.Message)),
		slog.Int64(observability.LogFieldDuration, latency.Milliseconds()))

	return c.JSON(http.StatusOK, ClassifyResponse{
		Result:         result,
		SuggestedReply: classifier.SuggestedReply(result.Category, s.Profile.CompanyName),
		RequestID:      reqCtx.RequestID,
		LatencyMs:      latency.Milliseconds(),
	})
}
