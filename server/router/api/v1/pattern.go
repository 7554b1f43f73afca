package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/teligen-kh/aicounsel/store"
)

// CreatePatternRequest is the body of POST /api/v1/patterns.
type CreatePatternRequest struct {
	Text     string  `json:"text"`
	Category string  `json:"category"`
	Priority int32   `json:"priority"`
	Accuracy float64 `json:"accuracy"`
	Source   string  `json:"source"`
}

// UpdatePatternRequest is the body of PATCH /api/v1/patterns/:id. Nil fields
// leave the stored value unchanged.
type UpdatePatternRequest struct {
	Text     *string  `json:"text"`
	Category *string  `json:"category"`
	Priority *int32   `json:"priority"`
	Accuracy *float64 `json:"accuracy"`
	Active   *bool    `json:"active"`
	Source   *string  `json:"source"`
}

// PatternResponse is the wire form of a pattern.
type PatternResponse struct {
	ID         int32   `json:"id"`
	UID        string  `json:"uid"`
	Text       string  `json:"text"`
	Category   string  `json:"category"`
	Priority   int32   `json:"priority"`
	Accuracy   float64 `json:"accuracy"`
	UsageCount int64   `json:"usageCount"`
	Active     bool    `json:"active"`
	Source     string  `json:"source"`
	CreatedTs  int64   `json:"createdTs"`
	UpdatedTs  int64   `json:"updatedTs"`
}

func convertPattern(p *store.Pattern) *PatternResponse {
	return &PatternResponse{
		ID:         p.ID,
		UID:        p.UID,
		Text:       p.Text,
		Category:   p.Category,
		Priority:   p.Priority,
		Accuracy:   p.Accuracy,
		UsageCount: p.UsageCount,
		Active:     p.Active,
		Source:     p.Source,
		CreatedTs:  p.CreatedTs,
		UpdatedTs:  p.UpdatedTs,
	}
}

// ListPatterns returns patterns, optionally filtered by category and active
// state.
// GET /api/v1/patterns?category=technical&active=true
func (s *APIV1Service) ListPatterns(c echo.Context) error {
	find := &store.FindPattern{}
	if category := c.QueryParam("category"); category != "" {
		find.Category = &category
	}
	if activeParam := c.QueryParam("active"); activeParam != "" {
		active, err := strconv.ParseBool(activeParam)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid active parameter"})
		}
		find.Active = &active
	}

	patterns, err := s.Store.ListPatterns(c.Request().Context(), find)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list patterns").SetInternal(err)
	}

	response := make([]*PatternResponse, 0, len(patterns))
	for _, p := range patterns {
		response = append(response, convertPattern(p))
	}
	return c.JSON(http.StatusOK, response)
}

// CreatePattern persists a new pattern and schedules an index rebuild.
// POST /api/v1/patterns
func (s *APIV1Service) CreatePattern(c echo.Context) error {
	var req CreatePatternRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}

	pattern, err := s.Store.CreatePattern(c.Request().Context(), &store.Pattern{
		Text:     req.Text,
		Category: req.Category,
		Priority: req.Priority,
		Accuracy: req.Accuracy,
		Active:   true,
		Source:   req.Source,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrInvalidPattern):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, store.ErrDuplicatePattern):
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to create pattern").SetInternal(err)
		}
	}

	s.Runner.RequestRebuild()
	return c.JSON(http.StatusCreated, convertPattern(pattern))
}

// UpdatePattern applies a partial update and schedules an index rebuild.
// PATCH /api/v1/patterns/:id
func (s *APIV1Service) UpdatePattern(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid pattern id"})
	}

	var req UpdatePatternRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}

	update := &store.UpdatePattern{
		ID:       id,
		Text:     req.Text,
		Category: req.Category,
		Priority: req.Priority,
		Accuracy: req.Accuracy,
		Active:   req.Active,
		Source:   req.Source,
	}
	if err := s.Store.UpdatePattern(c.Request().Context(), update); err != nil {
		switch {
		case errors.Is(err, store.ErrInvalidPattern):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, store.ErrNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": "pattern not found"})
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to update pattern").SetInternal(err)
		}
	}

	s.Runner.RequestRebuild()
	return c.NoContent(http.StatusNoContent)
}

// DeletePattern removes a pattern and schedules an index rebuild.
// DELETE /api/v1/patterns/:id
func (s *APIV1Service) DeletePattern(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid pattern id"})
	}

	if err := s.Store.DeletePattern(c.Request().Context(), &store.DeletePattern{ID: id}); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "pattern not found"})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete pattern").SetInternal(err)
	}

	s.Runner.RequestRebuild()
	return c.NoContent(http.StatusNoContent)
}

func parseID(c echo.Context) (int32, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(id), nil
}
