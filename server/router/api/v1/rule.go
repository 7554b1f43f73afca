package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/teligen-kh/aicounsel/store"
)

// CreateRuleRequest is the body of POST /api/v1/rules.
type CreateRuleRequest struct {
	Type     string   `json:"type"`
	Keywords []string `json:"keywords"`
	Pattern  string   `json:"pattern"`
	Category string   `json:"category"`
	Priority int32    `json:"priority"`
}

// UpdateRuleRequest is the body of PATCH /api/v1/rules/:id.
type UpdateRuleRequest struct {
	Keywords *[]string `json:"keywords"`
	Pattern  *string   `json:"pattern"`
	Category *string   `json:"category"`
	Priority *int32    `json:"priority"`
	Active   *bool     `json:"active"`
}

// RuleResponse is the wire form of a rule.
type RuleResponse struct {
	ID        int32    `json:"id"`
	Type      string   `json:"type"`
	Keywords  []string `json:"keywords,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
	Category  string   `json:"category"`
	Priority  int32    `json:"priority"`
	Active    bool     `json:"active"`
	CreatedTs int64    `json:"createdTs"`
	UpdatedTs int64    `json:"updatedTs"`
}

func convertRule(r *store.Rule) *RuleResponse {
	return &RuleResponse{
		ID:        r.ID,
		Type:      string(r.Type),
		Keywords:  r.Keywords,
		Pattern:   r.Pattern,
		Category:  r.Category,
		Priority:  r.Priority,
		Active:    r.Active,
		CreatedTs: r.CreatedTs,
		UpdatedTs: r.UpdatedTs,
	}
}

// ListRules returns rules, optionally filtered by category.
// GET /api/v1/rules?category=technical
func (s *APIV1Service) ListRules(c echo.Context) error {
	find := &store.FindRule{}
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

	rules, err := s.Store.ListRules(c.Request().Context(), find)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list rules").SetInternal(err)
	}

	response := make([]*RuleResponse, 0, len(rules))
	for _, r := range rules {
		response = append(response, convertRule(r))
	}
	return c.JSON(http.StatusOK, response)
}

// CreateRule persists a new rule and schedules a refresh.
// POST /api/v1/rules
func (s *APIV1Service) CreateRule(c echo.Context) error {
	var req CreateRuleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}

	rule, err := s.Store.CreateRule(c.Request().Context(), &store.Rule{
		Type:     store.RuleType(req.Type),
		Keywords: req.Keywords,
		Pattern:  req.Pattern,
		Category: req.Category,
		Priority: req.Priority,
		Active:   true,
	})
	if err != nil {
		if errors.Is(err, store.ErrInvalidRule) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create rule").SetInternal(err)
	}

	s.Runner.RequestRebuild()
	return c.JSON(http.StatusCreated, convertRule(rule))
}

// UpdateRule applies a partial update and schedules a refresh.
// PATCH /api/v1/rules/:id
func (s *APIV1Service) UpdateRule(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid rule id"})
	}

	var req UpdateRuleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}

	update := &store.UpdateRule{
		ID:       id,
		Keywords: req.Keywords,
		Pattern:  req.Pattern,
		Category: req.Category,
		Priority: req.Priority,
		Active:   req.Active,
	}
	if err := s.Store.UpdateRule(c.Request().Context(), update); err != nil {
		switch {
		case errors.Is(err, store.ErrInvalidRule):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, store.ErrNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": "rule not found"})
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to update rule").SetInternal(err)
		}
	}

	s.Runner.RequestRebuild()
	return c.NoContent(http.StatusNoContent)
}

// DeleteRule removes a rule and schedules a refresh.
// DELETE /api/v1/rules/:id
func (s *APIV1Service) DeleteRule(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid rule id"})
	}

	if err := s.Store.DeleteRule(c.Request().Context(), &store.DeleteRule{ID: id}); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "rule not found"})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete rule").SetInternal(err)
	}

	s.Runner.RequestRebuild()
	return c.NoContent(http.StatusNoContent)
}
