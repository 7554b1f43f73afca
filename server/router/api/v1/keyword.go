package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/teligen-kh/aicounsel/store"
)

// KeywordRequest is the body of POST and DELETE /api/v1/keywords/:category.
type KeywordRequest struct {
	Keyword string `json:"keyword"`
}

// KeywordSetResponse is the wire form of a keyword set.
type KeywordSetResponse struct {
	Category  string   `json:"category"`
	Keywords  []string `json:"keywords"`
	UpdatedTs int64    `json:"updatedTs"`
}

func convertKeywordSet(set *store.KeywordSet) *KeywordSetResponse {
	return &KeywordSetResponse{
		Category:  set.Category,
		Keywords:  set.Keywords,
		UpdatedTs: set.UpdatedTs,
	}
}

// ListKeywordSets returns the curated keyword lists for all categories.
// GET /api/v1/keywords
func (s *APIV1Service) ListKeywordSets(c echo.Context) error {
	sets, err := s.Store.ListKeywordSets(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list keyword sets").SetInternal(err)
	}

	response := make([]*KeywordSetResponse, 0, len(sets))
	for _, set := range sets {
		response = append(response, convertKeywordSet(set))
	}
	return c.JSON(http.StatusOK, response)
}

// AddKeyword appends a keyword to a category's set and schedules a refresh.
// POST /api/v1/keywords/:category
func (s *APIV1Service) AddKeyword(c echo.Context) error {
	var req KeywordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}

	set, err := s.Store.AddKeyword(c.Request().Context(), c.Param("category"), req.Keyword)
	if err != nil {
		if errors.Is(err, store.ErrInvalidKeywordSet) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to add keyword").SetInternal(err)
	}

	s.Runner.RequestRebuild()
	return c.JSON(http.StatusOK, convertKeywordSet(set))
}

// RemoveKeyword drops a keyword from a category's set and schedules a
// refresh.
// DELETE /api/v1/keywords/:category
func (s *APIV1Service) RemoveKeyword(c echo.Context) error {
	var req KeywordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}

	set, err := s.Store.RemoveKeyword(c.Request().Context(), c.Param("category"), req.Keyword)
	if err != nil {
		if errors.Is(err, store.ErrInvalidKeywordSet) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to remove keyword").SetInternal(err)
	}

	s.Runner.RequestRebuild()
	return c.JSON(http.StatusOK, convertKeywordSet(set))
}
