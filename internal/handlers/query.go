package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/gita-wisdom-query-api/internal/models"
	"github.com/gita-wisdom-query-api/internal/services"
)

// QueryHandler handles the question-answering endpoint
type QueryHandler struct {
	answers *services.AnswerService
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(answers *services.AnswerService) *QueryHandler {
	return &QueryHandler{
		answers: answers,
	}
}

// Query handles POST /query - answer a natural-language question
func (h *QueryHandler) Query(c echo.Context) error {
	var req models.QueryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if strings.TrimSpace(req.Q) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Query is required")
	}

	answer, usedVerses := h.answers.Answer(c.Request().Context(), req.Q)

	return c.JSON(http.StatusOK, models.QueryResponse{
		Answer:     answer,
		UsedVerses: usedVerses,
	})
}

// RegisterRoutes registers query routes
func (h *QueryHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/query", h.Query)
}
