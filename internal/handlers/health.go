package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gita-wisdom-query-api/internal/corpus"
	"github.com/gita-wisdom-query-api/internal/models"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	store *corpus.Store
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store *corpus.Store) *HealthHandler {
	return &HealthHandler{
		store: store,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:           "healthy",
		EmbeddingsLoaded: h.store.Len(),
		MetadataLoaded:   h.store.Len(),
	})
}

// RegisterRoutes registers health check routes
func (h *HealthHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/health", h.Health)
}
