package handlers

import (
	"github.com/gofiber/fiber/v2"

	"bloglist/internal/services"
)

// StatsHandler serves blog statistics.
type StatsHandler struct {
	service *services.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(service *services.StatsService) *StatsHandler {
	return &StatsHandler{service: service}
}

// RegisterRoutes registers GET /blogs/stats. It has to be registered before
// the blog routes, otherwise /blogs/:id captures it.
func (h *StatsHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/blogs/stats", h.HandleGetStats)
}

// HandleGetStats returns the statistics of all blogs.
func (h *StatsHandler) HandleGetStats(c *fiber.Ctx) error {
	summary, err := h.service.Summary(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(summary)
}
