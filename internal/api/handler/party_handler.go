package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ferienhaus/kalender-api/internal/core/domain"
)

// PartyHandler serves the static party registry.
type PartyHandler struct {
	registry *domain.Registry
}

func NewPartyHandler(registry *domain.Registry) *PartyHandler {
	return &PartyHandler{registry: registry}
}

// List handles GET /api/parties.
//
// @Summary      List all parties
// @Tags         parties
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Party
// @Failure      401  {object}  map[string]string
// @Router       /api/parties [get]
func (h *PartyHandler) List(c echo.Context) error {
	if _, err := ctxIdentity(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.registry.All())
}
