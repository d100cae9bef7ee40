package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pdpi/member-portal/internal/api/metrics"
	"github.com/pdpi/member-portal/internal/api/middleware"
	"github.com/pdpi/member-portal/internal/core/domain"
	"github.com/pdpi/member-portal/internal/core/ports"
)

type MenuHandler struct {
	service ports.MenuService
}

func NewMenuHandler(service ports.MenuService) *MenuHandler {
	return &MenuHandler{service: service}
}

type replaceMenuRequest struct {
	Position string            `json:"position" validate:"required"`
	Menus    []domain.MenuItem `json:"menus"`
}

// List handles GET /menus, optionally narrowed with ?position=.
//
// @Summary      List menus
// @Tags         menus
// @Produce      json
// @Param        position  query     string  false  "header, sidebar or footer"
// @Success      200       {object}  map[string][]domain.MenuItem
// @Failure      400       {object}  errorResponse
// @Router       /menus [get]
func (h *MenuHandler) List(c echo.Context) error {
	if position := c.QueryParam("position"); position != "" {
		items, err := h.service.ByPosition(c.Request().Context(), position)
		if err != nil {
			return err
		}
		return respondMessage(c, http.StatusOK, items, "menus fetched successfully")
	}
	all, err := h.service.All(c.Request().Context())
	if err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, all, "menus fetched successfully")
}

// ByPosition handles GET /menus/:position. With ?role= the tree is filtered
// for that role.
//
// @Summary      Menu tree of one position
// @Tags         menus
// @Produce      json
// @Param        position  path      string  true   "header, sidebar or footer"
// @Param        role      query     string  false  "Filter for this role"
// @Success      200       {array}   domain.MenuItem
// @Failure      400       {object}  errorResponse
// @Router       /menus/{position} [get]
func (h *MenuHandler) ByPosition(c echo.Context) error {
	position := c.Param("position")
	var (
		items []domain.MenuItem
		err   error
	)
	if role, ok := c.QueryParams()["role"]; ok {
		items, err = h.service.Navigation(c.Request().Context(), position, role[0])
	} else {
		items, err = h.service.ByPosition(c.Request().Context(), position)
	}
	if err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, items, position+" menus fetched successfully")
}

// Navigation handles GET /menus/:position/navigation, filtered for the
// caller's own role.
//
// @Summary      Navigation for the caller
// @Tags         menus
// @Produce      json
// @Param        position  path      string  true  "header, sidebar or footer"
// @Success      200       {array}   domain.MenuItem
// @Failure      400       {object}  errorResponse
// @Router       /menus/{position}/navigation [get]
func (h *MenuHandler) Navigation(c echo.Context) error {
	items, err := h.service.Navigation(c.Request().Context(), c.Param("position"), string(middleware.Role(c)))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, items)
}

// Replace handles POST /menus, swapping a position's whole tree.
//
// @Summary      Replace a menu tree
// @Tags         menus
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      replaceMenuRequest  true  "Position and tree"
// @Success      200   {array}   domain.MenuItem
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /menus [post]
func (h *MenuHandler) Replace(c echo.Context) error {
	var req replaceMenuRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	items, err := h.service.Replace(c.Request().Context(), req.Position, req.Menus)
	if err != nil {
		return err
	}
	metrics.ContentMutationsTotal.WithLabelValues("menus", "update").Inc()
	return respondMessage(c, http.StatusOK, items, "menu "+req.Position+" updated")
}
