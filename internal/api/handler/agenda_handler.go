package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pdpi/member-portal/internal/api/metrics"
	"github.com/pdpi/member-portal/internal/core/domain"
	"github.com/pdpi/member-portal/internal/core/ports"
)

// AgendaHandler serves the event agenda.
type AgendaHandler struct {
	service ports.AgendaService
	now     func() time.Time
}

func NewAgendaHandler(service ports.AgendaService) *AgendaHandler {
	return &AgendaHandler{service: service, now: time.Now}
}

// List handles GET /agenda.
//
// @Summary      List agenda
// @Tags         agenda
// @Produce      json
// @Param        page      query     int     false  "Page number (1-based)"
// @Param        limit     query     int     false  "Page size (max 100)"
// @Param        status    query     string  false  "draft, published, deleted or all"
// @Param        type      query     string  false  "Event type"
// @Param        upcoming  query     bool    false  "Only events that have not ended"
// @Success      200       {object}  domain.Page[domain.Agenda]
// @Failure      400       {object}  errorResponse
// @Router       /agenda [get]
func (h *AgendaHandler) List(c echo.Context) error {
	lf, err := listFilter(c)
	if err != nil {
		return err
	}
	page, err := h.service.List(c.Request().Context(), ports.AgendaFilter{
		ListFilter: lf,
		Type:       domain.AgendaType(c.QueryParam("type")),
		Upcoming:   queryBool(c, "upcoming"),
		Now:        h.now(),
	})
	if err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, page, "agenda fetched successfully")
}

// Get handles GET /agenda/:id.
//
// @Summary      Get an event
// @Tags         agenda
// @Produce      json
// @Param        id   path      string  true  "Slug or ID"
// @Success      200  {object}  domain.Agenda
// @Failure      404  {object}  errorResponse
// @Router       /agenda/{id} [get]
func (h *AgendaHandler) Get(c echo.Context) error {
	a, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, a)
}

// Create handles POST /agenda.
//
// @Summary      Create an event
// @Tags         agenda
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      agendaRequest  true  "Event"
// @Success      201   {object}  domain.Agenda
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /agenda [post]
func (h *AgendaHandler) Create(c echo.Context) error {
	var req agendaRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	a, err := h.service.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	metrics.ContentMutationsTotal.WithLabelValues("agenda", "create").Inc()
	return respondMessage(c, http.StatusCreated, a, "agenda created")
}

// Update handles PUT /agenda/:id.
//
// @Summary      Update an event
// @Tags         agenda
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "ID"
// @Param        body  body      agendaRequest  true  "Fields to change"
// @Success      200   {object}  domain.Agenda
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /agenda/{id} [put]
func (h *AgendaHandler) Update(c echo.Context) error {
	var req agendaRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	a, err := h.service.Update(c.Request().Context(), c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	metrics.ContentMutationsTotal.WithLabelValues("agenda", "update").Inc()
	return respondMessage(c, http.StatusOK, a, "agenda updated")
}

// Patch handles PATCH /agenda/:id.
//
// @Summary      Change publication or deletion state
// @Tags         agenda
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "ID"
// @Param        body  body      patchRequest  true  "Lifecycle change"
// @Success      200   {object}  domain.Agenda
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /agenda/{id} [patch]
func (h *AgendaHandler) Patch(c echo.Context) error {
	patch, err := bindPatch(c)
	if err != nil {
		return err
	}
	a, err := h.service.Patch(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return err
	}
	metrics.ContentMutationsTotal.WithLabelValues("agenda", "patch").Inc()
	return respond(c, http.StatusOK, a)
}

// Delete handles DELETE /agenda/:id.
//
// @Summary      Delete an event
// @Tags         agenda
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "ID"
// @Success      200  {object}  domain.Agenda
// @Failure      404  {object}  errorResponse
// @Router       /agenda/{id} [delete]
func (h *AgendaHandler) Delete(c echo.Context) error {
	a, err := h.service.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	metrics.ContentMutationsTotal.WithLabelValues("agenda", "delete").Inc()
	return respondMessage(c, http.StatusOK, a, "agenda deleted")
}
