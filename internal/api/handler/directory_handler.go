package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pdpi/member-portal/internal/api/metrics"
	"github.com/pdpi/member-portal/internal/core/domain"
	"github.com/pdpi/member-portal/internal/core/ports"
)

// DirectoryHandler serves the facility directory.
type DirectoryHandler struct {
	service ports.DirectoryService
}

func NewDirectoryHandler(service ports.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{service: service}
}

// List handles GET /directory.
//
// @Summary      List directory entries
// @Tags         directory
// @Produce      json
// @Param        page      query     int     false  "Page number (1-based)"
// @Param        limit     query     int     false  "Page size (max 100)"
// @Param        status    query     string  false  "draft, published, deleted or all"
// @Param        type      query     string  false  "Facility type"
// @Param        province  query     string  false  "Province"
// @Param        city      query     string  false  "City"
// @Param        search    query     string  false  "Substring of name, city or province"
// @Success      200       {object}  domain.Page[domain.DirectoryEntry]
// @Failure      400       {object}  errorResponse
// @Router       /directory [get]
func (h *DirectoryHandler) List(c echo.Context) error {
	lf, err := listFilter(c)
	if err != nil {
		return err
	}
	page, err := h.service.List(c.Request().Context(), ports.DirectoryFilter{
		ListFilter: lf,
		Type:       domain.FacilityType(c.QueryParam("type")),
		Province:   c.QueryParam("province"),
		City:       c.QueryParam("city"),
		Search:     c.QueryParam("search"),
	})
	if err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, page, "directory fetched successfully")
}

// Get handles GET /directory/:id.
//
// @Summary      Get a directory entry
// @Tags         directory
// @Produce      json
// @Param        id   path      string  true  "Slug or ID"
// @Success      200  {object}  domain.DirectoryEntry
// @Failure      404  {object}  errorResponse
// @Router       /directory/{id} [get]
func (h *DirectoryHandler) Get(c echo.Context) error {
	d, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, d)
}

// Create handles POST /directory.
//
// @Summary      Create a directory entry
// @Tags         directory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      directoryRequest  true  "Entry"
// @Success      201   {object}  domain.DirectoryEntry
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /directory [post]
func (h *DirectoryHandler) Create(c echo.Context) error {
	var req directoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	d, err := h.service.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	metrics.ContentMutationsTotal.WithLabelValues("directory", "create").Inc()
	return respondMessage(c, http.StatusCreated, d, "directory entry created")
}

// Update handles PUT /directory/:id.
//
// @Summary      Update a directory entry
// @Tags         directory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "ID"
// @Param        body  body      directoryRequest  true  "Fields to change"
// @Success      200   {object}  domain.DirectoryEntry
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /directory/{id} [put]
func (h *DirectoryHandler) Update(c echo.Context) error {
	var req directoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	d, err := h.service.Update(c.Request().Context(), c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	metrics.ContentMutationsTotal.WithLabelValues("directory", "update").Inc()
	return respondMessage(c, http.StatusOK, d, "directory entry updated")
}

// Patch handles PATCH /directory/:id.
//
// @Summary      Change publication or deletion state
// @Tags         directory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "ID"
// @Param        body  body      patchRequest  true  "Lifecycle change"
// @Success      200   {object}  domain.DirectoryEntry
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /directory/{id} [patch]
func (h *DirectoryHandler) Patch(c echo.Context) error {
	patch, err := bindPatch(c)
	if err != nil {
		return err
	}
	d, err := h.service.Patch(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return err
	}
	metrics.ContentMutationsTotal.WithLabelValues("directory", "patch").Inc()
	return respond(c, http.StatusOK, d)
}

// Delete handles DELETE /directory/:id.
//
// @Summary      Delete a directory entry
// @Tags         directory
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "ID"
// @Success      200  {object}  domain.DirectoryEntry
// @Failure      404  {object}  errorResponse
// @Router       /directory/{id} [delete]
func (h *DirectoryHandler) Delete(c echo.Context) error {
	d, err := h.service.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	metrics.ContentMutationsTotal.WithLabelValues("directory", "delete").Inc()
	return respondMessage(c, http.StatusOK, d, "directory entry deleted")
}
