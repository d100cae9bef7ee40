package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pdpi/member-portal/internal/api/metrics"
	"github.com/pdpi/member-portal/internal/core/domain"
	"github.com/pdpi/member-portal/internal/core/ports"
)

// ViewQueue accepts article view events for asynchronous counting.
type ViewQueue interface {
	Enqueue(ev ports.ViewEvent) bool
}

// NewsHandler serves the news collection.
type NewsHandler struct {
	service ports.NewsService
	views   ViewQueue
}

// NewNewsHandler builds a NewsHandler. views may be nil to disable view counting.
func NewNewsHandler(service ports.NewsService, views ViewQueue) *NewsHandler {
	return &NewsHandler{service: service, views: views}
}

// List handles GET /news.
//
// @Summary      List news
// @Tags         news
// @Produce      json
// @Param        page      query     int     false  "Page number (1-based)"
// @Param        limit     query     int     false  "Page size (max 100)"
// @Param        status    query     string  false  "draft, published, deleted or all"
// @Param        category  query     string  false  "News category"
// @Param        author    query     string  false  "Author name"
// @Param        search    query     string  false  "Substring of title, excerpt or content"
// @Param        month     query     string  false  "Publication month, YYYY-MM"
// @Param        sort      query     string  false  "latest or popular"
// @Success      200       {object}  domain.Page[domain.News]
// @Failure      400       {object}  errorResponse
// @Router       /news [get]
func (h *NewsHandler) List(c echo.Context) error {
	lf, err := listFilter(c)
	if err != nil {
		return err
	}
	sort := ports.NewsSort(strings.ToLower(c.QueryParam("sort")))
	switch sort {
	case "", ports.NewsSortLatest, ports.NewsSortPopular:
	default:
		return domain.Invalid("sort must be latest or popular")
	}

	page, err := h.service.List(c.Request().Context(), ports.NewsFilter{
		ListFilter: lf,
		Category:   domain.NewsCategory(c.QueryParam("category")),
		Author:     c.QueryParam("author"),
		Search:     c.QueryParam("search"),
		Month:      c.QueryParam("month"),
		Sort:       sort,
	})
	if err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, page, "news fetched successfully")
}

// Get handles GET /news/:id. The key is tried as a slug, then as an ID.
//
// @Summary      Get a news article
// @Tags         news
// @Produce      json
// @Param        id   path      string  true  "Slug or ID"
// @Success      200  {object}  domain.News
// @Failure      404  {object}  errorResponse
// @Router       /news/{id} [get]
func (h *NewsHandler) Get(c echo.Context) error {
	n, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if h.views != nil && n.Status == domain.StatusPublished {
		h.views.Enqueue(ports.ViewEvent{ArticleID: n.ID, Visitor: visitorKey(c)})
	}
	return respond(c, http.StatusOK, n)
}

// Create handles POST /news.
//
// @Summary      Create a news article
// @Tags         news
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      newsRequest  true  "Article"
// @Success      201   {object}  domain.News
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /news [post]
func (h *NewsHandler) Create(c echo.Context) error {
	var req newsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	n, err := h.service.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	metrics.ContentMutationsTotal.WithLabelValues("news", "create").Inc()
	return respondMessage(c, http.StatusCreated, n, "news created")
}

// Update handles PUT /news/:id, merging the provided fields.
//
// @Summary      Update a news article
// @Tags         news
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "ID"
// @Param        body  body      newsRequest  true  "Fields to change"
// @Success      200   {object}  domain.News
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /news/{id} [put]
func (h *NewsHandler) Update(c echo.Context) error {
	var req newsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	n, err := h.service.Update(c.Request().Context(), c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	metrics.ContentMutationsTotal.WithLabelValues("news", "update").Inc()
	return respondMessage(c, http.StatusOK, n, "news updated")
}

// Patch handles PATCH /news/:id.
//
// @Summary      Change publication or deletion state
// @Tags         news
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "ID"
// @Param        body  body      patchRequest  true  "Lifecycle change"
// @Success      200   {object}  domain.News
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /news/{id} [patch]
func (h *NewsHandler) Patch(c echo.Context) error {
	patch, err := bindPatch(c)
	if err != nil {
		return err
	}
	n, err := h.service.Patch(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return err
	}
	metrics.ContentMutationsTotal.WithLabelValues("news", "patch").Inc()
	return respond(c, http.StatusOK, n)
}

// Delete handles DELETE /news/:id as a soft delete.
//
// @Summary      Delete a news article
// @Tags         news
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "ID"
// @Success      200  {object}  domain.News
// @Failure      404  {object}  errorResponse
// @Router       /news/{id} [delete]
func (h *NewsHandler) Delete(c echo.Context) error {
	n, err := h.service.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	metrics.ContentMutationsTotal.WithLabelValues("news", "delete").Inc()
	return respondMessage(c, http.StatusOK, n, "news deleted")
}
