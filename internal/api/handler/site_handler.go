package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pdpi/member-portal/internal/api/metrics"
	"github.com/pdpi/member-portal/internal/core/ports"
)

// SiteHandler serves the low-volume site content: homepage, organization
// profile, board, dynamic pages and member documents.
type SiteHandler struct {
	service ports.SiteService
}

func NewSiteHandler(service ports.SiteService) *SiteHandler {
	return &SiteHandler{service: service}
}

// Homepage handles GET /homepage.
//
// @Summary      Homepage content
// @Tags         site
// @Produce      json
// @Success      200  {object}  domain.Homepage
// @Router       /homepage [get]
func (h *SiteHandler) Homepage(c echo.Context) error {
	home, err := h.service.Homepage(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, home)
}

// UpdateHomepage handles POST /homepage. Hero and SEO merge field by field;
// stats and features replace the current lists.
//
// @Summary      Update homepage content
// @Tags         site
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      homepageRequest  true  "Partial homepage"
// @Success      200   {object}  domain.Homepage
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /homepage [post]
func (h *SiteHandler) UpdateHomepage(c echo.Context) error {
	var req homepageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	patch, err := req.toPatch()
	if err != nil {
		return err
	}
	home, err := h.service.UpdateHomepage(c.Request().Context(), patch)
	if err != nil {
		return err
	}
	metrics.ContentMutationsTotal.WithLabelValues("homepage", "update").Inc()
	return respondMessage(c, http.StatusOK, home, "homepage updated")
}

// Organization handles GET /organization.
//
// @Summary      Organization profile
// @Tags         site
// @Produce      json
// @Success      200  {object}  domain.OrgProfile
// @Router       /organization [get]
func (h *SiteHandler) Organization(c echo.Context) error {
	profile, err := h.service.Profile(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, profile)
}

// Board handles GET /board.
//
// @Summary      Board members
// @Tags         site
// @Produce      json
// @Param        level  query     string  false  "pusat, wilayah or cabang"
// @Success      200    {array}   domain.BoardMember
// @Failure      400    {object}  errorResponse
// @Router       /board [get]
func (h *SiteHandler) Board(c echo.Context) error {
	members, err := h.service.Board(c.Request().Context(), c.QueryParam("level"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, members)
}

// DynamicContents handles GET /dynamic-content.
//
// @Summary      List dynamic pages
// @Tags         site
// @Produce      json
// @Success      200  {array}  domain.DynamicContent
// @Router       /dynamic-content [get]
func (h *SiteHandler) DynamicContents(c echo.Context) error {
	pages, err := h.service.DynamicContents(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, pages)
}

// DynamicContent handles GET /dynamic-content/*. A missing page is a
// successful response with null data so the front end can fall back.
//
// @Summary      Get a dynamic page
// @Tags         site
// @Produce      json
// @Param        slug  path      string  true  "Page path such as profil/visi-misi"
// @Success      200   {object}  domain.DynamicContent
// @Router       /dynamic-content/{slug} [get]
func (h *SiteHandler) DynamicContent(c echo.Context) error {
	page, err := h.service.DynamicContent(c.Request().Context(), c.Param("*"))
	if err != nil {
		return err
	}
	if page == nil {
		return respondMessage(c, http.StatusOK, nil, "content not found")
	}
	return respond(c, http.StatusOK, page)
}

// SaveDynamicContent handles POST /dynamic-content as an upsert by slug.
//
// @Summary      Create or replace a dynamic page
// @Tags         site
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dynamicContentRequest  true  "Page"
// @Success      200   {object}  domain.DynamicContent
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /dynamic-content [post]
func (h *SiteHandler) SaveDynamicContent(c echo.Context) error {
	var req dynamicContentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	page, err := h.service.SaveDynamicContent(c.Request().Context(), req.toContent())
	if err != nil {
		return err
	}
	metrics.ContentMutationsTotal.WithLabelValues("dynamic_content", "update").Inc()
	return respondMessage(c, http.StatusOK, page, "content saved")
}

// Documents handles GET /documents, returning the caller's credentials.
//
// @Summary      Member documents
// @Tags         site
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Document
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /documents [get]
func (h *SiteHandler) Documents(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	docs, err := h.service.Documents(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, docs)
}
