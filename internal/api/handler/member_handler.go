package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pdpi/member-portal/internal/core/domain"
	"github.com/pdpi/member-portal/internal/core/ports"
)

// MemberHandler serves the public member directory.
type MemberHandler struct {
	service ports.MemberService
}

func NewMemberHandler(service ports.MemberService) *MemberHandler {
	return &MemberHandler{service: service}
}

// Search handles GET /members/search. The Indonesian parameter names are
// accepted alongside the English ones.
//
// @Summary      Search members
// @Tags         members
// @Produce      json
// @Param        name      query     string  false  "Substring of the member name (alias nama)"
// @Param        branch    query     string  false  "Branch ID (alias cabang)"
// @Param        province  query     string  false  "Province (alias provinsi)"
// @Param        page      query     int     false  "Page number (1-based)"
// @Param        limit     query     int     false  "Page size (max 100)"
// @Success      200       {object}  domain.Page[domain.MemberProfile]
// @Router       /members/search [get]
func (h *MemberHandler) Search(c echo.Context) error {
	page, err := h.service.Search(c.Request().Context(), ports.MemberSearch{
		Name:     firstQuery(c, "name", "nama"),
		Branch:   firstQuery(c, "branch", "cabang"),
		Province: firstQuery(c, "province", "provinsi"),
		Page: domain.PageRequest{
			Page:  queryInt(c, "page"),
			Limit: queryInt(c, "limit"),
		},
	})
	if err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, page, "members fetched successfully")
}

// Filters handles GET /members/filters.
//
// @Summary      Member directory filter values
// @Tags         members
// @Produce      json
// @Success      200  {object}  domain.MemberFilters
// @Router       /members/filters [get]
func (h *MemberHandler) Filters(c echo.Context) error {
	f, err := h.service.Filters(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, f)
}
