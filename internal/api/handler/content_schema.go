package handler

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pdpi/member-portal/internal/core/domain"
	"github.com/pdpi/member-portal/internal/core/ports"
)

// --- Request types ---
//
// Every field is optional so the same body serves POST (create) and PUT
// (merge update). Required fields are enforced by the services.

type newsRequest struct {
	Slug        *string              `json:"slug"        validate:"omitempty,max=200"`
	Title       *string              `json:"title"       validate:"omitempty,max=300"`
	Excerpt     *string              `json:"excerpt"`
	Content     *string              `json:"content"`
	Image       *string              `json:"image"`
	Category    *domain.NewsCategory `json:"category"    validate:"omitempty,oneof=umum ilmiah kegiatan pengumuman prestasi"`
	Tags        []string             `json:"tags"`
	Author      *string              `json:"author"      validate:"omitempty,max=120"`
	Status      *domain.Status       `json:"status"      validate:"omitempty,oneof=draft published"`
	PublishedAt *time.Time           `json:"publishedAt"`
}

func (r newsRequest) toInput() ports.NewsInput {
	return ports.NewsInput{
		Slug:        r.Slug,
		Title:       r.Title,
		Excerpt:     r.Excerpt,
		Content:     r.Content,
		Image:       r.Image,
		Category:    r.Category,
		Tags:        r.Tags,
		Author:      r.Author,
		Status:      r.Status,
		PublishedAt: r.PublishedAt,
	}
}

type agendaRequest struct {
	Slug            *string            `json:"slug"            validate:"omitempty,max=200"`
	Title           *string            `json:"title"           validate:"omitempty,max=300"`
	Description     *string            `json:"description"`
	Type            *domain.AgendaType `json:"type"            validate:"omitempty,oneof=webinar workshop seminar kongres pelatihan"`
	Date            *time.Time         `json:"date"`
	EndDate         *time.Time         `json:"endDate"`
	Location        *string            `json:"location"`
	IsOnline        *bool              `json:"isOnline"`
	SKP             *float64           `json:"skp"             validate:"omitempty,gte=0"`
	Quota           *int               `json:"quota"           validate:"omitempty,gte=0"`
	Registered      *int               `json:"registered"      validate:"omitempty,gte=0"`
	RegistrationURL *string            `json:"registrationUrl" validate:"omitempty,url"`
	Image           *string            `json:"image"`
	Fee             *string            `json:"fee"`
	Status          *domain.Status     `json:"status"          validate:"omitempty,oneof=draft published"`
	PublishedAt     *time.Time         `json:"publishedAt"`
}

func (r agendaRequest) toInput() ports.AgendaInput {
	return ports.AgendaInput{
		Slug:            r.Slug,
		Title:           r.Title,
		Description:     r.Description,
		Type:            r.Type,
		Date:            r.Date,
		EndDate:         r.EndDate,
		Location:        r.Location,
		IsOnline:        r.IsOnline,
		SKP:             r.SKP,
		Quota:           r.Quota,
		Registered:      r.Registered,
		RegistrationURL: r.RegistrationURL,
		Image:           r.Image,
		Fee:             r.Fee,
		Status:          r.Status,
		PublishedAt:     r.PublishedAt,
	}
}

type directoryRequest struct {
	Slug             *string              `json:"slug"             validate:"omitempty,max=200"`
	Name             *string              `json:"name"             validate:"omitempty,max=300"`
	Type             *domain.FacilityType `json:"type"             validate:"omitempty,oneof=rumah_sakit klinik instansi laboratorium"`
	Address          *string              `json:"address"`
	Phone            *string              `json:"phone"            validate:"omitempty,max=40"`
	Email            *string              `json:"email"            validate:"omitempty,email"`
	Website          *string              `json:"website"          validate:"omitempty,url"`
	City             *string              `json:"city"`
	Province         *string              `json:"province"`
	HasRespirologist *bool                `json:"hasRespirologist"`
	Facilities       []string             `json:"facilities"`
	Status           *domain.Status       `json:"status"           validate:"omitempty,oneof=draft published"`
	PublishedAt      *time.Time           `json:"publishedAt"`
}

func (r directoryRequest) toInput() ports.DirectoryInput {
	return ports.DirectoryInput{
		Slug:             r.Slug,
		Name:             r.Name,
		Type:             r.Type,
		Address:          r.Address,
		Phone:            r.Phone,
		Email:            r.Email,
		Website:          r.Website,
		City:             r.City,
		Province:         r.Province,
		HasRespirologist: r.HasRespirologist,
		Facilities:       r.Facilities,
		Status:           r.Status,
		PublishedAt:      r.PublishedAt,
	}
}

// patchRequest toggles lifecycle fields. An empty deletedAt, or restore=true,
// clears a soft delete; a timestamp sets one.
type patchRequest struct {
	Status      *domain.Status `json:"status"      validate:"omitempty,oneof=draft published"`
	PublishedAt *string        `json:"publishedAt"`
	DeletedAt   *string        `json:"deletedAt"`
	Restore     bool           `json:"restore"`
}

func (r patchRequest) toPatch() (domain.LifecyclePatch, error) {
	p := domain.LifecyclePatch{Status: r.Status, Restore: r.Restore}
	if r.PublishedAt != nil && strings.TrimSpace(*r.PublishedAt) != "" {
		t, err := parseTimestamp("publishedAt", strings.TrimSpace(*r.PublishedAt))
		if err != nil {
			return p, err
		}
		p.PublishedAt = &t
	}
	if r.DeletedAt != nil {
		raw := strings.TrimSpace(*r.DeletedAt)
		if raw == "" {
			p.Restore = true
		} else {
			t, err := parseTimestamp("deletedAt", raw)
			if err != nil {
				return p, err
			}
			p.DeletedAt = &t
		}
	}
	if p.Status == nil && p.PublishedAt == nil && p.DeletedAt == nil && !p.Restore {
		return p, domain.Invalid("nothing to patch")
	}
	return p, nil
}

// bindPatch decodes and validates a PATCH body.
func bindPatch(c echo.Context) (domain.LifecyclePatch, error) {
	var req patchRequest
	if err := bindAndValidate(c, &req); err != nil {
		return domain.LifecyclePatch{}, err
	}
	return req.toPatch()
}
