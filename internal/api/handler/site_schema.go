package handler

import (
	"github.com/pdpi/member-portal/internal/core/domain"
)

type heroPatchRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Images      []string `json:"images"`
}

type seoPatchRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type homepageRequest struct {
	Hero     *heroPatchRequest    `json:"hero"`
	Stats    []domain.StatItem    `json:"stats"`
	Features []domain.FeatureItem `json:"features"`
	SEO      *seoPatchRequest     `json:"seo"`
}

func (r homepageRequest) toPatch() (domain.HomepagePatch, error) {
	var p domain.HomepagePatch
	if r.Hero == nil && r.Stats == nil && r.Features == nil && r.SEO == nil {
		return p, domain.Invalid("body is required")
	}
	if r.Hero != nil {
		p.Hero = &domain.HeroPatch{Title: r.Hero.Title, Description: r.Hero.Description, Images: r.Hero.Images}
	}
	if r.SEO != nil {
		p.SEO = &domain.SEOPatch{Title: r.SEO.Title, Description: r.SEO.Description}
	}
	p.Stats = r.Stats
	p.Features = r.Features
	return p, nil
}

type dynamicContentRequest struct {
	Slug        string           `json:"slug"        validate:"required"`
	Title       string           `json:"title"       validate:"required"`
	Description string           `json:"description"`
	Body        string           `json:"body"`
	HTML        string           `json:"html"`
	Date        string           `json:"date"`
	Image       *domain.ImageRef `json:"image"`
	Authors     []domain.Author  `json:"authors"`
	Badge       *domain.Badge    `json:"badge"`
}

func (r dynamicContentRequest) toContent() domain.DynamicContent {
	return domain.DynamicContent{
		Slug:        r.Slug,
		Title:       r.Title,
		Description: r.Description,
		Body:        r.Body,
		HTML:        r.HTML,
		Date:        r.Date,
		Image:       r.Image,
		Authors:     r.Authors,
		Badge:       r.Badge,
	}
}
