package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pdpi/member-portal/internal/core/ports"
)

type viewService struct {
	news  ports.NewsRepository
	dedup ports.ViewDeduper
	log   zerolog.Logger
}

// NewViewService returns a ViewService that counts each visitor at most once
// per deduplication window.
func NewViewService(news ports.NewsRepository, dedup ports.ViewDeduper, log zerolog.Logger) ports.ViewService {
	return &viewService{news: news, dedup: dedup, log: log}
}

// Process increments the view counter of ev.ArticleID unless the visitor was
// already counted. A failing dedup store counts the view anyway.
func (s *viewService) Process(ctx context.Context, ev ports.ViewEvent) error {
	if ev.Visitor != "" && s.dedup != nil {
		seen, err := s.dedup.Seen(ctx, ev.ArticleID, ev.Visitor)
		if err != nil {
			s.log.Warn().Err(err).Str("article_id", ev.ArticleID).Msg("view dedup failed, counting anyway")
		} else if seen {
			s.log.Debug().Str("article_id", ev.ArticleID).Msg("repeat view skipped")
			return nil
		}
	}

	if err := s.news.IncrementViews(ctx, ev.ArticleID, 1); err != nil {
		return fmt.Errorf("record view: %w", err)
	}
	return nil
}
