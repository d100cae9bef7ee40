package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdpi/member-portal/internal/core/domain"
	"github.com/pdpi/member-portal/internal/core/ports"
)

const memberPageSize = 20

// MemberService searches the public member directory.
type MemberService struct {
	repo ports.MemberRepository
	log  zerolog.Logger
}

func NewMemberService(repo ports.MemberRepository, log zerolog.Logger) *MemberService {
	return &MemberService{repo: repo, log: log}
}

// Search returns listed members matching q, ordered by name.
func (s *MemberService) Search(ctx context.Context, q ports.MemberSearch) (domain.Page[domain.MemberProfile], error) {
	users, err := s.listed(ctx)
	if err != nil {
		return domain.Page[domain.MemberProfile]{}, err
	}

	name := strings.ToLower(strings.TrimSpace(q.Name))
	branch := strings.TrimSpace(q.Branch)
	province := strings.TrimSpace(q.Province)

	matched := make([]domain.MemberProfile, 0, len(users))
	for _, u := range users {
		if name != "" && !strings.Contains(strings.ToLower(u.Name), name) {
			continue
		}
		if branch != "" && !strings.EqualFold(u.BranchID, branch) {
			continue
		}
		if province != "" && !strings.EqualFold(u.Province, province) {
			continue
		}
		matched = append(matched, domain.NewMemberProfile(u))
	}
	return domain.Paginate(matched, q.Page.Normalize(memberPageSize)), nil
}

// Filters returns the distinct branches and provinces among listed members.
func (s *MemberService) Filters(ctx context.Context) (domain.MemberFilters, error) {
	users, err := s.listed(ctx)
	if err != nil {
		return domain.MemberFilters{}, err
	}
	f := domain.MemberFilters{Branches: []string{}, Provinces: []string{}}
	for _, u := range users {
		if u.BranchID != "" {
			f.Branches = append(f.Branches, u.BranchID)
		}
		if u.Province != "" {
			f.Provinces = append(f.Provinces, u.Province)
		}
	}
	slices.Sort(f.Branches)
	slices.Sort(f.Provinces)
	f.Branches = slices.Compact(f.Branches)
	f.Provinces = slices.Compact(f.Provinces)
	return f, nil
}

// listed loads the directory, drops anything the repository let through
// without a verified member ID, and orders by name then ID.
func (s *MemberService) listed(ctx context.Context) ([]*domain.User, error) {
	users, err := s.repo.ListMembers(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("list members")
		return nil, fmt.Errorf("list members: %w", err)
	}
	out := make([]*domain.User, 0, len(users))
	for _, u := range users {
		if u != nil && u.Listed() {
			out = append(out, u)
		}
	}
	slices.SortFunc(out, func(a, b *domain.User) int {
		if c := cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}
