package domain

import "math"

const MaxPageLimit = 100

// MaxPage keeps (page-1)*limit within int for any normalized limit.
const MaxPage = math.MaxInt / MaxPageLimit

// PageRequest is a 1-based offset pagination request.
type PageRequest struct {
	Page  int
	Limit int
}

// Normalize clamps the request: page defaults to 1 and never exceeds MaxPage,
// limit defaults to def and never exceeds MaxPageLimit.
func (p PageRequest) Normalize(def int) PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Limit < 1 {
		p.Limit = def
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

// Offset returns the number of items to skip, saturating at math.MaxInt.
func (p PageRequest) Offset() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// PageInfo is the pagination block returned with every list.
type PageInfo struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NewPageInfo computes totalPages as ceil(total/limit).
func NewPageInfo(req PageRequest, total int64) PageInfo {
	pages := 0
	if req.Limit > 0 {
		pages = int((total + int64(req.Limit) - 1) / int64(req.Limit))
	}
	return PageInfo{Page: req.Page, Limit: req.Limit, Total: total, TotalPages: pages}
}

// Page is one page of results.
type Page[T any] struct {
	Items      []T      `json:"items"`
	Pagination PageInfo `json:"pagination"`
}

// Paginate slices items according to req. The result's Items is never nil.
func Paginate[T any](items []T, req PageRequest) Page[T] {
	total := len(items)
	start := req.Offset()
	if start < 0 || start > total {
		start = total
	}
	end := total
	if req.Limit >= 0 && req.Limit < total-start {
		end = start + req.Limit
	}
	out := make([]T, end-start)
	copy(out, items[start:end])
	return Page[T]{Items: out, Pagination: NewPageInfo(req, int64(total))}
}
