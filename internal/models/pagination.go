package models

// Pagination bounds used by every list endpoint.
const (
	DefaultPageLimit = 20
	CommentPageLimit = 10
	MaxPageLimit     = 50
)

// PageRequest holds normalized page/limit query parameters.
type PageRequest struct {
	Page  int
	Limit int
}

// NewPageRequest clamps page and limit into their allowed ranges.
func NewPageRequest(page, limit, defaultLimit int) PageRequest {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return PageRequest{Page: page, Limit: limit}
}

// Offset returns the row offset for the request.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageMeta is the pagination envelope included in every list response.
type PageMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NewPageMeta derives the response envelope from a request and total count.
// A page past the end of the result set is valid; items are simply empty.
func NewPageMeta(req PageRequest, total int64) PageMeta {
	pages := int(total) / req.Limit
	if int(total)%req.Limit != 0 {
		pages++
	}
	return PageMeta{
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: pages,
	}
}
