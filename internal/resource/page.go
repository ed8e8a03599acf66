package resource

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest describes one page of a listing.
type PageRequest struct {
	Category string
	Page     int
	Limit    int
}

// ParsePageRequest reads category, page and limit from query parameters.
// Missing or malformed values fall back to page 1 and the default size;
// category "all" means no filter.
func ParsePageRequest(q url.Values) PageRequest {
	p := PageRequest{
		Category: strings.TrimSpace(q.Get("category")),
		Page:     1,
		Limit:    DefaultPageSize,
	}
	if strings.EqualFold(p.Category, "all") {
		p.Category = ""
	}
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n >= 1 {
		p.Page = n
	}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n >= 1 {
		p.Limit = min(n, MaxPageSize)
	}
	return p
}

// Offset is the number of records preceding this page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is one page of a listing.
type Page[T any] struct {
	Items       []T   `json:"items"`
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
}

// TotalPages returns ceil(total / limit).
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
