package pagination

import (
	"net/url"
	"strconv"
)

// PageRequest represents a client request for a page of data with an
// optional free-text search term. Page is zero-based; an unparsable page
// parameter defaults to 0.
type PageRequest struct {
	Page   int     `json:"page"`
	Search *string `json:"search,omitempty"`
}

// Normalize clamps negative page numbers to zero.
func (r *PageRequest) Normalize() {
	if r.Page < 0 {
		r.Page = 0
	}
}

// Offset calculates the number of records to skip, clamped to the
// configured maximum so deep pagination cannot walk the whole table.
func (r *PageRequest) Offset(cfg Config) int {
	offset := r.Page * cfg.PageSize
	if offset > cfg.MaxOffset {
		return cfg.MaxOffset
	}
	return offset
}

// FromQuery parses pagination parameters from URL query values.
// Supported parameters: page, search.
func FromQuery(values url.Values) PageRequest {
	page, _ := strconv.Atoi(values.Get("page"))

	var search *string
	if s := values.Get("search"); s != "" {
		search = &s
	}

	req := PageRequest{Page: page, Search: search}
	req.Normalize()
	return req
}
