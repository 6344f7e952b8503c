// Package pagination turns page/limit query parameters into offsets and
// wraps list results with page metadata.
package pagination

import "github.com/gofiber/fiber/v2"

const (
	// DefaultLimit is used when no limit is given
	DefaultLimit = 20

	// MaxLimit caps a single page
	MaxLimit = 100
)

// Params is a clamped page request
type Params struct {
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"-"`
}

// Meta describes where a page sits in the full result
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// Response is one page of T
type Response[T any] struct {
	Data []T   `json:"data"`
	Meta *Meta `json:"meta"`
}

// GetParams reads ?page= and ?limit=; unparsable values fall back to the defaults
func GetParams(c *fiber.Ctx) *Params {
	return NewParams(c.QueryInt("page", 1), c.QueryInt("limit", DefaultLimit))
}

// NewParams clamps page and limit and derives the offset
func NewParams(page, limit int) *Params {
	if page < 1 {
		page = 1
	}
	switch {
	case limit < 1:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}
	return &Params{Page: page, Limit: limit, Offset: (page - 1) * limit}
}

// GetMeta calculates page metadata for total rows
func GetMeta(params *Params, total int64) *Meta {
	totalPages := int((total + int64(params.Limit) - 1) / int64(params.Limit))
	return &Meta{
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1,
	}
}

// NewResponse wraps one page of rows. A nil slice is sent as [].
func NewResponse[T any](data []T, params *Params, total int64) *Response[T] {
	if data == nil {
		data = []T{}
	}
	return &Response[T]{Data: data, Meta: GetMeta(params, total)}
}
