package model

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// Paginated is the envelope returned by all listing operations.
type Paginated[T any] struct {
	Data        []T  `json:"data"`
	Total       int  `json:"total"`
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	TotalPages  int  `json:"total_pages"`
	HasNextPage bool `json:"has_next_page"`
	HasPrevPage bool `json:"has_prev_page"`
}

// NewPaginated builds the envelope from one page of items and the total count.
func NewPaginated[T any](data []T, total, page, limit int) *Paginated[T] {
	if data == nil {
		data = []T{}
	}
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return &Paginated[T]{
		Data:        data,
		Total:       total,
		Page:        page,
		Limit:       limit,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1 && total > 0,
	}
}

func normalizePagination(page, limit *int) {
	if *page < 1 {
		*page = defaultPage
	}
	if *limit < 1 {
		*limit = defaultLimit
	}
	if *limit > maxLimit {
		*limit = maxLimit
	}
}
