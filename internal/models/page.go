package models

// PageMeta accompanies every paginated list response.
type PageMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// Page is the { data, meta } envelope returned by list endpoints.
type Page[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

func NewPageMeta(total int64, page, limit int) PageMeta {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return PageMeta{Total: total, Page: page, Limit: limit, TotalPages: pages}
}

func NewPage[T any](data []T, total int64, page, limit int) Page[T] {
	if data == nil {
		data = []T{}
	}
	return Page[T]{Data: data, Meta: NewPageMeta(total, page, limit)}
}
