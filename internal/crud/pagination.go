// internal/crud/pagination.go
//
// Botfleet – CRUD subsystem: pagination envelope.

package crud

// Page is the list-response wrapper.  Page and PerPage echo the request as
// supplied; a page past the end returns empty Items with an accurate Total.
type Page[T any] struct {
	Items   []T   `json:"items"`
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Pages   int64 `json:"pages"`
}

// PageCount returns ceil(total/perPage), or 0 when nothing matched.
func PageCount(total int64, perPage int) int64 {
	if total <= 0 {
		return 0
	}
	return (total + int64(perPage) - 1) / int64(perPage)
}

// NewPage assembles the envelope.  Items is normalized to an empty slice so
// the JSON field is always a list, never null.
func NewPage[T any](items []T, total int64, page, perPage int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:   items,
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   PageCount(total, perPage),
	}
}
