package model

const (
	DefaultPage  = 1
	DefaultLimit = 5
	MaxLimit     = 100
)

// PaginatedResponse is a page of results with the total number of items.
// Page is 1-based.
type PaginatedResponse[T any] struct {
	Data  []T   `json:"data"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// Offset returns the number of items to skip for page with the given limit.
func Offset(page, limit int) int64 {
	if page < 1 {
		page = 1
	}
	return int64(page-1) * int64(limit)
}

// TotalPages returns how many pages of size limit hold total items.
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// ItemCount is the number of items on this page.
func (p *PaginatedResponse[T]) ItemCount() int {
	return len(p.Data)
}
