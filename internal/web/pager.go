package web

import "github.com/deppfellow/superhero-catalog/internal/model"

// pager is the view model of the list pagination bar.
type pager struct {
	Page       int
	TotalPages int
	Pages      []int
}

func newPager(page int, total int64, limit int) pager {
	p := pager{Page: page, TotalPages: model.TotalPages(total, limit)}
	for i := 1; i <= p.TotalPages; i++ {
		p.Pages = append(p.Pages, i)
	}
	return p
}

func (p pager) HasPrev() bool { return p.Page > 1 }
func (p pager) HasNext() bool { return p.Page < p.TotalPages }
func (p pager) Prev() int     { return p.Page - 1 }
func (p pager) Next() int     { return p.Page + 1 }

// Show hides the bar when everything fits on one page.
func (p pager) Show() bool { return p.TotalPages > 1 }
