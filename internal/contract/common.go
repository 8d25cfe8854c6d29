package contract

// Page describes one 1-indexed page of a listing. A page past the end
// carries no rows but still reports the totals.
type Page struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func (p Page) HasNext() bool { return p.Page < p.TotalPages }
func (p Page) HasPrev() bool { return p.Page > 1 }

// Beyond reports whether the page lies past the last populated page.
func (p Page) Beyond() bool { return p.Page > p.TotalPages }
