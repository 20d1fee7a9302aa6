package userlist

import "github.com/99minutos/employee-dashboard/internal/core/domain"

// RowsPerPageOptions are the selectable page sizes.
var RowsPerPageOptions = []int{5, 10, 25}

const DefaultRowsPerPage = 10

// Page is one slice of the rows.
type Page struct {
	Rows        []domain.User
	Page        int
	RowsPerPage int
	Total       int
}

// Pages returns the number of pages, at least one.
func (p Page) Pages() int {
	if p.Total == 0 {
		return 1
	}
	return (p.Total + p.RowsPerPage - 1) / p.RowsPerPage
}

// Page slices the current rows. page is zero-based and clamped to the last
// page; an unsupported rowsPerPage falls back to the default.
func (c *Controller) Page(page, rowsPerPage int) Page {
	return Paginate(c.Rows(), page, rowsPerPage)
}

// Paginate slices rows.
func Paginate(rows []domain.User, page, rowsPerPage int) Page {
	if !validRowsPerPage(rowsPerPage) {
		rowsPerPage = DefaultRowsPerPage
	}
	p := Page{RowsPerPage: rowsPerPage, Total: len(rows)}

	if page < 0 {
		page = 0
	}
	if last := p.Pages() - 1; page > last {
		page = last
	}
	p.Page = page

	start := page * rowsPerPage
	end := start + rowsPerPage
	if end > len(rows) {
		end = len(rows)
	}
	p.Rows = rows[start:end]
	return p
}

func validRowsPerPage(n int) bool {
	for _, opt := range RowsPerPageOptions {
		if n == opt {
			return true
		}
	}
	return false
}
