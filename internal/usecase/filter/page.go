package filter

import "github.com/kailas-cloud/ementa/internal/domain/decision"

// Page is one window of a filtered view.
type Page struct {
	Items      []decision.Decision
	Page       int
	PageSize   int
	TotalPages int
	Total      int
}

// Paginate slices records into the requested page. TotalPages is at least 1 and
// page is clamped into [1, TotalPages].
func Paginate(records []decision.Decision, page, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = 1
	}
	total := len(records)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page{
		Items:      records[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		Total:      total,
	}
}
