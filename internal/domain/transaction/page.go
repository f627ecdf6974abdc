package transaction

import "sort"

const DefaultPerPage = 10

// Page is one page of transactions. Page numbers start at 1.
type Page struct {
	Items      []Transaction `json:"items"`
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
}

// Paginate returns page of txs. Pages below 1 are treated as 1, pages past
// the end are empty, and perPage defaults to DefaultPerPage.
func Paginate(txs []Transaction, page, perPage int) Page {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if page < 1 {
		page = 1
	}

	totalPages := len(txs) / perPage
	if len(txs)%perPage != 0 {
		totalPages++
	}
	p := Page{Items: []Transaction{}, Page: page, TotalPages: totalPages}

	if page > totalPages {
		return p
	}
	start := (page - 1) * perPage
	end := min(start+perPage, len(txs))
	p.Items = txs[start:end]
	return p
}

// SortNewestFirst orders txs by date, most recent first.
func SortNewestFirst(txs []Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.After(txs[j].Date)
	})
}
