package handlers

// paginationWindow is the number of numbered links shown at once.
const paginationWindow = 5

type pageLink struct {
	Number  int
	Href    string
	Current bool
}

type pagination struct {
	Page       int
	TotalPages int
	Prev       *pageLink
	Next       *pageLink
	Links      []pageLink
}

// buildPagination lays out the links around page. With an unknown total
// (0) only the current page is known and no links are produced.
func buildPagination(page, total int, href func(int) string) pagination {
	if page < 1 {
		page = 1
	}
	p := pagination{Page: page, TotalPages: total}
	if total < 1 {
		return p
	}
	if page > total {
		page = total
		p.Page = total
	}

	start := max(1, page-paginationWindow/2)
	end := min(total, start+paginationWindow-1)
	start = max(1, end-paginationWindow+1)
	for n := start; n <= end; n++ {
		p.Links = append(p.Links, pageLink{Number: n, Href: href(n), Current: n == page})
	}
	if page > 1 {
		p.Prev = &pageLink{Number: page - 1, Href: href(page - 1)}
	}
	if page < total {
		p.Next = &pageLink{Number: page + 1, Href: href(page + 1)}
	}
	return p
}
