package listing

// DefaultPageSize is how many rows a list page shows.
const DefaultPageSize = 5

// TotalPages is never less than one, so an empty list still has page 1.
func TotalPages(n, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if n <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

// ClampPage keeps page within [1, total].
func ClampPage(page, total int) int {
	if total < 1 {
		total = 1
	}
	if page > total {
		page = total
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Window returns the half-open [start, end) slice bounds of page over n items.
func Window(n, page, size int) (int, int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	page = ClampPage(page, TotalPages(n, size))
	start := (page - 1) * size
	if start > n {
		start = n
	}
	end := start + size
	if end > n {
		end = n
	}
	return start, end
}
