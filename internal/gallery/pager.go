package gallery

// Paginate returns the page-index'th slice of size items along with the
// total item count. It is a pure slicing function: an out-of-range page
// yields an empty slice, not an error, and no clamping is performed — the
// caller clamps the index before navigation changes it.
func Paginate[T any](items []T, page, size int) ([]T, int) {
	total := len(items)
	if page < 0 || size <= 0 {
		return nil, total
	}

	start := page * size
	if start >= total {
		return nil, total
	}

	end := start + size
	if end > total {
		end = total
	}
	return items[start:end], total
}

// TotalPages returns the page count for total items at size per page.
// Zero items still occupy one (empty) page.
func TotalPages(total, size int) int {
	if size <= 0 {
		return 1
	}
	if total == 0 {
		return 1
	}
	return (total + size - 1) / size
}

// ClampPage bounds a requested page index to the valid range for total
// items at size per page. Navigation callers apply this before Paginate.
func ClampPage(page, total, size int) int {
	if page < 0 {
		return 0
	}
	if last := TotalPages(total, size) - 1; page > last {
		return last
	}
	return page
}
