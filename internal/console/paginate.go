package console

// Ellipsis marks a collapsed gap in a page-number sequence
const Ellipsis = -1

// TotalPages returns how many pages cover total items at the given limit
func TotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// PageNumbers builds the page-number sequence for pagination controls: a
// window of up to max pages centered on current, with the first and last
// page always present and gaps collapsed to Ellipsis. Even window sizes are
// rounded down to the next odd size so the window stays centered. The window
// is clamped against the range boundaries.
func PageNumbers(current, total, max int) []int {
	if total <= 0 {
		return nil
	}
	if max < 1 {
		max = 1
	}
	if max%2 == 0 {
		max--
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	half := max / 2
	start := current - half
	end := current + half
	if start < 1 {
		end += 1 - start
		start = 1
	}
	if end > total {
		start -= end - total
		end = total
	}
	if start < 1 {
		start = 1
	}

	pages := make([]int, 0, end-start+5)
	if start > 1 {
		pages = append(pages, 1)
		if start > 2 {
			pages = append(pages, Ellipsis)
		}
	}
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	if end < total {
		if end < total-1 {
			pages = append(pages, Ellipsis)
		}
		pages = append(pages, total)
	}

	return pages
}
