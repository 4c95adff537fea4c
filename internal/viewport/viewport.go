// pattern: Functional Core

// Package viewport decides which rows of a list are visible.
package viewport

// Capacity returns the number of list rows that fit in a terminal of the given
// height once fixed chrome is subtracted. It is never less than one.
func Capacity(rows, chrome int) int {
	return max(1, rows-chrome)
}

// Offset returns the index of the first visible item. The selection is centered
// when possible and always stays within [offset, offset+capacity).
func Offset(n, selected, capacity int) int {
	if capacity < 1 {
		capacity = 1
	}
	if n <= capacity {
		return 0
	}
	selected = min(max(selected, 0), n-1)

	ideal := max(0, selected-capacity/2)
	lo := max(0, selected-capacity+1)
	hi := min(n-capacity, selected)
	return min(max(ideal, lo), hi)
}

// Window returns the visible index range [start, end).
func Window(n, selected, capacity int) (start, end int) {
	start = Offset(n, selected, capacity)
	end = min(n, start+max(1, capacity))
	return start, end
}

// Slice returns the visible items along with the offset of the first one.
func Slice[T any](items []T, selected, capacity int) ([]T, int) {
	start, end := Window(len(items), selected, capacity)
	return items[start:end], start
}
