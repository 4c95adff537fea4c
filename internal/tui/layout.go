// pattern: Functional Core

package tui

import "devhub/internal/viewport"

// Region defines a rectangular area within the terminal.
type Region struct {
	X      int // Left position (0-indexed)
	Y      int // Top position (0-indexed)
	Width  int // Width in cells
	Height int // Height in lines
}

// Layout holds computed regions for all UI components.
type Layout struct {
	Header    Region // Title and project count
	Search    Region // Search bar, zero height when hidden
	Body      Region // Project table or directory explorer
	Confirm   Region // Delete confirmation, zero height when hidden
	StatusBar Region // Message or key hints
}

// Fixed heights for chrome elements
const (
	headerHeight       = 2 // Title + margin
	searchBarHeight    = 1
	confirmBarHeight   = 1
	statusBarHeight    = 1
	columnHeaderHeight = 1 // Table column titles
	explorerChrome     = 2 // Explorer path + hints
	minBodyHeight      = 2
)

// ComputeLayout calculates regions based on terminal dimensions.
func ComputeLayout(width, height int, searchOpen, confirmOpen bool) Layout {
	fixed := headerHeight + statusBarHeight
	if searchOpen {
		fixed += searchBarHeight
	}
	if confirmOpen {
		fixed += confirmBarHeight
	}
	bodyHeight := max(minBodyHeight, height-fixed)

	y := 0
	header := Region{X: 0, Y: y, Width: width, Height: headerHeight}
	y += headerHeight

	var search Region
	if searchOpen {
		search = Region{X: 0, Y: y, Width: width, Height: searchBarHeight}
		y += searchBarHeight
	}

	body := Region{X: 0, Y: y, Width: width, Height: bodyHeight}
	y += bodyHeight

	var confirm Region
	if confirmOpen {
		confirm = Region{X: 0, Y: y, Width: width, Height: confirmBarHeight}
		y += confirmBarHeight
	}

	statusBar := Region{X: 0, Y: y, Width: width, Height: statusBarHeight}

	return Layout{
		Header:    header,
		Search:    search,
		Body:      body,
		Confirm:   confirm,
		StatusBar: statusBar,
	}
}

// ListRows returns how many project rows fit below the column titles.
func (l Layout) ListRows() int {
	return viewport.Capacity(l.Body.Height, columnHeaderHeight)
}

// ExplorerRows returns how many directory entries fit below the explorer chrome.
func (l Layout) ExplorerRows() int {
	return viewport.Capacity(l.Body.Height, explorerChrome)
}
