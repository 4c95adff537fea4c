package tui

import "testing"

func TestComputeLayout(t *testing.T) {
	tests := []struct {
		name        string
		width       int
		height      int
		searchOpen  bool
		confirmOpen bool
		wantBody    Region
		wantStatusY int
		wantRows    int
	}{
		{
			name:        "standard terminal",
			width:       80,
			height:      24,
			wantBody:    Region{X: 0, Y: 2, Width: 80, Height: 21},
			wantStatusY: 23,
			wantRows:    20,
		},
		{
			name:        "search bar open",
			width:       80,
			height:      24,
			searchOpen:  true,
			wantBody:    Region{X: 0, Y: 3, Width: 80, Height: 20},
			wantStatusY: 23,
			wantRows:    19,
		},
		{
			name:        "delete confirmation open",
			width:       100,
			height:      30,
			confirmOpen: true,
			wantBody:    Region{X: 0, Y: 2, Width: 100, Height: 26},
			wantStatusY: 29,
			wantRows:    25,
		},
		{
			name:        "tiny terminal keeps one row",
			width:       40,
			height:      3,
			searchOpen:  true,
			wantBody:    Region{X: 0, Y: 3, Width: 40, Height: 2},
			wantStatusY: 5,
			wantRows:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout := ComputeLayout(tt.width, tt.height, tt.searchOpen, tt.confirmOpen)

			if layout.Body != tt.wantBody {
				t.Errorf("Body = %+v, want %+v", layout.Body, tt.wantBody)
			}
			if layout.StatusBar.Y != tt.wantStatusY {
				t.Errorf("StatusBar.Y = %d, want %d", layout.StatusBar.Y, tt.wantStatusY)
			}
			if got := layout.ListRows(); got != tt.wantRows {
				t.Errorf("ListRows() = %d, want %d", got, tt.wantRows)
			}
			if !tt.searchOpen && layout.Search.Height != 0 {
				t.Errorf("Search.Height = %d, want 0 when closed", layout.Search.Height)
			}
		})
	}
}

func TestLayout_ExplorerRows(t *testing.T) {
	layout := ComputeLayout(80, 24, false, false)
	if got := layout.ExplorerRows(); got != 19 {
		t.Errorf("ExplorerRows() = %d, want 19", got)
	}
}
