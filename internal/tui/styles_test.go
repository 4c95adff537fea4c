package tui

import (
	"testing"

	catppuccin "github.com/catppuccin/go"
)

func TestFlavorFromName(t *testing.T) {
	tests := []struct {
		name string
		want catppuccin.Flavor
	}{
		{"latte", catppuccin.Latte},
		{"frappe", catppuccin.Frappe},
		{"macchiato", catppuccin.Macchiato},
		{"mocha", catppuccin.Mocha},
		{"unknown", catppuccin.Mocha},
		{"", catppuccin.Mocha},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := flavorFromName(tt.name); got.Base().Hex != tt.want.Base().Hex {
				t.Errorf("flavorFromName(%q) base = %s, want %s", tt.name, got.Base().Hex, tt.want.Base().Hex)
			}
		})
	}
}

func TestStyles_AllFlavorsRender(t *testing.T) {
	for _, flavor := range []string{"latte", "frappe", "macchiato", "mocha"} {
		t.Run(flavor, func(t *testing.T) {
			styles := NewStyles(flavor)

			if styles.SelectedRowStyle().Render("row") == "" {
				t.Error("SelectedRowStyle should render content")
			}
			if !styles.TitleStyle().GetBold() {
				t.Error("TitleStyle should be bold")
			}
			if styles.MutedStyle().GetBold() {
				t.Error("MutedStyle should not be bold")
			}
			_ = styles.CleanStyle().Render("✓")
			_ = styles.DirtyStyle().Render("✗")
			_ = styles.ErrorStyle().Render("error")
		})
	}
}
