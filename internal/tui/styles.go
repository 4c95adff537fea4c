package tui

import (
	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
)

type Styles struct {
	flavor catppuccin.Flavor
}

func NewStyles(themeName string) *Styles {
	flavor := flavorFromName(themeName)
	return &Styles{flavor: flavor}
}

func flavorFromName(name string) catppuccin.Flavor {
	switch name {
	case "latte":
		return catppuccin.Latte
	case "frappe":
		return catppuccin.Frappe
	case "macchiato":
		return catppuccin.Macchiato
	default:
		return catppuccin.Mocha
	}
}

func (s *Styles) color(c catppuccin.Color) lipgloss.Color {
	return lipgloss.Color(c.Hex)
}

func (s *Styles) TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(s.color(s.flavor.Mauve())).
		MarginBottom(1)
}

func (s *Styles) SubtitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.color(s.flavor.Subtext0()))
}

func (s *Styles) HelpStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.color(s.flavor.Overlay0()))
}

func (s *Styles) InfoStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.color(s.flavor.Text()))
}

func (s *Styles) AccentStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.color(s.flavor.Teal()))
}

func (s *Styles) ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.color(s.flavor.Red())).
		Bold(true)
}

// ColumnHeaderStyle renders the table column titles.
func (s *Styles) ColumnHeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(s.color(s.flavor.Subtext1()))
}

// SelectedRowStyle highlights the row under the cursor.
func (s *Styles) SelectedRowStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(s.color(s.flavor.Text())).
		Background(s.color(s.flavor.Surface0()))
}

func (s *Styles) CleanStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(s.color(s.flavor.Green()))
}

func (s *Styles) DirtyStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(s.color(s.flavor.Yellow()))
}

func (s *Styles) BranchStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(s.color(s.flavor.Blue()))
}

func (s *Styles) MutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(s.color(s.flavor.Overlay1()))
}

// PromptStyle renders the search and delete bars.
func (s *Styles) PromptStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.color(s.flavor.Peach())).
		Bold(true)
}

// DirectoryStyle renders explorer entries.
func (s *Styles) DirectoryStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(s.color(s.flavor.Sapphire()))
}
