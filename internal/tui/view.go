// pattern: Imperative Shell

package tui

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"devhub/internal/project"
	"devhub/internal/registry"
	"devhub/internal/session"
	"devhub/internal/viewport"
)

const (
	defaultWidth  = 80
	defaultHeight = 24

	cursorWidth   = 2
	nameWidth     = 20
	accessedWidth = 10
	branchWidth   = 14
	stateWidth    = 6
	remoteWidth   = 8
	minPathWidth  = 10

	placeholder = "—"
	ellipsis    = "…"
)

// accessMagnitudes renders compact relative times such as "5m ago".
var accessMagnitudes = []humanize.RelTimeMagnitude{
	{D: time.Minute, Format: "now", DivBy: time.Second},
	{D: time.Hour, Format: "%dm %s", DivBy: time.Minute},
	{D: humanize.Day, Format: "%dh %s", DivBy: time.Hour},
	{D: humanize.Week, Format: "%dd %s", DivBy: humanize.Day},
	{D: humanize.Month, Format: "%dw %s", DivBy: humanize.Week},
	{D: humanize.Year, Format: "%dmo %s", DivBy: humanize.Month},
	{D: math.MaxInt64, Format: "%dy %s", DivBy: humanize.Year},
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	layout := m.layout()

	parts := []string{m.renderHeader()}
	if layout.Search.Height > 0 {
		parts = append(parts, m.renderSearchBar(layout.Search.Width))
	}

	var body string
	switch mode := m.session.Mode().(type) {
	case session.Browse:
		body = m.renderExplorer(mode, layout)
	default:
		if m.help.ShowAll {
			body = m.help.View(m.keys)
		} else {
			body = m.renderTable(layout)
		}
	}
	parts = append(parts, lipgloss.NewStyle().
		Height(layout.Body.Height).
		MaxHeight(layout.Body.Height).
		Render(body))

	if mode, ok := m.session.Mode().(session.DeleteConfirm); ok {
		parts = append(parts, m.renderDeleteBar(mode, layout.Confirm.Width))
	}

	parts = append(parts, m.renderStatusBar(layout.StatusBar.Width))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderHeader renders the title, project count and discovery root.
func (m Model) renderHeader() string {
	title := m.styles.TitleStyle().UnsetMarginBottom().Render("Project Hub")

	count := len(m.session.Projects())
	info := fmt.Sprintf(" • %d project(s)", count)
	if rooted, ok := m.session.Registry().(registry.Rooted); ok && rooted.Root() != "" {
		info += " • " + m.shortenPath(rooted.Root())
	}
	line := title + m.styles.SubtitleStyle().Render(info)

	if m.session.Loading() {
		line += " " + m.spinner.View() + m.styles.HelpStyle().Render(" (loading...)")
	}

	return lipgloss.NewStyle().MarginBottom(1).Render(line)
}

func (m Model) renderSearchBar(width int) string {
	query := m.session.Query()
	if _, searching := m.session.Mode().(session.Search); searching {
		return m.styles.PromptStyle().Render(ansi.Truncate("/"+query+"_", width, ellipsis))
	}
	return m.styles.PromptStyle().Render("/"+query) + m.styles.HelpStyle().Render(" (Esc to clear)")
}

// renderTable renders the column titles and the visible slice of projects.
func (m Model) renderTable(layout Layout) string {
	width := layout.Body.Width
	pathWidth := max(minPathWidth, width-fixedColumnsWidth())

	header := m.styles.ColumnHeaderStyle().Render(ansi.Truncate(
		strings.Repeat(" ", cursorWidth)+joinCells(
			fitCell("Name", nameWidth),
			fitCell("Accessed", accessedWidth),
			fitCell("Branch", branchWidth),
			fitCell("State", stateWidth),
			fitCell("Remote", remoteWidth),
			"Path",
		), width, ""))

	filtered := m.session.Filtered()
	if len(filtered) == 0 {
		return header + "\n" + m.renderEmpty()
	}

	visible, offset := viewport.Slice(filtered, m.session.Selection(), layout.ListRows())
	lines := make([]string, 0, len(visible)+1)
	lines = append(lines, header)
	for i, p := range visible {
		selected := offset+i == m.session.Selection()
		lines = append(lines, m.renderRow(p, selected, pathWidth, width))
	}
	return strings.Join(lines, "\n")
}

func fixedColumnsWidth() int {
	// one space after every fixed column
	return cursorWidth + nameWidth + accessedWidth + branchWidth + stateWidth + remoteWidth + 5
}

func (m Model) renderRow(p project.WithStatus, selected bool, pathWidth, width int) string {
	cursor := "  "
	if selected {
		cursor = "❯ "
	}

	name := fitCell(p.Name, nameWidth)
	accessed := fitCell(m.accessedText(p.Project), accessedWidth)
	branch := fitCell(branchText(p.Git), branchWidth)
	state := fitCell(stateText(p.Git), stateWidth)
	remote := fitCell(remoteText(p.Git), remoteWidth)
	path := runewidth.Truncate(m.shortenPath(p.Path), pathWidth, ellipsis)

	if selected {
		row := cursor + joinCells(name, accessed, branch, state, remote, path)
		return m.styles.SelectedRowStyle().Render(ansi.Truncate(row, width, ""))
	}

	switch {
	case !p.Git.IsRepo:
	case p.Git.IsDirty():
		state = m.styles.DirtyStyle().Render(state)
	default:
		state = m.styles.CleanStyle().Render(state)
	}
	if p.Git.IsRepo {
		branch = m.styles.BranchStyle().Render(branch)
	}
	row := cursor + joinCells(
		m.styles.InfoStyle().Render(name),
		m.styles.MutedStyle().Render(accessed),
		branch,
		state,
		m.styles.MutedStyle().Render(remote),
		m.styles.MutedStyle().Render(path),
	)
	return ansi.Truncate(row, width, "")
}

func (m Model) renderEmpty() string {
	if q := m.session.Query(); q != "" {
		return m.styles.HelpStyle().Render(fmt.Sprintf("  No projects match %q", q))
	}
	if m.session.Loading() {
		return ""
	}
	if rooted, ok := m.session.Registry().(registry.Rooted); ok {
		return m.styles.HelpStyle().Render(fmt.Sprintf(
			"  No project directories in %s.\n  Press b to choose another root.", m.shortenPath(rooted.Root())))
	}
	return m.styles.HelpStyle().Render(
		"  No projects yet.\n  Press b to browse for one, or run: devhub add <path>")
}

// renderExplorer renders the directory navigator of Browse mode.
func (m Model) renderExplorer(mode session.Browse, layout Layout) string {
	e := mode.Explorer
	width := layout.Body.Width

	header := m.styles.AccentStyle().Render(ansi.Truncate("+ "+m.shortenPath(e.Path()), width, ellipsis))
	hints := m.styles.HelpStyle().Render(ansi.Truncate(explorerHints(mode.Purpose), width, ""))
	lines := []string{header, hints}

	switch {
	case e.Err() != nil:
		lines = append(lines, m.styles.ErrorStyle().Render("  Cannot read directory: "+e.Err().Error()))
	case len(e.Entries()) == 0:
		lines = append(lines, m.styles.HelpStyle().Render("  Empty directory"))
	default:
		visible, offset := viewport.Slice(e.Entries(), e.Selected(), layout.ExplorerRows())
		for i, entry := range visible {
			label := runewidth.Truncate(entry.Name+"/", max(1, width-cursorWidth), ellipsis)
			if offset+i == e.Selected() {
				lines = append(lines, m.styles.SelectedRowStyle().Render("❯ "+label))
				continue
			}
			style := m.styles.DirectoryStyle()
			if entry.Hidden() {
				style = m.styles.MutedStyle()
			}
			lines = append(lines, "  "+style.Render(label))
		}
	}
	return strings.Join(lines, "\n")
}

func explorerHints(purpose session.Purpose) string {
	if purpose == session.PurposeSetRoot {
		return "[Enter] Use as root  [l/→] Open  [h/←] Back  [Esc] Cancel"
	}
	return "[Enter] Add  [A] Add all  [l/→] Open  [h/←] Back  [Esc] Cancel"
}

func (m Model) renderDeleteBar(mode session.DeleteConfirm, width int) string {
	prompt := m.styles.PromptStyle().Render(fmt.Sprintf("Delete %q?", mode.Name))
	hints := m.styles.HelpStyle().Render(" [y] Remove from list  [Shift+D] Delete from disk  [Esc] Cancel")
	return ansi.Truncate(prompt+hints, width, "")
}

// renderStatusBar renders the transient message on the left and the key hints
// for the current mode on the right.
func (m Model) renderStatusBar(width int) string {
	var statusText string
	if msg := m.session.Message(); msg != "" {
		style := m.styles.AccentStyle()
		if strings.HasPrefix(msg, "Cannot") {
			style = m.styles.ErrorStyle()
		}
		statusText = style.Render(msg)
	}

	help := m.renderContextualHelp()

	statusWidth := lipgloss.Width(statusText)
	helpWidth := lipgloss.Width(help)
	spacerWidth := width - statusWidth - helpWidth
	if spacerWidth < 1 {
		if statusText != "" {
			return ansi.Truncate(statusText, width, ellipsis)
		}
		spacerWidth = 0
	}

	return ansi.Truncate(statusText+strings.Repeat(" ", spacerWidth)+help, width, "")
}

// renderContextualHelp returns help text for the current mode.
func (m Model) renderContextualHelp() string {
	switch m.session.Mode().(type) {
	case session.Search:
		return m.styles.HelpStyle().Render("Enter Keep filter  Esc Clear  ↑/↓ Move")
	case session.Browse:
		return ""
	case session.DeleteConfirm:
		return ""
	}
	if m.help.ShowAll {
		return m.styles.HelpStyle().Render("? Close help")
	}
	return m.help.ShortHelpView(m.keys.ShortHelp())
}

func (m Model) accessedText(p project.Project) string {
	if p.LastAccessedAt == nil {
		return placeholder
	}
	return humanize.CustomRelTime(*p.LastAccessedAt, m.now(), "ago", "from now", accessMagnitudes)
}

func branchText(g project.GitStatus) string {
	if !g.IsRepo {
		return placeholder
	}
	if b := g.BranchName(); b != "" {
		return b
	}
	return "unknown"
}

func stateText(g project.GitStatus) string {
	switch {
	case !g.IsRepo:
		return ""
	case g.IsDirty():
		return "✗"
	default:
		return "✓"
	}
}

func remoteText(g project.GitStatus) string {
	ahead, behind := g.AheadBehind()
	if ahead == 0 && behind == 0 {
		return placeholder
	}
	var parts []string
	if ahead > 0 {
		parts = append(parts, "↑"+strconv.Itoa(ahead))
	}
	if behind > 0 {
		parts = append(parts, "↓"+strconv.Itoa(behind))
	}
	return strings.Join(parts, " ")
}

// fitCell pads or truncates s to exactly width terminal cells.
func fitCell(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, ellipsis), width)
}

func joinCells(cells ...string) string {
	return strings.Join(cells, " ")
}

// shortenPath replaces the home directory prefix with ~.
func (m Model) shortenPath(path string) string {
	if m.home == "" {
		return path
	}
	if path == m.home {
		return "~"
	}
	if rel, ok := strings.CutPrefix(path, m.home+string(filepath.Separator)); ok {
		return "~" + string(filepath.Separator) + rel
	}
	return path
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Clean(home)
}
