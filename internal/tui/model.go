// pattern: Imperative Shell

package tui

import (
	"os/exec"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"devhub/internal/config"
	"devhub/internal/launch"
	"devhub/internal/logging"
	"devhub/internal/session"
	"devhub/internal/status"
)

// Deps are the collaborators of the TUI model.
type Deps struct {
	Session    *session.Session
	Aggregator *status.Aggregator
	Editor     *launch.Editor
	Tools      launch.Tools
	Config     config.Config
	Logger     *logging.ScopedLogger
	// OnRootChange is called on the event loop after the discovery root changed,
	// e.g. to move the filesystem watcher.
	OnRootChange func(root string)
}

// Model represents the TUI application state. All session state lives in the
// session; the model only maps input to events and effects to commands.
type Model struct {
	width  int
	height int
	styles *Styles
	keys   KeyMap
	help   help.Model

	spinner spinner.Model

	session      *session.Session
	aggregator   *status.Aggregator
	editor       *launch.Editor
	tools        launch.Tools
	logger       *logging.ScopedLogger
	onRootChange func(root string)

	messageDuration time.Duration
	home            string
	now             func() time.Time

	// Injectable for tests.
	execProcess func(*exec.Cmd, tea.ExecCallback) tea.Cmd
	copyText    func(string) error

	quitting bool
}

// NewModel creates a new TUI model around an existing session.
func NewModel(deps Deps) Model {
	styles := NewStyles(deps.Config.Theme)

	logger := deps.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}

	duration := deps.Config.MessageDuration
	if duration <= 0 {
		duration = config.DefaultMessageDuration
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.AccentStyle()

	h := help.New()
	h.ShortSeparator = "  "
	h.Styles.ShortKey = styles.AccentStyle()
	h.Styles.ShortDesc = styles.HelpStyle()
	h.Styles.ShortSeparator = styles.HelpStyle()
	h.Styles.FullKey = styles.AccentStyle()
	h.Styles.FullDesc = styles.HelpStyle()

	return Model{
		styles:          styles,
		keys:            DefaultKeyMap,
		help:            h,
		spinner:         sp,
		session:         deps.Session,
		aggregator:      deps.Aggregator,
		editor:          deps.Editor,
		tools:           deps.Tools,
		logger:          logger,
		onRootChange:    deps.OnRootChange,
		messageDuration: duration,
		home:            homeDir(),
		now:             time.Now,
		execProcess:     tea.ExecProcess,
		copyText:        launch.CopyToClipboard,
	}
}

// Init starts the first refresh and the loading spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.runEffect(m.session.Start()),
	)
}

// Quitting reports whether the model has asked the program to exit.
func (m Model) Quitting() bool {
	return m.quitting
}
