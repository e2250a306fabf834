package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/vuhoang/mlhub/internal/analytics"
	"github.com/vuhoang/mlhub/internal/content"
	"github.com/vuhoang/mlhub/internal/quiz"
	"github.com/vuhoang/mlhub/internal/router"
	"github.com/vuhoang/mlhub/internal/screen"
	"github.com/vuhoang/mlhub/internal/screens/home"
	"github.com/vuhoang/mlhub/internal/ui/layout"
)

// Options carries the services the TUI runs on.
type Options struct {
	Contents *content.Service
	Quizzes  *quiz.Store
	Ledger   *analytics.Ledger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	ledger *analytics.Ledger
	width  int
	height int

	attempts  int
	bestScore int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(opts Options) AppModel {
	homeScreen := home.New(opts.Contents, opts.Quizzes, opts.Ledger)
	m := AppModel{
		router: router.New(homeScreen),
		ledger: opts.Ledger,
	}
	m.refreshStats()
	return m
}

// refreshStats reloads the header aggregates from the ledger.
func (m *AppModel) refreshStats() {
	if m.ledger == nil {
		return
	}
	snap, err := m.ledger.Snapshot()
	if err != nil {
		return
	}
	m.attempts = snap.TotalAttempts
	m.bestScore = snap.BestScore
}

func (m AppModel) Init() tea.Cmd {
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case router.PopScreenMsg:
		// Attempts may have been recorded by the screen we are leaving.
		cmd := m.router.Update(msg)
		m.refreshStats()
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.attempts, m.bestScore, m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	}
	if footerHints == nil {
		if m.router.Depth() > 1 {
			footerHints = []layout.KeyHint{
				{Key: "Esc", Description: "Back"},
				{Key: "Ctrl+C", Description: "Quit"},
			}
		} else {
			footerHints = []layout.KeyHint{
				{Key: "↑↓", Description: "Navigate"},
				{Key: "Enter", Description: "Select"},
				{Key: "Ctrl+C", Description: "Quit"},
			}
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
