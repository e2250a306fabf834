package dashboard

import (
	"fmt"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/vuhoang/mlhub/internal/analytics"
	"github.com/vuhoang/mlhub/internal/router"
	"github.com/vuhoang/mlhub/internal/screen"
	"github.com/vuhoang/mlhub/internal/topics"
	"github.com/vuhoang/mlhub/internal/ui/components"
	"github.com/vuhoang/mlhub/internal/ui/layout"
	"github.com/vuhoang/mlhub/internal/ui/theme"
)

type statsLoadedMsg struct {
	Snapshot analytics.Snapshot
	Views    map[string]analytics.TopicView
	Err      error
}

type clearedMsg struct {
	Err error
}

// DashboardScreen shows overall and per-topic quiz performance.
type DashboardScreen struct {
	ledger *analytics.Ledger

	snapshot analytics.Snapshot
	views    map[string]analytics.TopicView
	topicIDs []string

	selected     int
	expanded     map[int]bool
	confirmClear bool
	loaded       bool
	errMsg       string
}

var _ screen.Screen = (*DashboardScreen)(nil)
var _ screen.KeyHintProvider = (*DashboardScreen)(nil)

// New creates a dashboard screen backed by the analytics ledger.
func New(ledger *analytics.Ledger) *DashboardScreen {
	return &DashboardScreen{
		ledger:   ledger,
		expanded: make(map[int]bool),
	}
}

func (s *DashboardScreen) Init() tea.Cmd {
	return s.loadStats()
}

func (s *DashboardScreen) Title() string {
	return "Dashboard"
}

func (s *DashboardScreen) KeyHints() []layout.KeyHint {
	if s.confirmClear {
		return []layout.KeyHint{
			{Key: "Y", Description: "Clear history"},
			{Key: "N", Description: "Keep"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Details"},
		{Key: "C", Description: "Clear history"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *DashboardScreen) loadStats() tea.Cmd {
	return func() tea.Msg {
		snap, err := s.ledger.Snapshot()
		if err != nil {
			return statsLoadedMsg{Err: err}
		}

		views := make(map[string]analytics.TopicView)
		for id := range snap.TopicStats {
			view, err := s.ledger.TopicView(id)
			if err != nil {
				return statsLoadedMsg{Err: err}
			}
			views[id] = view
		}

		return statsLoadedMsg{Snapshot: snap, Views: views}
	}
}

func (s *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			s.loaded = true
			return s, nil
		}
		s.snapshot = msg.Snapshot
		s.views = msg.Views
		s.topicIDs = orderedTopicIDs(msg.Snapshot)
		if s.selected >= len(s.topicIDs) {
			s.selected = 0
		}
		s.loaded = true
		return s, nil

	case clearedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.expanded = make(map[int]bool)
		s.selected = 0
		return s, s.loadStats()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *DashboardScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.confirmClear {
		switch key {
		case "y", "Y":
			s.confirmClear = false
			return s, func() tea.Msg { return clearedMsg{Err: s.ledger.Clear()} }
		case "n", "N", "esc":
			s.confirmClear = false
		}
		return s, nil
	}

	switch key {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.topicIDs)-1 {
			s.selected++
		}
	case "enter":
		if len(s.topicIDs) > 0 {
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	case "c":
		if s.snapshot.TotalAttempts > 0 {
			s.confirmClear = true
		}
	}
	return s, nil
}

func (s *DashboardScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading your stats...")
	}
	if s.confirmClear {
		return renderClearConfirm(width)
	}
	if s.snapshot.TotalAttempts == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No quiz attempts yet. Finish a quiz to see your progress here.")
	}

	var b strings.Builder
	b.WriteString("\n")

	totals := fmt.Sprintf("%d attempts  ·  average %d%%  ·  best %d%%",
		s.snapshot.TotalAttempts, s.snapshot.AverageScore, s.snapshot.BestScore)
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.Text).Bold(true).
		Render(totals))
	b.WriteString("\n\n")

	barWidth := min(width-40, 40)
	if barWidth < 10 {
		barWidth = 10
	}

	for i, id := range s.topicIDs {
		view := s.views[id]
		title := topicTitle(id, view)

		prefix := "  "
		if i == s.selected {
			prefix = "▸ "
		}

		nameStyle := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			nameStyle = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		}

		bar := components.NewProgressBar("", float64(view.AverageScore)/100, false, barWidth)
		line := fmt.Sprintf("%s%s  %s  %3d%%  (%d attempts, best %d%%)",
			prefix, nameStyle.Render(padRight(title, 28)), bar.View(),
			view.AverageScore, view.TotalAttempts, view.BestScore)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, line))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(renderTopicDetail(view, width))
		}
	}

	return b.String()
}

// renderTopicDetail renders the expanded attempt history for one topic.
func renderTopicDetail(view analytics.TopicView, width int) string {
	var b strings.Builder

	trend := fmt.Sprintf("      improvement %+d%% since first attempt", view.Improvement)
	trendStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	if view.Improvement > 0 {
		trendStyle = lipgloss.NewStyle().Foreground(theme.Success)
	} else if view.Improvement < 0 {
		trendStyle = lipgloss.NewStyle().Foreground(theme.Error)
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, trendStyle.Render(trend)))
	b.WriteString("\n")

	for _, a := range view.Attempts {
		line := fmt.Sprintf("      %s  v%d  %d/%d  %d%%",
			a.Timestamp.Local().Format("Jan 02 15:04"),
			a.QuizVersion, a.Score, a.TotalQuestions, a.Percentage)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}

func renderClearConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.Text).Bold(true).
		Render("Clear all quiz history?"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
		Render("Every recorded attempt will be removed. Lessons and quizzes are kept."))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.Error).
		Render("[Y] Yes, clear everything"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.Primary).
		Render("[N] No, keep my history"))
	return b.String()
}

// orderedTopicIDs returns topic ids in catalog order, with any ids no
// longer in the catalog appended alphabetically.
func orderedTopicIDs(snap analytics.Snapshot) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, t := range topics.Catalog {
		if _, ok := snap.TopicStats[t.ID]; ok {
			ids = append(ids, t.ID)
			seen[t.ID] = true
		}
	}
	var extra []string
	for id := range snap.TopicStats {
		if !seen[id] {
			extra = append(extra, id)
		}
	}
	sort.Strings(extra)
	return append(ids, extra...)
}

func topicTitle(id string, view analytics.TopicView) string {
	if t, ok := topics.Find(id); ok {
		return t.Title
	}
	if len(view.Attempts) > 0 && view.Attempts[0].TopicTitle != "" {
		return view.Attempts[0].TopicTitle
	}
	return id
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
