package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/vuhoang/mlhub/internal/analytics"
	"github.com/vuhoang/mlhub/internal/content"
	"github.com/vuhoang/mlhub/internal/quiz"
	"github.com/vuhoang/mlhub/internal/router"
	"github.com/vuhoang/mlhub/internal/screen"
	"github.com/vuhoang/mlhub/internal/screens/dashboard"
	"github.com/vuhoang/mlhub/internal/screens/lesson"
	"github.com/vuhoang/mlhub/internal/topics"
	"github.com/vuhoang/mlhub/internal/ui/components"
	"github.com/vuhoang/mlhub/internal/ui/layout"
	"github.com/vuhoang/mlhub/internal/ui/theme"
)

// HomeScreen is the topic catalog and entry point of the portal.
type HomeScreen struct {
	contents *content.Service
	quizzes  *quiz.Store
	ledger   *analytics.Ledger

	menu       components.Menu
	filter     components.TextInput
	filtering  bool
	topicStats map[string]analytics.TopicStats
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates the home screen.
func New(contents *content.Service, quizzes *quiz.Store, ledger *analytics.Ledger) *HomeScreen {
	h := &HomeScreen{
		contents: contents,
		quizzes:  quizzes,
		ledger:   ledger,
		filter:   components.NewTextInput("Type to filter topics...", 40),
	}
	h.refreshStats()
	h.menu = components.NewMenu(h.buildItems(""))
	return h
}

// refreshStats reloads per-topic aggregates shown next to each topic.
func (h *HomeScreen) refreshStats() {
	h.topicStats = nil
	if h.ledger == nil {
		return
	}
	snap, err := h.ledger.Snapshot()
	if err != nil {
		return
	}
	h.topicStats = snap.TopicStats
}

func (h *HomeScreen) buildItems(filter string) []components.MenuItem {
	needle := strings.ToLower(strings.TrimSpace(filter))

	var items []components.MenuItem
	for _, t := range topics.Catalog {
		if needle != "" && !strings.Contains(strings.ToLower(t.Title), needle) {
			continue
		}
		topic := t
		detail := ""
		if stats, ok := h.topicStats[t.ID]; ok && stats.Attempts > 0 {
			detail = fmt.Sprintf("%d attempts · best %d%%", stats.Attempts, stats.BestScore)
		}
		items = append(items, components.MenuItem{
			Label:  t.Icon + " " + t.Title,
			Detail: detail,
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{
						Screen: lesson.New(topic, h.contents, h.quizzes, h.ledger),
					}
				}
			},
		})
	}

	if needle == "" {
		items = append(items, components.MenuItem{
			Label: "▣ Progress Dashboard",
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: dashboard.New(h.ledger)}
				}
			},
		})
		items = append(items, components.MenuItem{
			Label: "✕ Exit",
			Action: func() tea.Cmd {
				return tea.Quit
			},
		})
	}

	return items
}

func (h *HomeScreen) Init() tea.Cmd {
	// Stats may have changed while a lesson or quiz screen was on top.
	h.refreshStats()
	selected := h.menu.Selected
	h.menu = components.NewMenu(h.buildItems(h.filter.Value()))
	if selected < len(h.menu.Items) {
		h.menu.Selected = selected
	}
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	if h.filtering {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Done"},
			{Key: "Esc", Description: "Cancel filter"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "/", Description: "Filter"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, isKey := msg.(tea.KeyMsg)

	if h.filtering {
		if isKey {
			switch kmsg.String() {
			case "enter":
				h.filtering = false
				return h, nil
			case "esc":
				h.filtering = false
				h.filter.Reset()
				h.menu = components.NewMenu(h.buildItems(""))
				return h, nil
			}
		}
		var cmd tea.Cmd
		h.filter, cmd = h.filter.Update(msg)
		h.menu = components.NewMenu(h.buildItems(h.filter.Value()))
		return h, cmd
	}

	if isKey && kmsg.String() == "/" {
		h.filtering = true
		return h, h.filter.Init()
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.Primary).Bold(true).
		Render("Machine Learning Hub"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
		Render("Pick a topic to read its lesson, then quiz yourself on it."))
	b.WriteString("\n\n")

	if h.filtering || h.filter.Value() != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			"Filter: "+h.filter.View()))
		b.WriteString("\n\n")
	}

	if len(h.menu.Items) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("No topics match."))
		return b.String()
	}

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, h.menu.View()))
	return b.String()
}
