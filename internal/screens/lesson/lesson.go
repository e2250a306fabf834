package lesson

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/vuhoang/mlhub/internal/analytics"
	"github.com/vuhoang/mlhub/internal/content"
	"github.com/vuhoang/mlhub/internal/quiz"
	"github.com/vuhoang/mlhub/internal/router"
	"github.com/vuhoang/mlhub/internal/screen"
	quizscreen "github.com/vuhoang/mlhub/internal/screens/quiz"
	"github.com/vuhoang/mlhub/internal/topics"
	"github.com/vuhoang/mlhub/internal/ui/components"
	"github.com/vuhoang/mlhub/internal/ui/layout"
	"github.com/vuhoang/mlhub/internal/ui/theme"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// LessonScreen loads or generates the lesson for one topic and shows it
// in a scrollable reader.
type LessonScreen struct {
	topic    topics.Topic
	contents *content.Service
	quizzes  *quiz.Store
	ledger   *analytics.Ledger

	text         string
	fromCache    bool
	loading      bool
	regenerating bool
	errMsg       string
	notice       string
	spinnerFrame int

	scrollOffset int
	wrapped      []string
	wrapWidth    int
}

var _ screen.Screen = (*LessonScreen)(nil)
var _ screen.KeyHintProvider = (*LessonScreen)(nil)

// New creates a lesson screen for the given topic.
func New(topic topics.Topic, contents *content.Service, quizzes *quiz.Store, ledger *analytics.Ledger) *LessonScreen {
	return &LessonScreen{
		topic:    topic,
		contents: contents,
		quizzes:  quizzes,
		ledger:   ledger,
		loading:  true,
	}
}

func (s *LessonScreen) Init() tea.Cmd {
	return tea.Batch(s.loadLesson(), spinnerTick())
}

func (s *LessonScreen) Title() string {
	return s.topic.Title
}

func (s *LessonScreen) KeyHints() []layout.KeyHint {
	if s.loading || s.regenerating {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "T", Description: "Take quiz"},
		{Key: "R", Description: "Regenerate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *LessonScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case lessonReadyMsg:
		s.loading = false
		if msg.Err != nil && msg.Text == "" {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.setText(msg.Text)
		s.fromCache = msg.FromCache
		if msg.Err != nil {
			// Save failed but the lesson itself is usable.
			s.notice = "Lesson could not be saved; it will be regenerated next time."
		}
		return s, nil

	case regeneratedMsg:
		s.regenerating = false
		if msg.Err != nil && msg.Text == "" {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.setText(msg.Text)
		s.fromCache = false
		if msg.Err != nil {
			s.notice = "Lesson could not be saved; it will be regenerated next time."
		}
		return s, nil

	case spinnerTickMsg:
		if !s.loading && !s.regenerating {
			return s, nil
		}
		s.spinnerFrame = (s.spinnerFrame + 1) % len(spinnerFrames)
		return s, spinnerTick()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s, nil
}

func (s *LessonScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if s.loading || s.regenerating {
		return s, nil
	}

	switch msg.String() {
	case "up", "k":
		if s.scrollOffset > 0 {
			s.scrollOffset--
		}
	case "down", "j":
		s.scrollOffset++
	case "pgup":
		s.scrollOffset -= 10
		if s.scrollOffset < 0 {
			s.scrollOffset = 0
		}
	case "pgdown":
		s.scrollOffset += 10
	case "g":
		s.scrollOffset = 0
	case "t":
		return s, func() tea.Msg {
			return router.PushScreenMsg{
				Screen: quizscreen.New(s.topic, s.text, s.quizzes, s.ledger),
			}
		}
	case "r":
		s.regenerating = true
		return s, tea.Batch(s.regenerate(), spinnerTick())
	}

	return s, nil
}

func (s *LessonScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to go back.", s.errMsg))
	}
	if s.loading {
		return s.renderSpinner(width, "Generating lesson, this can take a minute...")
	}
	if s.regenerating {
		return s.renderSpinner(width, "Regenerating lesson...")
	}

	s.rewrap(width - 6)

	chromeLines := 3
	if s.notice != "" {
		chromeLines++
	}

	maxOffset := len(s.wrapped) - (height - chromeLines)
	if maxOffset < 0 {
		maxOffset = 0
	}
	if s.scrollOffset > maxOffset {
		s.scrollOffset = maxOffset
	}

	end := s.scrollOffset + height - chromeLines
	if end > len(s.wrapped) {
		end = len(s.wrapped)
	}
	if end < s.scrollOffset {
		end = s.scrollOffset
	}

	var b strings.Builder

	source := "freshly generated"
	if s.fromCache {
		source = "saved lesson"
	}
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("  %s %s  ·  %s", s.topic.Icon, s.topic.Title, source)))
	b.WriteString("\n")
	cta := components.NewButton("Press T to quiz yourself", true, nil)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Right, cta.View()+"  "))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Border).
		Render("  " + strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n")
	if s.notice != "" {
		b.WriteString(lipgloss.NewStyle().
			Foreground(theme.Accent).
			Render("  " + s.notice))
		b.WriteString("\n")
	}

	for _, line := range s.wrapped[s.scrollOffset:end] {
		b.WriteString("   " + line + "\n")
	}

	return b.String()
}

func (s *LessonScreen) renderSpinner(width int, label string) string {
	frame := spinnerFrames[s.spinnerFrame]
	return lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
		Render(fmt.Sprintf("\n\n\n  %s %s", frame, label))
}

// setText stores the lesson text and invalidates the wrap cache.
func (s *LessonScreen) setText(text string) {
	s.text = text
	s.wrapped = nil
	s.wrapWidth = 0
	s.scrollOffset = 0
	s.notice = ""
}

// rewrap recomputes the wrapped line cache when the width changes.
func (s *LessonScreen) rewrap(width int) {
	if width < 20 {
		width = 20
	}
	if s.wrapWidth == width && s.wrapped != nil {
		return
	}
	wrapped := lipgloss.NewStyle().Width(width).Render(s.text)
	s.wrapped = strings.Split(wrapped, "\n")
	s.wrapWidth = width
}

func (s *LessonScreen) loadLesson() tea.Cmd {
	return func() tea.Msg {
		text, fromCache, err := s.contents.LoadOrGenerate(context.Background(), s.topic)
		return lessonReadyMsg{Text: text, FromCache: fromCache, Err: err}
	}
}

func (s *LessonScreen) regenerate() tea.Cmd {
	return func() tea.Msg {
		text, err := s.contents.Generate(context.Background(), s.topic)
		if err != nil {
			return regeneratedMsg{Err: err}
		}
		if err := s.contents.Save(s.topic.ID, text); err != nil {
			// Keep the regenerated text; only the save is lost.
			return regeneratedMsg{Text: text, Err: err}
		}
		return regeneratedMsg{Text: text}
	}
}

func spinnerTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
