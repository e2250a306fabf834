package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/vuhoang/mlhub/internal/quiz"
	"github.com/vuhoang/mlhub/internal/ui/components"
	"github.com/vuhoang/mlhub/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to go back.", s.errMsg))
	}
	if s.generating {
		return s.renderSpinner(width, "Generating quiz questions...")
	}
	if s.loading {
		return s.renderSpinner(width, "Loading quiz...")
	}

	switch s.sess.State() {
	case quiz.StateIdle:
		return s.renderIdle(width)
	case quiz.StateBrowsing:
		return s.renderBrowsing(width)
	case quiz.StateActive:
		return s.renderActive(width, height)
	case quiz.StateGraded:
		return s.renderGraded(width, height)
	}
	return ""
}

func (s *QuizScreen) renderSpinner(width int, label string) string {
	frame := spinnerFrames[s.spinnerFrame]
	return lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
		Render(fmt.Sprintf("\n\n\n  %s %s", frame, label))
}

func (s *QuizScreen) renderIdle(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.Text).Bold(true).
		Render("No quiz for this topic yet."))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		components.NewButton("Press G to generate one from the lesson", true, nil).View()))

	if s.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(s.notice))
	}

	return b.String()
}

func (s *QuizScreen) renderBrowsing(width int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.Text).Bold(true).
		Render("Quiz versions"))
	b.WriteString("\n\n")

	for i, v := range s.sess.Versions() {
		prefix := "  "
		if i == s.versionCursor {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%sVersion %d  ·  %d questions  ·  %s",
			prefix, v.Version, v.QuestionCount, v.CreatedAt.Local().Format("Jan 02, 2006 15:04"))

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.versionCursor {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
		Render("Press N to generate a fresh version from the lesson."))

	if s.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(s.notice))
	}

	return b.String()
}

func (s *QuizScreen) renderActive(width, height int) string {
	doc := s.sess.Document()
	index := s.sess.Index()
	q := doc.Questions[index]
	answers := s.sess.Answers()

	var b strings.Builder

	answered := 0
	for _, a := range answers {
		if a != quiz.Unanswered {
			answered++
		}
	}

	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("  Question %d/%d", index+1, len(doc.Questions)))
	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Version %d  ·  %d/%d answered", doc.Metadata.Version, answered, len(doc.Questions)))

	infoLine := infoLeft
	rightPad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4
	if rightPad > 0 {
		infoLine += strings.Repeat(" ", rightPad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")

	bar := components.NewProgressBar("", float64(answered)/float64(len(doc.Questions)), false, width-8)
	b.WriteString("  " + bar.View())
	b.WriteString("\n\n")

	questionStyle := lipgloss.NewStyle().
		Width(width - 8).
		Foreground(theme.Text).Bold(true)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, questionStyle.Render(q.Question)))
	b.WriteString("\n\n")

	var opts strings.Builder
	for i, opt := range q.Options {
		prefix := "  "
		if i == s.optCursor {
			prefix = "▸ "
		}
		marker := " "
		if answers[index] == i {
			marker = "●"
		}
		line := fmt.Sprintf("%s%s %s)  %s", prefix, marker, string(rune('A'+i)), opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.optCursor {
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		} else if answers[index] == i {
			style = lipgloss.NewStyle().Foreground(theme.Secondary)
		}
		opts.WriteString(style.Render(line))
		opts.WriteString("\n")
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, opts.String()))

	if s.sess.AllAnswered() {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Success).
			Render("All questions answered. Press S to submit."))
	}

	if s.notice != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(s.notice))
	}

	return b.String()
}

func (s *QuizScreen) renderGraded(width, height int) string {
	doc := s.sess.Document()
	answers := s.sess.Answers()

	var lines []string

	score := s.sess.Score()
	total := len(doc.Questions)
	pct := quiz.Percentage(score, total)

	verdictStyle := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
	verdict := "Nice work!"
	if pct < 50 {
		verdictStyle = lipgloss.NewStyle().Foreground(theme.Error).Bold(true)
		verdict = "Keep practicing."
	} else if pct < 80 {
		verdictStyle = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
		verdict = "Good effort."
	}

	lines = append(lines, "")
	lines = append(lines, lipgloss.PlaceHorizontal(width, lipgloss.Center,
		verdictStyle.Render(fmt.Sprintf("%s  %d/%d correct (%d%%)", verdict, score, total, pct))))
	if s.notice != "" {
		lines = append(lines, lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Error).Render(s.notice)))
	}
	lines = append(lines, "")

	for i, q := range doc.Questions {
		correct := answers[i] == q.CorrectAnswer

		mark := lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
		if !correct {
			mark = lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
		}
		lines = append(lines, fmt.Sprintf("  %s %s", mark,
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(
				fmt.Sprintf("%d. %s", i+1, q.Question))))

		if !correct {
			mc := components.MultiChoice{
				Options:      q.Options,
				CorrectIndex: q.CorrectAnswer,
				Submitted:    true,
				ChosenIndex:  answers[i],
			}
			for _, l := range strings.Split(strings.TrimRight(mc.View(), "\n"), "\n") {
				if strings.TrimSpace(l) == "" {
					continue
				}
				lines = append(lines, "    "+l)
			}
		}
		if q.Explanation != "" {
			wrapped := lipgloss.NewStyle().
				Width(min(width-10, 80)).
				Foreground(theme.TextDim).
				Render(q.Explanation)
			for _, l := range strings.Split(wrapped, "\n") {
				lines = append(lines, "      "+l)
			}
		}
		lines = append(lines, "")
	}

	maxOffset := len(lines) - height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if s.reviewOffset > maxOffset {
		s.reviewOffset = maxOffset
	}
	end := s.reviewOffset + height
	if end > len(lines) {
		end = len(lines)
	}

	return strings.Join(lines[s.reviewOffset:end], "\n")
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
