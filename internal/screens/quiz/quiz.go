package quiz

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/vuhoang/mlhub/internal/analytics"
	"github.com/vuhoang/mlhub/internal/quiz"
	"github.com/vuhoang/mlhub/internal/router"
	"github.com/vuhoang/mlhub/internal/screen"
	"github.com/vuhoang/mlhub/internal/topics"
	"github.com/vuhoang/mlhub/internal/ui/layout"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// QuizScreen drives a quiz session: browsing stored versions, answering
// questions, and reviewing the graded result.
type QuizScreen struct {
	topic       topics.Topic
	contentText string
	quizzes     *quiz.Store
	sess        *quiz.Session

	versionCursor int
	optCursor     int
	reviewOffset  int

	loading      bool
	generating   bool
	spinnerFrame int
	errMsg       string
	notice       string
	result       *quiz.Result
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New creates a quiz screen for the given topic. contentText is the
// lesson the quiz questions are generated from.
func New(topic topics.Topic, contentText string, quizzes *quiz.Store, ledger *analytics.Ledger) *QuizScreen {
	return &QuizScreen{
		topic:       topic,
		contentText: contentText,
		quizzes:     quizzes,
		sess:        quiz.NewSession(topic.ID, topic.Title, ledger),
		loading:     true,
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	return tea.Batch(s.loadVersions(true), spinnerTick())
}

func (s *QuizScreen) Title() string {
	return "Quiz: " + s.topic.Title
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.loading || s.generating {
		return []layout.KeyHint{
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	switch s.sess.State() {
	case quiz.StateIdle:
		return []layout.KeyHint{
			{Key: "G", Description: "Generate quiz"},
			{Key: "Esc", Description: "Back"},
		}
	case quiz.StateBrowsing:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Take quiz"},
			{Key: "N", Description: "New version"},
			{Key: "Esc", Description: "Back"},
		}
	case quiz.StateActive:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Option"},
			{Key: "Enter", Description: "Answer"},
			{Key: "←→", Description: "Question"},
			{Key: "S", Description: "Submit"},
			{Key: "Esc", Description: "Abandon"},
		}
	case quiz.StateGraded:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Review"},
			{Key: "R", Description: "Retry"},
			{Key: "N", Description: "New version"},
			{Key: "H", Description: "History"},
			{Key: "Esc", Description: "Done"},
		}
	}
	return nil
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case versionsLoadedMsg:
		return s.handleVersionsLoaded(msg)

	case quizReadyMsg:
		return s.handleQuizReady(msg)

	case spinnerTickMsg:
		if !s.loading && !s.generating {
			return s, nil
		}
		s.spinnerFrame = (s.spinnerFrame + 1) % len(spinnerFrames)
		return s, spinnerTick()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s, nil
}

func (s *QuizScreen) handleVersionsLoaded(msg versionsLoadedMsg) (screen.Screen, tea.Cmd) {
	s.loading = false
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return s, nil
	}

	if len(msg.Versions) == 0 {
		// No quiz for this topic yet. Stay idle; generation costs an
		// LLM call and only happens on request.
		return s, nil
	}

	s.sess.Browse(msg.Versions)
	if s.versionCursor >= len(msg.Versions) {
		s.versionCursor = 0
	}

	if msg.AutoStart {
		s.loading = true
		return s, tea.Batch(s.loadVersion(msg.Versions[0].Version), spinnerTick())
	}
	return s, nil
}

func (s *QuizScreen) handleQuizReady(msg quizReadyMsg) (screen.Screen, tea.Cmd) {
	s.loading = false
	s.generating = false
	if msg.Err != nil {
		// Stay where we are (idle or browsing); surface the failure inline.
		s.notice = msg.Err.Error()
		return s, nil
	}

	s.notice = ""
	s.result = nil
	if err := s.sess.Start(msg.Doc); err != nil {
		s.errMsg = err.Error()
		return s, nil
	}
	s.optCursor = 0
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		s.sess.Close()
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if s.loading || s.generating {
		return s, nil
	}

	switch s.sess.State() {
	case quiz.StateIdle:
		return s.handleIdleKey(key)
	case quiz.StateBrowsing:
		return s.handleBrowsingKey(key)
	case quiz.StateActive:
		return s.handleActiveKey(key)
	case quiz.StateGraded:
		return s.handleGradedKey(key)
	}
	return s, nil
}

func (s *QuizScreen) handleIdleKey(key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "g", "enter":
		s.generating = true
		s.notice = ""
		return s, tea.Batch(s.generate(false), spinnerTick())
	case "esc":
		s.sess.Close()
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return s, nil
}

func (s *QuizScreen) handleBrowsingKey(key string) (screen.Screen, tea.Cmd) {
	versions := s.sess.Versions()

	switch key {
	case "up", "k":
		if s.versionCursor > 0 {
			s.versionCursor--
		}
	case "down", "j":
		if s.versionCursor < len(versions)-1 {
			s.versionCursor++
		}
	case "enter":
		if s.versionCursor < 0 || s.versionCursor >= len(versions) {
			return s, nil
		}
		version := versions[s.versionCursor].Version
		s.loading = true
		return s, tea.Batch(s.loadVersion(version), spinnerTick())
	case "n":
		s.generating = true
		s.notice = ""
		return s, tea.Batch(s.generate(true), spinnerTick())
	case "esc":
		s.sess.Close()
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return s, nil
}

func (s *QuizScreen) handleActiveKey(key string) (screen.Screen, tea.Cmd) {
	doc := s.sess.Document()
	q := doc.Questions[s.sess.Index()]

	switch key {
	case "up", "k":
		if s.optCursor > 0 {
			s.optCursor--
		}
	case "down", "j":
		if s.optCursor < len(q.Options)-1 {
			s.optCursor++
		}
	case "1", "2", "3", "4":
		if n := int(key[0] - '1'); n < len(q.Options) {
			s.optCursor = n
		}
		fallthrough
	case "enter":
		s.sess.SelectAnswer(s.optCursor)
		if !s.sess.AtLastQuestion() {
			s.sess.Next()
			s.syncOptCursor()
		}
	case "left", "h":
		s.sess.Previous()
		s.syncOptCursor()
	case "right", "l":
		// Advancing past the last question with everything answered submits.
		if s.sess.AtLastQuestion() && s.sess.AllAnswered() {
			return s.submit()
		}
		s.sess.Next()
		s.syncOptCursor()
	case "s":
		return s.submit()
	case "esc":
		// Abandoning an active quiz records nothing.
		s.sess.Close()
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return s, nil
}

func (s *QuizScreen) handleGradedKey(key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "up", "k":
		if s.reviewOffset > 0 {
			s.reviewOffset--
		}
	case "down", "j":
		s.reviewOffset++
	case "r":
		if err := s.sess.Retry(); err == nil {
			s.result = nil
			s.optCursor = 0
			s.notice = ""
		}
	case "n":
		s.generating = true
		s.notice = ""
		return s, tea.Batch(s.generate(true), spinnerTick())
	case "h":
		if err := s.sess.ViewHistory(); err == nil {
			s.result = nil
			s.loading = true
			return s, tea.Batch(s.loadVersions(false), spinnerTick())
		}
	case "esc":
		s.sess.Close()
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return s, nil
}

// submit grades the session, keeping the graded state even when the
// attempt record fails to persist.
func (s *QuizScreen) submit() (screen.Screen, tea.Cmd) {
	if !s.sess.AllAnswered() {
		s.notice = "Answer every question before submitting."
		return s, nil
	}
	result, err := s.sess.Submit()
	s.result = &result
	s.reviewOffset = 0
	s.notice = ""
	if err != nil {
		s.notice = err.Error()
	}
	return s, nil
}

// syncOptCursor points the option cursor at the stored answer for the
// current question, or the first option when unanswered.
func (s *QuizScreen) syncOptCursor() {
	answer := s.sess.Answers()[s.sess.Index()]
	if answer == quiz.Unanswered {
		s.optCursor = 0
		return
	}
	s.optCursor = answer
}

func (s *QuizScreen) loadVersions(autoStart bool) tea.Cmd {
	return func() tea.Msg {
		versions, err := s.quizzes.ListVersions(s.topic.ID)
		return versionsLoadedMsg{Versions: versions, AutoStart: autoStart, Err: err}
	}
}

func (s *QuizScreen) loadVersion(version int) tea.Cmd {
	return func() tea.Msg {
		doc, err := s.quizzes.LoadVersion(s.topic.ID, version)
		return quizReadyMsg{Doc: doc, Err: err}
	}
}

func (s *QuizScreen) generate(forceNew bool) tea.Cmd {
	return func() tea.Msg {
		doc, err := s.quizzes.LoadLatestOrGenerate(context.Background(), s.topic.ID, s.contentText, forceNew)
		return quizReadyMsg{Doc: doc, Err: err}
	}
}

func spinnerTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}
