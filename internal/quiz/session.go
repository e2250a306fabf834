package quiz

import (
	"fmt"
	"math"
	"time"
)

// State names the phase of a quiz-taking session.
type State int

const (
	// StateIdle means no document is loaded.
	StateIdle State = iota
	// StateBrowsing means the version history is shown.
	StateBrowsing
	// StateActive means the user is answering questions.
	StateActive
	// StateGraded means the loaded quiz has been submitted and scored.
	StateGraded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBrowsing:
		return "browsing"
	case StateActive:
		return "active"
	case StateGraded:
		return "graded"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Unanswered is the sentinel for a question with no selected option.
const Unanswered = -1

// Result is the graded outcome of one session.
type Result struct {
	TopicID    string
	TopicTitle string
	Version    int
	Score      int
	Total      int
	Percentage int
	FinishedAt time.Time
}

// AttemptRecorder receives the outcome of each graded session.
type AttemptRecorder interface {
	RecordAttempt(result Result) error
}

// Session drives one quiz-taking interaction from start to graded
// result. It is not safe for concurrent use; the UI owns it from a
// single event loop.
type Session struct {
	topicID    string
	topicTitle string
	recorder   AttemptRecorder
	now        func() time.Time

	state    State
	doc      *Document
	versions []VersionInfo
	index    int
	answers  []int
	score    int
}

// NewSession creates an idle session for a topic.
func NewSession(topicID, topicTitle string, recorder AttemptRecorder) *Session {
	return &Session{
		topicID:    topicID,
		topicTitle: topicTitle,
		recorder:   recorder,
		now:        time.Now,
		state:      StateIdle,
	}
}

// State returns the current phase.
func (s *Session) State() State { return s.state }

// Document returns the loaded quiz, or nil.
func (s *Session) Document() *Document { return s.doc }

// Versions returns the version summaries shown while browsing.
func (s *Session) Versions() []VersionInfo { return s.versions }

// Index returns the current question index.
func (s *Session) Index() int { return s.index }

// Answers returns the selected option per question, Unanswered where none.
func (s *Session) Answers() []int { return s.answers }

// Score returns the graded score. Only meaningful in StateGraded.
func (s *Session) Score() int { return s.score }

// Browse shows the version history. Valid from any state; the loaded
// document, if any, is kept so Start can resume it.
func (s *Session) Browse(versions []VersionInfo) {
	s.versions = versions
	s.state = StateBrowsing
}

// Start loads a document and begins answering from the first question.
func (s *Session) Start(doc *Document) error {
	if doc == nil || len(doc.Questions) == 0 {
		return fmt.Errorf("start session: empty document")
	}

	s.doc = doc
	s.index = 0
	s.answers = make([]int, len(doc.Questions))
	for i := range s.answers {
		s.answers[i] = Unanswered
	}
	s.score = 0
	s.state = StateActive
	return nil
}

// SelectAnswer records the chosen option for the current question.
// Ignored outside StateActive and for out-of-range options.
func (s *Session) SelectAnswer(option int) {
	if s.state != StateActive {
		return
	}
	if option < 0 || option >= len(s.doc.Questions[s.index].Options) {
		return
	}
	s.answers[s.index] = option
}

// Next advances to the next question, clamped to the last index.
func (s *Session) Next() {
	if s.state != StateActive {
		return
	}
	if s.index < len(s.doc.Questions)-1 {
		s.index++
	}
}

// Previous moves back one question, clamped to 0.
func (s *Session) Previous() {
	if s.state != StateActive {
		return
	}
	if s.index > 0 {
		s.index--
	}
}

// AtLastQuestion reports whether the current index is the final question.
func (s *Session) AtLastQuestion() bool {
	return s.doc != nil && s.index == len(s.doc.Questions)-1
}

// AllAnswered reports whether every question has a selected option.
func (s *Session) AllAnswered() bool {
	if s.state != StateActive {
		return false
	}
	for _, a := range s.answers {
		if a == Unanswered {
			return false
		}
	}
	return true
}

// Submit grades the session and records one attempt. It is only
// permitted in StateActive with every question answered, so a graded
// session can never double-record.
func (s *Session) Submit() (Result, error) {
	if s.state != StateActive {
		return Result{}, fmt.Errorf("submit: session is %s, not active", s.state)
	}
	if !s.AllAnswered() {
		return Result{}, fmt.Errorf("submit: not all questions answered")
	}

	score := 0
	for i, q := range s.doc.Questions {
		if s.answers[i] == q.CorrectAnswer {
			score++
		}
	}

	result := Result{
		TopicID:    s.topicID,
		TopicTitle: s.topicTitle,
		Version:    s.doc.Metadata.Version,
		Score:      score,
		Total:      len(s.doc.Questions),
		Percentage: Percentage(score, len(s.doc.Questions)),
		FinishedAt: s.now().UTC(),
	}

	s.score = score
	s.state = StateGraded

	if s.recorder != nil {
		if err := s.recorder.RecordAttempt(result); err != nil {
			// The graded state stands; a lost record is surfaced, not fatal.
			return result, fmt.Errorf("record attempt: %w", err)
		}
	}

	return result, nil
}

// Retry resets answers and position but keeps the same version loaded.
func (s *Session) Retry() error {
	if s.state != StateGraded {
		return fmt.Errorf("retry: session is %s, not graded", s.state)
	}
	return s.Start(s.doc)
}

// ViewHistory returns to browsing after grading.
func (s *Session) ViewHistory() error {
	if s.state != StateGraded {
		return fmt.Errorf("view history: session is %s, not graded", s.state)
	}
	s.state = StateBrowsing
	return nil
}

// Close discards all in-memory state. No partial attempt is recorded.
func (s *Session) Close() {
	s.doc = nil
	s.versions = nil
	s.answers = nil
	s.index = 0
	s.score = 0
	s.state = StateIdle
}

// Percentage computes round-half-up of 100*score/total. A zero total
// yields 0.
func Percentage(score, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Floor(float64(100*score)/float64(total) + 0.5))
}
