package quiz

import (
	"errors"
	"testing"
	"time"
)

// recordingSink captures attempts for assertions.
type recordingSink struct {
	results []Result
	fail    bool
}

func (r *recordingSink) RecordAttempt(result Result) error {
	if r.fail {
		return errors.New("ledger unavailable")
	}
	r.results = append(r.results, result)
	return nil
}

func testDocument(n int) *Document {
	questions := make([]Question, n)
	for i := range questions {
		questions[i] = Question{
			Question:      "Q?",
			Options:       []string{"A", "B", "C", "D"},
			CorrectAnswer: 1,
			Explanation:   "because",
		}
	}
	return &Document{
		Questions: questions,
		Metadata:  Metadata{Version: 2, TopicID: "what-is-ml", CreatedAt: time.Now()},
	}
}

func activeSession(t *testing.T, n int, sink *recordingSink) *Session {
	t.Helper()
	s := NewSession("what-is-ml", "What is Machine Learning?", sink)
	if err := s.Start(testDocument(n)); err != nil {
		t.Fatalf("start: %v", err)
	}
	return s
}

func TestNewSessionIsIdle(t *testing.T) {
	s := NewSession("what-is-ml", "What is ML?", nil)
	if s.State() != StateIdle {
		t.Fatalf("state = %s, want idle", s.State())
	}
}

func TestStartInitializesAnswersToSentinel(t *testing.T) {
	s := activeSession(t, 4, nil)

	if s.State() != StateActive {
		t.Fatalf("state = %s, want active", s.State())
	}
	if s.Index() != 0 {
		t.Errorf("index = %d, want 0", s.Index())
	}
	for i, a := range s.Answers() {
		if a != Unanswered {
			t.Errorf("answers[%d] = %d, want %d", i, a, Unanswered)
		}
	}
}

func TestStartEmptyDocumentFails(t *testing.T) {
	s := NewSession("what-is-ml", "What is ML?", nil)
	if err := s.Start(&Document{}); err == nil {
		t.Fatal("expected error for empty document")
	}
	if s.State() != StateIdle {
		t.Errorf("state = %s, want idle", s.State())
	}
}

func TestNavigationClampsToBounds(t *testing.T) {
	s := activeSession(t, 3, nil)

	s.Previous()
	if s.Index() != 0 {
		t.Errorf("index after previous at start = %d, want 0", s.Index())
	}

	s.Next()
	s.Next()
	s.Next() // clamped
	if s.Index() != 2 {
		t.Errorf("index after overshooting = %d, want 2", s.Index())
	}
	if !s.AtLastQuestion() {
		t.Error("expected AtLastQuestion at index 2")
	}
}

func TestSelectAnswerOnlyAffectsCurrentQuestion(t *testing.T) {
	s := activeSession(t, 3, nil)

	s.SelectAnswer(2)
	s.Next()
	s.SelectAnswer(1)

	answers := s.Answers()
	if answers[0] != 2 || answers[1] != 1 || answers[2] != Unanswered {
		t.Errorf("answers = %v", answers)
	}
}

func TestSelectAnswerIgnoresOutOfRange(t *testing.T) {
	s := activeSession(t, 2, nil)

	s.SelectAnswer(4)
	s.SelectAnswer(-1)
	if s.Answers()[0] != Unanswered {
		t.Errorf("answers[0] = %d, want unanswered", s.Answers()[0])
	}
}

func TestSubmitRequiresAllAnswered(t *testing.T) {
	s := activeSession(t, 2, nil)
	s.SelectAnswer(1)

	if _, err := s.Submit(); err == nil {
		t.Fatal("expected error submitting with unanswered questions")
	}
	if s.State() != StateActive {
		t.Errorf("state = %s, want active", s.State())
	}
}

func TestSubmitGradesAndRecords(t *testing.T) {
	sink := &recordingSink{}
	s := activeSession(t, 8, sink)

	// Answer 3 of 8 correctly (correct answer is always 1).
	for i := 0; i < 8; i++ {
		if i < 3 {
			s.SelectAnswer(1)
		} else {
			s.SelectAnswer(0)
		}
		s.Next()
	}

	result, err := s.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if s.State() != StateGraded {
		t.Fatalf("state = %s, want graded", s.State())
	}
	if result.Score != 3 || result.Total != 8 {
		t.Errorf("score = %d/%d, want 3/8", result.Score, result.Total)
	}
	// round(37.5) = 38 under round-half-up.
	if result.Percentage != 38 {
		t.Errorf("percentage = %d, want 38", result.Percentage)
	}
	if result.Version != 2 {
		t.Errorf("version = %d, want 2", result.Version)
	}

	if len(sink.results) != 1 {
		t.Fatalf("recorded %d attempts, want 1", len(sink.results))
	}
	if sink.results[0].Percentage != 38 {
		t.Errorf("recorded percentage = %d", sink.results[0].Percentage)
	}
}

func TestSubmitTwiceDoesNotDoubleRecord(t *testing.T) {
	sink := &recordingSink{}
	s := activeSession(t, 2, sink)

	s.SelectAnswer(1)
	s.Next()
	s.SelectAnswer(1)

	if _, err := s.Submit(); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := s.Submit(); err == nil {
		t.Fatal("expected error on second submit")
	}
	if len(sink.results) != 1 {
		t.Errorf("recorded %d attempts, want 1", len(sink.results))
	}
}

func TestSubmitRecorderFailureKeepsGradedState(t *testing.T) {
	sink := &recordingSink{fail: true}
	s := activeSession(t, 1, sink)
	s.SelectAnswer(1)

	result, err := s.Submit()
	if err == nil {
		t.Fatal("expected error from failing recorder")
	}
	if s.State() != StateGraded {
		t.Errorf("state = %s, want graded", s.State())
	}
	if result.Percentage != 100 {
		t.Errorf("percentage = %d, want 100", result.Percentage)
	}
}

func TestRetryResetsAnswersKeepsVersion(t *testing.T) {
	sink := &recordingSink{}
	s := activeSession(t, 2, sink)

	s.SelectAnswer(1)
	s.Next()
	s.SelectAnswer(0)
	if _, err := s.Submit(); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := s.Retry(); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if s.State() != StateActive {
		t.Fatalf("state = %s, want active", s.State())
	}
	if s.Index() != 0 {
		t.Errorf("index = %d, want 0", s.Index())
	}
	for i, a := range s.Answers() {
		if a != Unanswered {
			t.Errorf("answers[%d] = %d, want unanswered", i, a)
		}
	}
	if s.Document().Metadata.Version != 2 {
		t.Errorf("version = %d, want 2", s.Document().Metadata.Version)
	}
}

func TestRetryOnlyFromGraded(t *testing.T) {
	s := activeSession(t, 2, nil)
	if err := s.Retry(); err == nil {
		t.Fatal("expected error retrying an active session")
	}
}

func TestViewHistoryAfterGrading(t *testing.T) {
	s := activeSession(t, 1, &recordingSink{})
	s.SelectAnswer(1)
	if _, err := s.Submit(); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := s.ViewHistory(); err != nil {
		t.Fatalf("view history: %v", err)
	}
	if s.State() != StateBrowsing {
		t.Errorf("state = %s, want browsing", s.State())
	}
}

func TestBrowseStoresVersions(t *testing.T) {
	s := NewSession("what-is-ml", "What is ML?", nil)
	s.Browse([]VersionInfo{{Version: 2}, {Version: 1}})

	if s.State() != StateBrowsing {
		t.Fatalf("state = %s, want browsing", s.State())
	}
	if len(s.Versions()) != 2 {
		t.Errorf("versions = %d, want 2", len(s.Versions()))
	}
}

func TestCloseDiscardsState(t *testing.T) {
	sink := &recordingSink{}
	s := activeSession(t, 2, sink)
	s.SelectAnswer(1)

	s.Close()
	if s.State() != StateIdle {
		t.Errorf("state = %s, want idle", s.State())
	}
	if s.Document() != nil {
		t.Error("document not discarded")
	}
	// No partial attempt recorded.
	if len(sink.results) != 0 {
		t.Errorf("recorded %d attempts, want 0", len(sink.results))
	}
}

func TestPercentageRounding(t *testing.T) {
	tests := []struct {
		score, total, want int
	}{
		{3, 8, 38},  // 37.5 rounds up
		{1, 3, 33},  // 33.33 rounds down
		{2, 3, 67},  // 66.67 rounds up
		{0, 8, 0},
		{8, 8, 100},
		{1, 8, 13},  // 12.5 rounds up
		{0, 0, 0},   // empty quiz yields 0, never NaN
	}
	for _, tt := range tests {
		if got := Percentage(tt.score, tt.total); got != tt.want {
			t.Errorf("Percentage(%d, %d) = %d, want %d", tt.score, tt.total, got, tt.want)
		}
	}
}
