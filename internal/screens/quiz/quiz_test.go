package quiz

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/vuhoang/mlhub/internal/analytics"
	"github.com/vuhoang/mlhub/internal/blob"
	"github.com/vuhoang/mlhub/internal/llm"
	quizpkg "github.com/vuhoang/mlhub/internal/quiz"
	"github.com/vuhoang/mlhub/internal/topics"
)

func testDocument(version int) *quizpkg.Document {
	questions := make([]quizpkg.Question, 8)
	for i := range questions {
		questions[i] = quizpkg.Question{
			Question:      "q",
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: 0,
			Explanation:   "because",
		}
	}
	return &quizpkg.Document{
		Questions: questions,
		Metadata: quizpkg.Metadata{
			Version:   version,
			TopicID:   "what-is-ml",
			CreatedAt: time.Now().UTC(),
		},
	}
}

func newTestScreen(t *testing.T) (*QuizScreen, *blob.Memory) {
	t.Helper()
	blobs := blob.NewMemory()
	store := quizpkg.NewStore(blobs, llm.NewMockProvider(), quizpkg.DefaultConfig())
	ledger := analytics.NewLedger(blobs)
	topic, ok := topics.Find("what-is-ml")
	if !ok {
		t.Fatal("catalog topic missing")
	}
	return New(topic, "lesson text", store, ledger), blobs
}

func TestVersionsLoadedEmptyStaysIdle(t *testing.T) {
	s, _ := newTestScreen(t)

	updated, _ := s.Update(versionsLoadedMsg{AutoStart: true})
	s = updated.(*QuizScreen)

	if s.generating {
		t.Error("no generation may start without the user asking for it")
	}
	if got := s.sess.State(); got != quizpkg.StateIdle {
		t.Errorf("expected idle state, got %s", got)
	}
}

func TestIdleGenerateKeyStartsGeneration(t *testing.T) {
	s, _ := newTestScreen(t)
	s.loading = false

	updated, cmd := s.handleIdleKey("g")
	s = updated.(*QuizScreen)

	if !s.generating {
		t.Error("expected generation to start")
	}
	if cmd == nil {
		t.Error("expected a generate command")
	}
}

func TestVersionsLoadedAutoLoadsLatest(t *testing.T) {
	s, _ := newTestScreen(t)

	versions := []quizpkg.VersionInfo{
		{Version: 2, QuestionCount: 8},
		{Version: 1, QuestionCount: 8},
	}
	updated, cmd := s.Update(versionsLoadedMsg{Versions: versions, AutoStart: true})
	s = updated.(*QuizScreen)

	if !s.loading {
		t.Error("expected the latest version to be loading")
	}
	if cmd == nil {
		t.Error("expected a load command for the latest version")
	}
	if len(s.sess.Versions()) != 2 {
		t.Errorf("expected 2 versions retained, got %d", len(s.sess.Versions()))
	}
}

func TestVersionsLoadedForHistoryEntersBrowsing(t *testing.T) {
	s, _ := newTestScreen(t)

	versions := []quizpkg.VersionInfo{
		{Version: 2, QuestionCount: 8},
		{Version: 1, QuestionCount: 8},
	}
	updated, _ := s.Update(versionsLoadedMsg{Versions: versions})
	s = updated.(*QuizScreen)

	if got := s.sess.State(); got != quizpkg.StateBrowsing {
		t.Errorf("expected browsing state, got %s", got)
	}
	if s.loading {
		t.Error("browsing must not trigger a load")
	}
}

func TestQuizReadyStartsSession(t *testing.T) {
	s, _ := newTestScreen(t)
	s.loading = false

	updated, _ := s.Update(quizReadyMsg{Doc: testDocument(1)})
	s = updated.(*QuizScreen)

	if got := s.sess.State(); got != quizpkg.StateActive {
		t.Errorf("expected active state, got %s", got)
	}
	if s.sess.Index() != 0 {
		t.Errorf("expected to start at question 0, got %d", s.sess.Index())
	}
}

func TestGenerationFailureKeepsBrowsing(t *testing.T) {
	s, _ := newTestScreen(t)

	versions := []quizpkg.VersionInfo{{Version: 1, QuestionCount: 8}}
	updated, _ := s.Update(versionsLoadedMsg{Versions: versions})
	s = updated.(*QuizScreen)

	updated, _ = s.Update(quizReadyMsg{Err: &quizpkg.ErrGenerationFailed{TopicID: "what-is-ml"}})
	s = updated.(*QuizScreen)

	if got := s.sess.State(); got != quizpkg.StateBrowsing {
		t.Errorf("expected to stay browsing after failed generation, got %s", got)
	}
	if s.notice == "" {
		t.Error("expected the failure to be surfaced as a notice")
	}
	if s.errMsg != "" {
		t.Errorf("expected no fatal error, got %q", s.errMsg)
	}
}

func TestGenerationFailureStaysIdleWithNotice(t *testing.T) {
	s, _ := newTestScreen(t)

	updated, _ := s.Update(versionsLoadedMsg{AutoStart: true})
	s = updated.(*QuizScreen)

	updated, _ = s.Update(quizReadyMsg{Err: &quizpkg.ErrGenerationFailed{TopicID: "what-is-ml"}})
	s = updated.(*QuizScreen)

	if got := s.sess.State(); got != quizpkg.StateIdle {
		t.Errorf("expected to stay idle after failed generation, got %s", got)
	}
	if s.notice == "" {
		t.Error("expected the failure to be surfaced as a notice")
	}
	if s.errMsg != "" {
		t.Errorf("expected no fatal error, got %q", s.errMsg)
	}
}

func TestGenerateCommandPersistsAndStarts(t *testing.T) {
	s, blobs := newTestScreen(t)

	doc := testDocument(1)
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	store := quizpkg.NewStore(blobs, llm.NewMockProvider(llm.MockResponse{Content: raw}), quizpkg.DefaultConfig())
	s.quizzes = store

	msg := s.generate(false)()
	ready, ok := msg.(quizReadyMsg)
	if !ok {
		t.Fatalf("expected quizReadyMsg, got %T", msg)
	}
	if ready.Err != nil {
		t.Fatalf("unexpected error: %v", ready.Err)
	}
	if ready.Doc.Metadata.Version != 1 {
		t.Errorf("expected version 1, got %d", ready.Doc.Metadata.Version)
	}
	if blobs.Len() != 1 {
		t.Errorf("expected the generated quiz to be persisted, got %d blobs", blobs.Len())
	}
}
