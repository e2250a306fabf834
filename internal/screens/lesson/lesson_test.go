package lesson

import (
	"errors"
	"testing"

	"github.com/vuhoang/mlhub/internal/analytics"
	"github.com/vuhoang/mlhub/internal/blob"
	"github.com/vuhoang/mlhub/internal/content"
	"github.com/vuhoang/mlhub/internal/llm"
	"github.com/vuhoang/mlhub/internal/quiz"
	"github.com/vuhoang/mlhub/internal/topics"
)

func newTestScreen(t *testing.T) *LessonScreen {
	t.Helper()
	blobs := blob.NewMemory()
	contents := content.NewService(blobs, llm.NewMockProvider(), content.DefaultConfig())
	quizzes := quiz.NewStore(blobs, llm.NewMockProvider(), quiz.DefaultConfig())
	topic, ok := topics.Find("what-is-ml")
	if !ok {
		t.Fatal("catalog topic missing")
	}
	return New(topic, contents, quizzes, analytics.NewLedger(blobs))
}

func TestLessonReadyShowsText(t *testing.T) {
	s := newTestScreen(t)

	updated, _ := s.Update(lessonReadyMsg{Text: "## Lesson", FromCache: true})
	s = updated.(*LessonScreen)

	if s.text != "## Lesson" {
		t.Errorf("text = %q", s.text)
	}
	if !s.fromCache {
		t.Error("expected fromCache")
	}
	if s.errMsg != "" || s.notice != "" {
		t.Errorf("errMsg = %q, notice = %q", s.errMsg, s.notice)
	}
}

func TestLessonReadyGenerationFailure(t *testing.T) {
	s := newTestScreen(t)

	updated, _ := s.Update(lessonReadyMsg{Err: errors.New("provider down")})
	s = updated.(*LessonScreen)

	if s.errMsg == "" {
		t.Error("expected a fatal error with no text to show")
	}
}

func TestLessonReadySaveFailureKeepsText(t *testing.T) {
	s := newTestScreen(t)

	updated, _ := s.Update(lessonReadyMsg{Text: "## Lesson", Err: errors.New("disk full")})
	s = updated.(*LessonScreen)

	if s.text != "## Lesson" {
		t.Errorf("text = %q, want the generated lesson despite the failed save", s.text)
	}
	if s.errMsg != "" {
		t.Errorf("errMsg = %q, want non-fatal handling", s.errMsg)
	}
	if s.notice == "" {
		t.Error("expected the failed save to be surfaced as a notice")
	}
}

func TestRegeneratedSaveFailureKeepsText(t *testing.T) {
	s := newTestScreen(t)
	s.loading = false
	s.regenerating = true

	updated, _ := s.Update(regeneratedMsg{Text: "## Fresh", Err: errors.New("disk full")})
	s = updated.(*LessonScreen)

	if s.regenerating {
		t.Error("still regenerating")
	}
	if s.text != "## Fresh" {
		t.Errorf("text = %q", s.text)
	}
	if s.notice == "" {
		t.Error("expected a save-failure notice")
	}
}
