package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/vuhoang/mlhub/internal/blob"
	"github.com/vuhoang/mlhub/internal/llm"
)

// quizResponse builds a canned LLM payload with n questions whose text
// carries the given tag, so regenerated versions are distinguishable.
func quizResponse(n int, tag string) llm.MockResponse {
	questions := make([]Question, n)
	for i := range questions {
		questions[i] = Question{
			Question:      fmt.Sprintf("%s question %d?", tag, i+1),
			Options:       []string{"A. one", "B. two", "C. three", "D. four"},
			CorrectAnswer: i % OptionCount,
			Explanation:   "because",
		}
	}
	payload, _ := json.Marshal(map[string]any{"questions": questions})
	return llm.MockResponse{Content: payload}
}

func TestListVersionsEmptyTopic(t *testing.T) {
	s := NewStore(blob.NewMemory(), llm.NewMockProvider(), DefaultConfig())

	infos, err := s.ListVersions("what-is-ml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(infos) != 0 {
		t.Fatalf("expected no versions, got %d", len(infos))
	}
}

func TestLoadVersionNotFound(t *testing.T) {
	s := NewStore(blob.NewMemory(), llm.NewMockProvider(), DefaultConfig())

	_, err := s.LoadVersion("what-is-ml", 3)
	var notFound *ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
	if notFound.TopicID != "what-is-ml" || notFound.Version != 3 {
		t.Errorf("not found = %+v", notFound)
	}
}

func TestGenerateFirstVersionIsOne(t *testing.T) {
	mock := llm.NewMockProvider(quizResponse(QuestionCount, "v1"))
	s := NewStore(blob.NewMemory(), mock, DefaultConfig())

	doc, err := s.LoadLatestOrGenerate(context.Background(), "what-is-ml", "lesson text", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Metadata.Version != 1 {
		t.Errorf("version = %d, want 1", doc.Metadata.Version)
	}
	if doc.Metadata.TopicID != "what-is-ml" {
		t.Errorf("topicId = %q", doc.Metadata.TopicID)
	}
	if doc.Metadata.CreatedAt.IsZero() {
		t.Error("createdAt not stamped")
	}
	if len(doc.Questions) != QuestionCount {
		t.Errorf("questions = %d, want %d", len(doc.Questions), QuestionCount)
	}
}

func TestVersionsAreSequentialWithoutGaps(t *testing.T) {
	mock := llm.NewMockProvider(
		quizResponse(QuestionCount, "v1"),
		quizResponse(QuestionCount, "v2"),
		quizResponse(QuestionCount, "v3"),
	)
	s := NewStore(blob.NewMemory(), mock, DefaultConfig())
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		doc, err := s.LoadLatestOrGenerate(ctx, "overfitting", "lesson", true)
		if err != nil {
			t.Fatalf("generate %d: %v", i, err)
		}
		if doc.Metadata.Version != i {
			t.Errorf("generation %d: version = %d", i, doc.Metadata.Version)
		}
	}

	infos, err := s.ListVersions("overfitting")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 3 {
		t.Fatalf("expected 3 versions, got %d", len(infos))
	}
	// Descending order.
	for i, info := range infos {
		want := 3 - i
		if info.Version != want {
			t.Errorf("infos[%d].Version = %d, want %d", i, info.Version, want)
		}
		if info.QuestionCount != QuestionCount {
			t.Errorf("infos[%d].QuestionCount = %d", i, info.QuestionCount)
		}
	}
}

func TestLoadLatestDoesNotGenerate(t *testing.T) {
	mock := llm.NewMockProvider(quizResponse(QuestionCount, "v1"))
	s := NewStore(blob.NewMemory(), mock, DefaultConfig())
	ctx := context.Background()

	if _, err := s.LoadLatestOrGenerate(ctx, "terminology", "lesson", false); err != nil {
		t.Fatalf("first generate: %v", err)
	}

	// Second call must be a pure read.
	doc, err := s.LoadLatestOrGenerate(ctx, "terminology", "lesson", false)
	if err != nil {
		t.Fatalf("load latest: %v", err)
	}
	if doc.Metadata.Version != 1 {
		t.Errorf("version = %d, want 1", doc.Metadata.Version)
	}
	if mock.CallCount() != 1 {
		t.Errorf("provider called %d times, want 1", mock.CallCount())
	}
}

func TestForceNewSupersedesLatest(t *testing.T) {
	mock := llm.NewMockProvider(
		quizResponse(QuestionCount, "v1"),
		quizResponse(QuestionCount, "v2"),
	)
	s := NewStore(blob.NewMemory(), mock, DefaultConfig())
	ctx := context.Background()

	first, err := s.LoadLatestOrGenerate(ctx, "ml-pipeline", "lesson", false)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := s.LoadLatestOrGenerate(ctx, "ml-pipeline", "lesson", true)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if second.Metadata.Version != first.Metadata.Version+1 {
		t.Errorf("versions = %d then %d", first.Metadata.Version, second.Metadata.Version)
	}

	// The first version is immutable and still loadable.
	old, err := s.LoadVersion("ml-pipeline", 1)
	if err != nil {
		t.Fatalf("load v1: %v", err)
	}
	if old.Questions[0].Question != "v1 question 1?" {
		t.Errorf("v1 content changed: %q", old.Questions[0].Question)
	}
}

func TestGenerationFailurePersistsNothing(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}},
	)
	blobs := blob.NewMemory()
	s := NewStore(blobs, mock, DefaultConfig())

	_, err := s.LoadLatestOrGenerate(context.Background(), "neural-networks", "lesson", false)
	var genErr *ErrGenerationFailed
	if !errors.As(err, &genErr) {
		t.Fatalf("expected ErrGenerationFailed, got: %v", err)
	}
	if blobs.Len() != 0 {
		t.Errorf("expected no blobs persisted, got %d", blobs.Len())
	}
}

func TestMalformedResponseLeavesExistingVersionsUntouched(t *testing.T) {
	mock := llm.NewMockProvider(
		quizResponse(QuestionCount, "v1"),
		llm.MockResponse{Content: json.RawMessage("```json\n{broken\n```")},
	)
	s := NewStore(blob.NewMemory(), mock, DefaultConfig())
	ctx := context.Background()

	if _, err := s.LoadLatestOrGenerate(ctx, "learning-types", "lesson", false); err != nil {
		t.Fatalf("first generate: %v", err)
	}

	_, err := s.LoadLatestOrGenerate(ctx, "learning-types", "lesson", true)
	var genErr *ErrGenerationFailed
	if !errors.As(err, &genErr) {
		t.Fatalf("expected ErrGenerationFailed, got: %v", err)
	}

	infos, err := s.ListVersions("learning-types")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 1 || infos[0].Version != 1 {
		t.Errorf("versions after failure = %+v, want just v1", infos)
	}
}

func TestFencedResponseIsParsed(t *testing.T) {
	resp := quizResponse(QuestionCount, "fenced")
	fenced := "```json\n" + string(resp.Content) + "\n```"
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(fenced)})
	s := NewStore(blob.NewMemory(), mock, DefaultConfig())

	doc, err := s.LoadLatestOrGenerate(context.Background(), "model-evaluation", "lesson", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Questions) != QuestionCount {
		t.Errorf("questions = %d, want %d", len(doc.Questions), QuestionCount)
	}
}

func TestQuizPromptTruncatesContent(t *testing.T) {
	mock := llm.NewMockProvider(quizResponse(QuestionCount, "long"))
	s := NewStore(blob.NewMemory(), mock, DefaultConfig())

	long := make([]byte, contentPrefixLimit*2)
	for i := range long {
		long[i] = 'x'
	}

	if _, err := s.LoadLatestOrGenerate(context.Background(), "feature-engineering", string(long), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msg := mock.Calls[0].Messages[0].Content
	// The prompt carries at most the bounded prefix plus instructions.
	if len(msg) > contentPrefixLimit+1000 {
		t.Errorf("prompt length = %d, content not truncated", len(msg))
	}
}

// interleavingProvider lands a finished quiz document in the blob store
// while its own generation call is running, mimicking a writer that
// completes between version listing and persistence.
type interleavingProvider struct {
	blobs   blob.Store
	key     string
	data    []byte
	payload json.RawMessage
}

func (p *interleavingProvider) Generate(_ context.Context, _ llm.Request) (*llm.Response, error) {
	if err := p.blobs.Put(p.key, p.data); err != nil {
		return nil, err
	}
	return &llm.Response{Content: p.payload, Model: "mock"}, nil
}

func (p *interleavingProvider) ModelID() string { return "mock" }

func TestConcurrentWriteNeverOverwritten(t *testing.T) {
	blobs := blob.NewMemory()

	competing := &Document{
		Questions: []Question{{
			Question:      "competing question?",
			Options:       []string{"A", "B", "C", "D"},
			CorrectAnswer: 0,
		}},
		Metadata: Metadata{Version: 1, TopicID: "what-is-ml"},
	}
	competingData, err := json.Marshal(competing)
	if err != nil {
		t.Fatal(err)
	}

	provider := &interleavingProvider{
		blobs:   blobs,
		key:     "saved-content/quizzes/what-is-ml/quiz-1.json",
		data:    competingData,
		payload: quizResponse(QuestionCount, "mine").Content,
	}
	s := NewStore(blobs, provider, DefaultConfig())

	doc, err := s.LoadLatestOrGenerate(context.Background(), "what-is-ml", "lesson", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Metadata.Version != 2 {
		t.Errorf("version = %d, want 2", doc.Metadata.Version)
	}

	// The competing document is intact under its version.
	old, err := s.LoadVersion("what-is-ml", 1)
	if err != nil {
		t.Fatalf("load v1: %v", err)
	}
	if old.Questions[0].Question != "competing question?" {
		t.Errorf("v1 content changed: %q", old.Questions[0].Question)
	}
}

func TestGenerationInFlightGuard(t *testing.T) {
	s := NewStore(blob.NewMemory(), llm.NewMockProvider(), DefaultConfig())

	if err := s.beginGeneration("what-is-ml"); err != nil {
		t.Fatalf("begin: %v", err)
	}

	_, err := s.LoadLatestOrGenerate(context.Background(), "what-is-ml", "lesson", true)
	var inFlight *ErrGenerationInFlight
	if !errors.As(err, &inFlight) {
		t.Fatalf("expected ErrGenerationInFlight, got: %v", err)
	}

	// Other topics are unaffected.
	s.endGeneration("what-is-ml")
	if err := s.beginGeneration("what-is-ml"); err != nil {
		t.Errorf("begin after end: %v", err)
	}
}
