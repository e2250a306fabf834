package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vuhoang/mlhub/internal/blob"
	"github.com/vuhoang/mlhub/internal/llm"
)

// Store manages versioned quiz documents per topic atop the blob store.
// Version numbers start at 1 and are assigned as max(existing)+1.
type Store struct {
	blobs    blob.Store
	provider llm.Provider
	cfg      Config
	now      func() time.Time

	// Serializes generation per topic. A second request while one is
	// outstanding for the same topic returns ErrGenerationInFlight
	// instead of racing on the next version slot.
	mu       sync.Mutex
	inflight map[string]bool
}

// NewStore creates a quiz store.
func NewStore(blobs blob.Store, provider llm.Provider, cfg Config) *Store {
	return &Store{
		blobs:    blobs,
		provider: provider,
		cfg:      cfg,
		now:      time.Now,
		inflight: make(map[string]bool),
	}
}

func quizPrefix(topicID string) string {
	return "saved-content/quizzes/" + topicID + "/"
}

func quizKey(topicID string, version int) string {
	return fmt.Sprintf("%squiz-%d.json", quizPrefix(topicID), version)
}

// ListVersions returns summaries of every stored version for a topic,
// sorted descending by version. A topic with no quizzes yields an empty
// slice, not an error.
func (s *Store) ListVersions(topicID string) ([]VersionInfo, error) {
	keys, err := s.blobs.List(quizPrefix(topicID))
	if err != nil {
		return nil, fmt.Errorf("list quizzes for %q: %w", topicID, err)
	}

	var infos []VersionInfo
	for _, key := range keys {
		data, found, err := s.blobs.Get(key)
		if err != nil {
			return nil, fmt.Errorf("read quiz %q: %w", key, err)
		}
		if !found {
			continue
		}

		var doc Document
		if err := json.Unmarshal(data, &doc); err != nil {
			// Skip blobs that aren't quiz documents.
			continue
		}
		infos = append(infos, VersionInfo{
			Version:       doc.Metadata.Version,
			CreatedAt:     doc.Metadata.CreatedAt,
			QuestionCount: len(doc.Questions),
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Version > infos[j].Version
	})
	return infos, nil
}

// LoadVersion returns one stored document, or ErrNotFound.
func (s *Store) LoadVersion(topicID string, version int) (*Document, error) {
	data, found, err := s.blobs.Get(quizKey(topicID, version))
	if err != nil {
		return nil, fmt.Errorf("read quiz %s v%d: %w", topicID, version, err)
	}
	if !found {
		return nil, &ErrNotFound{TopicID: topicID, Version: version}
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode quiz %s v%d: %w", topicID, version, err)
	}
	return &doc, nil
}

// LoadLatestOrGenerate returns the highest-numbered stored version when
// one exists and forceNew is false. Otherwise it generates a fresh quiz
// from the lesson content, persists it under the next version number,
// and returns it. Generation failures persist nothing.
func (s *Store) LoadLatestOrGenerate(ctx context.Context, topicID, contentText string, forceNew bool) (*Document, error) {
	versions, err := s.ListVersions(topicID)
	if err != nil {
		return nil, err
	}

	if !forceNew && len(versions) > 0 {
		return s.LoadVersion(topicID, versions[0].Version)
	}

	if err := s.beginGeneration(topicID); err != nil {
		return nil, err
	}
	defer s.endGeneration(topicID)

	// Another generation may have finished between the listing above and
	// acquiring the slot.
	versions, err = s.ListVersions(topicID)
	if err != nil {
		return nil, err
	}
	if !forceNew && len(versions) > 0 {
		return s.LoadVersion(topicID, versions[0].Version)
	}

	questions, err := s.generate(ctx, topicID, contentText)
	if err != nil {
		return nil, err
	}

	// Assign the version slot from a fresh listing; a document written
	// while the provider ran must never be overwritten.
	versions, err = s.ListVersions(topicID)
	if err != nil {
		return nil, err
	}
	next := 1
	if len(versions) > 0 {
		next = versions[0].Version + 1
	}

	doc := &Document{
		Questions: questions,
		Metadata: Metadata{
			Version:   next,
			TopicID:   topicID,
			CreatedAt: s.now().UTC(),
		},
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode quiz %s v%d: %w", topicID, next, err)
	}
	if err := s.blobs.Put(quizKey(topicID, next), data); err != nil {
		return nil, fmt.Errorf("save quiz %s v%d: %w", topicID, next, err)
	}

	return doc, nil
}

func (s *Store) beginGeneration(topicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[topicID] {
		return &ErrGenerationInFlight{TopicID: topicID}
	}
	s.inflight[topicID] = true
	return nil
}

func (s *Store) endGeneration(topicID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, topicID)
}

func (s *Store) generate(ctx context.Context, topicID, contentText string) ([]Question, error) {
	ctx = llm.WithPurpose(ctx, "quiz")

	req := llm.Request{
		System: quizSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildQuizUserMessage(contentText)},
		},
		Schema:      DocumentSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, &ErrGenerationFailed{TopicID: topicID, Err: err}
	}

	questions, err := parseQuestions(resp.Content)
	if err != nil {
		return nil, &ErrGenerationFailed{TopicID: topicID, Err: err}
	}

	return questions, nil
}
