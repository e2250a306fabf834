package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/vuhoang/mlhub/internal/blob"
	"github.com/vuhoang/mlhub/internal/llm"
	"github.com/vuhoang/mlhub/internal/topics"
)

// Service loads and generates long-form lesson content per topic.
// Generated lessons are cached in the blob store so each topic is
// only generated once unless explicitly regenerated.
type Service struct {
	blobs    blob.Store
	provider llm.Provider
	cfg      Config
}

// NewService creates a lesson content service.
func NewService(blobs blob.Store, provider llm.Provider, cfg Config) *Service {
	return &Service{blobs: blobs, provider: provider, cfg: cfg}
}

// contentKey is the blob key for a topic's saved lesson.
func contentKey(topicID string) string {
	return "saved-content/" + topicID + ".txt"
}

// Load returns the saved lesson for a topic, with found=false on a miss.
func (s *Service) Load(topicID string) (string, bool, error) {
	data, found, err := s.blobs.Get(contentKey(topicID))
	if err != nil {
		return "", false, fmt.Errorf("load lesson for %q: %w", topicID, err)
	}
	if !found {
		return "", false, nil
	}
	return string(data), true, nil
}

// Save persists lesson content for a topic, replacing any previous version.
func (s *Service) Save(topicID, text string) error {
	if err := s.blobs.Put(contentKey(topicID), []byte(text)); err != nil {
		return fmt.Errorf("save lesson for %q: %w", topicID, err)
	}
	return nil
}

// Generate produces fresh lesson content for a topic via the LLM.
// The result is not saved; callers decide whether to cache it.
func (s *Service) Generate(ctx context.Context, topic topics.Topic) (string, error) {
	ctx = llm.WithPurpose(ctx, "lesson")

	req := llm.Request{
		System: lessonSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildLessonUserMessage(topic.Prompt)},
		},
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return "", &ErrGenerationFailed{TopicID: topic.ID, Err: err}
	}

	text := strings.TrimSpace(string(resp.Content))
	if text == "" {
		return "", &ErrGenerationFailed{TopicID: topic.ID, Err: fmt.Errorf("empty response")}
	}

	return text, nil
}

// LoadOrGenerate returns cached content when available, otherwise
// generates, saves, and returns fresh content. fromCache reports
// whether the lesson came from the blob store. A failed save returns
// the generated text alongside ErrSaveFailed so the caller can keep
// using it; at most that one save is lost.
func (s *Service) LoadOrGenerate(ctx context.Context, topic topics.Topic) (text string, fromCache bool, err error) {
	text, found, err := s.Load(topic.ID)
	if err != nil {
		return "", false, err
	}
	if found {
		return text, true, nil
	}

	text, err = s.Generate(ctx, topic)
	if err != nil {
		return "", false, err
	}

	if err := s.Save(topic.ID, text); err != nil {
		return text, false, &ErrSaveFailed{TopicID: topic.ID, Err: err}
	}

	return text, false, nil
}
