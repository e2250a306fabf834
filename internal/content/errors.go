package content

import "fmt"

// ErrGenerationFailed indicates the LLM could not produce lesson content.
type ErrGenerationFailed struct {
	TopicID string
	Err     error
}

func (e *ErrGenerationFailed) Error() string {
	return fmt.Sprintf("lesson generation failed for topic %q: %v", e.TopicID, e.Err)
}

func (e *ErrGenerationFailed) Unwrap() error {
	return e.Err
}

// ErrSaveFailed indicates generated content could not be persisted.
// The content itself is still usable; callers keep working with the
// in-memory text and at most one save is lost.
type ErrSaveFailed struct {
	TopicID string
	Err     error
}

func (e *ErrSaveFailed) Error() string {
	return fmt.Sprintf("lesson save failed for topic %q: %v", e.TopicID, e.Err)
}

func (e *ErrSaveFailed) Unwrap() error {
	return e.Err
}
