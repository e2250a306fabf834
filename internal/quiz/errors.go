package quiz

import "fmt"

// ErrNotFound indicates the requested (topic, version) pair has no
// stored document.
type ErrNotFound struct {
	TopicID string
	Version int
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("quiz version %d not found for topic %q", e.Version, e.TopicID)
}

// ErrGenerationFailed indicates the LLM could not produce a usable quiz.
// No partial document is persisted when this is returned.
type ErrGenerationFailed struct {
	TopicID string
	Err     error
}

func (e *ErrGenerationFailed) Error() string {
	return fmt.Sprintf("quiz generation failed for topic %q: %v", e.TopicID, e.Err)
}

func (e *ErrGenerationFailed) Unwrap() error {
	return e.Err
}

// ErrGenerationInFlight indicates a generation request for the topic is
// already outstanding. Callers should wait for it rather than start another.
type ErrGenerationInFlight struct {
	TopicID string
}

func (e *ErrGenerationInFlight) Error() string {
	return fmt.Sprintf("quiz generation already in flight for topic %q", e.TopicID)
}
