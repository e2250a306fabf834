package quiz

import (
	"encoding/json"
	"fmt"
	"strings"
)

// stripCodeFence removes a markdown code-block wrapper the generation
// service may add around its JSON payload.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// parseQuestions parses and validates a generation response. The raw
// payload may carry a code fence; it is stripped before parsing.
func parseQuestions(raw []byte) ([]Question, error) {
	cleaned := stripCodeFence(string(raw))

	var payload struct {
		Questions []Question `json:"questions"`
	}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("parse quiz payload: %w", err)
	}

	if len(payload.Questions) == 0 {
		return nil, fmt.Errorf("quiz payload has no questions")
	}

	for i, q := range payload.Questions {
		if strings.TrimSpace(q.Question) == "" {
			return nil, fmt.Errorf("question %d: empty text", i+1)
		}
		if len(q.Options) != OptionCount {
			return nil, fmt.Errorf("question %d: %d options, want %d", i+1, len(q.Options), OptionCount)
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= OptionCount {
			return nil, fmt.Errorf("question %d: correct answer index %d out of range", i+1, q.CorrectAnswer)
		}
	}

	return payload.Questions, nil
}
