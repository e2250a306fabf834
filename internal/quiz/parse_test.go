package quiz

import (
	"strings"
	"testing"
)

const validPayload = `{
  "questions": [
    {
      "question": "What does supervised learning require?",
      "options": ["A. Labeled data", "B. No data", "C. Only images", "D. A GPU"],
      "correctAnswer": 0,
      "explanation": "Supervised learning trains on labeled examples."
    }
  ]
}`

func TestParseQuestions_Valid(t *testing.T) {
	qs, err := parseQuestions([]byte(validPayload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(qs) != 1 {
		t.Fatalf("expected 1 question, got %d", len(qs))
	}
	if qs[0].CorrectAnswer != 0 {
		t.Errorf("correctAnswer = %d, want 0", qs[0].CorrectAnswer)
	}
	if len(qs[0].Options) != 4 {
		t.Errorf("options = %d, want 4", len(qs[0].Options))
	}
}

func TestParseQuestions_StripsJSONFence(t *testing.T) {
	fenced := "```json\n" + validPayload + "\n```"
	qs, err := parseQuestions([]byte(fenced))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(qs) != 1 {
		t.Fatalf("expected 1 question, got %d", len(qs))
	}
}

func TestParseQuestions_StripsBareFence(t *testing.T) {
	fenced := "```\n" + validPayload + "\n```"
	qs, err := parseQuestions([]byte(fenced))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(qs) != 1 {
		t.Fatalf("expected 1 question, got %d", len(qs))
	}
}

func TestParseQuestions_MalformedJSON(t *testing.T) {
	_, err := parseQuestions([]byte("```json\n{not json}\n```"))
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestParseQuestions_NoQuestions(t *testing.T) {
	_, err := parseQuestions([]byte(`{"questions": []}`))
	if err == nil {
		t.Fatal("expected error for empty questions")
	}
}

func TestParseQuestions_WrongOptionCount(t *testing.T) {
	payload := `{"questions":[{"question":"Q?","options":["A","B"],"correctAnswer":0,"explanation":"e"}]}`
	_, err := parseQuestions([]byte(payload))
	if err == nil {
		t.Fatal("expected error for wrong option count")
	}
	if !strings.Contains(err.Error(), "options") {
		t.Errorf("error = %v, want mention of options", err)
	}
}

func TestParseQuestions_AnswerIndexOutOfRange(t *testing.T) {
	payload := `{"questions":[{"question":"Q?","options":["A","B","C","D"],"correctAnswer":4,"explanation":"e"}]}`
	_, err := parseQuestions([]byte(payload))
	if err == nil {
		t.Fatal("expected error for out-of-range answer index")
	}
}

func TestStripCodeFence_PlainPassthrough(t *testing.T) {
	in := `{"questions": []}`
	if got := stripCodeFence(in); got != in {
		t.Errorf("stripCodeFence changed unfenced input: %q", got)
	}
}
