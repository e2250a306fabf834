package quiz

import "github.com/vuhoang/mlhub/internal/llm"

// DocumentSchema defines the JSON schema for LLM quiz generation responses.
// Metadata is stamped locally after parsing, so only questions are requested.
var DocumentSchema = &llm.Schema{
	Name:        "ml-quiz",
	Description: "A multiple-choice quiz about Machine Learning lesson content",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":        "array",
				"minItems":    float64(QuestionCount),
				"maxItems":    float64(QuestionCount),
				"description": "Exactly 8 multiple-choice questions, ordered easy to hard",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The question text, directly related to the lesson content",
						},
						"options": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "string",
							},
							"minItems":    float64(OptionCount),
							"maxItems":    float64(OptionCount),
							"description": "Exactly 4 answer options, prefixed A. through D.",
						},
						"correctAnswer": map[string]any{
							"type":        "integer",
							"minimum":     float64(0),
							"maximum":     float64(OptionCount - 1),
							"description": "Zero-based index of the correct option",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "Why the correct answer is right and the others are wrong",
						},
					},
					"required":             []any{"question", "options", "correctAnswer", "explanation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
