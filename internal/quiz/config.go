package quiz

// QuestionCount is the number of questions in every generated quiz.
const QuestionCount = 8

// OptionCount is the number of answer options per question.
const OptionCount = 4

// contentPrefixLimit bounds how much lesson content is fed into the
// generation prompt, respecting provider input limits.
const contentPrefixLimit = 3000

// Config holds quiz generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns sensible defaults for quiz generation.
// A high temperature keeps regenerated quizzes distinct from prior versions.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   4096,
		Temperature: 0.9,
	}
}
