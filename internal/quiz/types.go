// Package quiz manages versioned multiple-choice quiz documents per topic
// and the state machine that drives a quiz-taking session.
package quiz

import "time"

// Question is one multiple-choice question with exactly four options.
// CorrectAnswer is the zero-based index into Options.
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// Metadata identifies a stored quiz document.
type Metadata struct {
	Version   int       `json:"version"`
	TopicID   string    `json:"topicId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Document is one immutable, versioned quiz for a topic. Documents are
// never edited in place, only superseded by a higher version.
type Document struct {
	Questions []Question `json:"questions"`
	Metadata  Metadata   `json:"metadata"`
}

// VersionInfo summarizes a stored version for listing.
type VersionInfo struct {
	Version       int
	CreatedAt     time.Time
	QuestionCount int
}
