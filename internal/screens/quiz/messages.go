package quiz

import (
	"time"

	"github.com/vuhoang/mlhub/internal/quiz"
)

// versionsLoadedMsg is sent when the stored version list has been read.
// AutoStart asks for the latest version to be loaded straight into the
// quiz; without it the list is shown for browsing.
type versionsLoadedMsg struct {
	Versions  []quiz.VersionInfo
	AutoStart bool
	Err       error
}

// quizReadyMsg is sent when a quiz document has been loaded or generated.
type quizReadyMsg struct {
	Doc *quiz.Document
	Err error
}

// spinnerTickMsg is sent at short intervals to animate the loading spinner.
type spinnerTickMsg time.Time
