package lesson

import "time"

// lessonReadyMsg is sent when lesson content has been loaded or generated.
type lessonReadyMsg struct {
	Text      string
	FromCache bool
	Err       error
}

// regeneratedMsg is sent when a forced regeneration completes.
type regeneratedMsg struct {
	Text string
	Err  error
}

// spinnerTickMsg is sent at short intervals to animate the loading spinner.
type spinnerTickMsg time.Time
