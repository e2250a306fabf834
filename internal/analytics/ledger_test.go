package analytics

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/vuhoang/mlhub/internal/blob"
	"github.com/vuhoang/mlhub/internal/quiz"
)

func attempt(topicID string, percentage int, at time.Time) Attempt {
	return Attempt{
		TopicID:        topicID,
		TopicTitle:     strings.ToUpper(topicID),
		QuizVersion:    1,
		Score:          percentage * 8 / 100,
		TotalQuestions: 8,
		Percentage:     percentage,
		Timestamp:      at,
	}
}

func TestSnapshotEmptyLedger(t *testing.T) {
	l := NewLedger(blob.NewMemory())

	snap, err := l.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.TotalAttempts != 0 {
		t.Errorf("totalAttempts = %d, want 0", snap.TotalAttempts)
	}
	// Empty set yields 0, never NaN or an error.
	if snap.AverageScore != 0 || snap.BestScore != 0 {
		t.Errorf("avg/best = %d/%d, want 0/0", snap.AverageScore, snap.BestScore)
	}
	if snap.TopicStats == nil {
		t.Error("topicStats map is nil")
	}
}

func TestRecordRecomputesAggregates(t *testing.T) {
	l := NewLedger(blob.NewMemory())
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	for i, p := range []int{60, 80, 100} {
		err := l.Record(attempt("what-is-ml", p, base.Add(time.Duration(i)*time.Hour)))
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	snap, err := l.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.TotalAttempts != 3 {
		t.Errorf("totalAttempts = %d, want 3", snap.TotalAttempts)
	}
	if snap.AverageScore != 80 {
		t.Errorf("averageScore = %d, want 80", snap.AverageScore)
	}
	if snap.BestScore != 100 {
		t.Errorf("bestScore = %d, want 100", snap.BestScore)
	}

	stats, ok := snap.TopicStats["what-is-ml"]
	if !ok {
		t.Fatal("missing topic stats")
	}
	if stats.Attempts != 3 || stats.AverageScore != 80 || stats.BestScore != 100 {
		t.Errorf("topic stats = %+v", stats)
	}
}

func TestAverageRoundsHalfUp(t *testing.T) {
	l := NewLedger(blob.NewMemory())
	base := time.Now().UTC()

	// Mean of 60 and 75 is 67.5, which rounds up to 68.
	for i, p := range []int{60, 75} {
		if err := l.Record(attempt("overfitting", p, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	snap, _ := l.Snapshot()
	if snap.AverageScore != 68 {
		t.Errorf("averageScore = %d, want 68", snap.AverageScore)
	}
}

func TestTopicStatsAreIndependent(t *testing.T) {
	l := NewLedger(blob.NewMemory())
	base := time.Now().UTC()

	if err := l.Record(attempt("what-is-ml", 40, base)); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := l.Record(attempt("overfitting", 90, base.Add(time.Minute))); err != nil {
		t.Fatalf("record: %v", err)
	}

	snap, _ := l.Snapshot()
	if snap.TopicStats["what-is-ml"].BestScore != 40 {
		t.Errorf("what-is-ml best = %d, want 40", snap.TopicStats["what-is-ml"].BestScore)
	}
	if snap.TopicStats["overfitting"].BestScore != 90 {
		t.Errorf("overfitting best = %d, want 90", snap.TopicStats["overfitting"].BestScore)
	}
}

func TestTopicViewImprovement(t *testing.T) {
	l := NewLedger(blob.NewMemory())
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	// Recorded out of chronological order; improvement uses timestamps.
	if err := l.Record(attempt("neural-networks", 70, base.Add(time.Hour))); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := l.Record(attempt("neural-networks", 50, base)); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := l.Record(attempt("neural-networks", 90, base.Add(2*time.Hour))); err != nil {
		t.Fatalf("record: %v", err)
	}

	view, err := l.TopicView("neural-networks")
	if err != nil {
		t.Fatalf("topic view: %v", err)
	}
	if view.TotalAttempts != 3 {
		t.Errorf("totalAttempts = %d, want 3", view.TotalAttempts)
	}
	if view.Improvement != 40 {
		t.Errorf("improvement = %d, want 40", view.Improvement)
	}
	if view.AverageScore != 70 {
		t.Errorf("averageScore = %d, want 70", view.AverageScore)
	}
	if view.BestScore != 90 {
		t.Errorf("bestScore = %d, want 90", view.BestScore)
	}
}

func TestTopicViewSingleAttemptNoImprovement(t *testing.T) {
	l := NewLedger(blob.NewMemory())
	if err := l.Record(attempt("terminology", 75, time.Now().UTC())); err != nil {
		t.Fatalf("record: %v", err)
	}

	view, err := l.TopicView("terminology")
	if err != nil {
		t.Fatalf("topic view: %v", err)
	}
	if view.Improvement != 0 {
		t.Errorf("improvement = %d, want 0", view.Improvement)
	}
}

func TestTopicViewUnknownTopic(t *testing.T) {
	l := NewLedger(blob.NewMemory())

	view, err := l.TopicView("no-such-topic")
	if err != nil {
		t.Fatalf("topic view: %v", err)
	}
	if view.TotalAttempts != 0 || view.AverageScore != 0 || view.BestScore != 0 {
		t.Errorf("view = %+v, want zeros", view)
	}
}

func TestClearErasesLedger(t *testing.T) {
	l := NewLedger(blob.NewMemory())
	if err := l.Record(attempt("what-is-ml", 80, time.Now().UTC())); err != nil {
		t.Fatalf("record: %v", err)
	}

	if err := l.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}

	snap, err := l.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.TotalAttempts != 0 || len(snap.Attempts) != 0 {
		t.Errorf("ledger not empty after clear: %+v", snap)
	}
}

func TestCorruptLedgerTreatedAsEmpty(t *testing.T) {
	blobs := blob.NewMemory()
	if err := blobs.Put(StorageKey, []byte("{not json")); err != nil {
		t.Fatalf("seed corrupt blob: %v", err)
	}

	l := NewLedger(blobs)
	snap, err := l.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.TotalAttempts != 0 {
		t.Errorf("totalAttempts = %d, want 0", snap.TotalAttempts)
	}
}

func TestRecordFailedPutSurfacesError(t *testing.T) {
	blobs := blob.NewMemory()
	blobs.FailPuts = true
	l := NewLedger(blobs)

	err := l.Record(attempt("what-is-ml", 50, time.Now().UTC()))
	if err == nil {
		t.Fatal("expected error from failing store")
	}
}

func TestRecordAttemptAdaptsSessionResult(t *testing.T) {
	l := NewLedger(blob.NewMemory())

	err := l.RecordAttempt(quiz.Result{
		TopicID:    "ml-pipeline",
		TopicTitle: "The ML Pipeline",
		Version:    3,
		Score:      6,
		Total:      8,
		Percentage: 75,
		FinishedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("record attempt: %v", err)
	}

	snap, _ := l.Snapshot()
	if len(snap.Attempts) != 1 {
		t.Fatalf("attempts = %d, want 1", len(snap.Attempts))
	}
	a := snap.Attempts[0]
	if a.QuizVersion != 3 || a.Score != 6 || a.TotalQuestions != 8 || a.Percentage != 75 {
		t.Errorf("attempt = %+v", a)
	}
}

func TestLedgerRoundTripsThroughJSON(t *testing.T) {
	blobs := blob.NewMemory()
	l := NewLedger(blobs)
	if err := l.Record(attempt("what-is-ml", 88, time.Now().UTC())); err != nil {
		t.Fatalf("record: %v", err)
	}

	// The stored blob uses the dashboard's field names.
	data, found, err := blobs.Get(StorageKey)
	if err != nil || !found {
		t.Fatalf("get blob: found=%v err=%v", found, err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal stored ledger: %v", err)
	}
	for _, field := range []string{"attempts", "totalAttempts", "averageScore", "bestScore", "topicStats"} {
		if _, ok := raw[field]; !ok {
			t.Errorf("stored ledger missing field %q", field)
		}
	}
}
