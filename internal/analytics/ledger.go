// Package analytics maintains the local quiz-attempt log and the
// aggregate statistics derived from it.
package analytics

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/vuhoang/mlhub/internal/blob"
	"github.com/vuhoang/mlhub/internal/quiz"
)

// StorageKey is the fixed blob key holding the serialized ledger.
const StorageKey = "ml-hub-quiz-analytics.json"

// Attempt is one completed quiz session. Attempts are append-only and
// never mutated or deleted individually.
type Attempt struct {
	TopicID        string    `json:"topicId"`
	TopicTitle     string    `json:"topicTitle"`
	QuizVersion    int       `json:"quizVersion"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	Percentage     int       `json:"percentage"`
	Timestamp      time.Time `json:"timestamp"`
	TimeSpent      int64     `json:"timeSpent,omitempty"` // seconds
}

// TopicStats aggregates the attempts of one topic.
type TopicStats struct {
	Attempts     int `json:"attempts"`
	AverageScore int `json:"averageScore"`
	BestScore    int `json:"bestScore"`
}

// Snapshot is the full ledger: the attempt log plus derived aggregates.
// Aggregates are recomputed from the log on every write, so they are
// always consistent with it.
type Snapshot struct {
	Attempts      []Attempt             `json:"attempts"`
	TotalAttempts int                   `json:"totalAttempts"`
	AverageScore  int                   `json:"averageScore"`
	BestScore     int                   `json:"bestScore"`
	TopicStats    map[string]TopicStats `json:"topicStats"`
}

// TopicView is the per-topic dashboard projection.
type TopicView struct {
	Attempts      []Attempt
	TotalAttempts int
	AverageScore  int
	BestScore     int
	Improvement   int
}

// Ledger persists the attempt log as a single JSON blob under StorageKey.
// An absent key is an empty ledger, never an error.
type Ledger struct {
	mu    sync.Mutex
	blobs blob.Store
}

// NewLedger creates a ledger over the given blob store.
func NewLedger(blobs blob.Store) *Ledger {
	return &Ledger{blobs: blobs}
}

// Record appends one attempt, recomputes all aggregates, and persists
// the whole ledger atomically.
func (l *Ledger) Record(a Attempt) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap, err := l.load()
	if err != nil {
		return err
	}

	snap.Attempts = append(snap.Attempts, a)
	recompute(&snap)

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode analytics ledger: %w", err)
	}
	if err := l.blobs.Put(StorageKey, data); err != nil {
		return fmt.Errorf("save analytics ledger: %w", err)
	}
	return nil
}

// RecordAttempt adapts a graded session result into an Attempt record.
// It satisfies the quiz session's recorder interface.
func (l *Ledger) RecordAttempt(result quiz.Result) error {
	return l.Record(Attempt{
		TopicID:        result.TopicID,
		TopicTitle:     result.TopicTitle,
		QuizVersion:    result.Version,
		Score:          result.Score,
		TotalQuestions: result.Total,
		Percentage:     result.Percentage,
		Timestamp:      result.FinishedAt,
	})
}

// Snapshot returns a read-only view of the full ledger.
func (l *Ledger) Snapshot() (Snapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load()
}

// TopicView projects the ledger onto one topic. Improvement is the
// percentage of the chronologically last attempt minus the first, or 0
// with fewer than two attempts.
func (l *Ledger) TopicView(topicID string) (TopicView, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap, err := l.load()
	if err != nil {
		return TopicView{}, err
	}

	var attempts []Attempt
	for _, a := range snap.Attempts {
		if a.TopicID == topicID {
			attempts = append(attempts, a)
		}
	}

	return TopicView{
		Attempts:      attempts,
		TotalAttempts: len(attempts),
		AverageScore:  meanPercentage(attempts),
		BestScore:     bestPercentage(attempts),
		Improvement:   improvement(attempts),
	}, nil
}

// Clear erases the entire ledger. Irreversible; confirmation is a UI
// concern, not handled here.
func (l *Ledger) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := json.Marshal(emptySnapshot())
	if err != nil {
		return fmt.Errorf("encode empty ledger: %w", err)
	}
	if err := l.blobs.Put(StorageKey, data); err != nil {
		return fmt.Errorf("clear analytics ledger: %w", err)
	}
	return nil
}

// load reads the stored ledger. A missing key or a blob that fails to
// decode yields an empty ledger.
func (l *Ledger) load() (Snapshot, error) {
	data, found, err := l.blobs.Get(StorageKey)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load analytics ledger: %w", err)
	}
	if !found {
		return emptySnapshot(), nil
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return emptySnapshot(), nil
	}
	if snap.TopicStats == nil {
		snap.TopicStats = make(map[string]TopicStats)
	}
	return snap, nil
}

func emptySnapshot() Snapshot {
	return Snapshot{
		Attempts:   []Attempt{},
		TopicStats: make(map[string]TopicStats),
	}
}

// recompute rebuilds every aggregate from the attempt log.
func recompute(snap *Snapshot) {
	snap.TotalAttempts = len(snap.Attempts)
	snap.AverageScore = meanPercentage(snap.Attempts)
	snap.BestScore = bestPercentage(snap.Attempts)

	snap.TopicStats = make(map[string]TopicStats)
	byTopic := make(map[string][]Attempt)
	for _, a := range snap.Attempts {
		byTopic[a.TopicID] = append(byTopic[a.TopicID], a)
	}
	for topicID, attempts := range byTopic {
		snap.TopicStats[topicID] = TopicStats{
			Attempts:     len(attempts),
			AverageScore: meanPercentage(attempts),
			BestScore:    bestPercentage(attempts),
		}
	}
}

// meanPercentage is the round-half-up mean of attempt percentages,
// 0 for an empty set.
func meanPercentage(attempts []Attempt) int {
	if len(attempts) == 0 {
		return 0
	}
	sum := 0
	for _, a := range attempts {
		sum += a.Percentage
	}
	return int(math.Floor(float64(sum)/float64(len(attempts)) + 0.5))
}

func bestPercentage(attempts []Attempt) int {
	best := 0
	for _, a := range attempts {
		if a.Percentage > best {
			best = a.Percentage
		}
	}
	return best
}

func improvement(attempts []Attempt) int {
	if len(attempts) < 2 {
		return 0
	}
	sorted := make([]Attempt, len(attempts))
	copy(sorted, attempts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted[len(sorted)-1].Percentage - sorted[0].Percentage
}
