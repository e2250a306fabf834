package store

import (
	"context"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.Client() == nil {
		t.Fatal("expected non-nil ent client")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here. It is tested with file-based DBs.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()
	ctx := context.Background()

	sc, err := newSequenceCounter(db)
	if err != nil {
		t.Fatalf("new sequence counter: %v", err)
	}

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := sc.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestAppendAndQueryLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "gemini", Model: "gemini-2.0-flash", Purpose: "lesson", InputTokens: 100, OutputTokens: 400, LatencyMs: 1200, Success: true},
		{Provider: "gemini", Model: "gemini-2.0-flash", Purpose: "quiz", InputTokens: 200, OutputTokens: 800, LatencyMs: 2500, Success: true},
		{Provider: "gemini", Model: "gemini-2.0-flash", Purpose: "quiz", InputTokens: 50, OutputTokens: 0, LatencyMs: 300, Success: false, ErrorMessage: "rate limited"},
	}
	for i, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	got, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}

	// Newest first.
	if got[0].Purpose != "quiz" || got[0].Success {
		t.Errorf("first event = %+v, want failed quiz event", got[0])
	}
	if got[2].Purpose != "lesson" {
		t.Errorf("last event purpose = %q, want 'lesson'", got[2].Purpose)
	}

	// Sequences should be strictly decreasing.
	for i := 1; i < len(got); i++ {
		if got[i].Sequence >= got[i-1].Sequence {
			t.Errorf("sequence not decreasing: %d then %d", got[i-1].Sequence, got[i].Sequence)
		}
	}
}

func TestQueryLLMEventsLimit(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider: "mock", Model: "mock", Purpose: "quiz", Success: true,
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	got, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
}

func TestGetLLMEvent(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider:     "gemini",
		Model:        "gemini-2.0-flash",
		Purpose:      "lesson",
		Success:      true,
		RequestBody:  "[user]\nteach me",
		ResponseBody: "a lesson",
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 event, got %d", len(all))
	}

	e, err := repo.GetLLMEvent(ctx, all[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if e == nil {
		t.Fatal("expected non-nil event")
	}
	if e.RequestBody != "[user]\nteach me" {
		t.Errorf("request body = %q", e.RequestBody)
	}
	if e.ResponseBody != "a lesson" {
		t.Errorf("response body = %q", e.ResponseBody)
	}

	missing, err := repo.GetLLMEvent(ctx, 99999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Fatal("expected nil for missing event")
	}
}

func TestLLMUsageByPurpose(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "gemini", Model: "gemini-2.0-flash", Purpose: "lesson", InputTokens: 100, OutputTokens: 300, LatencyMs: 1000, Success: true},
		{Provider: "gemini", Model: "gemini-2.0-flash", Purpose: "lesson", InputTokens: 100, OutputTokens: 500, LatencyMs: 3000, Success: true},
		{Provider: "gemini", Model: "gemini-2.0-flash", Purpose: "quiz", InputTokens: 250, OutputTokens: 900, LatencyMs: 2000, Success: true},
	}
	for i, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	stats, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 purposes, got %d", len(stats))
	}

	// Alphabetical: lesson, quiz.
	lesson := stats[0]
	if lesson.Purpose != "lesson" || lesson.Calls != 2 {
		t.Errorf("lesson stats = %+v", lesson)
	}
	if lesson.InputTokens != 200 || lesson.OutputTokens != 800 {
		t.Errorf("lesson tokens = %d/%d, want 200/800", lesson.InputTokens, lesson.OutputTokens)
	}
	if lesson.AvgLatencyMs != 2000 {
		t.Errorf("lesson avg latency = %d, want 2000", lesson.AvgLatencyMs)
	}

	quiz := stats[1]
	if quiz.Purpose != "quiz" || quiz.Calls != 1 {
		t.Errorf("quiz stats = %+v", quiz)
	}
}

func TestLLMUsageByModel(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "gemini", Model: "gemini-2.0-flash", Purpose: "quiz", InputTokens: 100, OutputTokens: 200, Success: true},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "quiz", InputTokens: 50, OutputTokens: 100, Success: true},
		{Provider: "gemini", Model: "gemini-2.0-flash", Purpose: "lesson", InputTokens: 300, OutputTokens: 600, Success: true},
	}
	for i, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	usage, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(usage) != 2 {
		t.Fatalf("expected 2 models, got %d", len(usage))
	}

	// Alphabetical: gemini-2.0-flash, gpt-4o-mini.
	if usage[0].Model != "gemini-2.0-flash" || usage[0].Calls != 2 {
		t.Errorf("gemini usage = %+v", usage[0])
	}
	if usage[0].InputTokens != 400 || usage[0].OutputTokens != 800 {
		t.Errorf("gemini tokens = %d/%d, want 400/800", usage[0].InputTokens, usage[0].OutputTokens)
	}
	if usage[1].Model != "gpt-4o-mini" || usage[1].Calls != 1 {
		t.Errorf("gpt usage = %+v", usage[1])
	}
}

func TestAutoMigrationCreatesTable(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	// Check that the LLM event table exists.
	var name string
	err := db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name='llm_request_events'",
	).Scan(&name)
	if err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	if name != "llm_request_events" {
		t.Errorf("table name = %q, want 'llm_request_events'", name)
	}
}

func TestDefaultDBPathRespectsEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MLHUB_DB", dir+"/custom/mlhub.db")

	p, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("default db path: %v", err)
	}
	if p != dir+"/custom/mlhub.db" {
		t.Errorf("path = %q", p)
	}
}
