package store

import (
	"context"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	// A named in-memory database keeps tests isolated from each other.
	s, err := Open("file:" + t.Name() + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is not checked here.
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

func TestAutoMigrationCreatesTable(t *testing.T) {
	s := openTestStore(t)

	var name string
	err := s.DB().QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name='llm_request_events'",
	).Scan(&name)
	if err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	if name != "llm_request_events" {
		t.Errorf("table name = %q, want 'llm_request_events'", name)
	}
}

func TestAppendAndQueryLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "gemini", Model: "gemini-2.5-pro", Purpose: "learning-path", InputTokens: 100, OutputTokens: 400, LatencyMs: 900, Success: true},
		{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "hint", InputTokens: 20, OutputTokens: 10, LatencyMs: 100, Success: true},
		{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "hint", LatencyMs: 300, Success: false, ErrorMessage: "boom"},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	// Newest first.
	if got[0].ErrorMessage != "boom" || got[0].Success {
		t.Errorf("newest event = %+v, want the failed hint", got[0])
	}
	if got[2].Purpose != "learning-path" {
		t.Errorf("oldest purpose = %q, want learning-path", got[2].Purpose)
	}
	if time.Since(got[0].Timestamp) > time.Minute {
		t.Errorf("timestamp %v is not recent", got[0].Timestamp)
	}

	hints, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "hint", Limit: 1})
	if err != nil {
		t.Fatalf("query hints: %v", err)
	}
	if len(hints) != 1 || hints[0].Purpose != "hint" {
		t.Fatalf("hints = %+v, want one hint event", hints)
	}

	after, err := repo.QueryLLMEvents(ctx, QueryOpts{After: int64(got[1].ID)})
	if err != nil {
		t.Fatalf("query after: %v", err)
	}
	if len(after) != 1 || after[0].ID != got[0].ID {
		t.Fatalf("after = %+v, want only the newest event", after)
	}
}

func TestGetLLMEvent(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider:     "anthropic",
		Model:        "claude-haiku-4-5-20251001",
		Purpose:      "chat",
		Success:      true,
		RequestBody:  "[user]\nhello",
		ResponseBody: "hi there",
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	list, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 1})
	if err != nil || len(list) != 1 {
		t.Fatalf("query: %v (len %d)", err, len(list))
	}

	e, err := repo.GetLLMEvent(ctx, list[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if e == nil {
		t.Fatal("expected event")
	}
	if e.RequestBody != "[user]\nhello" || e.ResponseBody != "hi there" {
		t.Errorf("bodies = %q / %q", e.RequestBody, e.ResponseBody)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing event, got %+v", missing)
	}
}

func TestLLMUsageAggregates(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, e := range []LLMRequestEventData{
		{Model: "gemini-2.5-flash", Purpose: "chat", InputTokens: 10, OutputTokens: 20, LatencyMs: 100, Success: true},
		{Model: "gemini-2.5-flash", Purpose: "chat", InputTokens: 30, OutputTokens: 40, LatencyMs: 300, Success: true},
		{Model: "gemini-2.5-pro", Purpose: "evaluation", InputTokens: 500, OutputTokens: 50, LatencyMs: 2000, Success: true},
	} {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("len = %d, want 2", len(byPurpose))
	}
	chat := byPurpose[0]
	if chat.Purpose != "chat" || chat.Calls != 2 || chat.InputTokens != 40 || chat.OutputTokens != 60 || chat.AvgLatencyMs != 200 {
		t.Errorf("chat usage = %+v", chat)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 2 {
		t.Fatalf("len = %d, want 2", len(byModel))
	}
	if byModel[1].Model != "gemini-2.5-pro" || byModel[1].InputTokens != 500 {
		t.Errorf("pro usage = %+v", byModel[1])
	}
}

func TestLLMUsageFailuresAndProfiles(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, e := range []LLMRequestEventData{
		{Model: "gemini-2.5-flash", Profile: "fast", Purpose: "hint", InputTokens: 10, OutputTokens: 5, Success: true},
		{Model: "gemini-2.5-flash", Profile: "fast", Purpose: "hint", Success: false, ErrorMessage: "timeout"},
		{Model: "gemini-2.5-flash", Profile: "fast", Purpose: "hint", Success: false, ErrorMessage: "timeout"},
		{Model: "gemini-2.5-pro", Profile: "reasoning", Purpose: "review", InputTokens: 300, OutputTokens: 20, Success: true},
		{Model: "gemini-2.5-flash-image", Profile: "image", Purpose: "challenge-image", Success: false, ErrorMessage: "no image"},
	} {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	rates := map[string]float64{}
	for _, st := range byPurpose {
		rates[st.Purpose] = st.FailureRate()
	}
	if got := rates["hint"]; got < 0.66 || got > 0.67 {
		t.Errorf("hint failure rate = %v, want 2/3", got)
	}
	if rates["review"] != 0 || rates["challenge-image"] != 1 {
		t.Errorf("rates = %v", rates)
	}

	byProfile, err := repo.LLMUsageByProfile(ctx)
	if err != nil {
		t.Fatalf("usage by profile: %v", err)
	}
	if len(byProfile) != 3 {
		t.Fatalf("len = %d, want 3", len(byProfile))
	}
	fast := byProfile[0]
	if fast.Profile != "fast" || fast.Calls != 3 || fast.Failures != 2 || fast.InputTokens != 10 {
		t.Errorf("fast usage = %+v", fast)
	}
	if byProfile[1].Profile != "image" || byProfile[2].Profile != "reasoning" {
		t.Errorf("profile order = %q, %q", byProfile[1].Profile, byProfile[2].Profile)
	}

	failed, err := repo.QueryLLMEvents(ctx, QueryOpts{Failed: true, Profile: "fast"})
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(failed) != 2 || failed[0].Profile != "fast" || failed[0].Success {
		t.Errorf("failed fast events = %+v", failed)
	}
}

func TestEnsureDir(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/nested/deeper/skillforge.db"
	if err := EnsureDir(path); err != nil {
		t.Fatalf("ensure dir: %v", err)
	}
	t.Setenv("SKILLFORGE_DB", path)
	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("default path: %v", err)
	}
	if got != path {
		t.Errorf("path = %q, want %q", got, path)
	}
}
