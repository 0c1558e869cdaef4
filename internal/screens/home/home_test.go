package home

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skillforge/internal/learning"
	"github.com/abhisek/skillforge/internal/llm"
	"github.com/abhisek/skillforge/internal/orchestrator"
	"github.com/abhisek/skillforge/internal/router"
)

func newTracker() *learning.Tracker {
	return learning.NewTracker(&learning.UserProfile{Name: "Ada", Tool: "Blender", XP: 120, Streak: 3}, nil)
}

func newOrchestrator() *orchestrator.Orchestrator {
	profiles := llm.Profiles{Fast: llm.NewMockProvider(), Reasoning: llm.NewMockProvider(), Image: llm.NewMockProvider()}
	return orchestrator.New(profiles, orchestrator.DefaultConfig(), nil)
}

func selectItem(t *testing.T, h *HomeScreen, index int) tea.Msg {
	t.Helper()
	for i := 0; i < index; i++ {
		h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	return cmd()
}

func TestMenuPushesScreens(t *testing.T) {
	tests := []struct {
		index int
		title string
	}{
		{0, "Learning Path"},
		{1, "Daily Challenge"},
		{2, "Mentor Chat"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			h := New(newOrchestrator(), newTracker())
			msg, ok := selectItem(t, h, tt.index).(router.PushScreenMsg)
			if !ok {
				t.Fatal("expected PushScreenMsg")
			}
			if msg.Screen.Title() != tt.title {
				t.Errorf("pushed %q, want %q", msg.Screen.Title(), tt.title)
			}
		})
	}
}

func TestMenuWithoutBackendShowsNotice(t *testing.T) {
	h := New(nil, newTracker())
	msg, ok := selectItem(t, h, 1).(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if !strings.Contains(msg.Screen.View(80, 20), "not configured") {
		t.Error("expected backend notice")
	}
}

func TestViewShowsStats(t *testing.T) {
	tracker := newTracker()
	path := &learning.LearningPath{Steps: []learning.Step{{ID: "a"}, {ID: "b"}}}
	learning.Normalize(path)
	tracker.SetPath(path)
	if _, err := tracker.Complete("a"); err != nil {
		t.Fatal(err)
	}

	view := New(newOrchestrator(), tracker).View(120, 40)
	for _, want := range []string{"170 XP", "1/2 STEPS", "3 DAY STREAK"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
