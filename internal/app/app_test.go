package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skillforge/internal/learning"
	"github.com/abhisek/skillforge/internal/llm"
	"github.com/abhisek/skillforge/internal/orchestrator"
	"github.com/abhisek/skillforge/internal/router"
	"github.com/abhisek/skillforge/internal/screen"
)

type modalScreen struct {
	modal bool
	keys  []string
}

func (s *modalScreen) Init() tea.Cmd { return nil }
func (s *modalScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		s.keys = append(s.keys, k.String())
	}
	return s, nil
}
func (s *modalScreen) View(int, int) string { return "" }
func (s *modalScreen) Title() string        { return "modal" }
func (s *modalScreen) Modal() bool          { return s.modal }

func newModel() AppModel {
	profiles := llm.Profiles{Fast: llm.NewMockProvider(), Reasoning: llm.NewMockProvider(), Image: llm.NewMockProvider()}
	return newAppModel(Options{
		Orchestrator: orchestrator.New(profiles, orchestrator.DefaultConfig(), nil),
		Tracker:      learning.NewTracker(&learning.UserProfile{Name: "Ada", Streak: 1}, nil),
	})
}

func TestEscPopsNonModalScreen(t *testing.T) {
	m := newModel()
	m.router.Push(&modalScreen{})

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestEscForwardedToModalScreen(t *testing.T) {
	m := newModel()
	s := &modalScreen{modal: true}
	m.router.Push(s)

	m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if len(s.keys) != 1 || s.keys[0] != "esc" {
		t.Errorf("modal screen keys = %v, want [esc]", s.keys)
	}
	if m.router.Depth() != 2 {
		t.Errorf("depth = %d, want 2", m.router.Depth())
	}
}

func TestEscAtRootIsNoop(t *testing.T) {
	m := newModel()
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd != nil {
		t.Error("expected no command at root")
	}
}
